package control

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/spherefall/internal/config"
	"github.com/san-kum/spherefall/internal/dynamo"
)

func TestNormalize(t *testing.T) {
	vp := dynamo.Viewport{Left: 10, Top: 20, Width: 200, Height: 100}
	tests := []struct {
		name   string
		ev     dynamo.PointerEvent
		wx, wy float64
	}{
		{"top left", dynamo.PointerEvent{X: 10, Y: 20}, -1, 1},
		{"bottom right", dynamo.PointerEvent{X: 210, Y: 120}, 1, -1},
		{"center", dynamo.PointerEvent{X: 110, Y: 70}, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := Normalize(tt.ev, vp)
			if math.Abs(x-tt.wx) > 1e-12 || math.Abs(y-tt.wy) > 1e-12 {
				t.Errorf("got (%f, %f), want (%f, %f)", x, y, tt.wx, tt.wy)
			}
		})
	}
}

func TestResolveCenterLookingDown(t *testing.T) {
	cam := dynamo.Camera{Position: mgl64.Vec3{0, 10, 0}, Target: mgl64.Vec3{0, 0, 0}, Up: mgl64.Vec3{0, 1, 0}, FovY: 55}
	vp := dynamo.Viewport{Width: 640, Height: 480}

	p, ok := ResolveSpawnPoint(dynamo.PointerEvent{X: 320, Y: 240}, vp, cam, -1.34)
	if !ok {
		t.Fatal("expected a spawn point")
	}
	if !p.ApproxEqualThreshold(mgl64.Vec3{0, -1.34, 0}, 1e-9) {
		t.Errorf("got %v, want point directly below camera", p)
	}
}

func TestResolveCenterForwardAxis(t *testing.T) {
	// camera tilted down the -Z axis: the centre ray lands on the plane
	// straight ahead of it
	cam := dynamo.Camera{Position: mgl64.Vec3{0, 2, 0}, Target: mgl64.Vec3{0, 0, -2}, Up: mgl64.Vec3{0, 1, 0}, FovY: 60}
	vp := dynamo.Viewport{Width: 100, Height: 100}

	p, ok := ResolveSpawnPoint(dynamo.PointerEvent{X: 50, Y: 50}, vp, cam, 0)
	if !ok {
		t.Fatal("expected a spawn point")
	}
	if !p.ApproxEqualThreshold(mgl64.Vec3{0, 0, -2}, 1e-9) {
		t.Errorf("got %v, want (0, 0, -2)", p)
	}
}

func TestResolveZeroViewport(t *testing.T) {
	cam := dynamo.CameraFromConfig(config.Default().Scene.Camera)
	for _, vp := range []dynamo.Viewport{
		{Width: 0, Height: 480},
		{Width: 640, Height: 0},
		{},
	} {
		if _, ok := ResolveSpawnPoint(dynamo.PointerEvent{X: 1, Y: 1}, vp, cam, 0); ok {
			t.Errorf("viewport %+v should not resolve", vp)
		}
	}
}

func TestResolveAboveHorizonMisses(t *testing.T) {
	cam := dynamo.Camera{Position: mgl64.Vec3{0, 1, 0}, Target: mgl64.Vec3{0, 1, -5}, Up: mgl64.Vec3{0, 1, 0}, FovY: 60}
	vp := dynamo.Viewport{Width: 100, Height: 100}

	// upper edge of the screen points into the sky
	if _, ok := ResolveSpawnPoint(dynamo.PointerEvent{X: 50, Y: 0}, vp, cam, 0); ok {
		t.Error("ray above the horizon should miss the floor")
	}
	// lower edge hits it
	if _, ok := ResolveSpawnPoint(dynamo.PointerEvent{X: 50, Y: 100}, vp, cam, 0); !ok {
		t.Error("ray below the horizon should hit the floor")
	}
}

func TestResolveDefaultScene(t *testing.T) {
	cfg := config.Default()
	cam := dynamo.CameraFromConfig(cfg.Scene.Camera)
	vp := dynamo.Viewport{Width: 1280, Height: 720}

	p, ok := ResolveSpawnPoint(dynamo.PointerEvent{X: 640, Y: 360}, vp, cam, cfg.SpawnPlaneY())
	if !ok {
		t.Fatal("centre of default scene should hit the floor")
	}
	if math.Abs(p.Y()-cfg.SpawnPlaneY()) > 1e-9 {
		t.Errorf("hit y = %f, want %f", p.Y(), cfg.SpawnPlaneY())
	}
	if math.Abs(p.X()) > 1e-9 {
		t.Errorf("centre click should stay on x = 0, got %f", p.X())
	}
	if p.Z() >= cam.Position.Z() {
		t.Errorf("hit should be in front of the camera, z = %f", p.Z())
	}
}
