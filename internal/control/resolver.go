package control

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/spherefall/internal/dynamo"
)

var planeNormal = mgl64.Vec3{0, 1, 0}

// Normalize maps client coordinates into [-1, 1] viewport-relative device
// coordinates with y pointing up.
func Normalize(ev dynamo.PointerEvent, vp dynamo.Viewport) (x, y float64) {
	x = (ev.X-vp.Left)/vp.Width*2 - 1
	y = -((ev.Y-vp.Top)/vp.Height)*2 + 1
	return x, y
}

// ResolveSpawnPoint intersects the pointer ray with the plane y = planeY.
// It reports false for an empty viewport or when the ray misses the plane.
func ResolveSpawnPoint(ev dynamo.PointerEvent, vp dynamo.Viewport, cam dynamo.Camera, planeY float64) (mgl64.Vec3, bool) {
	if vp.Empty() {
		return mgl64.Vec3{}, false
	}
	x, y := Normalize(ev, vp)
	ray := cam.Ray(x, y, vp.Aspect())
	return ray.IntersectPlane(planeNormal, -planeY)
}
