package sim

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/spherefall/internal/dynamo"
)

// FrameState is the presentation-only state advanced once per rendered
// frame: the reference cube's Euler angles, frame count and clock time.
type FrameState struct {
	RotX, RotY float64
	Number     uint64
	Time       float64
}

func (f *FrameState) Advance(rotationSpeed, dt float64) {
	f.RotX += rotationSpeed
	f.RotY += rotationSpeed
	f.Number++
	f.Time += dt
}

func (f FrameState) CubeRotation() mgl64.Quat {
	return mgl64.AnglesToQuat(f.RotX, f.RotY, 0, mgl64.XYZ)
}

func (f FrameState) Frame() dynamo.Frame {
	return dynamo.Frame{Number: f.Number, Time: f.Time, CubeRotation: f.CubeRotation()}
}
