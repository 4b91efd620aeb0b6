package dynamo

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/spherefall/internal/config"
)

// BodyID is an opaque handle into a PhysicsWorld.
type BodyID uint32

// MeshID is an opaque handle into a Renderer.
type MeshID uint32

// Viewport is the on-screen rectangle a renderer draws into, in the same
// units the host reports pointer coordinates in.
type Viewport struct {
	Left, Top     float64
	Width, Height float64
}

func (v Viewport) Empty() bool { return v.Width <= 0 || v.Height <= 0 }

func (v Viewport) Aspect() float64 {
	if v.Height == 0 {
		return 1
	}
	return v.Width / v.Height
}

// PointerEvent carries client coordinates of a pointer press.
type PointerEvent struct {
	X, Y   float64
	Button int
}

type SphereSpec struct {
	Position       mgl64.Vec3
	Radius         float64
	Mass           float64
	LinearDamping  float64
	AngularDamping float64
}

type GeometryKind int

const (
	GeometrySphere GeometryKind = iota
	GeometryBox
)

// Geometry describes a shape a renderer may share across meshes.
type Geometry struct {
	Kind     GeometryKind
	Radius   float64
	Size     mgl64.Vec3
	Segments int
}

type Material struct {
	Color     config.Color
	Roughness float64
	Metalness float64
}

// Frame is the ambient per-frame state handed to Renderer.Draw.
type Frame struct {
	Number       uint64
	Time         float64
	CubeRotation mgl64.Quat
}

type PhysicsWorld interface {
	AddSphere(spec SphereSpec) BodyID
	RemoveBody(id BodyID)
	Step(dt float64)
	Transform(id BodyID) (mgl64.Vec3, mgl64.Quat)
	BodyCount() int
	Dispose()
}

// EnergyReporter is implemented by worlds that can report total kinetic
// energy of their dynamic bodies.
type EnergyReporter interface {
	KineticEnergy() float64
}

type Renderer interface {
	Camera() Camera
	Resize(vp Viewport)
	AddMesh(g Geometry, m Material) MeshID
	RemoveMesh(id MeshID)
	SetTransform(id MeshID, pos mgl64.Vec3, rot mgl64.Quat)
	Draw(f Frame)
	Dispose()
}

// FrameRequest is a pending next-frame callback.
type FrameRequest interface {
	Cancel()
}

// Listener is a registered event callback.
type Listener interface {
	Remove()
}

// Host is the environment a simulation runs in: it owns the surface,
// schedules frames and dispatches input. Hosts call back one at a time.
type Host interface {
	Viewport() Viewport
	NewRenderer(scene config.Scene) (Renderer, error)
	RequestFrame(fn func()) FrameRequest
	OnPointerDown(fn func(PointerEvent)) Listener
	OnResize(fn func(Viewport)) Listener
}
