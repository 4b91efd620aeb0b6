package physics

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/spherefall/internal/dynamo"
)

type BodyType int

const (
	Dynamic BodyType = iota
	Static
)

type ShapeKind int

const (
	SphereShape ShapeKind = iota
	// PlaneShape is infinite; its normal is the body's local +Z.
	PlaneShape
)

type SleepState int

const (
	Awake SleepState = iota
	Sleepy
	Sleeping
)

func (s SleepState) String() string {
	switch s {
	case Awake:
		return "awake"
	case Sleepy:
		return "sleepy"
	case Sleeping:
		return "sleeping"
	}
	return "unknown"
}

type Body struct {
	ID       dynamo.BodyID
	Type     BodyType
	Shape    ShapeKind
	Radius   float64
	Material *Material

	Position        mgl64.Vec3
	Velocity        mgl64.Vec3
	Orientation     mgl64.Quat
	AngularVelocity mgl64.Vec3

	Mass           float64
	LinearDamping  float64
	AngularDamping float64

	invMass    float64
	invInertia float64

	sleep    SleepState
	idleTime float64
}

func newSphere(spec dynamo.SphereSpec) *Body {
	b := &Body{
		Type:           Dynamic,
		Shape:          SphereShape,
		Radius:         spec.Radius,
		Position:       spec.Position,
		Orientation:    mgl64.QuatIdent(),
		Mass:           spec.Mass,
		LinearDamping:  spec.LinearDamping,
		AngularDamping: spec.AngularDamping,
	}
	if spec.Mass > 0 {
		b.invMass = 1 / spec.Mass
		// solid sphere: I = 2/5 m r²
		if i := 0.4 * spec.Mass * spec.Radius * spec.Radius; i > 0 {
			b.invInertia = 1 / i
		}
	} else {
		b.Type = Static
	}
	return b
}

func newPlane(position mgl64.Vec3, orientation mgl64.Quat) *Body {
	return &Body{
		Type:        Static,
		Shape:       PlaneShape,
		Position:    position,
		Orientation: orientation,
	}
}

// Normal is the world-space normal of a plane body.
func (b *Body) Normal() mgl64.Vec3 {
	return b.Orientation.Rotate(mgl64.Vec3{0, 0, 1})
}

func (b *Body) Sleep() SleepState { return b.sleep }

func (b *Body) active() bool {
	return b.Type == Dynamic && b.sleep != Sleeping
}

// effective inverse mass: sleeping bodies behave as static until woken
func (b *Body) im() float64 {
	if !b.active() {
		return 0
	}
	return b.invMass
}

func (b *Body) ii() float64 {
	if !b.active() {
		return 0
	}
	return b.invInertia
}

func (b *Body) WakeUp() {
	if b.Type != Dynamic {
		return
	}
	b.sleep = Awake
	b.idleTime = 0
}

func (b *Body) applyImpulse(p, r mgl64.Vec3) {
	b.Velocity = b.Velocity.Add(p.Mul(b.im()))
	b.AngularVelocity = b.AngularVelocity.Add(r.Cross(p).Mul(b.ii()))
}

// velocityAt is the velocity of the material point at offset r from the
// centre.
func (b *Body) velocityAt(r mgl64.Vec3) mgl64.Vec3 {
	return b.Velocity.Add(b.AngularVelocity.Cross(r))
}

func (b *Body) kineticEnergy() float64 {
	if b.Type != Dynamic {
		return 0
	}
	e := 0.5 * b.Mass * b.Velocity.Dot(b.Velocity)
	if b.invInertia > 0 {
		e += 0.5 / b.invInertia * b.AngularVelocity.Dot(b.AngularVelocity)
	}
	return e
}

// aabb bounds of a sphere; planes have none
func (b *Body) aabb() (lo, hi mgl64.Vec3) {
	r := mgl64.Vec3{b.Radius, b.Radius, b.Radius}
	return b.Position.Sub(r), b.Position.Add(r)
}
