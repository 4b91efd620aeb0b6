package physics

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/spherefall/internal/config"
	"github.com/san-kum/spherefall/internal/dynamo"
	"github.com/san-kum/spherefall/internal/integrators"
)

const (
	DefaultIterations = 10
	// SleepSpeedLimit is the speed below which a body counts as idle.
	SleepSpeedLimit = 0.1
	// SleepTimeLimit is how long a body must stay idle before sleeping.
	SleepTimeLimit = 1.0
)

type World struct {
	Gravity        mgl64.Vec3
	Iterations     int
	AllowSleep     bool
	DefaultContact ContactMaterial
	SphereMaterial *Material
	GroundMaterial *Material
	integ          integrators.Integrator
	bodies         []*Body
	byID           map[dynamo.BodyID]*Body
	planes         []*Body
	broadphase     SweepAndPrune
	materials      materialTable
	contacts       []contact
	ground         dynamo.BodyID
	nextID         dynamo.BodyID
	time           float64
}

func New(gravity mgl64.Vec3, integ integrators.Integrator) *World {
	if integ == nil {
		integ = integrators.NewSymplecticEuler()
	}
	return &World{
		Gravity:        gravity,
		Iterations:     DefaultIterations,
		DefaultContact: DefaultContactMaterial,
		integ:          integ,
		byID:           make(map[dynamo.BodyID]*Body),
		materials:      make(materialTable),
		nextID:         1,
	}
}

// NewWorld builds the scene's world: gravity, a ground plane at floorY
// facing +Y and a contact material between ground and spheres.
func NewWorld(cfg config.Physics, floorY float64) (*World, error) {
	integ, err := integrators.Get(cfg.Integrator)
	if err != nil {
		return nil, fmt.Errorf("physics world: %w", err)
	}
	w := New(cfg.Gravity.Mgl(), integ)
	w.AllowSleep = cfg.AllowSleep
	w.GroundMaterial = NewMaterial("ground")
	w.SphereMaterial = NewMaterial("sphere")
	w.AddContactMaterial(ContactMaterial{
		A:           w.GroundMaterial,
		B:           w.SphereMaterial,
		Friction:    cfg.Friction,
		Restitution: cfg.Restitution,
	})
	w.AddContactMaterial(ContactMaterial{
		A:           w.SphereMaterial,
		B:           w.SphereMaterial,
		Friction:    cfg.Friction,
		Restitution: cfg.Restitution,
	})

	// a plane's normal is its local +Z; rotate it onto +Y
	rot := mgl64.QuatRotate(-math.Pi/2, mgl64.Vec3{1, 0, 0})
	w.ground = w.AddPlane(mgl64.Vec3{0, floorY, 0}, rot, w.GroundMaterial)
	return w, nil
}

func (w *World) AddContactMaterial(cm ContactMaterial) {
	w.materials.add(cm)
}

func (w *World) insert(b *Body) dynamo.BodyID {
	b.ID = w.nextID
	w.nextID++
	w.bodies = append(w.bodies, b)
	w.byID[b.ID] = b
	if b.Shape == PlaneShape {
		w.planes = append(w.planes, b)
	} else {
		w.broadphase.add(b)
	}
	return b.ID
}

func (w *World) AddPlane(position mgl64.Vec3, orientation mgl64.Quat, m *Material) dynamo.BodyID {
	b := newPlane(position, orientation)
	b.Material = m
	return w.insert(b)
}

// AddSphere adds a dynamic sphere using the world's sphere material.
func (w *World) AddSphere(spec dynamo.SphereSpec) dynamo.BodyID {
	b := newSphere(spec)
	b.Material = w.SphereMaterial
	return w.insert(b)
}

// RemoveBody removes the body and wakes anything that was resting on it.
// Unknown ids are ignored.
func (w *World) RemoveBody(id dynamo.BodyID) {
	b, ok := w.byID[id]
	if !ok {
		return
	}
	delete(w.byID, id)
	for i, other := range w.bodies {
		if other == b {
			w.bodies = append(w.bodies[:i], w.bodies[i+1:]...)
			break
		}
	}
	if b.Shape == PlaneShape {
		for i, other := range w.planes {
			if other == b {
				w.planes = append(w.planes[:i], w.planes[i+1:]...)
				break
			}
		}
	} else {
		w.broadphase.remove(b)
	}

	kept := w.contacts[:0]
	for _, c := range w.contacts {
		if c.a != b && c.b != b {
			kept = append(kept, c)
		}
	}
	w.contacts = kept
	w.wakeNeighbours(b)
}

// wakeNeighbours wakes bodies that were touching b. Sleeping pairs produce
// no contacts, so proximity is checked directly.
func (w *World) wakeNeighbours(b *Body) {
	const margin = 0.01
	for _, other := range w.broadphase.bodies {
		if other.Type != Dynamic {
			continue
		}
		switch b.Shape {
		case PlaneShape:
			other.WakeUp()
		case SphereShape:
			if other.Position.Sub(b.Position).Len() < other.Radius+b.Radius+margin {
				other.WakeUp()
			}
		}
	}
}

func (w *World) Body(id dynamo.BodyID) (*Body, bool) {
	b, ok := w.byID[id]
	return b, ok
}

func (w *World) Ground() dynamo.BodyID { return w.ground }

func (w *World) Transform(id dynamo.BodyID) (mgl64.Vec3, mgl64.Quat) {
	b, ok := w.byID[id]
	if !ok {
		return mgl64.Vec3{}, mgl64.QuatIdent()
	}
	return b.Position, b.Orientation
}

func (w *World) BodyCount() int { return len(w.bodies) }

func (w *World) Time() float64 { return w.time }

// ContactCount is the number of contacts resolved in the last step.
func (w *World) ContactCount() int { return len(w.contacts) }

func (w *World) KineticEnergy() float64 {
	var e float64
	for _, b := range w.bodies {
		e += b.kineticEnergy()
	}
	return e
}

// Step advances the world by dt. Non-positive dt is ignored.
func (w *World) Step(dt float64) {
	if dt <= 0 {
		return
	}
	w.time += dt

	for _, b := range w.bodies {
		if b.active() {
			w.integ.IntegrateVelocity(&b.Velocity, w.Gravity, dt)
		}
	}

	w.findContacts()
	resting := math.Max(restingSpeed, 2*w.Gravity.Len()*dt)
	for i := range w.contacts {
		w.contacts[i].prepare(resting)
	}
	for it := 0; it < w.Iterations; it++ {
		for i := range w.contacts {
			w.contacts[i].solve()
		}
	}

	for _, b := range w.bodies {
		if !b.active() {
			continue
		}
		w.integ.IntegratePosition(&b.Position, b.Velocity, w.Gravity, dt)
		b.Orientation = integrators.IntegrateOrientation(b.Orientation, b.AngularVelocity, dt)
	}
	for i := range w.contacts {
		w.contacts[i].correctPosition()
	}

	for _, b := range w.bodies {
		if !b.active() {
			continue
		}
		b.Velocity = b.Velocity.Mul(math.Pow(1-b.LinearDamping, dt))
		b.AngularVelocity = b.AngularVelocity.Mul(math.Pow(1-b.AngularDamping, dt))
	}

	if w.AllowSleep {
		w.updateSleep(dt)
	}
}

func (w *World) findContacts() {
	w.contacts = w.contacts[:0]
	add := func(a, b *Body) {
		c, ok := collide(a, b)
		if !ok {
			return
		}
		// a moving body hitting a sleeper wakes it
		if c.a.active() && c.b.Type == Dynamic && !c.b.active() && isMoving(c.a) {
			c.b.WakeUp()
		}
		if c.b.active() && c.a.Type == Dynamic && !c.a.active() && isMoving(c.b) {
			c.a.WakeUp()
		}
		cm := w.materials.lookup(a.Material, b.Material, w.DefaultContact)
		c.friction = cm.Friction
		c.restitution = cm.Restitution
		w.contacts = append(w.contacts, c)
	}

	for _, p := range w.planes {
		for _, b := range w.broadphase.bodies {
			if b.active() {
				add(p, b)
			}
		}
	}
	w.broadphase.Pairs(add)
}

func isMoving(b *Body) bool {
	limit := SleepSpeedLimit * SleepSpeedLimit
	return b.Velocity.Dot(b.Velocity) >= limit || b.AngularVelocity.Dot(b.AngularVelocity) >= limit
}

func (w *World) updateSleep(dt float64) {
	for _, b := range w.bodies {
		if !b.active() {
			continue
		}
		if isMoving(b) {
			b.sleep = Awake
			b.idleTime = 0
			continue
		}
		b.sleep = Sleepy
		b.idleTime += dt
		if b.idleTime >= SleepTimeLimit {
			b.sleep = Sleeping
			b.Velocity = mgl64.Vec3{}
			b.AngularVelocity = mgl64.Vec3{}
		}
	}
}

// Dispose removes every body, the ground included. The world must not be
// stepped afterwards.
func (w *World) Dispose() {
	for len(w.bodies) > 0 {
		w.RemoveBody(w.bodies[len(w.bodies)-1].ID)
	}
	w.contacts = nil
}
