package sim

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/spherefall/internal/config"
	"github.com/san-kum/spherefall/internal/dynamo"
)

// fakeWorld moves every body down by one unit per second of step time.
type fakeWorld struct {
	bodies    map[dynamo.BodyID]mgl64.Vec3
	order     []dynamo.BodyID
	next      dynamo.BodyID
	steps     []float64
	removed   []dynamo.BodyID
	disposals int
	energy    float64
}

func newFakeWorld() *fakeWorld {
	return &fakeWorld{bodies: make(map[dynamo.BodyID]mgl64.Vec3), next: 1}
}

func (w *fakeWorld) AddSphere(spec dynamo.SphereSpec) dynamo.BodyID {
	id := w.next
	w.next++
	w.bodies[id] = spec.Position
	w.order = append(w.order, id)
	return id
}

func (w *fakeWorld) RemoveBody(id dynamo.BodyID) {
	if _, ok := w.bodies[id]; !ok {
		return
	}
	delete(w.bodies, id)
	w.removed = append(w.removed, id)
}

func (w *fakeWorld) Step(dt float64) {
	w.steps = append(w.steps, dt)
	for id, p := range w.bodies {
		w.bodies[id] = p.Sub(mgl64.Vec3{0, dt, 0})
	}
}

func (w *fakeWorld) Transform(id dynamo.BodyID) (mgl64.Vec3, mgl64.Quat) {
	return w.bodies[id], mgl64.QuatRotate(float64(len(w.steps)), mgl64.Vec3{0, 1, 0})
}

func (w *fakeWorld) BodyCount() int { return len(w.bodies) }

func (w *fakeWorld) Dispose() { w.disposals++ }

func (w *fakeWorld) KineticEnergy() float64 { return w.energy }

func fakePhysics(w *fakeWorld) PhysicsFactory {
	return func(config.Physics, float64) (dynamo.PhysicsWorld, error) {
		return w, nil
	}
}

var errNoPhysics = errors.New("no physics")

func failingPhysics(config.Physics, float64) (dynamo.PhysicsWorld, error) {
	return nil, errNoPhysics
}
