// Package integrators advances rigid-body state over one fixed step.
//
// The physics world splits every step in two: velocities are integrated
// first so the contact solver can correct them, then positions are
// integrated from the corrected velocities. An Integrator decides how the
// step's acceleration enters the position update.
package integrators

import (
	"errors"
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

var ErrUnknown = errors.New("integrators: unknown integrator")

type Integrator interface {
	Name() string
	// IntegrateVelocity applies acceleration acc over dt.
	IntegrateVelocity(v *mgl64.Vec3, acc mgl64.Vec3, dt float64)
	// IntegratePosition moves x given the velocity at the end of the step.
	IntegratePosition(x *mgl64.Vec3, v, acc mgl64.Vec3, dt float64)
}

var registry = map[string]func() Integrator{
	"euler":      func() Integrator { return NewEuler() },
	"symplectic": func() Integrator { return NewSymplecticEuler() },
	"verlet":     func() Integrator { return NewVerlet() },
}

func Get(name string) (Integrator, error) {
	factory, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknown, name)
	}
	return factory(), nil
}

func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IntegrateOrientation rotates q by angular velocity w over dt and
// renormalizes it.
func IntegrateOrientation(q mgl64.Quat, w mgl64.Vec3, dt float64) mgl64.Quat {
	if w.Len() == 0 {
		return q
	}
	spin := mgl64.Quat{W: 0, V: w}.Mul(q).Scale(0.5 * dt)
	return q.Add(spin).Normalize()
}
