package integrators

import "github.com/go-gl/mathgl/mgl64"

// Euler is explicit Euler: position moves with the velocity from the start
// of the step.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Name() string { return "euler" }

func (e *Euler) IntegrateVelocity(v *mgl64.Vec3, acc mgl64.Vec3, dt float64) {
	*v = v.Add(acc.Mul(dt))
}

func (e *Euler) IntegratePosition(x *mgl64.Vec3, v, acc mgl64.Vec3, dt float64) {
	start := v.Sub(acc.Mul(dt))
	*x = x.Add(start.Mul(dt))
}

// SymplecticEuler moves position with the end-of-step velocity. Stable for
// stacked contacts and the default.
type SymplecticEuler struct{}

func NewSymplecticEuler() *SymplecticEuler {
	return &SymplecticEuler{}
}

func (s *SymplecticEuler) Name() string { return "symplectic" }

func (s *SymplecticEuler) IntegrateVelocity(v *mgl64.Vec3, acc mgl64.Vec3, dt float64) {
	*v = v.Add(acc.Mul(dt))
}

func (s *SymplecticEuler) IntegratePosition(x *mgl64.Vec3, v, acc mgl64.Vec3, dt float64) {
	*x = x.Add(v.Mul(dt))
}
