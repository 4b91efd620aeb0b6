package integrators

import "github.com/go-gl/mathgl/mgl64"

// Verlet is velocity Verlet for an acceleration held constant over the
// step, which makes free flight exact.
type Verlet struct{}

func NewVerlet() *Verlet {
	return &Verlet{}
}

func (vv *Verlet) Name() string { return "verlet" }

func (vv *Verlet) IntegrateVelocity(v *mgl64.Vec3, acc mgl64.Vec3, dt float64) {
	*v = v.Add(acc.Mul(dt))
}

// IntegratePosition uses x += v0*dt + a*dt²/2 with v0 = v - a*dt.
func (vv *Verlet) IntegratePosition(x *mgl64.Vec3, v, acc mgl64.Vec3, dt float64) {
	*x = x.Add(v.Mul(dt)).Sub(acc.Mul(0.5 * dt * dt))
}
