package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	// approach speed below which a contact does not bounce; raised to a
	// couple of steps of free fall for coarse steps
	restingSpeed = 0.2
	// penetration left uncorrected to keep contacts alive between steps
	slop = 0.005
	// fraction of the remaining penetration removed per step
	correction = 0.8
)

// contact between A and B with Normal pointing from A into B.
type contact struct {
	a, b   *Body
	normal mgl64.Vec3
	depth  float64
	ra, rb mgl64.Vec3

	friction    float64
	restitution float64

	t1, t2   mgl64.Vec3
	massN    float64
	massT1   float64
	massT2   float64
	bias     float64
	jn       float64
	jt1, jt2 float64
}

// collide fills the geometry of a contact and reports whether the shapes
// overlap.
func collide(a, b *Body) (contact, bool) {
	switch {
	case a.Shape == PlaneShape && b.Shape == SphereShape:
		return planeSphere(a, b)
	case a.Shape == SphereShape && b.Shape == PlaneShape:
		return planeSphere(b, a)
	case a.Shape == SphereShape && b.Shape == SphereShape:
		return sphereSphere(a, b)
	}
	return contact{}, false
}

func planeSphere(plane, sphere *Body) (contact, bool) {
	n := plane.Normal()
	dist := sphere.Position.Sub(plane.Position).Dot(n) - sphere.Radius
	if dist >= 0 {
		return contact{}, false
	}
	point := sphere.Position.Sub(n.Mul(sphere.Radius))
	return contact{
		a:      plane,
		b:      sphere,
		normal: n,
		depth:  -dist,
		ra:     point.Sub(plane.Position),
		rb:     point.Sub(sphere.Position),
	}, true
}

func sphereSphere(a, b *Body) (contact, bool) {
	d := b.Position.Sub(a.Position)
	dist := d.Len()
	sum := a.Radius + b.Radius
	if dist >= sum {
		return contact{}, false
	}
	n := mgl64.Vec3{0, 1, 0}
	if dist > 1e-9 {
		n = d.Mul(1 / dist)
	}
	return contact{
		a:      a,
		b:      b,
		normal: n,
		depth:  sum - dist,
		ra:     n.Mul(a.Radius),
		rb:     n.Mul(-b.Radius),
	}, true
}

func tangents(n mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3) {
	var t1 mgl64.Vec3
	if math.Abs(n.X()) > 0.57735 {
		t1 = mgl64.Vec3{n.Y(), -n.X(), 0}
	} else {
		t1 = mgl64.Vec3{0, n.Z(), -n.Y()}
	}
	t1 = t1.Normalize()
	return t1, n.Cross(t1)
}

func (c *contact) effectiveMass(dir mgl64.Vec3) float64 {
	k := c.a.im() + c.b.im()
	ca := c.ra.Cross(dir)
	cb := c.rb.Cross(dir)
	k += c.a.ii()*ca.Dot(ca) + c.b.ii()*cb.Dot(cb)
	if k == 0 {
		return 0
	}
	return 1 / k
}

func (c *contact) relativeVelocity() mgl64.Vec3 {
	return c.b.velocityAt(c.rb).Sub(c.a.velocityAt(c.ra))
}

func (c *contact) prepare(resting float64) {
	c.t1, c.t2 = tangents(c.normal)
	c.massN = c.effectiveMass(c.normal)
	c.massT1 = c.effectiveMass(c.t1)
	c.massT2 = c.effectiveMass(c.t2)
	c.jn, c.jt1, c.jt2 = 0, 0, 0

	vn := c.relativeVelocity().Dot(c.normal)
	c.bias = 0
	if vn < -resting {
		c.bias = -c.restitution * vn
	}
}

func (c *contact) apply(p mgl64.Vec3) {
	c.a.applyImpulse(p.Mul(-1), c.ra)
	c.b.applyImpulse(p, c.rb)
}

// solve runs one sequential impulse iteration: normal first, then friction
// clamped to the Coulomb cone of the accumulated normal impulse.
func (c *contact) solve() {
	if c.massN == 0 {
		return
	}
	vn := c.relativeVelocity().Dot(c.normal)
	dj := c.massN * (c.bias - vn)
	old := c.jn
	c.jn = math.Max(old+dj, 0)
	c.apply(c.normal.Mul(c.jn - old))

	limit := c.friction * c.jn
	c.jt1 = c.solveTangent(c.t1, c.massT1, c.jt1, limit)
	c.jt2 = c.solveTangent(c.t2, c.massT2, c.jt2, limit)
}

func (c *contact) solveTangent(t mgl64.Vec3, mass, acc, limit float64) float64 {
	if mass == 0 {
		return acc
	}
	vt := c.relativeVelocity().Dot(t)
	next := mgl64.Clamp(acc-mass*vt, -limit, limit)
	c.apply(t.Mul(next - acc))
	return next
}

// correctPosition pushes overlapping bodies apart along the contact normal
// in proportion to their inverse masses.
func (c *contact) correctPosition() {
	fresh, ok := collide(c.a, c.b)
	if !ok {
		return
	}
	depth := fresh.depth - slop
	if depth <= 0 {
		return
	}
	ima, imb := c.a.im(), c.b.im()
	total := ima + imb
	if total == 0 {
		return
	}
	push := fresh.normal.Mul(depth * correction / total)
	c.a.Position = c.a.Position.Sub(push.Mul(ima))
	c.b.Position = c.b.Position.Add(push.Mul(imb))
}
