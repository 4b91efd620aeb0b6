package dynamo

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/spherefall/internal/config"
)

const epsilon = 1e-9

// Camera is a perspective camera. FovY is the vertical field of view in
// degrees.
type Camera struct {
	Position mgl64.Vec3
	Target   mgl64.Vec3
	Up       mgl64.Vec3
	FovY     float64
	Near     float64
	Far      float64
}

func CameraFromConfig(c config.CameraConfig) Camera {
	return Camera{
		Position: c.Position.Mgl(),
		Target:   c.LookAt.Mgl(),
		Up:       mgl64.Vec3{0, 1, 0},
		FovY:     c.Fov,
		Near:     c.Near,
		Far:      c.Far,
	}
}

// Basis returns the camera's orthonormal forward, right and up vectors.
// When looking along Up, -Z is used as the up hint instead.
func (c Camera) Basis() (forward, right, up mgl64.Vec3) {
	forward = c.Target.Sub(c.Position)
	if forward.Len() < epsilon {
		forward = mgl64.Vec3{0, 0, -1}
	}
	forward = forward.Normalize()

	hint := c.Up
	if hint.Len() < epsilon {
		hint = mgl64.Vec3{0, 1, 0}
	}
	right = forward.Cross(hint)
	if right.Len() < epsilon {
		right = forward.Cross(mgl64.Vec3{0, 0, -1})
		if right.Len() < epsilon {
			right = forward.Cross(mgl64.Vec3{1, 0, 0})
		}
	}
	right = right.Normalize()
	up = right.Cross(forward)
	return forward, right, up
}

func (c Camera) tanHalfFov() float64 {
	return math.Tan(mgl64.DegToRad(c.FovY) / 2)
}

type Ray struct {
	Origin    mgl64.Vec3
	Direction mgl64.Vec3
}

func (r Ray) At(t float64) mgl64.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// Ray builds the ray from the camera through a point in normalized device
// coordinates, x and y in [-1, 1] with y pointing up.
func (c Camera) Ray(ndcX, ndcY, aspect float64) Ray {
	forward, right, up := c.Basis()
	t := c.tanHalfFov()
	dir := forward.
		Add(right.Mul(ndcX * t * aspect)).
		Add(up.Mul(ndcY * t))
	return Ray{Origin: c.Position, Direction: dir.Normalize()}
}

// IntersectPlane intersects the ray with the plane normal·p + constant = 0.
// Hits behind the origin do not count; a parallel ray only hits when its
// origin already lies on the plane.
func (r Ray) IntersectPlane(normal mgl64.Vec3, constant float64) (mgl64.Vec3, bool) {
	denom := normal.Dot(r.Direction)
	dist := normal.Dot(r.Origin) + constant
	if math.Abs(denom) < epsilon {
		if math.Abs(dist) < epsilon {
			return r.Origin, true
		}
		return mgl64.Vec3{}, false
	}
	t := -dist / denom
	if t < 0 {
		return mgl64.Vec3{}, false
	}
	return r.At(t), true
}

// Project maps a world point into viewport coordinates. depth is the
// distance along the view axis; ok is false for points at or behind the
// near plane.
func (c Camera) Project(p mgl64.Vec3, vp Viewport) (x, y, depth float64, ok bool) {
	forward, right, up := c.Basis()
	rel := p.Sub(c.Position)
	depth = rel.Dot(forward)
	near := c.Near
	if near <= 0 {
		near = epsilon
	}
	if depth < near {
		return 0, 0, depth, false
	}
	t := c.tanHalfFov()
	ndcX := rel.Dot(right) / (depth * t * vp.Aspect())
	ndcY := rel.Dot(up) / (depth * t)
	x = vp.Left + (ndcX+1)/2*vp.Width
	y = vp.Top + (1-ndcY)/2*vp.Height
	return x, y, depth, true
}

// PixelsPerUnit is the screen size of one world unit at the given depth.
func (c Camera) PixelsPerUnit(depth float64, vp Viewport) float64 {
	if depth <= 0 {
		return 0
	}
	return vp.Height / (2 * depth * c.tanHalfFov())
}
