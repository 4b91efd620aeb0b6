package viz

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/spherefall/internal/config"
	"github.com/san-kum/spherefall/internal/dynamo"
)

// Ink layers, in drawing order.
const (
	InkNone uint8 = iota
	InkFloor
	InkCube
	InkSphere
)

const floorDivisions = 8

var cubeEdges = [12][2]int{
	{0, 1}, {1, 3}, {3, 2}, {2, 0},
	{4, 5}, {5, 7}, {7, 6}, {6, 4},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

type mesh struct {
	geometry dynamo.Geometry
	material dynamo.Material
	position mgl64.Vec3
	rotation mgl64.Quat
}

// Renderer draws the scene as braille wireframes. Its viewport is measured
// in dots, two per cell across and four down.
type Renderer struct {
	scene    config.Scene
	camera   dynamo.Camera
	viewport dynamo.Viewport
	canvas   *Canvas
	meshes   map[dynamo.MeshID]*mesh
	nextID   dynamo.MeshID
	frame    dynamo.Frame
	disposed bool
}

func NewRenderer(scene config.Scene) *Renderer {
	return &Renderer{
		scene:  scene,
		camera: dynamo.CameraFromConfig(scene.Camera),
		canvas: NewCanvas(0, 0),
		meshes: make(map[dynamo.MeshID]*mesh),
		nextID: 1,
	}
}

func (r *Renderer) Camera() dynamo.Camera { return r.camera }

func (r *Renderer) Resize(vp dynamo.Viewport) {
	r.viewport = vp
	r.canvas.Resize(int(vp.Width)/2, int(vp.Height)/4)
}

func (r *Renderer) AddMesh(g dynamo.Geometry, m dynamo.Material) dynamo.MeshID {
	id := r.nextID
	r.nextID++
	r.meshes[id] = &mesh{geometry: g, material: m, rotation: mgl64.QuatIdent()}
	return id
}

func (r *Renderer) RemoveMesh(id dynamo.MeshID) {
	delete(r.meshes, id)
}

func (r *Renderer) SetTransform(id dynamo.MeshID, pos mgl64.Vec3, rot mgl64.Quat) {
	if m, ok := r.meshes[id]; ok {
		m.position = pos
		m.rotation = rot
	}
}

func (r *Renderer) Live() int { return len(r.meshes) }

// Draw repaints the canvas: floor grid, the spinning cube, then meshes
// from farthest to nearest.
func (r *Renderer) Draw(f dynamo.Frame) {
	r.frame = f
	r.canvas.Clear()
	if r.disposed || r.viewport.Empty() {
		return
	}

	r.canvas.Pen = InkFloor
	r.drawFloor()

	r.canvas.Pen = InkCube
	r.drawBox(r.scene.Cube.Position.Mgl(), mgl64.Vec3{1, 1, 1}, f.CubeRotation)

	forward, _, _ := r.camera.Basis()
	ids := make([]dynamo.MeshID, 0, len(r.meshes))
	for id := range r.meshes {
		ids = append(ids, id)
	}
	depth := func(id dynamo.MeshID) float64 {
		return r.meshes[id].position.Sub(r.camera.Position).Dot(forward)
	}
	sort.Slice(ids, func(i, j int) bool {
		di, dj := depth(ids[i]), depth(ids[j])
		if di != dj {
			return di > dj
		}
		return ids[i] < ids[j]
	})

	for _, id := range ids {
		m := r.meshes[id]
		switch m.geometry.Kind {
		case dynamo.GeometrySphere:
			r.canvas.Pen = InkSphere
			r.drawSphere(m.position, m.geometry.Radius, m.rotation)
		case dynamo.GeometryBox:
			r.canvas.Pen = InkCube
			r.drawBox(m.position, m.geometry.Size, m.rotation)
		}
	}
}

func (r *Renderer) Frame() dynamo.Frame { return r.frame }

func (r *Renderer) Canvas() *Canvas { return r.canvas }

func (r *Renderer) Dispose() {
	r.meshes = make(map[dynamo.MeshID]*mesh)
	r.disposed = true
	r.canvas.Clear()
}

func (r *Renderer) drawFloor() {
	size := r.scene.Floor.Size
	y := r.scene.Floor.Y
	half := size / 2
	for i := 0; i <= floorDivisions; i++ {
		off := -half + size*float64(i)/floorDivisions
		r.segment(mgl64.Vec3{off, y, -half}, mgl64.Vec3{off, y, half})
		r.segment(mgl64.Vec3{-half, y, off}, mgl64.Vec3{half, y, off})
	}
}

func (r *Renderer) drawBox(center, size mgl64.Vec3, rot mgl64.Quat) {
	var corners [8]mgl64.Vec3
	for i := range corners {
		local := mgl64.Vec3{
			size[0] * (float64(i&1) - 0.5),
			size[1] * (float64(i>>1&1) - 0.5),
			size[2] * (float64(i>>2&1) - 0.5),
		}
		corners[i] = center.Add(rot.Rotate(local))
	}
	for _, e := range cubeEdges {
		r.segment(corners[e[0]], corners[e[1]])
	}
}

// drawSphere draws the silhouette and a spoke along the body's local x axis
// so rolling is visible.
func (r *Renderer) drawSphere(center mgl64.Vec3, radius float64, rot mgl64.Quat) {
	x, y, depth, ok := r.camera.Project(center, r.viewport)
	if !ok {
		return
	}
	cx, cy := r.toCanvas(x, y)
	px := int(math.Round(radius * r.camera.PixelsPerUnit(depth, r.viewport)))
	r.canvas.DrawCircle(cx, cy, px)
	if px >= 3 {
		r.segment(center, center.Add(rot.Rotate(mgl64.Vec3{radius, 0, 0})))
	}
}

// segment clips a world-space segment to the near plane, projects it and
// clips the result to the canvas.
func (r *Renderer) segment(a, b mgl64.Vec3) {
	forward, _, _ := r.camera.Basis()
	near := r.camera.Near
	if near <= 0 {
		near = 1e-3
	}
	near *= 1.0001
	da := a.Sub(r.camera.Position).Dot(forward)
	db := b.Sub(r.camera.Position).Dot(forward)
	if da < near && db < near {
		return
	}
	if da < near {
		a = a.Add(b.Sub(a).Mul((near - da) / (db - da)))
	} else if db < near {
		b = b.Add(a.Sub(b).Mul((near - db) / (da - db)))
	}

	ax, ay, _, okA := r.camera.Project(a, r.viewport)
	bx, by, _, okB := r.camera.Project(b, r.viewport)
	if !okA || !okB {
		return
	}
	ax, ay = ax-r.viewport.Left, ay-r.viewport.Top
	bx, by = bx-r.viewport.Left, by-r.viewport.Top
	w := float64(r.canvas.DotWidth() - 1)
	h := float64(r.canvas.DotHeight() - 1)
	x0, y0, x1, y1, ok := clipLine(ax, ay, bx, by, w, h)
	if !ok {
		return
	}
	r.canvas.DrawLine(
		int(math.Round(x0)), int(math.Round(y0)),
		int(math.Round(x1)), int(math.Round(y1)))
}

func (r *Renderer) toCanvas(x, y float64) (int, int) {
	return int(math.Round(x - r.viewport.Left)), int(math.Round(y - r.viewport.Top))
}

// clipLine clips the segment to [0, w] x [0, h] (Liang-Barsky).
func clipLine(x0, y0, x1, y1, w, h float64) (float64, float64, float64, float64, bool) {
	if w < 0 || h < 0 {
		return 0, 0, 0, 0, false
	}
	dx, dy := x1-x0, y1-y0
	t0, t1 := 0.0, 1.0
	edges := [4][2]float64{
		{-dx, x0},
		{dx, w - x0},
		{-dy, y0},
		{dy, h - y0},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		t := q / p
		if p < 0 {
			if t > t1 {
				return 0, 0, 0, 0, false
			}
			if t > t0 {
				t0 = t
			}
		} else {
			if t < t0 {
				return 0, 0, 0, 0, false
			}
			if t < t1 {
				t1 = t
			}
		}
	}
	return x0 + t0*dx, y0 + t0*dy, x0 + t1*dx, y0 + t1*dy, true
}
