package gui

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/spherefall/internal/config"
	"github.com/san-kum/spherefall/internal/dynamo"
)

type mesh struct {
	model    rl.Model
	tint     rl.Color
	position mgl64.Vec3
	rotation mgl64.Quat
}

// Renderer needs a live window; every method must run on the window's
// thread.
type Renderer struct {
	scene    config.Scene
	camera   dynamo.Camera
	rlCamera rl.Camera3D
	viewport dynamo.Viewport

	cube   rl.Model
	meshes map[dynamo.MeshID]*mesh
	// sphere models are shared by radius and segment count
	shared map[dynamo.Geometry]rl.Model
	nextID dynamo.MeshID
}

func NewRenderer(scene config.Scene) *Renderer {
	cam := dynamo.CameraFromConfig(scene.Camera)
	return &Renderer{
		scene:  scene,
		camera: cam,
		rlCamera: rl.Camera3D{
			Position:   vec(cam.Position),
			Target:     vec(cam.Target),
			Up:         vec(cam.Up),
			Fovy:       float32(cam.FovY),
			Projection: rl.CameraPerspective,
		},
		cube:   rl.LoadModelFromMesh(rl.GenMeshCube(1, 1, 1)),
		meshes: make(map[dynamo.MeshID]*mesh),
		shared: make(map[dynamo.Geometry]rl.Model),
		nextID: 1,
	}
}

func (r *Renderer) Camera() dynamo.Camera { return r.camera }

// Resize only records the viewport; raylib tracks the framebuffer itself.
func (r *Renderer) Resize(vp dynamo.Viewport) { r.viewport = vp }

func (r *Renderer) AddMesh(g dynamo.Geometry, m dynamo.Material) dynamo.MeshID {
	model, ok := r.shared[g]
	if !ok {
		switch g.Kind {
		case dynamo.GeometryBox:
			model = rl.LoadModelFromMesh(rl.GenMeshCube(float32(g.Size[0]), float32(g.Size[1]), float32(g.Size[2])))
		default:
			seg := g.Segments
			if seg <= 0 {
				seg = 18
			}
			model = rl.LoadModelFromMesh(rl.GenMeshSphere(float32(g.Radius), seg, seg))
		}
		r.shared[g] = model
	}
	id := r.nextID
	r.nextID++
	r.meshes[id] = &mesh{model: model, tint: color(m.Color), rotation: mgl64.QuatIdent()}
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

func (r *Renderer) Draw(f dynamo.Frame) {
	rl.BeginMode3D(r.rlCamera)

	floor := r.scene.Floor
	size := float32(floor.Size)
	rl.DrawPlane(rl.NewVector3(0, float32(floor.Y), 0), rl.NewVector2(size, size), color(floor.Color))

	cube := r.scene.Cube
	drawModel(r.cube, cube.Position.Mgl(), f.CubeRotation, color(cube.Color))

	for _, m := range r.meshes {
		drawModel(m.model, m.position, m.rotation, m.tint)
	}

	rl.EndMode3D()
}

// Dispose unloads every model. The renderer is unusable afterwards.
func (r *Renderer) Dispose() {
	r.meshes = make(map[dynamo.MeshID]*mesh)
	for g, model := range r.shared {
		rl.UnloadModel(model)
		delete(r.shared, g)
	}
	rl.UnloadModel(r.cube)
}

func (r *Renderer) Live() int { return len(r.meshes) }

func drawModel(model rl.Model, pos mgl64.Vec3, rot mgl64.Quat, tint rl.Color) {
	axis, angle := axisAngle(rot)
	rl.DrawModelEx(model, vec(pos), vec(axis), float32(angle), rl.NewVector3(1, 1, 1), tint)
}

// axisAngle converts a rotation to an axis and an angle in degrees.
func axisAngle(q mgl64.Quat) (mgl64.Vec3, float64) {
	q = q.Normalize()
	w := mgl64.Clamp(q.W, -1, 1)
	s := math.Sqrt(1 - w*w)
	if s < 1e-9 {
		return mgl64.Vec3{0, 1, 0}, 0
	}
	return q.V.Mul(1 / s), mgl64.RadToDeg(2 * math.Acos(w))
}

func vec(v mgl64.Vec3) rl.Vector3 {
	return rl.NewVector3(float32(v[0]), float32(v[1]), float32(v[2]))
}

func color(c config.Color) rl.Color {
	return rl.GetColor(uint(c)<<8 | 0xff)
}
