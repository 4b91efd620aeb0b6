package headless

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/spherefall/internal/config"
	"github.com/san-kum/spherefall/internal/dynamo"
)

type Mesh struct {
	ID       dynamo.MeshID
	Geometry dynamo.Geometry
	Material dynamo.Material
	Position mgl64.Vec3
	Rotation mgl64.Quat
}

// Renderer records what it is asked to draw.
type Renderer struct {
	Scene    config.Scene
	Viewport dynamo.Viewport

	Added     int
	Removed   int
	Draws     int
	Disposals int
	LastFrame dynamo.Frame

	camera dynamo.Camera
	meshes map[dynamo.MeshID]*Mesh
	nextID dynamo.MeshID
}

func NewRenderer(scene config.Scene) *Renderer {
	return &Renderer{
		Scene:  scene,
		camera: dynamo.CameraFromConfig(scene.Camera),
		meshes: make(map[dynamo.MeshID]*Mesh),
		nextID: 1,
	}
}

func (r *Renderer) Camera() dynamo.Camera { return r.camera }

func (r *Renderer) Resize(vp dynamo.Viewport) { r.Viewport = vp }

func (r *Renderer) AddMesh(g dynamo.Geometry, m dynamo.Material) dynamo.MeshID {
	id := r.nextID
	r.nextID++
	r.meshes[id] = &Mesh{ID: id, Geometry: g, Material: m, Rotation: mgl64.QuatIdent()}
	r.Added++
	return id
}

func (r *Renderer) RemoveMesh(id dynamo.MeshID) {
	if _, ok := r.meshes[id]; !ok {
		return
	}
	delete(r.meshes, id)
	r.Removed++
}

func (r *Renderer) SetTransform(id dynamo.MeshID, pos mgl64.Vec3, rot mgl64.Quat) {
	if m, ok := r.meshes[id]; ok {
		m.Position = pos
		m.Rotation = rot
	}
}

func (r *Renderer) Draw(f dynamo.Frame) {
	r.Draws++
	r.LastFrame = f
}

func (r *Renderer) Dispose() {
	r.Disposals++
	r.meshes = make(map[dynamo.MeshID]*Mesh)
}

func (r *Renderer) Mesh(id dynamo.MeshID) (*Mesh, bool) {
	m, ok := r.meshes[id]
	return m, ok
}

// Live is the number of meshes currently in the scene.
func (r *Renderer) Live() int { return len(r.meshes) }
