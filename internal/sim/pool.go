package sim

import (
	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/spherefall/internal/config"
	"github.com/san-kum/spherefall/internal/dynamo"
)

// Entry pairs a spawned body with the mesh that shows it. Both are created
// and released together.
type Entry struct {
	Body dynamo.BodyID
	Mesh dynamo.MeshID
}

// Pool is the oldest-first sequence of live spawned spheres, capped at Max.
type Pool struct {
	world    dynamo.PhysicsWorld
	renderer dynamo.Renderer
	log      *log.Logger

	max         int
	spawnHeight float64
	spec        dynamo.SphereSpec
	geometry    dynamo.Geometry
	material    dynamo.Material

	entries []Entry
	spawned int
	evicted int
}

func NewPool(world dynamo.PhysicsWorld, renderer dynamo.Renderer, cfg *config.Config) *Pool {
	p := cfg.Physics
	look := cfg.Scene.Sphere
	return &Pool{
		world:       world,
		renderer:    renderer,
		log:         discard,
		max:         cfg.Limits.MaxSpheres,
		spawnHeight: p.SpawnHeight,
		spec: dynamo.SphereSpec{
			Radius:         p.SphereRadius,
			Mass:           p.SphereMass,
			LinearDamping:  p.LinearDamping,
			AngularDamping: p.AngularDamping,
		},
		geometry: dynamo.Geometry{Kind: dynamo.GeometrySphere, Radius: p.SphereRadius, Segments: look.Segments},
		material: dynamo.Material{Color: look.Color, Roughness: look.Roughness, Metalness: look.Metalness},
	}
}

// Spawn drops a new sphere above at, evicting the oldest one first when the
// pool is full. With a zero cap nothing is spawned.
func (p *Pool) Spawn(at mgl64.Vec3) (Entry, bool) {
	if p.max <= 0 {
		return Entry{}, false
	}
	if len(p.entries) >= p.max {
		p.evictOldest()
	}

	spec := p.spec
	spec.Position = mgl64.Vec3{at.X(), p.spawnHeight, at.Z()}
	e := Entry{
		Body: p.world.AddSphere(spec),
		Mesh: p.renderer.AddMesh(p.geometry, p.material),
	}
	p.renderer.SetTransform(e.Mesh, spec.Position, mgl64.QuatIdent())
	p.entries = append(p.entries, e)
	p.spawned++
	return e, true
}

func (p *Pool) evictOldest() {
	oldest := p.entries[0]
	p.entries[0] = Entry{}
	p.entries = p.entries[1:]
	p.release(oldest)
	p.evicted++
	p.log.Debug("evicted sphere", "body", oldest.Body, "live", len(p.entries))
}

func (p *Pool) release(e Entry) {
	p.world.RemoveBody(e.Body)
	p.renderer.RemoveMesh(e.Mesh)
}

// TeardownAll releases every entry, oldest first, and empties the pool.
func (p *Pool) TeardownAll() {
	entries := p.entries
	p.entries = nil
	for _, e := range entries {
		p.release(e)
	}
}

func (p *Pool) Len() int { return len(p.entries) }

func (p *Pool) Max() int { return p.max }

// Entries returns a copy, oldest first.
func (p *Pool) Entries() []Entry {
	return append([]Entry(nil), p.entries...)
}

// Stats reports lifetime spawn and eviction counts.
func (p *Pool) Stats() (spawned, evicted int) {
	return p.spawned, p.evicted
}
