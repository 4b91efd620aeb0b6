package sim

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/spherefall/internal/config"
	"github.com/san-kum/spherefall/internal/headless"
)

func newTestPool(max int) (*Pool, *fakeWorld, *headless.Renderer) {
	cfg := config.Default()
	cfg.Limits.MaxSpheres = max
	w := newFakeWorld()
	r := headless.NewRenderer(cfg.Scene)
	return NewPool(w, r, cfg), w, r
}

func TestPoolFIFOEviction(t *testing.T) {
	const max = 3
	pool, w, r := newTestPool(max)

	var spawned []Entry
	for i := 0; i < 10; i++ {
		e, ok := pool.Spawn(mgl64.Vec3{float64(i), 0, 0})
		if !ok {
			t.Fatalf("spawn %d refused", i)
		}
		spawned = append(spawned, e)

		if pool.Len() > max {
			t.Fatalf("pool length %d exceeds %d", pool.Len(), max)
		}
		if w.BodyCount() != r.Live() || w.BodyCount() != pool.Len() {
			t.Fatalf("after spawn %d: bodies=%d meshes=%d pool=%d", i, w.BodyCount(), r.Live(), pool.Len())
		}
	}

	entries := pool.Entries()
	for i, e := range entries {
		if e != spawned[len(spawned)-max+i] {
			t.Errorf("entry %d = %+v, want %+v", i, e, spawned[len(spawned)-max+i])
		}
	}
	for _, old := range spawned[:len(spawned)-max] {
		if _, ok := r.Mesh(old.Mesh); ok {
			t.Errorf("evicted mesh %d still live", old.Mesh)
		}
	}
	if len(w.removed) != 7 || r.Removed != 7 {
		t.Errorf("expected 7 bodies and meshes removed, got %d and %d", len(w.removed), r.Removed)
	}
	if w.removed[0] != spawned[0].Body {
		t.Errorf("first eviction removed body %d, want %d", w.removed[0], spawned[0].Body)
	}

	s, e := pool.Stats()
	if s != 10 || e != 7 {
		t.Errorf("stats spawned=%d evicted=%d", s, e)
	}
}

func TestPoolEvictsFirstAfterCapPlusOne(t *testing.T) {
	pool, _, _ := newTestPool(2)
	first, _ := pool.Spawn(mgl64.Vec3{})
	pool.Spawn(mgl64.Vec3{})
	pool.Spawn(mgl64.Vec3{})

	for _, e := range pool.Entries() {
		if e == first {
			t.Fatal("first entry still present after cap+1 spawns")
		}
	}
}

func TestPoolSpawnPosition(t *testing.T) {
	pool, w, r := newTestPool(5)
	e, _ := pool.Spawn(mgl64.Vec3{1.5, -1.34, -2})

	want := mgl64.Vec3{1.5, config.Default().Physics.SpawnHeight, -2}
	if got := w.bodies[e.Body]; got != want {
		t.Errorf("body at %v, want %v", got, want)
	}
	m, ok := r.Mesh(e.Mesh)
	if !ok {
		t.Fatal("mesh missing")
	}
	if m.Position != want {
		t.Errorf("mesh at %v, want %v", m.Position, want)
	}
	if m.Geometry.Radius != 0.16 || m.Material.Color != config.Default().Scene.Sphere.Color {
		t.Errorf("unexpected mesh look %+v %+v", m.Geometry, m.Material)
	}
}

func TestPoolZeroCapacity(t *testing.T) {
	pool, w, r := newTestPool(0)
	if _, ok := pool.Spawn(mgl64.Vec3{}); ok {
		t.Error("spawn should be refused")
	}
	if pool.Len() != 0 || w.BodyCount() != 0 || r.Added != 0 {
		t.Errorf("nothing should be created: len=%d bodies=%d meshes=%d", pool.Len(), w.BodyCount(), r.Added)
	}
}

func TestPoolTeardownAll(t *testing.T) {
	pool, w, r := newTestPool(4)
	for i := 0; i < 3; i++ {
		pool.Spawn(mgl64.Vec3{})
	}
	pool.TeardownAll()
	pool.TeardownAll()

	if pool.Len() != 0 {
		t.Errorf("pool not empty: %d", pool.Len())
	}
	if len(w.removed) != 3 || r.Removed != 3 {
		t.Errorf("expected 3 releases each, got %d bodies and %d meshes", len(w.removed), r.Removed)
	}
	if w.removed[0] != 1 || w.removed[2] != 3 {
		t.Errorf("teardown should go oldest first, got %v", w.removed)
	}
}

func TestPoolEntriesIsCopy(t *testing.T) {
	pool, _, _ := newTestPool(2)
	pool.Spawn(mgl64.Vec3{})
	entries := pool.Entries()
	entries[0] = Entry{}
	if pool.Entries()[0] == (Entry{}) {
		t.Error("Entries should not expose internal storage")
	}
}

func TestSyncVisuals(t *testing.T) {
	pool, w, r := newTestPool(3)
	a, _ := pool.Spawn(mgl64.Vec3{1, 0, 0})
	b, _ := pool.Spawn(mgl64.Vec3{2, 0, 0})
	w.Step(0.5)
	w.Step(0.5)

	SyncVisuals(pool, w, r)

	for _, e := range []Entry{a, b} {
		pos, rot := w.Transform(e.Body)
		m, _ := r.Mesh(e.Mesh)
		if m.Position != pos || m.Rotation != rot {
			t.Errorf("mesh %d = (%v, %v), body = (%v, %v)", e.Mesh, m.Position, m.Rotation, pos, rot)
		}
	}
}
