package sim

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/spherefall/internal/config"
	"github.com/san-kum/spherefall/internal/dynamo"
	"github.com/san-kum/spherefall/internal/headless"
	"github.com/san-kum/spherefall/internal/metrics"
)

var viewport = dynamo.Viewport{Width: 800, Height: 600}

func startFake(t *testing.T, cfg *config.Config, opts ...Option) (*Simulation, *headless.Host, *fakeWorld) {
	t.Helper()
	host := headless.NewHost(viewport)
	w := newFakeWorld()
	opts = append([]Option{WithPhysics(fakePhysics(w)), WithClock(NewManualClock(fixed))}, opts...)
	s, err := Start(host, cfg, opts...)
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	return s, host, w
}

func TestStartInvalidConfigCreatesNothing(t *testing.T) {
	cfg := config.Default()
	cfg.Physics.FixedTimeStep = 0
	host := headless.NewHost(viewport)

	s, err := Start(host, cfg)
	if !errors.Is(err, config.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	if s != nil {
		t.Error("expected nil simulation")
	}
	if host.Renderer() != nil || host.Pending() != 0 || host.Listeners() != 0 {
		t.Error("invalid config must not create resources")
	}
}

func TestStartRendererError(t *testing.T) {
	host := headless.NewHost(viewport)
	host.RendererErr = errors.New("no gl context")
	if _, err := Start(host, config.Default()); err == nil {
		t.Fatal("expected error")
	}
	if host.Pending() != 0 || host.Listeners() != 0 {
		t.Error("failed start should not register callbacks")
	}
}

func TestStartPhysicsErrorDisposesRenderer(t *testing.T) {
	host := headless.NewHost(viewport)
	_, err := Start(host, config.Default(), WithPhysics(failingPhysics))
	if !errors.Is(err, errNoPhysics) {
		t.Fatalf("expected physics error, got %v", err)
	}
	if host.Renderer().Disposals != 1 {
		t.Errorf("renderer disposals = %d, want 1", host.Renderer().Disposals)
	}
}

func TestStartSchedulesFirstFrame(t *testing.T) {
	s, host, _ := startFake(t, config.Default())
	defer s.Destroy()

	if s.State() != Running {
		t.Errorf("state = %v", s.State())
	}
	if host.Pending() != 1 || host.Listeners() != 2 {
		t.Errorf("pending=%d listeners=%d", host.Pending(), host.Listeners())
	}
	if host.Renderer().Viewport != viewport {
		t.Errorf("renderer not sized: %+v", host.Renderer().Viewport)
	}
}

func TestFramesStepPhysicsAtFixedRate(t *testing.T) {
	s, host, w := startFake(t, config.Default())
	defer s.Destroy()

	host.Pump(60)
	if len(w.steps) != 60 {
		t.Errorf("expected 60 physics steps, got %d", len(w.steps))
	}
	if s.Frames() != 60 || host.Renderer().Draws != 60 {
		t.Errorf("frames=%d draws=%d", s.Frames(), host.Renderer().Draws)
	}
	if s.Leftover() != 0 {
		t.Errorf("leftover = %v", s.Leftover())
	}
}

func TestEndToEndCapTwo(t *testing.T) {
	cfg := config.Default()
	cfg.Limits.MaxSpheres = 2
	s, host, w := startFake(t, cfg)
	defer s.Destroy()

	for _, x := range []float64{300, 400, 500} {
		host.Click(x, 300)
	}

	entries := s.Pool().Entries()
	if len(entries) != 2 {
		t.Fatalf("pool length = %d, want 2", len(entries))
	}
	// bodies are numbered in creation order: A=1, B=2, C=3
	if entries[0].Body != 2 || entries[1].Body != 3 {
		t.Errorf("pool = %+v, want B then C", entries)
	}
	if w.BodyCount() != 2 {
		t.Errorf("physics body count = %d, want 2", w.BodyCount())
	}
	if host.Renderer().Live() != 2 {
		t.Errorf("live meshes = %d, want 2", host.Renderer().Live())
	}
	if w.bodies[2].X() >= w.bodies[3].X() {
		t.Errorf("B should spawn left of C: %v %v", w.bodies[2], w.bodies[3])
	}
}

func TestPointerResolvesOntoSpawnColumn(t *testing.T) {
	cfg := config.Default()
	s, host, w := startFake(t, cfg)
	defer s.Destroy()

	host.Click(400, 300)
	if s.Pool().Len() != 1 {
		t.Fatal("centre click should spawn")
	}
	pos := w.bodies[s.Pool().Entries()[0].Body]
	if math.Abs(pos.X()) > 1e-9 {
		t.Errorf("centre click should spawn on x = 0, got %v", pos)
	}
	if pos.Y() != cfg.Physics.SpawnHeight {
		t.Errorf("spawn height = %v", pos.Y())
	}
}

func TestPointerMissIgnored(t *testing.T) {
	s, host, w := startFake(t, config.Default())
	defer s.Destroy()

	// the top edge of the default view looks above the horizon
	host.Click(400, 0)
	if s.Pool().Len() != 0 || w.BodyCount() != 0 {
		t.Error("miss should not spawn")
	}

	host.Resize(dynamo.Viewport{})
	host.Click(0, 0)
	if s.Pool().Len() != 0 {
		t.Error("empty viewport should not spawn")
	}
}

func TestResizeForwarded(t *testing.T) {
	s, host, _ := startFake(t, config.Default())
	defer s.Destroy()

	vp := dynamo.Viewport{Left: 10, Top: 5, Width: 1024, Height: 768}
	host.Resize(vp)
	if host.Renderer().Viewport != vp {
		t.Errorf("renderer viewport = %+v", host.Renderer().Viewport)
	}
}

func TestFrameSyncsMeshes(t *testing.T) {
	s, host, w := startFake(t, config.Default())
	defer s.Destroy()

	host.Click(400, 300)
	host.Pump(10)

	e := s.Pool().Entries()[0]
	pos, rot := w.Transform(e.Body)
	m, _ := host.Renderer().Mesh(e.Mesh)
	if m.Position != pos || m.Rotation != rot {
		t.Errorf("mesh (%v, %v) not synced with body (%v, %v)", m.Position, m.Rotation, pos, rot)
	}
	if host.Renderer().LastFrame.CubeRotation == mgl64.QuatIdent() {
		t.Error("cube should rotate")
	}
}

func TestDestroyIdempotent(t *testing.T) {
	s, host, w := startFake(t, config.Default())
	host.Click(400, 300)
	host.Click(410, 300)
	host.Pump(3)

	s.Destroy()
	r := host.Renderer()
	if s.State() != Stopped {
		t.Errorf("state = %v", s.State())
	}
	if host.Pending() != 0 || host.Listeners() != 0 {
		t.Errorf("pending=%d listeners=%d", host.Pending(), host.Listeners())
	}
	if w.disposals != 1 || r.Disposals != 1 || len(w.removed) != 2 || r.Removed != 2 {
		t.Fatalf("first destroy: world=%d renderer=%d bodies=%d meshes=%d", w.disposals, r.Disposals, len(w.removed), r.Removed)
	}

	s.Destroy()
	if w.disposals != 1 || r.Disposals != 1 || len(w.removed) != 2 || r.Removed != 2 {
		t.Errorf("second destroy released again: world=%d renderer=%d bodies=%d meshes=%d", w.disposals, r.Disposals, len(w.removed), r.Removed)
	}

	host.Pump(5)
	if r.Draws != 3 {
		t.Errorf("frames ran after destroy: draws=%d", r.Draws)
	}
	if _, err := s.SpawnAt(mgl64.Vec3{}); !errors.Is(err, dynamo.ErrStopped) {
		t.Errorf("expected ErrStopped, got %v", err)
	}
}

func TestDestroyNil(t *testing.T) {
	var s *Simulation
	s.Destroy()
}

func TestDestroyFromObserverStopsLoop(t *testing.T) {
	var s *Simulation
	obs := metrics.ObserverFunc(func(st metrics.FrameStats) {
		if st.Frame == 2 {
			s.Destroy()
		}
	})
	s, host, _ := startFake(t, config.Default(), WithObserver(obs))

	host.Pump(10)
	if s.Frames() != 2 {
		t.Errorf("frames = %d, want 2", s.Frames())
	}
	if host.Pending() != 0 {
		t.Errorf("destroyed loop rescheduled")
	}
}

func TestObserverStats(t *testing.T) {
	clock := NewManualClock(fixed)
	clock.Push(1.0)
	rec := metrics.NewRecorder()
	s, host, w := startFake(t, config.Default(), WithClock(clock), WithObserver(rec))
	defer s.Destroy()
	w.energy = 1.5

	host.Click(400, 300)
	host.Pump(2)

	frames := rec.Frames()
	if len(frames) != 2 {
		t.Fatalf("observed %d frames", len(frames))
	}
	first := frames[0]
	if first.SubSteps != 4 || !first.DriftReset || first.Leftover != 0 {
		t.Errorf("overloaded frame stats %+v", first)
	}
	if first.Delta != 1.0 || first.Live != 1 || first.Spawned != 1 || first.KineticEnergy != 1.5 {
		t.Errorf("unexpected stats %+v", first)
	}
	if frames[1].SubSteps != 1 || frames[1].DriftReset {
		t.Errorf("steady frame stats %+v", frames[1])
	}
	if s.LastStats() != frames[1] {
		t.Errorf("LastStats = %+v", s.LastStats())
	}
}

func TestSpawnAt(t *testing.T) {
	s, _, w := startFake(t, config.Default())
	defer s.Destroy()

	e, err := s.SpawnAt(mgl64.Vec3{0.5, 0, 0.25})
	if err != nil {
		t.Fatal(err)
	}
	if got := w.bodies[e.Body]; got != (mgl64.Vec3{0.5, 3.2, 0.25}) {
		t.Errorf("spawned at %v", got)
	}
}

func TestSpawnAtDisabled(t *testing.T) {
	cfg := config.Default()
	cfg.Limits.MaxSpheres = 0
	s, _, w := startFake(t, cfg)
	defer s.Destroy()

	before := len(w.bodies)
	if _, err := s.SpawnAt(mgl64.Vec3{}); !errors.Is(err, dynamo.ErrSpawnDisabled) {
		t.Errorf("expected ErrSpawnDisabled, got %v", err)
	}
	if len(w.bodies) != before || s.Pool().Len() != 0 {
		t.Error("disabled spawn must not create bodies")
	}
}

func TestSimulationUsesOwnConfigCopy(t *testing.T) {
	cfg := config.Default()
	s, _, _ := startFake(t, cfg)
	defer s.Destroy()

	cfg.Limits.MaxSpheres = 1
	if s.Config().Limits.MaxSpheres != 200 || s.Pool().Max() != 200 {
		t.Error("caller mutation leaked into running simulation")
	}
}
