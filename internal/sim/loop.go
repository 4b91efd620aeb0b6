package sim

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/spherefall/internal/config"
	"github.com/san-kum/spherefall/internal/control"
	"github.com/san-kum/spherefall/internal/dynamo"
	"github.com/san-kum/spherefall/internal/metrics"
)

type State int

const (
	Uninitialized State = iota
	Running
	Stopped
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

type Simulation struct {
	host       dynamo.Host
	cfg        *config.Config
	clock      Clock
	newPhysics PhysicsFactory
	log        *log.Logger
	observers  []metrics.FrameObserver

	world    dynamo.PhysicsWorld
	renderer dynamo.Renderer
	pool     *Pool

	acc       Accumulator
	frame     FrameState
	pending   dynamo.FrameRequest
	listeners []dynamo.Listener
	state     State
	last      metrics.FrameStats
}

// Start validates cfg, builds the renderer and physics world, registers
// input listeners on host and schedules the first frame. Nothing is
// created when cfg is invalid.
func Start(host dynamo.Host, cfg *config.Config, opts ...Option) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid simulation config: %w", err)
	}

	s := &Simulation{
		host:       host,
		cfg:        cfg.Clone(),
		newPhysics: defaultPhysics,
		log:        discard,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.clock == nil {
		s.clock = NewWallClock()
	}

	renderer, err := host.NewRenderer(s.cfg.Scene)
	if err != nil {
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}
	world, err := s.newPhysics(s.cfg.Physics, s.cfg.Scene.Floor.Y)
	if err != nil {
		renderer.Dispose()
		return nil, fmt.Errorf("failed to create physics world: %w", err)
	}

	s.renderer = renderer
	s.world = world
	s.pool = NewPool(world, renderer, s.cfg)
	s.pool.log = s.log

	renderer.Resize(host.Viewport())
	s.listeners = append(s.listeners,
		host.OnResize(s.handleResize),
		host.OnPointerDown(s.handlePointer),
	)
	s.state = Running
	s.pending = host.RequestFrame(s.tick)

	s.log.Info("simulation started",
		"max_spheres", s.cfg.Limits.MaxSpheres,
		"fixed_step", s.cfg.Physics.FixedTimeStep,
		"max_substeps", s.cfg.Physics.MaxSubSteps)
	return s, nil
}

func (s *Simulation) tick() {
	s.pending = nil
	if s.state != Running {
		return
	}

	delta := s.clock.Delta()
	p := s.cfg.Physics
	n := s.acc.Advance(delta, p.FixedTimeStep, p.MaxSubSteps, s.world.Step)
	s.frame.Advance(s.cfg.Scene.Cube.RotationSpeed, ClampDelta(delta))

	SyncVisuals(s.pool, s.world, s.renderer)
	s.renderer.Draw(s.frame.Frame())
	s.notify(delta, n)

	// an observer may have destroyed the simulation
	if s.state == Running {
		s.pending = s.host.RequestFrame(s.tick)
	}
}

func (s *Simulation) notify(delta float64, n int) {
	spawned, evicted := s.pool.Stats()
	stats := metrics.FrameStats{
		Frame:      s.frame.Number,
		Time:       s.frame.Time,
		Delta:      delta,
		SubSteps:   n,
		Leftover:   s.acc.Leftover,
		DriftReset: n > 0 && n == s.cfg.Physics.MaxSubSteps,
		Live:       s.pool.Len(),
		Spawned:    spawned,
		Evicted:    evicted,
	}
	if er, ok := s.world.(dynamo.EnergyReporter); ok {
		stats.KineticEnergy = er.KineticEnergy()
	}
	s.last = stats
	for _, o := range s.observers {
		o.OnFrame(stats)
	}
}

func (s *Simulation) handleResize(vp dynamo.Viewport) {
	if s.state != Running {
		return
	}
	s.renderer.Resize(vp)
}

func (s *Simulation) handlePointer(ev dynamo.PointerEvent) {
	if s.state != Running {
		return
	}
	p, ok := control.ResolveSpawnPoint(ev, s.host.Viewport(), s.renderer.Camera(), s.cfg.SpawnPlaneY())
	if !ok {
		s.log.Debug("pointer missed spawn plane", "x", ev.X, "y", ev.Y)
		return
	}
	s.pool.Spawn(p)
}

// SpawnAt spawns a sphere above a world point, bypassing pointer
// resolution. It returns dynamo.ErrSpawnDisabled when max_spheres is 0.
func (s *Simulation) SpawnAt(p mgl64.Vec3) (Entry, error) {
	if s.state != Running {
		return Entry{}, dynamo.ErrStopped
	}
	e, ok := s.pool.Spawn(p)
	if !ok {
		return Entry{}, dynamo.ErrSpawnDisabled
	}
	return e, nil
}

// Destroy stops the loop and releases the pool, the physics world and the
// renderer. Calls after the first do nothing.
func (s *Simulation) Destroy() {
	if s == nil || s.state != Running {
		return
	}
	s.state = Stopped
	if s.pending != nil {
		s.pending.Cancel()
		s.pending = nil
	}
	for _, l := range s.listeners {
		l.Remove()
	}
	s.listeners = nil

	s.pool.TeardownAll()
	s.world.Dispose()
	s.renderer.Dispose()

	spawned, evicted := s.pool.Stats()
	s.log.Info("simulation stopped", "frames", s.frame.Number, "spawned", spawned, "evicted", evicted)
}

func (s *Simulation) State() State               { return s.state }
func (s *Simulation) Running() bool              { return s.state == Running }
func (s *Simulation) Pool() *Pool                { return s.pool }
func (s *Simulation) World() dynamo.PhysicsWorld { return s.world }
func (s *Simulation) Renderer() dynamo.Renderer  { return s.renderer }
func (s *Simulation) Config() *config.Config     { return s.cfg }
func (s *Simulation) Leftover() float64          { return s.acc.Leftover }
func (s *Simulation) Frames() uint64             { return s.frame.Number }

// LastStats is the telemetry of the most recent frame.
func (s *Simulation) LastStats() metrics.FrameStats { return s.last }
