package sim

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/san-kum/spherefall/internal/config"
	"github.com/san-kum/spherefall/internal/dynamo"
	"github.com/san-kum/spherefall/internal/metrics"
	"github.com/san-kum/spherefall/internal/physics"
)

var discard = log.New(io.Discard)

// PhysicsFactory builds the world a simulation steps. floorY is the height
// of the static ground.
type PhysicsFactory func(cfg config.Physics, floorY float64) (dynamo.PhysicsWorld, error)

func defaultPhysics(cfg config.Physics, floorY float64) (dynamo.PhysicsWorld, error) {
	w, err := physics.NewWorld(cfg, floorY)
	if err != nil {
		return nil, err
	}
	return w, nil
}

type Option func(*Simulation)

func WithClock(c Clock) Option {
	return func(s *Simulation) { s.clock = c }
}

func WithPhysics(f PhysicsFactory) Option {
	return func(s *Simulation) { s.newPhysics = f }
}

func WithLogger(l *log.Logger) Option {
	return func(s *Simulation) { s.log = l }
}

// WithObserver adds an observer notified after every frame.
func WithObserver(o metrics.FrameObserver) Option {
	return func(s *Simulation) { s.observers = append(s.observers, o) }
}
