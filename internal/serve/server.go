package serve

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/san-kum/spherefall/internal/config"
	"github.com/san-kum/spherefall/internal/sim"
	"github.com/san-kum/spherefall/internal/viz"
)

var ErrTooManySessions = errors.New("serve: session limit reached")

type Config struct {
	// Address is the host:port to listen on.
	Address string
	// HostKeyPath is created on first start when missing.
	HostKeyPath string
	IdleTimeout time.Duration
	// MaxSessions caps concurrent simulations; 0 means no cap.
	MaxSessions int
}

func DefaultConfig() Config {
	return Config{
		Address:     ":23234",
		HostKeyPath: filepath.Join(".spherefall", "host_key"),
		IdleTimeout: 30 * time.Minute,
		MaxSessions: 8,
	}
}

// Server hands every SSH session its own terminal simulation built from a
// clone of the scene config.
type Server struct {
	cfg    Config
	scene  *config.Config
	opts   []sim.Option
	log    *log.Logger
	server *ssh.Server

	mu       sync.Mutex
	sessions map[ssh.Session]*viz.Model
	// reserved counts slots taken by sessions still starting up
	reserved int
}

func New(cfg Config, scene *config.Config, logger *log.Logger, opts ...sim.Option) (*Server, error) {
	if err := scene.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}
	if err := os.MkdirAll(filepath.Dir(cfg.HostKeyPath), 0o700); err != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", err)
	}

	s := &Server{
		cfg:      cfg,
		scene:    scene,
		opts:     opts,
		log:      logger,
		sessions: make(map[ssh.Session]*viz.Model),
	}
	server, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(cfg.HostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(s.teaHandler),
			s.sessionMiddleware,
		),
	)
	if err != nil {
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}
	s.server = server
	return s, nil
}

// NewSession builds and starts the simulation for one terminal of the given
// size. The caller owns the returned slot and must hand it back with
// Release.
func (s *Server) NewSession(width, height int) (*viz.Model, error) {
	if err := s.reserve(); err != nil {
		return nil, err
	}
	m := viz.NewModel(s.scene.Clone(), s.opts...)
	m.SetLogger(s.log.WithPrefix("session"))
	m.SetSize(width, height)
	if err := m.Start(); err != nil {
		s.Release()
		return nil, err
	}
	return m, nil
}

func (s *Server) reserve() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cfg.MaxSessions > 0 && s.reserved >= s.cfg.MaxSessions {
		return ErrTooManySessions
	}
	s.reserved++
	return nil
}

// Release frees a slot taken by NewSession.
func (s *Server) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reserved > 0 {
		s.reserved--
	}
}

// Sessions returns the number of slots in use, including sessions still
// starting.
func (s *Server) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reserved
}

func (s *Server) teaHandler(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sess.Pty()
	if !ok {
		wish.Fatalln(sess, "spherefall needs a terminal, connect with ssh -t")
		return nil, nil
	}
	m, err := s.NewSession(pty.Window.Width, pty.Window.Height)
	if err != nil {
		s.log.Warn("session refused", "user", sess.User(), "err", err)
		wish.Fatalln(sess, err.Error())
		return nil, nil
	}

	s.mu.Lock()
	s.sessions[sess] = m
	s.mu.Unlock()

	return m, []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	}
}

// sessionMiddleware wraps the program so a dropped connection still tears
// its simulation down.
func (s *Server) sessionMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		s.log.Info("session started", "user", sess.User(), "remote", sess.RemoteAddr().String())
		start := time.Now()
		next(sess)

		s.mu.Lock()
		m, ok := s.sessions[sess]
		delete(s.sessions, sess)
		s.mu.Unlock()

		frames := uint64(0)
		if ok {
			frames = m.Simulation().Frames()
			m.Close()
			s.Release()
		}
		s.log.Info("session ended",
			"user", sess.User(),
			"remote", sess.RemoteAddr().String(),
			"frames", frames,
			"duration", time.Since(start).Round(time.Second),
		)
	}
}

// ListenAndServe serves until ctx is cancelled, then shuts down.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.log.Info("starting SSH server", "address", s.cfg.Address)

	errc := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	s.log.Info("shutting down...")
	return s.Shutdown()
}

func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) Addr() string {
	return s.cfg.Address
}
