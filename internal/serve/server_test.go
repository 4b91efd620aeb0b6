package serve

import (
	"io"
	"path/filepath"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/san-kum/spherefall/internal/config"
	"github.com/san-kum/spherefall/internal/sim"
	"github.com/san-kum/spherefall/internal/viz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, maxSessions int) *Server {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Address = "127.0.0.1:0"
	cfg.HostKeyPath = filepath.Join(t.TempDir(), "keys", "host_key")
	cfg.MaxSessions = maxSessions
	s, err := New(cfg, config.Default(), log.New(io.Discard), sim.WithClock(sim.NewManualClock(1.0/60)))
	require.NoError(t, err)
	return s
}

func TestNewRejectsInvalidScene(t *testing.T) {
	scene := config.Default()
	scene.Physics.MaxSubSteps = 0
	cfg := DefaultConfig()
	cfg.HostKeyPath = filepath.Join(t.TempDir(), "host_key")
	_, err := New(cfg, scene, nil)
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestNewSessionUsesOwnConfig(t *testing.T) {
	s := newTestServer(t, 0)

	a, err := s.NewSession(100, 30)
	require.NoError(t, err)
	defer a.Close()
	b, err := s.NewSession(100, 30)
	require.NoError(t, err)
	defer b.Close()

	assert.True(t, a.Simulation().Running())
	assert.NotSame(t, a.Simulation().Config(), b.Simulation().Config())
	assert.NotSame(t, s.scene, a.Simulation().Config())
}

func TestNewSessionLimit(t *testing.T) {
	s := newTestServer(t, 1)
	m, err := s.NewSession(100, 30)
	require.NoError(t, err)
	defer m.Close()

	assert.Equal(t, 1, s.Sessions())
	_, err = s.NewSession(100, 30)
	assert.ErrorIs(t, err, ErrTooManySessions)

	s.Release()
	assert.Equal(t, 0, s.Sessions())
	again, err := s.NewSession(100, 30)
	require.NoError(t, err)
	again.Close()
}

func TestNewSessionLimitConcurrent(t *testing.T) {
	const limit, callers = 3, 12
	s := newTestServer(t, limit)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		started []*viz.Model
		refused int
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m, err := s.NewSession(100, 30)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				assert.ErrorIs(t, err, ErrTooManySessions)
				refused++
				return
			}
			started = append(started, m)
		}()
	}
	wg.Wait()

	assert.Len(t, started, limit)
	assert.Equal(t, callers-limit, refused)
	assert.Equal(t, limit, s.Sessions())
	for _, m := range started {
		m.Close()
		s.Release()
	}
	assert.Equal(t, 0, s.Sessions())
}

func TestNewSessionReleasesSlotOnFailure(t *testing.T) {
	s := newTestServer(t, 1)
	s.scene.Physics.FixedTimeStep = 0

	_, err := s.NewSession(100, 30)
	assert.ErrorIs(t, err, config.ErrInvalid)
	assert.Equal(t, 0, s.Sessions())
}

func TestAddr(t *testing.T) {
	s := newTestServer(t, 0)
	assert.Equal(t, "127.0.0.1:0", s.Addr())
}
