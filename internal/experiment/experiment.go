package experiment

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/san-kum/spherefall/internal/config"
	"github.com/san-kum/spherefall/internal/dynamo"
	"github.com/san-kum/spherefall/internal/headless"
	"github.com/san-kum/spherefall/internal/metrics"
	"github.com/san-kum/spherefall/internal/sim"
)

// Script describes a headless session: how many frames to run, how long
// each frame claims to take and how often a random click lands.
type Script struct {
	Frames     int
	FrameDelta float64
	// Jitter varies each frame delta by up to this fraction.
	Jitter     float64
	SpawnEvery int
	Seed       int64
	Viewport   dynamo.Viewport
}

func (s Script) Validate() error {
	if s.Frames <= 0 {
		return fmt.Errorf("frames must be positive, got %d", s.Frames)
	}
	if s.FrameDelta < 0 {
		return fmt.Errorf("frame delta must not be negative, got %f", s.FrameDelta)
	}
	if s.Jitter < 0 || s.Jitter > 1 {
		return fmt.Errorf("jitter must be within [0, 1], got %f", s.Jitter)
	}
	if s.SpawnEvery < 0 {
		return fmt.Errorf("spawn interval must not be negative, got %d", s.SpawnEvery)
	}
	if s.Viewport.Empty() {
		return fmt.Errorf("viewport must have an area")
	}
	return nil
}

type Result struct {
	Script  Script
	Frames  []metrics.FrameStats
	Summary metrics.Summary
	Clicks  int
	Live    int
	Bodies  int
	Elapsed time.Duration
}

// Run plays a script against a fresh simulation on a headless host. On
// cancellation it returns the frames recorded so far with ctx.Err().
func Run(ctx context.Context, cfg *config.Config, script Script, opts ...sim.Option) (*Result, error) {
	return RunOn(ctx, headless.NewHost(script.Viewport), cfg, script, opts...)
}

// RunOn is Run on a caller supplied host, for callers that want to keep
// the renderer. Clicks use the script's viewport.
func RunOn(ctx context.Context, host *headless.Host, cfg *config.Config, script Script, opts ...sim.Option) (*Result, error) {
	if err := script.Validate(); err != nil {
		return nil, err
	}

	clock := sim.NewManualClock(script.FrameDelta)
	rec := metrics.NewRecorder(metrics.Standard()...)

	opts = append([]Option{sim.WithClock(clock), sim.WithObserver(rec)}, opts...)
	s, err := sim.Start(host, cfg, opts...)
	if err != nil {
		return nil, err
	}
	defer s.Destroy()

	rng := rand.New(rand.NewSource(script.Seed))
	result := &Result{Script: script}
	start := time.Now()

	finish := func() {
		result.Frames = rec.Frames()
		result.Summary = rec.Summary()
		result.Live = s.Pool().Len()
		result.Bodies = s.World().BodyCount()
		result.Elapsed = time.Since(start)
	}

	for i := 0; i < script.Frames; i++ {
		select {
		case <-ctx.Done():
			finish()
			return result, ctx.Err()
		default:
		}

		if script.SpawnEvery > 0 && i%script.SpawnEvery == 0 {
			host.Click(randomClick(rng, script.Viewport))
			result.Clicks++
		}
		if script.Jitter > 0 {
			clock.Push(script.FrameDelta * (1 + script.Jitter*(2*rng.Float64()-1)))
		}
		host.Pump(1)
	}

	finish()
	return result, nil
}

// Option is re-exported so callers can pass simulation options without
// importing sim.
type Option = sim.Option

// randomClick picks a point in the lower half of the viewport, which looks
// down at the floor for any camera above it.
func randomClick(rng *rand.Rand, vp dynamo.Viewport) (x, y float64) {
	x = vp.Left + rng.Float64()*vp.Width
	y = vp.Top + vp.Height*(0.5+0.5*rng.Float64())
	return x, y
}
