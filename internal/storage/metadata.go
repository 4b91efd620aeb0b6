package storage

import (
	"github.com/san-kum/spherefall/internal/config"
	"github.com/san-kum/spherefall/internal/experiment"
)

// Metadata describes a finished headless run for Save.
func Metadata(preset, script string, cfg *config.Config, res *experiment.Result) RunMetadata {
	return RunMetadata{
		Preset:        preset,
		Script:        script,
		Seed:          res.Script.Seed,
		Frames:        len(res.Frames),
		FrameDelta:    res.Script.FrameDelta,
		FixedTimeStep: cfg.Physics.FixedTimeStep,
		MaxSubSteps:   cfg.Physics.MaxSubSteps,
		MaxSpheres:    cfg.Limits.MaxSpheres,
		Integrator:    cfg.Physics.Integrator,
		Metrics:       res.Summary.Map(),
	}
}
