package automation

import (
	"context"
	"fmt"

	"github.com/san-kum/spherefall/internal/experiment"
	"github.com/san-kum/spherefall/internal/metrics"
)

// ParameterSweep runs one script for evenly spaced values of a config
// parameter, Min and Max included.
type ParameterSweep struct {
	Param    string
	Min, Max float64
	NumSteps int
	Script   string
	Frames   int
	Seed     int64
}

type SweepResult struct {
	Value   float64
	Summary metrics.Summary
}

func (r *Runner) RunSweep(ctx context.Context, sweep *ParameterSweep) ([]SweepResult, error) {
	if sweep.NumSteps < 2 {
		return nil, fmt.Errorf("sweep needs at least 2 steps, got %d", sweep.NumSteps)
	}
	if _, err := r.Base.Get(sweep.Param); err != nil {
		return nil, err
	}

	results := make([]SweepResult, 0, sweep.NumSteps)
	paramStep := (sweep.Max - sweep.Min) / float64(sweep.NumSteps-1)

	for i := 0; i < sweep.NumSteps; i++ {
		val := sweep.Min + float64(i)*paramStep
		cfg, script, err := r.Build(ScenarioStep{
			Script: sweep.Script,
			Frames: sweep.Frames,
			Seed:   sweep.Seed,
			Params: map[string]float64{sweep.Param: val},
		})
		if err != nil {
			return results, err
		}

		res, err := experiment.Run(ctx, cfg, script)
		if err != nil {
			return results, fmt.Errorf("%s=%g: %w", sweep.Param, val, err)
		}
		results = append(results, SweepResult{Value: val, Summary: res.Summary})

		r.Log.Info("sweep point", "step", i+1, "of", sweep.NumSteps, sweep.Param, val)
	}

	return results, nil
}
