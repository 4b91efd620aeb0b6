package experiment

import (
	"context"
	"sync"

	"github.com/san-kum/spherefall/internal/config"
)

// Ensemble runs the same script with consecutive seeds concurrently. Each
// run owns its simulation; nothing is shared between them.
type Ensemble struct {
	cfg       *config.Config
	script    Script
	numRuns   int
	seedStart int64
}

func NewEnsemble(cfg *config.Config, script Script, numRuns int) *Ensemble {
	return &Ensemble{cfg: cfg, script: script, numRuns: numRuns, seedStart: script.Seed}
}

func (e *Ensemble) Run(ctx context.Context) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			script := e.script
			script.Seed = e.seedStart + int64(idx)
			results[idx], errs[idx] = Run(ctx, e.cfg.Clone(), script)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
