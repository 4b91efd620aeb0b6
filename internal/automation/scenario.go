package automation

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/san-kum/spherefall/internal/config"
	"github.com/san-kum/spherefall/internal/experiment"
	"github.com/san-kum/spherefall/internal/storage"
	"gopkg.in/yaml.v3"
)

const defaultScript = "drizzle"

// Scenario is a scripted sequence of headless runs.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is one run. Zero fields fall back to the runner's base
// config and the script's own values.
type ScenarioStep struct {
	Name   string             `yaml:"name"`
	Preset string             `yaml:"preset"`
	Script string             `yaml:"script"`
	Frames int                `yaml:"frames"`
	Seed   int64              `yaml:"seed"`
	Params map[string]float64 `yaml:"params"`
	Save   bool               `yaml:"save"`
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}
	if len(sc.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", sc.Name)
	}
	return &sc, nil
}

type StepResult struct {
	Step   ScenarioStep
	Config *config.Config
	Result *experiment.Result
	// RunID is set when the step was saved.
	RunID string
}

// Runner executes scenarios and sweeps.
type Runner struct {
	Base  *config.Config
	Store *storage.Store
	Log   *log.Logger
}

func NewRunner(base *config.Config) *Runner {
	return &Runner{Base: base, Log: log.New(io.Discard)}
}

// Build resolves a step into the config and script it runs with.
func (r *Runner) Build(step ScenarioStep) (*config.Config, experiment.Script, error) {
	cfg := r.Base.Clone()
	if step.Preset != "" {
		cfg = config.GetPreset(step.Preset)
		if cfg == nil {
			return nil, experiment.Script{}, fmt.Errorf("unknown preset: %s", step.Preset)
		}
	}
	for name, v := range step.Params {
		if err := cfg.Set(name, v); err != nil {
			return nil, experiment.Script{}, err
		}
	}

	name := step.Script
	if name == "" {
		name = defaultScript
	}
	script, err := experiment.GetScript(name)
	if err != nil {
		return nil, experiment.Script{}, err
	}
	if step.Frames > 0 {
		script.Frames = step.Frames
	}
	script.Seed = step.Seed
	return cfg, script, nil
}

// RunScenario runs every step in order and stops at the first failure,
// returning the steps that completed.
func (r *Runner) RunScenario(ctx context.Context, sc *Scenario) ([]StepResult, error) {
	results := make([]StepResult, 0, len(sc.Steps))

	for i, step := range sc.Steps {
		r.Log.Info("running step", "step", i+1, "of", len(sc.Steps), "name", step.Name)

		cfg, script, err := r.Build(step)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		res, err := experiment.Run(ctx, cfg, script)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		sr := StepResult{Step: step, Config: cfg, Result: res}
		if step.Save && r.Store != nil {
			scriptName := step.Script
			if scriptName == "" {
				scriptName = defaultScript
			}
			preset := step.Preset
			if preset == "" {
				preset = "scenario"
			}
			id, err := r.Store.Save(storage.Metadata(preset, scriptName, cfg, res), res.Frames)
			if err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
			sr.RunID = id
		}
		results = append(results, sr)
	}

	return results, nil
}
