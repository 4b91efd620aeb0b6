package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/san-kum/spherefall/internal/automation"
	"github.com/san-kum/spherefall/internal/config"
	"github.com/san-kum/spherefall/internal/experiment"
	"github.com/san-kum/spherefall/internal/integrators"
	"github.com/san-kum/spherefall/internal/optim"
	"github.com/san-kum/spherefall/internal/storage"
	"github.com/spf13/cobra"
)

func showPresets(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		for _, name := range config.ListPresets() {
			fmt.Println(name)
		}
		return nil
	}
	cfg := config.GetPreset(args[0])
	if cfg == nil {
		return fmt.Errorf("unknown preset: %s", args[0])
	}
	data, err := config.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}

func showConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	data, err := config.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}

func newRunner(cmd *cobra.Command) (*automation.Runner, func(), error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	logger, closeLog, err := newLogger()
	if err != nil {
		return nil, nil, err
	}
	r := automation.NewRunner(cfg)
	r.Log = logger
	return r, closeLog, nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	r, closeLog, err := newRunner(cmd)
	if err != nil {
		return err
	}
	defer closeLog()

	r.Store = storage.New(dataDir)
	if err := r.Store.Init(); err != nil {
		return err
	}

	results, err := r.RunScenario(cmd.Context(), sc)
	if idx, ierr := r.Store.Index(); ierr != nil {
		r.Log.Warn("run index unavailable", "err", ierr)
	} else {
		for _, res := range results {
			if res.RunID != "" {
				indexRun(r.Store, idx, res.RunID, r.Log)
			}
		}
		idx.Close()
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tFRAMES\tLIVE\tSUMMARY\tRUN")
	for i, res := range results {
		name := res.Step.Name
		if name == "" {
			name = strconv.Itoa(i + 1)
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\t%s\n", name, len(res.Result.Frames), res.Result.Live, res.Result.Summary, res.RunID)
	}
	if ferr := w.Flush(); ferr != nil && err == nil {
		err = ferr
	}
	return err
}

func runSweep(cmd *cobra.Command, args []string) error {
	name, _, err := scriptArg(args, "drizzle")
	if err != nil {
		return err
	}
	r, closeLog, err := newRunner(cmd)
	if err != nil {
		return err
	}
	defer closeLog()

	results, err := r.RunSweep(cmd.Context(), &automation.ParameterSweep{
		Param:    sweepParam,
		Min:      sweepMin,
		Max:      sweepMax,
		NumSteps: sweepSteps,
		Script:   name,
		Frames:   frames,
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\n", strings.ToUpper(sweepParam), strings.ToUpper(metric))
	for _, res := range results {
		v, ok := res.Summary.Map()[metric]
		if !ok {
			return fmt.Errorf("unknown metric: %s", metric)
		}
		fmt.Fprintf(w, "%.4g\t%.6g\n", res.Value, v)
	}
	return w.Flush()
}

// parseGrid reads name=v1,v2,... specs.
func parseGrid(specs []string) ([]string, [][]float64, error) {
	names := make([]string, 0, len(specs))
	ranges := make([][]float64, 0, len(specs))
	for _, spec := range specs {
		name, list, ok := strings.Cut(spec, "=")
		if !ok || name == "" || list == "" {
			return nil, nil, fmt.Errorf("bad grid %q, want name=v1,v2", spec)
		}
		var vals []float64
		for _, s := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("bad grid value in %q: %w", spec, err)
			}
			vals = append(vals, v)
		}
		names = append(names, name)
		ranges = append(ranges, vals)
	}
	return names, ranges, nil
}

func runTune(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	_, script, err := scriptArg(args, "stutter")
	if err != nil {
		return err
	}
	names, ranges, err := parseGrid(gridParams)
	if err != nil {
		return err
	}
	for _, n := range names {
		if _, err := cfg.Get(n); err != nil {
			return err
		}
	}

	sign := 1.0
	if maximize {
		sign = -1
	}
	best, score, err := optim.NewGridSearch(names, ranges).Search(cmd.Context(),
		optim.MetricObjective(cfg, script, metric, sign))
	if err != nil {
		return err
	}

	for _, n := range names {
		fmt.Printf("%s = %g\n", n, best[n])
	}
	fmt.Printf("%s = %.6g\n", metric, sign*score)
	return nil
}

func bench(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	_, script, err := scriptArg(args, "storm")
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEGRATOR\tFRAMES\tELAPSED\tFRAMES/S\tPEAK\tENERGY")
	for _, name := range integrators.Names() {
		c := cfg.Clone()
		c.Physics.Integrator = name
		res, err := experiment.Run(cmd.Context(), c, script)
		if err != nil {
			return err
		}
		rate := float64(len(res.Frames)) / res.Elapsed.Seconds()
		fmt.Fprintf(w, "%s\t%d\t%s\t%.0f\t%.0f\t%.4g\n",
			name, len(res.Frames), res.Elapsed.Round(time.Millisecond), rate,
			res.Summary.Values["peak_live"], res.Summary.Values["mean_kinetic_energy"])
	}
	return w.Flush()
}
