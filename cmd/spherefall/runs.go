package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/spherefall/internal/analysis"
	"github.com/san-kum/spherefall/internal/config"
	"github.com/san-kum/spherefall/internal/dynamo"
	"github.com/san-kum/spherefall/internal/experiment"
	"github.com/san-kum/spherefall/internal/export"
	"github.com/san-kum/spherefall/internal/headless"
	"github.com/san-kum/spherefall/internal/metrics"
	"github.com/san-kum/spherefall/internal/sim"
	"github.com/san-kum/spherefall/internal/storage"
	"github.com/san-kum/spherefall/internal/viz"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func runScript(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	name, script, err := scriptArg(args, "drizzle")
	if err != nil {
		return err
	}
	script.Seed = seed
	logger, closeLog, err := newLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	ctx := cmd.Context()
	var results []*experiment.Result
	if numRuns > 1 {
		results, err = experiment.NewEnsemble(cfg, script, numRuns).Run(ctx)
	} else {
		var res *experiment.Result
		res, err = experiment.Run(ctx, cfg, script, sim.WithLogger(logger))
		results = []*experiment.Result{res}
	}
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	var idx *storage.Index
	if !noSave {
		if err := st.Init(); err != nil {
			return err
		}
		if idx, err = st.Index(); err != nil {
			logger.Warn("run index unavailable", "err", err)
		} else {
			defer idx.Close()
		}
	}
	for _, res := range results {
		fmt.Printf("seed %d: %s (%s)\n", res.Script.Seed, res.Summary, res.Elapsed.Round(1e6))
		if noSave {
			continue
		}
		id, err := st.Save(storage.Metadata(presetName(), name, cfg, res), res.Frames)
		if err != nil {
			return err
		}
		logger.Info("run saved", "id", id, "dir", dataDir)
		indexRun(st, idx, id, logger)
	}
	return nil
}

func indexRun(st *storage.Store, idx *storage.Index, id string, logger *log.Logger) {
	if idx == nil {
		return
	}
	meta, err := st.Load(id)
	if err == nil {
		err = idx.Record(*meta)
	}
	if err != nil {
		logger.Warn("failed to index run", "id", id, "err", err)
	}
}

func topRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	idx, err := st.Index()
	if err != nil {
		return err
	}
	defer idx.Close()

	if rebuild {
		n, err := idx.Rebuild(st)
		if err != nil {
			return err
		}
		fmt.Printf("indexed %d runs\n", n)
	}

	runs, err := idx.Top(args[0], limit, ascending)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Printf("no indexed runs report %s\n", args[0])
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tPRESET\tSCRIPT\tINTEG\tSEED\t%s\n", strings.ToUpper(args[0]))
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%.4g\n",
			run.ID, run.Preset, run.Script, run.Integrator, run.Seed, run.Value)
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tSCRIPT\tTIME\tFRAMES\tSTEP\tSUBSTEPS\tPOOL\tINTEG")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%.4fs\t%d\t%d\t%s\n",
			run.ID,
			run.Preset,
			run.Script,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Frames,
			run.FixedTimeStep,
			run.MaxSubSteps,
			run.MaxSpheres,
			run.Integrator,
		)
	}

	return w.Flush()
}

func loadSeries(runID string) (*storage.RunMetadata, []float64, error) {
	fn, ok := metrics.Fields[field]
	if !ok {
		return nil, nil, fmt.Errorf("unknown field: %s (available: %s)", field, strings.Join(metrics.FieldNames(), ", "))
	}
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	frames, err := st.LoadFrames(runID)
	if err != nil {
		return nil, nil, err
	}
	if len(frames) == 0 {
		return nil, nil, fmt.Errorf("no data to plot")
	}
	series := make([]float64, len(frames))
	for i, f := range frames {
		series[i] = fn(f)
	}
	return meta, series, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, data, err := loadSeries(args[0])
	if err != nil {
		return err
	}

	width := 80
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 20 {
		width = w - 12
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("preset: %s  script: %s\n", meta.Preset, meta.Script)
	fmt.Printf("frames: %d\n\n", len(data))

	graph := asciigraph.Plot(data,
		asciigraph.Height(12),
		asciigraph.Width(width),
		asciigraph.Caption(field+" per frame"),
	)
	fmt.Println(graph)
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, data, err := loadSeries(args[0])
	if err != nil {
		return err
	}

	s := analysis.Describe(data)
	fmt.Printf("run: %s  field: %s\n\n", meta.ID, field)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "n\t%d\n", s.N)
	fmt.Fprintf(w, "mean\t%.6g\n", s.Mean)
	fmt.Fprintf(w, "stddev\t%.6g\n", s.StdDev)
	fmt.Fprintf(w, "min\t%.6g\n", s.Min)
	fmt.Fprintf(w, "p50\t%.6g\n", s.P50)
	fmt.Fprintf(w, "p95\t%.6g\n", s.P95)
	fmt.Fprintf(w, "p99\t%.6g\n", s.P99)
	fmt.Fprintf(w, "max\t%.6g\n", s.Max)
	if meta.FrameDelta > 0 {
		freq, power := analysis.DominantFrequency(data, 1/meta.FrameDelta)
		fmt.Fprintf(w, "dominant\t%.4g Hz (power %.4g)\n", freq, power)
	}
	return w.Flush()
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	frames, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}
	return storage.WriteCSV(os.Stdout, frames)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, *meta, frames)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	_, data, err := loadSeries(args[0])
	if err != nil {
		return err
	}
	return writeOutput(export.SeriesToSVG(data, 800, 300, string(viz.ThemeNight.Scene)))
}

// snapshot plays a script with the terminal renderer in place of the
// recording one and writes its final canvas.
func snapshot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	_, script, err := scriptArg(args, "drizzle")
	if err != nil {
		return err
	}
	script.Seed = seed
	// 160x48 cells
	script.Viewport = dynamo.Viewport{Width: 320, Height: 192}

	var r *viz.Renderer
	host := headless.NewHost(script.Viewport)
	host.RendererFunc = func(scene config.Scene) dynamo.Renderer {
		r = viz.NewRenderer(scene)
		return r
	}
	// teardown clears the canvas, so keep a copy of the last frame
	var canvas *viz.Canvas
	last := metrics.ObserverFunc(func(s metrics.FrameStats) {
		if int(s.Frame) == script.Frames {
			canvas = r.Canvas().Clone()
		}
	})
	if _, err := experiment.RunOn(cmd.Context(), host, cfg, script, sim.WithObserver(last)); err != nil {
		return err
	}
	if canvas == nil {
		return fmt.Errorf("no frame rendered")
	}
	bg := fmt.Sprintf("#%06x", uint32(cfg.Scene.Background))
	return writeOutput(export.CanvasToSVG(canvas, scale, viz.SceneTheme(cfg.Scene), bg))
}

func writeOutput(s string) error {
	var w io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	_, err := io.WriteString(w, s+"\n")
	return err
}
