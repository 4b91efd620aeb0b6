package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/san-kum/spherefall/internal/metrics"
)

var csvHeader = []string{
	"frame", "time", "delta", "substeps", "leftover", "drift_reset",
	"live", "spawned", "evicted", "kinetic_energy",
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func WriteCSV(w io.Writer, frames []metrics.FrameStats) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, f := range frames {
		row := []string{
			strconv.FormatUint(f.Frame, 10),
			formatFloat(f.Time),
			formatFloat(f.Delta),
			strconv.Itoa(f.SubSteps),
			formatFloat(f.Leftover),
			strconv.FormatBool(f.DriftReset),
			strconv.Itoa(f.Live),
			strconv.Itoa(f.Spawned),
			strconv.Itoa(f.Evicted),
			formatFloat(f.KineticEnergy),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func ReadCSV(r io.Reader) ([]metrics.FrameStats, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(csvHeader)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read frames: %w", err)
	}
	if len(records) < 2 {
		return []metrics.FrameStats{}, nil
	}

	frames := make([]metrics.FrameStats, 0, len(records)-1)
	for i, rec := range records[1:] {
		f, err := parseRow(rec)
		if err != nil {
			return nil, fmt.Errorf("frames row %d: %w", i+1, err)
		}
		frames = append(frames, f)
	}
	return frames, nil
}

func parseRow(rec []string) (metrics.FrameStats, error) {
	var (
		f   metrics.FrameStats
		err error
	)
	// keep the first error, skip the rest
	parse := func(fn func() error) {
		if err == nil {
			err = fn()
		}
	}
	parse(func() (e error) { f.Frame, e = strconv.ParseUint(rec[0], 10, 64); return })
	parse(func() (e error) { f.Time, e = strconv.ParseFloat(rec[1], 64); return })
	parse(func() (e error) { f.Delta, e = strconv.ParseFloat(rec[2], 64); return })
	parse(func() (e error) { f.SubSteps, e = strconv.Atoi(rec[3]); return })
	parse(func() (e error) { f.Leftover, e = strconv.ParseFloat(rec[4], 64); return })
	parse(func() (e error) { f.DriftReset, e = strconv.ParseBool(rec[5]); return })
	parse(func() (e error) { f.Live, e = strconv.Atoi(rec[6]); return })
	parse(func() (e error) { f.Spawned, e = strconv.Atoi(rec[7]); return })
	parse(func() (e error) { f.Evicted, e = strconv.Atoi(rec[8]); return })
	parse(func() (e error) { f.KineticEnergy, e = strconv.ParseFloat(rec[9], 64); return })
	return f, err
}
