package storage

import (
	"path/filepath"
	"testing"
	"time"
)

func TestIndexRecordAndTop(t *testing.T) {
	idx, err := OpenIndex(filepath.Join(t.TempDir(), "nested", "index.db"))
	if err != nil {
		t.Fatalf("OpenIndex() failed: %v", err)
	}
	defer idx.Close()

	base := time.UnixMilli(1_700_000_000_000)
	runs := []RunMetadata{
		{ID: "a", Preset: "rain", Script: "drizzle", Integrator: "semi-implicit", Timestamp: base, Metrics: map[string]float64{"peak_live": 10, "evictions": 0}},
		{ID: "b", Preset: "rain", Script: "storm", Integrator: "semi-implicit", Timestamp: base.Add(time.Second), Metrics: map[string]float64{"peak_live": 40}},
		{ID: "c", Preset: "moon", Script: "storm", Integrator: "verlet", Timestamp: base.Add(2 * time.Second), Metrics: map[string]float64{"peak_live": 25}},
	}
	for _, r := range runs {
		if err := idx.Record(r); err != nil {
			t.Fatalf("Record(%s) failed: %v", r.ID, err)
		}
	}

	top, err := idx.Top("peak_live", 2, false)
	if err != nil {
		t.Fatalf("Top() failed: %v", err)
	}
	if len(top) != 2 || top[0].ID != "b" || top[1].ID != "c" {
		t.Fatalf("unexpected ranking %+v", top)
	}
	if top[0].Value != 40 || top[1].Integrator != "verlet" {
		t.Errorf("unexpected row contents %+v", top)
	}
	if !top[0].Created.Equal(base.Add(time.Second)) {
		t.Errorf("created = %v", top[0].Created)
	}

	low, err := idx.Top("peak_live", 10, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(low) != 3 || low[0].ID != "a" {
		t.Errorf("unexpected ascending ranking %+v", low)
	}

	only, err := idx.Top("evictions", 10, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(only) != 1 || only[0].ID != "a" {
		t.Errorf("runs without the metric should be skipped, got %+v", only)
	}
}

func TestIndexRecordReplaces(t *testing.T) {
	idx, err := OpenIndex(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer idx.Close()

	meta := RunMetadata{ID: "a", Preset: "rain", Metrics: map[string]float64{"peak_live": 1, "evictions": 3}}
	if err := idx.Record(meta); err != nil {
		t.Fatal(err)
	}
	meta.Metrics = map[string]float64{"peak_live": 7}
	if err := idx.Record(meta); err != nil {
		t.Fatal(err)
	}

	n, err := idx.Count()
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("expected 1 run, got %d", n)
	}
	top, _ := idx.Top("peak_live", 1, false)
	if len(top) != 1 || top[0].Value != 7 {
		t.Errorf("expected replaced value 7, got %+v", top)
	}
	if stale, _ := idx.Top("evictions", 1, false); len(stale) != 0 {
		t.Errorf("stale metric survived: %+v", stale)
	}
}

func TestIndexRejectsEmptyID(t *testing.T) {
	idx, err := OpenIndex(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer idx.Close()

	if err := idx.Record(RunMetadata{}); err == nil {
		t.Error("expected error for empty id")
	}
}

func TestIndexRebuild(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatal(err)
	}
	for _, preset := range []string{"rain", "moon"} {
		meta := RunMetadata{Preset: preset, Metrics: map[string]float64{"peak_live": 2}}
		if _, err := st.Save(meta, sampleFrames()); err != nil {
			t.Fatal(err)
		}
	}

	idx, err := st.Index()
	if err != nil {
		t.Fatal(err)
	}
	defer idx.Close()

	n, err := idx.Rebuild(st)
	if err != nil {
		t.Fatalf("Rebuild() failed: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 runs indexed, got %d", n)
	}
	count, _ := idx.Count()
	if count != 2 {
		t.Errorf("expected count 2, got %d", count)
	}
}
