package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/spherefall/internal/metrics"
)

type ExportData struct {
	Run    RunMetadata          `json:"run"`
	Frames []metrics.FrameStats `json:"frames"`
}

func ExportJSON(w io.Writer, meta RunMetadata, frames []metrics.FrameStats) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ExportData{Run: meta, Frames: frames})
}
