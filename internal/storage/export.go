package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/spherebounce/internal/dynamo"
)

type ExportData struct {
	Scene      string             `json:"scene"`
	Integrator string             `json:"integrator"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Steps      int                `json:"steps"`
	Spawned    int                `json:"spawned"`
	Recycled   int                `json:"recycled"`
	Contacts   int                `json:"contacts"`
	Frames     []dynamo.Frame     `json:"frames"`
	Metrics    map[string]float64 `json:"metrics"`
}

// NewExportData combines stored metadata with its frames.
func NewExportData(meta *RunMetadata, frames []dynamo.Frame) ExportData {
	return ExportData{
		Scene:      meta.Scene,
		Integrator: meta.Integrator,
		Dt:         meta.Dt,
		Duration:   meta.Duration,
		Steps:      meta.Steps,
		Spawned:    meta.Spawned,
		Recycled:   meta.Recycled,
		Contacts:   meta.Contacts,
		Frames:     frames,
		Metrics:    meta.Metrics,
	}
}

func WriteJSON(w io.Writer, data ExportData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// ExportJSON writes to path, or to stdout when path is "-".
func ExportJSON(path string, data ExportData) error {
	if path == "-" {
		return WriteJSON(os.Stdout, data)
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteJSON(file, data)
}

// ExportCSV writes the stored frames of a run to path, or to stdout when
// path is "-".
func (s *Store) ExportCSV(runID, path string) error {
	frames, err := s.LoadFrames(runID)
	if err != nil {
		return err
	}
	if path == "-" {
		return WriteFramesCSV(os.Stdout, frames)
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteFramesCSV(file, frames)
}
