package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/spherebounce/internal/config"
	"github.com/san-kum/spherebounce/internal/dynamo"
)

const (
	metadataFile = "metadata.json"
	framesFile   = "frames.csv"
	sceneFile    = "scene.yaml"
)

var frameHeader = []string{"time", "slot", "x", "y", "z", "vx", "vy", "vz"}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Scene      string             `json:"scene"`
	Timestamp  time.Time          `json:"timestamp"`
	Seed       int64              `json:"seed"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Integrator string             `json:"integrator"`
	MaxSpheres int                `json:"max_spheres"`
	Steps      int                `json:"steps"`
	Frames     int                `json:"frames"`
	Spawned    int                `json:"spawned"`
	Recycled   int                `json:"recycled"`
	Contacts   int                `json:"contacts"`
	Metrics    map[string]float64 `json:"metrics"`
}

// Save writes the run metadata, every recorded frame and the scene config
// into a new run directory and returns the run ID.
func (s *Store) Save(cfg *config.Config, result *dynamo.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", cfg.Name, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		Scene:      cfg.Name,
		Timestamp:  now,
		Seed:       cfg.Seed,
		Dt:         cfg.Dt,
		Duration:   cfg.Duration,
		Integrator: cfg.IntegratorName(),
		MaxSpheres: cfg.MaxSpheres,
		Steps:      result.StepsTaken,
		Frames:     len(result.Frames),
		Spawned:    result.Spawned,
		Recycled:   result.Recycled,
		Contacts:   result.Contacts,
		Metrics:    result.Metrics,
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, framesFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteFramesCSV(csvFile, result.Frames); err != nil {
		return "", err
	}

	if err := config.Save(filepath.Join(runDir, sceneFile), cfg); err != nil {
		return "", err
	}

	return runID, nil
}

// WriteFramesCSV writes one row per particle sample.
func WriteFramesCSV(out io.Writer, frames []dynamo.Frame) error {
	w := csv.NewWriter(out)

	if err := w.Write(frameHeader); err != nil {
		return err
	}

	for _, f := range frames {
		t := strconv.FormatFloat(f.Time, 'g', -1, 64)
		for _, smp := range f.Samples {
			row := []string{t, strconv.Itoa(smp.Slot)}
			for _, v := range [2]mgl64.Vec3{smp.Position, smp.Velocity} {
				for _, c := range v {
					row = append(row, strconv.FormatFloat(c, 'g', -1, 64))
				}
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}

	w.Flush()
	return w.Error()
}

// List returns every stored run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadConfig returns the scene config the run was made with.
func (s *Store) LoadConfig(runID string) (*config.Config, error) {
	return config.Load(filepath.Join(s.baseDir, runID, sceneFile))
}

// LoadFrames reads the frames back. Frames without samples are not stored,
// so they are not returned either.
func (s *Store) LoadFrames(runID string) ([]dynamo.Frame, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, framesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return ReadFramesCSV(file)
}

func ReadFramesCSV(in io.Reader) ([]dynamo.Frame, error) {
	r := csv.NewReader(in)
	r.FieldsPerRecord = len(frameHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	frames := make([]dynamo.Frame, 0)
	for i := 1; i < len(records); i++ {
		record := records[i]

		var vals [8]float64
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d column %s: %w", i, frameHeader[j], err)
			}
			vals[j] = v
		}

		smp := dynamo.Sample{
			Slot:     int(vals[1]),
			Position: mgl64.Vec3{vals[2], vals[3], vals[4]},
			Velocity: mgl64.Vec3{vals[5], vals[6], vals[7]},
		}
		if n := len(frames); n > 0 && frames[n-1].Time == vals[0] {
			frames[n-1].Samples = append(frames[n-1].Samples, smp)
			continue
		}
		frames = append(frames, dynamo.Frame{Time: vals[0], Samples: []dynamo.Sample{smp}})
	}

	return frames, nil
}
