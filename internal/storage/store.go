// Package storage persists simulation runs under a base directory. Each run
// gets its own directory holding metadata.json (run parameters and final
// observables), series.csv (one snapshot row per event), and balls.csv
// (per-ball reports at the start and end of the run).
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/gassim/internal/gas"
)

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
	ID              string       `json:"id"`
	Timestamp       time.Time    `json:"timestamp"`
	Seed            int64        `json:"seed"`
	ContainerRadius float64      `json:"container_radius"`
	Events          int          `json:"events"`
	Final           gas.Snapshot `json:"final"`
}

// Recorder collects a snapshot per event for later persistence. It
// implements gas.Observer.
type Recorder struct {
	Series []gas.Snapshot
}

func NewRecorder(capacity int) *Recorder {
	return &Recorder{Series: make([]gas.Snapshot, 0, capacity)}
}

func (r *Recorder) OnEvent(s gas.Snapshot) {
	r.Series = append(r.Series, s)
}

var seriesHeader = []string{"time", "kinetic_energy", "rms_speed", "pressure", "ball_collisions", "wall_collisions"}

// Save writes one run to disk and returns its id.
func (s *Store) Save(seed int64, containerRadius float64, series []gas.Snapshot, start, end []gas.BallReport) (string, error) {
	runID := fmt.Sprintf("gas_%d", time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:              runID,
		Timestamp:       time.Now(),
		Seed:            seed,
		ContainerRadius: containerRadius,
		Events:          len(series),
	}
	if len(series) > 0 {
		meta.Final = series[len(series)-1]
	}

	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", err
	}
	if err := writeSeries(filepath.Join(runDir, "series.csv"), series); err != nil {
		return "", err
	}
	if err := writeReports(filepath.Join(runDir, "balls.csv"), start, end); err != nil {
		return "", err
	}

	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeSeries(path string, series []gas.Snapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(seriesHeader); err != nil {
		return err
	}
	for _, snap := range series {
		row := []string{
			formatFloat(snap.Time),
			formatFloat(snap.KineticEnergy),
			formatFloat(snap.RMSSpeed),
			formatFloat(snap.Pressure),
			strconv.Itoa(snap.BallCollisions),
			strconv.Itoa(snap.WallCollisions),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// writeReports stores the per-ball view at the start and end of the run,
// one row per ball per checkpoint.
func writeReports(path string, start, end []gas.BallReport) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{"checkpoint", "ball", "speed", "kinetic_energy", "mean_free_path", "px", "py"}
	if err := w.Write(header); err != nil {
		return err
	}

	writeSet := func(label string, reports []gas.BallReport) error {
		for i, r := range reports {
			row := []string{
				label,
				strconv.Itoa(i),
				formatFloat(r.Speed),
				formatFloat(r.KineticEnergy),
				formatFloat(r.MeanFreePath),
				formatFloat(r.Momentum.X),
				formatFloat(r.Momentum.Y),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		return nil
	}

	if err := writeSet("start", start); err != nil {
		return err
	}
	return writeSet("end", end)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

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

		metaPath := filepath.Join(s.baseDir, entry.Name(), "metadata.json")
		data, err := os.ReadFile(metaPath)
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		runs = append(runs, meta)
	}
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadSeries reads back the per-event snapshot rows of a stored run.
func (s *Store) LoadSeries(runID string) ([]gas.Snapshot, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, "series.csv"))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	series := make([]gas.Snapshot, 0, len(records))
	for i, record := range records {
		if i == 0 || len(record) < 6 {
			continue
		}

		floats := make([]float64, 4)
		ok := true
		for j := 0; j < 4; j++ {
			floats[j], err = strconv.ParseFloat(record[j], 64)
			if err != nil {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}

		ballC, err1 := strconv.Atoi(record[4])
		wallC, err2 := strconv.Atoi(record[5])
		if err1 != nil || err2 != nil {
			continue
		}

		series = append(series, gas.Snapshot{
			Time:           floats[0],
			KineticEnergy:  floats[1],
			RMSSpeed:       floats[2],
			Pressure:       floats[3],
			BallCollisions: ballC,
			WallCollisions: wallC,
		})
	}
	return series, nil
}
