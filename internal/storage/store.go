package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/dynscene/internal/sim"
	"github.com/san-kum/dynscene/internal/visualizer"
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
	ID         string             `json:"id"`
	Scenario   string             `json:"scenario"`
	Timestamp  time.Time          `json:"timestamp"`
	Start      time.Time          `json:"start"`
	Step       float64            `json:"step"`
	Duration   float64            `json:"duration"`
	Multiplier float64            `json:"multiplier"`
	Range      string             `json:"range"`
	Frames     int                `json:"frames"`
	Events     int                `json:"events"`
	Metrics    map[string]float64 `json:"metrics"`
}

// Run describes how a result was produced.
type Run struct {
	Scenario string
	Config   sim.Config
}

var frameHeader = []string{
	"index", "time", "batched", "standalone", "unused", "rebuilt",
	"color_writes", "show_writes", "acquired", "reused", "released", "skipped",
}

func (s *Store) Save(run Run, result *sim.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", run.Scenario, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		Scenario:   run.Scenario,
		Timestamp:  now,
		Start:      result.Start,
		Step:       run.Config.Step.Seconds(),
		Duration:   run.Config.Duration.Seconds(),
		Multiplier: run.Config.Multiplier,
		Range:      run.Config.Range.String(),
		Frames:     len(result.Frames),
		Events:     result.EventsApplied,
		Metrics:    result.Metrics,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "frames.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write(frameHeader); err != nil {
		return "", err
	}
	for _, f := range result.Frames {
		if err := w.Write(frameRow(f, result.Start)); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return runID, nil
}

func frameRow(f sim.Frame, start time.Time) []string {
	st := f.Stats
	return []string{
		strconv.Itoa(f.Index),
		strconv.FormatFloat(f.Time.Sub(start).Seconds(), 'f', 6, 64),
		strconv.Itoa(st.Batched),
		strconv.Itoa(st.Standalone),
		strconv.Itoa(st.Unused),
		strconv.FormatBool(st.Rebuilt),
		strconv.Itoa(st.ColorWrites),
		strconv.Itoa(st.ShowWrites),
		strconv.Itoa(st.Acquired),
		strconv.Itoa(st.Reused),
		strconv.Itoa(st.Released),
		strconv.Itoa(st.Skipped),
	}
}

// List returns stored runs, newest first.
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

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
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

// LoadFrames reads the per-frame statistics of a run. Times are offsets from
// the run's start.
func (s *Store) LoadFrames(runID string) ([]FrameRecord, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "frames.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(frameHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []FrameRecord{}, nil
	}

	frames := make([]FrameRecord, 0, len(records)-1)
	for i, record := range records[1:] {
		f, err := parseFrame(record)
		if err != nil {
			return nil, fmt.Errorf("frames.csv line %d: %w", i+2, err)
		}
		frames = append(frames, f)
	}
	return frames, nil
}

// FrameRecord is one stored frame.
type FrameRecord struct {
	Index   int              `json:"index"`
	Seconds float64          `json:"seconds"`
	Stats   visualizer.Stats `json:"stats"`
}

func parseFrame(record []string) (FrameRecord, error) {
	var f FrameRecord
	var err error
	ints := make([]int, 0, len(record))
	for j, field := range record {
		switch j {
		case 1:
			f.Seconds, err = strconv.ParseFloat(field, 64)
		case 5:
			f.Stats.Rebuilt, err = strconv.ParseBool(field)
		default:
			var v int
			v, err = strconv.Atoi(field)
			ints = append(ints, v)
		}
		if err != nil {
			return f, fmt.Errorf("%s: %w", frameHeader[j], err)
		}
	}
	f.Index = ints[0]
	f.Stats.Batched = ints[1]
	f.Stats.Standalone = ints[2]
	f.Stats.Unused = ints[3]
	f.Stats.ColorWrites = ints[4]
	f.Stats.ShowWrites = ints[5]
	f.Stats.Acquired = ints[6]
	f.Stats.Reused = ints[7]
	f.Stats.Released = ints[8]
	f.Stats.Skipped = ints[9]
	return f, nil
}
