package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/dynscene/internal/sim"
)

type ExportData struct {
	Scenario   string             `json:"scenario"`
	Step       float64            `json:"step"`
	Duration   float64            `json:"duration"`
	Multiplier float64            `json:"multiplier"`
	Frames     []FrameRecord      `json:"frames"`
	Events     int                `json:"events"`
	Metrics    map[string]float64 `json:"metrics"`
}

func NewExportData(run Run, result *sim.Result) ExportData {
	data := ExportData{
		Scenario:   run.Scenario,
		Step:       run.Config.Step.Seconds(),
		Duration:   run.Config.Duration.Seconds(),
		Multiplier: run.Config.Multiplier,
		Frames:     make([]FrameRecord, len(result.Frames)),
		Events:     result.EventsApplied,
		Metrics:    result.Metrics,
	}
	for i, f := range result.Frames {
		data.Frames[i] = FrameRecord{
			Index:   f.Index,
			Seconds: f.Time.Sub(result.Start).Seconds(),
			Stats:   f.Stats,
		}
	}
	return data
}

// WriteJSON writes an indented export of result to w.
func WriteJSON(w io.Writer, run Run, result *sim.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(NewExportData(run, result))
}

// ExportJSON writes the export to path, or to stdout when path is "-".
func ExportJSON(path string, run Run, result *sim.Result) error {
	if path == "-" {
		return WriteJSON(os.Stdout, run, result)
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteJSON(file, run, result)
}
