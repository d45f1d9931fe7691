// Package scenario loads scripted scenes from YAML.
//
// A scenario lists objects with constant or sampled attributes, plus timed
// events that add or remove them. Times are seconds relative to Start; all
// positions are offset by Origin.
package scenario

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	ErrNoName      = errors.New("scenario: name is required")
	ErrNoObjects   = errors.New("scenario: at least one object is required")
	ErrUnknownID   = errors.New("scenario: unknown object id")
	ErrDuplicateID = errors.New("scenario: duplicate object id")
)

type Scenario struct {
	Name        string    `yaml:"name"`
	Description string    `yaml:"description"`
	Start       time.Time `yaml:"start"`
	// Duration is the default run length in seconds.
	Duration float64      `yaml:"duration"`
	Origin   Vec3         `yaml:"origin"`
	Objects  []ObjectSpec `yaml:"objects"`
	Events   []EventSpec  `yaml:"events"`
}

type Vec3 [3]float64

type ObjectSpec struct {
	ID        string `yaml:"id"`
	Deferred  bool   `yaml:"deferred"`
	NoPolygon bool   `yaml:"no_polygon"`
	// Available is a half-open [from, to) window in seconds.
	Available []float64 `yaml:"available"`

	Vertices        []Vec3           `yaml:"vertices"`
	VertexSamples   []VertexSample   `yaml:"vertex_samples"`
	Position        *Vec3            `yaml:"position"`
	PositionSamples []PositionSample `yaml:"position_samples"`
	Ellipse         *EllipseSpec     `yaml:"ellipse"`

	Show        *bool        `yaml:"show"`
	ShowSamples []BoolSample `yaml:"show_samples"`

	Material *MaterialSpec `yaml:"material"`
}

type VertexSample struct {
	At       float64 `yaml:"at"`
	Vertices []Vec3  `yaml:"vertices"`
}

type PositionSample struct {
	At    float64 `yaml:"at"`
	Value Vec3    `yaml:"value"`
}

type BoolSample struct {
	At    float64 `yaml:"at"`
	Value bool    `yaml:"value"`
}

type ColorSample struct {
	At    float64 `yaml:"at"`
	Color string  `yaml:"color"`
}

type EllipseSpec struct {
	SemiMajor float64 `yaml:"semi_major"`
	SemiMinor float64 `yaml:"semi_minor"`
	// Rotation and Granularity are in degrees.
	Rotation    float64 `yaml:"rotation"`
	Granularity float64 `yaml:"granularity"`
}

type MaterialSpec struct {
	Type      string        `yaml:"type"`
	Color     string        `yaml:"color"`
	Colors    []ColorSample `yaml:"colors"`
	Image     string        `yaml:"image"`
	Repeat    []float64     `yaml:"repeat"`
	CellAlpha *float64      `yaml:"cell_alpha"`
	Lines     []float64     `yaml:"lines"`
}

type EventSpec struct {
	At     float64  `yaml:"at"`
	Add    []string `yaml:"add"`
	Remove []string `yaml:"remove"`
}

// Load reads a scenario from a YAML file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes and validates a YAML scenario.
func Parse(data []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("scenario: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks ids, event references and material types.
func (s *Scenario) Validate() error {
	if s.Name == "" {
		return ErrNoName
	}
	if len(s.Objects) == 0 {
		return ErrNoObjects
	}
	if s.Duration < 0 {
		return fmt.Errorf("scenario %s: duration must not be negative", s.Name)
	}

	ids := make(map[string]bool, len(s.Objects))
	for i, o := range s.Objects {
		if o.ID == "" {
			return fmt.Errorf("scenario %s: object %d: id is required", s.Name, i)
		}
		if ids[o.ID] {
			return fmt.Errorf("%w: %q", ErrDuplicateID, o.ID)
		}
		ids[o.ID] = true

		if len(o.Available) != 0 && len(o.Available) != 2 {
			return fmt.Errorf("scenario %s: object %q: available needs [from, to]", s.Name, o.ID)
		}
		if o.Material != nil {
			switch o.Material.Type {
			case "", "color", "image", "grid":
			default:
				return fmt.Errorf("scenario %s: object %q: unknown material %q", s.Name, o.ID, o.Material.Type)
			}
		}
	}

	for i, ev := range s.Events {
		for _, id := range append(append([]string(nil), ev.Add...), ev.Remove...) {
			if !ids[id] {
				return fmt.Errorf("%w: event %d references %q", ErrUnknownID, i, id)
			}
		}
	}
	return nil
}

// RunDuration is the scenario's preferred run length, or def when unset.
func (s *Scenario) RunDuration(def time.Duration) time.Duration {
	if s.Duration <= 0 {
		return def
	}
	return seconds(s.Duration)
}

func seconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}
