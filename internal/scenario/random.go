package scenario

import (
	"fmt"
	"math/rand"
	"time"
)

// RandomConfig drives Random.
type RandomConfig struct {
	Objects  int
	Duration float64
	// Moving is the share of objects with sampled vertices.
	Moving float64
	// Churn is the number of add/remove events spread over the run.
	Churn int
	Seed  int64
}

// Random generates a stress scenario: squares scattered on a grid with random
// colors, some of them moving, some with limited availability, and random
// add/remove events. A zero seed uses the current time.
func Random(cfg RandomConfig) (*Scenario, error) {
	if cfg.Objects <= 0 {
		return nil, ErrNoObjects
	}
	if cfg.Duration <= 0 {
		cfg.Duration = 30
	}
	rng := rand.New(rand.NewSource(cfg.Seed))
	if cfg.Seed == 0 {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	s := &Scenario{
		Name:        fmt.Sprintf("random-%d", cfg.Objects),
		Description: fmt.Sprintf("%d generated objects, %d churn events", cfg.Objects, cfg.Churn),
		Start:       DefaultStart,
		Duration:    cfg.Duration,
		Origin:      Vec3{0, 0, 6378137},
		Objects:     make([]ObjectSpec, 0, cfg.Objects),
	}

	side := 1
	for side*side < cfg.Objects {
		side++
	}
	for i := 0; i < cfg.Objects; i++ {
		cx, cy := float64(i%side)*10, float64(i/side)*10
		o := ObjectSpec{
			ID:       fmt.Sprintf("obj-%04d", i),
			Material: &MaterialSpec{Color: randomHex(rng)},
		}
		if rng.Float64() < cfg.Moving {
			dx, dy := (rng.Float64()-0.5)*8, (rng.Float64()-0.5)*8
			o.VertexSamples = []VertexSample{
				{At: 0, Vertices: Regular(Vec3{cx, cy, 0}, 3, 4)},
				{At: cfg.Duration, Vertices: Regular(Vec3{cx + dx, cy + dy, 0}, 3, 4)},
			}
		} else {
			o.Vertices = Regular(Vec3{cx, cy, 0}, 3, 4)
		}
		if rng.Float64() < 0.2 {
			from := rng.Float64() * cfg.Duration / 2
			o.Available = []float64{from, from + cfg.Duration/4}
		}
		s.Objects = append(s.Objects, o)
	}

	present := make([]bool, cfg.Objects)
	for i := range present {
		present[i] = true
	}
	for i := 0; i < cfg.Churn; i++ {
		idx := rng.Intn(cfg.Objects)
		ev := EventSpec{At: cfg.Duration * float64(i+1) / float64(cfg.Churn+1)}
		if present[idx] {
			ev.Remove = []string{s.Objects[idx].ID}
		} else {
			ev.Add = []string{s.Objects[idx].ID}
		}
		present[idx] = !present[idx]
		s.Events = append(s.Events, ev)
	}
	return s, s.Validate()
}

func randomHex(rng *rand.Rand) string {
	return fmt.Sprintf("#%02x%02x%02x", rng.Intn(256), rng.Intn(256), rng.Intn(256))
}
