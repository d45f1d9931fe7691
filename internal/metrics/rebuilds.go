package metrics

import "github.com/san-kum/dynscene/internal/sim"

// RebuildCount counts frames on which the batch primitive was rebuilt.
type RebuildCount struct {
	name     string
	rebuilds int
}

func NewRebuildCount() *RebuildCount {
	return &RebuildCount{name: "rebuilds"}
}

func (r *RebuildCount) Name() string {
	return r.name
}

func (r *RebuildCount) Observe(f sim.Frame) {
	if f.Stats.Rebuilt {
		r.rebuilds++
	}
}

func (r *RebuildCount) Value() float64 {
	return float64(r.rebuilds)
}

func (r *RebuildCount) Reset() {
	r.rebuilds = 0
}
