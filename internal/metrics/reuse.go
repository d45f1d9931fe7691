package metrics

import "github.com/san-kum/dynscene/internal/sim"

// ReuseRatio is the share of standalone primitive acquisitions served from
// the free list. It is 1 when nothing was ever acquired.
type ReuseRatio struct {
	name     string
	reused   int
	acquired int
}

func NewReuseRatio() *ReuseRatio {
	return &ReuseRatio{name: "reuse_ratio"}
}

func (r *ReuseRatio) Name() string {
	return r.name
}

func (r *ReuseRatio) Observe(f sim.Frame) {
	r.reused += f.Stats.Reused
	r.acquired += f.Stats.Acquired
}

func (r *ReuseRatio) Value() float64 {
	total := r.reused + r.acquired
	if total == 0 {
		return 1.0
	}
	return float64(r.reused) / float64(total)
}

func (r *ReuseRatio) Reset() {
	r.reused = 0
	r.acquired = 0
}

// PeakStandalone is the largest number of objects drawn standalone at once.
type PeakStandalone struct {
	name string
	peak int
}

func NewPeakStandalone() *PeakStandalone {
	return &PeakStandalone{name: "peak_standalone"}
}

func (p *PeakStandalone) Name() string {
	return p.name
}

func (p *PeakStandalone) Observe(f sim.Frame) {
	p.peak = max(p.peak, f.Stats.Standalone)
}

func (p *PeakStandalone) Value() float64 {
	return float64(p.peak)
}

func (p *PeakStandalone) Reset() {
	p.peak = 0
}

// Default returns one of each metric, in report order.
func Default() []sim.Metric {
	return []sim.Metric{
		NewRebuildCount(),
		NewAttributeWrites(),
		NewReuseRatio(),
		NewPeakStandalone(),
	}
}
