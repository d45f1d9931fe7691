package metrics

import "github.com/san-kum/dynscene/internal/sim"

// AttributeWrites averages the per-instance color and show writes per frame.
type AttributeWrites struct {
	name    string
	sum     int
	samples int
}

func NewAttributeWrites() *AttributeWrites {
	return &AttributeWrites{name: "attribute_writes"}
}

func (a *AttributeWrites) Name() string {
	return a.name
}

func (a *AttributeWrites) Observe(f sim.Frame) {
	a.sum += f.Stats.ColorWrites + f.Stats.ShowWrites
	a.samples++
}

func (a *AttributeWrites) Value() float64 {
	if a.samples == 0 {
		return 0
	}
	return float64(a.sum) / float64(a.samples)
}

func (a *AttributeWrites) Reset() {
	a.sum = 0
	a.samples = 0
}
