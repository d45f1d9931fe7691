package timeprop

import "time"

// Interval is the half-open time range [Start, Stop).
type Interval struct {
	Start time.Time
	Stop  time.Time
}

func NewInterval(start, stop time.Time) Interval {
	return Interval{Start: start, Stop: stop}
}

// Contains reports whether Start <= t < Stop.
func (iv Interval) Contains(t time.Time) bool {
	return !t.Before(iv.Start) && t.Before(iv.Stop)
}

func (iv Interval) IsEmpty() bool {
	return !iv.Start.Before(iv.Stop)
}

func (iv Interval) Duration() time.Duration {
	if iv.IsEmpty() {
		return 0
	}
	return iv.Stop.Sub(iv.Start)
}

// Intersect returns the overlap of both intervals. The result may be empty.
func (iv Interval) Intersect(other Interval) Interval {
	out := iv
	if other.Start.After(out.Start) {
		out.Start = other.Start
	}
	if other.Stop.Before(out.Stop) {
		out.Stop = other.Stop
	}
	return out
}

// Union returns the smallest interval covering both. Empty intervals are ignored.
func (iv Interval) Union(other Interval) Interval {
	if iv.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return iv
	}
	out := iv
	if other.Start.Before(out.Start) {
		out.Start = other.Start
	}
	if other.Stop.After(out.Stop) {
		out.Stop = other.Stop
	}
	return out
}
