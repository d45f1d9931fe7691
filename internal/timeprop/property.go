package timeprop

import (
	"sort"
	"time"
)

// Kind discriminates the representation of a Property.
type Kind uint8

const (
	Constant Kind = iota
	Sampled
	Callback
)

func (k Kind) String() string {
	switch k {
	case Constant:
		return "constant"
	case Sampled:
		return "sampled"
	case Callback:
		return "callback"
	default:
		return "unknown"
	}
}

// Sample is a value pinned to an instant.
type Sample[T any] struct {
	Time  time.Time
	Value T
}

// Interpolator blends a and b; frac is in [0, 1].
type Interpolator[T any] func(a, b T, frac float64) T

// Property is a value that can be evaluated at any instant.
type Property[T any] struct {
	kind        Kind
	value       T
	samples     []Sample[T]
	interpolate Interpolator[T]
	fn          func(time.Time) (T, bool)
}

// NewConstant returns a property that is v at every instant.
func NewConstant[T any](v T) *Property[T] {
	return &Property[T]{kind: Constant, value: v}
}

// NewSampled returns a property defined between its first and last sample.
// A nil interp holds the earlier sample until the next one.
func NewSampled[T any](interp Interpolator[T], samples ...Sample[T]) *Property[T] {
	p := &Property[T]{kind: Sampled, interpolate: interp}
	for _, s := range samples {
		p.AddSample(s.Time, s.Value)
	}
	return p
}

// NewCallback returns a property evaluated by fn. It is never constant.
func NewCallback[T any](fn func(time.Time) (T, bool)) *Property[T] {
	return &Property[T]{kind: Callback, fn: fn}
}

func (p *Property[T]) Kind() Kind { return p.kind }

func (p *Property[T]) IsConstant() bool { return p.kind == Constant }

// Samples returns a copy of the samples of a Sampled property.
func (p *Property[T]) Samples() []Sample[T] {
	out := make([]Sample[T], len(p.samples))
	copy(out, p.samples)
	return out
}

// AddSample inserts a sample keeping time order, replacing any sample at the
// same instant. It is a no-op for non-sampled properties.
func (p *Property[T]) AddSample(t time.Time, v T) {
	if p.kind != Sampled {
		return
	}
	i := sort.Search(len(p.samples), func(i int) bool {
		return !p.samples[i].Time.Before(t)
	})
	if i < len(p.samples) && p.samples[i].Time.Equal(t) {
		p.samples[i].Value = v
		return
	}
	p.samples = append(p.samples, Sample[T]{})
	copy(p.samples[i+1:], p.samples[i:])
	p.samples[i] = Sample[T]{Time: t, Value: v}
}

// Value evaluates the property at t. The boolean is false when the property
// has no value at t.
func (p *Property[T]) Value(t time.Time) (T, bool) {
	var zero T
	switch p.kind {
	case Constant:
		return p.value, true
	case Callback:
		if p.fn == nil {
			return zero, false
		}
		return p.fn(t)
	case Sampled:
		return p.sampleAt(t)
	}
	return zero, false
}

func (p *Property[T]) sampleAt(t time.Time) (T, bool) {
	var zero T
	n := len(p.samples)
	if n == 0 || t.Before(p.samples[0].Time) || t.After(p.samples[n-1].Time) {
		return zero, false
	}
	i := sort.Search(n, func(i int) bool {
		return !p.samples[i].Time.Before(t)
	})
	if p.samples[i].Time.Equal(t) {
		return p.samples[i].Value, true
	}
	prev, next := p.samples[i-1], p.samples[i]
	if p.interpolate == nil {
		return prev.Value, true
	}
	span := next.Time.Sub(prev.Time)
	frac := float64(t.Sub(prev.Time)) / float64(span)
	return p.interpolate(prev.Value, next.Value, frac), true
}

// ValueOr evaluates p at t, returning def when p is nil or undefined at t.
func ValueOr[T any](p *Property[T], t time.Time, def T) T {
	if p == nil {
		return def
	}
	v, ok := p.Value(t)
	if !ok {
		return def
	}
	return v
}

// IsDynamic reports whether p is present and may change over time.
func IsDynamic[T any](p *Property[T]) bool {
	return p != nil && !p.IsConstant()
}
