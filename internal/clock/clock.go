// Package clock advances simulation time frame by frame.
package clock

import (
	"errors"
	"fmt"
	"time"
)

// Range decides what happens when the clock reaches Stop.
type Range uint8

const (
	Unbounded Range = iota
	Clamped
	Loop
)

func (r Range) String() string {
	switch r {
	case Unbounded:
		return "unbounded"
	case Clamped:
		return "clamped"
	case Loop:
		return "loop"
	}
	return fmt.Sprintf("Range(%d)", r)
}

// ParseRange accepts the names returned by Range.String.
func ParseRange(s string) (Range, error) {
	switch s {
	case "", "unbounded":
		return Unbounded, nil
	case "clamped":
		return Clamped, nil
	case "loop":
		return Loop, nil
	}
	return Unbounded, fmt.Errorf("clock: unknown range %q", s)
}

var ErrInvalidBounds = errors.New("clock: stop must be after start")

type Clock struct {
	Start      time.Time
	Stop       time.Time
	Current    time.Time
	Step       time.Duration
	Multiplier float64
	Range      Range
}

// New creates a clock at start. A zero stop leaves the clock unbounded.
func New(start, stop time.Time, step time.Duration) (*Clock, error) {
	if !stop.IsZero() && !stop.After(start) {
		return nil, ErrInvalidBounds
	}
	r := Clamped
	if stop.IsZero() {
		r = Unbounded
	}
	return &Clock{
		Start:      start,
		Stop:       stop,
		Current:    start,
		Step:       step,
		Multiplier: 1,
		Range:      r,
	}, nil
}

// Tick advances by Step scaled by Multiplier.
func (c *Clock) Tick() time.Time {
	return c.TickBy(time.Duration(float64(c.Step) * c.Multiplier))
}

// TickBy advances by d and applies the range rule.
func (c *Clock) TickBy(d time.Duration) time.Time {
	next := c.Current.Add(d)
	if c.Stop.IsZero() || c.Range == Unbounded {
		c.Current = next
		return c.Current
	}
	switch c.Range {
	case Clamped:
		if next.After(c.Stop) {
			next = c.Stop
		}
		if next.Before(c.Start) {
			next = c.Start
		}
	case Loop:
		if !next.Before(c.Stop) || next.Before(c.Start) {
			next = c.Start
		}
	}
	c.Current = next
	return c.Current
}

// Done reports whether a clamped clock has reached Stop.
func (c *Clock) Done() bool {
	return c.Range == Clamped && !c.Stop.IsZero() && !c.Current.Before(c.Stop)
}

// Elapsed is the time since Start.
func (c *Clock) Elapsed() time.Duration { return c.Current.Sub(c.Start) }

func (c *Clock) Reset() { c.Current = c.Start }
