package sim

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/san-kum/dynscene/internal/clock"
	"github.com/san-kum/dynscene/internal/visualizer"
)

// Updater is anything reconciled once per frame: a single visualizer or a
// visualizer.Group.
type Updater interface {
	Update(t time.Time) error
	Stats() visualizer.Stats
}

type Frame struct {
	Index int
	Time  time.Time
	Stats visualizer.Stats
}

type Metric interface {
	Name() string
	Observe(f Frame)
	Value() float64
	Reset()
}

type Observer interface {
	OnFrame(f Frame)
}

// Event is a scripted scene edit applied before the first frame at or after At.
type Event struct {
	At    time.Time
	Label string
	Apply func() error
}

type Config struct {
	Step       time.Duration
	Duration   time.Duration
	Multiplier float64
	Range      clock.Range
	// Frames overrides the frame count derived from Duration.
	Frames int
}

// MaxFrames bounds the frames one run may produce.
const MaxFrames = 10_000_000

var ErrTooManyFrames = errors.New("sim: run exceeds frame limit")

// frames is the number of frames Run produces, counting the one at start.
// Validate guarantees it is at most MaxFrames.
func (c Config) frames() int {
	if c.Frames > 0 {
		return c.Frames
	}
	return int(c.frameCount())
}

func (c Config) frameCount() float64 {
	return math.Floor(float64(c.Duration)/(float64(c.Step)*c.multiplier())) + 1
}

func (c Config) multiplier() float64 {
	if c.Multiplier == 0 {
		return 1
	}
	return c.Multiplier
}

func (c Config) Validate() error {
	if c.Step <= 0 {
		return fmt.Errorf("step must be positive, got %v", c.Step)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %v", c.Duration)
	}
	if c.Multiplier < 0 {
		return fmt.Errorf("multiplier must not be negative, got %v", c.Multiplier)
	}
	if c.Frames < 0 {
		return fmt.Errorf("frames must not be negative, got %d", c.Frames)
	}
	if c.Frames > MaxFrames {
		return fmt.Errorf("%w: %d frames requested, limit %d", ErrTooManyFrames, c.Frames, MaxFrames)
	}
	if c.Frames == 0 {
		if n := c.frameCount(); math.IsNaN(n) || n > MaxFrames {
			return fmt.Errorf("%w: %v at %v x%g is %.0f frames, limit %d",
				ErrTooManyFrames, c.Duration, c.Step, c.multiplier(), n, MaxFrames)
		}
	}
	return nil
}

type Result struct {
	Start         time.Time
	Frames        []Frame
	Metrics       map[string]float64
	EventsApplied int
}

// Last returns the final frame, or a zero frame for an empty result.
func (r *Result) Last() Frame {
	if len(r.Frames) == 0 {
		return Frame{}
	}
	return r.Frames[len(r.Frames)-1]
}

// FrameError wraps a failure at one frame of a run.
type FrameError struct {
	Index int
	Time  time.Time
	Err   error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("frame %d at %s: %v", e.Index, e.Time.Format(time.RFC3339Nano), e.Err)
}

func (e *FrameError) Unwrap() error { return e.Err }
