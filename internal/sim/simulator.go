package sim

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/san-kum/dynscene/internal/clock"
)

// Player steps an Updater through time, applying scheduled scene edits
// between frames.
type Player struct {
	updater   Updater
	events    []Event
	next      int
	metrics   []Metric
	observers []Observer
	logger    *slog.Logger
}

func New(u Updater, logger *slog.Logger) *Player {
	if logger == nil {
		logger = slog.Default()
	}
	return &Player{
		updater:   u,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		logger:    logger,
	}
}

func (p *Player) AddMetric(m Metric)     { p.metrics = append(p.metrics, m) }
func (p *Player) AddObserver(o Observer) { p.observers = append(p.observers, o) }

// Schedule adds events. Events are applied in time order; events with the
// same time keep their scheduling order.
func (p *Player) Schedule(events ...Event) {
	pending := append(p.events[p.next:len(p.events):len(p.events)], events...)
	sort.SliceStable(pending, func(i, j int) bool { return pending[i].At.Before(pending[j].At) })
	p.events = append(p.events[:p.next], pending...)
}

// Pending reports how many scheduled events have not been applied.
func (p *Player) Pending() int { return len(p.events) - p.next }

// Step applies every event due at t and updates once. It is the unit Run is
// built from and the entry point for interactive drivers.
func (p *Player) Step(index int, t time.Time) (Frame, int, error) {
	applied := 0
	for p.next < len(p.events) && !t.Before(p.events[p.next].At) {
		ev := p.events[p.next]
		p.next++
		if ev.Apply == nil {
			continue
		}
		if err := ev.Apply(); err != nil {
			return Frame{Index: index, Time: t}, applied, &FrameError{Index: index, Time: t, Err: err}
		}
		applied++
		p.logger.Debug("event applied", "label", ev.Label, "at", ev.At, "frame", index)
	}

	if err := p.updater.Update(t); err != nil {
		return Frame{Index: index, Time: t}, applied, &FrameError{Index: index, Time: t, Err: err}
	}
	f := Frame{Index: index, Time: t, Stats: p.updater.Stats()}

	for _, m := range p.metrics {
		m.Observe(f)
	}
	for _, obs := range p.observers {
		obs.OnFrame(f)
	}
	return f, applied, nil
}

// initialFrames caps the up-front allocation of Result.Frames; longer runs
// grow the slice as frames arrive.
const initialFrames = 4096

// Run plays cfg from start. It stops at the first failing frame and returns
// the frames produced so far together with the error.
func (p *Player) Run(ctx context.Context, start time.Time, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	clk, err := clock.New(start, start.Add(cfg.Duration), cfg.Step)
	if err != nil {
		return nil, err
	}
	clk.Multiplier = cfg.multiplier()
	clk.Range = cfg.Range

	n := cfg.frames()
	result := &Result{
		Start:   start,
		Frames:  make([]Frame, 0, min(n, initialFrames)),
		Metrics: make(map[string]float64),
	}

	for _, m := range p.metrics {
		m.Reset()
	}

	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		if i > 0 {
			clk.Tick()
		}
		f, applied, err := p.Step(i, clk.Current)
		result.EventsApplied += applied
		if err != nil {
			p.finish(result)
			return result, err
		}
		result.Frames = append(result.Frames, f)
	}

	p.finish(result)
	p.logger.Info("run complete",
		"frames", len(result.Frames),
		"events", result.EventsApplied,
		"rebuilds", result.Last().Stats.Rebuilds)
	return result, nil
}

func (p *Player) finish(result *Result) {
	for _, m := range p.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}
