package visualizer

// Stats describes one reconciliation pass.
type Stats struct {
	// Rebuilt is set when batch membership changed and the batch primitive
	// was replaced (or removed because the batch became empty).
	Rebuilt     bool `json:"rebuilt"`
	ColorWrites int  `json:"color_writes"`
	ShowWrites  int  `json:"show_writes"`

	// Standalone primitive traffic.
	Acquired int `json:"acquired"`
	Reused   int `json:"reused"`
	Released int `json:"released"`

	// Skipped counts additions without usable polygon data.
	Skipped int `json:"skipped"`

	Batched    int `json:"batched"`
	Standalone int `json:"standalone"`
	Unused     int `json:"unused"`

	// Totals since the visualizer was created.
	Rebuilds int `json:"rebuilds"`
	Updates  int `json:"updates"`
}

// Add sums the per-pass counters of o into s. Gauges are summed too, which
// is what a group of visualizers reports.
func (s Stats) Add(o Stats) Stats {
	s.Rebuilt = s.Rebuilt || o.Rebuilt
	s.ColorWrites += o.ColorWrites
	s.ShowWrites += o.ShowWrites
	s.Acquired += o.Acquired
	s.Reused += o.Reused
	s.Released += o.Released
	s.Skipped += o.Skipped
	s.Batched += o.Batched
	s.Standalone += o.Standalone
	s.Unused += o.Unused
	s.Rebuilds += o.Rebuilds
	if o.Updates > s.Updates {
		s.Updates = o.Updates
	}
	return s
}
