package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/dynscene/internal/clock"
	"github.com/san-kum/dynscene/internal/render"
	"github.com/san-kum/dynscene/internal/sim"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 600
	maxMultiplier   = 64
	recordingPath   = "dynscene.gif"
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Session is everything the live view drives: a player bound to the
// visualizers of one scene, and the clock that feeds it.
type Session struct {
	Name   string
	Scene  render.Scene
	Player *sim.Player
	Clock  *clock.Clock
}

// Model is the live scene view.
type Model struct {
	session       Session
	canvas        *Canvas
	bounds        *Bounds
	width, height int
	running       bool
	frame         int
	last          sim.Frame
	events        int
	err           error
	batched       []float64
	standalone    []float64
	recorder      *Recorder
	recording     bool
	showHelp      bool
}

func NewModel(s Session) Model {
	return Model{
		session:    s,
		canvas:     NewCanvas(width, height),
		bounds:     &Bounds{},
		width:      width,
		height:     height,
		running:    true,
		batched:    make([]float64, 0, historyCapacity),
		standalone: make([]float64, 0, historyCapacity),
		recorder:   &Recorder{},
	}
}

func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles input events and advances the scene.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.session.Clock.Reset()
			m.frame = 0
		case "+", "=":
			m.session.Clock.Multiplier = min(m.session.Clock.Multiplier*2, maxMultiplier)
		case "-", "_":
			m.session.Clock.Multiplier = max(m.session.Clock.Multiplier/2, 1.0/maxMultiplier)
		case "t":
			NextTheme()
		case "g":
			if m.recording {
				if err := m.recorder.Save(recordingPath); err != nil {
					m.err = err
				}
			}
			m.recording = !m.recording
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		m.draw()
		if m.recording {
			m.recorder.Capture(m.canvas)
		}
		return m, tick()
	}
	return m, nil
}

// step renders one frame. A clamped clock that reached its stop, or a failed
// frame, halts playback.
func (m *Model) step() {
	if m.err != nil || (m.frame > 0 && m.session.Clock.Done()) {
		m.running = false
		return
	}
	if m.frame > 0 {
		m.session.Clock.Tick()
	}
	f, applied, err := m.session.Player.Step(m.frame, m.session.Clock.Current)
	m.events += applied
	if err != nil {
		m.err = err
		m.running = false
		return
	}
	m.frame++
	m.last = f
	m.batched = appendCapped(m.batched, float64(f.Stats.Batched))
	m.standalone = appendCapped(m.standalone, float64(f.Stats.Standalone))
}

func (m *Model) draw() {
	m.canvas.Clear()
	m.bounds.IncludeScene(m.session.Scene)
	w, h := m.canvas.Dots()
	DrawScene(m.canvas, m.session.Scene, NewProjector(*m.bounds, w, h), string(CurrentTheme.Background))
}

func appendCapped(xs []float64, v float64) []float64 {
	if len(xs) == historyCapacity {
		xs = append(xs[:0], xs[1:]...)
	}
	return append(xs, v)
}

// View renders the TUI interface.
func (m Model) View() string {
	canvasView := lipgloss.NewStyle().Padding(1, 2).Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(headerStyle().Render(strings.ToUpper(m.session.Name)) + "\n")

	status := "RUNNING"
	switch {
	case m.err != nil:
		status = "FAILED"
	case !m.running && m.frame > 0 && m.session.Clock.Done():
		status = "DONE"
	case !m.running:
		status = "PAUSED"
	}
	if m.recording {
		status += " ● REC"
	}
	s.WriteString(statusStyle(!m.running).Render(status) + "\n\n")

	clk := m.session.Clock
	s.WriteString(row("Time", clk.Current.Format("15:04:05.000")))
	if !clk.Stop.IsZero() {
		total := clk.Stop.Sub(clk.Start)
		s.WriteString(row("Progress", ProgressBar(float64(clk.Elapsed())/float64(total), 20)))
	}
	s.WriteString(row("Speed", fmt.Sprintf("%gx (%s)", clk.Multiplier, clk.Range)))
	s.WriteString(row("Frame", fmt.Sprintf("%d", m.frame)))
	s.WriteString(row("Events", fmt.Sprintf("%d", m.events)))
	s.WriteString("\n")

	st := m.last.Stats
	s.WriteString(row("Batched", fmt.Sprintf("%d", st.Batched)))
	s.WriteString(row("Standalone", fmt.Sprintf("%d (+%d unused)", st.Standalone, st.Unused)))
	s.WriteString(row("Rebuilds", fmt.Sprintf("%d", st.Rebuilds)))
	s.WriteString(row("Writes", fmt.Sprintf("%d color / %d show", st.ColorWrites, st.ShowWrites)))

	if len(m.batched) > 1 {
		chart := asciigraph.PlotMany([][]float64{m.batched, m.standalone},
			asciigraph.Height(5),
			asciigraph.Width(30),
			asciigraph.SeriesColors(CurrentTheme.BatchSeries, CurrentTheme.StandaloneSeries),
			asciigraph.Caption("batched / standalone"))
		s.WriteString("\n" + chart + "\n")
	}
	if m.err != nil {
		s.WriteString("\n" + lipgloss.NewStyle().Foreground(CurrentTheme.Error).Render(m.err.Error()) + "\n")
	}

	s.WriteString("\n" + Separator(40) + "\n")
	s.WriteString(hintStyle().Render("SP:Pause R:Rewind Q:Quit\n+/-:Speed T:Theme G:Record ?:Help"))
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, panelStyle().Render(s.String()))

	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume playback    ║
║  R        - Rewind the clock         ║
║  + / -    - Double / halve speed     ║
║  T        - Cycle themes             ║
║  G        - Toggle GIF recording     ║
║  ?        - Toggle this help         ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}

func row(label, value string) string {
	return labelStyle().Render(label) + valueStyle().Render(value) + "\n"
}

// Frame returns the number of frames rendered so far.
func (m Model) Frame() int { return m.frame }

func (m Model) Running() bool { return m.running }

func (m Model) Err() error { return m.err }

// Snapshot draws s once, without the TUI chrome.
func Snapshot(s render.Scene, w, h int, colored bool) string {
	c := NewCanvas(w, h)
	b := &Bounds{}
	b.IncludeScene(s)
	dw, dh := c.Dots()
	DrawScene(c, s, NewProjector(*b, dw, dh), string(CurrentTheme.Background))
	if colored {
		return c.String()
	}
	return c.Plain()
}
