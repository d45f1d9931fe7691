package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// OpenFunc builds the session for a chosen scenario.
type OpenFunc func(name string) (Session, error)

const (
	stateMenu = iota
	stateLive
)

// Picker lists scenarios and opens the chosen one in the live view.
type Picker struct {
	state   int
	cursor  int
	names   []string
	details map[string]string
	open    OpenFunc
	err     error
	live    Model
}

func NewPicker(names []string, details map[string]string, open OpenFunc) *Picker {
	return &Picker{names: names, details: details, open: open}
}

func (p *Picker) Init() tea.Cmd { return nil }

func (p *Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if p.state == stateLive {
		if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
			p.state = stateMenu
			return p, nil
		}
		next, cmd := p.live.Update(msg)
		p.live = next.(Model)
		return p, cmd
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return p, tea.Quit
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(p.names)-1 {
			p.cursor++
		}
	case "enter", " ":
		if len(p.names) == 0 {
			return p, nil
		}
		s, err := p.open(p.names[p.cursor])
		if err != nil {
			p.err = err
			return p, nil
		}
		p.err = nil
		p.live = NewModel(s)
		p.state = stateLive
		return p, p.live.Init()
	}
	return p, nil
}

func (p *Picker) View() string {
	if p.state == stateLive {
		return p.live.View()
	}

	title := lipgloss.NewStyle().Bold(true).Foreground(CurrentTheme.Primary)
	selected := lipgloss.NewStyle().Bold(true).Foreground(CurrentTheme.Secondary)
	muted := lipgloss.NewStyle().Foreground(CurrentTheme.Muted)

	var b strings.Builder
	b.WriteString(title.Render("DYNSCENE") + "  " + muted.Render("choose a scenario") + "\n\n")
	for i, name := range p.names {
		line := fmt.Sprintf("%-12s %s", name, muted.Render(p.details[name]))
		if i == p.cursor {
			b.WriteString(selected.Render("▸ "+name) + strings.TrimPrefix(line, name) + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
	}
	if p.err != nil {
		b.WriteString("\n" + lipgloss.NewStyle().Foreground(CurrentTheme.Error).Render(p.err.Error()) + "\n")
	}
	b.WriteString("\n" + hintStyle().Render("↑↓:Select Enter:Open Esc:Back Q:Quit"))
	return b.String()
}
