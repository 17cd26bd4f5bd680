package viz

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/spherebounce/internal/config"
)

var presetInfo = map[string]string{
	"fountain":  "upward jet into a basin",
	"bowl":      "rain onto a dome",
	"staircase": "cascade down steps",
	"pinball":   "bumpers and flippers",
}

const (
	stateMenu = iota
	stateConfig
	stateSim
)

// field is one config value editable before a run starts.
type field struct {
	name string
	get  func(*config.Config) float64
	set  func(*config.Config, float64)
}

var fields = []field{
	{"dt", func(c *config.Config) float64 { return c.Dt }, func(c *config.Config, v float64) { c.Dt = v }},
	{"period", func(c *config.Config) float64 { return c.Emitter.Period }, func(c *config.Config, v float64) { c.Emitter.Period = v }},
	{"spheres", func(c *config.Config) float64 { return float64(c.MaxSpheres) }, func(c *config.Config, v float64) { c.MaxSpheres = int(v) }},
	{"gravity", func(c *config.Config) float64 { return c.Forces.Constant[1] }, func(c *config.Config, v float64) { c.Forces.Constant[1] = v }},
	{"drag", func(c *config.Config) float64 { return c.Forces.Drag }, func(c *config.Config, v float64) { c.Forces.Drag = v }},
	{"mass", func(c *config.Config) float64 { return c.Particle.Mass }, func(c *config.Config, v float64) { c.Particle.Mass = v }},
	{"scale", func(c *config.Config) float64 { return c.Particle.Scale }, func(c *config.Config, v float64) { c.Particle.Scale = v }},
}

type model struct {
	state, cursor int
	presets       []string
	cfg           *config.Config
	fieldCursor   int
	editing       bool
	editBuf       string
	err           error
	log           *slog.Logger
	liveModel     Model
}

// NewInteractiveApp returns the preset picker that leads into the live view.
func NewInteractiveApp(log *slog.Logger) *model {
	return &model{state: stateMenu, presets: config.ListPresets(), log: log}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		if m.state == stateSim {
			newLive, cmd := m.liveModel.Update(msg)
			m.liveModel = newLive.(Model)
			return m, cmd
		}
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch m.state {
	case stateMenu:
		return m.menuKey(msg)
	case stateConfig:
		return m.configKey(msg)
	case stateSim:
		newLive, cmd := m.liveModel.Update(msg)
		m.liveModel = newLive.(Model)
		return m, cmd
	}
	return m, nil
}

func (m model) menuKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.presets)-1 {
			m.cursor++
		}
	case "enter", " ":
		m.cfg = config.GetPreset(m.presets[m.cursor])
		m.state, m.fieldCursor, m.err = stateConfig, 0, nil
	}
	return m, nil
}

func (m model) configKey(msg tea.KeyMsg) (model, tea.Cmd) {
	f := fields[m.fieldCursor]
	if m.editing {
		switch msg.String() {
		case "enter":
			if v, err := strconv.ParseFloat(m.editBuf, 64); err == nil {
				f.set(m.cfg, v)
			}
			m.editing, m.editBuf = false, ""
		case "esc":
			m.editing, m.editBuf = false, ""
		case "backspace":
			if len(m.editBuf) > 0 {
				m.editBuf = m.editBuf[:len(m.editBuf)-1]
			}
		default:
			if len(msg.String()) == 1 {
				c := msg.String()[0]
				if (c >= '0' && c <= '9') || c == '.' || c == '-' {
					m.editBuf += string(c)
				}
			}
		}
		return m, nil
	}
	switch msg.String() {
	case "q", "esc":
		m.state = stateMenu
	case "up", "k":
		if m.fieldCursor > 0 {
			m.fieldCursor--
		}
	case "down", "j":
		if m.fieldCursor < len(fields)-1 {
			m.fieldCursor++
		}
	case "enter", " ":
		m.editing, m.editBuf = true, strconv.FormatFloat(f.get(m.cfg), 'f', -1, 64)
	case "left", "h":
		f.set(m.cfg, f.get(m.cfg)*0.9)
	case "right", "l":
		f.set(m.cfg, f.get(m.cfg)*1.1)
	case "s":
		cmd := m.start()
		return m, cmd
	}
	return m, nil
}

func (m *model) start() tea.Cmd {
	if err := m.cfg.Validate(); err != nil {
		m.err = err
		return nil
	}
	live, err := NewModel(m.cfg, m.log)
	if err != nil {
		m.err = err
		return nil
	}
	m.liveModel, m.state, m.err = live, stateSim, nil
	return m.liveModel.Init()
}

func (m model) View() string {
	switch m.state {
	case stateMenu:
		return m.viewMenu()
	case stateConfig:
		return m.viewConfig()
	case stateSim:
		return m.liveModel.View()
	}
	return ""
}

func (m model) palette() (h, sub, cursor, selected, desc, idle, key lipgloss.Style) {
	t := CurrentTheme
	return lipgloss.NewStyle().Foreground(t.Primary).Bold(true),
		lipgloss.NewStyle().Foreground(t.Muted),
		lipgloss.NewStyle().Foreground(t.Secondary).Bold(true),
		lipgloss.NewStyle().Foreground(t.Text).Bold(true),
		lipgloss.NewStyle().Foreground(t.Accent),
		lipgloss.NewStyle().Foreground(t.Muted),
		lipgloss.NewStyle().Foreground(t.Secondary).Bold(true)
}

func keyHints(key, idle lipgloss.Style, pairs ...string) string {
	parts := make([]string, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		parts = append(parts, key.Render(pairs[i])+idle.Render(" "+pairs[i+1]))
	}
	return "\n    " + strings.Join(parts, "  ") + "\n"
}

func (m model) viewMenu() string {
	h, sub, cursor, selected, desc, idle, key := m.palette()
	var b strings.Builder
	b.WriteString("\n\n    " + h.Render("SPHEREBOUNCE") + "\n    " + sub.Render("particle emitter and collision sandbox") + "\n    " + sub.Render("─────────────────────────") + "\n\n")
	for i, name := range m.presets {
		info := presetInfo[name]
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", cursor.Render("▸"), selected.Render(fmt.Sprintf("%-12s", name)), desc.Render(info)))
		} else {
			b.WriteString(fmt.Sprintf("    %s  %s\n", idle.Render(fmt.Sprintf("  %-12s", name)), idle.Render(info)))
		}
	}
	b.WriteString(keyHints(key, idle, "j/k", "navigate", "enter", "select", "q", "quit"))
	return b.String()
}

func (m model) viewConfig() string {
	h, sub, cursor, selected, desc, idle, key := m.palette()
	var b strings.Builder
	b.WriteString("\n\n    " + h.Render(strings.ToUpper(m.cfg.Name)) + "\n    " + sub.Render(presetInfo[m.cfg.Name]) + "\n    " + sub.Render("─────────────────────────") + "\n\n")
	for i, f := range fields {
		valStr := fmt.Sprintf("%8.3f", f.get(m.cfg))
		if m.editing && i == m.fieldCursor {
			valStr = fmt.Sprintf("%8s", m.editBuf+"_")
		}
		if i == m.fieldCursor {
			b.WriteString(fmt.Sprintf("    %s %s %s\n", cursor.Render("▸"), selected.Render(fmt.Sprintf("%-10s", f.name)), desc.Render(valStr)))
		} else {
			b.WriteString(fmt.Sprintf("    %s %s\n", idle.Render(fmt.Sprintf("  %-10s", f.name)), idle.Render(valStr)))
		}
	}
	if m.err != nil {
		b.WriteString("\n    " + themeStyles(CurrentTheme).warning.Render(m.err.Error()) + "\n")
	}
	b.WriteString(keyHints(key, idle, "j/k", "select", "h/l", "adjust", "s", "start", "esc", "back"))
	return b.String()
}

// RunInteractive starts the preset picker.
func RunInteractive(log *slog.Logger) error {
	_, err := tea.NewProgram(NewInteractiveApp(log), tea.WithAltScreen()).Run()
	return err
}
