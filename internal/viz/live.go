package viz

import (
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/spherebounce/internal/collider"
	"github.com/san-kum/spherebounce/internal/config"
	"github.com/san-kum/spherebounce/internal/experiment"
	"github.com/san-kum/spherebounce/internal/metrics"
	"github.com/san-kum/spherebounce/internal/sim"
)

const (
	canvasWidth     = 60
	canvasHeight    = 22
	historyCapacity = 300
	frameInterval   = time.Second / 60
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// param is one simulator setting that can be tuned while running.
type param struct {
	name    string
	get     func() float64
	set     func(float64) error
	step    float64 // additive step, zero scales by 5%
	initial float64
}

func (p param) adjusted(up bool) float64 {
	v := p.get()
	switch {
	case p.step > 0 && up:
		return v + p.step
	case p.step > 0:
		return v - p.step
	case v == 0 && up:
		return 0.05
	case v == 0:
		return 0
	case up:
		return v * 1.05
	}
	return v * 0.95
}

// Model drives a simulator from the bubbletea tick and renders it on a
// braille canvas next to a stats panel.
type Model struct {
	cfg        *config.Config
	log        *slog.Logger
	exp        *experiment.Experiment
	bounces    *metrics.Bounces
	substeps   int
	canvas     *Canvas
	camera     *Camera
	scenery    *Wireframe
	running    bool
	params     []param
	selected   int
	energy     []float64
	population []float64
	recorder   *Recorder
	recording  bool
	showHelp   bool
	status     string
	err        error
}

// NewModel builds the scene for cfg and frames the camera on its colliders.
func NewModel(cfg *config.Config, log *slog.Logger) (Model, error) {
	if log == nil {
		log = slog.Default()
	}
	m := Model{
		cfg:      cfg,
		log:      log,
		canvas:   NewCanvas(canvasWidth, canvasHeight),
		camera:   NewCamera(),
		running:  true,
		recorder: NewRecorder(cfg.Name + ".gif"),
	}
	if err := m.setup(); err != nil {
		return Model{}, err
	}
	m.camera.Frame(m.exp.Scene().Colliders())
	return m, nil
}

func (m *Model) setup() error {
	exp := experiment.New(m.cfg, m.log)
	if err := exp.Setup(nil); err != nil {
		return err
	}
	m.exp = exp
	m.bounces = nil
	for _, mt := range exp.Metrics() {
		if b, ok := mt.(*metrics.Bounces); ok {
			m.bounces = b
		}
	}

	s := exp.Simulator()
	m.scenery = ColliderWireframe(exp.Scene().Colliders())
	m.scenery.AddPoint(s.Emitter().Transform.Position())
	m.params = simParams(s, exp.Scene().Colliders())
	if m.selected >= len(m.params) {
		m.selected = 0
	}
	m.substeps = max(1, int(math.Round(frameInterval.Seconds()/m.cfg.Dt)))
	m.energy = make([]float64, 0, historyCapacity)
	m.population = make([]float64, 0, historyCapacity)
	m.err = nil
	return nil
}

func simParams(s *sim.Simulator, cs []*collider.Collider) []param {
	constant, drag := s.Forces()
	ps := []param{
		{
			name: "gravity",
			get:  func() float64 { return constant.GetParams()["fy"] },
			set:  func(v float64) error { return constant.SetParam("fy", v) },
		},
		{
			name: "drag",
			get:  func() float64 { return drag.GetParams()["drag"] },
			set:  func(v float64) error { return drag.SetParam("drag", v) },
		},
		{name: "period", get: func() float64 { return s.Emitter().Period }, set: s.SetPeriod},
		{
			name: "speed",
			get:  func() float64 { return s.Emitter().InitialVelocity.Len() },
			set: func(v float64) error {
				if v < 0 {
					return fmt.Errorf("speed must be non-negative, got %g", v)
				}
				v0 := s.Emitter().InitialVelocity
				if l := v0.Len(); l > 0 {
					s.SetInitialVelocity(v0.Mul(v / l))
				} else {
					s.SetInitialVelocity(mgl64.Vec3{0, v, 0})
				}
				return nil
			},
		},
		{name: "mass", get: func() float64 { return s.Template().Mass }, set: s.SetMass},
		{name: "scale", get: func() float64 { return s.Template().Scale }, set: s.SetScale},
		{
			name: "spheres",
			step: 1,
			get:  func() float64 { return float64(s.Capacity()) },
			set:  func(v float64) error { return s.SetCapacity(int(math.Round(v))) },
		},
	}
	if len(cs) > 0 {
		ps = append(ps, param{
			name: "restitution",
			get:  func() float64 { return cs[0].Restitution },
			set: func(v float64) error {
				for _, c := range cs {
					c.Restitution = v
				}
				return nil
			},
		})
	}
	for i := range ps {
		ps[i].initial = ps[i].get()
	}
	return ps
}

func (m Model) Init() tea.Cmd { return tick() }

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
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

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		if m.recording {
			m.toggleRecording()
		}
		m.exp.Simulator().Close()
		return m, tea.Quit
	case " ":
		m.running = !m.running
	case "r":
		m.reset()
	case "tab":
		if len(m.params) > 0 {
			m.selected = (m.selected + 1) % len(m.params)
		}
	case "up", "k":
		m.adjustParam(true)
	case "down", "j":
		m.adjustParam(false)
	case "g":
		m.toggleRecording()
	case "?":
		m.showHelp = !m.showHelp
	case "t":
		NextTheme()
	case "v":
		m.camera.Perspective = !m.camera.Perspective
	case "c":
		m.camera.Side()
	case "x":
		m.camera.RotateX(0.1)
	case "X":
		m.camera.RotateX(-0.1)
	case "y":
		m.camera.RotateY(0.1)
	case "Y":
		m.camera.RotateY(-0.1)
	case "+", "=":
		m.camera.ZoomIn()
	case "-", "_":
		m.camera.ZoomOut()
	}
	return m, nil
}

func (m *Model) adjustParam(up bool) {
	if len(m.params) == 0 {
		return
	}
	p := m.params[m.selected]
	if err := p.set(p.adjusted(up)); err != nil {
		m.err = err
		return
	}
	m.err = nil
}

func (m *Model) toggleRecording() {
	if !m.recording {
		m.recording = true
		m.status = ""
		return
	}
	m.recording = false
	if err := m.recorder.Save(); err != nil {
		m.status = "recording not saved: " + err.Error()
		return
	}
	m.status = "saved " + m.recorder.Path
}

// step advances the simulator by one display frame worth of ticks.
func (m *Model) step() {
	s := m.exp.Simulator()
	for i := 0; i < m.substeps; i++ {
		if err := s.Advance(m.cfg.Dt); err != nil {
			m.err, m.running = err, false
			return
		}
	}
	m.energy = appendBounded(m.energy, metrics.Total(s.Particles()))
	m.population = appendBounded(m.population, float64(s.Len()))
}

func appendBounded(h []float64, v float64) []float64 {
	h = append(h, v)
	if len(h) > historyCapacity {
		h = h[1:]
	}
	return h
}

// reset discards the running simulator and rebuilds it from the config,
// which also restores every tuned parameter.
func (m *Model) reset() {
	m.exp.Simulator().Close()
	if err := m.setup(); err != nil {
		m.err, m.running = err, false
	}
}

func (m *Model) draw() {
	m.canvas.Clear()
	Render3D(m.canvas, m.scenery, m.camera)
	RenderParticles(m.canvas, m.exp.Simulator().Particles(), m.camera)
}

func (m Model) statusLine(st styles) string {
	var line string
	if m.running {
		line = st.running.Render("RUNNING")
	} else {
		line = st.paused.Render("PAUSED")
	}
	if m.recording {
		line += "  " + st.recording.Render(fmt.Sprintf("● REC %d", m.recorder.Len()))
	}
	if m.status != "" {
		line += "  " + st.dim.Render(m.status)
	}
	return line
}

func (m Model) viewName() string {
	if m.camera.Perspective {
		return "perspective"
	}
	if m.camera.Yaw == 0 && m.camera.Pitch == 0 {
		return "side"
	}
	return "orbit"
}

// View renders the TUI interface.
func (m Model) View() string {
	st := themeStyles(CurrentTheme)
	s := m.exp.Simulator()

	var b strings.Builder
	b.WriteString(st.header.Render(strings.ToUpper(m.cfg.Name)) + "\n")
	b.WriteString(m.statusLine(st) + "\n")
	if len(m.energy) > 1 {
		chart := asciigraph.Plot(m.energy, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Kinetic energy"))
		b.WriteString(st.graph.Render(chart) + "\n")
	} else {
		b.WriteString("\n")
	}

	row := func(label, value string) {
		b.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}
	stats := s.Stats()
	row("Time", fmt.Sprintf("%.2fs", s.Time()))
	row("Step", fmt.Sprintf("%d", s.Step()))
	row("Spheres", fmt.Sprintf("%d/%d", s.Len(), s.Capacity()))
	row("Spawned", fmt.Sprintf("%d", stats.Spawned))
	row("Recycled", fmt.Sprintf("%d", stats.Recycled))
	row("Contacts", fmt.Sprintf("%d", stats.Contacts))
	row("View", m.viewName())
	fill := float64(s.Len()) / float64(s.Capacity())
	b.WriteString(st.label.Render("Population") + st.spark(Sparkline(m.population, 28), fill) + "\n")

	b.WriteString("\nPARAMETERS\n")
	for i, p := range m.params {
		val := p.get()
		line := fmt.Sprintf("%-11s %s %.2f", p.name, ParamBar(val, p.initial, 10), val)
		if i == m.selected {
			b.WriteString(st.active.Render("> "+line) + "\n")
		} else {
			b.WriteString("  " + st.dim.Render(line) + "\n")
		}
	}

	if m.bounces != nil && len(m.bounces.Colliders()) > 0 {
		b.WriteString("\nBOUNCES\n")
		for _, name := range m.bounces.Colliders() {
			row(name, fmt.Sprintf("%d", m.bounces.Count(name)))
		}
	}
	if m.err != nil {
		b.WriteString("\n" + st.warning.Render(m.err.Error()) + "\n")
	}
	b.WriteString(st.help.Render("─────────────────────\nSP:Pause R:Reset Q:Quit\nT:Theme  G:Record ?:Help\nTab ↑↓:Tune  V:View"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, st.canvas.Render(m.canvas.String()), st.stats.Render(b.String()))
	if m.showHelp {
		return helpText + "\n\n" + mainView
	}
	return mainView
}

const helpText = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume simulation  ║
║  R        - Reset simulation         ║
║  Q        - Quit                     ║
║  Tab      - Cycle parameters         ║
║  Up/K     - Increase parameter       ║
║  Down/J   - Decrease parameter       ║
║  V        - Toggle perspective       ║
║  C        - Back to side view        ║
║  X/Y      - Orbit camera             ║
║  +/-      - Zoom                     ║
║  G        - Toggle GIF recording     ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝`

// RunLive opens the live view for cfg in the alternate screen.
func RunLive(cfg *config.Config, log *slog.Logger) error {
	m, err := NewModel(cfg, log)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
