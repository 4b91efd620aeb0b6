package viz

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/spherefall/internal/config"
	"github.com/san-kum/spherefall/internal/dynamo"
	"github.com/san-kum/spherefall/internal/metrics"
	"github.com/san-kum/spherefall/internal/sim"
)

const (
	defaultWidth  = 100
	defaultHeight = 30
	statsWidth    = 36
	historyLen    = 240
	graphHeight   = 6

	// canvas origin in cells, set by canvasStyle's padding
	canvasLeft = 2
	canvasTop  = 1
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2, 0, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(statsWidth)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	helpStyle   = lipgloss.NewStyle().Padding(0, 2)
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

type frameRequest struct {
	fn        func()
	cancelled bool
}

func (r *frameRequest) Cancel() { r.cancelled = true }

type listener struct {
	remove func()
}

func (l *listener) Remove() {
	if l.remove != nil {
		l.remove()
		l.remove = nil
	}
}

type pointerFn struct{ fn func(dynamo.PointerEvent) }
type resizeFn struct{ fn func(dynamo.Viewport) }

// Model is the terminal front end. It is the simulation's host: bubbletea
// ticks drive frames, mouse presses on the canvas become pointer events and
// window size changes become resizes. Coordinates handed to the simulation
// are braille dots.
type Model struct {
	cfg  *config.Config
	opts []sim.Option
	log  *log.Logger

	sim      *sim.Simulation
	renderer *Renderer
	recorder *metrics.Recorder

	queue   []*frameRequest
	pointer []*pointerFn
	resize  []*resizeFn

	width, height int
	theme         Theme
	keys          keyMap
	help          help.Model
	paused        bool
}

func NewModel(cfg *config.Config, opts ...sim.Option) *Model {
	return &Model{
		cfg:      cfg,
		opts:     opts,
		log:      log.New(io.Discard),
		recorder: metrics.NewRingRecorder(historyLen, metrics.Standard()...),
		width:    defaultWidth,
		height:   defaultHeight,
		theme:    SceneTheme(cfg.Scene),
		keys:     defaultKeyMap(),
		help:     help.New(),
	}
}

func (m *Model) SetLogger(l *log.Logger) { m.log = l }

// SetSize sets the terminal size used for the viewport before the first
// window size message arrives. It does not notify resize listeners.
func (m *Model) SetSize(width, height int) {
	if width > 0 && height > 0 {
		m.width, m.height = width, height
	}
}

// Start launches the simulation against this model.
func (m *Model) Start() error {
	opts := append([]sim.Option{sim.WithLogger(m.log), sim.WithObserver(m.recorder)}, m.opts...)
	s, err := sim.Start(m, m.cfg, opts...)
	if err != nil {
		return err
	}
	m.sim = s
	return nil
}

// Close destroys the simulation. Safe to call more than once.
func (m *Model) Close() {
	m.sim.Destroy()
}

func (m *Model) Simulation() *sim.Simulation { return m.sim }

func (m *Model) Recorder() *metrics.Recorder { return m.recorder }

func (m *Model) Viewport() dynamo.Viewport {
	cols, rows := m.canvasSize()
	return dynamo.Viewport{
		Left:   canvasLeft * 2,
		Top:    canvasTop * 4,
		Width:  float64(cols * 2),
		Height: float64(rows * 4),
	}
}

func (m *Model) canvasSize() (cols, rows int) {
	cols = m.width - statsWidth - canvasLeft*2 - 1
	rows = m.height - canvasTop - 2
	return max(cols, 1), max(rows, 1)
}

func (m *Model) NewRenderer(scene config.Scene) (dynamo.Renderer, error) {
	m.renderer = NewRenderer(scene)
	return m.renderer, nil
}

func (m *Model) RequestFrame(fn func()) dynamo.FrameRequest {
	r := &frameRequest{fn: fn}
	m.queue = append(m.queue, r)
	return r
}

func (m *Model) OnPointerDown(fn func(dynamo.PointerEvent)) dynamo.Listener {
	h := &pointerFn{fn: fn}
	m.pointer = append(m.pointer, h)
	return &listener{remove: func() {
		for i, other := range m.pointer {
			if other == h {
				m.pointer = append(m.pointer[:i], m.pointer[i+1:]...)
				return
			}
		}
	}}
}

func (m *Model) OnResize(fn func(dynamo.Viewport)) dynamo.Listener {
	h := &resizeFn{fn: fn}
	m.resize = append(m.resize, h)
	return &listener{remove: func() {
		for i, other := range m.resize {
			if other == h {
				m.resize = append(m.resize[:i], m.resize[i+1:]...)
				return
			}
		}
	}}
}

func (m *Model) Init() tea.Cmd {
	return tick()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.Close()
			return m, tea.Quit
		case key.Matches(msg, m.keys.Spawn):
			vp := m.Viewport()
			m.dispatchPointer(dynamo.PointerEvent{X: vp.Left + vp.Width/2, Y: vp.Top + vp.Height/2})
		case key.Matches(msg, m.keys.Pause):
			m.paused = !m.paused
		case key.Matches(msg, m.keys.Theme):
			m.theme = NextTheme(m.theme)
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			m.click(msg.X, msg.Y)
		}
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		vp := m.Viewport()
		for _, h := range append([]*resizeFn(nil), m.resize...) {
			h.fn(vp)
		}
	case TickMsg:
		if !m.paused {
			m.runFrame()
		}
		return m, tick()
	}
	return m, nil
}

// click maps a terminal cell to the centre of its braille dot block. Clicks
// outside the canvas are ignored.
func (m *Model) click(col, row int) {
	ev := dynamo.PointerEvent{X: float64(col*2 + 1), Y: float64(row*4 + 2)}
	vp := m.Viewport()
	if ev.X < vp.Left || ev.X >= vp.Left+vp.Width || ev.Y < vp.Top || ev.Y >= vp.Top+vp.Height {
		return
	}
	m.dispatchPointer(ev)
}

func (m *Model) dispatchPointer(ev dynamo.PointerEvent) {
	for _, h := range append([]*pointerFn(nil), m.pointer...) {
		h.fn(ev)
	}
}

func (m *Model) runFrame() {
	batch := m.queue
	m.queue = nil
	for _, r := range batch {
		if !r.cancelled {
			r.fn()
		}
	}
}

func (m *Model) View() string {
	if m.renderer == nil || m.sim == nil {
		return "starting...\n"
	}
	scene := canvasStyle.Render(m.theme.Paint(m.renderer.Canvas()))
	body := lipgloss.JoinHorizontal(lipgloss.Top, scene, statsStyle.Render(m.stats()))
	return body + "\n" + helpStyle.Render(m.help.View(m.keys))
}

func (m *Model) stats() string {
	title := lipgloss.NewStyle().Foreground(m.theme.Scene).Bold(true).Render("spherefall")
	value := lipgloss.NewStyle().Foreground(m.theme.Text)

	last := m.sim.LastStats()
	sum := m.recorder.Summary().Values
	rows := []struct{ label, value string }{
		{"spheres", fmt.Sprintf("%d / %d", last.Live, m.cfg.Limits.MaxSpheres)},
		{"frame", fmt.Sprintf("%d", last.Frame)},
		{"time", fmt.Sprintf("%.1fs", last.Time)},
		{"substeps", fmt.Sprintf("%d", last.SubSteps)},
		{"leftover", fmt.Sprintf("%.4f", last.Leftover)},
		{"energy", fmt.Sprintf("%.3f J", last.KineticEnergy)},
		{"evicted", fmt.Sprintf("%d", last.Evicted)},
		{"drift", fmt.Sprintf("%.0f", sum["drift_resets"])},
	}

	var b strings.Builder
	b.WriteString(title + "\n\n")
	for _, r := range rows {
		b.WriteString(labelStyle.Render(r.label) + value.Render(r.value) + "\n")
	}
	if m.paused {
		b.WriteString("\n" + lipgloss.NewStyle().Foreground(m.theme.Warning).Render("paused") + "\n")
	}

	live := m.recorder.Series(metrics.Fields["live"])
	if len(live) > 1 {
		graph := asciigraph.Plot(live,
			asciigraph.Height(graphHeight),
			asciigraph.Width(statsWidth-14),
			asciigraph.Caption("live spheres"))
		b.WriteString("\n" + lipgloss.NewStyle().Foreground(m.theme.Accent).Render(graph))
	}
	return b.String()
}
