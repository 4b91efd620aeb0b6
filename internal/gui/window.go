package gui

import (
	"fmt"

	"github.com/charmbracelet/log"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/spherefall/internal/config"
	"github.com/san-kum/spherefall/internal/dynamo"
	"github.com/san-kum/spherefall/internal/sim"
)

const (
	defaultWidth  = 1280
	defaultHeight = 720
)

var (
	colText    = rl.NewColor(55, 65, 81, 255)
	colTextDim = rl.NewColor(107, 114, 128, 255)
)

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

// frameClock reports raylib's measured frame time.
type frameClock struct{}

func (frameClock) Delta() float64 { return float64(rl.GetFrameTime()) }

// Window is a raylib window hosting one simulation.
type Window struct {
	cfg *config.Config
	log *log.Logger

	sim      *sim.Simulation
	renderer *Renderer

	queue   []*frameRequest
	pointer []*pointerFn
	resize  []*resizeFn
}

// Open creates the window. Call Close when done.
func Open(cfg *config.Config, logger *log.Logger) *Window {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(defaultWidth, defaultHeight, "spherefall")
	rl.SetTargetFPS(60)
	rl.SetExitKey(0)
	return &Window{cfg: cfg, log: logger}
}

func (w *Window) Viewport() dynamo.Viewport {
	return dynamo.Viewport{
		Width:  float64(rl.GetScreenWidth()),
		Height: float64(rl.GetScreenHeight()),
	}
}

func (w *Window) NewRenderer(scene config.Scene) (dynamo.Renderer, error) {
	if !rl.IsWindowReady() {
		return nil, fmt.Errorf("window not ready")
	}
	w.renderer = NewRenderer(scene)
	return w.renderer, nil
}

func (w *Window) RequestFrame(fn func()) dynamo.FrameRequest {
	r := &frameRequest{fn: fn}
	w.queue = append(w.queue, r)
	return r
}

func (w *Window) OnPointerDown(fn func(dynamo.PointerEvent)) dynamo.Listener {
	h := &pointerFn{fn: fn}
	w.pointer = append(w.pointer, h)
	return &listener{remove: func() {
		for i, other := range w.pointer {
			if other == h {
				w.pointer = append(w.pointer[:i], w.pointer[i+1:]...)
				return
			}
		}
	}}
}

func (w *Window) OnResize(fn func(dynamo.Viewport)) dynamo.Listener {
	h := &resizeFn{fn: fn}
	w.resize = append(w.resize, h)
	return &listener{remove: func() {
		for i, other := range w.resize {
			if other == h {
				w.resize = append(w.resize[:i], w.resize[i+1:]...)
				return
			}
		}
	}}
}

// Run starts the simulation and blocks until the window is closed or Q is
// pressed.
func (w *Window) Run(opts ...sim.Option) error {
	opts = append([]sim.Option{sim.WithClock(frameClock{}), sim.WithLogger(w.log)}, opts...)
	s, err := sim.Start(w, w.cfg, opts...)
	if err != nil {
		return err
	}
	w.sim = s
	defer s.Destroy()

	bg := color(w.cfg.Scene.Background)
	for !rl.WindowShouldClose() {
		if rl.IsKeyPressed(rl.KeyQ) || rl.IsKeyPressed(rl.KeyEscape) {
			break
		}
		w.pollInput()

		rl.BeginDrawing()
		rl.ClearBackground(bg)
		w.runFrame()
		w.drawHUD()
		rl.EndDrawing()
	}
	return nil
}

func (w *Window) pollInput() {
	if rl.IsWindowResized() {
		vp := w.Viewport()
		for _, h := range append([]*resizeFn(nil), w.resize...) {
			h.fn(vp)
		}
	}
	if rl.IsMouseButtonPressed(rl.MouseLeftButton) {
		pos := rl.GetMousePosition()
		ev := dynamo.PointerEvent{X: float64(pos.X), Y: float64(pos.Y)}
		for _, h := range append([]*pointerFn(nil), w.pointer...) {
			h.fn(ev)
		}
	}
}

func (w *Window) runFrame() {
	batch := w.queue
	w.queue = nil
	for _, r := range batch {
		if !r.cancelled {
			r.fn()
		}
	}
}

func (w *Window) drawHUD() {
	st := w.sim.LastStats()
	rl.DrawText(fmt.Sprintf("spheres %d / %d", st.Live, w.cfg.Limits.MaxSpheres), 20, 20, 20, colText)
	rl.DrawText(fmt.Sprintf("substeps %d  leftover %.4f", st.SubSteps, st.Leftover), 20, 46, 16, colTextDim)
	rl.DrawText("click to drop a sphere, Q to quit", 20, int32(rl.GetScreenHeight())-36, 16, colTextDim)
	rl.DrawFPS(int32(rl.GetScreenWidth())-100, 20)
}

// Close tears down the simulation and the window.
func (w *Window) Close() {
	w.sim.Destroy()
	rl.CloseWindow()
}
