package headless

import (
	"github.com/san-kum/spherefall/internal/config"
	"github.com/san-kum/spherefall/internal/dynamo"
)

type request struct {
	fn        func()
	cancelled bool
}

func (r *request) Cancel() { r.cancelled = true }

type registration struct {
	remove func()
}

func (r *registration) Remove() {
	if r.remove != nil {
		r.remove()
		r.remove = nil
	}
}

type pointerHandler struct {
	fn func(dynamo.PointerEvent)
}

type resizeHandler struct {
	fn func(dynamo.Viewport)
}

type Host struct {
	// RendererErr, when set, is returned by NewRenderer.
	RendererErr error
	// RendererFunc, when set, builds the renderer instead of a recording
	// one. Renderer then returns nil.
	RendererFunc func(config.Scene) dynamo.Renderer

	viewport dynamo.Viewport
	queue    []*request
	pointer  []*pointerHandler
	resize   []*resizeHandler
	renderer *Renderer
	frames   int
}

func NewHost(vp dynamo.Viewport) *Host {
	return &Host{viewport: vp}
}

func (h *Host) Viewport() dynamo.Viewport { return h.viewport }

func (h *Host) NewRenderer(scene config.Scene) (dynamo.Renderer, error) {
	if h.RendererErr != nil {
		return nil, h.RendererErr
	}
	if h.RendererFunc != nil {
		return h.RendererFunc(scene), nil
	}
	h.renderer = NewRenderer(scene)
	return h.renderer, nil
}

// Renderer is the last renderer handed out, or nil.
func (h *Host) Renderer() *Renderer { return h.renderer }

func (h *Host) RequestFrame(fn func()) dynamo.FrameRequest {
	r := &request{fn: fn}
	h.queue = append(h.queue, r)
	return r
}

func (h *Host) OnPointerDown(fn func(dynamo.PointerEvent)) dynamo.Listener {
	ph := &pointerHandler{fn: fn}
	h.pointer = append(h.pointer, ph)
	return &registration{remove: func() {
		for i, other := range h.pointer {
			if other == ph {
				h.pointer = append(h.pointer[:i], h.pointer[i+1:]...)
				return
			}
		}
	}}
}

func (h *Host) OnResize(fn func(dynamo.Viewport)) dynamo.Listener {
	rh := &resizeHandler{fn: fn}
	h.resize = append(h.resize, rh)
	return &registration{remove: func() {
		for i, other := range h.resize {
			if other == rh {
				h.resize = append(h.resize[:i], h.resize[i+1:]...)
				return
			}
		}
	}}
}

// Pump runs up to n frames and returns how many ran. Requests made while a
// frame runs are deferred to the next one, as with a display refresh.
func (h *Host) Pump(n int) int {
	ran := 0
	for ran < n && len(h.queue) > 0 {
		batch := h.queue
		h.queue = nil
		for _, r := range batch {
			if r.cancelled {
				continue
			}
			r.fn()
		}
		ran++
		h.frames++
	}
	return ran
}

// Pending counts frame requests not yet run or cancelled.
func (h *Host) Pending() int {
	n := 0
	for _, r := range h.queue {
		if !r.cancelled {
			n++
		}
	}
	return n
}

// Listeners counts registered pointer and resize callbacks.
func (h *Host) Listeners() int { return len(h.pointer) + len(h.resize) }

func (h *Host) Frames() int { return h.frames }

func (h *Host) PointerDown(ev dynamo.PointerEvent) {
	for _, ph := range append([]*pointerHandler(nil), h.pointer...) {
		ph.fn(ev)
	}
}

// Click sends a primary-button press at client coordinates x, y.
func (h *Host) Click(x, y float64) {
	h.PointerDown(dynamo.PointerEvent{X: x, Y: y})
}

func (h *Host) Resize(vp dynamo.Viewport) {
	h.viewport = vp
	for _, rh := range append([]*resizeHandler(nil), h.resize...) {
		rh.fn(vp)
	}
}
