// Package input turns raw device events into per-frame input deltas.
// Event handlers only accumulate; the frame loop drains the router once per frame with Collect.
package input

import (
	"log/slog"
	"sync"
)

// Router accumulates keyboard, mouse and wheel events between frames.
// All methods are safe to call from input callbacks running on another goroutine.
type Router interface {
	// KeyDown registers a key press (or auto-repeat) for a GLFW key code. Unbound keys are ignored.
	//
	// Parameters:
	//   - code: the GLFW key code
	KeyDown(code int)

	// KeyUp registers a key release.
	//
	// Parameters:
	//   - code: the GLFW key code
	KeyUp(code int)

	// MouseDown starts drag tracking when the press lands inside the canvas.
	//
	// Parameters:
	//   - x, y: cursor position in window coordinates
	//   - inBounds: whether the cursor is inside the canvas
	MouseDown(x, y float64, inBounds bool)

	// MouseUp stops drag tracking.
	//
	// Parameters:
	//   - x, y: cursor position in window coordinates
	MouseUp(x, y float64)

	// MouseMove accumulates a normalized drag delta while tracking. The last cursor
	// position is always updated.
	//
	// Parameters:
	//   - x, y: cursor position in window coordinates
	MouseMove(x, y float64)

	// Wheel accumulates a scroll delta, positive toward zoom-in.
	//
	// Parameters:
	//   - delta: the scroll offset
	Wheel(delta float64)

	// SetViewport sets the canvas size used to normalize drag deltas.
	//
	// Parameters:
	//   - width, height: canvas size in pixels
	SetViewport(width, height int)

	// SetBindings replaces the key bindings.
	//
	// Parameters:
	//   - b: the new key map
	SetBindings(b Bindings)

	// Collect returns the input accumulated since the last call and resets it.
	//
	// Returns:
	//   - Frame: the accumulated input
	Collect() Frame

	// Held reports whether any key bound to the action is currently down.
	Held(a Action) bool

	// Tracking reports whether a mouse drag is in progress.
	Tracking() bool
}

// router is the implementation of the Router interface.
type router struct {
	mu *sync.Mutex

	bindings Bindings
	logger   *slog.Logger

	width, height float64

	held     map[int]bool
	tracking bool
	lastX    float64
	lastY    float64

	pending Frame
}

var _ Router = &router{}

// NewRouter creates a Router with the default bindings and a 1x1 viewport.
//
// Parameters:
//   - options: functional options to configure the router
//
// Returns:
//   - Router: the newly created router
func NewRouter(options ...RouterBuilderOption) Router {
	r := &router{
		mu:       &sync.Mutex{},
		bindings: DefaultBindings(),
		logger:   slog.Default(),
		width:    1,
		height:   1,
		held:     make(map[int]bool),
	}

	for _, option := range options {
		option(r)
	}
	return r
}

func (r *router) KeyDown(code int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	action, ok := r.bindings[code]
	if !ok || action == ActionNone {
		return
	}
	r.held[code] = true

	switch action {
	case ActionTrackLeft:
		r.pending.KeyPan[0]--
	case ActionTrackRight:
		r.pending.KeyPan[0]++
	case ActionCraneUp:
		r.pending.KeyPan[1]++
	case ActionCraneDown:
		r.pending.KeyPan[1]--
	case ActionYawLeft:
		r.pending.KeyRotate[0]++
	case ActionYawRight:
		r.pending.KeyRotate[0]--
	case ActionPitchUp:
		r.pending.KeyRotate[1]--
	case ActionPitchDown:
		r.pending.KeyRotate[1]++
	default:
		r.pending.Commands = append(r.pending.Commands, action)
		r.logger.Debug("command queued", slog.String("action", action.String()))
	}
}

func (r *router) KeyUp(code int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.held, code)
}

func (r *router) MouseDown(x, y float64, inBounds bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !inBounds {
		return
	}
	r.lastX, r.lastY = x, y
	r.tracking = true
}

func (r *router) MouseUp(x, y float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tracking = false
}

func (r *router) MouseMove(x, y float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.tracking {
		r.pending.Drag[0] += float32((x - r.lastX) / r.width)
		r.pending.Drag[1] += float32((y - r.lastY) / r.height)
	}
	r.lastX, r.lastY = x, y
}

func (r *router) Wheel(delta float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending.Wheel += float32(delta)
}

func (r *router) SetViewport(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	// A minimized window reports 0x0; keep the last usable size.
	if width > 0 {
		r.width = float64(width)
	}
	if height > 0 {
		r.height = float64(height)
	}
}

func (r *router) SetBindings(b Bindings) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bindings = b
	clear(r.held)
}

func (r *router) Collect() Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	f := r.pending
	r.pending = Frame{}
	return f
}

func (r *router) Held(a Action) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for code, down := range r.held {
		if down && r.bindings[code] == a {
			return true
		}
	}
	return false
}

func (r *router) Tracking() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tracking
}
