package renderer

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
)

// Renderer is the collaborator that turns a published frame into pixels (or into logs, in
// headless runs). The core hands it one immutable FrameData per frame and never reads back.
// Thread-safe for concurrent access.
type Renderer interface {
	// Render consumes one frame. The FrameData must not be mutated after the call.
	//
	// Parameters:
	//   - frame: the frame snapshot to draw
	//
	// Returns:
	//   - error: an error if the backend failed to draw the frame
	Render(frame FrameData) error

	// Resize informs the backend of a new surface size.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	Resize(width, height int)

	// Size returns the last surface size given to Resize.
	//
	// Returns:
	//   - width, height: surface size in pixels
	Size() (width, height int)

	// FrameCount returns how many frames were rendered successfully.
	FrameCount() uint64

	// LastFrame returns the most recently rendered frame.
	//
	// Returns:
	//   - FrameData: the last successfully rendered frame
	//   - bool: false if nothing was rendered yet
	LastFrame() (FrameData, bool)
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	backendType RendererBackendType
	backend     RendererBackend
	logger      *slog.Logger

	width, height int
	logEvery      uint64
	surface       *wgpu.SurfaceDescriptor

	frames uint64
	last   *FrameData
}

var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer for the given backend type. The wgpu backend needs a
// window surface (WithSurface) and is configured at the initial size straight away.
//
// Parameters:
//   - backendType: the backend that consumes frames
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: a new Renderer instance
//   - error: an error if the backend could not be initialized
func NewRenderer(backendType RendererBackendType, options ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		mu:          &sync.Mutex{},
		backendType: backendType,
		logger:      slog.Default(),
		logEvery:    60,
	}

	for _, opt := range options {
		opt(r)
	}

	switch backendType {
	case BackendTypeWGPU:
		b, err := newWGPURendererBackend(r.surface, r.logger)
		if err != nil {
			return nil, fmt.Errorf("%s renderer: %w", backendType, err)
		}
		b.configureSurface(r.width, r.height)
		r.backend = b
	case BackendTypeLog:
		r.backend = newLogRendererBackend(r.logger, r.logEvery)
	case BackendTypeNull:
		fallthrough
	default:
		r.backend = nullRendererBackend{}
	}
	return r, nil
}

func (r *renderer) Render(frame FrameData) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.backend.renderFrame(frame); err != nil {
		return fmt.Errorf("%s renderer: frame %d: %w", r.backendType, frame.Frame, err)
	}
	r.frames++
	r.last = &frame
	return nil
}

func (r *renderer) Resize(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.width, r.height = width, height
	r.backend.configureSurface(width, height)
}

func (r *renderer) Size() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width, r.height
}

func (r *renderer) FrameCount() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

func (r *renderer) LastFrame() (FrameData, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.last == nil {
		return FrameData{}, false
	}
	return *r.last, true
}
