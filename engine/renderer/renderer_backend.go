package renderer

import (
	"errors"
	"fmt"
	"log/slog"
)

// RendererBackendType identifies the backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeNull discards frames. Used for headless runs and tests.
	BackendTypeNull RendererBackendType = iota

	// BackendTypeLog writes a structured summary of every Nth frame to the logger.
	BackendTypeLog

	// BackendTypeWGPU draws the bodies through WebGPU into a window surface.
	BackendTypeWGPU
)

func (t RendererBackendType) String() string {
	switch t {
	case BackendTypeNull:
		return "null"
	case BackendTypeLog:
		return "log"
	case BackendTypeWGPU:
		return "wgpu"
	default:
		return "unknown"
	}
}

// ParseBackendType resolves a backend name as produced by String.
func ParseBackendType(name string) (RendererBackendType, error) {
	switch name {
	case "null", "":
		return BackendTypeNull, nil
	case "log":
		return BackendTypeLog, nil
	case "wgpu":
		return BackendTypeWGPU, nil
	default:
		return BackendTypeNull, fmt.Errorf("unknown renderer backend %q", name)
	}
}

// RendererBackend is the per-API half of a Renderer.
type RendererBackend interface {
	renderFrame(frame FrameData) error
	configureSurface(width, height int)
}

// ErrEmptyFrame is returned by backends handed a frame without a camera uniform.
var ErrEmptyFrame = errors.New("frame has no camera uniform")

type nullRendererBackend struct{}

func (nullRendererBackend) renderFrame(FrameData) error { return nil }
func (nullRendererBackend) configureSurface(int, int)   {}

// logRendererBackend logs a frame summary every logEvery frames.
type logRendererBackend struct {
	logger   *slog.Logger
	logEvery uint64
}

func newLogRendererBackend(logger *slog.Logger, logEvery uint64) *logRendererBackend {
	return &logRendererBackend{logger: logger, logEvery: max(logEvery, 1)}
}

func (b *logRendererBackend) renderFrame(frame FrameData) error {
	if len(frame.CameraUniform) == 0 {
		return ErrEmptyFrame
	}
	if frame.Frame%b.logEvery != 0 {
		return nil
	}
	b.logger.Debug("frame",
		slog.Uint64("frame", frame.Frame),
		slog.Int("drawables", len(frame.Drawables)),
		slog.Int("visible", frame.VisibleCount()),
		slog.Any("camera", frame.CameraPosition),
		slog.Any("target", frame.CameraTarget),
		slog.Float64("shine", float64(frame.Shine)),
	)
	return nil
}

func (b *logRendererBackend) configureSurface(width, height int) {
	b.logger.Info("surface configured", slog.Int("width", width), slog.Int("height", height))
}
