package renderer

import (
	"github.com/Carmen-Shannon/orrery/common"
	"github.com/Carmen-Shannon/orrery/engine/body"
)

// Drawable is one node the renderer should draw this frame.
type Drawable struct {
	Name    string
	Body    body.ID
	World   [16]float32
	Payload common.RenderPayload

	// Visible is false when the node's bounding sphere lies outside the view frustum.
	Visible bool
}

// FrameData is the immutable per-frame snapshot handed to every Renderer.
type FrameData struct {
	Frame uint64

	// Drawables are listed root-to-leaf in scene-graph order.
	Drawables []Drawable

	ViewProj       [16]float32
	CameraPosition [3]float32
	CameraTarget   [3]float32

	// CameraUniform is the marshalled camera uniform buffer contents.
	CameraUniform []byte

	Shine float32
}

// VisibleCount returns the number of drawables inside the view frustum.
func (f FrameData) VisibleCount() int {
	n := 0
	for _, d := range f.Drawables {
		if d.Visible {
			n++
		}
	}
	return n
}
