package window

import "github.com/Carmen-Shannon/orrery/engine/input"

// Bind forwards the window's input events to the router. Presses outside the framebuffer do
// not start a drag, and resizes update the router's viewport. Bind replaces any key, mouse,
// scroll or resize callbacks previously set; onResize, when non-nil, runs after the router
// has been updated.
//
// Parameters:
//   - w: the event source
//   - r: the router receiving the events
//   - onResize: optional extra resize handler
func Bind(w Window, r input.Router, onResize func(width, height int)) {
	r.SetViewport(w.Width(), w.Height())

	w.SetKeyDownCallback(r.KeyDown)
	w.SetKeyUpCallback(r.KeyUp)
	w.SetScrollCallback(r.Wheel)
	w.SetMouseMoveCallback(r.MouseMove)
	w.SetMouseUpCallback(r.MouseUp)
	w.SetMouseDownCallback(func(x, y float64) {
		inBounds := x >= 0 && y >= 0 && x < float64(w.Width()) && y < float64(w.Height())
		r.MouseDown(x, y, inBounds)
	})
	w.SetResizeCallback(func(width, height int) {
		r.SetViewport(width, height)
		if onResize != nil {
			onResize(width, height)
		}
	})
}
