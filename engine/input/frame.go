package input

// Frame is everything the router accumulated since the previous Collect.
// Key deltas are counted in presses; the camera controller scales them by its steps.
type Frame struct {
	// KeyPan is (track, crane) in key presses. Positive track is right, positive crane is up.
	KeyPan [2]float32

	// KeyRotate is (yaw, pitch) in key presses.
	KeyRotate [2]float32

	// Wheel is the accumulated scroll, positive when scrolling away from the user (zoom in).
	Wheel float32

	// Drag is the accumulated mouse drag normalized by viewport width and height.
	Drag [2]float32

	// Commands are the discrete commands in arrival order.
	Commands []Action
}

// Empty reports whether the frame carries no input at all.
func (f Frame) Empty() bool {
	return f.KeyPan == [2]float32{} && f.KeyRotate == [2]float32{} &&
		f.Wheel == 0 && f.Drag == [2]float32{} && len(f.Commands) == 0
}
