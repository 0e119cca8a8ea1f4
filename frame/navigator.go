package frame

// Navigator moves through a source frame by frame for interactive selection.
type Navigator struct {
	Decoder  Decoder
	MaxFrame int
}

// NewNavigator returns a Navigator bounded by the decoder's frame count.
func NewNavigator(dec Decoder) *Navigator {
	return &Navigator{Decoder: dec, MaxFrame: dec.Info().MaxFrame()}
}

// Clamp limits index to [0, MaxFrame].
func (n *Navigator) Clamp(index int) int {
	if index > n.MaxFrame {
		index = n.MaxFrame
	}
	if index < 0 {
		index = 0
	}
	return index
}

// Goto resolves the frame closest to target, scanning away from current when
// target itself cannot be decoded. ErrFrameUnresolvable means there are no
// further frames in that direction and the caller should stay where it is.
func (n *Navigator) Goto(current, target int) (Resolved, error) {
	target = n.Clamp(target)
	dir := Forward
	if target < current {
		dir = Backward
	}
	return Resolve(n.Decoder, target, dir, n.MaxFrame)
}

// Step moves delta frames from current.
func (n *Navigator) Step(current, delta int) (Resolved, error) {
	return n.Goto(current, current+delta)
}
