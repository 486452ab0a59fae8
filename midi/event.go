package midi

// PadEvent is sent when a pad is pressed or released on a grid controller.
// Velocity 0 is a release.
type PadEvent struct {
	Row, Col int
	Velocity uint8
}

// Pressed reports whether the event is a press.
func (e PadEvent) Pressed() bool {
	return e.Velocity > 0
}

// NoteEvent is sent when a key is played. Velocity 0 is a note off.
type NoteEvent struct {
	Note     uint8
	Velocity uint8
	Channel  uint8
}

// ControlEvent is a control change
type ControlEvent struct {
	Channel uint8
	CC      uint8
	Value   uint8
}

// sendNonBlocking drops the event when the channel is full.
func sendNonBlocking[T any](ch chan T, v T) {
	select {
	case ch <- v:
	default:
	}
}
