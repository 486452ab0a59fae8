package midi

// ControllerType identifies the kind of controller
type ControllerType int

const (
	ControllerUnknown ControllerType = iota
	ControllerLaunchpad
	ControllerKnobs
)

func (t ControllerType) String() string {
	switch t {
	case ControllerLaunchpad:
		return "launchpad"
	case ControllerKnobs:
		return "knobs"
	}
	return "unknown"
}

// Controller is the interface for MIDI front panel devices
type Controller interface {
	ID() string
	Type() ControllerType

	// Input events from the controller
	PadEvents() <-chan PadEvent         // grid pads, press and release
	NoteEvents() <-chan NoteEvent       // keys, V/OCT source
	ControlEvents() <-chan ControlEvent // CCs, pots and CVs
	FactoryRequests() <-chan byte       // factory test SysEx

	// Output to the controller
	SetLEDBatch(updates []LEDUpdate) error
	SendFactoryReply(reply byte) error

	// Lifecycle
	Close() error
}

// LEDUpdate is one pad colour change
type LEDUpdate struct {
	Row, Col int
	Color    [3]uint8
	Channel  uint8
}

// Launchpad X colour palette (velocity values 0-127)
const (
	ColorOff    uint8 = 0
	ColorRed    uint8 = 5
	ColorYellow uint8 = 13
	ColorGreen  uint8 = 21
	ColorWhite  uint8 = 3

	// Channel modes for LEDUpdate.Channel
	ChannelStatic uint8 = 0 // solid color
	ChannelFlash  uint8 = 1 // flashing A/B alternating
	ChannelPulse  uint8 = 2 // pulsing (fades)
)
