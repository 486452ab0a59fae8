package hw

// Debounce patterns over the last eight samples, newest in bit 0.
const (
	historyJustPressed  = 0x7f // one release sample then seven pressed
	historyJustReleased = 0x80 // one pressed sample then seven released
)

// SwitchBank is the reference Switches driver: a shift-register debouncer
// fed from raw line levels.
type SwitchBank struct {
	raw     [NumSwitches]bool
	history [NumSwitches]uint8
	state   [NumSwitches]bool
}

// NewSwitchBank returns a bank with every switch released.
func NewSwitchBank() *SwitchBank {
	return &SwitchBank{}
}

// SetRaw sets the undebounced level of a switch line.
func (s *SwitchBank) SetRaw(sw Switch, down bool) {
	if sw < 0 || sw >= NumSwitches {
		return
	}
	s.raw[sw] = down
}

func (s *SwitchBank) Debounce() {
	for i := range s.history {
		bit := uint8(0)
		if s.raw[i] {
			bit = 1
		}
		s.history[i] = s.history[i]<<1 | bit
		switch s.history[i] {
		case historyJustPressed:
			s.state[i] = true
		case historyJustReleased:
			s.state[i] = false
		}
	}
}

func (s *SwitchBank) JustPressed(sw Switch) bool {
	return s.valid(sw) && s.history[sw] == historyJustPressed
}

func (s *SwitchBank) Released(sw Switch) bool {
	return s.valid(sw) && s.history[sw] == historyJustReleased
}

func (s *SwitchBank) Pressed(sw Switch) bool {
	return s.valid(sw) && s.state[sw]
}

func (s *SwitchBank) PressedImmediate(sw Switch) bool {
	return s.valid(sw) && s.raw[sw]
}

func (s *SwitchBank) valid(sw Switch) bool {
	return sw >= 0 && sw < NumSwitches
}
