package hw

// Color is the state of one bicolour LED.
type Color uint8

const (
	ColorOff Color = iota
	ColorGreen
	ColorYellow
	ColorRed
)

func (c Color) String() string {
	switch c {
	case ColorOff:
		return "off"
	case ColorGreen:
		return "green"
	case ColorYellow:
		return "yellow"
	case ColorRed:
		return "red"
	}
	return "?"
}

// Frame is one complete LED bank state.
type Frame [NumLEDs]Color

// LedBank is the reference LEDs driver. Set/Mask/Clear edit a back buffer
// that Write publishes.
type LedBank struct {
	back  Frame
	front Frame

	writes  uint64
	onWrite func(Frame)
}

// NewLedBank creates an LED bank. onWrite, if not nil, receives every
// published frame.
func NewLedBank(onWrite func(Frame)) *LedBank {
	return &LedBank{onWrite: onWrite}
}

func (l *LedBank) Clear() {
	l.back = Frame{}
}

func (l *LedBank) Set(index int, c Color) {
	if index < 0 || index >= NumLEDs {
		return
	}
	l.back[index] = c
}

// Mask overlays c on index. The non-off condition applies to the overlay c,
// not to the colour already on the LED: an off overlay leaves the LED
// untouched, and a lit overlay replaces it whether or not it was lit. A
// blinking overlay therefore lets the underlying colour show through its
// off phase.
func (l *LedBank) Mask(index int, c Color) {
	if c == ColorOff {
		return
	}
	l.Set(index, c)
}

func (l *LedBank) Write() {
	l.front = l.back
	l.writes++
	if l.onWrite != nil {
		l.onWrite(l.front)
	}
}

// Frame returns the last published frame.
func (l *LedBank) Frame() Frame {
	return l.front
}

// Writes returns how many frames have been published.
func (l *LedBank) Writes() uint64 {
	return l.writes
}
