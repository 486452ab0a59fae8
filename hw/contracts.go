package hw

// Switches is a debounced switch driver. Debounce is called once per read;
// the edge queries refer to the most recent Debounce call.
type Switches interface {
	Debounce()
	JustPressed(s Switch) bool
	Pressed(s Switch) bool
	Released(s Switch) bool
	// PressedImmediate reads the raw line, bypassing debouncing. Used once at boot.
	PressedImmediate(s Switch) bool
}

// LEDs is a double-buffered LED driver. Nothing is visible until Write.
type LEDs interface {
	Clear()
	Set(index int, c Color)
	Mask(index int, c Color)
	Write()
}

// CVADC samples the CV inputs. Convert triggers the next conversion; its
// result is visible after the current tick.
type CVADC interface {
	Convert()
	Value(ch CVChannel) int16
	FloatValue(ch CVChannel) float32 // -1..1
}

// PotADC samples the front panel pots.
type PotADC interface {
	Convert()
	Value(ch PotChannel) uint16
	FloatValue(ch PotChannel) float32 // 0..1
}

// ProbeLine is the output driving the normalization bus.
type ProbeLine interface {
	Init()
	Disable()
	Write(bit bool)
}
