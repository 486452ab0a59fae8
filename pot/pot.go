// Package pot interprets a physical pot that edits a main parameter and,
// while a modifier button is held, an optional hidden parameter.
package pot

import "math"

// State is the editing state of a dual-purpose pot.
type State int

const (
	// StateTracking: the pot drives its main parameter.
	StateTracking State = iota
	// StateLocked: a modifier is held and the pot has not moved yet.
	StateLocked
	// StateHidden: the pot drives its hidden parameter.
	StateHidden
	// StateCatchingUp: the main parameter slews back onto the pot position
	// as the pot moves, so returning from hidden editing never jumps.
	StateCatchingUp
)

func (s State) String() string {
	switch s {
	case StateTracking:
		return "tracking"
	case StateLocked:
		return "locked"
	case StateHidden:
		return "hidden"
	case StateCatchingUp:
		return "catching-up"
	}
	return "?"
}

const (
	defaultCoefficient = 0.01
	catchUpThreshold   = 0.005
	minSkew            = 0.1
	maxSkew            = 10.0
)

// Controller is one pot. Parameters are owned by the caller and written in
// place; the pot keeps its own filtered position in 0..1.
type Controller struct {
	main   *float32
	hidden *float32

	step   float32
	scale  float32
	offset float32

	value       float32
	previous    float32
	coefficient float32
	primed      bool

	state         State
	wasCatchingUp bool
}

// New creates a pot bound to main and, if not nil, hidden. step is the
// movement needed to leave StateLocked; main receives position*scale+offset.
func New(main, hidden *float32, step, scale, offset float32) *Controller {
	c := &Controller{}
	c.Init(main, hidden, step, scale, offset)
	return c
}

// Init rebinds the pot and resets its state.
func (c *Controller) Init(main, hidden *float32, step, scale, offset float32) {
	c.main = main
	c.hidden = hidden
	c.step = step
	c.scale = scale
	c.offset = offset
	c.coefficient = defaultCoefficient
	c.value = 0
	c.previous = 0
	c.primed = false
	c.state = StateTracking
	c.wasCatchingUp = false
}

// ProcessControlRate feeds one raw 0..1 sample. The first sample after Init
// sets the filter directly.
func (c *Controller) ProcessControlRate(raw float32) {
	if !c.primed {
		c.value = raw
		c.previous = raw
		c.primed = true
	}
	c.value += c.coefficient * (raw - c.value)
	if c.state == StateTracking && c.main != nil {
		*c.main = c.value*c.scale + c.offset
	}
}

// ProcessUIRate advances the state machine; it runs at a fraction of the
// control rate so that movement between calls is measurable.
func (c *Controller) ProcessUIRate() {
	switch c.state {
	case StateTracking:
		c.previous = c.value

	case StateLocked:
		if abs32(c.value-c.previous) > c.step {
			c.state = StateHidden
			c.writeHidden()
			c.previous = c.value
		}

	case StateHidden:
		c.writeHidden()
		c.previous = c.value

	case StateCatchingUp:
		c.catchUp()
	}
}

func (c *Controller) writeHidden() {
	if c.hidden != nil {
		*c.hidden = clamp01(c.value)
	}
}

func (c *Controller) catchUp() {
	delta := c.value - c.previous
	if abs32(delta) <= catchUpThreshold {
		return
	}
	m := c.normalizedMain()
	var skew float32
	if delta > 0 {
		skew = (1.001 - m) / (1.001 - c.previous)
	} else {
		skew = (0.001 + m) / (0.001 + c.previous)
	}
	skew = clamp(skew, minSkew, maxSkew)
	m = clamp01(m + delta*skew)
	c.setMain(m)
	if abs32(m-c.value) < catchUpThreshold {
		c.state = StateTracking
	}
	c.previous = c.value
}

// Lock freezes the main parameter while a modifier is held. Pots without a
// hidden parameter ignore it.
func (c *Controller) Lock() {
	if c.hidden == nil || c.state == StateLocked || c.state == StateHidden {
		return
	}
	c.wasCatchingUp = c.state == StateCatchingUp
	c.state = StateLocked
}

// Unlock ends a modifier hold.
func (c *Controller) Unlock() {
	switch {
	case c.state == StateHidden || c.wasCatchingUp:
		c.state = StateCatchingUp
	case c.state == StateLocked:
		c.state = StateTracking
	}
	c.wasCatchingUp = false
}

// Realign takes the current main parameter as the new baseline: the pot
// tracks directly if it already agrees, otherwise it catches up.
func (c *Controller) Realign() {
	c.previous = c.value
	c.wasCatchingUp = false
	if c.main == nil || abs32(c.normalizedMain()-c.value) < catchUpThreshold {
		c.state = StateTracking
		return
	}
	c.state = StateCatchingUp
}

// EditingHiddenParameter reports whether the pot is driving its hidden parameter.
func (c *Controller) EditingHiddenParameter() bool {
	return c.state == StateHidden
}

func (c *Controller) State() State {
	return c.state
}

// Value is the filtered pot position.
func (c *Controller) Value() float32 {
	return c.value
}

func (c *Controller) normalizedMain() float32 {
	if c.main == nil || c.scale == 0 {
		return c.value
	}
	return (*c.main - c.offset) / c.scale
}

func (c *Controller) setMain(m float32) {
	if c.main != nil {
		*c.main = m*c.scale + c.offset
	}
}

func abs32(v float32) float32 {
	return float32(math.Abs(float64(v)))
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clamp01(v float32) float32 {
	return clamp(v, 0, 1)
}
