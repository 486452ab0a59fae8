package notemap

// Quantizer maps 0..1 onto a fixed number of steps with hysteresis, so a
// value resting on a step boundary does not flicker between two steps.
type Quantizer struct {
	numSteps   int
	hysteresis float32
	scale      float32
	offset     float32
	current    int
}

// NewQuantizer creates a quantizer. A symmetric quantizer places the first
// and last steps at 0 and 1; otherwise every step covers an equal range.
func NewQuantizer(numSteps int, hysteresis float32, symmetric bool) *Quantizer {
	q := &Quantizer{numSteps: numSteps, hysteresis: hysteresis}
	if symmetric {
		q.scale = float32(numSteps - 1)
	} else {
		q.scale = float32(numSteps)
		q.offset = -0.5
	}
	return q
}

// Process returns the step for v.
func (q *Quantizer) Process(v float32) int {
	v = v*q.scale + q.offset
	h := q.hysteresis
	if v > float32(q.current) {
		h = -h
	}
	step := int(v + h + 0.5)
	if step < 0 {
		step = 0
	}
	if step > q.numSteps-1 {
		step = q.numSteps - 1
	}
	q.current = step
	return step
}

// Current is the last returned step.
func (q *Quantizer) Current() int {
	return q.current
}
