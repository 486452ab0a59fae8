// Package probe detects which normalled CV inputs have a cable attached by
// driving a pseudo-random bit sequence onto the normalization bus and
// comparing it with what each input reads back.
package probe

import (
	"go-voicectl/debug"
	"go-voicectl/hw"
	"go-voicectl/patch"
	"go-voicectl/settings"
)

const (
	DefaultSequenceLength    = 32
	DefaultMismatchThreshold = 2
)

// Thresholds supplies the per-channel detection threshold.
// *settings.Settings satisfies it.
type Thresholds interface {
	CalibrationData(ch hw.CVChannel) settings.ChannelCalibrationData
}

// Probe is the normalization probe. One Step per call; the read-back is
// compared against the bit written on the previous Step.
type Probe struct {
	line       hw.ProbeLine
	cv         hw.CVADC
	thresholds Thresholds

	sequenceLength    int
	mismatchThreshold int

	state      uint32
	count      int
	mismatches [patch.NumNormalized]int
	sequences  int
}

// New creates a probe and initialises the line. Non-positive lengths fall
// back to the defaults.
func New(line hw.ProbeLine, cv hw.CVADC, thresholds Thresholds, sequenceLength, mismatchThreshold int) *Probe {
	if sequenceLength <= 0 {
		sequenceLength = DefaultSequenceLength
	}
	if mismatchThreshold <= 0 {
		mismatchThreshold = DefaultMismatchThreshold
	}
	p := &Probe{
		line:              line,
		cv:                cv,
		thresholds:        thresholds,
		sequenceLength:    sequenceLength,
		mismatchThreshold: mismatchThreshold,
	}
	p.line.Init()
	return p
}

// Expected is the bit currently driven onto the bus.
func (p *Probe) Expected() bool {
	return p.state>>31 != 0
}

// Step runs one probe cycle. At the end of each sequence the Patched flags
// of m are rewritten: a channel is patched while its mismatch count stays
// below the threshold.
func (p *Probe) Step(m *patch.Modulations) {
	expected := p.Expected()
	for i, ch := range patch.NormalizedChannels {
		read := p.cv.Value(ch) < p.thresholds.CalibrationData(ch).NormalizationDetectionThreshold
		if read != expected {
			p.mismatches[i]++
		}
	}

	p.count++
	if p.count >= p.sequenceLength {
		p.count = 0
		for i := range p.mismatches {
			m.Patched[i] = p.mismatches[i] < p.mismatchThreshold
			p.mismatches[i] = 0
		}
		p.sequences++
		debug.LogEvery(64, "probe", "patched=%v", m.Patched)
	}

	p.state = 1103515245*p.state + 12345
	p.line.Write(p.Expected())
}

// Disable releases the bus, used while calibrating.
func (p *Probe) Disable() {
	p.line.Disable()
}

// Reset re-drives the bus and starts a fresh sequence.
func (p *Probe) Reset() {
	p.line.Init()
	p.line.Write(p.Expected())
	p.count = 0
	p.mismatches = [patch.NumNormalized]int{}
}

// Sequences is the number of completed probe sequences.
func (p *Probe) Sequences() int {
	return p.sequences
}
