// Package notemap turns the frequency pot and the octave selector into the
// final engine note.
package notemap

// NumBands is the number of octave bands.
const NumBands = 11

const (
	BandFree      = 0
	BandQuantized = 9
	BandWide      = 10
)

// Quantized band parameters.
const (
	scaleSteps      = 9
	scaleHysteresis = 0.01
)

// Mapper computes the note. It is stateful only through the quantizer used
// by the quantized band.
type Mapper struct {
	quantizer *Quantizer
}

// New returns a Mapper.
func New() *Mapper {
	return &Mapper{quantizer: NewQuantizer(scaleSteps, scaleHysteresis, false)}
}

// Band maps an octave fraction in 0..1 to its band. The top of travel
// belongs to the last band.
func Band(octave float32) int {
	b := int(octave * NumBands)
	if b < 0 {
		return 0
	}
	if b >= NumBands {
		return NumBands - 1
	}
	return b
}

// Note returns the engine note in semitones. transposition is -1..1 and
// fineTune 0..1.
func (m *Mapper) Note(transposition, fineTune, octave float32) float32 {
	switch band := Band(octave); band {
	case BandFree:
		return -48.37 + transposition*60
	case BandQuantized:
		step := m.quantizer.Process(0.5*transposition + 0.5)
		return 53 + fineTune*14 + 12*float32(step-4)
	case BandWide:
		return 60 + transposition*48
	default:
		return transposition*7 + float32(band)*12
	}
}
