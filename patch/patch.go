// Package patch holds the sound engine parameters that the controller edits
// in place. The engine owns both structures.
package patch

import "go-voicectl/hw"

// NumEngines is the number of synthesis engines, in banks of EnginesPerBank.
const (
	NumEngines     = 24
	EnginesPerBank = 8
	NumBanks       = NumEngines / EnginesPerBank
)

// Patch is the engine configuration.
type Patch struct {
	Engine int

	Harmonics float32
	Timbre    float32
	Morph     float32

	FrequencyModulationAmount float32
	TimbreModulationAmount    float32
	MorphModulationAmount     float32

	LPGColour float32
	Decay     float32
	AuxMode   float32
	Crossfade float32

	Note float32
}

// Bank returns the engine's bank and its row inside the bank.
func (p *Patch) Bank() (bank, row int) {
	return p.Engine / EnginesPerBank, p.Engine % EnginesPerBank
}

// NormalizedChannels are the CV inputs checked by the normalization probe,
// in the order of Modulations.Patched.
var NormalizedChannels = [...]hw.CVChannel{
	hw.CVFM,
	hw.CVTimbre,
	hw.CVMorph,
	hw.CVTrigger,
	hw.CVLevel,
}

// NumNormalized is len(NormalizedChannels).
const NumNormalized = len(NormalizedChannels)

// Modulations are the calibrated CV inputs.
type Modulations struct {
	CV      [hw.NumCVs]float32
	Patched [NumNormalized]bool
}

// Note is the filtered V/OCT modulation in semitones.
func (m *Modulations) Note() float32 {
	return m.CV[hw.CVVOct]
}

// IsPatched reports the probe result for a CV channel. Channels that are not
// probed always read as patched.
func (m *Modulations) IsPatched(ch hw.CVChannel) bool {
	for i, c := range NormalizedChannels {
		if c == ch {
			return m.Patched[i]
		}
	}
	return true
}
