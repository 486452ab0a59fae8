// Package hw declares the hardware collaborators the controller talks to
// and provides reference drivers used by the simulator and the tests.
package hw

// PotChannel indexes the pot ADC.
type PotChannel int

const (
	PotFrequency PotChannel = iota
	PotHarmonics
	PotTimbre
	PotMorph
	PotTimbreAttenuverter
	PotFMAttenuverter
	PotMorphAttenuverter
	NumPots
)

var potNames = [NumPots]string{
	"frequency", "harmonics", "timbre", "morph",
	"timbre-atv", "fm-atv", "morph-atv",
}

func (p PotChannel) String() string {
	if p < 0 || p >= NumPots {
		return "pot?"
	}
	return potNames[p]
}

// CVChannel indexes the CV ADC. The order matches patch.Modulations.CV.
type CVChannel int

const (
	CVEngine CVChannel = iota
	CVVOct
	CVFM
	CVHarmonics
	CVTimbre
	CVMorph
	CVTrigger
	CVLevel
	NumCVs
)

var cvNames = [NumCVs]string{
	"engine", "v/oct", "fm", "harmonics", "timbre", "morph", "trigger", "level",
}

func (c CVChannel) String() string {
	if c < 0 || c >= NumCVs {
		return "cv?"
	}
	return cvNames[c]
}

// Switch identifies one of the two front panel buttons.
type Switch int

const (
	SwitchRow1 Switch = iota
	SwitchRow2
	NumSwitches
)

// NumLEDs is the size of the status LED bank.
const NumLEDs = 8
