package ui

// Mode is the active front panel mode. It gates both LED rendering and
// switch interpretation.
type Mode int

const (
	ModeNormal Mode = iota
	ModeDisplayAlternateParameters
	ModeDisplayOctave
	ModeDisplayTransferProgress
	ModeCalibrationStep1
	ModeCalibrationStep2
	ModeError
	ModeTest
	NumModes
)

var modeNames = [NumModes]string{
	"Normal",
	"DisplayAlternateParameters",
	"DisplayOctave",
	"DisplayTransferProgress",
	"CalibrationStep1",
	"CalibrationStep2",
	"Error",
	"Test",
}

func (m Mode) String() string {
	if m < 0 || m >= NumModes {
		return "Mode(?)"
	}
	return modeNames[m]
}

// timesOut reports whether the mode falls back to Normal on its own.
func (m Mode) timesOut() bool {
	return m == ModeDisplayOctave || m == ModeDisplayTransferProgress
}

// calibrating reports whether the calibration sequence owns the panel.
func (m Mode) calibrating() bool {
	return m == ModeCalibrationStep1 || m == ModeCalibrationStep2
}
