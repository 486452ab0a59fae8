package panel

import (
	"go-voicectl/hw"
	"go-voicectl/midi"
)

// Launchpad layout: the LED bank is the bottom row, the two switches are
// the outer pads of the row above.
const (
	ledRow    = 0
	switchRow = 1
)

// Knob controller CC layout.
const (
	firstPotCC = 21
	firstCVCC  = 41
)

func ledPad(i int) (row, col int) {
	return ledRow, i
}

func padSwitch(row, col int) (hw.Switch, bool) {
	if row != switchRow {
		return 0, false
	}
	switch col {
	case 0:
		return hw.SwitchRow1, true
	case 7:
		return hw.SwitchRow2, true
	}
	return 0, false
}

func ccPot(cc uint8) (hw.PotChannel, bool) {
	if cc < firstPotCC || cc >= firstPotCC+uint8(hw.NumPots) {
		return 0, false
	}
	return hw.PotChannel(cc - firstPotCC), true
}

func ccCV(cc uint8) (hw.CVChannel, bool) {
	if cc < firstCVCC || cc >= firstCVCC+uint8(hw.NumCVs) {
		return 0, false
	}
	return hw.CVChannel(cc - firstCVCC), true
}

// ccUnipolar and ccBipolar scale a 7-bit CC value.
func ccUnipolar(v uint8) float32 {
	return float32(v) / 127
}

func ccBipolar(v uint8) float32 {
	return float32(v)/127*2 - 1
}

// ledUpdate builds the pad update for LED i.
func ledUpdate(i int, rgb [3]uint8) midi.LEDUpdate {
	row, col := ledPad(i)
	return midi.LEDUpdate{Row: row, Col: col, Color: rgb, Channel: midi.ChannelStatic}
}
