package ui

import (
	"go-voicectl/debug"
	"go-voicectl/hw"
	"go-voicectl/patch"
)

// Factory test operations, in the top three bits of a request byte.
const (
	FactoryReadPot = iota
	FactoryReadCV
	FactoryReadNormalization
	FactoryReadGate
	FactoryTestSignal
	FactoryCalibrate
)

// Arguments of FactoryCalibrate.
const (
	FactoryCalibrateStart = iota
	FactoryCalibrateC1
	FactoryCalibrateC3
)

// FactoryRequest builds a request byte.
func FactoryRequest(op, arg int) byte {
	return byte(op&0x07)<<5 | byte(arg&0x1f)
}

// HandleFactoryRequest executes one factory test request and returns the
// reply byte. Reads of channels that do not exist reply 0.
func (c *Controller) HandleFactoryRequest(cmd byte) byte {
	arg := int(cmd & 0x1f)
	op := int(cmd >> 5)
	var reply byte

	switch op {
	case FactoryReadPot:
		if arg < int(hw.NumPots) {
			reply = byte(c.hw.Pots.Value(hw.PotChannel(arg)) >> 8)
		}

	case FactoryReadCV:
		if arg < int(hw.NumCVs) {
			reply = byte((int32(c.hw.CV.Value(hw.CVChannel(arg))) + 32768) >> 8)
		}

	case FactoryReadNormalization:
		if arg < patch.NumNormalized {
			if !c.mods.Patched[arg] {
				reply = 255
			}
		}

	case FactoryReadGate:
		if arg < int(hw.NumSwitches) && c.hw.Switches.Pressed(hw.Switch(arg)) {
			reply = 1
		}

	case FactoryTestSignal:
		if arg != 0 {
			c.setMode(ModeTest)
		} else {
			c.setMode(ModeNormal)
		}

	case FactoryCalibrate:
		switch arg {
		case FactoryCalibrateStart:
			c.patch.Engine = 0
			c.startCalibration()
		case FactoryCalibrateC1:
			c.calibrateC1()
		case FactoryCalibrateC3:
			c.calibrateC3()
			c.SaveState()
		}
	}

	debug.Log("factory", "op=%d arg=%d reply=%d", op, arg, reply)
	return reply
}
