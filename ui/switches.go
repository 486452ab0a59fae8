package ui

import (
	"errors"

	"go-voicectl/calibration"
	"go-voicectl/debug"
	"go-voicectl/hw"
	"go-voicectl/patch"
)

// Pots locked while a switch is held, and the groups whose hidden editing
// selects a display mode.
var (
	row1LockedPots = [...]hw.PotChannel{hw.PotFMAttenuverter, hw.PotMorphAttenuverter, hw.PotTimbre, hw.PotMorph}
	row2LockedPots = [...]hw.PotChannel{hw.PotFrequency, hw.PotHarmonics}

	alternateParameterPots = [...]hw.PotChannel{hw.PotMorph, hw.PotTimbre, hw.PotFMAttenuverter, hw.PotMorphAttenuverter}
	octavePots             = [...]hw.PotChannel{hw.PotHarmonics, hw.PotFrequency}

	unlockedOnRelease = [...]hw.PotChannel{
		hw.PotTimbre, hw.PotMorph, hw.PotHarmonics, hw.PotFrequency, hw.PotFMAttenuverter, hw.PotMorphAttenuverter,
	}
)

func (c *Controller) readSwitches() {
	c.hw.Switches.Debounce()

	switch c.mode {
	case ModeNormal:
		c.readNormal()

	case ModeDisplayAlternateParameters, ModeDisplayOctave:
		for i := hw.Switch(0); i < hw.NumSwitches; i++ {
			if c.hw.Switches.Released(i) {
				c.pressTime[i] = 0
				c.leaveDisplay()
			}
		}

	case ModeCalibrationStep1, ModeCalibrationStep2:
		for i := hw.Switch(0); i < hw.NumSwitches; i++ {
			if c.hw.Switches.JustPressed(i) {
				c.pressTime[i] = 0
				c.ignoreRelease[i] = true
				if c.mode == ModeCalibrationStep1 {
					c.calibrateC1()
				} else {
					c.calibrateC3()
				}
				break
			}
		}

	case ModeTest, ModeError:
		for i := hw.Switch(0); i < hw.NumSwitches; i++ {
			if c.hw.Switches.JustPressed(i) {
				c.pressTime[i] = 0
				c.ignoreRelease[i] = true
				c.setMode(ModeNormal)
			}
		}
	}
}

// leaveDisplay returns from a parameter display to Normal and releases the
// pots locked by the press that opened it.
func (c *Controller) leaveDisplay() {
	for _, ch := range unlockedOnRelease {
		c.pots[ch].Unlock()
	}
	c.setMode(ModeNormal)
}

func (c *Controller) readNormal() {
	sw := c.hw.Switches
	for i := hw.Switch(0); i < hw.NumSwitches; i++ {
		if sw.JustPressed(i) {
			// the debouncer reports a switch held since boot as a fresh press
			c.pressTime[i] = 0
			c.ignoreRelease[i] = c.heldAtBoot[i]
			c.heldAtBoot[i] = false
		}
		if sw.Pressed(i) {
			c.pressTime[i]++
		} else {
			c.pressTime[i] = 0
		}
	}

	if sw.JustPressed(hw.SwitchRow1) {
		for _, ch := range row1LockedPots {
			c.pots[ch].Lock()
		}
	}
	if sw.JustPressed(hw.SwitchRow2) {
		for _, ch := range row2LockedPots {
			c.pots[ch].Lock()
		}
	}

	long := c.opts.LongPressTicks
	switch {
	case c.editingHidden(alternateParameterPots[:]):
		c.setMode(ModeDisplayAlternateParameters)
		return

	case c.editingHidden(octavePots[:]):
		c.setMode(ModeDisplayOctave)
		return

	case c.pressTime[0] >= long && c.pressTime[1] >= long:
		c.consumePresses()
		c.RealignPots()
		c.startCalibration()
		return

	case c.pressTime[0] >= long && c.pressTime[1] == 0:
		c.consumePresses()
		c.setMode(ModeDisplayAlternateParameters)
		return

	case c.pressTime[1] >= long && c.pressTime[0] == 0:
		c.consumePresses()
		c.setMode(ModeDisplayOctave)
		return
	}

	released0 := sw.Released(hw.SwitchRow1) && !c.ignoreRelease[0]
	released1 := sw.Released(hw.SwitchRow2) && !c.ignoreRelease[1]
	switch {
	case (released0 && c.pressTime[1] > 0) || (released1 && c.pressTime[0] > 0):
		c.ignoreRelease[0], c.ignoreRelease[1] = true, true
		c.RealignPots()
		c.altNavigation = !c.altNavigation
		debug.Log("mode", "alt navigation=%v", c.altNavigation)
		c.SaveState()
	case released0:
		c.Navigate(0)
	case released1:
		c.Navigate(1)
	}
}

// consumePresses clears both press timers and suppresses the releases that
// end the gesture.
func (c *Controller) consumePresses() {
	c.pressTime[0], c.pressTime[1] = 0, 0
	c.ignoreRelease[0], c.ignoreRelease[1] = true, true
}

func (c *Controller) editingHidden(group []hw.PotChannel) bool {
	for _, ch := range group {
		if c.pots[ch].EditingHiddenParameter() {
			return true
		}
	}
	return false
}

// Navigate selects the next engine for a switch tap. With alternate
// navigation the switches step down and up through all engines. Otherwise
// switch b selects bank b+1, and tapping it again cycles through that bank.
func (c *Controller) Navigate(button int) {
	c.ignoreRelease[0], c.ignoreRelease[1] = true, true
	c.RealignPots()
	if c.altNavigation {
		increment := 1
		if button == 0 {
			increment = patch.NumEngines - 1
		}
		c.patch.Engine = (c.patch.Engine + increment) % patch.NumEngines
	} else {
		bank, row := c.patch.Bank()
		target := button + 1
		if target == bank {
			row = (row + 1) % patch.EnginesPerBank
		}
		c.patch.Engine = target*patch.EnginesPerBank + row
	}
	debug.Log("mode", "engine=%d", c.patch.Engine)
	c.SaveState()
}

// StartCalibration enters the first calibration step.
func (c *Controller) StartCalibration() {
	c.startCalibration()
}

func (c *Controller) startCalibration() {
	c.calib.Start()
	c.setMode(ModeCalibrationStep1)
}

func (c *Controller) calibrateC1() {
	c.calib.CalibrateC1(c.pitchLPCalibration)
	c.setMode(ModeCalibrationStep2)
}

func (c *Controller) calibrateC3() {
	_, err := c.calib.CalibrateC3(c.pitchLPCalibration)
	switch {
	case errors.Is(err, calibration.ErrDeltaOutOfRange):
		c.setMode(ModeError)
	case err != nil:
		debug.Log("settings", "%v", err)
		c.setMode(ModeNormal)
	default:
		c.setMode(ModeNormal)
	}
}
