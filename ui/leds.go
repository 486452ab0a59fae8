package ui

import (
	"go-voicectl/hw"
	"go-voicectl/notemap"
	"go-voicectl/patch"
)

// LED renderer constants. These are tuned by eye on the hardware.
const (
	barOffset        = 0.001
	parameterBarGain = 85.0
	parameterBarStep = 0.18
	progressBarGain  = 128.0
	progressBarStep  = 0.125

	auxSolidLow   = 0.05
	auxSolidHigh  = 0.95
	auxBrightLow  = 0.15
	auxBrightHigh = 0.85
	auxDimLow     = 0.45
	auxDimHigh    = 0.55
	auxBrightDuty = 12
	auxDimDuty    = 2

	crossfadeGain = 16.0
)

var bankColors = [patch.NumBanks]hw.Color{hw.ColorYellow, hw.ColorGreen, hw.ColorRed}

// bankColor is the colour of an engine bank. In colour-blind mode every bank
// is yellow and the bank is told apart by duty cycle.
func bankColor(bank int, colorBlind bool, pwm int) hw.Color {
	if colorBlind {
		if pwm < 16>>(2*bank) {
			return hw.ColorYellow
		}
		return hw.ColorOff
	}
	if bank < 0 || bank >= len(bankColors) {
		return hw.ColorOff
	}
	return bankColors[bank]
}

func (c *Controller) updateLEDs() {
	leds := c.hw.LEDs
	leds.Clear()
	c.pwmCounter++
	c.modeTicks++

	pwm := int(c.pwmCounter & 15)
	triangle := int(c.pwmCounter>>4) & 31
	if triangle >= 16 {
		triangle = 31 - triangle
	}

	switch c.mode {
	case ModeNormal:
		colorBlind := c.settings.State().ColorBlind
		selectedBank, selectedRow := c.patch.Bank()
		selected := hw.ColorOff
		if pwm < triangle {
			selected = bankColor(selectedBank, colorBlind, pwm)
		}
		activeBank := c.activeEngine / patch.EnginesPerBank
		activeRow := c.activeEngine % patch.EnginesPerBank
		leds.Set(activeRow, bankColor(activeBank, colorBlind, pwm))
		leds.Mask(selectedRow, selected)

	case ModeDisplayAlternateParameters:
		for param, value := range [2]float32{c.patch.LPGColour, c.patch.Decay} {
			value -= barOffset
			for i := 0; i < 3; i++ {
				color := hw.ColorOff
				if value*parameterBarGain > float32(pwm) {
					color = hw.ColorYellow
				}
				leds.Set(param*3+2-i, color)
				value -= parameterBarStep
			}
		}
		leds.Set(6, c.auxModeColor(pwm))
		if c.patch.Crossfade*crossfadeGain > float32(pwm) {
			leds.Set(7, hw.ColorRed)
		} else {
			leds.Set(7, hw.ColorGreen)
		}

	case ModeDisplayOctave:
		band := notemap.Band(c.octave)
		for i := 0; i < hw.NumLEDs; i++ {
			color := hw.ColorOff
			switch band {
			case notemap.BandFree:
				if i == 0 && pwm < triangle {
					color = hw.ColorYellow
				}
			case notemap.BandWide:
				color = hw.ColorYellow
			case notemap.BandQuantized:
				if i&1 != (triangle>>3)&1 {
					color = hw.ColorYellow
				}
			default:
				if band-1 == i {
					color = hw.ColorYellow
				}
			}
			if band == notemap.BandFree {
				leds.Set(i, color)
			} else {
				leds.Set(hw.NumLEDs-1-i, color)
			}
		}

	case ModeDisplayTransferProgress:
		switch {
		case c.transferProgress == 1:
			for i := 0; i < hw.NumLEDs; i++ {
				if i == triangle>>1 {
					leds.Set(i, hw.ColorOff)
				} else {
					leds.Set(i, hw.ColorGreen)
				}
			}
		case c.transferProgress < 0:
			if pwm < triangle {
				for i := 0; i < hw.NumLEDs; i++ {
					leds.Set(i, hw.ColorRed)
				}
			}
		default:
			value := c.transferProgress - barOffset
			for i := 0; i < hw.NumLEDs; i++ {
				if value*progressBarGain > float32(pwm) {
					leds.Set(i, hw.ColorGreen)
				}
				value -= progressBarStep
			}
		}

	case ModeCalibrationStep1:
		if pwm < triangle {
			leds.Set(0, hw.ColorGreen)
		}

	case ModeCalibrationStep2:
		if pwm < triangle {
			leds.Set(0, hw.ColorYellow)
		}

	case ModeError:
		if pwm < triangle {
			for i := 0; i < hw.NumLEDs; i++ {
				leds.Set(i, hw.ColorRed)
			}
		}

	case ModeTest:
		color := [3]hw.Color{hw.ColorGreen, hw.ColorYellow, hw.ColorRed}[(c.pwmCounter>>10)%3]
		for i := 0; i < hw.NumLEDs; i++ {
			if pwm > (triangle+i*2)&15 {
				leds.Set(i, color)
			}
		}
	}
	leds.Write()

	if c.mode.timesOut() && c.modeTicks > c.opts.DisplayTimeoutTicks {
		c.leaveDisplay()
	}
}

// auxModeColor encodes aux_mode on one LED: red above the midpoint and green
// below, with the duty falling towards the centre.
func (c *Controller) auxModeColor(pwm int) hw.Color {
	aux := c.patch.AuxMode
	color := hw.ColorGreen
	if aux > 0.5 {
		color = hw.ColorRed
	}
	switch {
	case aux < auxSolidLow || aux > auxSolidHigh:
		return color
	case aux < auxBrightLow || aux > auxBrightHigh:
		if auxBrightDuty > pwm {
			return color
		}
	case aux < auxDimLow || aux > auxDimHigh:
		if auxDimDuty > pwm {
			return color
		}
	}
	return hw.ColorOff
}
