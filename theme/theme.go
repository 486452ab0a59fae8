package theme

import (
	"github.com/charmbracelet/lipgloss"

	"go-voicectl/hw"
)

type Theme struct {
	Palette *Palette
	Symbols Symbols
	LEDs    LEDColors
}

type Symbols struct {
	LEDOn   rune // ● lit LED
	LEDOff  rune // ○ dark LED
	Switch  rune // ▣ switch held
	Release rune // □ switch released
	Cable   rune // ⊸ cable in jack
}

// LEDColors are the full-duty colours of the bicolour LEDs.
type LEDColors struct {
	Off    RGB
	Green  RGB
	Yellow RGB
	Red    RGB
}

func New(palette *Palette) *Theme {
	return &Theme{
		Palette: palette,
		Symbols: Symbols{
			LEDOn:   '●',
			LEDOff:  '○',
			Switch:  '▣',
			Release: '□',
			Cable:   '⊸',
		},
		LEDs: LEDColors{
			Off:    RGB{0, 0, 0},
			Green:  RGB{0, 255, 0},
			Yellow: RGB{255, 200, 0},
			Red:    RGB{255, 0, 0},
		},
	}
}

// Color roles mapped to palette positions (0-1)
const (
	RoleBG      = 0.0
	RoleSurface = 0.2
	RoleMuted   = 0.4
	RoleFG      = 0.6
	RoleAccent  = 0.8
	RoleWarning = 1.0
)

func (t *Theme) BG() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleBG))
}

func (t *Theme) FG() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleFG))
}

func (t *Theme) Accent() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleAccent))
}

func (t *Theme) Muted() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleMuted))
}

func (t *Theme) Warning() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleWarning))
}

// Color returns lipgloss color for any normalized value 0-1
func (t *Theme) Color(norm float64) lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(norm))
}

// LEDRGB is the perceived colour of an LED lit with c for the fraction duty
// of a PWM period.
func (t *Theme) LEDRGB(c hw.Color, duty float64) RGB {
	var full RGB
	switch c {
	case hw.ColorGreen:
		full = t.LEDs.Green
	case hw.ColorYellow:
		full = t.LEDs.Yellow
	case hw.ColorRed:
		full = t.LEDs.Red
	default:
		return t.LEDs.Off
	}
	if duty <= 0 {
		return t.LEDs.Off
	}
	if duty >= 1 {
		return full
	}
	return Blend(t.LEDs.Off, full, duty)
}

func rgbToLipgloss(c RGB) lipgloss.Color {
	return lipgloss.Color(c.Hex())
}
