package settings

import (
	"math"

	"go-voicectl/hw"
)

// State is the persisted front panel state. Fractional parameters are kept
// as 8-bit fixed point, see Scale8.
type State struct {
	Engine        uint8
	LPGColour     uint8
	Decay         uint8
	Octave        uint8
	FineTune      uint8
	AuxMode       uint8
	Crossfade     uint8
	ColorBlind    bool
	AltNavigation bool
}

// DefaultState is used when no state record exists.
func DefaultState() State {
	return State{
		Engine:    8,
		LPGColour: Scale8(0.5),
		Decay:     Scale8(0.5),
		Octave:    Scale8(0.5),
		FineTune:  Scale8(0.5),
		AuxMode:   Scale8(0.5),
		Crossfade: Scale8(0.5),
	}
}

// Scale8 stores a 0..1 value as round(v*256), saturating at 255.
func Scale8(v float32) uint8 {
	x := math.Round(float64(v) * 256)
	if x < 0 {
		return 0
	}
	if x > 255 {
		return 255
	}
	return uint8(x)
}

// Unscale8 is the inverse of Scale8.
func Unscale8(b uint8) float32 {
	return float32(b) / 256
}

// ChannelCalibrationData converts one raw CV channel to engine units.
type ChannelCalibrationData struct {
	Scale  float32
	Offset float32
	// NormalizationDetectionThreshold is the raw level below which the
	// channel reads as a high probe bit.
	NormalizationDetectionThreshold int16
}

// Transform applies the calibration to a -1..1 sample.
func (c ChannelCalibrationData) Transform(x float32) float32 {
	return x*c.Scale + c.Offset
}

const defaultNormalizationThreshold = -4096

// DefaultCalibration returns factory calibration for every CV channel.
func DefaultCalibration() [hw.NumCVs]ChannelCalibrationData {
	var c [hw.NumCVs]ChannelCalibrationData
	for i := range c {
		c[i] = ChannelCalibrationData{
			Scale:                           -1.6,
			NormalizationDetectionThreshold: defaultNormalizationThreshold,
		}
	}
	c[hw.CVEngine].Scale = -1
	c[hw.CVHarmonics].Scale = -1
	c[hw.CVVOct] = ChannelCalibrationData{Scale: -60, Offset: 25.71, NormalizationDetectionThreshold: defaultNormalizationThreshold}
	c[hw.CVFM].Scale = -60
	return c
}
