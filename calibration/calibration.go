// Package calibration fits the V/OCT input from two reference voltages one
// octave apart and zeroes the resting offset of every other CV input.
package calibration

import (
	"errors"
	"fmt"

	"go-voicectl/debug"
	"go-voicectl/hw"
	"go-voicectl/settings"
)

// Accepted range for C3 - C1. The input stage inverts, so a valid pair
// reads lower on the second sample.
const (
	MinDelta = -0.6
	MaxDelta = -0.2
)

var ErrDeltaOutOfRange = errors.New("calibration: delta out of range")

// Store is the part of the settings store calibration writes to.
type Store interface {
	MutableCalibrationData(ch hw.CVChannel) *settings.ChannelCalibrationData
	SavePersistentData() error
}

// Probe is released while calibrating and re-driven afterwards.
type Probe interface {
	Disable()
	Reset()
}

// Result describes a finished calibration.
type Result struct {
	C1, C3 float32
	Delta  float32
	Scale  float32
	Offset float32
}

// Engine runs the two-step sequence. It holds the C1 sample between steps.
type Engine struct {
	store Store
	cv    hw.CVADC
	probe Probe

	c1      float32
	running bool
}

func New(store Store, cv hw.CVADC, probe Probe) *Engine {
	return &Engine{store: store, cv: cv, probe: probe}
}

// Start begins a sequence and releases the probe line.
func (e *Engine) Start() {
	e.running = true
	e.c1 = 0
	e.probe.Disable()
	debug.Log("calib", "start")
}

// Running reports whether a sequence is in progress.
func (e *Engine) Running() bool {
	return e.running
}

// CalibrateC1 zeroes the offset of every channel but V/OCT against its
// current reading and records pitch as the first reference.
func (e *Engine) CalibrateC1(pitch float32) {
	for ch := hw.CVChannel(0); ch < hw.NumCVs; ch++ {
		if ch == hw.CVVOct {
			continue
		}
		c := e.store.MutableCalibrationData(ch)
		c.Offset = -e.cv.FloatValue(ch) * c.Scale
	}
	e.c1 = pitch
	debug.Log("calib", "C1=%.4f", pitch)
}

// CalibrateC3 takes the second reference and, when the pair is valid,
// commits scale and offset for V/OCT and persists calibration. An invalid
// pair returns ErrDeltaOutOfRange and leaves V/OCT untouched. The probe is
// reset either way.
func (e *Engine) CalibrateC3(pitch float32) (Result, error) {
	defer e.probe.Reset()
	e.running = false

	r := Result{C1: e.c1, C3: pitch, Delta: pitch - e.c1}
	if !(r.Delta > MinDelta && r.Delta < MaxDelta) {
		debug.Log("calib", "rejected C1=%.4f C3=%.4f delta=%.4f", r.C1, r.C3, r.Delta)
		return r, fmt.Errorf("%w: %.4f not in (%.1f, %.1f)", ErrDeltaOutOfRange, r.Delta, MinDelta, MaxDelta)
	}

	c := e.store.MutableCalibrationData(hw.CVVOct)
	c.Scale = 24 / r.Delta
	c.Offset = 12 - c.Scale*r.C1
	r.Scale, r.Offset = c.Scale, c.Offset
	debug.Log("calib", "committed scale=%.3f offset=%.3f", r.Scale, r.Offset)

	if err := e.store.SavePersistentData(); err != nil {
		return r, fmt.Errorf("calibration: persist: %w", err)
	}
	return r, nil
}
