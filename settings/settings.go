// Package settings persists the front panel state and the per-channel CV
// calibration as two independent, checksummed records.
package settings

import (
	"errors"
	"fmt"

	"go-voicectl/hw"
	"go-voicectl/patch"
)

const (
	stateKey       = "state"
	calibrationKey = "calibration"
)

// Settings is the settings store. It is not safe for concurrent use; the
// controller owns it.
type Settings struct {
	backend     Backend
	state       State
	calibration [hw.NumCVs]ChannelCalibrationData
}

// Open loads both records from backend. A missing record yields defaults. A
// corrupted record also yields defaults, and the decode error is returned
// together with a usable store.
func Open(backend Backend) (*Settings, error) {
	s := &Settings{
		backend:     backend,
		state:       DefaultState(),
		calibration: DefaultCalibration(),
	}
	var errs []error

	if b, err := backend.Load(stateKey); err == nil {
		if st, err := decodeState(b); err == nil {
			s.state = st
		} else {
			errs = append(errs, fmt.Errorf("state record: %w", err))
		}
	} else if !errors.Is(err, ErrNoRecord) {
		return nil, fmt.Errorf("settings: load state: %w", err)
	}

	if b, err := backend.Load(calibrationKey); err == nil {
		if c, err := decodeCalibration(b); err == nil {
			s.calibration = c
		} else {
			errs = append(errs, fmt.Errorf("calibration record: %w", err))
		}
	} else if !errors.Is(err, ErrNoRecord) {
		return nil, fmt.Errorf("settings: load calibration: %w", err)
	}

	if int(s.state.Engine) >= patch.NumEngines {
		s.state.Engine = DefaultState().Engine
	}
	return s, errors.Join(errs...)
}

func (s *Settings) State() State {
	return s.state
}

func (s *Settings) MutableState() *State {
	return &s.state
}

func (s *Settings) CalibrationData(ch hw.CVChannel) ChannelCalibrationData {
	return s.calibration[ch]
}

func (s *Settings) MutableCalibrationData(ch hw.CVChannel) *ChannelCalibrationData {
	return &s.calibration[ch]
}

// SaveState writes the state record.
func (s *Settings) SaveState() error {
	if err := s.backend.Store(stateKey, encodeState(s.state)); err != nil {
		return fmt.Errorf("settings: save state: %w", err)
	}
	return nil
}

// SavePersistentData writes the calibration record.
func (s *Settings) SavePersistentData() error {
	if err := s.backend.Store(calibrationKey, encodeCalibration(&s.calibration)); err != nil {
		return fmt.Errorf("settings: save calibration: %w", err)
	}
	return nil
}

// Close releases the backend.
func (s *Settings) Close() error {
	return s.backend.Close()
}
