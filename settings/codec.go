package settings

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/zeebo/xxh3"

	"go-voicectl/hw"
)

const (
	stateRecordVersion       = 1
	calibrationRecordVersion = 1

	checksumSize          = 8
	stateRecordSize       = 1 + 7 + 1
	calibrationEntrySize  = 4 + 4 + 2
	calibrationRecordSize = 1 + int(hw.NumCVs)*calibrationEntrySize
)

const (
	stateFlagColorBlind = 1 << 0
	stateFlagAltNav     = 1 << 1
)

var (
	// ErrChecksum marks a record whose trailer does not match its payload.
	ErrChecksum = errors.New("settings: record checksum mismatch")
	// ErrRecordFormat marks a record with an unexpected size or version.
	ErrRecordFormat = errors.New("settings: invalid record encoding")
)

func sealRecord(payload []byte) []byte {
	out := make([]byte, len(payload)+checksumSize)
	copy(out, payload)
	binary.LittleEndian.PutUint64(out[len(payload):], xxh3.Hash(payload))
	return out
}

func openRecord(b []byte, size int, version byte) ([]byte, error) {
	if len(b) != size+checksumSize {
		return nil, fmt.Errorf("%w: %d bytes, want %d", ErrRecordFormat, len(b), size+checksumSize)
	}
	payload := b[:size]
	if binary.LittleEndian.Uint64(b[size:]) != xxh3.Hash(payload) {
		return nil, ErrChecksum
	}
	if payload[0] != version {
		return nil, fmt.Errorf("%w: version %d", ErrRecordFormat, payload[0])
	}
	return payload, nil
}

func encodeState(s State) []byte {
	p := make([]byte, stateRecordSize)
	p[0] = stateRecordVersion
	p[1] = s.Engine
	p[2] = s.LPGColour
	p[3] = s.Decay
	p[4] = s.Octave
	p[5] = s.FineTune
	p[6] = s.AuxMode
	p[7] = s.Crossfade
	var flags byte
	if s.ColorBlind {
		flags |= stateFlagColorBlind
	}
	if s.AltNavigation {
		flags |= stateFlagAltNav
	}
	p[8] = flags
	return sealRecord(p)
}

func decodeState(b []byte) (State, error) {
	p, err := openRecord(b, stateRecordSize, stateRecordVersion)
	if err != nil {
		return State{}, err
	}
	return State{
		Engine:        p[1],
		LPGColour:     p[2],
		Decay:         p[3],
		Octave:        p[4],
		FineTune:      p[5],
		AuxMode:       p[6],
		Crossfade:     p[7],
		ColorBlind:    p[8]&stateFlagColorBlind != 0,
		AltNavigation: p[8]&stateFlagAltNav != 0,
	}, nil
}

func encodeCalibration(c *[hw.NumCVs]ChannelCalibrationData) []byte {
	p := make([]byte, calibrationRecordSize)
	p[0] = calibrationRecordVersion
	off := 1
	for _, ch := range c {
		binary.LittleEndian.PutUint32(p[off:], math.Float32bits(ch.Scale))
		binary.LittleEndian.PutUint32(p[off+4:], math.Float32bits(ch.Offset))
		binary.LittleEndian.PutUint16(p[off+8:], uint16(ch.NormalizationDetectionThreshold))
		off += calibrationEntrySize
	}
	return sealRecord(p)
}

func decodeCalibration(b []byte) ([hw.NumCVs]ChannelCalibrationData, error) {
	var c [hw.NumCVs]ChannelCalibrationData
	p, err := openRecord(b, calibrationRecordSize, calibrationRecordVersion)
	if err != nil {
		return c, err
	}
	off := 1
	for i := range c {
		c[i].Scale = math.Float32frombits(binary.LittleEndian.Uint32(p[off:]))
		c[i].Offset = math.Float32frombits(binary.LittleEndian.Uint32(p[off+4:]))
		c[i].NormalizationDetectionThreshold = int16(binary.LittleEndian.Uint16(p[off+8:]))
		off += calibrationEntrySize
	}
	return c, nil
}
