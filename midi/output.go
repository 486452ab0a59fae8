package midi

import (
	"fmt"
	"math"

	gomidi "gitlab.com/gomidi/midi/v2"
)

// Engine output CCs
const (
	CCHarmonics uint8 = 20
	CCTimbre    uint8 = 21
	CCMorph     uint8 = 22
)

// pitchBendRange is the bend range the receiving synth is expected to use, in
// semitones.
const pitchBendRange = 2.0

// EngineParams is what EngineOutput sends.
type EngineParams struct {
	Note      float32 // semitones, 60 = C4
	Harmonics float32 // 0..1
	Timbre    float32
	Morph     float32
}

// EngineOutput forwards engine parameters to a MIDI synth: the nearest key
// as a held note, the remainder as pitch bend, and the macro parameters as
// CCs. Only changes are sent.
type EngineOutput struct {
	send    func(gomidi.Message) error
	channel uint8

	key      int // held key, -1 when none
	bend     int16
	ccs      [3]int
	hasState bool
}

// NewEngineOutput wraps a send function.
func NewEngineOutput(send func(gomidi.Message) error, channel uint8) *EngineOutput {
	return &EngineOutput{send: send, channel: channel & 0x0f, key: -1}
}

// OpenEngineOutput opens the named output port.
func OpenEngineOutput(portName string, channel uint8) (*EngineOutput, error) {
	out, err := gomidi.FindOutPort(portName)
	if err != nil {
		return nil, fmt.Errorf("find output %q: %w", portName, err)
	}
	send, err := gomidi.SendTo(out)
	if err != nil {
		return nil, fmt.Errorf("open output %q: %w", portName, err)
	}
	return NewEngineOutput(send, channel), nil
}

// Update sends whatever changed since the last call.
func (o *EngineOutput) Update(p EngineParams) error {
	key, bend := splitNote(p.Note)

	if key != o.key {
		if o.key >= 0 {
			if err := o.send(gomidi.NoteOff(o.channel, uint8(o.key))); err != nil {
				return err
			}
		}
		if err := o.send(gomidi.NoteOn(o.channel, uint8(key), 100)); err != nil {
			return err
		}
		o.key = key
	}

	if bend != o.bend || !o.hasState {
		if err := o.send(gomidi.Pitchbend(o.channel, bend)); err != nil {
			return err
		}
		o.bend = bend
	}

	for i, v := range [3]float32{p.Harmonics, p.Timbre, p.Morph} {
		cc := int(math.Round(float64(clamp01(v)) * 127))
		if cc == o.ccs[i] && o.hasState {
			continue
		}
		if err := o.send(gomidi.ControlChange(o.channel, CCHarmonics+uint8(i), uint8(cc))); err != nil {
			return err
		}
		o.ccs[i] = cc
	}
	o.hasState = true
	return nil
}

// Close releases the held note.
func (o *EngineOutput) Close() error {
	if o.key < 0 {
		return nil
	}
	err := o.send(gomidi.NoteOff(o.channel, uint8(o.key)))
	o.key = -1
	return err
}

// splitNote returns the nearest MIDI key and the 14-bit bend for the rest.
func splitNote(note float32) (int, int16) {
	key := int(math.Round(float64(note)))
	if key < 0 {
		key = 0
	}
	if key > 127 {
		key = 127
	}
	frac := float64(note) - float64(key)
	b := math.Round(frac / pitchBendRange * 8192)
	if b > 8191 {
		b = 8191
	}
	if b < -8192 {
		b = -8192
	}
	return key, int16(b)
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
