package probe

import (
	"testing"

	"go-voicectl/hw"
	"go-voicectl/patch"
	"go-voicectl/settings"
)

type fixedThresholds struct{}

func (fixedThresholds) CalibrationData(hw.CVChannel) settings.ChannelCalibrationData {
	return settings.ChannelCalibrationData{NormalizationDetectionThreshold: -4096}
}

// run steps the probe for one full sequence, converting after each step the
// way the controller does.
func run(p *Probe, cv *hw.SimCV, m *patch.Modulations, n int) {
	for i := 0; i < n; i++ {
		p.Step(m)
		cv.Convert()
	}
}

func TestConnectedChannelsTrackProbe(t *testing.T) {
	line := hw.NewSimProbe()
	cv := hw.NewSimCV(line)
	for _, ch := range patch.NormalizedChannels {
		cv.Connect(ch, true)
	}
	p := New(line, cv, fixedThresholds{}, DefaultSequenceLength, DefaultMismatchThreshold)
	var m patch.Modulations
	run(p, cv, &m, DefaultSequenceLength)
	for i, patched := range m.Patched {
		if !patched {
			t.Fatalf("channel %v not patched", patch.NormalizedChannels[i])
		}
	}
	if p.Sequences() != 1 {
		t.Fatalf("sequences = %d, want 1", p.Sequences())
	}
}

func TestFloatingChannelsAreNormalized(t *testing.T) {
	line := hw.NewSimProbe()
	cv := hw.NewSimCV(line)
	cv.Connect(hw.CVTimbre, true)
	p := New(line, cv, fixedThresholds{}, DefaultSequenceLength, DefaultMismatchThreshold)
	var m patch.Modulations
	run(p, cv, &m, DefaultSequenceLength)
	if !m.IsPatched(hw.CVTimbre) {
		t.Fatalf("timbre should be patched")
	}
	if m.IsPatched(hw.CVFM) || m.IsPatched(hw.CVLevel) {
		t.Fatalf("floating inputs reported patched: %v", m.Patched)
	}
}

func TestAlwaysMismatchedIsNotPatched(t *testing.T) {
	line := hw.NewSimProbe()
	cv := hw.NewSimCV(line)
	p := New(line, cv, fixedThresholds{}, 8, 2)
	var m patch.Modulations
	m.Patched[0] = true
	for i := 0; i < 8; i++ {
		// stage the inverse of the bit the probe will compare against
		if p.Expected() {
			cv.Set(hw.CVFM, 0)
		} else {
			cv.Set(hw.CVFM, -1)
		}
		cv.Convert()
		p.Step(&m)
	}
	if m.Patched[0] {
		t.Fatalf("always-mismatched channel reported patched")
	}
}

func TestFlagsOnlyChangeAtSequenceEnd(t *testing.T) {
	line := hw.NewSimProbe()
	cv := hw.NewSimCV(line)
	p := New(line, cv, fixedThresholds{}, DefaultSequenceLength, DefaultMismatchThreshold)
	m := patch.Modulations{Patched: [patch.NumNormalized]bool{true, true, true, true, true}}
	run(p, cv, &m, DefaultSequenceLength-1)
	for _, patched := range m.Patched {
		if !patched {
			t.Fatalf("flags rewritten before the sequence ended")
		}
	}
}

func TestDisableAndReset(t *testing.T) {
	line := hw.NewSimProbe()
	cv := hw.NewSimCV(line)
	p := New(line, cv, fixedThresholds{}, 0, 0)
	if !line.Enabled() {
		t.Fatalf("New did not init the line")
	}
	p.Disable()
	if line.Enabled() {
		t.Fatalf("Disable left the line driven")
	}
	p.Reset()
	if !line.Enabled() || line.Bit() != p.Expected() {
		t.Fatalf("Reset did not re-drive the line")
	}
}
