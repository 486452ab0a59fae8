package calibration

import (
	"errors"
	"math"
	"testing"

	"go-voicectl/hw"
	"go-voicectl/settings"
)

type fakeProbe struct {
	disabled, resets int
}

func (p *fakeProbe) Disable() { p.disabled++ }
func (p *fakeProbe) Reset()   { p.resets++ }

func setup(t *testing.T) (*Engine, *settings.Settings, *settings.MemoryBackend, *hw.SimCV, *fakeProbe) {
	t.Helper()
	backend := settings.NewMemoryBackend()
	s, err := settings.Open(backend)
	if err != nil {
		t.Fatalf("settings.Open: %v", err)
	}
	cv := hw.NewSimCV(nil)
	p := &fakeProbe{}
	return New(s, cv, p), s, backend, cv, p
}

func near(a, b, eps float32) bool {
	return math.Abs(float64(a-b)) < float64(eps)
}

func TestValidPairCommits(t *testing.T) {
	e, s, backend, _, p := setup(t)
	e.Start()
	if p.disabled != 1 || !e.Running() {
		t.Fatalf("Start did not disable probe")
	}
	e.CalibrateC1(0.228)
	r, err := e.CalibrateC3(-0.171)
	if err != nil {
		t.Fatalf("CalibrateC3: %v", err)
	}
	want := float32(24 / -0.399)
	if !near(r.Scale, want, 0.01) {
		t.Fatalf("scale = %v, want %v", r.Scale, want)
	}
	if !near(r.Offset, 12-want*0.228, 0.01) {
		t.Fatalf("offset = %v", r.Offset)
	}
	got := s.CalibrationData(hw.CVVOct)
	if got.Scale != r.Scale || got.Offset != r.Offset {
		t.Fatalf("store holds %+v, result %+v", got, r)
	}
	if backend.Stores != 1 {
		t.Fatalf("stores = %d, want 1", backend.Stores)
	}
	if p.resets != 1 || e.Running() {
		t.Fatalf("probe not reset after C3")
	}
}

func TestZeroDeltaRejected(t *testing.T) {
	e, s, backend, _, p := setup(t)
	before := s.CalibrationData(hw.CVVOct)
	e.Start()
	e.CalibrateC1(0.1)
	_, err := e.CalibrateC3(0.1)
	if !errors.Is(err, ErrDeltaOutOfRange) {
		t.Fatalf("err = %v, want ErrDeltaOutOfRange", err)
	}
	if s.CalibrationData(hw.CVVOct) != before {
		t.Fatalf("v/oct calibration changed on rejection")
	}
	if backend.Stores != 0 {
		t.Fatalf("rejected calibration was persisted")
	}
	if p.resets != 1 {
		t.Fatalf("probe not reset after rejection")
	}
}

func TestDeltaBounds(t *testing.T) {
	cases := []struct {
		c1, c3 float32
		ok     bool
	}{
		{0.5, -0.05, true},
		{0.0, -0.6, false},
		{0.0, -0.2, false},
		{0.0, 0.4, false},
		{0.3, 0.0, true},
	}
	for _, tc := range cases {
		e, _, _, _, _ := setup(t)
		e.Start()
		e.CalibrateC1(tc.c1)
		_, err := e.CalibrateC3(tc.c3)
		if (err == nil) != tc.ok {
			t.Errorf("C1=%v C3=%v: err = %v, want ok=%v", tc.c1, tc.c3, err, tc.ok)
		}
	}
}

func TestC1ZeroesOtherOffsets(t *testing.T) {
	e, s, _, cv, _ := setup(t)
	cv.Set(hw.CVTimbre, 0.25)
	cv.Set(hw.CVVOct, 0.5)
	cv.Convert()
	vOct := s.CalibrationData(hw.CVVOct)

	e.Start()
	e.CalibrateC1(0.2)

	c := s.CalibrationData(hw.CVTimbre)
	if got := c.Transform(cv.FloatValue(hw.CVTimbre)); !near(got, 0, 1e-5) {
		t.Fatalf("timbre reads %v after offset capture, want 0", got)
	}
	if s.CalibrationData(hw.CVVOct) != vOct {
		t.Fatalf("C1 touched the v/oct channel")
	}
}
