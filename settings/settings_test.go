package settings

import (
	"errors"
	"math"
	"testing"

	"go-voicectl/hw"
)

func TestScale8RoundTrip(t *testing.T) {
	for i := 0; i <= 100; i++ {
		v := float32(i) / 100
		got := Unscale8(Scale8(v))
		if math.Abs(float64(got-v)) > 1.0/256+1e-6 {
			t.Fatalf("Unscale8(Scale8(%v)) = %v", v, got)
		}
		if Scale8(got) != Scale8(v) {
			t.Fatalf("Scale8 not idempotent at %v", v)
		}
	}
	if Scale8(1) != 255 {
		t.Fatalf("Scale8(1) = %d, want 255", Scale8(1))
	}
	if Scale8(-0.5) != 0 {
		t.Fatalf("Scale8(-0.5) = %d, want 0", Scale8(-0.5))
	}
}

func TestOpenEmptyUsesDefaults(t *testing.T) {
	s, err := Open(NewMemoryBackend())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if s.State() != DefaultState() {
		t.Fatalf("state = %+v, want defaults", s.State())
	}
	if s.CalibrationData(hw.CVVOct) != DefaultCalibration()[hw.CVVOct] {
		t.Fatalf("calibration not defaulted")
	}
}

func TestStateRoundTrip(t *testing.T) {
	b := NewMemoryBackend()
	s, _ := Open(b)
	st := s.MutableState()
	st.Engine = 17
	st.Decay = Scale8(0.25)
	st.ColorBlind = true
	st.AltNavigation = true
	if err := s.SaveState(); err != nil {
		t.Fatalf("SaveState: %v", err)
	}

	r, err := Open(b)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if r.State() != s.State() {
		t.Fatalf("state = %+v, want %+v", r.State(), s.State())
	}
}

func TestCalibrationIndependentOfState(t *testing.T) {
	b := NewMemoryBackend()
	s, _ := Open(b)
	c := s.MutableCalibrationData(hw.CVVOct)
	c.Scale = -60.15
	c.Offset = 25.71
	s.MutableCalibrationData(hw.CVTimbre).NormalizationDetectionThreshold = -3000
	if err := s.SavePersistentData(); err != nil {
		t.Fatalf("SavePersistentData: %v", err)
	}
	if _, err := b.Load(stateKey); !errors.Is(err, ErrNoRecord) {
		t.Fatalf("saving calibration wrote state record: %v", err)
	}

	r, _ := Open(b)
	if got := r.CalibrationData(hw.CVVOct); got.Scale != -60.15 || got.Offset != 25.71 {
		t.Fatalf("v/oct calibration = %+v", got)
	}
	if got := r.CalibrationData(hw.CVTimbre).NormalizationDetectionThreshold; got != -3000 {
		t.Fatalf("threshold = %d", got)
	}
}

func TestCorruptedRecordFallsBack(t *testing.T) {
	b := NewMemoryBackend()
	s, _ := Open(b)
	s.MutableState().Engine = 3
	s.SaveState()

	rec, _ := b.Load(stateKey)
	rec[1] ^= 0xff
	b.Store(stateKey, rec)

	r, err := Open(b)
	if !errors.Is(err, ErrChecksum) {
		t.Fatalf("err = %v, want ErrChecksum", err)
	}
	if r == nil || r.State() != DefaultState() {
		t.Fatalf("corrupted state not replaced by defaults")
	}
}

func TestTruncatedRecord(t *testing.T) {
	b := NewMemoryBackend()
	b.Store(calibrationKey, []byte{1, 2, 3})
	_, err := Open(b)
	if !errors.Is(err, ErrRecordFormat) {
		t.Fatalf("err = %v, want ErrRecordFormat", err)
	}
}

func TestFileBackend(t *testing.T) {
	b, err := NewFileBackend(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileBackend: %v", err)
	}
	if _, err := b.Load("missing"); !errors.Is(err, ErrNoRecord) {
		t.Fatalf("Load missing = %v", err)
	}
	if err := b.Store("k", []byte("one")); err != nil {
		t.Fatalf("Store: %v", err)
	}
	if err := b.Store("k", []byte("two")); err != nil {
		t.Fatalf("Store: %v", err)
	}
	got, err := b.Load("k")
	if err != nil || string(got) != "two" {
		t.Fatalf("Load = %q, %v", got, err)
	}
}

func TestPebbleBackend(t *testing.T) {
	dir := t.TempDir()
	b, err := OpenPebbleBackend(dir)
	if err != nil {
		t.Fatalf("OpenPebbleBackend: %v", err)
	}
	s, err := Open(b)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	s.MutableState().Engine = 12
	if err := s.SaveState(); err != nil {
		t.Fatalf("SaveState: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	b, err = OpenPebbleBackend(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer b.Close()
	r, err := Open(b)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if r.State().Engine != 12 {
		t.Fatalf("engine = %d, want 12", r.State().Engine)
	}
}

func TestOpenBackendUnknown(t *testing.T) {
	if _, err := OpenBackend("floppy", t.TempDir()); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}
