package ui

import (
	"testing"

	"go-voicectl/hw"
)

func TestFactoryReads(t *testing.T) {
	r := newRig(t)
	r.pots.Set(hw.PotMorph, 1)
	r.pots.Convert()
	r.cv.Set(hw.CVLevel, -1)
	r.cv.Convert()
	r.mods.Patched[1] = true
	r.sw.SetRaw(hw.SwitchRow2, true)
	r.reads(debounceReads)

	cases := []struct {
		op, arg int
		want    byte
	}{
		{FactoryReadPot, int(hw.PotHarmonics), 128},
		{FactoryReadPot, int(hw.PotMorph), 255},
		{FactoryReadPot, 31, 0},
		{FactoryReadCV, int(hw.CVEngine), 128},
		{FactoryReadCV, int(hw.CVLevel), 0},
		{FactoryReadNormalization, 0, 255},
		{FactoryReadNormalization, 1, 0},
		{FactoryReadGate, int(hw.SwitchRow1), 0},
		{FactoryReadGate, int(hw.SwitchRow2), 1},
	}
	for _, tc := range cases {
		if got := r.c.HandleFactoryRequest(FactoryRequest(tc.op, tc.arg)); got != tc.want {
			t.Errorf("op %d arg %d = %d, want %d", tc.op, tc.arg, got, tc.want)
		}
	}
}

func TestFactoryTestSignal(t *testing.T) {
	r := newRig(t)
	r.c.HandleFactoryRequest(FactoryRequest(FactoryTestSignal, 1))
	if r.c.Mode() != ModeTest {
		t.Fatalf("mode = %s, want Test", r.c.Mode())
	}
	r.c.HandleFactoryRequest(FactoryRequest(FactoryTestSignal, 0))
	if r.c.Mode() != ModeNormal {
		t.Fatalf("mode = %s, want Normal", r.c.Mode())
	}

	r.c.HandleFactoryRequest(FactoryRequest(FactoryTestSignal, 1))
	r.tap(hw.SwitchRow1)
	if r.c.Mode() != ModeNormal {
		t.Fatalf("press did not leave Test mode")
	}
}

func TestFactoryRequestEncoding(t *testing.T) {
	if got := FactoryRequest(FactoryCalibrate, 2); got != 0xa2 {
		t.Fatalf("request = %#x, want 0xa2", got)
	}
}
