package hw

import "testing"

func debounceN(s *SwitchBank, n int) {
	for i := 0; i < n; i++ {
		s.Debounce()
	}
}

func TestSwitchBankEdges(t *testing.T) {
	s := NewSwitchBank()
	s.SetRaw(SwitchRow1, true)

	for i := 0; i < 6; i++ {
		s.Debounce()
		if s.JustPressed(SwitchRow1) || s.Pressed(SwitchRow1) {
			t.Fatalf("pressed after %d samples, want debounce to hold off", i+1)
		}
	}
	s.Debounce()
	if !s.JustPressed(SwitchRow1) || !s.Pressed(SwitchRow1) {
		t.Fatalf("expected just-pressed after 7 samples")
	}
	s.Debounce()
	if s.JustPressed(SwitchRow1) {
		t.Fatalf("just-pressed must last one read")
	}
	if !s.Pressed(SwitchRow1) {
		t.Fatalf("expected switch to stay pressed")
	}
	if s.Pressed(SwitchRow2) {
		t.Fatalf("row 2 never pressed")
	}

	s.SetRaw(SwitchRow1, false)
	debounceN(s, 6)
	if s.Released(SwitchRow1) {
		t.Fatalf("released too early")
	}
	s.Debounce()
	if !s.Released(SwitchRow1) || s.Pressed(SwitchRow1) {
		t.Fatalf("expected release edge after 7 samples")
	}
}

func TestSwitchBankIgnoresBounce(t *testing.T) {
	s := NewSwitchBank()
	for i := 0; i < 20; i++ {
		s.SetRaw(SwitchRow2, i%2 == 0)
		s.Debounce()
		if s.JustPressed(SwitchRow2) {
			t.Fatalf("bouncing line produced a press at sample %d", i)
		}
	}
	if s.PressedImmediate(SwitchRow2) {
		t.Fatalf("immediate read should follow the raw line (last sample released)")
	}
}

func TestLedBankMaskAndWrite(t *testing.T) {
	var got Frame
	l := NewLedBank(func(f Frame) { got = f })
	l.Set(2, ColorGreen)
	l.Mask(2, ColorOff)
	l.Mask(5, ColorRed)
	l.Set(99, ColorRed)

	if l.Frame()[2] != ColorOff {
		t.Fatalf("nothing should be visible before Write")
	}
	l.Write()
	if got[2] != ColorGreen {
		t.Fatalf("off mask must not clear LED 2, got %s", got[2])
	}
	if got[5] != ColorRed {
		t.Fatalf("mask should light LED 5, got %s", got[5])
	}
	if l.Writes() != 1 {
		t.Fatalf("writes=%d want 1", l.Writes())
	}
	l.Clear()
	l.Write()
	if l.Frame() != (Frame{}) {
		t.Fatalf("expected cleared frame, got %v", l.Frame())
	}
}

func TestSimCVLatchesOnConvert(t *testing.T) {
	a := NewSimCV(nil)
	a.Set(CVVOct, 0.5)
	if a.Value(CVVOct) != 0 {
		t.Fatalf("staged value visible before Convert")
	}
	a.Convert()
	if got := a.FloatValue(CVVOct); got < 0.49 || got > 0.51 {
		t.Fatalf("float value=%f want ~0.5", got)
	}
	a.Set(CVVOct, 4)
	a.Convert()
	if a.Value(CVVOct) != 32767 {
		t.Fatalf("expected clamp to full scale, got %d", a.Value(CVVOct))
	}
}

func TestSimCVCarriesProbeOnConnectedChannels(t *testing.T) {
	p := NewSimProbe()
	p.Init()
	a := NewSimCV(p)
	a.Connect(CVFM, true)

	p.Write(true)
	a.Convert()
	if a.Value(CVFM) != -probeSwing {
		t.Fatalf("connected channel should follow the probe, got %d", a.Value(CVFM))
	}
	if a.Value(CVTimbre) != 0 {
		t.Fatalf("unconnected channel should rest, got %d", a.Value(CVTimbre))
	}

	p.Disable()
	p.Write(true)
	a.Convert()
	if a.Value(CVFM) != 0 {
		t.Fatalf("disabled probe must not drive the bus, got %d", a.Value(CVFM))
	}
}

func TestSimPotsStartCentred(t *testing.T) {
	p := NewSimPots()
	if got := p.FloatValue(PotTimbre); got < 0.49 || got > 0.51 {
		t.Fatalf("pot should start centred, got %f", got)
	}
	p.Set(PotTimbre, 1)
	p.Convert()
	if p.Value(PotTimbre) != 65535 {
		t.Fatalf("value=%d want 65535", p.Value(PotTimbre))
	}
}
