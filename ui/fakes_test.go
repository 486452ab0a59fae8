package ui

import (
	"testing"

	"go-voicectl/hw"
	"go-voicectl/patch"
	"go-voicectl/settings"
)

// rig wires a controller to the reference drivers and an in-memory store.
type rig struct {
	c        *Controller
	sw       *hw.SwitchBank
	leds     *hw.LedBank
	cv       *hw.SimCV
	pots     *hw.SimPots
	line     *hw.SimProbe
	patch    *patch.Patch
	mods     *patch.Modulations
	settings *settings.Settings
	backend  *settings.MemoryBackend
}

type rigOption func(*rig, *Options)

func withLongPress(n int) rigOption {
	return func(_ *rig, o *Options) { o.LongPressTicks = n }
}

func withDisplayTimeout(n int) rigOption {
	return func(_ *rig, o *Options) { o.DisplayTimeoutTicks = n }
}

func withState(fn func(*settings.State)) rigOption {
	return func(r *rig, _ *Options) { fn(r.settings.MutableState()) }
}

func withBootHeld(s hw.Switch) rigOption {
	return func(r *rig, _ *Options) { r.sw.SetRaw(s, true) }
}

func newRig(t *testing.T, opts ...rigOption) *rig {
	t.Helper()
	backend := settings.NewMemoryBackend()
	s, err := settings.Open(backend)
	if err != nil {
		t.Fatalf("settings.Open: %v", err)
	}
	line := hw.NewSimProbe()
	r := &rig{
		sw:       hw.NewSwitchBank(),
		leds:     hw.NewLedBank(nil),
		cv:       hw.NewSimCV(line),
		pots:     hw.NewSimPots(),
		line:     line,
		patch:    &patch.Patch{},
		mods:     &patch.Modulations{},
		settings: s,
		backend:  backend,
	}
	o := DefaultOptions()
	for _, fn := range opts {
		fn(r, &o)
	}
	r.c = New(Hardware{
		Switches: r.sw,
		LEDs:     r.leds,
		CV:       r.cv,
		Pots:     r.pots,
		Probe:    r.line,
	}, r.patch, r.mods, s, o)
	return r
}

func (r *rig) poll(n int) {
	for i := 0; i < n; i++ {
		r.c.Poll()
	}
}

// reads runs the switch task n times without the rest of the tick.
func (r *rig) reads(n int) {
	for i := 0; i < n; i++ {
		r.c.readSwitches()
	}
}

// debounceReads is enough reads for the debouncer to report an edge.
const debounceReads = 8

func (r *rig) press(s hw.Switch) {
	r.sw.SetRaw(s, true)
	r.reads(debounceReads)
}

func (r *rig) release(s hw.Switch) {
	r.sw.SetRaw(s, false)
	r.reads(debounceReads)
}

func (r *rig) tap(s hw.Switch) {
	r.press(s)
	r.release(s)
}

// render draws one LED frame with the renderer counter set so that the
// frame is drawn at counter+1.
func (r *rig) render(counter uint32) hw.Frame {
	r.c.pwmCounter = counter - 1
	r.c.updateLEDs()
	return r.leds.Frame()
}
