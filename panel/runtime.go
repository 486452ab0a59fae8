// Package panel runs the front panel controller against simulated hardware:
// a tick loop at the control rate, an LED loop that forwards frames to MIDI
// controllers, and input methods for the TUI and MIDI controllers.
package panel

import (
	"context"
	"math"
	"sync"
	"time"

	"go-voicectl/debug"
	"go-voicectl/hw"
	"go-voicectl/midi"
	"go-voicectl/patch"
	"go-voicectl/pot"
	"go-voicectl/settings"
	"go-voicectl/theme"
	"go-voicectl/ui"
)

// maxCatchUp bounds how many ticks one wakeup may run after a stall.
const maxCatchUp = 50

// Options configure the runtime.
type Options struct {
	TickRateHz int
	LEDFPS     int
	UI         ui.Options
	// HeldAtBoot emulates switches held while the module powers up.
	HeldAtBoot [hw.NumSwitches]bool
}

// LEDView is what an LED looked like over the last LED frame: its dominant
// colour and the fraction of renders it was lit.
type LEDView struct {
	Color hw.Color
	Duty  float64
}

// Snapshot is a consistent copy of the runtime state.
type Snapshot struct {
	Mode          ui.Mode
	LEDs          [hw.NumLEDs]LEDView
	Patch         patch.Patch
	Modulations   patch.Modulations
	Ticks         uint64
	Uptime        time.Duration
	Switches      [hw.NumSwitches]bool
	Pots          [hw.NumPots]float32
	PotStates     [hw.NumPots]pot.State
	CVs           [hw.NumCVs]float32
	Cables        [hw.NumCVs]bool
	Octave        float32
	FineTune      float32
	AltNavigation bool
	ColorBlind    bool
}

// Runtime owns the simulated drivers and the controller. Every access to
// them goes through mu, so the controller stays single-threaded.
type Runtime struct {
	mu sync.Mutex

	switches *hw.SwitchBank
	leds     *hw.LedBank
	cv       *hw.SimCV
	pots     *hw.SimPots
	probe    *hw.SimProbe
	rawDown  [hw.NumSwitches]bool

	patch    patch.Patch
	mods     patch.Modulations
	settings *settings.Settings
	ctrl     *ui.Controller
	opts     Options

	ledCounts [hw.NumLEDs][4]int
	ledFrames int
	view      [hw.NumLEDs]LEDView

	ctrlMu      sync.Mutex
	controllers map[string]midi.Controller
	prevLEDs    map[string][hw.NumLEDs][3]uint8 // per controller, for diffing
	output      *midi.EngineOutput
	theme       *theme.Theme

	started time.Time

	// Notify TUI of updates
	UpdateChan chan struct{}
}

// New builds the runtime around a settings store.
func New(store *settings.Settings, th *theme.Theme, opts Options) *Runtime {
	if opts.TickRateHz <= 0 {
		opts.TickRateHz = 1000
	}
	if opts.LEDFPS <= 0 {
		opts.LEDFPS = 30
	}
	if th == nil {
		th = theme.New(theme.DefaultPalette())
	}

	r := &Runtime{
		switches:    hw.NewSwitchBank(),
		pots:        hw.NewSimPots(),
		probe:       hw.NewSimProbe(),
		settings:    store,
		opts:        opts,
		controllers: make(map[string]midi.Controller),
		prevLEDs:    make(map[string][hw.NumLEDs][3]uint8),
		theme:       th,
		started:     time.Now(),
		UpdateChan:  make(chan struct{}, 1),
	}
	r.cv = hw.NewSimCV(r.probe)
	r.leds = hw.NewLedBank(r.accumulate)

	for i, held := range opts.HeldAtBoot {
		r.switches.SetRaw(hw.Switch(i), held)
		r.rawDown[i] = held
	}

	r.ctrl = ui.New(ui.Hardware{
		Switches: r.switches,
		LEDs:     r.leds,
		CV:       r.cv,
		Pots:     r.pots,
		Probe:    r.probe,
	}, &r.patch, &r.mods, store, opts.UI)

	// V/OCT rests at 0 semitones
	r.setNote(60)
	return r
}

// accumulate runs inside a tick, with mu held.
func (r *Runtime) accumulate(f hw.Frame) {
	for i, c := range f {
		r.ledCounts[i][c]++
	}
	r.ledFrames++
}

// SetEngineOutput forwards engine parameters on every LED frame.
func (r *Runtime) SetEngineOutput(o *midi.EngineOutput) {
	r.ctrlMu.Lock()
	r.output = o
	r.ctrlMu.Unlock()
}

// Run ticks the controller and flushes LEDs until ctx is done.
func (r *Runtime) Run(ctx context.Context) {
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		r.tickLoop(ctx)
	}()
	go func() {
		defer wg.Done()
		r.ledLoop(ctx)
	}()
	wg.Wait()

	r.ctrlMu.Lock()
	if r.output != nil {
		r.output.Close()
	}
	r.ctrlMu.Unlock()
}

// tickLoop runs Poll at the tick rate, catching up after short stalls.
func (r *Runtime) tickLoop(ctx context.Context) {
	period := time.Second / time.Duration(r.opts.TickRateHz)
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	start := time.Now()
	var done uint64
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			due := uint64(now.Sub(start) / period)
			n := due - done
			if due < done {
				n = 0
			}
			if n > maxCatchUp {
				debug.LogEvery(10, "tick", "dropped %d ticks", n-maxCatchUp)
				done += n - maxCatchUp
				n = maxCatchUp
			}
			r.mu.Lock()
			for i := uint64(0); i < n; i++ {
				r.poll()
			}
			r.mu.Unlock()
			done += n
		}
	}
}

// ledLoop runs at fixed FPS and flushes LED updates
func (r *Runtime) ledLoop(ctx context.Context) {
	ticker := time.NewTicker(time.Second / time.Duration(r.opts.LEDFPS))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Flush()
		}
	}
}

// Tick runs n control-rate ticks immediately.
func (r *Runtime) Tick(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := 0; i < n; i++ {
		r.poll()
	}
}

// poll runs one tick and reports the CV-modulated engine back to the
// controller. The engine CV moves one engine per 1/8 of full scale.
func (r *Runtime) poll() {
	r.ctrl.Poll()
	e := r.patch.Engine + int(math.Round(float64(r.mods.CV[hw.CVEngine]*patch.EnginesPerBank)))
	if e < 0 {
		e = 0
	}
	if e >= patch.NumEngines {
		e = patch.NumEngines - 1
	}
	r.ctrl.SetActiveEngine(e)
}

// Flush folds the renders since the last flush into the LED view, sends
// changed LEDs to the controllers, forwards engine parameters, and
// notifies listeners.
func (r *Runtime) Flush() {
	r.mu.Lock()
	if r.ledFrames > 0 {
		for i := range r.view {
			r.view[i] = dominant(r.ledCounts[i], r.ledFrames)
			r.ledCounts[i] = [4]int{}
		}
		r.ledFrames = 0
	}
	view := r.view
	params := midi.EngineParams{
		Note:      r.patch.Note + r.mods.Note(),
		Harmonics: r.patch.Harmonics,
		Timbre:    r.patch.Timbre,
		Morph:     r.patch.Morph,
	}
	r.mu.Unlock()

	var frame [hw.NumLEDs][3]uint8
	for i, v := range view {
		frame[i] = r.theme.LEDRGB(v.Color, v.Duty)
	}

	r.ctrlMu.Lock()
	for id, c := range r.controllers {
		prev, seen := r.prevLEDs[id]
		var updates []midi.LEDUpdate
		for i, rgb := range frame {
			if !seen || prev[i] != rgb {
				updates = append(updates, ledUpdate(i, rgb))
			}
		}
		if len(updates) > 0 {
			if err := c.SetLEDBatch(updates); err != nil {
				debug.LogEvery(30, "led", "%s: %v", id, err)
			}
		}
		r.prevLEDs[id] = frame
	}
	if r.output != nil {
		if err := r.output.Update(params); err != nil {
			debug.LogEvery(30, "midi", "engine output: %v", err)
		}
	}
	r.ctrlMu.Unlock()

	select {
	case r.UpdateChan <- struct{}{}:
	default:
	}
}

// dominant picks the most rendered lit colour and its duty.
func dominant(counts [4]int, frames int) LEDView {
	best := hw.ColorOff
	for c := hw.ColorGreen; c <= hw.ColorRed; c++ {
		if counts[c] > 0 && (best == hw.ColorOff || counts[c] > counts[best]) {
			best = c
		}
	}
	if best == hw.ColorOff {
		return LEDView{}
	}
	return LEDView{Color: best, Duty: float64(counts[best]) / float64(frames)}
}

// Snapshot returns a copy of the runtime state.
func (r *Runtime) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := Snapshot{
		Mode:          r.ctrl.Mode(),
		LEDs:          r.view,
		Patch:         r.patch,
		Modulations:   r.mods,
		Ticks:         r.ctrl.Ticks(),
		Uptime:        time.Since(r.started),
		Switches:      r.rawDown,
		Octave:        r.ctrl.Octave(),
		FineTune:      r.ctrl.FineTune(),
		AltNavigation: r.ctrl.AltNavigation(),
		ColorBlind:    r.settings.State().ColorBlind,
	}
	for i := hw.PotChannel(0); i < hw.NumPots; i++ {
		s.Pots[i] = r.pots.Staged(i)
		s.PotStates[i] = r.ctrl.Pot(i).State()
	}
	for i := hw.CVChannel(0); i < hw.NumCVs; i++ {
		s.CVs[i] = r.cv.Staged(i)
		s.Cables[i] = r.cv.Connected(i)
	}
	return s
}
