// Package ui is the front panel controller: it owns the mode state machine,
// interprets switch gestures, renders the LEDs, and runs calibration and the
// normalization probe in between pot and CV processing.
package ui

import (
	"go-voicectl/calibration"
	"go-voicectl/debug"
	"go-voicectl/hw"
	"go-voicectl/notemap"
	"go-voicectl/patch"
	"go-voicectl/pot"
	"go-voicectl/probe"
	"go-voicectl/settings"
)

const (
	pitchFilterCoefficient       = 0.7
	calibrationFilterCoefficient = 0.1
	numTasks                     = 4
)

// Settings is the store the controller persists to. *settings.Settings
// satisfies it.
type Settings interface {
	State() settings.State
	MutableState() *settings.State
	CalibrationData(ch hw.CVChannel) settings.ChannelCalibrationData
	MutableCalibrationData(ch hw.CVChannel) *settings.ChannelCalibrationData
	SaveState() error
	SavePersistentData() error
}

// Hardware bundles the drivers the controller owns.
type Hardware struct {
	Switches hw.Switches
	LEDs     hw.LEDs
	CV       hw.CVADC
	Pots     hw.PotADC
	Probe    hw.ProbeLine
}

// Options are the tunable gesture and probe constants.
type Options struct {
	LongPressTicks         int
	DisplayTimeoutTicks    int
	ProbeSequenceLength    int
	ProbeMismatchThreshold int
}

func DefaultOptions() Options {
	return Options{
		LongPressTicks:         2000,
		DisplayTimeoutTicks:    3000,
		ProbeSequenceLength:    probe.DefaultSequenceLength,
		ProbeMismatchThreshold: probe.DefaultMismatchThreshold,
	}
}

// Controller is the front panel. It is single-threaded: Poll and every
// other method must be called from the same goroutine.
type Controller struct {
	hw       Hardware
	patch    *patch.Patch
	mods     *patch.Modulations
	settings Settings
	opts     Options

	pots  [hw.NumPots]*pot.Controller
	notes *notemap.Mapper
	probe *probe.Probe
	calib *calibration.Engine

	mode      Mode
	modeTicks int
	uiTask    int

	pwmCounter    uint32
	pressTime     [hw.NumSwitches]int
	ignoreRelease [hw.NumSwitches]bool
	heldAtBoot    [hw.NumSwitches]bool

	transposition float32
	octave        float32
	fineTune      float32
	altNavigation bool

	activeEngine       int
	pitchLP            float32
	pitchLPCalibration float32
	transferProgress   float32

	ticks uint64
}

// New binds the controller to the engine's patch and modulations, restores
// the saved state and applies the boot-time colour-blind toggle when switch
// 2 is held.
func New(h Hardware, p *patch.Patch, m *patch.Modulations, s Settings, opts Options) *Controller {
	def := DefaultOptions()
	if opts.LongPressTicks <= 0 {
		opts.LongPressTicks = def.LongPressTicks
	}
	if opts.DisplayTimeoutTicks <= 0 {
		opts.DisplayTimeoutTicks = def.DisplayTimeoutTicks
	}

	c := &Controller{
		hw:       h,
		patch:    p,
		mods:     m,
		settings: s,
		opts:     opts,
		notes:    notemap.New(),
	}

	c.LoadState()

	if h.Switches.PressedImmediate(hw.SwitchRow2) {
		st := s.MutableState()
		st.ColorBlind = !st.ColorBlind
		c.persistState()
		c.ignoreRelease[0], c.ignoreRelease[1] = true, true
		c.heldAtBoot[hw.SwitchRow2] = true
		debug.Log("mode", "boot: colour-blind=%v", st.ColorBlind)
	}

	c.pots[hw.PotFrequency] = pot.New(&c.transposition, &c.fineTune, 0.005, 2, -1)
	c.pots[hw.PotHarmonics] = pot.New(&p.Harmonics, &c.octave, 0.005, 1, 0)
	c.pots[hw.PotTimbre] = pot.New(&p.Timbre, &p.LPGColour, 0.01, 1, 0)
	c.pots[hw.PotMorph] = pot.New(&p.Morph, &p.Decay, 0.01, 1, 0)
	c.pots[hw.PotTimbreAttenuverter] = pot.New(&p.TimbreModulationAmount, nil, 0.005, 2, -1)
	c.pots[hw.PotFMAttenuverter] = pot.New(&p.FrequencyModulationAmount, &p.AuxMode, 0.005, 2, -1)
	c.pots[hw.PotMorphAttenuverter] = pot.New(&p.MorphModulationAmount, &p.Crossfade, 0.005, 2, -1)

	c.probe = probe.New(h.Probe, h.CV, s, opts.ProbeSequenceLength, opts.ProbeMismatchThreshold)
	c.calib = calibration.New(s, h.CV, c.probe)
	return c
}

// LoadState copies the persisted state into the patch. Bank 0 is only
// reachable with alternate navigation, so an engine there forces it on.
func (c *Controller) LoadState() {
	st := c.settings.State()
	c.patch.Engine = int(st.Engine)
	c.patch.LPGColour = settings.Unscale8(st.LPGColour)
	c.patch.Decay = settings.Unscale8(st.Decay)
	c.octave = settings.Unscale8(st.Octave)
	c.fineTune = settings.Unscale8(st.FineTune)
	c.altNavigation = st.Engine < patch.EnginesPerBank || st.AltNavigation
	c.patch.AuxMode = settings.Unscale8(st.AuxMode)
	c.patch.Crossfade = settings.Unscale8(st.Crossfade)
}

// SaveState snapshots the patch into the persisted state and writes it.
func (c *Controller) SaveState() {
	st := c.settings.MutableState()
	st.Engine = uint8(c.patch.Engine)
	st.LPGColour = settings.Scale8(c.patch.LPGColour)
	st.Decay = settings.Scale8(c.patch.Decay)
	st.Octave = settings.Scale8(c.octave)
	st.FineTune = settings.Scale8(c.fineTune)
	st.AltNavigation = c.altNavigation
	st.AuxMode = settings.Scale8(c.patch.AuxMode)
	st.Crossfade = settings.Scale8(c.patch.Crossfade)
	c.persistState()
}

func (c *Controller) persistState() {
	if err := c.settings.SaveState(); err != nil {
		debug.Log("settings", "save state: %v", err)
	}
}

// RealignPots makes every pot take its parameter's current value as the
// baseline, so the next movement does not jump.
func (c *Controller) RealignPots() {
	for _, p := range c.pots {
		p.Realign()
	}
}

// Poll runs one control-rate tick.
func (c *Controller) Poll() {
	for i, p := range c.pots {
		p.ProcessControlRate(c.hw.Pots.FloatValue(hw.PotChannel(i)))
	}

	for ch := hw.CVChannel(0); ch < hw.NumCVs; ch++ {
		c.mods.CV[ch] = c.settings.CalibrationData(ch).Transform(c.hw.CV.FloatValue(ch))
	}

	c.pitchLP += pitchFilterCoefficient * (c.mods.CV[hw.CVVOct] - c.pitchLP)
	c.mods.CV[hw.CVVOct] = c.pitchLP

	c.pitchLPCalibration += calibrationFilterCoefficient * (c.hw.CV.FloatValue(hw.CVVOct) - c.pitchLPCalibration)

	c.uiTask = (c.uiTask + 1) % numTasks
	switch c.uiTask {
	case 0:
		c.updateLEDs()
	case 1:
		c.readSwitches()
	case 2:
		for _, p := range c.pots {
			p.ProcessUIRate()
		}
	case 3:
		c.probe.Step(c.mods)
	}

	c.hw.CV.Convert()
	c.hw.Pots.Convert()

	c.patch.Note = c.notes.Note(c.transposition, c.fineTune, c.octave)
	c.ticks++
}

func (c *Controller) setMode(m Mode) {
	if m == c.mode {
		return
	}
	debug.Log("mode", "%s -> %s", c.mode, m)
	c.mode = m
	c.modeTicks = 0
}

func (c *Controller) Mode() Mode {
	return c.mode
}

// Calibrating reports whether a calibration sequence is waiting for input.
func (c *Controller) Calibrating() bool {
	return c.mode.calibrating()
}

// SetActiveEngine reports the engine actually playing, after CV modulation.
func (c *Controller) SetActiveEngine(e int) {
	c.activeEngine = e
}

// SetTransferProgress shows data transfer progress: 0..1 while running, 1
// on success, negative on failure. Each call restarts the display timeout.
func (c *Controller) SetTransferProgress(p float32) {
	c.transferProgress = p
	c.setMode(ModeDisplayTransferProgress)
	c.modeTicks = 0
}

// AltNavigation reports whether the switches step through all engines.
func (c *Controller) AltNavigation() bool {
	return c.altNavigation
}

// Octave is the hidden octave parameter, 0..1.
func (c *Controller) Octave() float32 {
	return c.octave
}

// FineTune is the hidden fine tune parameter, 0..1.
func (c *Controller) FineTune() float32 {
	return c.fineTune
}

// Transposition is the frequency pot value, -1..1.
func (c *Controller) Transposition() float32 {
	return c.transposition
}

// Pot exposes one pot's state, for display.
func (c *Controller) Pot(ch hw.PotChannel) *pot.Controller {
	if ch < 0 || ch >= hw.NumPots {
		return nil
	}
	return c.pots[ch]
}

// PressTime is the number of switch reads a switch has been held.
func (c *Controller) PressTime(s hw.Switch) int {
	if s < 0 || s >= hw.NumSwitches {
		return 0
	}
	return c.pressTime[s]
}

// Ticks is the number of Poll calls so far.
func (c *Controller) Ticks() uint64 {
	return c.ticks
}

// PWMCounter is the LED renderer's free-running counter.
func (c *Controller) PWMCounter() uint32 {
	return c.pwmCounter
}
