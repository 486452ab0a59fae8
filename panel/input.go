package panel

import (
	"time"

	"go-voicectl/debug"
	"go-voicectl/hw"
	"go-voicectl/midi"
)

// SetSwitch sets the raw level of a switch. The debouncer sees it on the
// next switch task.
func (r *Runtime) SetSwitch(sw hw.Switch, down bool) {
	if sw < 0 || sw >= hw.NumSwitches {
		return
	}
	r.mu.Lock()
	r.switches.SetRaw(sw, down)
	r.rawDown[sw] = down
	r.mu.Unlock()
}

// Tap presses sw and releases it after hold.
func (r *Runtime) Tap(sw hw.Switch, hold time.Duration) {
	r.SetSwitch(sw, true)
	time.AfterFunc(hold, func() { r.SetSwitch(sw, false) })
}

// SetPot stages a pot position in 0..1.
func (r *Runtime) SetPot(ch hw.PotChannel, v float32) {
	r.mu.Lock()
	r.pots.Set(ch, v)
	r.mu.Unlock()
}

// NudgePot moves a pot by delta.
func (r *Runtime) NudgePot(ch hw.PotChannel, delta float32) {
	r.mu.Lock()
	r.pots.Set(ch, r.pots.Staged(ch)+delta)
	r.mu.Unlock()
}

// SetCV stages a CV level in -1..1.
func (r *Runtime) SetCV(ch hw.CVChannel, v float32) {
	r.mu.Lock()
	r.cv.Set(ch, v)
	r.mu.Unlock()
}

// NudgeCV moves a CV level by delta.
func (r *Runtime) NudgeCV(ch hw.CVChannel, delta float32) {
	r.mu.Lock()
	r.cv.Set(ch, r.cv.Staged(ch)+delta)
	r.mu.Unlock()
}

// ConnectCV plugs or unplugs a cable.
func (r *Runtime) ConnectCV(ch hw.CVChannel, on bool) {
	r.mu.Lock()
	r.cv.Connect(ch, on)
	r.mu.Unlock()
}

// ToggleCable flips the cable on ch and returns the new state.
func (r *Runtime) ToggleCable(ch hw.CVChannel) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	on := !r.cv.Connected(ch)
	r.cv.Connect(ch, on)
	return on
}

// PlayNote stages the V/OCT level that the current calibration maps to
// note, with 60 as the zero point.
func (r *Runtime) PlayNote(note uint8) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.setNote(note)
}

func (r *Runtime) setNote(note uint8) {
	cal := r.settings.CalibrationData(hw.CVVOct)
	if cal.Scale == 0 {
		return
	}
	r.cv.Set(hw.CVVOct, (float32(int(note)-60)-cal.Offset)/cal.Scale)
}

// FactoryRequest runs a factory test command and returns the reply.
func (r *Runtime) FactoryRequest(cmd byte) byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ctrl.HandleFactoryRequest(cmd)
}

// SetTransferProgress shows a transfer progress bar.
func (r *Runtime) SetTransferProgress(p float32) {
	r.mu.Lock()
	r.ctrl.SetTransferProgress(p)
	r.mu.Unlock()
}

// AttachController starts forwarding input from c and sends it LED frames.
// The forwarding goroutines stop when c closes its event channels.
func (r *Runtime) AttachController(c midi.Controller) {
	r.ctrlMu.Lock()
	r.controllers[c.ID()] = c
	delete(r.prevLEDs, c.ID())
	r.ctrlMu.Unlock()
	debug.Log("panel", "attached %s (%s)", c.ID(), c.Type())

	go func() {
		for ev := range c.PadEvents() {
			r.handlePad(ev)
		}
	}()
	go func() {
		for ev := range c.NoteEvents() {
			if ev.Velocity > 0 {
				r.PlayNote(ev.Note)
			}
		}
	}()
	go func() {
		for ev := range c.ControlEvents() {
			r.handleControl(ev)
		}
	}()
	go func() {
		for cmd := range c.FactoryRequests() {
			reply := r.FactoryRequest(cmd)
			if err := c.SendFactoryReply(reply); err != nil {
				debug.Log("panel", "%s: factory reply: %v", c.ID(), err)
			}
		}
	}()
}

// DetachController stops sending LED frames to the controller with id.
func (r *Runtime) DetachController(id string) {
	r.ctrlMu.Lock()
	delete(r.controllers, id)
	delete(r.prevLEDs, id)
	r.ctrlMu.Unlock()
	debug.Log("panel", "detached %s", id)
}

// Controllers returns the IDs of attached controllers.
func (r *Runtime) Controllers() []string {
	r.ctrlMu.Lock()
	defer r.ctrlMu.Unlock()
	ids := make([]string, 0, len(r.controllers))
	for id := range r.controllers {
		ids = append(ids, id)
	}
	return ids
}

func (r *Runtime) handlePad(ev midi.PadEvent) {
	if sw, ok := padSwitch(ev.Row, ev.Col); ok {
		r.SetSwitch(sw, ev.Pressed())
	}
}

func (r *Runtime) handleControl(ev midi.ControlEvent) {
	if ch, ok := ccPot(ev.CC); ok {
		r.SetPot(ch, ccUnipolar(ev.Value))
		return
	}
	if ch, ok := ccCV(ev.CC); ok {
		r.SetCV(ch, ccBipolar(ev.Value))
	}
}
