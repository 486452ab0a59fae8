package hw

import "math"

// probeSwing is how far the normalization probe pulls a cabled CV input, in
// raw ADC counts.
const probeSwing = 8192

// SimCV is a simulated CV ADC. Front panel code stages levels with Set; a
// Convert latches them, so a tick always reads the previous conversion.
//
// A channel with a cable attached also carries the probe bit: the line is
// pulled below its rest level while the probe drives high. Channels without a
// cable sit at their rest level.
type SimCV struct {
	staged    [NumCVs]float32
	connected [NumCVs]bool
	latched   [NumCVs]int16
	probe     *SimProbe
}

// NewSimCV creates a CV ADC. probe may be nil.
func NewSimCV(probe *SimProbe) *SimCV {
	return &SimCV{probe: probe}
}

// Set stages a level in -1..1 for the next conversion.
func (a *SimCV) Set(ch CVChannel, v float32) {
	if ch < 0 || ch >= NumCVs {
		return
	}
	a.staged[ch] = clampf(v, -1, 1)
}

// Staged returns the level that the next conversion will latch.
func (a *SimCV) Staged(ch CVChannel) float32 {
	if ch < 0 || ch >= NumCVs {
		return 0
	}
	return a.staged[ch]
}

// Connect attaches or removes the cable on a channel.
func (a *SimCV) Connect(ch CVChannel, on bool) {
	if ch < 0 || ch >= NumCVs {
		return
	}
	a.connected[ch] = on
}

// Connected reports whether a cable is attached to ch.
func (a *SimCV) Connected(ch CVChannel) bool {
	return ch >= 0 && ch < NumCVs && a.connected[ch]
}

func (a *SimCV) Convert() {
	for i := range a.latched {
		raw := int32(math.Round(float64(a.staged[i]) * 32767))
		if a.connected[i] && a.probe != nil && a.probe.Bit() {
			raw -= probeSwing
		}
		if raw < math.MinInt16 {
			raw = math.MinInt16
		}
		if raw > math.MaxInt16 {
			raw = math.MaxInt16
		}
		a.latched[i] = int16(raw)
	}
}

func (a *SimCV) Value(ch CVChannel) int16 {
	if ch < 0 || ch >= NumCVs {
		return 0
	}
	return a.latched[ch]
}

func (a *SimCV) FloatValue(ch CVChannel) float32 {
	return float32(a.Value(ch)) / 32768
}

// SimPots is a simulated pot ADC with the same latching as SimCV.
type SimPots struct {
	staged  [NumPots]float32
	latched [NumPots]uint16
}

// NewSimPots creates a pot ADC with every pot centred.
func NewSimPots() *SimPots {
	p := &SimPots{}
	for i := range p.staged {
		p.staged[i] = 0.5
	}
	p.Convert()
	return p
}

// Set stages a pot position in 0..1.
func (p *SimPots) Set(ch PotChannel, v float32) {
	if ch < 0 || ch >= NumPots {
		return
	}
	p.staged[ch] = clampf(v, 0, 1)
}

// Staged returns the position the next conversion will latch.
func (p *SimPots) Staged(ch PotChannel) float32 {
	if ch < 0 || ch >= NumPots {
		return 0
	}
	return p.staged[ch]
}

func (p *SimPots) Convert() {
	for i := range p.latched {
		p.latched[i] = uint16(math.Round(float64(p.staged[i]) * 65535))
	}
}

func (p *SimPots) Value(ch PotChannel) uint16 {
	if ch < 0 || ch >= NumPots {
		return 0
	}
	return p.latched[ch]
}

func (p *SimPots) FloatValue(ch PotChannel) float32 {
	return float32(p.Value(ch)) / 65535
}

func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
