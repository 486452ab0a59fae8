package hw

// SimProbe is the reference probe line. A disabled line always reads low.
type SimProbe struct {
	enabled bool
	bit     bool
}

func NewSimProbe() *SimProbe {
	return &SimProbe{}
}

func (p *SimProbe) Init() {
	p.enabled = true
	p.bit = false
}

func (p *SimProbe) Disable() {
	p.enabled = false
	p.bit = false
}

func (p *SimProbe) Write(bit bool) {
	if !p.enabled {
		return
	}
	p.bit = bit
}

// Bit is the level currently driven onto the bus.
func (p *SimProbe) Bit() bool {
	return p.enabled && p.bit
}

// Enabled reports whether the line is driven.
func (p *SimProbe) Enabled() bool {
	return p.enabled
}
