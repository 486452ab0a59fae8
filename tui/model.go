package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"go-voicectl/hw"
	"go-voicectl/midi"
	"go-voicectl/panel"
	"go-voicectl/patch"
	"go-voicectl/theme"
	"go-voicectl/ui"
	"go-voicectl/widgets"
)

const (
	potStep  = 0.02
	cvStep   = 0.05
	tapHold  = 80 * time.Millisecond
	meterLen = 21
)

type Model struct {
	Panel     *panel.Runtime
	DeviceMgr *midi.DeviceManager
	Theme     *theme.Theme
	TickRate  int

	selectedPot hw.PotChannel
	selectedCV  hw.CVChannel
	quitting    bool
	status      string
}

type UpdateMsg struct{}

type DeviceEventMsg midi.DeviceEvent

// NewModel builds the simulator view. deviceMgr may be nil.
func NewModel(p *panel.Runtime, deviceMgr *midi.DeviceManager, th *theme.Theme, tickRate int) Model {
	return Model{
		Panel:     p,
		DeviceMgr: deviceMgr,
		Theme:     th,
		TickRate:  tickRate,
	}
}

func ListenForUpdates(p *panel.Runtime) tea.Cmd {
	return func() tea.Msg {
		<-p.UpdateChan
		return UpdateMsg{}
	}
}

func ListenForDevices(deviceMgr *midi.DeviceManager) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-deviceMgr.Events()
		if !ok {
			return nil
		}
		return DeviceEventMsg(event)
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{ListenForUpdates(m.Panel)}
	if m.DeviceMgr != nil {
		cmds = append(cmds, ListenForDevices(m.DeviceMgr))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg.String())

	case UpdateMsg:
		return m, ListenForUpdates(m.Panel)

	case DeviceEventMsg:
		event := midi.DeviceEvent(msg)
		switch event.Type {
		case midi.DeviceConnected:
			m.Panel.AttachController(event.Controller)
			m.status = "connected " + event.ID
		case midi.DeviceDisconnected:
			m.Panel.DetachController(event.ID)
			m.status = "disconnected " + event.ID
		}
		return m, ListenForDevices(m.DeviceMgr)
	}

	return m, nil
}

func (m Model) handleKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "a", "s":
		sw := hw.SwitchRow1
		if key == "s" {
			sw = hw.SwitchRow2
		}
		held := m.Panel.Snapshot().Switches[sw]
		m.Panel.SetSwitch(sw, !held)

	case "z":
		m.Panel.Tap(hw.SwitchRow1, tapHold)
	case "x":
		m.Panel.Tap(hw.SwitchRow2, tapHold)

	case "tab":
		m.selectedPot = (m.selectedPot + 1) % hw.NumPots
	case "shift+tab":
		m.selectedPot = (m.selectedPot + hw.NumPots - 1) % hw.NumPots
	case "left":
		m.Panel.NudgePot(m.selectedPot, -potStep)
	case "right":
		m.Panel.NudgePot(m.selectedPot, potStep)

	case "1", "2", "3", "4", "5", "6", "7", "8":
		m.selectedCV = hw.CVChannel(key[0] - '1')
	case "up":
		m.Panel.NudgeCV(m.selectedCV, cvStep)
	case "down":
		m.Panel.NudgeCV(m.selectedCV, -cvStep)
	case "c":
		if m.Panel.ToggleCable(m.selectedCV) {
			m.status = "patched " + m.selectedCV.String()
		} else {
			m.status = "unpatched " + m.selectedCV.String()
		}

	case "t":
		arg := 1
		if m.Panel.Snapshot().Mode == ui.ModeTest {
			arg = 0
		}
		m.Panel.FactoryRequest(ui.FactoryRequest(ui.FactoryTestSignal, arg))
	}
	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	s := m.Panel.Snapshot()

	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent())
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())
	warnStyle := lipgloss.NewStyle().Foreground(m.Theme.Warning())
	selStyle := lipgloss.NewStyle().Foreground(m.Theme.FG()).Bold(true)

	bank, row := s.Patch.Bank()
	nav := "std"
	if s.AltNavigation {
		nav = "alt"
	}
	header := headerStyle.Render(fmt.Sprintf("go-voicectl  %-10s engine:%02d (bank %d row %d) nav:%s  %s ticks @ %s  up %s",
		s.Mode, s.Patch.Engine, bank, row, nav,
		humanize.Comma(int64(s.Ticks)),
		humanize.SIWithDigits(float64(m.TickRate), 0, "Hz"),
		s.Uptime.Truncate(time.Second)))

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(header)
	out.WriteString("\n\n")

	out.WriteString(m.renderLEDs(s))
	out.WriteString("   ")
	out.WriteString(m.renderSwitches(s))
	if s.ColorBlind {
		out.WriteString(dimStyle.Render("   colour-blind"))
	}
	out.WriteString("\n\n")

	for ch := hw.PotChannel(0); ch < hw.NumPots; ch++ {
		line := fmt.Sprintf("%-11s %s %5.2f  %s", ch, widgets.RenderMeter(s.Pots[ch], 0, 1, meterLen), s.Pots[ch], s.PotStates[ch])
		if ch == m.selectedPot {
			line = selStyle.Render("> " + line)
		} else {
			line = dimStyle.Render("  " + line)
		}
		out.WriteString(line + "\n")
	}
	out.WriteString("\n")

	for ch := hw.CVChannel(0); ch < hw.NumCVs; ch++ {
		cable := ' '
		if s.Cables[ch] {
			cable = m.Theme.Symbols.Cable
		}
		line := fmt.Sprintf("%d %-9s %c %s %+5.2f  %+7.2f", ch+1, ch, cable,
			widgets.RenderMeter(s.CVs[ch], -1, 1, meterLen), s.CVs[ch], s.Modulations.CV[ch])
		if ch == m.selectedCV {
			line = selStyle.Render("> " + line)
		} else {
			line = dimStyle.Render("  " + line)
		}
		out.WriteString(line + "\n")
	}
	out.WriteString("\n")

	var patched []string
	for i, ok := range s.Modulations.Patched {
		if ok {
			patched = append(patched, patch.NormalizedChannels[i].String())
		}
	}
	out.WriteString(fmt.Sprintf("note %6.2f  octave %.2f  fine %+.2f  harm %.2f  timbre %.2f  morph %.2f  lpg %.2f  decay %.2f\n",
		s.Patch.Note, s.Octave, s.FineTune, s.Patch.Harmonics, s.Patch.Timbre, s.Patch.Morph, s.Patch.LPGColour, s.Patch.Decay))
	if len(patched) > 0 {
		out.WriteString("patched: " + strings.Join(patched, " ") + "\n")
	}
	if s.Mode == ui.ModeError {
		out.WriteString(warnStyle.Render("calibration failed, press a switch") + "\n")
	}

	out.WriteString("\n")
	out.WriteString(dimStyle.Render("a/s:hold z/x:tap  tab,←/→:pot  1-8,↑/↓:cv  c:cable  t:test  q:quit"))
	if m.status != "" {
		out.WriteString("\n")
		out.WriteString(dimStyle.Render(m.status))
	}
	return out.String()
}

func (m Model) renderLEDs(s panel.Snapshot) string {
	colors := make([][3]uint8, hw.NumLEDs)
	for i, l := range s.LEDs {
		colors[i] = m.Theme.LEDRGB(l.Color, l.Duty)
	}
	return widgets.RenderPadRow(colors, m.Theme.Symbols.LEDOn)
}

func (m Model) renderSwitches(s panel.Snapshot) string {
	var parts []string
	for _, down := range s.Switches {
		sym := m.Theme.Symbols.Release
		if down {
			sym = m.Theme.Symbols.Switch
		}
		parts = append(parts, string(sym))
	}
	return strings.Join(parts, " ")
}
