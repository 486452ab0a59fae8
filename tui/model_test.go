package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"go-voicectl/hw"
	"go-voicectl/panel"
	"go-voicectl/settings"
	"go-voicectl/theme"
	"go-voicectl/ui"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	s, err := settings.Open(settings.NewMemoryBackend())
	if err != nil {
		t.Fatalf("settings.Open: %v", err)
	}
	th := theme.New(theme.DefaultPalette())
	p := panel.New(s, th, panel.Options{UI: ui.DefaultOptions()})
	return NewModel(p, nil, th, 1000)
}

func key(m Model, k string) Model {
	var msg tea.KeyMsg
	switch k {
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "left":
		msg = tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		msg = tea.KeyMsg{Type: tea.KeyRight}
	case "up":
		msg = tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestHoldKeyTogglesSwitch(t *testing.T) {
	m := newTestModel(t)
	m = key(m, "s")
	if !m.Panel.Snapshot().Switches[hw.SwitchRow2] {
		t.Fatalf("s should hold switch 2")
	}
	m = key(m, "s")
	if m.Panel.Snapshot().Switches[hw.SwitchRow2] {
		t.Fatalf("second s should release switch 2")
	}
}

func TestPotKeys(t *testing.T) {
	m := newTestModel(t)
	m = key(m, "tab")
	if m.selectedPot != hw.PotHarmonics {
		t.Fatalf("selected pot = %v", m.selectedPot)
	}
	before := m.Panel.Snapshot().Pots[hw.PotHarmonics]
	m = key(m, "right")
	if got := m.Panel.Snapshot().Pots[hw.PotHarmonics]; got <= before {
		t.Fatalf("right should raise the pot: %v -> %v", before, got)
	}
}

func TestCVKeys(t *testing.T) {
	m := newTestModel(t)
	m = key(m, "6")
	if m.selectedCV != hw.CVMorph {
		t.Fatalf("selected cv = %v", m.selectedCV)
	}
	m = key(m, "up")
	if got := m.Panel.Snapshot().CVs[hw.CVMorph]; got <= 0 {
		t.Fatalf("up should raise the cv, got %v", got)
	}
	m = key(m, "c")
	if !m.Panel.Snapshot().Cables[hw.CVMorph] {
		t.Fatalf("c should patch the selected cv")
	}
}

func TestTestSignalToggle(t *testing.T) {
	m := newTestModel(t)
	m = key(m, "t")
	if m.Panel.Snapshot().Mode != ui.ModeTest {
		t.Fatalf("t should enter test mode")
	}
	m = key(m, "t")
	if m.Panel.Snapshot().Mode != ui.ModeNormal {
		t.Fatalf("second t should leave test mode")
	}
}

func TestViewShowsState(t *testing.T) {
	m := newTestModel(t)
	m.Panel.Tick(8)
	v := m.View()
	for _, want := range []string{"go-voicectl", "engine:08", "harmonics", "v/oct"} {
		if !strings.Contains(v, want) {
			t.Fatalf("view missing %q", want)
		}
	}
}

func TestQuit(t *testing.T) {
	m := newTestModel(t)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatalf("q should return a quit command")
	}
	if next.(Model).View() != "" {
		t.Fatalf("view after quit should be empty")
	}
}
