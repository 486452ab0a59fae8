package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// RenderPad renders a single coloured LED
func RenderPad(color [3]uint8, symbol rune) string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(rgbToHex(color)))
	return style.Render(string(symbol))
}

// RenderPadRow renders a row of LEDs with spacing
func RenderPadRow(colors [][3]uint8, symbol rune) string {
	var out strings.Builder
	for i, c := range colors {
		if i > 0 {
			out.WriteString(" ")
		}
		out.WriteString(RenderPad(c, symbol))
	}
	return out.String()
}

// RenderMeter draws value (lo..hi) as a horizontal bar width cells wide.
// Bipolar ranges fill from the centre.
func RenderMeter(value, lo, hi float32, width int) string {
	if width < 2 {
		width = 2
	}
	if hi <= lo {
		return strings.Repeat("·", width)
	}
	norm := (value - lo) / (hi - lo)
	if norm < 0 {
		norm = 0
	}
	if norm > 1 {
		norm = 1
	}
	pos := int(norm*float32(width-1) + 0.5)

	cells := make([]rune, width)
	for i := range cells {
		cells[i] = '·'
	}
	if lo < 0 && hi > 0 {
		mid := int(-lo/(hi-lo)*float32(width-1) + 0.5)
		a, b := mid, pos
		if a > b {
			a, b = b, a
		}
		for i := a; i <= b; i++ {
			cells[i] = '━'
		}
		cells[mid] = '┃'
	} else {
		for i := 0; i <= pos; i++ {
			cells[i] = '━'
		}
	}
	return string(cells)
}

// RenderKeyHelp formats key bindings in a friendly way
func RenderKeyHelp(sections []KeySection) string {
	var lines []string
	for _, sec := range sections {
		if sec.Title != "" {
			lines = append(lines, sec.Title)
		}
		for _, k := range sec.Keys {
			lines = append(lines, fmt.Sprintf("  %-12s %s", k.Key, k.Desc))
		}
	}
	return strings.Join(lines, "\n")
}

// KeySection groups related key bindings
type KeySection struct {
	Title string
	Keys  []KeyBinding
}

// KeyBinding is a single key and its description
type KeyBinding struct {
	Key  string
	Desc string
}

func rgbToHex(c [3]uint8) string {
	return fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2])
}
