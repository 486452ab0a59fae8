package theme

import (
	"os"
	"path/filepath"
	"testing"

	"go-voicectl/hw"
)

func TestLEDRGBDuty(t *testing.T) {
	th := New(DefaultPalette())
	if got := th.LEDRGB(hw.ColorRed, 1); got != th.LEDs.Red {
		t.Fatalf("full red = %v", got)
	}
	if got := th.LEDRGB(hw.ColorGreen, 0); got != th.LEDs.Off {
		t.Fatalf("zero duty = %v", got)
	}
	if got := th.LEDRGB(hw.ColorOff, 1); got != th.LEDs.Off {
		t.Fatalf("off = %v", got)
	}
	half := th.LEDRGB(hw.ColorGreen, 0.5)
	if half[1] == 0 || half[1] >= 255 || half[0] > half[1] {
		t.Fatalf("half green = %v", half)
	}
}

func TestLookupEnds(t *testing.T) {
	p := DefaultPalette()
	if p.Lookup(-1) != p.Colors[0] || p.Lookup(2) != p.Colors[len(p.Colors)-1] {
		t.Fatalf("lookup does not clamp")
	}
	if p.Index(99) != p.Colors[len(p.Colors)-1] {
		t.Fatalf("index does not clamp")
	}
}

func TestLoadGPL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p.gpl")
	data := "GIMP Palette\nName: test\nColumns: 2\n# comment\n  0   0   0\tblack\n255 255 255\twhite\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	p, err := LoadOrDefault(path)
	if err != nil {
		t.Fatalf("LoadGPL: %v", err)
	}
	if p.Name != "test" || len(p.Colors) != 2 {
		t.Fatalf("palette = %+v", p)
	}
	if p.Lookup(1).Hex() != "#ffffff" {
		t.Fatalf("hex = %s", p.Lookup(1).Hex())
	}
}
