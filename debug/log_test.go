package debug

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLogWritesCategoryLines(t *testing.T) {
	dir := t.TempDir()
	if err := Enable(dir); err != nil {
		t.Fatalf("Enable: %v", err)
	}
	defer Disable()

	Log("mode", "Normal -> %s", "Error")
	for i := 0; i < 4; i++ {
		LogEvery(2, "probe", "step")
	}

	b, err := os.ReadFile(filepath.Join(dir, "debug.log"))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(b)
	if !strings.Contains(out, "Normal -> Error") {
		t.Fatalf("missing mode line in %q", out)
	}
	if n := strings.Count(out, "step (every 2"); n != 2 {
		t.Fatalf("LogEvery wrote %d lines, want 2", n)
	}
}

func TestLogDisabledIsNoop(t *testing.T) {
	Disable()
	Log("mode", "ignored")
	if Enabled() {
		t.Fatalf("Enabled() = true after Disable")
	}
}
