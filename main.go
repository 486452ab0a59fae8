package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"go-voicectl/config"
	"go-voicectl/debug"
	"go-voicectl/hw"
	"go-voicectl/midi"
	"go-voicectl/panel"
	"go-voicectl/settings"
	"go-voicectl/theme"
	"go-voicectl/tui"
	"go-voicectl/ui"
)

func main() {
	configPath := flag.String("config", "", "config file (default ~/.config/go-voicectl/config.json)")
	debugLog := flag.Bool("debug", false, "write debug log to the config directory")
	colorBlindBoot := flag.Bool("hold-switch-2", false, "hold switch 2 at power-up (toggles colour-blind mode)")
	flag.Parse()

	if err := run(*configPath, *debugLog, *colorBlindBoot); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, debugLog, holdSwitch2 bool) error {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFrom(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if debugLog {
		if err := debug.Enable(debug.DefaultDir()); err != nil {
			return fmt.Errorf("enable debug log: %w", err)
		}
		defer debug.Disable()
	}

	dir, err := cfg.StorageDir()
	if err != nil {
		return err
	}
	backend, err := settings.OpenBackend(cfg.Storage.Backend, dir)
	if err != nil {
		return err
	}
	store, err := settings.Open(backend)
	if store == nil {
		backend.Close()
		return err
	}
	if err != nil {
		// defaults replaced the bad record
		debug.Log("settings", "open: %v", err)
	}
	defer store.Close()

	palette, err := theme.LoadOrDefault(cfg.UI.PalettePath)
	if err != nil {
		debug.Log("theme", "palette %s: %v", cfg.UI.PalettePath, err)
		palette = theme.DefaultPalette()
	}
	th := theme.New(palette)

	uiOpts := ui.DefaultOptions()
	uiOpts.LongPressTicks = cfg.Gestures.LongPressTicks
	uiOpts.DisplayTimeoutTicks = cfg.Gestures.DisplayTimeoutTicks
	uiOpts.ProbeSequenceLength = cfg.Probe.SequenceLength
	uiOpts.ProbeMismatchThreshold = cfg.Probe.MismatchThreshold

	opts := panel.Options{
		TickRateHz: cfg.Tick.RateHz,
		LEDFPS:     cfg.UI.LEDFPS,
		UI:         uiOpts,
	}
	opts.HeldAtBoot[hw.SwitchRow2] = holdSwitch2
	rt := panel.New(store, th, opts)

	if cfg.SynthOutput.PortName != "" {
		out, err := midi.OpenEngineOutput(cfg.SynthOutput.PortName, uint8(cfg.SynthOutput.Channel))
		if err != nil {
			debug.Log("midi", "engine output: %v", err)
		} else {
			rt.SetEngineOutput(out)
		}
	}

	var knobs []midi.KnobPort
	for _, c := range cfg.Controllers {
		if c.Type == config.ControllerKnobs && c.AutoConnect {
			knobs = append(knobs, midi.KnobPort{Name: c.PortName, Channel: c.InputChannel})
		}
	}
	deviceMgr := midi.NewDeviceManager(knobs)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go deviceMgr.Run(ctx)

	// the runtime must stop ticking before the store closes
	done := make(chan struct{})
	go func() {
		rt.Run(ctx)
		close(done)
	}()
	defer func() {
		cancel()
		<-done
	}()

	if holdSwitch2 {
		rt.SetSwitch(hw.SwitchRow2, false)
	}

	m := tui.NewModel(rt, deviceMgr, th, opts.TickRateHz)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
