package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	vmidi "go-voicectl/midi"
	"go-voicectl/ui"
)

var ops = map[string]int{
	"pot":       ui.FactoryReadPot,
	"cv":        ui.FactoryReadCV,
	"norm":      ui.FactoryReadNormalization,
	"gate":      ui.FactoryReadGate,
	"test":      ui.FactoryTestSignal,
	"calibrate": ui.FactoryCalibrate,
}

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	switch os.Args[1] {
	case "list":
		listPorts()
	case "send":
		if len(os.Args) < 5 {
			usage()
			os.Exit(2)
		}
		if err := send(os.Args[2], os.Args[3], os.Args[4]); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	default:
		usage()
	}
}

func usage() {
	fmt.Println("Factory test requests over SysEx")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list                 - List all MIDI ports")
	fmt.Println("  send <port> <op> <n> - Send one request and print the reply")
	fmt.Println("")
	fmt.Println("Ops: pot cv norm gate test calibrate")
	fmt.Println("  calibrate 0 = start, 1 = C1, 2 = C3 and save")
}

func listPorts() {
	fmt.Println("=== MIDI Input Ports ===")
	fmt.Println("(waiting up to 3 seconds...)")

	type result struct {
		ins  []drivers.In
		outs []drivers.Out
	}
	ch := make(chan result, 1)
	go func() {
		ins := midi.GetInPorts()
		outs := midi.GetOutPorts()
		ch <- result{ins: ins, outs: outs}
	}()

	select {
	case r := <-ch:
		for i, p := range r.ins {
			fmt.Printf("  %d: %s\n", i, p.String())
		}
		fmt.Println("\n=== MIDI Output Ports ===")
		for i, p := range r.outs {
			fmt.Printf("  %d: %s\n", i, p.String())
		}
	case <-time.After(3 * time.Second):
		fmt.Println("\nTIMEOUT! CoreMIDI is hung.")
		fmt.Println("Fix: sudo killall coreaudiod midiserver")
	}
}

func send(port, opName, argStr string) error {
	op, ok := ops[strings.ToLower(opName)]
	if !ok {
		return fmt.Errorf("unknown op %q", opName)
	}
	arg, err := strconv.Atoi(argStr)
	if err != nil || arg < 0 || arg > 0x1f {
		return fmt.Errorf("argument must be 0-31, got %q", argStr)
	}

	in, err := midi.FindInPort(port)
	if err != nil {
		return fmt.Errorf("input %q: %w", port, err)
	}
	out, err := midi.FindOutPort(port)
	if err != nil {
		return fmt.Errorf("output %q: %w", port, err)
	}

	replies := make(chan byte, 1)
	stop, err := midi.ListenTo(in, func(msg midi.Message, _ int32) {
		var data []byte
		if msg.GetSysEx(&data) {
			if reply, ok := vmidi.ParseFactoryReply(data); ok {
				select {
				case replies <- reply:
				default:
				}
			}
		}
	}, midi.UseSysEx())
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	defer stop()

	sendFn, err := midi.SendTo(out)
	if err != nil {
		return fmt.Errorf("open output: %w", err)
	}

	cmd := ui.FactoryRequest(op, arg)
	fmt.Printf("Sending: op=%s arg=%d (0x%02X)\n", opName, arg, cmd)
	if err := sendFn(vmidi.FactoryRequestMessage(cmd)); err != nil {
		return err
	}

	select {
	case reply := <-replies:
		fmt.Printf("Reply: %d (0x%02X)\n", reply, reply)
		return nil
	case <-time.After(2 * time.Second):
		return fmt.Errorf("no reply")
	}
}
