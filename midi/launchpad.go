package midi

import (
	"fmt"
	"sync/atomic"

	"go-voicectl/debug"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

var ledSendCount uint64

// LaunchpadController handles a Novation Launchpad X used as the LED bank
// and switches of the front panel
type LaunchpadController struct {
	id       string
	outPort  drivers.Out
	inPort   drivers.In
	send     func(msg gomidi.Message) error
	stopFunc func()

	padChan     chan PadEvent
	noteChan    chan NoteEvent
	controlChan chan ControlEvent
	factoryChan chan byte
}

// NewLaunchpadController creates and configures a Launchpad
func NewLaunchpadController(id string, inPort drivers.In, outPort drivers.Out) (*LaunchpadController, error) {
	lp := &LaunchpadController{
		id:          id,
		inPort:      inPort,
		outPort:     outPort,
		padChan:     make(chan PadEvent, 32),
		noteChan:    make(chan NoteEvent, 1),
		controlChan: make(chan ControlEvent, 1),
		factoryChan: make(chan byte, 1),
	}

	if outPort != nil {
		send, err := gomidi.SendTo(outPort)
		if err != nil {
			return nil, fmt.Errorf("open output: %w", err)
		}
		lp.send = send

		// Programmer mode: F0 00 20 29 02 0C 00 7F F7
		lp.send(gomidi.SysEx([]byte{0x00, 0x20, 0x29, 0x02, 0x0C, 0x00, 0x7F}))

		// Brightness to maximum: F0 00 20 29 02 0C 08 <brightness> F7
		lp.send(gomidi.SysEx([]byte{0x00, 0x20, 0x29, 0x02, 0x0C, 0x08, 0x7F}))

		// External LED feedback: F0 00 20 29 02 0C 0A 01 01 F7
		lp.send(gomidi.SysEx([]byte{0x00, 0x20, 0x29, 0x02, 0x0C, 0x0A, 0x01, 0x01}))
	}

	if inPort != nil {
		stop, err := gomidi.ListenTo(inPort, func(msg gomidi.Message, timestampms int32) {
			var channel, note, velocity uint8
			var cc, value uint8

			switch {
			case msg.GetNoteStart(&channel, &note, &velocity):
				if row, col := noteToRowCol(note); row >= 0 {
					sendNonBlocking(lp.padChan, PadEvent{Row: row, Col: col, Velocity: velocity})
				}

			case msg.GetNoteEnd(&channel, &note):
				if row, col := noteToRowCol(note); row >= 0 {
					sendNonBlocking(lp.padChan, PadEvent{Row: row, Col: col})
				}

			// top row buttons are CC 91-98, value 0 on release
			case msg.GetControlChange(&channel, &cc, &value):
				if row, col := ccToRowCol(cc); row >= 0 {
					sendNonBlocking(lp.padChan, PadEvent{Row: row, Col: col, Velocity: value})
				}
			}
		})
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		lp.stopFunc = stop
	}

	return lp, nil
}

func (lp *LaunchpadController) ID() string {
	return lp.id
}

func (lp *LaunchpadController) Type() ControllerType {
	return ControllerLaunchpad
}

func (lp *LaunchpadController) PadEvents() <-chan PadEvent {
	return lp.padChan
}

func (lp *LaunchpadController) NoteEvents() <-chan NoteEvent {
	return lp.noteChan
}

func (lp *LaunchpadController) ControlEvents() <-chan ControlEvent {
	return lp.controlChan
}

func (lp *LaunchpadController) FactoryRequests() <-chan byte {
	return lp.factoryChan
}

// SendFactoryReply is a no-op; the Launchpad has no factory protocol.
func (lp *LaunchpadController) SendFactoryReply(reply byte) error {
	return nil
}

// SetLEDBatch sends multiple LED updates as individual NoteOn messages. The
// caller diffs frames, so batches are small.
func (lp *LaunchpadController) SetLEDBatch(updates []LEDUpdate) error {
	if lp.send == nil || len(updates) == 0 {
		return nil
	}

	for _, u := range updates {
		note := rowColToNote(u.Row, u.Col)
		color := mapRGBToLaunchpad(u.Color)
		if err := lp.send(gomidi.NoteOn(u.Channel, note, color)); err != nil {
			return fmt.Errorf("launchpad %s: %w", lp.id, err)
		}
	}

	count := atomic.AddUint64(&ledSendCount, uint64(len(updates)))
	if count%100 < uint64(len(updates)) {
		debug.Log("midi", "launchpad LED sends=%d (this batch=%d)", count, len(updates))
	}

	return nil
}

// launchpadPalette approximates the Launchpad X palette: {velocity, R, G, B}
var launchpadPalette = [][4]uint8{
	{0, 0, 0, 0},         // off
	{5, 255, 0, 0},       // red
	{7, 180, 60, 60},     // dim red
	{1, 60, 0, 0},        // faint red
	{13, 255, 200, 0},    // yellow
	{97, 180, 180, 60},   // dim yellow
	{15, 70, 60, 0},      // faint yellow
	{21, 0, 255, 0},      // green
	{17, 0, 180, 0},      // mid green
	{19, 0, 100, 0},      // dim green
	{23, 0, 50, 0},       // faint green
	{119, 255, 255, 255}, // white
}

// mapRGBToLaunchpad finds the nearest Launchpad X palette colour
func mapRGBToLaunchpad(rgb [3]uint8) uint8 {
	bestMatch := uint8(0)
	bestDist := 1 << 30

	r, g, b := int(rgb[0]), int(rgb[1]), int(rgb[2])

	for _, p := range launchpadPalette {
		pr, pg, pb := int(p[1]), int(p[2]), int(p[3])
		dist := (r-pr)*(r-pr) + (g-pg)*(g-pg) + (b-pb)*(b-pb)
		if dist < bestDist {
			bestDist = dist
			bestMatch = p[0]
		}
	}

	return bestMatch
}

func (lp *LaunchpadController) Close() error {
	if lp.send != nil {
		var updates []LEDUpdate
		for row := 0; row < 8; row++ {
			for col := 0; col < 8; col++ {
				updates = append(updates, LEDUpdate{Row: row, Col: col})
			}
		}
		lp.SetLEDBatch(updates)
	}
	if lp.stopFunc != nil {
		lp.stopFunc()
	}
	close(lp.padChan)
	close(lp.noteChan)
	close(lp.controlChan)
	close(lp.factoryChan)
	return nil
}

// Launchpad X note mapping
// 8x8 Grid:  Row 0 (bottom) = notes 11-18, Row 7 = notes 81-88
// Side col:  Col 8 (right side scene buttons) = notes 19, 29, ..., 89
// Top row:   Row 8 = CC 91-98

func rowColToNote(row, col int) uint8 {
	if row == 8 {
		return uint8(91 + col)
	}
	return uint8((row+1)*10 + col + 1)
}

func noteToRowCol(note uint8) (row, col int) {
	if note >= 91 && note <= 98 {
		return 8, int(note - 91)
	}
	row = int(note/10) - 1
	col = int(note%10) - 1
	if row < 0 || row > 7 || col < 0 || col > 8 {
		return -1, -1
	}
	return row, col
}

func ccToRowCol(cc uint8) (row, col int) {
	if cc >= 91 && cc <= 98 {
		return 8, int(cc - 91)
	}
	return -1, -1
}
