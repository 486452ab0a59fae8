package midi

import (
	"fmt"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// KnobController handles a generic MIDI controller: CCs drive pots and CV
// inputs, keys drive the V/OCT input, and SysEx carries factory test
// requests.
type KnobController struct {
	id       string
	inPort   drivers.In
	send     func(msg gomidi.Message) error
	stopFunc func()
	channel  int // 1-16, 0 = omni

	padChan     chan PadEvent
	noteChan    chan NoteEvent
	controlChan chan ControlEvent
	factoryChan chan byte
}

// NewKnobController creates a knob controller. outPort may be nil, in which
// case factory replies are dropped.
func NewKnobController(id string, inPort drivers.In, outPort drivers.Out, channel int) (*KnobController, error) {
	kc := &KnobController{
		id:          id,
		inPort:      inPort,
		channel:     channel,
		padChan:     make(chan PadEvent, 1),
		noteChan:    make(chan NoteEvent, 32),
		controlChan: make(chan ControlEvent, 64),
		factoryChan: make(chan byte, 8),
	}

	if outPort != nil {
		send, err := gomidi.SendTo(outPort)
		if err != nil {
			return nil, fmt.Errorf("open output: %w", err)
		}
		kc.send = send
	}

	if inPort != nil {
		stop, err := gomidi.ListenTo(inPort, kc.handle, gomidi.UseSysEx())
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		kc.stopFunc = stop
	}

	return kc, nil
}

func (kc *KnobController) handle(msg gomidi.Message, timestampms int32) {
	var channel, key, velocity, cc, value uint8
	var data []byte

	switch {
	case msg.GetSysEx(&data):
		if cmd, ok := ParseFactoryRequest(data); ok {
			sendNonBlocking(kc.factoryChan, cmd)
		}
	case msg.GetNoteStart(&channel, &key, &velocity):
		if kc.accepts(channel) {
			sendNonBlocking(kc.noteChan, NoteEvent{Note: key, Velocity: velocity, Channel: channel})
		}
	case msg.GetNoteEnd(&channel, &key):
		if kc.accepts(channel) {
			sendNonBlocking(kc.noteChan, NoteEvent{Note: key, Channel: channel})
		}
	case msg.GetControlChange(&channel, &cc, &value):
		if kc.accepts(channel) {
			sendNonBlocking(kc.controlChan, ControlEvent{Channel: channel, CC: cc, Value: value})
		}
	}
}

func (kc *KnobController) accepts(channel uint8) bool {
	return kc.channel == 0 || int(channel)+1 == kc.channel
}

func (kc *KnobController) ID() string {
	return kc.id
}

func (kc *KnobController) Type() ControllerType {
	return ControllerKnobs
}

func (kc *KnobController) PadEvents() <-chan PadEvent {
	return kc.padChan // no pads
}

func (kc *KnobController) NoteEvents() <-chan NoteEvent {
	return kc.noteChan
}

func (kc *KnobController) ControlEvents() <-chan ControlEvent {
	return kc.controlChan
}

func (kc *KnobController) FactoryRequests() <-chan byte {
	return kc.factoryChan
}

// SetLEDBatch is a no-op (no visual feedback)
func (kc *KnobController) SetLEDBatch(updates []LEDUpdate) error {
	return nil
}

func (kc *KnobController) SendFactoryReply(reply byte) error {
	if kc.send == nil {
		return nil
	}
	return kc.send(FactoryReplyMessage(reply))
}

func (kc *KnobController) Close() error {
	if kc.stopFunc != nil {
		kc.stopFunc()
	}
	close(kc.padChan)
	close(kc.noteChan)
	close(kc.controlChan)
	close(kc.factoryChan)
	return nil
}
