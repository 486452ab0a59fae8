package midi

import (
	gomidi "gitlab.com/gomidi/midi/v2"
)

// Factory test SysEx frames use the non-commercial manufacturer ID:
// request F0 7D 01 <hi> <lo> F7, reply F0 7D 02 <hi> <lo> F7. The payload
// byte is split in nibbles so every data byte stays below 0x80.
const (
	sysExManufacturer = 0x7D
	sysExRequest      = 0x01
	sysExReply        = 0x02
)

// FactoryRequestMessage builds a request message for cmd.
func FactoryRequestMessage(cmd byte) gomidi.Message {
	return gomidi.SysEx([]byte{sysExManufacturer, sysExRequest, cmd >> 4, cmd & 0x0f})
}

// FactoryReplyMessage builds a reply message.
func FactoryReplyMessage(reply byte) gomidi.Message {
	return gomidi.SysEx([]byte{sysExManufacturer, sysExReply, reply >> 4, reply & 0x0f})
}

// ParseFactoryRequest extracts the command byte from SysEx data (without
// the F0/F7 framing).
func ParseFactoryRequest(data []byte) (byte, bool) {
	return parseFactory(data, sysExRequest)
}

// ParseFactoryReply extracts the reply byte from SysEx data.
func ParseFactoryReply(data []byte) (byte, bool) {
	return parseFactory(data, sysExReply)
}

func parseFactory(data []byte, kind byte) (byte, bool) {
	if len(data) != 4 || data[0] != sysExManufacturer || data[1] != kind {
		return 0, false
	}
	if data[2] > 0x0f || data[3] > 0x0f {
		return 0, false
	}
	return data[2]<<4 | data[3], true
}
