package protocol

import (
	"errors"
	"fmt"
)

// FrameType is the leading byte of every websocket message.
type FrameType byte

const (
	FramePatches FrameType = 0x01 // server -> client
	FrameModule  FrameType = 0x02 // server -> client
	FrameEvent   FrameType = 0x03 // client -> server
)

// ErrEmptyFrame is returned when decoding a zero-length message.
var ErrEmptyFrame = errors.New("protocol: empty frame")

// Message is a decoded frame. Exactly one of the payload fields is
// non-nil, matching Type.
type Message struct {
	Type    FrameType
	Patches *PatchesFrame
	Module  *ModuleCommand
	Event   *Event
}

// EncodePatches encodes a patches frame, envelope included.
func EncodePatches(pf *PatchesFrame) []byte {
	e := NewEncoder()
	e.WriteByte(byte(FramePatches))
	encodePatchesPayload(e, pf)
	return e.Bytes()
}

// EncodeModuleCommand encodes a module command frame, envelope included.
func EncodeModuleCommand(cmd *ModuleCommand) []byte {
	e := NewEncoder()
	e.WriteByte(byte(FrameModule))
	encodeModulePayload(e, cmd)
	return e.Bytes()
}

// EncodeEvent encodes an event frame, envelope included. The server only
// decodes events; encoding is provided for clients and tests.
func EncodeEvent(ev *Event) []byte {
	e := NewEncoder()
	e.WriteByte(byte(FrameEvent))
	encodeEventPayload(e, ev)
	return e.Bytes()
}

// Decode parses a complete websocket message into a Message.
func Decode(data []byte) (*Message, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFrame
	}

	d := NewDecoder(data)
	typeByte, err := d.ReadByte()
	if err != nil {
		return nil, err
	}

	msg := &Message{Type: FrameType(typeByte)}

	switch msg.Type {
	case FramePatches:
		msg.Patches, err = decodePatchesPayload(d)

	case FrameModule:
		msg.Module, err = decodeModulePayload(d)

	case FrameEvent:
		msg.Event, err = decodeEventPayload(d)

	default:
		return nil, fmt.Errorf("protocol: unknown frame type 0x%02x", typeByte)
	}

	if err != nil {
		return nil, err
	}
	return msg, nil
}
