package protocol

// EventType identifies a client-to-server event.
type EventType uint8

const (
	// EventClick fires when a hydrated element is clicked.
	EventClick EventType = 0x01

	// EventNavigate fires on every navigation with the new absolute
	// location (initial load, link click, history traversal).
	EventNavigate EventType = 0x02

	// EventModuleResult carries the outcome of a module command.
	EventModuleResult EventType = 0x03
)

// String returns the string representation of the event type.
func (t EventType) String() string {
	switch t {
	case EventClick:
		return "Click"
	case EventNavigate:
		return "Navigate"
	case EventModuleResult:
		return "ModuleResult"
	default:
		return "Unknown"
	}
}

// Event is a single client-to-server event.
type Event struct {
	Type EventType

	// HID is the hydration ID of the event target (Click).
	HID string

	// Location is the new absolute location (Navigate).
	Location string

	// CallID, OK and ErrMsg report a module command outcome
	// (ModuleResult).
	CallID uint64
	OK     bool
	ErrMsg string
}

func encodeEventPayload(e *Encoder, ev *Event) {
	e.WriteByte(byte(ev.Type))

	switch ev.Type {
	case EventClick:
		e.WriteString(ev.HID)

	case EventNavigate:
		e.WriteString(ev.Location)

	case EventModuleResult:
		e.WriteUvarint(ev.CallID)
		e.WriteBool(ev.OK)
		e.WriteString(ev.ErrMsg)
	}
}

func decodeEventPayload(d *Decoder) (*Event, error) {
	typeByte, err := d.ReadByte()
	if err != nil {
		return nil, err
	}

	ev := &Event{Type: EventType(typeByte)}

	switch ev.Type {
	case EventClick:
		ev.HID, err = d.ReadString()

	case EventNavigate:
		ev.Location, err = d.ReadString()

	case EventModuleResult:
		ev.CallID, err = d.ReadUvarint()
		if err != nil {
			return nil, err
		}
		ev.OK, err = d.ReadBool()
		if err != nil {
			return nil, err
		}
		ev.ErrMsg, err = d.ReadString()
	}

	if err != nil {
		return nil, err
	}
	return ev, nil
}
