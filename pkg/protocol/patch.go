package protocol

// PatchOp is the type of DOM patch operation.
type PatchOp uint8

const (
	PatchSetText     PatchOp = 0x01 // Update text content
	PatchSetAttr     PatchOp = 0x02 // Set attribute
	PatchRemoveAttr  PatchOp = 0x03 // Remove attribute
	PatchAddClass    PatchOp = 0x04 // Add CSS class
	PatchRemoveClass PatchOp = 0x05 // Remove CSS class
	PatchScrollTo    PatchOp = 0x06 // Scroll viewport to position
	PatchDispatch    PatchOp = 0x07 // Dispatch a CustomEvent on the client
)

// String returns the string representation of the patch operation.
func (op PatchOp) String() string {
	switch op {
	case PatchSetText:
		return "SetText"
	case PatchSetAttr:
		return "SetAttr"
	case PatchRemoveAttr:
		return "RemoveAttr"
	case PatchAddClass:
		return "AddClass"
	case PatchRemoveClass:
		return "RemoveClass"
	case PatchScrollTo:
		return "ScrollTo"
	case PatchDispatch:
		return "Dispatch"
	default:
		return "Unknown"
	}
}

// ScrollBehavior selects how a ScrollTo patch animates.
type ScrollBehavior uint8

const (
	ScrollInstant ScrollBehavior = 0
	ScrollSmooth  ScrollBehavior = 1
)

// Patch is a single DOM operation addressed by hydration ID.
type Patch struct {
	Op       PatchOp
	HID      string         // Target element's hydration ID
	Key      string         // Attribute key / event name
	Value    string         // Attribute value / class / text / detail
	X        int            // For ScrollTo
	Y        int            // For ScrollTo
	Behavior ScrollBehavior // For ScrollTo
}

// PatchesFrame is a batch of patches with a sequence number.
type PatchesFrame struct {
	Seq     uint64
	Patches []Patch
}

func encodePatchesPayload(e *Encoder, pf *PatchesFrame) {
	e.WriteUvarint(pf.Seq)
	e.WriteUvarint(uint64(len(pf.Patches)))
	for i := range pf.Patches {
		encodePatch(e, &pf.Patches[i])
	}
}

func encodePatch(e *Encoder, p *Patch) {
	e.WriteByte(byte(p.Op))
	e.WriteString(p.HID)

	switch p.Op {
	case PatchSetText, PatchAddClass, PatchRemoveClass:
		e.WriteString(p.Value)

	case PatchSetAttr, PatchDispatch:
		e.WriteString(p.Key)
		e.WriteString(p.Value)

	case PatchRemoveAttr:
		e.WriteString(p.Key)

	case PatchScrollTo:
		e.WriteSvarint(int64(p.X))
		e.WriteSvarint(int64(p.Y))
		e.WriteByte(byte(p.Behavior))
	}
}

func decodePatchesPayload(d *Decoder) (*PatchesFrame, error) {
	seq, err := d.ReadUvarint()
	if err != nil {
		return nil, err
	}

	count, err := d.ReadCollectionCount()
	if err != nil {
		return nil, err
	}

	patches := make([]Patch, count)
	for i := 0; i < count; i++ {
		if err := decodePatch(d, &patches[i]); err != nil {
			return nil, err
		}
	}

	return &PatchesFrame{Seq: seq, Patches: patches}, nil
}

func decodePatch(d *Decoder, p *Patch) error {
	opByte, err := d.ReadByte()
	if err != nil {
		return err
	}
	p.Op = PatchOp(opByte)

	p.HID, err = d.ReadString()
	if err != nil {
		return err
	}

	switch p.Op {
	case PatchSetText, PatchAddClass, PatchRemoveClass:
		p.Value, err = d.ReadString()

	case PatchSetAttr, PatchDispatch:
		p.Key, err = d.ReadString()
		if err != nil {
			return err
		}
		p.Value, err = d.ReadString()

	case PatchRemoveAttr:
		p.Key, err = d.ReadString()

	case PatchScrollTo:
		var x, y int64
		x, err = d.ReadSvarint()
		if err != nil {
			return err
		}
		y, err = d.ReadSvarint()
		if err != nil {
			return err
		}
		p.X = int(x)
		p.Y = int(y)
		var beh byte
		beh, err = d.ReadByte()
		p.Behavior = ScrollBehavior(beh)

	default:
		// Unknown patch op: no payload is readable, tolerate for
		// forward compatibility.
	}

	return err
}

// NewSetTextPatch creates a SetText patch.
func NewSetTextPatch(hid, text string) Patch {
	return Patch{Op: PatchSetText, HID: hid, Value: text}
}

// NewSetAttrPatch creates a SetAttr patch.
func NewSetAttrPatch(hid, key, value string) Patch {
	return Patch{Op: PatchSetAttr, HID: hid, Key: key, Value: value}
}

// NewRemoveAttrPatch creates a RemoveAttr patch.
func NewRemoveAttrPatch(hid, key string) Patch {
	return Patch{Op: PatchRemoveAttr, HID: hid, Key: key}
}

// NewAddClassPatch creates an AddClass patch.
func NewAddClassPatch(hid, class string) Patch {
	return Patch{Op: PatchAddClass, HID: hid, Value: class}
}

// NewRemoveClassPatch creates a RemoveClass patch.
func NewRemoveClassPatch(hid, class string) Patch {
	return Patch{Op: PatchRemoveClass, HID: hid, Value: class}
}

// NewScrollToPatch creates a ScrollTo patch.
func NewScrollToPatch(hid string, x, y int, behavior ScrollBehavior) Patch {
	return Patch{Op: PatchScrollTo, HID: hid, X: x, Y: y, Behavior: behavior}
}

// NewDispatchPatch creates a Dispatch patch carrying a named CustomEvent.
func NewDispatchPatch(hid, eventName, detail string) Patch {
	return Patch{Op: PatchDispatch, HID: hid, Key: eventName, Value: detail}
}
