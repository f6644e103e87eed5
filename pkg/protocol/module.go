package protocol

// ModuleOp identifies a server-to-client module command.
type ModuleOp uint8

const (
	// ModuleLoad asks the client to import the module at Path and
	// register it under CallID as its module ID.
	ModuleLoad ModuleOp = 0x01

	// ModuleInvoke calls the named export of a loaded module.
	ModuleInvoke ModuleOp = 0x02

	// ModuleRelease disposes a loaded module.
	ModuleRelease ModuleOp = 0x03
)

// String returns the string representation of the module op.
func (op ModuleOp) String() string {
	switch op {
	case ModuleLoad:
		return "Load"
	case ModuleInvoke:
		return "Invoke"
	case ModuleRelease:
		return "Release"
	default:
		return "Unknown"
	}
}

// ModuleCommand is a server-to-client module instruction. The client
// answers every command with an EventModuleResult carrying the same
// CallID.
type ModuleCommand struct {
	Op       ModuleOp
	CallID   uint64 // Correlates the client's ModuleResult
	ModuleID uint64 // Target module (Invoke, Release)
	Path     string // Module path (Load)
	Fn       string // Exported function name (Invoke)
	Args     string // JSON-encoded argument array (Invoke)
}

func encodeModulePayload(e *Encoder, cmd *ModuleCommand) {
	e.WriteByte(byte(cmd.Op))
	e.WriteUvarint(cmd.CallID)

	switch cmd.Op {
	case ModuleLoad:
		e.WriteString(cmd.Path)

	case ModuleInvoke:
		e.WriteUvarint(cmd.ModuleID)
		e.WriteString(cmd.Fn)
		e.WriteString(cmd.Args)

	case ModuleRelease:
		e.WriteUvarint(cmd.ModuleID)
	}
}

func decodeModulePayload(d *Decoder) (*ModuleCommand, error) {
	opByte, err := d.ReadByte()
	if err != nil {
		return nil, err
	}

	cmd := &ModuleCommand{Op: ModuleOp(opByte)}

	cmd.CallID, err = d.ReadUvarint()
	if err != nil {
		return nil, err
	}

	switch cmd.Op {
	case ModuleLoad:
		cmd.Path, err = d.ReadString()

	case ModuleInvoke:
		cmd.ModuleID, err = d.ReadUvarint()
		if err != nil {
			return nil, err
		}
		cmd.Fn, err = d.ReadString()
		if err != nil {
			return nil, err
		}
		cmd.Args, err = d.ReadString()

	case ModuleRelease:
		cmd.ModuleID, err = d.ReadUvarint()
	}

	if err != nil {
		return nil, err
	}
	return cmd, nil
}
