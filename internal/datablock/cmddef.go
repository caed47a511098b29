package datablock

// CmdDefinition is a supported command ID and its definition bytes (usually
// the list of accepted values).
type CmdDefinition struct {
	ID   byte
	Data []byte
}

// CmdDef lists the commands a device supports.
type CmdDef struct {
	Definitions []CmdDefinition
}

func (c *CmdDef) Type() Type { return TypeCmdDef }

func (c *CmdDef) Bytes() []byte {
	inner := []byte{byte(len(c.Definitions))}
	for _, d := range c.Definitions {
		inner = append(inner, byte(len(d.Data)+2), d.ID)
		inner = append(inner, d.Data...)
	}
	return wrap(TypeCmdDef, inner)
}

func parseCmdDef(inner []byte) (*CmdDef, error) {
	r := newReader(inner)
	count, err := r.next()
	if err != nil {
		return nil, err
	}
	var defs []CmdDefinition
	for i := 0; i < int(count); i++ {
		e, err := r.entry(2)
		if err != nil {
			return nil, err
		}
		defs = append(defs, CmdDefinition{ID: e[0], Data: clone(e[1:])})
	}
	if err := r.done(); err != nil {
		return nil, err
	}
	return &CmdDef{Definitions: defs}, nil
}

// CmdValue executes command ID with Value and optional argument bytes.
type CmdValue struct {
	ID    byte
	Value byte
	Args  []byte
}

// CmdVal is sent by a host to execute commands.
type CmdVal struct {
	Values []CmdValue
}

func (c *CmdVal) Type() Type { return TypeCmdVal }

func (c *CmdVal) Bytes() []byte {
	inner := []byte{byte(len(c.Values))}
	for _, v := range c.Values {
		inner = append(inner, byte(len(v.Args)+3), v.ID, v.Value)
		inner = append(inner, v.Args...)
	}
	return wrap(TypeCmdVal, inner)
}

func parseCmdVal(inner []byte) (*CmdVal, error) {
	r := newReader(inner)
	count, err := r.next()
	if err != nil {
		return nil, err
	}
	var values []CmdValue
	for i := 0; i < int(count); i++ {
		e, err := r.entry(3)
		if err != nil {
			return nil, err
		}
		values = append(values, CmdValue{ID: e[0], Value: e[1], Args: clone(e[2:])})
	}
	if err := r.done(); err != nil {
		return nil, err
	}
	return &CmdVal{Values: values}, nil
}
