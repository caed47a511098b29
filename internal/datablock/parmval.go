package datablock

// ParmValue is one parameter ID with its raw value bytes.
type ParmValue struct {
	ID   byte
	Data []byte
}

// ParmVal carries parameter values read from or written to a device.
type ParmVal struct {
	Values []ParmValue
}

func (p *ParmVal) Type() Type { return TypeParmVal }

func (p *ParmVal) Bytes() []byte {
	inner := []byte{byte(len(p.Values))}
	for _, v := range p.Values {
		inner = append(inner, byte(len(v.Data)+2), v.ID)
		inner = append(inner, v.Data...)
	}
	return wrap(TypeParmVal, inner)
}

// Get returns the data for id.
func (p *ParmVal) Get(id byte) ([]byte, bool) {
	for _, v := range p.Values {
		if v.ID == id {
			return v.Data, true
		}
	}
	return nil, false
}

func parseParmVal(inner []byte) (*ParmVal, error) {
	r := newReader(inner)
	count, err := r.next()
	if err != nil {
		return nil, err
	}
	var values []ParmValue
	for i := 0; i < int(count); i++ {
		e, err := r.entry(2)
		if err != nil {
			return nil, err
		}
		values = append(values, ParmValue{ID: e[0], Data: clone(e[1:])})
	}
	if err := r.done(); err != nil {
		return nil, err
	}
	return &ParmVal{Values: values}, nil
}
