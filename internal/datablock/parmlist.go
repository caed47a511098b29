package datablock

// ParmList lists the parameter IDs to read from a data class.
type ParmList struct {
	IDs []byte
}

func (p *ParmList) Type() Type { return TypeParmList }

func (p *ParmList) Bytes() []byte {
	inner := make([]byte, 0, len(p.IDs)+1)
	inner = append(inner, byte(len(p.IDs)))
	inner = append(inner, p.IDs...)
	return wrap(TypeParmList, inner)
}

func parseParmList(inner []byte) (*ParmList, error) {
	r := newReader(inner)
	count, err := r.next()
	if err != nil {
		return nil, err
	}
	ids, err := r.take(int(count))
	if err != nil {
		return nil, err
	}
	if err := r.done(); err != nil {
		return nil, err
	}
	return &ParmList{IDs: clone(ids)}, nil
}
