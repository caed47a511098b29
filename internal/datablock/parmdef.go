package datablock

import "fmt"

// ParmType describes how a parameter behaves. Dynamic and Constant
// parameters are read-only; Normal and Reboot parameters are writeable, a
// Reboot parameter taking effect after the device restarts.
type ParmType int

const (
	ParmDynamic ParmType = iota
	ParmConstant
	ParmNormal
	ParmReboot
)

func (t ParmType) String() string {
	switch t {
	case ParmDynamic:
		return "dynamic"
	case ParmConstant:
		return "constant"
	case ParmNormal:
		return "normal"
	case ParmReboot:
		return "reboot"
	default:
		return fmt.Sprintf("ParmType(%d)", int(t))
	}
}

// ReadOnly reports whether parameters of this type can't be written.
func (t ParmType) ReadOnly() bool {
	return t == ParmDynamic || t == ParmConstant
}

// Scope tells whether a parameter is stored globally or per preset.
type Scope int

const (
	ScopeGlobal Scope = iota
	ScopePreset
)

func (s Scope) String() string {
	if s == ScopePreset {
		return "preset"
	}
	return "global"
}

// Flag bits of a parameter definition.
const (
	flagWriteable = 1 << 0
	flagAlt       = 1 << 1 // reboot when writeable, constant when read-only
	flagPreset    = 1 << 2
	flagScene     = 1 << 3
)

// ParmDefinition describes one parameter supported by a data class.
type ParmDefinition struct {
	ID    byte
	Type  ParmType
	Scope Scope
	Scene bool
}

// ReadOnly reports whether the parameter is read-only.
func (d ParmDefinition) ReadOnly() bool {
	return d.Type.ReadOnly()
}

// Flags encodes the definition's attribute byte.
func (d ParmDefinition) Flags() byte {
	var f byte
	switch d.Type {
	case ParmConstant:
		f = flagAlt
	case ParmNormal:
		f = flagWriteable
	case ParmReboot:
		f = flagWriteable | flagAlt
	}
	if d.Scope == ScopePreset {
		f |= flagPreset
	}
	if d.Scene {
		f |= flagScene
	}
	return f
}

// FlagString returns the compact attribute notation, e.g. "WNPS" for a
// writeable normal preset parameter that supports scenes.
func (d ParmDefinition) FlagString() string {
	var s string
	switch d.Type {
	case ParmDynamic:
		s = "RD"
	case ParmConstant:
		s = "RC"
	case ParmNormal:
		s = "WN"
	case ParmReboot:
		s = "WB"
	}
	if d.Scope == ScopePreset {
		s += "P"
	} else {
		s += "G"
	}
	if d.Scene {
		s += "S"
	} else {
		s += "T"
	}
	return s
}

func (d ParmDefinition) String() string {
	return fmt.Sprintf("0x%02x:%s", d.ID, d.FlagString())
}

// DefinitionFromFlags decodes an attribute byte.
func DefinitionFromFlags(id, flags byte) ParmDefinition {
	d := ParmDefinition{ID: id, Scene: flags&flagScene != 0}
	if flags&flagPreset != 0 {
		d.Scope = ScopePreset
	}
	alt := flags&flagAlt != 0
	switch {
	case flags&flagWriteable != 0 && alt:
		d.Type = ParmReboot
	case flags&flagWriteable != 0:
		d.Type = ParmNormal
	case alt:
		d.Type = ParmConstant
	default:
		d.Type = ParmDynamic
	}
	return d
}

// ParmDef lists the parameters a data class supports along with their
// attributes.
type ParmDef struct {
	Definitions []ParmDefinition
}

func (p *ParmDef) Type() Type { return TypeParmDef }

func (p *ParmDef) Bytes() []byte {
	inner := make([]byte, 0, 1+2*len(p.Definitions))
	inner = append(inner, byte(len(p.Definitions)))
	for _, d := range p.Definitions {
		inner = append(inner, d.ID, d.Flags())
	}
	return wrap(TypeParmDef, inner)
}

// Get returns the definition for id.
func (p *ParmDef) Get(id byte) (ParmDefinition, bool) {
	for _, d := range p.Definitions {
		if d.ID == id {
			return d, true
		}
	}
	return ParmDefinition{}, false
}

func parseParmDef(inner []byte) (*ParmDef, error) {
	r := newReader(inner)
	count, err := r.next()
	if err != nil {
		return nil, err
	}
	var defs []ParmDefinition
	for i := 0; i < int(count); i++ {
		pair, err := r.take(2)
		if err != nil {
			return nil, err
		}
		defs = append(defs, DefinitionFromFlags(pair[0], pair[1]))
	}
	if err := r.done(); err != nil {
		return nil, err
	}
	return &ParmDef{Definitions: defs}, nil
}
