package ir

import "emberc/types"

// StaticVar is global storage: a name, a type, and an optional
// initializer instruction (spec §3.2 "IRStaticVariable"). Grounded on the
// teacher's GlobalVar, generalized from a bare Value to a full
// Instruction so that a static's initializer can itself be inspected by
// the optimizer (eg. a LIT_STRING instruction referencing an interned
// string index).
type StaticVar struct {
	Name        string
	Typ         types.Type
	Initializer *Instruction // nil for an uninitialized (.bss) or extern static
	Extern      bool
}

func NewStaticVar(name string, typ types.Type) *StaticVar {
	return &StaticVar{Name: name, Typ: typ}
}

// Section reports which object-file section this static belongs in (spec
// §6.4): externs have none, initialized statics go in .data, and
// uninitialized statics go in .bss.
func (sv *StaticVar) Section() Section {
	switch {
	case sv.Extern:
		return SectionNone
	case sv.Initializer != nil:
		return SectionData
	default:
		return SectionBSS
	}
}
