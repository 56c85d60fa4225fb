package types

// StructField is one ordered, offset-assigned member of a struct type.
type StructField struct {
	Name   string
	Type   Type
	Offset int
}

// StructType is a struct: an ordered sequence of named, offset-assigned
// members (spec §3.1: "struct (named or anonymous, ordered members with
// offsets)"). Anonymous structs compare by structural equality of fields;
// named structs compare by identity — both rules are invariants of spec
// §3.1, implemented here by giving every *named* struct a unique identity
// token minted once at declaration time.
type StructType struct {
	// Name is empty for an anonymous struct literal type.
	Name string

	// identity distinguishes two named structs with the same field layout
	// (e.g. two distinct `struct { x int }` declarations): identity
	// equality, never structural, once Name != "". It points at a
	// non-zero-size allocation, so every token has its own address.
	identity *byte

	Fields []StructField

	size, align int
	sized       bool
}

// NewAnonymousStruct lays out fields in declaration order, assigning
// offsets that respect each field's alignment, and returns the resulting
// struct type. Anonymous structs have no identity: two of them with
// identical field layouts are Equal.
func NewAnonymousStruct(fields []StructField, ctx *Context) *StructType {
	st := &StructType{Fields: fields}
	st.layout(ctx)
	return st
}

// NewNamedStruct mints a fresh identity for a named struct declaration.
// Two calls with the same name and fields are still distinct types
// (identity, not structural, per spec §3.1).
func NewNamedStruct(name string, fields []StructField, ctx *Context) *StructType {
	st := &StructType{Name: name, identity: new(byte), Fields: fields}
	st.layout(ctx)
	return st
}

func (st *StructType) layout(ctx *Context) {
	offset := 0
	maxAlign := 1
	for i := range st.Fields {
		f := &st.Fields[i]
		fa := f.Type.Align(ctx)
		if fa > maxAlign {
			maxAlign = fa
		}
		if offset%fa != 0 {
			offset += fa - offset%fa
		}
		f.Offset = offset
		offset += f.Type.Size(ctx)
	}
	if offset%maxAlign != 0 {
		offset += maxAlign - offset%maxAlign
	}
	st.size = offset
	st.align = maxAlign
	st.sized = true
}

func (st *StructType) Equal(other Type) bool {
	ost, ok := other.(*StructType)
	if !ok {
		return false
	}

	// Named structs (and the universal builtins) compare by identity.
	if st.identity != nil || ost.identity != nil {
		return st.identity == ost.identity
	}

	// Anonymous structs compare structurally.
	if len(st.Fields) != len(ost.Fields) {
		return false
	}
	for i, f := range st.Fields {
		of := ost.Fields[i]
		if f.Name != of.Name || !Equal(f.Type, of.Type) {
			return false
		}
	}
	return true
}

func (st *StructType) Size(*Context) int  { return st.size }
func (st *StructType) Align(*Context) int { return st.align }
func (st *StructType) Elem() Type         { return nil }

func (st *StructType) Repr() string {
	if st.Name != "" {
		return st.Name
	}

	repr := "struct {"
	for i, f := range st.Fields {
		if i > 0 {
			repr += ", "
		}
		repr += f.Name + ": " + f.Type.Repr()
	}
	return repr + "}"
}

// FieldByName looks up a field by name, returning its index or -1.
func (st *StructType) FieldByName(name string) int {
	for i, f := range st.Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// EnumType is an enumeration: an underlying integer type plus an ordered
// list of enumerator names (spec §3.1: "enum (underlying integer type +
// enumerators)"). Like named structs, enums compare by identity.
type EnumType struct {
	Name         string
	identity     *byte
	Underlying   Type
	Enumerators  []string
}

func NewEnum(name string, underlying Type, enumerators []string) *EnumType {
	return &EnumType{Name: name, identity: new(byte), Underlying: underlying, Enumerators: enumerators}
}

func (et *EnumType) Equal(other Type) bool {
	oet, ok := other.(*EnumType)
	return ok && et.identity == oet.identity
}

func (et *EnumType) Size(ctx *Context) int  { return et.Underlying.Size(ctx) }
func (et *EnumType) Align(ctx *Context) int { return et.Underlying.Align(ctx) }
func (et *EnumType) Elem() Type             { return nil }
func (et *EnumType) Repr() string           { return et.Name }

// IndexOf returns the ordinal of the named enumerator, or -1.
func (et *EnumType) IndexOf(name string) int {
	for i, e := range et.Enumerators {
		if e == name {
			return i
		}
	}
	return -1
}
