package types

// PointerType is a raw pointer (spec §3.1). Unlike ReferenceType, pointer
// arithmetic and pointer<->integer hard casts are legal on it.
type PointerType struct {
	ElemType Type
}

func NewPointer(elem Type) *PointerType {
	return &PointerType{ElemType: elem}
}

func (pt *PointerType) Equal(other Type) bool {
	opt, ok := other.(*PointerType)
	return ok && Equal(pt.ElemType, opt.ElemType)
}

func (pt *PointerType) Size(ctx *Context) int  { return ctx.PointerWidth }
func (pt *PointerType) Align(ctx *Context) int { return ctx.PointerWidth }
func (pt *PointerType) Elem() Type             { return pt.ElemType }
func (pt *PointerType) Repr() string           { return "*" + pt.ElemType.Repr() }

// ReferenceType is a non-null reference to storage (spec §3.1). References
// never nest: constructing &T where T is itself a ReferenceType is an
// ill-formed type and must be rejected by the caller (sema), not silently
// flattened — StripReferences only ever removes one level because there is
// never more than one to remove.
type ReferenceType struct {
	ElemType Type
}

func NewReference(elem Type) *ReferenceType {
	if _, ok := elem.(*ReferenceType); ok {
		panic("reference types never nest: caller must reject &&T before constructing it")
	}
	return &ReferenceType{ElemType: elem}
}

func (rt *ReferenceType) Equal(other Type) bool {
	ort, ok := other.(*ReferenceType)
	return ok && Equal(rt.ElemType, ort.ElemType)
}

func (rt *ReferenceType) Size(ctx *Context) int  { return ctx.PointerWidth }
func (rt *ReferenceType) Align(ctx *Context) int { return ctx.PointerWidth }
func (rt *ReferenceType) Elem() Type             { return rt.ElemType }
func (rt *ReferenceType) Repr() string            { return "&" + rt.ElemType.Repr() }
