package types

// ArrayType is a fixed-size array (spec §3.1: "array (element + size
// expression)"). Dimension holds the size as an already-known constant:
// the parser accepts only an integer literal there (`[T; N]`), and sema
// builds a compound literal's array type from its element count.
type ArrayType struct {
	ElemType  Type
	Dimension int64
}

func NewArray(elem Type, dimension int64) *ArrayType {
	return &ArrayType{ElemType: elem, Dimension: dimension}
}

func (at *ArrayType) Equal(other Type) bool {
	oat, ok := other.(*ArrayType)
	return ok && Equal(at.ElemType, oat.ElemType) && at.Dimension == oat.Dimension
}

func (at *ArrayType) Size(ctx *Context) int {
	return at.ElemType.Size(ctx) * int(at.Dimension)
}

func (at *ArrayType) Align(ctx *Context) int {
	return at.ElemType.Align(ctx)
}

func (at *ArrayType) Elem() Type { return at.ElemType }

func (at *ArrayType) Repr() string {
	return "[" + at.ElemType.Repr() + "; " + itoaDim(at.Dimension) + "]"
}

func itoaDim(n int64) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [24]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// DynArrayType is a runtime-sized, growable array (spec §3.1: "dynamic
// array (element + runtime length + capacity layout)"). Its in-memory
// layout is {data *Elem, length uint, capacity uint} — a pointer plus two
// machine words, matching the representative backend's ABI.
type DynArrayType struct {
	ElemType Type
}

func NewDynArray(elem Type) *DynArrayType {
	return &DynArrayType{ElemType: elem}
}

func (dt *DynArrayType) Equal(other Type) bool {
	odt, ok := other.(*DynArrayType)
	return ok && Equal(dt.ElemType, odt.ElemType)
}

// Size is {data, length, capacity}: three pointer-width words.
func (dt *DynArrayType) Size(ctx *Context) int  { return 3 * ctx.PointerWidth }
func (dt *DynArrayType) Align(ctx *Context) int { return ctx.PointerWidth }
func (dt *DynArrayType) Elem() Type             { return dt.ElemType }
func (dt *DynArrayType) Repr() string           { return "[]" + dt.ElemType.Repr() }
