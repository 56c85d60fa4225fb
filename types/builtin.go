package types

// BuiltinKind enumerates the builtin type kind (spec §3.1: "builtin (bool,
// byte, int/uint, void, unknown, overload-set marker)"). `int`/`uint` here
// are the language's default machine-width integers; fixed-width integers
// of arbitrary bit count are IntegerType, not BuiltinType.
type BuiltinKind int

const (
	Bool BuiltinKind = iota
	Byte
	Int
	UInt
	Void
	Unknown     // the type of an expression that has not been inferred yet
	OverloadSet // the marker type of a name bound to multiple declarations
)

// BuiltinType is a primitive, width-fixed-by-convention type.
type BuiltinType struct {
	Kind BuiltinKind
}

func NewBuiltin(kind BuiltinKind) *BuiltinType {
	return &BuiltinType{Kind: kind}
}

func (b *BuiltinType) Equal(other Type) bool {
	ob, ok := other.(*BuiltinType)
	return ok && ob.Kind == b.Kind
}

func (b *BuiltinType) Size(ctx *Context) int {
	switch b.Kind {
	case Void, Unknown, OverloadSet:
		return 0
	case Bool, Byte:
		return 1
	case Int, UInt:
		return ctx.PointerWidth
	default:
		return 0
	}
}

func (b *BuiltinType) Align(ctx *Context) int {
	if s := b.Size(ctx); s > 0 {
		return s
	}
	return 1
}

func (b *BuiltinType) Elem() Type { return nil }

func (b *BuiltinType) Repr() string {
	switch b.Kind {
	case Bool:
		return "bool"
	case Byte:
		return "byte"
	case Int:
		return "int"
	case UInt:
		return "uint"
	case Void:
		return "void"
	case Unknown:
		return "<unknown>"
	case OverloadSet:
		return "<overload-set>"
	default:
		return "<builtin>"
	}
}
