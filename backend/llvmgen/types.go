package llvmgen

import (
	"fmt"

	"emberc/types"

	lltypes "github.com/llir/llvm/ir/types"
)

// convType translates an emberc type into its LLVM representation,
// mirroring the split the teacher's conv_type.go makes between
// pureConvType's per-kind switch and convPrimType's primitive table, over
// this module's closed type-kind variant (spec §3.1) instead of Chai's
// typing.DataType. There is no floating-point kind in spec §3.1's type
// variant (bool/byte/int/uint/void/unknown/overload-set, arbitrary-width
// integer, FFI, pointer, reference, array, dynamic array, struct, enum,
// function, named), so unlike the teacher's generator this converter never
// needs Float/Double.
func convType(tctx *types.Context, t types.Type) lltypes.Type {
	switch v := t.(type) {
	case *types.BuiltinType:
		switch v.Kind {
		case types.Bool:
			return lltypes.I1
		case types.Byte:
			return lltypes.I8
		case types.Int, types.UInt:
			return intOfWidth(tctx.PointerWidth * 8)
		case types.Void:
			return lltypes.Void
		default:
			// Unknown/OverloadSet are analysis-only placeholder kinds
			// (types/builtin.go: "the type of an expression that has not
			// been inferred yet" / "a name bound to multiple
			// declarations"); sema resolves every expression to a
			// concrete type before lowering runs, so neither survives to
			// codegen.
			panic(fmt.Sprintf("llvmgen: builtin kind %q survived to codegen", v.Repr()))
		}

	case *types.IntegerType:
		return intOfWidth(v.Width)

	case *types.FFIType:
		return intOfWidth(v.Size(tctx) * 8)

	case *types.PointerType:
		return lltypes.NewPointer(convType(tctx, v.ElemType))

	case *types.ReferenceType:
		// A reference is represented as a raw address at the IR level
		// (lower/cast.go's CastLValueToReference just returns the
		// address, with no separate instruction); it shares a pointer's
		// LLVM representation.
		return lltypes.NewPointer(convType(tctx, v.ElemType))

	case *types.ArrayType:
		return lltypes.NewArray(uint64(v.Dimension), convType(tctx, v.ElemType))

	case *types.DynArrayType:
		return dynArrayType(tctx, v)

	case *types.StructType:
		fields := make([]lltypes.Type, len(v.Fields))
		for i, f := range v.Fields {
			fields[i] = convType(tctx, f.Type)
		}
		return lltypes.NewStruct(fields...)

	case *types.EnumType:
		return convType(tctx, v.Underlying)

	case *types.FunctionType:
		params := make([]lltypes.Type, len(v.Params))
		for i, p := range v.Params {
			params[i] = convType(tctx, p.Type)
		}
		return lltypes.NewFunc(convType(tctx, v.ReturnType), params...)

	case *types.NamedType:
		// types/function.go documents this as unreachable: "Sema replaces
		// the owning expression's cached type with the resolved
		// underlying type once lookup succeeds; a NamedType that survives
		// to codegen is, by construction, an error already reported."
		panic(fmt.Sprintf("llvmgen: named type %q survived to codegen", v.Name))

	case types.ErroredType:
		panic("llvmgen: errored type survived to codegen")
	}

	panic(fmt.Sprintf("llvmgen: unhandled type %T", t))
}

// dynArrayType lays out a dynamic array as {data *Elem, length, capacity},
// the three pointer-width-word representation types.DynArrayType.Size
// documents.
func dynArrayType(tctx *types.Context, dt *types.DynArrayType) lltypes.Type {
	word := intOfWidth(tctx.PointerWidth * 8)
	return lltypes.NewStruct(lltypes.NewPointer(convType(tctx, dt.ElemType)), word, word)
}

// intOfWidth returns the LLVM integer type of the given bit width,
// preferring the named constants the teacher's conv_type.go uses
// (types.I1/I8/I16/I32/I64) and falling back to types.NewInt for the
// arbitrary widths spec §3.1's IntegerType allows (eg. i17) that the
// teacher's own fixed primitive set never has to produce.
func intOfWidth(bits int) *lltypes.IntType {
	switch bits {
	case 1:
		return lltypes.I1
	case 8:
		return lltypes.I8
	case 16:
		return lltypes.I16
	case 32:
		return lltypes.I32
	case 64:
		return lltypes.I64
	default:
		return lltypes.NewInt(uint64(bits))
	}
}
