// Package mir implements the backend scaffolding of spec §4.4/§6.4: a
// GenericObject with .text/.data/.bss sections and a flat symbol table,
// built from a Context's functions and statics after optimization. The
// actual instruction encoder is an unspecified collaborator (spec §4.4);
// this package produces the object shape a real encoder would fill in,
// grounded on the teacher's own Bundle/Section split in its ir package
// (SectionText/SectionData/SectionBSS), generalized to a standalone
// writable object rather than an LLVM-text emission target.
package mir

import (
	"fmt"

	"emberc/ir"
	"emberc/types"
)

// Symbol is one entry of the object's flat symbol table (spec §6.4: "a
// flat symbol table keyed by (name, section, byte_offset) plus external
// symbols with no offset").
type Symbol struct {
	Name    string
	Section ir.Section
	Offset  int64 // meaningless when Section == ir.SectionNone
	Extern  bool
}

// GenericObject is the backend's output unit: three standard sections
// plus a symbol table (spec §4.4 "constructs a GenericObject with at
// least .text, .data, .bss sections"). Section contents are raw bytes;
// an encoder collaborator is responsible for turning MIR instructions
// into the Text bytes and literal/static data into Data/BSS.
type GenericObject struct {
	Text []byte
	Data []byte
	BSS  int64 // BSS has no bytes, only a reserved size

	Symbols []Symbol
}

// NewGenericObject returns an empty object ready to receive sections.
func NewGenericObject() *GenericObject {
	return &GenericObject{}
}

// AddSymbol appends a symbol to the object's table.
func (o *GenericObject) AddSymbol(s Symbol) {
	o.Symbols = append(o.Symbols, s)
}

// Lookup returns the symbol named name, or (Symbol{}, false) if none
// exists.
func (o *GenericObject) Lookup(name string) (Symbol, bool) {
	for _, s := range o.Symbols {
		if s.Name == name {
			return s, true
		}
	}
	return Symbol{}, false
}

// Builder assembles a GenericObject from a lowered, optimized ir.Context:
// one symbol per function (external if the function is itself an extern
// declaration, otherwise a .text symbol at the function's byte offset
// once its body is encoded) and one symbol per static per spec §4.4
// "Each MIR function becomes either an external symbol ... or a function
// symbol in .text with a byte offset", generalized here to statics as
// well since they need the same .data/.bss placement.
type Builder struct {
	obj *GenericObject

	// Encode lays out one function's machine code and returns it; the
	// returned byte count becomes the function's .text size. A nil
	// Encode leaves every function symbol at offset 0 with an empty
	// body — useful for testing the symbol-table shape without a real
	// encoder.
	Encode func(fn *ir.Function) []byte
}

// NewBuilder creates a Builder around a fresh GenericObject.
func NewBuilder(encode func(fn *ir.Function) []byte) *Builder {
	return &Builder{obj: NewGenericObject(), Encode: encode}
}

// Build walks ctx.Functions and ctx.Statics in order (spec §5: "ir blocks
// in list order" generalizes to object layout being equally
// deterministic) and returns the populated object.
func (b *Builder) Build(ctx *ir.Context) *GenericObject {
	tctx := ctx.Target.Ctx
	for _, fn := range ctx.Functions {
		b.placeFunction(fn)
	}
	for _, sv := range ctx.Statics {
		b.placeStatic(sv, tctx)
	}
	return b.obj
}

func (b *Builder) placeFunction(fn *ir.Function) {
	if fn.Extern {
		b.obj.AddSymbol(Symbol{Name: fn.Name, Section: ir.SectionNone, Extern: true})
		return
	}

	offset := int64(len(b.obj.Text))
	var code []byte
	if b.Encode != nil {
		code = b.Encode(fn)
	}
	b.obj.Text = append(b.obj.Text, code...)
	b.obj.AddSymbol(Symbol{Name: fn.Name, Section: ir.SectionText, Offset: offset})
}

func (b *Builder) placeStatic(sv *ir.StaticVar, tctx *types.Context) {
	switch sv.Section() {
	case ir.SectionNone:
		b.obj.AddSymbol(Symbol{Name: sv.Name, Section: ir.SectionNone, Extern: true})

	case ir.SectionData:
		offset := int64(len(b.obj.Data))
		b.obj.Data = append(b.obj.Data, encodeInitializer(sv, tctx)...)
		b.obj.AddSymbol(Symbol{Name: sv.Name, Section: ir.SectionData, Offset: offset})

	case ir.SectionBSS:
		offset := b.obj.BSS
		b.obj.BSS += int64(sv.Typ.Size(tctx))
		b.obj.AddSymbol(Symbol{Name: sv.Name, Section: ir.SectionBSS, Offset: offset})
	}
}

// encodeInitializer produces the raw bytes of a static's initializer.
// Only the constant-foldable shapes lowering ever produces (an integer
// literal or an interned string) are handled; anything else is an
// internal error since sema/lowering guarantee a .data static always
// carries one of these two initializer kinds.
func encodeInitializer(sv *ir.StaticVar, tctx *types.Context) []byte {
	init := sv.Initializer
	switch init.Op {
	case ir.OpLitInteger, ir.OpImmediate:
		return encodeIntLE(init.ImmValue, int64(sv.Typ.Size(tctx)))
	case ir.OpLitString:
		// The string bytes themselves live in the module's interner;
		// callers needing the text must look it up by StringIndex — the
		// object writer only reserves the static's byte span here.
		return make([]byte, sv.Typ.Size(tctx))
	default:
		panic(fmt.Sprintf("mir: static %q has an unencodable initializer opcode %s", sv.Name, init.Op))
	}
}

func encodeIntLE(v int64, size int64) []byte {
	buf := make([]byte, size)
	for i := int64(0); i < size; i++ {
		buf[i] = byte(v >> (8 * uint(i)))
	}
	return buf
}
