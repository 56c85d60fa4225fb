package mir

import (
	"testing"

	"emberc/ir"
	"emberc/types"
)

func TestBuildSymbolTable(t *testing.T) {
	intType := types.NewBuiltin(types.Int)
	sig := types.NewFunction(nil, intType, types.CConvDefault, false)

	extern := ir.NewFunction("puts", sig)
	extern.Extern = true

	defined := ir.NewFunction("main", sig)
	defined.NewBlock("entry")

	dataVar := ir.NewStaticVar("greeting", intType)
	lit := ir.NewInstruction(ir.OpImmediate, intType)
	lit.ImmValue = 7
	dataVar.Initializer = lit

	bssVar := ir.NewStaticVar("counter", intType)

	ctx := &ir.Context{
		Functions: []*ir.Function{extern, defined},
		Statics:   []*ir.StaticVar{dataVar, bssVar},
		Target:    ir.TargetDesc{Ctx: types.DefaultContext},
	}

	b := NewBuilder(func(fn *ir.Function) []byte {
		return []byte{0x90, 0x90, 0x90}
	})
	obj := b.Build(ctx)

	putsSym, ok := obj.Lookup("puts")
	if !ok || !putsSym.Extern || putsSym.Section != ir.SectionNone {
		t.Fatalf("expected puts to be an external symbol, got %+v", putsSym)
	}

	mainSym, ok := obj.Lookup("main")
	if !ok || mainSym.Extern || mainSym.Section != ir.SectionText || mainSym.Offset != 0 {
		t.Fatalf("expected main at .text offset 0, got %+v", mainSym)
	}
	if len(obj.Text) != 3 {
		t.Fatalf("expected the encoder's 3 bytes in .text, got %d", len(obj.Text))
	}

	greetSym, ok := obj.Lookup("greeting")
	if !ok || greetSym.Section != ir.SectionData || greetSym.Offset != 0 {
		t.Fatalf("expected greeting at .data offset 0, got %+v", greetSym)
	}
	if len(obj.Data) != types.DefaultContext.PointerWidth {
		t.Fatalf("expected .data to hold one int-width initializer, got %d bytes", len(obj.Data))
	}

	counterSym, ok := obj.Lookup("counter")
	if !ok || counterSym.Section != ir.SectionBSS || counterSym.Offset != 0 {
		t.Fatalf("expected counter at .bss offset 0, got %+v", counterSym)
	}
	if obj.BSS != int64(types.DefaultContext.PointerWidth) {
		t.Fatalf("expected .bss to reserve one int width, got %d", obj.BSS)
	}
}

func TestBuildNilEncoderLeavesEmptyText(t *testing.T) {
	intType := types.NewBuiltin(types.Int)
	sig := types.NewFunction(nil, intType, types.CConvDefault, false)
	fn := ir.NewFunction("f", sig)
	fn.NewBlock("entry")

	ctx := &ir.Context{
		Functions: []*ir.Function{fn},
		Target:    ir.TargetDesc{Ctx: types.DefaultContext},
	}

	b := NewBuilder(nil)
	obj := b.Build(ctx)

	sym, ok := obj.Lookup("f")
	if !ok || sym.Offset != 0 {
		t.Fatalf("expected f at offset 0 with a nil encoder, got %+v", sym)
	}
	if len(obj.Text) != 0 {
		t.Fatalf("expected no text bytes with a nil encoder, got %d", len(obj.Text))
	}
}

func TestLookupMissingSymbol(t *testing.T) {
	obj := NewGenericObject()
	if _, ok := obj.Lookup("nonexistent"); ok {
		t.Fatal("expected Lookup to report false for a symbol that was never added")
	}
}
