package types

import "testing"

func TestStripReferencesIdempotent(t *testing.T) {
	ctx := DefaultContext
	inner := NewBuiltin(Int)
	ref := NewReference(inner)

	once := StripReferences(ref)
	twice := StripReferences(once)

	if !Equal(once, twice) {
		t.Fatalf("strip_references not idempotent: once=%s twice=%s", once.Repr(), twice.Repr())
	}
	if !Equal(once, inner) {
		t.Fatalf("expected stripped type to equal inner type")
	}
	_ = ctx
}

func TestReferenceNeverNests(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic constructing &&T")
		}
	}()

	inner := NewReference(NewBuiltin(Int))
	NewReference(inner)
}

func TestTypeEqualReflexive(t *testing.T) {
	cases := []Type{
		NewBuiltin(Int),
		NewInteger(17, true),
		NewFFI(FFIUInt),
		NewPointer(NewBuiltin(Byte)),
		NewArray(NewBuiltin(Byte), 4),
		NewDynArray(NewBuiltin(Byte)),
		NewAnonymousStruct([]StructField{{Name: "x", Type: NewBuiltin(Int)}}, DefaultContext),
		NewNamedStruct("Point", []StructField{{Name: "x", Type: NewBuiltin(Int)}}, DefaultContext),
		NewEnum("Color", NewBuiltin(Int), []string{"Red", "Green"}),
		NewFunction([]FuncParam{{Name: "a", Type: NewBuiltin(Int)}}, NewBuiltin(Void), CConvDefault, false),
	}

	for _, typ := range cases {
		if !typ.Equal(typ) {
			t.Errorf("%s is not equal to itself", typ.Repr())
		}
	}
}

func TestNamedStructIdentityNotStructural(t *testing.T) {
	a := NewNamedStruct("Point", []StructField{{Name: "x", Type: NewBuiltin(Int)}}, DefaultContext)
	b := NewNamedStruct("Point", []StructField{{Name: "x", Type: NewBuiltin(Int)}}, DefaultContext)

	if a.Equal(b) {
		t.Fatal("two distinct named struct declarations must not be Equal")
	}
}

func TestAnonymousStructStructural(t *testing.T) {
	a := NewAnonymousStruct([]StructField{{Name: "x", Type: NewBuiltin(Int)}}, DefaultContext)
	b := NewAnonymousStruct([]StructField{{Name: "x", Type: NewBuiltin(Int)}}, DefaultContext)

	if !a.Equal(b) {
		t.Fatal("two anonymous structs with identical fields must be Equal")
	}
}

func TestErroredTypeSizeAlign(t *testing.T) {
	var e Type = ErroredType{}
	if e.Size(DefaultContext) != 0 {
		t.Fatal("errored type must report size 0")
	}
	if e.Align(DefaultContext) != 1 {
		t.Fatal("errored type must report align 1")
	}
}

func TestIntegerEqualityByWidthAndSign(t *testing.T) {
	a := NewInteger(32, true)
	b := NewInteger(32, false)
	c := NewInteger(32, true)

	if a.Equal(b) {
		t.Fatal("i32 must not equal u32")
	}
	if !a.Equal(c) {
		t.Fatal("two i32 types must be equal")
	}
}
