// Package types implements the type system described in spec §3.1: a
// closed, tagged variant of data types shared by the AST, the semantic
// analyzer and the IR. Grounded on the teacher's types/types.go (Type
// interface with structural equals/Size/Align/Repr), generalized to the
// fuller kind set and invariants of the specification (arbitrary-width
// integers, FFI ABI integers, named types compared by identity, array
// dimensions evaluated as constants, reference-never-nests).
package types

// Context carries target-dependent facts needed to compute size and
// alignment (pointer width varies per target architecture, per spec §4.4's
// "target description"). It is threaded through every Size/Align call
// rather than hardcoded so the same Type graph can be asked about multiple
// targets.
type Context struct {
	// PointerWidth is the width, in bytes, of a pointer/reference on the
	// target (8 for the representative x86-64 backend).
	PointerWidth int
}

// DefaultContext is the x86-64 target description used when no other
// context is supplied (tests, the textual-IR round trip, REPL-style tools).
var DefaultContext = &Context{PointerWidth: 8}

// State is the analysis state carried by every expression that has a
// cached Type (spec §3.1: "a state flag ∈ {not analyzed, analyzing, done,
// errored}"). It lives here, next to Type, because size/align's validity
// invariant is phrased in terms of it.
type State int

const (
	StateNotAnalyzed State = iota
	StateAnalyzing
	StateDone
	StateErrored
)

// Type is the common interface implemented by every type kind enumerated
// in spec §3.1.
type Type interface {
	// Size returns the size of the type in bytes under ctx. Only valid once
	// the type's owning expression has reached StateDone or StateErrored;
	// an errored type reports size 0 (invariant, spec §3.1).
	Size(ctx *Context) int

	// Align returns the alignment of the type in bytes under ctx. An
	// errored type reports align 1 (invariant, spec §3.1).
	Align(ctx *Context) int

	// Equal reports structural equality per the per-kind rules of spec
	// §3.1 (anonymous structs structural, named structs/enums by identity,
	// integers by (width, signed), FFI by FFI kind).
	Equal(other Type) bool

	// Elem returns the element type of a sequence-like type (pointer,
	// reference, array, dynamic array) or nil if the type is not
	// sequence-like.
	Elem() Type

	// Repr returns the pretty-printed representation of the type.
	Repr() string
}

// Equal is the free-function form of Type.Equal, convenient when either
// operand might be nil (two nil types are considered unequal — absence of
// a type is never itself a type).
func Equal(a, b Type) bool {
	if a == nil || b == nil {
		return false
	}
	return a.Equal(b)
}

// StripReferences removes at most one level of Reference from t (spec
// invariant: "References never nest: &&T is forbidden; strip_references
// removes at most one reference"). Calling it twice in a row is therefore
// idempotent, which is exactly the testable property in spec §8.
func StripReferences(t Type) Type {
	if ref, ok := t.(*ReferenceType); ok {
		return ref.ElemType
	}
	return t
}

// ErroredType is the sentinel type assigned to an expression whose
// analysis failed (spec §3.1: "a cached type (or Void when untyped)"; an
// errored expression still needs *some* type so callers can keep walking
// without special-casing nil). Size/Align report 0/1 per the invariant.
type ErroredType struct{}

func (ErroredType) Size(*Context) int    { return 0 }
func (ErroredType) Align(*Context) int   { return 1 }
func (ErroredType) Elem() Type           { return nil }
func (ErroredType) Repr() string         { return "<error>" }
func (ErroredType) Equal(other Type) bool {
	_, ok := other.(ErroredType)
	return ok
}
