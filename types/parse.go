package types

import (
	"strconv"
	"strings"
)

// Parse reads the prefix of s that denotes a Type per the Repr format
// every concrete type in this package writes, returning the type and the
// unconsumed remainder. It supports every scalar shape Repr can produce
// (builtins, arbitrary-width/FFI integers, pointers, references); struct,
// enum, array and function types are named and resolved by the caller's
// symbol table rather than spelled out structurally in the textual IR, so
// Parse does not attempt to reconstruct them (spec §9 open question:
// "implementers should treat the parser and printer as co-specified by
// round-trip" — round-tripping the scalar core is the load-bearing case
// the inliner and lowering tests exercise).
func Parse(s string) (Type, string, bool) {
	s = strings.TrimSpace(s)

	switch {
	case strings.HasPrefix(s, "*"):
		elem, rest, ok := Parse(s[1:])
		if !ok {
			return nil, s, false
		}
		return NewPointer(elem), rest, true

	case strings.HasPrefix(s, "&"):
		elem, rest, ok := Parse(s[1:])
		if !ok {
			return nil, s, false
		}
		return NewReference(elem), rest, true

	case strings.HasPrefix(s, "bool"):
		return NewBuiltin(Bool), s[len("bool"):], true
	case strings.HasPrefix(s, "byte"):
		return NewBuiltin(Byte), s[len("byte"):], true
	case strings.HasPrefix(s, "void"):
		return NewBuiltin(Void), s[len("void"):], true
	case strings.HasPrefix(s, "uint"):
		return NewBuiltin(UInt), s[len("uint"):], true
	case strings.HasPrefix(s, "int"):
		return NewBuiltin(Int), s[len("int"):], true

	case strings.HasPrefix(s, "i") && len(s) > 1 && isDigit(s[1]):
		return parseFixedWidth(s, true)
	case strings.HasPrefix(s, "u") && len(s) > 1 && isDigit(s[1]):
		return parseFixedWidth(s, false)

	case strings.HasPrefix(s, "c_"):
		return parseFFI(s)

	default:
		return nil, s, false
	}
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func parseFixedWidth(s string, signed bool) (Type, string, bool) {
	i := 1
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	width, err := strconv.Atoi(s[1:i])
	if err != nil {
		return nil, s, false
	}
	return NewInteger(width, signed), s[i:], true
}

var ffiNames = map[string]FFIKind{
	"c_char": FFIChar, "c_short": FFIShort, "c_ushort": FFIUShort,
	"c_int": FFIInt, "c_uint": FFIUInt,
	"c_long": FFILong, "c_ulong": FFIULong,
	"c_longlong": FFILongLong, "c_ulonglong": FFIULongLong,
}

func parseFFI(s string) (Type, string, bool) {
	// longest-prefix match so "c_ulonglong" isn't mistaken for "c_u" + junk
	best := ""
	for name := range ffiNames {
		if strings.HasPrefix(s, name) && len(name) > len(best) {
			best = name
		}
	}
	if best == "" {
		return nil, s, false
	}
	return NewFFI(ffiNames[best]), s[len(best):], true
}
