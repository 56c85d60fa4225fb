package ast

import (
	"emberc/report"
	"emberc/types"
)

// BinOp enumerates binary operators (spec §4.1.3 "Binary").
type BinOp int

const (
	OpAdd BinOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpShl
	OpShr
	OpBWAnd
	OpBWOr
	OpBWXor
	OpLt
	OpLe
	OpGt
	OpGe
	OpEq
	OpNe
	OpAssign
	OpSubscript
	// OpAddAssign..OpBWXorAssign are compound assignments; spec §4.1.3
	// requires they be rewritten via RewriteToBinaryOpThenAssign before
	// sema proceeds, so no IR opcode ever sees them directly.
	OpAddAssign
	OpSubAssign
	OpMulAssign
	OpDivAssign
	OpModAssign
	OpShlAssign
	OpShrAssign
	OpBWAndAssign
	OpBWOrAssign
	OpBWXorAssign
)

// IsCompoundAssign reports whether op is one of the `lhs op= rhs` forms
// that RewriteToBinaryOpThenAssign must expand.
func (op BinOp) IsCompoundAssign() bool {
	return op >= OpAddAssign && op <= OpBWXorAssign
}

// BaseOp returns the non-assigning operator underlying a compound
// assignment, eg. OpAddAssign -> OpAdd.
func (op BinOp) BaseOp() BinOp {
	return op - OpAddAssign + OpAdd
}

// BinaryExpr is a binary operator application (spec §3.1 "binary").
type BinaryExpr struct {
	Base
	Op       BinOp
	Lhs, Rhs Expr
}

func NewBinaryExpr(pos *report.TextPosition, op BinOp, lhs, rhs Expr) *BinaryExpr {
	return &BinaryExpr{Base: NewBase(KindBinary, pos), Op: op, Lhs: lhs, Rhs: rhs}
}

// UnOp enumerates unary operators (spec §4.1.3 "Unary").
type UnOp int

const (
	OpDeref  UnOp = iota // `@p`
	OpAddr               // `&x`
	OpBWNot              // `~x`
	OpNeg                // `-x`
	OpPos                // `+x`
)

// UnaryExpr is a unary operator application (spec §3.1 "unary").
type UnaryExpr struct {
	Base
	Op      UnOp
	Operand Expr
}

func NewUnaryExpr(pos *report.TextPosition, op UnOp, operand Expr) *UnaryExpr {
	return &UnaryExpr{Base: NewBase(KindUnary, pos), Op: op, Operand: operand}
}

// -----------------------------------------------------------------------------

// CastKind records which conversion rule inserted a Cast node (spec §4.1.2:
// "records the conversion (soft, hard, implicit, lvalue-to-rvalue,
// lvalue-to-reference, reference-to-lvalue)").
type CastKind int

const (
	CastSoft CastKind = iota
	CastHard
	CastImplicit
	CastLValueToRValue
	CastLValueToReference
	CastReferenceToLValue
)

// Cast is an explicit or sema-inserted type cast (spec §3.1 "cast"). Every
// inserted cast's operand is the original expression it replaced (spec §8
// testable property).
type Cast struct {
	Base
	CastKind CastKind
	Operand  Expr
}

func NewCast(pos *report.TextPosition, kind CastKind, operand Expr, to types.Type) *Cast {
	c := &Cast{Base: NewBase(KindCast, pos), CastKind: kind, Operand: operand}
	c.SetType(to)
	return c
}
