package syntax

import "emberc/report"

// Token is a single lexical token (spec §3.1's surface syntax has no
// dedicated grammar section, so the lexer is grounded directly on the
// teacher's own token/lexer split).
type Token struct {
	Kind  TokKind
	Value string
	Pos   *report.TextPosition
}

// TokKind enumerates every token kind the lexer can produce.
type TokKind int

const (
	TokFunc TokKind = iota
	TokOper
	TokStruct
	TokEnum
	TokImport

	TokLet
	TokConst
	TokExtern
	TokForceInline

	TokIf
	TokElse
	TokFor
	TokWhile
	TokReturn
	TokAs
	TokSizeof
	TokAlignof

	TokIntType
	TokUintType
	TokByteType
	TokBoolType
	TokVoidType

	TokPlus
	TokMinus
	TokStar
	TokDiv
	TokMod

	TokEq
	TokNeq
	TokLt
	TokGt
	TokLtEq
	TokGtEq

	TokBWAnd
	TokBWOr
	TokBWXor
	TokBWNot
	TokLShift
	TokRShift

	TokAssign
	TokPlusEq
	TokMinusEq
	TokStarEq
	TokDivEq
	TokModEq
	TokLShiftEq
	TokRShiftEq
	TokBWAndEq
	TokBWOrEq
	TokBWXorEq

	TokLParen
	TokRParen
	TokLBrace
	TokRBrace
	TokLBracket
	TokRBracket
	TokComma
	TokDot
	TokSemi
	TokColon
	TokAtSign

	TokIdent
	TokIntLit
	TokStringLit

	TokEOF
)

// keywords maps every reserved identifier to its token kind.
var keywords = map[string]TokKind{
	"func":        TokFunc,
	"oper":        TokOper,
	"struct":      TokStruct,
	"enum":        TokEnum,
	"import":      TokImport,
	"let":         TokLet,
	"const":       TokConst,
	"extern":      TokExtern,
	"forceinline": TokForceInline,
	"if":          TokIf,
	"else":        TokElse,
	"for":         TokFor,
	"while":       TokWhile,
	"return":      TokReturn,
	"as":          TokAs,
	"sizeof":      TokSizeof,
	"alignof":     TokAlignof,
	"int":         TokIntType,
	"uint":        TokUintType,
	"byte":        TokByteType,
	"bool":        TokBoolType,
	"void":        TokVoidType,
}
