package ast

import "emberc/report"

// Block is a sequence of expressions/statements (spec §3.1 "block"; §4.2
// "Block"). Its value, when non-void, is the value of the last non-function
// child.
type Block struct {
	Base
	Children []Expr
}

func NewBlock(pos *report.TextPosition, children []Expr) *Block {
	return &Block{Base: NewBase(KindBlock, pos), Children: children}
}

// If is an if/else expression (spec §3.1 "if"; §4.2 "If"). Else may be nil
// for a bodied-statement if with no else arm; in that case the If's type
// must be Void (an if without an else cannot yield a value, since sema has
// nothing to convert the missing-else-arm's value to, mirroring the
// teacher's treatment of optional else blocks).
type If struct {
	Base
	Cond Expr
	Then Expr
	Else Expr // nil if there is no else arm
}

func NewIf(pos *report.TextPosition, cond, then, els Expr) *If {
	return &If{Base: NewBase(KindIf, pos), Cond: cond, Then: then, Else: els}
}

// While is a while loop (spec §3.1 "while"; §4.2 "While").
type While struct {
	Base
	Cond Expr
	Body Expr
}

func NewWhile(pos *report.TextPosition, cond, body Expr) *While {
	return &While{Base: NewBase(KindWhile, pos), Cond: cond, Body: body}
}

// For is a C-style for loop (spec §3.1 "for"; §4.2 "For"). Init and
// Iterator may be nil.
type For struct {
	Base
	Init     Expr
	Cond     Expr
	Iterator Expr
	Body     Expr
}

func NewFor(pos *report.TextPosition, init, cond, iterator, body Expr) *For {
	return &For{Base: NewBase(KindFor, pos), Init: init, Cond: cond, Iterator: iterator, Body: body}
}

// Return is a return statement (spec §3.1 "return"; §4.2 "Return").
// Operand is nil for a bare `return`.
type Return struct {
	Base
	Operand Expr
}

func NewReturn(pos *report.TextPosition, operand Expr) *Return {
	return &Return{Base: NewBase(KindReturn, pos), Operand: operand}
}
