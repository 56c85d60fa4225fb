package sema

import (
	"emberc/ast"
	"emberc/types"
)

func (a *Analyzer) analyzeIf(exprPtr *ast.Expr, ifExpr *ast.If) bool {
	ok := a.Analyse(&ifExpr.Cond)
	if ok && !a.Convert(&ifExpr.Cond, types.NewBuiltin(types.Bool)) {
		ok = false
	}

	if !a.Analyse(&ifExpr.Then) {
		ok = false
	}

	if ifExpr.Else == nil {
		ifExpr.SetType(types.NewBuiltin(types.Void))
		ifExpr.SetCategory(ast.RValue)
		return ok
	}

	if !a.Analyse(&ifExpr.Else) {
		ok = false
	}
	if !ok {
		return false
	}

	common, commonOK := a.ConvertToCommonType(&ifExpr.Then, &ifExpr.Else)
	if !commonOK {
		return false
	}
	ifExpr.SetType(common)
	ifExpr.SetCategory(ast.RValue)
	return true
}

func (a *Analyzer) analyzeWhile(w *ast.While) bool {
	ok := a.Analyse(&w.Cond)
	if ok && !a.Convert(&w.Cond, types.NewBuiltin(types.Bool)) {
		ok = false
	}
	if !a.Analyse(&w.Body) {
		ok = false
	}
	w.SetType(types.NewBuiltin(types.Void))
	w.SetCategory(ast.RValue)
	return ok
}

func (a *Analyzer) analyzeFor(f *ast.For) bool {
	ok := true
	if f.Init != nil && !a.Analyse(&f.Init) {
		ok = false
	}
	if f.Cond != nil {
		if !a.Analyse(&f.Cond) {
			ok = false
		} else if !a.Convert(&f.Cond, types.NewBuiltin(types.Bool)) {
			ok = false
		}
	}
	if !a.Analyse(&f.Body) {
		ok = false
	}
	if f.Iterator != nil && !a.Analyse(&f.Iterator) {
		ok = false
	}
	f.SetType(types.NewBuiltin(types.Void))
	f.SetCategory(ast.RValue)
	return ok
}

func (a *Analyzer) analyzeBlock(b *ast.Block) bool {
	ok := true
	for i := range b.Children {
		if !a.Analyse(&b.Children[i]) {
			ok = false
		}
	}

	// The block's value is the last non-declaration child's value if the
	// block is non-void (spec §4.2 "Block").
	voidType := types.NewBuiltin(types.Void)
	b.SetType(voidType)
	if len(b.Children) > 0 {
		last := b.Children[len(b.Children)-1]
		switch last.(type) {
		case *ast.FuncDecl, *ast.VarDecl, *ast.TypeDecl, *ast.EnumeratorDecl:
			// declarations never produce a value
		default:
			b.SetType(last.Type())
		}
	}
	b.SetCategory(ast.RValue)
	return ok
}

func (a *Analyzer) analyzeReturn(r *ast.Return) bool {
	expected := a.curFunc.Signature.ReturnType

	if r.Operand == nil {
		r.SetType(types.NewBuiltin(types.Void))
		r.SetCategory(ast.RValue)
		if !types.Equal(expected, types.NewBuiltin(types.Void)) {
			a.error(r.Position(), "missing return value; function returns %s", expected.Repr())
			return false
		}
		return true
	}

	if !a.Analyse(&r.Operand) {
		return false
	}
	if !a.Convert(&r.Operand, expected) {
		return false
	}
	r.SetType(expected)
	r.SetCategory(ast.RValue)
	return true
}
