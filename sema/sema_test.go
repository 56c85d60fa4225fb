package sema

import (
	"testing"

	"emberc/ast"
	"emberc/report"
	"emberc/types"
)

func newTestModule() *ast.Module {
	ctx := report.NewCompilationContext("test.ember", "test.ember")
	return ast.NewModule("test", "test.ember", nil, ctx)
}

func TestArithmeticPromotion(t *testing.T) {
	mod := newTestModule()
	a := NewAnalyzer(mod, types.DefaultContext)

	lhs := ast.Expr(ast.NewIntLit(nil, 2))
	rhs := ast.Expr(ast.NewIntLit(nil, 3))
	bin := ast.NewBinaryExpr(nil, ast.OpAdd, lhs, rhs)

	expr := ast.Expr(bin)
	if !a.Analyse(&expr) {
		t.Fatal("expected analysis to succeed")
	}
	if !types.Equal(expr.Type(), types.NewBuiltin(types.Int)) {
		t.Fatalf("expected int result, got %s", expr.Type().Repr())
	}
}

func TestImplicitCastInsertsCastNode(t *testing.T) {
	mod := newTestModule()
	a := NewAnalyzer(mod, types.DefaultContext)

	byteLit := ast.NewEvaluatedConstInt(nil, types.NewInteger(8, false), 300)
	expr := ast.Expr(byteLit)

	if !a.Convert(&expr, types.NewBuiltin(types.Int)) {
		t.Fatal("expected conversion to succeed")
	}

	cast, ok := expr.(*ast.Cast)
	if !ok {
		t.Fatalf("expected a Cast node, got %T", expr)
	}
	if cast.Operand != ast.Expr(byteLit) {
		t.Fatal("cast operand must be the original expression (spec §8)")
	}
	if !types.Equal(cast.Type(), types.NewBuiltin(types.Int)) {
		t.Fatalf("expected cast result type int, got %s", cast.Type().Repr())
	}
}

func TestIfCommonTypeOfArms(t *testing.T) {
	mod := newTestModule()
	a := NewAnalyzer(mod, types.DefaultContext)

	cond := ast.Expr(ast.NewEvaluatedConstInt(nil, types.NewBuiltin(types.Bool), 1))
	then := ast.Expr(ast.NewIntLit(nil, 1))
	els := ast.Expr(ast.NewIntLit(nil, 2))
	ifExpr := ast.NewIf(nil, cond, then, els)

	expr := ast.Expr(ifExpr)
	if !a.Analyse(&expr) {
		t.Fatal("expected if analysis to succeed")
	}
	if !types.Equal(expr.Type(), types.NewBuiltin(types.Int)) {
		t.Fatalf("expected common type int, got %s", expr.Type().Repr())
	}
}

func TestVarDeclTypeInference(t *testing.T) {
	mod := newTestModule()
	a := NewAnalyzer(mod, types.DefaultContext)
	a.curScope = ast.NewScope(mod.RootScope)

	init := ast.Expr(ast.NewIntLit(nil, 42))
	vd := ast.NewVarDecl(nil, "x", nil, init)

	expr := ast.Expr(vd)
	if !a.Analyse(&expr) {
		t.Fatal("expected var decl analysis to succeed")
	}
	if !types.Equal(vd.Declared, types.NewBuiltin(types.Int)) {
		t.Fatalf("expected inferred type int, got %s", vd.Declared.Repr())
	}

	if _, ok := a.curScope.Lookup("x"); !ok {
		t.Fatal("expected x to be defined in scope after analysis")
	}
}

func TestAnalyseIsIdempotent(t *testing.T) {
	mod := newTestModule()
	a := NewAnalyzer(mod, types.DefaultContext)

	expr := ast.Expr(ast.NewIntLit(nil, 1))
	if !a.Analyse(&expr) {
		t.Fatal("first analysis should succeed")
	}
	firstType := expr.Type()

	if !a.Analyse(&expr) {
		t.Fatal("second analysis should also report success (idempotent)")
	}
	if expr.Type() != firstType {
		t.Fatal("idempotent re-analysis must not replace the cached type")
	}
}
