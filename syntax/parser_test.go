package syntax

import (
	"bufio"
	"strings"
	"testing"

	"emberc/ast"
	"emberc/report"
)

func parseSource(t *testing.T, src string) (*ast.Module, bool) {
	t.Helper()
	ctx := report.NewCompilationContext("test.ember", "test.ember")
	mod := ast.NewModule("test", "test.ember", ast.NewScope(nil), ctx)
	p := NewParser(mod, bufio.NewReader(strings.NewReader(src)))
	return mod, p.Parse() && !ctx.HasError
}

func TestParseFuncDeclWithControlFlowAndExpressions(t *testing.T) {
	src := `
import other;

extern func puts(s: *byte): int;

func add(a: int, b: int): int {
	let total: int = a + b * 2;
	if total > 10 {
		return total;
	} else {
		return 0;
	}
}

func countdown(n: int): void {
	while n > 0 {
		n -= 1;
	}
	for (let i: int = 0; i < n; i += 1) {
		puts(0 as *byte);
	}
}
`
	mod, ok := parseSource(t, src)
	if !ok {
		t.Fatal("expected the source to parse without error")
	}

	if _, ok := mod.Imports["other"]; !ok {
		t.Fatal("expected \"other\" to be recorded as an import")
	}

	if len(mod.Funcs) != 3 {
		t.Fatalf("expected 3 functions, got %d", len(mod.Funcs))
	}

	puts := mod.Funcs[0]
	if puts.Name != "puts" || !puts.IsExtern || puts.Body != nil {
		t.Fatalf("expected puts to be an extern, bodyless declaration, got %+v", puts)
	}

	add := mod.Funcs[1]
	if add.Name != "add" || add.IsExtern {
		t.Fatalf("expected add to be a defined function, got %+v", add)
	}
	body, ok := add.Body.(*ast.Block)
	if !ok || len(body.Children) != 2 {
		t.Fatalf("expected add's body to have 2 statements, got %+v", add.Body)
	}
	if _, ok := body.Children[0].(*ast.VarDecl); !ok {
		t.Fatalf("expected the first statement to be a var decl, got %T", body.Children[0])
	}
	ifStmt, ok := body.Children[1].(*ast.If)
	if !ok || ifStmt.Else == nil {
		t.Fatalf("expected the second statement to be an if/else, got %+v", body.Children[1])
	}

	countdown := mod.Funcs[2]
	cbody := countdown.Body.(*ast.Block)
	if _, ok := cbody.Children[0].(*ast.While); !ok {
		t.Fatalf("expected countdown's first statement to be a while loop, got %T", cbody.Children[0])
	}
	if _, ok := cbody.Children[1].(*ast.For); !ok {
		t.Fatalf("expected countdown's second statement to be a for loop, got %T", cbody.Children[1])
	}
}

func TestParseExpressionPrecedence(t *testing.T) {
	mod, ok := parseSource(t, "func f(): int { return 1 + 2 * 3; }")
	if !ok {
		t.Fatal("expected the source to parse without error")
	}

	ret := mod.Funcs[0].Body.(*ast.Block).Children[0].(*ast.Return)
	bin, ok := ret.Operand.(*ast.BinaryExpr)
	if !ok || bin.Op != ast.OpAdd {
		t.Fatalf("expected the top-level operator to be +, got %+v", ret.Operand)
	}
	rhs, ok := bin.Rhs.(*ast.BinaryExpr)
	if !ok || rhs.Op != ast.OpMul {
		t.Fatalf("expected * to bind tighter than +, got %+v", bin.Rhs)
	}
}

func TestParseAssignmentIsRightAssociative(t *testing.T) {
	mod, ok := parseSource(t, "func f(): void { let a: int = 0; let b: int = 0; a = b = 1; }")
	if !ok {
		t.Fatal("expected the source to parse without error")
	}

	stmt := mod.Funcs[0].Body.(*ast.Block).Children[2]
	assign, ok := stmt.(*ast.BinaryExpr)
	if !ok || assign.Op != ast.OpAssign {
		t.Fatalf("expected an assignment expression, got %+v", stmt)
	}
	if _, ok := assign.Rhs.(*ast.BinaryExpr); !ok {
		t.Fatalf("expected the rhs of a = b = 1 to itself be an assignment, got %+v", assign.Rhs)
	}
}

func TestParseRejectsUnclosedBlock(t *testing.T) {
	if _, ok := parseSource(t, "func f(): void {"); ok {
		t.Fatal("expected an unclosed block to fail to parse")
	}
}

func TestParseFunctionNameClashingWithVarFails(t *testing.T) {
	if _, ok := parseSource(t, "let x: int = 0; func x(): void {}"); ok {
		t.Fatal("expected a function sharing a name with an existing non-function binding to fail")
	}
}
