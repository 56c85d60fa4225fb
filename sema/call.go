package sema

import (
	"emberc/ast"
	"emberc/common"
	"emberc/types"
)

// analyzeCall implements spec §4.1.3 "Call": analyze the callee; resolve
// an overload set by argument scores; convert each argument to its
// matching parameter type; mark direct calls to statically-known
// functions.
func (a *Analyzer) analyzeCall(exprPtr *ast.Expr, call *ast.Call) bool {
	if !a.Analyse(&call.Callee) {
		return false
	}

	argsOK := true
	for i := range call.Args {
		if !a.Analyse(&call.Args[i]) {
			argsOK = false
		}
	}
	if !argsOK {
		return false
	}

	if os, isOverloadSet := call.Callee.(*ast.OverloadSet); isOverloadSet {
		resolved, ok := a.resolveOverload(os, call.Args)
		if !ok {
			return false
		}
		ref := ast.NewNameRef(call.Callee.Position(), os.Name)
		ref.Decl = resolved
		ref.SetType(resolved.Type())
		ref.SetCategory(ast.RValue)
		ref.SetState(types.StateDone)
		call.Callee = ref
	}

	sig, ok := callableSignature(call.Callee.Type())
	if !ok {
		a.error(call.Position(), "cannot call a value of type %s", call.Callee.Type().Repr())
		return false
	}

	if !a.convertArgs(call, sig) {
		return false
	}

	if ref, isRef := call.Callee.(*ast.NameRef); isRef {
		if fd, isFunc := ref.Decl.(*ast.FuncDecl); isFunc {
			call.IsDirect = true
			_ = fd
		}
	}

	call.SetType(sig.ReturnType)
	call.SetCategory(ast.RValue)
	return true
}

func callableSignature(t types.Type) (*types.FunctionType, bool) {
	switch tt := t.(type) {
	case *types.FunctionType:
		return tt, true
	case *types.PointerType:
		if fn, ok := tt.ElemType.(*types.FunctionType); ok {
			return fn, true
		}
	}
	return nil, false
}

func (a *Analyzer) convertArgs(call *ast.Call, sig *types.FunctionType) bool {
	ok := true
	for i := range call.Args {
		var target types.Type
		if i < len(sig.Params) {
			target = sig.Params[i].Type
		} else if sig.Variadic {
			// Variadic FFI parameters follow C promotion rules (spec
			// §4.1.3): small integers promote to c_int, and nothing else
			// needs conversion for the representative target.
			if _, isInt := asIntegerLike(call.Args[i].Type()); isInt {
				target = types.NewFFI(types.FFIInt)
			} else {
				continue
			}
		} else {
			a.error(call.Position(), "too many arguments to call")
			return false
		}
		if !a.Convert(&call.Args[i], target) {
			ok = false
		}
	}
	if len(call.Args) < len(sig.Params) {
		a.error(call.Position(), "too few arguments to call")
		ok = false
	}
	return ok
}

// resolveOverload implements spec §4.1.2 rule 9: try each candidate
// against the target; the unique lowest-score candidate wins; ambiguity
// is an error.
func (a *Analyzer) resolveOverload(os *ast.OverloadSet, args []ast.Expr) (*ast.FuncDecl, bool) {
	type candidateScore struct {
		fn    *ast.FuncDecl
		score int
	}

	var scored []candidateScore
	for _, cand := range os.Candidates {
		if cand.State() == types.StateNotAnalyzed {
			a.analyzeFunc(cand)
		}
		if cand.State() == types.StateErrored {
			continue
		}
		sig := cand.Signature
		if len(args) != len(sig.Params) && !sig.Variadic {
			continue
		}

		total := 0
		feasible := true
		for i, arg := range args {
			if i >= len(sig.Params) {
				break
			}
			s := a.TryConvert(arg, sig.Params[i].Type)
			if s == common.ScoreIllegal {
				feasible = false
				break
			}
			if s > 0 {
				total += s
			}
		}
		if feasible {
			scored = append(scored, candidateScore{cand, total})
		}
	}

	if len(scored) == 0 {
		a.error(os.Position(), "no overload of %q matches the given arguments", os.Name)
		return nil, false
	}

	best := scored[0]
	ambiguous := false
	for _, c := range scored[1:] {
		if c.score < best.score {
			best = c
			ambiguous = false
		} else if c.score == best.score {
			ambiguous = true
		}
	}
	if ambiguous {
		a.error(os.Position(), "ambiguous call to overloaded function %q", os.Name)
		return nil, false
	}

	return best.fn, true
}

func (a *Analyzer) analyzeIntrinsicCall(ic *ast.IntrinsicCall) bool {
	ok := true
	for i := range ic.Args {
		if !a.Analyse(&ic.Args[i]) {
			ok = false
		}
	}
	if !ok {
		return false
	}
	// Intrinsics are resolved by name against a fixed compiler-known set;
	// their result type is int by convention for every currently
	// supported intrinsic (eg. `__builtin_trap`, `__builtin_unreachable`).
	ic.SetType(types.NewBuiltin(types.Int))
	ic.SetCategory(ast.RValue)
	return true
}
