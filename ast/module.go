package ast

import (
	"emberc/report"
	"emberc/types"
	"emberc/util"
)

// Module owns every AST node, type, scope and interned string belonging to
// a single compiled source module (spec §3.1 "Module"). It has a synthetic
// top-level function whose body is a block of top-level statements, plus
// the list of explicit (named) functions and a mapping of imports.
//
// Lifecycle: nodes/types/scopes live for the module's lifetime and are
// freed at module teardown (spec §3.2 "Lifecycle"); in Go this simply
// means the Module (and everything it owns) becomes garbage once dropped —
// there is no explicit free step and Module has no teardown method
// (ir.Context.Teardown covers the IR side).
type Module struct {
	Name string
	Path string

	// TopLevel is the synthetic top-level function: a block of every
	// top-level statement in the module, analyzed and lowered exactly like
	// any other function body.
	TopLevel *FuncDecl

	// Funcs is every explicitly named function declared in the module
	// (the synthetic TopLevel is not included).
	Funcs []*FuncDecl

	// Imports maps an imported name to the module it resolves to.
	Imports map[string]*Module

	RootScope *Scope

	Strings *util.StringInterner
	Ctx     *report.CompilationContext
}

// NewModule creates an empty module rooted at the given universe scope.
func NewModule(name, path string, universe *Scope, ctx *report.CompilationContext) *Module {
	m := &Module{
		Name:    name,
		Path:    path,
		Imports: make(map[string]*Module),
		Strings: util.NewStringInterner(),
		Ctx:     ctx,
	}
	m.RootScope = NewScope(universe)

	topLevelBlock := NewBlock(nil, nil)
	topLevelSig := types.NewFunction(nil, types.NewBuiltin(types.Void), types.CConvDefault, false)
	m.TopLevel = NewFuncDecl(nil, "$top", topLevelSig, nil, topLevelBlock)
	m.TopLevel.IsGlobal = true

	return m
}

// Scope is a mapping from name to declaration, permitting multiple
// declarations for a single name only when every one of them is a function
// declaration — an overload set (spec §3.1 "Scope"). Lookups chain through
// Parent when the name is not found locally.
type Scope struct {
	Parent *Scope
	decls  map[string][]Expr
}

func NewScope(parent *Scope) *Scope {
	return &Scope{Parent: parent, decls: make(map[string][]Expr)}
}

// Lookup searches this scope and its ancestors for name, returning either
// a single declaration, an OverloadSet wrapping several FuncDecls, or
// (nil, false) if the name is unbound anywhere in the chain.
func (s *Scope) Lookup(name string) (Expr, bool) {
	for scope := s; scope != nil; scope = scope.Parent {
		if decls, ok := scope.decls[name]; ok {
			if len(decls) == 1 {
				return decls[0], true
			}

			candidates := make([]*FuncDecl, len(decls))
			for i, d := range decls {
				candidates[i] = d.(*FuncDecl)
			}
			return NewOverloadSet(nil, name, candidates), true
		}
	}

	return nil, false
}

// Define adds decl under name in this scope. It returns false if name is
// already bound to something other than a FuncDecl (multiple declarations
// are legal only when every one of them is a function declaration, per
// spec §3.1).
func (s *Scope) Define(name string, decl Expr) bool {
	existing, ok := s.decls[name]
	if !ok {
		s.decls[name] = []Expr{decl}
		return true
	}

	if _, isFunc := decl.(*FuncDecl); !isFunc {
		return false
	}
	for _, e := range existing {
		if _, isFunc := e.(*FuncDecl); !isFunc {
			return false
		}
	}

	s.decls[name] = append(existing, decl)
	return true
}

// DefineLocal is like Define but bypasses the overload-set merge rule: it
// always replaces/creates a single binding. Used for locals (parameters,
// variable declarations), which — unlike top-level functions — can never
// be overloaded.
func (s *Scope) DefineLocal(name string, decl Expr) {
	s.decls[name] = []Expr{decl}
}
