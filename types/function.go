package types

// CallingConvention enumerates the ABI a FunctionType uses (spec §4.4
// "calling convention" on IRFunction; spec §6.1 "calling-convention
// selector (mswin, linux)").
type CallingConvention int

const (
	CConvDefault CallingConvention = iota
	CConvCDecl
	CConvMSWin
	CConvLinux
)

// FuncParam is one named, typed parameter of a FunctionType.
type FuncParam struct {
	Name string
	Type Type
}

// FunctionType is a function signature (spec §3.1: "function (ordered
// parameters with names/types, return type, calling convention, variadic
// flag)"). Function values (first-class functions, function pointers) use
// this same type; there is no separate "function pointer" type — spec
// §4.1.2 rule 8 ("Function → function pointer") is a conversion, not a
// distinct type.
type FunctionType struct {
	Params     []FuncParam
	ReturnType Type
	CConv      CallingConvention
	Variadic   bool
}

func NewFunction(params []FuncParam, ret Type, cconv CallingConvention, variadic bool) *FunctionType {
	return &FunctionType{Params: params, ReturnType: ret, CConv: cconv, Variadic: variadic}
}

func (ft *FunctionType) Equal(other Type) bool {
	oft, ok := other.(*FunctionType)
	if !ok || len(ft.Params) != len(oft.Params) || ft.Variadic != oft.Variadic {
		return false
	}
	for i, p := range ft.Params {
		if !Equal(p.Type, oft.Params[i].Type) {
			return false
		}
	}
	return Equal(ft.ReturnType, oft.ReturnType)
}

// Size/Align: a function value is always addressed through a pointer
// (a function pointer, or the call target of a direct call); a bare
// FunctionType is never itself stored, so these report pointer width as a
// practical default rather than panicking.
func (ft *FunctionType) Size(ctx *Context) int  { return ctx.PointerWidth }
func (ft *FunctionType) Align(ctx *Context) int { return ctx.PointerWidth }
func (ft *FunctionType) Elem() Type             { return nil }

func (ft *FunctionType) Repr() string {
	repr := "("
	for i, p := range ft.Params {
		if i > 0 {
			repr += ", "
		}
		repr += p.Name + ": " + p.Type.Repr()
	}
	if ft.Variadic {
		repr += ", ..."
	}
	return repr + ") -> " + ft.ReturnType.Repr()
}

// NamedType is a forward-referenced, not-yet-resolved type name (spec
// §3.1: "named (unresolved)"). Sema replaces the owning expression's cached
// type with the resolved underlying type once lookup succeeds; a NamedType
// that survives to codegen is, by construction, an error already reported.
type NamedType struct {
	Name string
}

func NewNamed(name string) *NamedType {
	return &NamedType{Name: name}
}

func (nt *NamedType) Equal(other Type) bool {
	ont, ok := other.(*NamedType)
	return ok && nt.Name == ont.Name
}

func (nt *NamedType) Size(*Context) int  { return 0 }
func (nt *NamedType) Align(*Context) int { return 1 }
func (nt *NamedType) Elem() Type         { return nil }
func (nt *NamedType) Repr() string       { return nt.Name }
