// Package cmd is the top-level driver for emberc: argument parsing,
// pipeline orchestration (depm -> resolve -> sema -> lower -> optimize ->
// mir), and the CLI entry points. Grounded on the teacher's own cmd/
// package (a Compiler struct threading configuration through Analyze/
// Generate phases, report.ReportCompileHeader/ReportCompilationFinished
// bracketing the run) generalized to this specification's module graph
// (depm.Project + resolve.Resolver) in place of the teacher's dependency
// graph of ChaiModule/ChaiPackage.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"emberc/ast"
	"emberc/backend/llvmgen"
	"emberc/depm"
	"emberc/ir"
	"emberc/lower"
	"emberc/mir"
	"emberc/optimize"
	"emberc/report"
	"emberc/resolve"
	"emberc/sema"
	"emberc/types"
)

// Compiler holds the configuration and state of a single compilation run
// (spec §6.1's CLI surface plus the project/module graph it drives).
type Compiler struct {
	RootPath   string
	OutputPath string

	Format     string // "x86_64-gas", "ir", or "llvm-ir" (spec §6.1)
	CallConv   ir.CallConv
	AsmDialect string
	Optimise   bool
	DebugIR    bool

	project  *depm.Project
	resolver *resolve.Resolver
}

// Run executes the full pipeline: load the project, resolve every
// reachable module, analyze and lower each one, optionally inline, and
// emit the selected output format. It returns the process exit code
// (spec §6.1 "Exit codes").
func (c *Compiler) Run() int {
	report.ReportCompileHeader(fmt.Sprintf("x86_64/%s", c.AsmDialect), c.Optimise)

	project, ok := depm.LoadProject(c.RootPath)
	if !ok {
		return report.ExitFatal
	}
	c.project = project
	c.resolver = resolve.NewResolver(project)

	entry, ok := c.resolver.ResolveModule(project.Name)
	if !ok || !report.ShouldProceed() {
		report.ReportCompilationFinished(c.OutputPath)
		return report.ExitCompileError
	}

	target := ir.TargetDesc{
		Format:          c.Format,
		CallConv:        c.CallConv,
		AssemblyDialect: c.AsmDialect,
		Ctx:             types.DefaultContext,
	}

	for _, mod := range c.resolver.LoadedModules() {
		sema.NewAnalyzer(mod, types.DefaultContext).AnalyzeModule()
	}
	if !report.ShouldProceed() {
		report.ReportCompilationFinished(c.OutputPath)
		return report.ExitCompileError
	}

	if err := os.MkdirAll(filepath.Dir(c.OutputPath), 0o755); err != nil {
		report.ReportFatal("failed to create output directory: %v", err)
		return report.ExitFatal
	}

	ctx := c.lowerAndOptimize(entry, target)
	if !report.ShouldProceed() {
		report.ReportCompilationFinished(c.OutputPath)
		return report.ExitCompileError
	}

	if c.DebugIR {
		for _, fn := range ctx.Functions {
			fmt.Fprint(os.Stderr, ir.Print(fn))
		}
	}

	switch c.Format {
	case "ir":
		c.emitTextualIR(ctx)
	case "llvm-ir":
		c.emitLLVM(ctx)
	default:
		c.emitObject(ctx)
	}

	report.ReportCompilationFinished(c.OutputPath)
	if !report.ShouldProceed() {
		return report.ExitCompileError
	}
	return report.ExitSuccess
}

// lowerAndOptimize lowers mod into a fresh codegen context and, if
// requested, runs the inliner over it (spec §4.3). threshold 0 inlines
// every call, matching the CLI's all-or-nothing --optimise flag. The
// driver always uses threshold 0: neither the CLI nor ember.toml can
// select another.
func (c *Compiler) lowerAndOptimize(mod *ast.Module, target ir.TargetDesc) *ir.Context {
	ctx := ir.NewContext(mod, target, mod.Ctx)
	lower.NewLowerer(ctx).LowerModule()

	if c.Optimise {
		inl := optimize.NewInliner(0, false, mod.Ctx)
		inl.Run(ctx)
	}

	return ctx
}

// emitTextualIR writes every function's printed IR to the output path
// (spec §6.2 "the IR output mode").
func (c *Compiler) emitTextualIR(ctx *ir.Context) {
	f, err := os.Create(c.OutputPath)
	if err != nil {
		report.ReportFatal("failed to open output file %q: %v", c.OutputPath, err)
		return
	}
	defer f.Close()

	for _, fn := range ctx.Functions {
		fmt.Fprint(f, ir.Print(fn))
	}
}

// emitLLVM builds an LLVM module from ctx via backend/llvmgen and writes
// its textual form, the alternate object-producing path spec §4.4's
// "the backend" leaves room for alongside emitObject's GenericObject.
func (c *Compiler) emitLLVM(ctx *ir.Context) {
	mod := llvmgen.NewBuilder(types.DefaultContext).Build(ctx)

	f, err := os.Create(c.OutputPath)
	if err != nil {
		report.ReportFatal("failed to open output file %q: %v", c.OutputPath, err)
		return
	}
	defer f.Close()

	fmt.Fprint(f, mod.String())
}

// emitObject builds the backend's GenericObject (spec §4.4/§6.4) and
// writes a textual dump of its sections and symbol table. The real
// instruction encoder remains the unspecified collaborator spec §4.4
// names; writing the object's shape out as text rather than a genuine
// ELF/COFF file keeps that boundary honest instead of papering over it.
func (c *Compiler) emitObject(ctx *ir.Context) {
	b := mir.NewBuilder(nil)
	obj := b.Build(ctx)

	f, err := os.Create(c.OutputPath)
	if err != nil {
		report.ReportFatal("failed to open output file %q: %v", c.OutputPath, err)
		return
	}
	defer f.Close()

	fmt.Fprintf(f, "; emberc generic object (text=%d bytes, data=%d bytes, bss=%d bytes)\n",
		len(obj.Text), len(obj.Data), obj.BSS)
	for _, sym := range obj.Symbols {
		if sym.Extern {
			fmt.Fprintf(f, "extern %s\n", sym.Name)
		} else {
			fmt.Fprintf(f, "%s %s+%d\n", sectionName(sym.Section), sym.Name, sym.Offset)
		}
	}
}

func sectionName(s ir.Section) string {
	switch s {
	case ir.SectionText:
		return ".text"
	case ir.SectionData:
		return ".data"
	case ir.SectionBSS:
		return ".bss"
	default:
		return "?"
	}
}
