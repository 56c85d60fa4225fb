package cmd

import (
	"path/filepath"
	"testing"

	"emberc/ir"
)

func TestNewCompilerFromArgsDefaults(t *testing.T) {
	c := NewCompilerFromArgs([]string{"proj/main.ember"})

	wantRoot, _ := filepath.Abs("proj/main.ember")
	if c.RootPath != wantRoot {
		t.Fatalf("expected root path %q, got %q", wantRoot, c.RootPath)
	}
	if c.Format != "x86_64-gas" {
		t.Fatalf("expected default format x86_64-gas, got %q", c.Format)
	}
	if c.CallConv != ir.ConvCDecl {
		t.Fatalf("expected default calling convention to be cdecl, got %v", c.CallConv)
	}
	if c.AsmDialect != "att" {
		t.Fatalf("expected default asm dialect att, got %q", c.AsmDialect)
	}
	if c.OutputPath == "" || filepath.Ext(c.OutputPath) != ".o" {
		t.Fatalf("expected a derived .o output path, got %q", c.OutputPath)
	}
}

func TestNewCompilerFromArgsOverrides(t *testing.T) {
	c := NewCompilerFromArgs([]string{
		"-f", "ir",
		"-cc", "mswin",
		"-ad", "intel",
		"-o", "build/out.ir",
		"--optimise",
		"--debug-ir",
		"proj/main.ember",
	})

	if c.Format != "ir" {
		t.Fatalf("expected format ir, got %q", c.Format)
	}
	if c.CallConv != ir.ConvWin64 {
		t.Fatalf("expected mswin calling convention, got %v", c.CallConv)
	}
	if c.AsmDialect != "intel" {
		t.Fatalf("expected asm dialect intel, got %q", c.AsmDialect)
	}
	if c.OutputPath != "build/out.ir" {
		t.Fatalf("expected explicit outpath to be preserved, got %q", c.OutputPath)
	}
	if !c.Optimise || !c.DebugIR {
		t.Fatalf("expected both --optimise and --debug-ir to be set, got %+v", c)
	}
}

func TestNewCompilerFromArgsLLVMFormat(t *testing.T) {
	c := NewCompilerFromArgs([]string{"-f", "llvm-ir", "proj/main.ember"})
	if c.Format != "llvm-ir" {
		t.Fatalf("expected format llvm-ir, got %q", c.Format)
	}
	if filepath.Ext(c.OutputPath) != ".ll" {
		t.Fatalf("expected a derived .ll output path, got %q", c.OutputPath)
	}
}

func TestNewCompilerFromArgsLogLevel(t *testing.T) {
	c := NewCompilerFromArgs([]string{"-ll", "silent", "proj/main.ember"})
	if c.RootPath == "" {
		t.Fatal("expected a root path to still be parsed alongside -ll")
	}
}
