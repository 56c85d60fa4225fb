package resolve

import (
	"os"
	"path/filepath"
	"testing"

	"emberc/depm"
)

func writeModule(t *testing.T, dir, name, contents string) {
	t.Helper()
	path := filepath.Join(dir, name+".ember")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("failed to write test module %s: %v", name, err)
	}
}

func TestResolveModuleWithNoImports(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "main", "func entry(): void {}\n")

	r := NewResolver(&depm.Project{Name: "test", RootPath: dir})
	mod, ok := r.ResolveModule("main")
	if !ok {
		t.Fatal("expected main to resolve")
	}
	if len(mod.Funcs) != 1 || mod.Funcs[0].Name != "entry" {
		t.Fatalf("unexpected parsed module: %+v", mod.Funcs)
	}
}

func TestResolveModuleWiresImportsTransitively(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "leaf", "func leafFn(): void {}\n")
	writeModule(t, dir, "mid", "import leaf;\nfunc midFn(): void {}\n")
	writeModule(t, dir, "root", "import mid;\nfunc rootFn(): void {}\n")

	r := NewResolver(&depm.Project{Name: "test", RootPath: dir})
	mod, ok := r.ResolveModule("root")
	if !ok {
		t.Fatal("expected root to resolve")
	}

	midMod := mod.Imports["mid"]
	if midMod == nil {
		t.Fatal("expected root's \"mid\" import to be wired to a loaded module")
	}
	if midMod.Imports["leaf"] == nil {
		t.Fatal("expected mid's \"leaf\" import to be wired transitively")
	}
}

func TestResolveModuleCachesDiamondImport(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "leaf", "func leafFn(): void {}\n")
	writeModule(t, dir, "left", "import leaf;\n")
	writeModule(t, dir, "right", "import leaf;\n")
	writeModule(t, dir, "root", "import left;\nimport right;\n")

	r := NewResolver(&depm.Project{Name: "test", RootPath: dir})
	mod, ok := r.ResolveModule("root")
	if !ok {
		t.Fatal("expected root to resolve")
	}

	leafViaLeft := mod.Imports["left"].Imports["leaf"]
	leafViaRight := mod.Imports["right"].Imports["leaf"]
	if leafViaLeft == nil || leafViaRight == nil {
		t.Fatal("expected both diamond branches to wire the leaf import")
	}
	if leafViaLeft != leafViaRight {
		t.Fatal("expected a diamond-imported module to be loaded and cached once")
	}
}
