package depm

import (
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, dir, contents string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, "ember.toml"), []byte(contents), 0o644); err != nil {
		t.Fatalf("failed to write test manifest: %v", err)
	}
}

func TestLoadProject(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "name = \"demo\"\nember-version = \"0.1.0\"\ncaching = true\n")

	p, ok := LoadProject(dir)
	if !ok {
		t.Fatal("expected a well-formed manifest to load")
	}
	if p.Name != "demo" || p.RootPath != dir || !p.ShouldCache {
		t.Fatalf("unexpected project: %+v", p)
	}
}

func TestProjectSourcePath(t *testing.T) {
	p := &Project{Name: "demo", RootPath: "/proj"}
	if got, want := p.SourcePath("main"), filepath.Join("/proj", "main.ember"); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestIsValidIdentifier(t *testing.T) {
	cases := map[string]bool{
		"":          false,
		"foo":       true,
		"_foo123":   true,
		"9foo":      false,
		"foo-bar":   false,
		"foo_bar9":  true,
	}
	for input, want := range cases {
		if got := IsValidIdentifier(input); got != want {
			t.Errorf("IsValidIdentifier(%q) = %v, want %v", input, got, want)
		}
	}
}
