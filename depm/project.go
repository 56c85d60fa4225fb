// Package depm loads a project's manifest (spec SPEC_FULL §10.2: an
// `ember.toml` naming the project and the compiler version it targets)
// and resolves module names to source file paths on disk. Grounded on the
// teacher's own depm/load_mod.go (a tomlModule mirror struct unmarshaled
// with github.com/pelletier/go-toml, then validated field by field into
// the compiler's own type), generalized from the teacher's
// module-of-packages-of-files tree to this specification's flatter
// module-is-a-file model (spec §3.1 "Module" has no intermediate package
// layer).
package depm

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml"

	"emberc/common"
	"emberc/report"
)

// tomlProject mirrors ember.toml's schema for unmarshaling.
type tomlProject struct {
	Name         string `toml:"name"`
	EmberVersion string `toml:"ember-version"`
	Caching      bool   `toml:"caching"`
}

// Project is a loaded, validated ember.toml plus the root directory it
// lives in.
type Project struct {
	Name        string
	RootPath    string
	ShouldCache bool
}

// LoadProject reads and validates the ember.toml manifest in rootPath.
func LoadProject(rootPath string) (*Project, bool) {
	manifestPath := filepath.Join(rootPath, common.EmberModuleFileName)

	buf, err := os.ReadFile(manifestPath)
	if err != nil {
		report.ReportFatal("unable to read project manifest at %q: %v", manifestPath, err)
		return nil, false
	}

	var tp tomlProject
	if err := toml.Unmarshal(buf, &tp); err != nil {
		report.ReportFatal("error parsing project manifest at %q: %v", manifestPath, err)
		return nil, false
	}

	if tp.Name == "" {
		report.ReportFatal("project manifest %q is missing a name", manifestPath)
		return nil, false
	}
	if !IsValidIdentifier(tp.Name) {
		report.ReportFatal("project name %q must be a valid identifier", tp.Name)
		return nil, false
	}
	if tp.EmberVersion != "" && tp.EmberVersion != common.EmberVersion {
		fmt.Printf("warning: project %q targets emberc v%s (running v%s)\n", tp.Name, tp.EmberVersion, common.EmberVersion)
	}

	return &Project{Name: tp.Name, RootPath: rootPath, ShouldCache: tp.Caching}, true
}

// SourcePath returns the file a module named moduleName would live at,
// relative to the project root (spec §3.1 each Module corresponds to one
// source file; SPEC_FULL's import-by-name resolves to a sibling file).
func (p *Project) SourcePath(moduleName string) string {
	return filepath.Join(p.RootPath, moduleName+common.EmberFileExt)
}

// IsValidIdentifier reports whether idstr could be a module or project
// name (teacher's depm/util.go IsValidIdentifier, unchanged).
func IsValidIdentifier(idstr string) bool {
	if idstr == "" {
		return false
	}
	first := idstr[0]
	if !(first == '_' || 'a' <= first && first <= 'z' || 'A' <= first && first <= 'Z') {
		return false
	}
	for _, c := range idstr[1:] {
		if c == '_' || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9' {
			continue
		}
		return false
	}
	return true
}
