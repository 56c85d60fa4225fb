// Package common holds small cross-cutting constants shared by the driver,
// the module loader and the diagnostics layer. Grounded on the teacher's
// common/globals.go (a handful of package-level path/version constants).
package common

// EmberVersion is the current compiler version string, reported by
// `emberc version` and `emberc --version` and written into new ember.toml
// manifests by `emberc mod init`.
const EmberVersion string = "0.1.0"

// EmberModuleFileName is the name of a project's module manifest, read by
// depm via go-toml (SPEC_FULL §10.2).
const EmberModuleFileName string = "ember.toml"

// EmberFileExt is the file extension recognized for source files.
const EmberFileExt string = ".ember"

// EmberCacheDirName is the name of the per-project compilation cache
// directory, resolved relative to a module's root.
const EmberCacheDirName string = ".embercache"
