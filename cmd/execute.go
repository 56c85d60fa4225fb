package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ComedicChimera/olive"
	"github.com/pelletier/go-toml"

	"emberc/common"
	"emberc/depm"
	"emberc/report"
)

// execVersionCommand prints the compiler version banner (spec SPEC_FULL
// §10.2 auxiliary subcommand).
func execVersionCommand() int {
	report.DisplayInfoMessage("emberc version", common.EmberVersion)
	return report.ExitSuccess
}

// execModCommand runs the `emberc mod ...` subcommand tree, parsed with
// github.com/ComedicChimera/olive (grounded on the teacher's own
// cmd/execute.go, which keeps an olive-based CLI for project scaffolding
// even once the core build flow moved to a hand-rolled flag parser).
func execModCommand(args []string) int {
	cli := olive.NewCLI("mod", "manage an emberc project's ember.toml manifest", true)

	initCmd := cli.AddSubcommand("init", "create a new ember.toml in a directory", true)
	initCmd.AddPrimaryArg("path", "the directory to initialize as a project root", true)
	initCmd.AddFlag("caching", "ch", "enable compilation caching for the new project")

	result, err := olive.ParseArgs(cli, append([]string{"mod"}, args...))
	if err != nil {
		report.ReportFatal(err.Error())
		return report.ExitFatal
	}

	subcmdName, subResult, _ := result.Subcommand()
	if subcmdName != "init" {
		return report.ExitSuccess
	}

	path, _ := subResult.PrimaryArg()
	absPath, err := filepath.Abs(path)
	if err != nil {
		report.ReportFatal("invalid project path: %s", err)
		return report.ExitFatal
	}

	return initProject(absPath, filepath.Base(absPath), subResult.HasFlag("caching"))
}

// initProject scaffolds a new ember.toml manifest naming projectName at
// rootPath, failing if one already exists.
func initProject(rootPath, projectName string, caching bool) int {
	if !depm.IsValidIdentifier(projectName) {
		report.ReportFatal("%q is not a valid project name; derive the directory name from a valid identifier", projectName)
		return report.ExitFatal
	}

	manifestPath := filepath.Join(rootPath, common.EmberModuleFileName)
	if _, err := os.Stat(manifestPath); err == nil {
		report.ReportFatal("a project manifest already exists at %q", manifestPath)
		return report.ExitFatal
	}

	if err := os.MkdirAll(rootPath, 0o755); err != nil {
		report.ReportFatal("failed to create project directory: %s", err)
		return report.ExitFatal
	}

	buf, err := toml.Marshal(struct {
		Name         string `toml:"name"`
		EmberVersion string `toml:"ember-version"`
		Caching      bool   `toml:"caching"`
	}{Name: projectName, EmberVersion: common.EmberVersion, Caching: caching})
	if err != nil {
		report.ReportFatal("failed to encode project manifest: %s", err)
		return report.ExitFatal
	}

	if err := os.WriteFile(manifestPath, buf, 0o644); err != nil {
		report.ReportFatal("failed to write project manifest: %s", err)
		return report.ExitFatal
	}

	entryPath := filepath.Join(rootPath, projectName+common.EmberFileExt)
	if _, err := os.Stat(entryPath); os.IsNotExist(err) {
		os.WriteFile(entryPath, []byte(fmt.Sprintf("func main(): void {\n}\n")), 0o644)
	}

	report.DisplayInfoMessage("emberc", fmt.Sprintf("initialized project %q at %s", projectName, rootPath))
	return report.ExitSuccess
}
