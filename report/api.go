package report

import (
	"fmt"

	"github.com/pterm/pterm"
)

// ReportCompileHeader prints the pre-compilation banner naming the target
// triple pieces (spec §6.1: output-format/calling-convention/dialect) that
// this run was configured with. Only shown at LogLevelVerbose.
func ReportCompileHeader(target string, optimise bool) {
	if globalReporter.logLevel < LogLevelVerbose {
		return
	}

	pterm.DefaultHeader.WithFullWidth().Println("emberc")
	fmt.Printf("target: %s   optimise: %v\n\n", target, optimise)
}

// DisplayInfoMessage prints a one-off informational banner, used by
// auxiliary CLI subcommands (`emberc version`, `emberc mod init`) that sit
// outside the core pipeline.
func DisplayInfoMessage(tag, msg string) {
	successStyle.Print(" " + tag + " ")
	fmt.Println(" " + msg)
}
