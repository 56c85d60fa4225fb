package cmd

import "os"

// RunCompiler is the process entry point and returns the exit code. It
// dispatches to the olive-based auxiliary subcommands (`mod`, `version`)
// when the first argument names one, and otherwise treats the whole
// argument list as build flags for the core pipeline (spec §6.1), the
// way the teacher's own chaic-era driver took flags with no subcommand
// wrapper at all.
func RunCompiler() int {
	args := os.Args[1:]

	if len(args) > 0 {
		switch args[0] {
		case "mod":
			return execModCommand(args[1:])
		case "version":
			return execVersionCommand()
		}
	}

	c := NewCompilerFromArgs(args)
	return c.Run()
}
