package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"emberc/common"
	"emberc/ir"
	"emberc/report"
)

const usage = `Usage: emberc [flags|options] <path to root module>

Flags:
------
-h, --help       Displays usage information (ie. this text).
-v, --version    Displays the current compiler version.
--optimise       Runs the inliner over the lowered IR before codegen.
--debug-ir       Prints the lowered (and optimised, if enabled) IR for
                 every function to stderr before codegen.

Options:
--------
-o,  --outpath      Sets the path for compilation output. Defaults to the
                    root module path with its extension replaced by
                    "_out.o", "_out.ir" or "_out.ll" (by format).
-f,  --format       Sets the output-format selector. Valid values are:
                      - "x86_64-gas" for a native object file (default)
                      - "ir" for the textual IR interchange format
                      - "llvm-ir" for textual LLVM IR via the llir/llvm
                        backend
-cc, --callconv     Sets the calling-convention selector. Valid values
                    are "mswin" and "linux" (default "linux").
-ad, --asmdialect   Sets the assembly dialect string embedded in the
                    target description (free-form; defaults to "att").
-ll, --loglevel     Sets the compiler's log-level. Valid values are:
                      - "verbose" for outputting all messages (default)
                      - "warn" for outputting errors and warnings
                      - "error" for outputting errors only
                      - "silent" for no output (internal compiler
                        errors are still shown)
`

// printUsage prints the usage message and exits the compiler with the
// given exit code.
func printUsage(exitCode int) {
	fmt.Print(usage, "\n")
	os.Exit(exitCode)
}

// argParser is a command-line argument parser. Grounded on the teacher's
// own argParser (cmd/args.go): a flat slice of argv walked by index,
// classifying each token as a flag, an option (name plus value), or a
// bare positional.
type argParser struct {
	args []string
	ndx  int
}

// options names every argument that takes a value, as opposed to a bare
// flag.
var options = map[string]struct{}{
	"o": {}, "-outpath": {},
	"f": {}, "-format": {},
	"cc": {}, "-callconv": {},
	"ad": {}, "-asmdialect": {},
	"ll": {}, "-loglevel": {},
}

func argumentError(message string, args ...any) {
	fmt.Print("argument error: ", fmt.Sprintf(message, args...), "\n\n")
	printUsage(1)
}

// nextArg parses the next command-line argument if one exists. The first
// return value is the argument's name (empty for a positional); the
// second is its value (empty for a bare flag); the third reports whether
// there was an argument to parse at all.
func (ap *argParser) nextArg() (string, string, bool) {
	if ap.ndx >= len(ap.args) {
		return "", "", false
	}

	arg := ap.args[ap.ndx]
	ap.ndx++

	if !strings.HasPrefix(arg, "-") {
		return "", arg, true
	}

	name := arg[1:]
	if _, ok := options[name]; ok {
		if ap.ndx < len(ap.args) && !strings.HasPrefix(ap.args[ap.ndx], "-") {
			value := ap.args[ap.ndx]
			ap.ndx++
			return name, value, true
		}
		argumentError("option %s requires an argument", strings.TrimLeft(name, "-"))
	}

	return name, "", true
}

// useArg applies a single parsed argument to c, exiting the program if
// the argument is invalid.
func useArg(c *Compiler, name, value string) {
	switch name {
	case "h", "-help":
		printUsage(0)
	case "v", "-version":
		fmt.Println("emberc " + common.EmberVersion)
		os.Exit(0)
	case "-optimise":
		c.Optimise = true
	case "-debug-ir":
		c.DebugIR = true
	case "ll", "-loglevel":
		var logLevel int
		switch value {
		case "silent":
			logLevel = report.LogLevelSilent
		case "error":
			logLevel = report.LogLevelError
		case "warn":
			logLevel = report.LogLevelWarn
		case "verbose":
			logLevel = report.LogLevelVerbose
		default:
			argumentError("invalid log level %q", value)
		}
		report.InitReporter(logLevel)
	case "o", "-outpath":
		c.OutputPath = value
	case "f", "-format":
		switch value {
		case "x86_64-gas", "ir", "llvm-ir":
			c.Format = value
		default:
			argumentError("invalid output format %q", value)
		}
	case "cc", "-callconv":
		switch value {
		case "mswin":
			c.CallConv = ir.ConvWin64
		case "linux":
			c.CallConv = ir.ConvCDecl
		default:
			argumentError("invalid calling convention %q", value)
		}
	case "ad", "-asmdialect":
		c.AsmDialect = value
	case "":
		if c.RootPath == "" {
			absPath, err := filepath.Abs(value)
			if err != nil {
				argumentError("invalid root path: %s", value)
			}
			c.RootPath = absPath
		} else {
			argumentError("root path specified multiple times")
		}
	default:
		argumentError("unknown flag: %s", name)
	}
}

// NewCompilerFromArgs builds a Compiler from argv, applying defaults for
// any option left unspecified.
func NewCompilerFromArgs(argv []string) *Compiler {
	c := &Compiler{
		Format:     "x86_64-gas",
		CallConv:   ir.ConvCDecl,
		AsmDialect: "att",
	}

	ap := argParser{args: argv}
	for {
		name, value, ok := ap.nextArg()
		if !ok {
			break
		}
		useArg(c, name, value)
	}

	if c.RootPath == "" {
		argumentError("a root module path must be specified")
	}

	if c.OutputPath == "" {
		ext := ".o"
		switch c.Format {
		case "ir":
			ext = ".ir"
		case "llvm-ir":
			ext = ".ll"
		}
		base := strings.TrimSuffix(c.RootPath, filepath.Ext(c.RootPath))
		c.OutputPath = base + "_out" + ext
	}

	return c
}
