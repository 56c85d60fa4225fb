package report

import (
	"fmt"
	"os"
	"runtime/debug"
	"sync"
)

// Enumeration of reporter log levels (spec §6.1 --loglevel).
const (
	LogLevelSilent = iota
	LogLevelError
	LogLevelWarn
	LogLevelVerbose
)

// Process exit codes (spec §6.1).
const (
	ExitSuccess      = 0
	ExitCompileError = 1
	ExitFatal        = 2
	ExitICE          = 3
)

// CompilationContext identifies the source file a diagnostic belongs to and
// tracks whether any Error/Sorry has been reported against it. Lowering and
// codegen do not run for a module if any file's context has HasError set
// (spec §7).
type CompilationContext struct {
	FilePath string
	ReprPath string

	HasError bool
}

// NewCompilationContext creates a context for the given source file. reprPath
// is the path as it should be displayed to the user (may differ from
// filePath, e.g. relative vs. absolute).
func NewCompilationContext(filePath, reprPath string) *CompilationContext {
	return &CompilationContext{FilePath: filePath, ReprPath: reprPath}
}

// reporter is the process-wide diagnostic sink. There is exactly one,
// guarded by a mutex since multiple packages may report concurrently during
// future parallel phases even though the core pipeline itself (spec §5) is
// single-threaded.
type reporter struct {
	m *sync.Mutex

	logLevel int

	errorCount   int
	warningCount int
}

var globalReporter = &reporter{m: &sync.Mutex{}, logLevel: LogLevelVerbose}

// InitReporter (re)initializes the global reporter with the given log level.
func InitReporter(logLevel int) {
	globalReporter.m.Lock()
	defer globalReporter.m.Unlock()

	globalReporter.logLevel = logLevel
	globalReporter.errorCount = 0
	globalReporter.warningCount = 0
}

// ShouldProceed reports whether compilation should continue to the next
// phase: false once any Error/Sorry has been emitted.
func ShouldProceed() bool {
	globalReporter.m.Lock()
	defer globalReporter.m.Unlock()

	return globalReporter.errorCount == 0
}

// ErrorCount returns the number of Error/Sorry diagnostics emitted so far.
func ErrorCount() int {
	globalReporter.m.Lock()
	defer globalReporter.m.Unlock()

	return globalReporter.errorCount
}

func (r *reporter) emit(ctx *CompilationContext, d *Diagnostic) {
	r.m.Lock()
	defer r.m.Unlock()

	switch d.Kind {
	case Error, Sorry:
		r.errorCount++
	case Warning:
		r.warningCount++
	}

	var path string
	if ctx != nil {
		path = ctx.ReprPath
	}

	switch d.Kind {
	case ICError:
		// Shown at every log level, silent included.
		displayDiagnostic(path, d)
		fmt.Fprintln(os.Stderr, string(debug.Stack()))
		os.Exit(ExitICE)
	case FError:
		if r.logLevel > LogLevelSilent {
			displayDiagnostic(path, d)
		}
		os.Exit(ExitFatal)
	case Error, Sorry:
		if r.logLevel > LogLevelSilent {
			displayDiagnostic(path, d)
		}
	case Warning:
		if r.logLevel >= LogLevelWarn {
			displayDiagnostic(path, d)
		}
	}
}

// ReportICE reports an internal compiler error: always displayed, always
// fatal, always includes a backtrace. Used for violated invariants that
// indicate a compiler bug rather than bad user input (e.g. an inliner
// invariant failure, an unhandled opcode).
func ReportICE(format string, args ...any) {
	globalReporter.emit(nil, &Diagnostic{Kind: ICError, Message: fmt.Sprintf(format, args...)})
}

// ReportFatal reports a fatal user/configuration error and exits
// immediately: missing project file, unreadable input, a collaborator tool
// that could not be located.
func ReportFatal(format string, args ...any) {
	globalReporter.emit(nil, &Diagnostic{Kind: FError, Message: fmt.Sprintf(format, args...)})
}

// ReportCompilationFinished prints the closing summary line for a
// compilation run.
func ReportCompilationFinished(outputPath string) {
	if globalReporter.logLevel < LogLevelVerbose {
		return
	}

	if ShouldProceed() {
		displayFinished(outputPath)
	} else {
		displayFailed(ErrorCount())
	}
}
