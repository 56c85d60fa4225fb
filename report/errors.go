package report

import "fmt"

// Kind enumerates the diagnostic kinds produced by the compiler (spec §7).
type Kind int

const (
	// ICError is an internal compiler bug. Always fatal; always prints a
	// backtrace; always exits with ExitICE.
	ICError Kind = iota

	// FError is a fatal user error (bad configuration, missing files, a
	// collaborator that could not be invoked). Exits immediately.
	FError

	// Error is a normal compilation error. Marks the context erroneous but
	// lets compilation continue so further diagnostics can surface.
	Error

	// Warning never affects the error flag.
	Warning

	// Sorry marks a deliberately-unimplemented language feature. It behaves
	// like Error (sets HasError) but is worded as an acknowledged gap
	// rather than a user mistake.
	Sorry

	// Note attaches supplementary information to the diagnostic that
	// precedes it; it is never emitted on its own.
	Note
)

func (k Kind) label() string {
	switch k {
	case ICError:
		return "internal compiler error"
	case FError:
		return "fatal error"
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Sorry:
		return "sorry"
	case Note:
		return "note"
	default:
		return "diagnostic"
	}
}

// Diagnostic is a single reportable message, optionally anchored to a
// source position, optionally carrying trailing Notes.
type Diagnostic struct {
	Kind     Kind
	Position *TextPosition
	Message  string
	Notes    []*Diagnostic
}

// Builder constructs a Diagnostic and emits it explicitly via Emit. This
// replaces the source compiler's destructor-fires-render idiom (see
// SPEC_FULL §10.1 / Design Notes §9) with an explicit call, since Go has no
// equivalent of a value-returning error object that renders on scope exit.
type Builder struct {
	diag *Diagnostic
	ctx  *CompilationContext
}

// newBuilder starts a diagnostic of the given kind at the given position.
func newBuilder(ctx *CompilationContext, kind Kind, pos *TextPosition, format string, args ...any) *Builder {
	return &Builder{
		ctx: ctx,
		diag: &Diagnostic{
			Kind:     kind,
			Position: pos,
			Message:  fmt.Sprintf(format, args...),
		},
	}
}

// NewError starts an Error diagnostic.
func NewError(ctx *CompilationContext, pos *TextPosition, format string, args ...any) *Builder {
	return newBuilder(ctx, Error, pos, format, args...)
}

// NewWarning starts a Warning diagnostic.
func NewWarning(ctx *CompilationContext, pos *TextPosition, format string, args ...any) *Builder {
	return newBuilder(ctx, Warning, pos, format, args...)
}

// NewSorry starts a Sorry diagnostic.
func NewSorry(ctx *CompilationContext, pos *TextPosition, format string, args ...any) *Builder {
	return newBuilder(ctx, Sorry, pos, format, args...)
}

// Note attaches a Note to the diagnostic under construction.
func (b *Builder) Note(format string, args ...any) *Builder {
	b.diag.Notes = append(b.diag.Notes, &Diagnostic{
		Kind:    Note,
		Message: fmt.Sprintf(format, args...),
	})
	return b
}

// Emit renders the diagnostic (subject to log level) and, for Error and
// Sorry, flips the owning CompilationContext's error flag.
func (b *Builder) Emit() {
	if b.diag.Kind == Error || b.diag.Kind == Sorry {
		b.ctx.HasError = true
	}

	globalReporter.emit(b.ctx, b.diag)
}
