// Package diag implements the three-level error taxonomy folding relies on:
// fatal internal-invariant panics, semantic errors tagged by kind and
// reported exactly once per Value, and diagnostic-only warnings.
package diag

import (
	"fmt"
	"strings"
)

// Kind is the semantic-error taxonomy of spec §7.
type Kind string

const (
	ConversionRange  Kind = "ConversionRange"
	ConversionFormat Kind = "ConversionFormat"
	DomainType       Kind = "DomainType"
	DomainValue      Kind = "DomainValue"
	IndexOutOfBounds Kind = "IndexOutOfBounds"
	CycleDetected    Kind = "CycleDetected"
	Unresolved       Kind = "Unresolved"
	Incompatible     Kind = "Incompatible"
	NotConstant      Kind = "NotConstant"
	OperatorShape    Kind = "OperatorShape"
	ParseError       Kind = "ParseError"
)

// Location mirrors the teacher's SourceLocation: file/line/column plus
// the enclosing scope name macros need (%moduleId, %definitionId, ...).
// Source, when set, is the literal source line the error occurred on,
// letting Error.Error() render the same caret-annotated snippet the
// teacher's SentraError.Error() does.
type Location struct {
	File   string
	Line   int
	Column int
	Scope  string // dotted full-name of the enclosing definition
	Source string
}

func (l Location) String() string {
	if l.File == "" {
		return fmt.Sprintf("%s:%d", l.Scope, l.Line)
	}
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// Error is a semantic error: the Value producing it is set to Error and
// the diagnostic is emitted exactly once (see CheckingErr in value.Expr).
type Error struct {
	Kind     Kind
	Message  string
	Location Location
}

// Error reproduces the teacher's SentraError.Error() layout: the kind
// and message, the "at file:line:col" location, and — when the
// Location carries a Source line — the source text with a caret
// pointing at the offending column.
func (e *Error) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %s", e.Kind, e.Message)
	if e.Location.File == "" && e.Location.Source == "" {
		if e.Location.Line != 0 {
			fmt.Fprintf(&sb, " (at %s)", e.Location)
		}
		return sb.String()
	}
	fmt.Fprintf(&sb, "\n  at %s:%d:%d\n", e.Location.File, e.Location.Line, e.Location.Column)
	if e.Location.Source != "" {
		fmt.Fprintf(&sb, "\n  %d | %s\n", e.Location.Line, e.Location.Source)
		gutter := fmt.Sprintf("%d | ", e.Location.Line)
		sb.WriteString("  " + strings.Repeat(" ", len(gutter)))
		if e.Location.Column > 0 {
			sb.WriteString(strings.Repeat(" ", e.Location.Column-1))
		}
		sb.WriteString("^")
	}
	return sb.String()
}

func New(kind Kind, loc Location, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Location: loc}
}

// Warning is diagnostic only; folding proceeds regardless.
type Warning struct {
	Message  string
	Location Location
}

func (w *Warning) String() string {
	if w.Location.Line == 0 {
		return w.Message
	}
	return fmt.Sprintf("%s (at %s)", w.Message, w.Location)
}

// FatalError is reserved for internal invariant violations — an
// impossible operand shape, an illegal set_valuetype transition. It is
// never produced by valid input; callers recover from it only in tests.
type FatalError struct {
	Message string
}

func (e *FatalError) Error() string { return "FATAL: " + e.Message }

// Fatalf panics with a FatalError. The core never recovers from this in
// production use — a fatal means a programming error in the compiler,
// not in the compiled program.
func Fatalf(format string, args ...any) {
	panic(&FatalError{Message: fmt.Sprintf(format, args...)})
}

// Sink collects warnings and errors the way the teacher's CLI collects
// *errors.SentraError values for later printing, instead of logging
// directly from inside the library.
type Sink struct {
	Errors   []*Error
	Warnings []*Warning
}

func (s *Sink) Report(err *Error) *Error {
	s.Errors = append(s.Errors, err)
	return err
}

func (s *Sink) Warn(w *Warning) {
	s.Warnings = append(s.Warnings, w)
}

func (s *Sink) HasErrors() bool { return len(s.Errors) > 0 }
