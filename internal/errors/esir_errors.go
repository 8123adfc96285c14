package errors

import (
	"errors"
	"fmt"

	"github.com/kanso-lang/abstrans/internal/transfer"
)

// ESIRErrorBuilder provides a fluent interface for creating ESIR diagnostics
// with suggestions, mirroring the builder shape the Kanso compiler used for
// its own semantic errors.
type ESIRErrorBuilder struct {
	err CompilerError
}

func newBuilder(level ErrorLevel, code, message string, pos Position) *ESIRErrorBuilder {
	return &ESIRErrorBuilder{
		err: CompilerError{
			Level:    level,
			Code:     code,
			Message:  message,
			Position: pos,
			Length:   1,
		},
	}
}

// WithNote appends a note to the error.
func (b *ESIRErrorBuilder) WithNote(note string) *ESIRErrorBuilder {
	b.err.Notes = append(b.err.Notes, note)
	return b
}

// WithHelp sets the help text on the error.
func (b *ESIRErrorBuilder) WithHelp(help string) *ESIRErrorBuilder {
	b.err.HelpText = help
	return b
}

// Build returns the finished CompilerError.
func (b *ESIRErrorBuilder) Build() CompilerError {
	return b.err
}

// FromFailure turns a driver.Failure's underlying error into a
// CompilerError, distinguishing an Exploded abort from a HardError so the
// reported code and help text match spec §7's two failure kinds. Driver
// failures carry no source position (they're keyed by function/node/view,
// not by a text-surface location), so pos should be whatever a caller can
// best associate with the failed node point — the ESIR source position of
// the CallNode/BranchNode/BlockNode if the text surface built it, or line 1,
// column 1 otherwise (what cmd/esir-analyze and internal/lsp pass).
func FromFailure(id string, err error, pos Position) CompilerError {
	var exploded *transfer.Exploded
	if errors.As(err, &exploded) {
		return newBuilder(Error, ErrorExploded, fmt.Sprintf("analysis exploded on %s", exploded.Tag), pos).
			WithNote(fmt.Sprintf("failure id %s", id)).
			WithHelp("the abstract domain lost too much precision at this site to continue soundly; this is a reported analysis limitation, not necessarily a bug in the analyzed program").
			Build()
	}

	var hard *transfer.HardError
	if errors.As(err, &hard) {
		return newBuilder(Error, ErrorHardError, hard.Msg, pos).
			WithNote(fmt.Sprintf("failure id %s", id)).
			WithHelp("this indicates malformed IR or an invalid syntax-directed operation target").
			Build()
	}

	return newBuilder(Error, ErrorHardError, err.Error(), pos).
		WithNote(fmt.Sprintf("failure id %s", id)).
		Build()
}

// ParseSyntaxError builds a CompilerError for an ESIR text surface syntax
// error at pos.
func ParseSyntaxError(message string, pos Position) CompilerError {
	return newBuilder(Error, ErrorParseSyntax, message, pos).Build()
}

// UndefinedLabel builds a CompilerError for a goto/call/branch target that
// names a block label absent from the enclosing function.
func UndefinedLabel(label, function string, pos Position) CompilerError {
	return newBuilder(Error, ErrorUndefinedLabel, fmt.Sprintf("undefined label %q in function %q", label, function), pos).
		WithHelp("declare a block with this label, or fix the typo").
		Build()
}

// UndefinedFunction builds a CompilerError for a call naming a function
// absent from the program's function map.
func UndefinedFunction(name string, pos Position) CompilerError {
	return newBuilder(Error, ErrorUndefinedFunction, fmt.Sprintf("undefined function %q", name), pos).
		WithHelp("declare this function, or fix the typo").
		Build()
}
