package errors

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kanso-lang/abstrans/internal/transfer"
)

func TestErrorReporterFormatsExplodedFailure(t *testing.T) {
	source := `function f() {
  block entry {
    let r = typeof(x);
    return r;
  }
}`
	reporter := NewErrorReporter("f.esir", source)

	err := transfer.Run(func() {
		panic(&transfer.Exploded{Tag: "ETypeCheck"})
	})
	ce := FromFailure("2x9f1q", err, Position{Line: 3, Column: 13})
	formatted := reporter.FormatError(ce)

	assert.Contains(t, formatted, "error["+ErrorExploded+"]")
	assert.Contains(t, formatted, "ETypeCheck")
	assert.Contains(t, formatted, "2x9f1q")
	assert.True(t, strings.Contains(formatted, "f.esir:3:13"))
}

func TestErrorReporterFormatsHardError(t *testing.T) {
	reporter := NewErrorReporter("f.esir", "function f() {}\n")

	err := transfer.Run(func() {
		panic(&transfer.HardError{Msg: "no such block label"})
	})
	ce := FromFailure("abc123", err, Position{Line: 1, Column: 1})
	formatted := reporter.FormatError(ce)

	assert.Contains(t, formatted, "error["+ErrorHardError+"]")
	assert.Contains(t, formatted, "no such block label")
}

func TestUndefinedLabelReportsHelp(t *testing.T) {
	ce := UndefinedLabel("after", "caller", Position{Line: 5, Column: 3})
	assert.Equal(t, ErrorUndefinedLabel, ce.Code)
	assert.Contains(t, ce.Message, "after")
	assert.Contains(t, ce.Message, "caller")
	assert.NotEmpty(t, ce.HelpText)
}
