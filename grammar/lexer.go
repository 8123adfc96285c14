// Package grammar is the ESIR text surface: a small assembly-like notation
// for the whole-program CFG the transfer core (internal/transfer) and
// driver (internal/driver) are specified against. Building a *cfg.Program
// is explicitly out of scope for the core (spec §1, §6 treats cfg.Program
// as an external collaborator); this package is that builder, so
// cmd/esir-analyze has real input to drive the fixed point over instead of
// only hand-built Go literals.
package grammar

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// ESIRLexer tokenizes the text surface. Keywords ("function", "block",
// "goto", ...) are matched as literal values against plain Ident tokens in
// the grammar, the same approach the Kanso surface grammar used for its own
// keywords, rather than a separate keyword token class.
var ESIRLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{"Comment", `//[^\n]*`, nil},
		{"Ident", `[a-zA-Z_][a-zA-Z0-9_]*`, nil},
		{"Number", `[0-9]+(\.[0-9]+)?`, nil},
		{"String", `"(\\.|[^"\\])*"`, nil},
		{"Operator", `(==|!=|<=|>=|&&|\|\||->|[-+*/%<>=!])`, nil},
		{"Punctuation", `[{}()\[\],.:;]`, nil},
		{"Whitespace", `[ \t\r\n]+`, nil},
	},
})
