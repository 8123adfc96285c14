// Package lsp adapts the teacher's glsp-based language server to serve
// driver failures over the ESIR text surface instead of Kanso semantic
// diagnostics: open/change a .esir document, and the handler parses,
// lowers, drives the fixed point, and republishes whatever
// driver.Failures came out of the run as LSP diagnostics.
package lsp

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/kanso-lang/abstrans/grammar"
	"github.com/kanso-lang/abstrans/internal/cfg"
	"github.com/kanso-lang/abstrans/internal/driver"
	esirerrors "github.com/kanso-lang/abstrans/internal/errors"
	"github.com/kanso-lang/abstrans/internal/interp"
)

// Handler implements the LSP server callbacks for the ESIR text surface.
type Handler struct {
	mu      sync.RWMutex
	content map[string]string
}

// NewHandler creates and returns a new Handler instance.
func NewHandler() *Handler {
	return &Handler{content: make(map[string]string)}
}

// Initialize responds to the LSP client's initialize request and advertises
// the server's capabilities (diagnostics only — ESIR's CFG has no source
// positions to hang semantic tokens or completions off of, unlike the
// surface-language AST the teacher's LSP walked).
func (h *Handler) Initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	log.Println("esir-lsp Initialize called")
	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: ptrBool(true),
				Change:    ptrSyncKind(protocol.TextDocumentSyncKindFull),
			},
		},
	}, nil
}

func (h *Handler) Initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	log.Println("esir-lsp Initialized")
	return nil
}

func (h *Handler) Shutdown(ctx *glsp.Context) error {
	log.Println("esir-lsp Shutdown")
	return nil
}

// TextDocumentDidOpen analyzes the opened file and publishes diagnostics
// for any parse error or driver.Failure.
func (h *Handler) TextDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	return h.analyzeAndPublish(ctx, params.TextDocument.URI)
}

// TextDocumentDidChange re-analyzes the changed file's latest content.
func (h *Handler) TextDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	return h.analyzeAndPublish(ctx, params.TextDocument.URI)
}

// TextDocumentDidClose drops the cached content for a closed file.
func (h *Handler) TextDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return fmt.Errorf("failed to convert URI %s: %w", params.TextDocument.URI, err)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.content, path)
	return nil
}

// analyzeAndPublish reads, parses, lowers and drives the file at uri, then
// publishes one diagnostic per parse error or driver.Failure (an empty
// slice clears any previously published diagnostics).
func (h *Handler) analyzeAndPublish(ctx *glsp.Context, uri protocol.DocumentUri) error {
	path, err := uriToPath(uri)
	if err != nil {
		return fmt.Errorf("failed to convert URI %s: %w", uri, err)
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", path, err)
	}

	h.mu.Lock()
	h.content[path] = string(source)
	h.mu.Unlock()

	diagnostics := diagnosticsFor(path, string(source))
	sendDiagnosticNotification(ctx, uri, diagnostics)
	return nil
}

// diagnosticsFor runs the full parse/lower/drive pipeline and converts the
// result into LSP diagnostics, grounded on FromFailure/ParseSyntaxError
// from internal/errors the same way cmd/esir-analyze reports to a
// terminal.
func diagnosticsFor(path, source string) []protocol.Diagnostic {
	prog, err := grammar.ParseSource(path, source)
	if err != nil {
		ce := esirerrors.ParseSyntaxError(err.Error(), esirerrors.Position{Line: 1, Column: 1})
		return []protocol.Diagnostic{compilerErrorToDiagnostic(ce)}
	}

	built, err := grammar.Lower(prog)
	if err != nil {
		ce := esirerrors.ParseSyntaxError(err.Error(), esirerrors.Position{Line: 1, Column: 1})
		return []protocol.Diagnostic{compilerErrorToDiagnostic(ce)}
	}

	failures := runToFixedPoint(built)
	diagnostics := make([]protocol.Diagnostic, 0, len(failures))
	for _, f := range failures {
		ce := esirerrors.FromFailure(f.ID, f.Err, esirerrors.Position{Line: 1, Column: 1})
		diagnostics = append(diagnostics, compilerErrorToDiagnostic(ce))
	}
	return diagnostics
}

// runToFixedPoint seeds every function in prog and drains the worklist,
// mirroring cmd/esir-analyze's driving loop.
func runToFixedPoint(prog *cfg.Program) []driver.Failure {
	d := driver.New(prog, interp.New())
	for _, fn := range prog.Functions {
		d.Seed(fn)
	}
	return d.Run()
}

func compilerErrorToDiagnostic(ce esirerrors.CompilerError) protocol.Diagnostic {
	severity := protocol.DiagnosticSeverityError
	if ce.Level == esirerrors.Warning {
		severity = protocol.DiagnosticSeverityWarning
	}
	line := protocol.UInteger(0)
	if ce.Position.Line > 0 {
		line = protocol.UInteger(ce.Position.Line - 1)
	}
	col := protocol.UInteger(0)
	if ce.Position.Column > 0 {
		col = protocol.UInteger(ce.Position.Column - 1)
	}
	code := protocol.IntegerOrString{Value: ce.Code}
	return protocol.Diagnostic{
		Range: protocol.Range{
			Start: protocol.Position{Line: line, Character: col},
			End:   protocol.Position{Line: line, Character: col + protocol.UInteger(maxInt(1, ce.Length))},
		},
		Severity: &severity,
		Code:     &code,
		Source:   strPtr("esir-analyze"),
		Message:  ce.Message,
	}
}

func uriToPath(rawURI string) (string, error) {
	u, err := url.Parse(rawURI)
	if err != nil {
		return "", fmt.Errorf("invalid URI %s: %w", rawURI, err)
	}
	path := u.Path
	if runtime.GOOS == "windows" && strings.HasPrefix(path, "/") && len(path) > 3 && path[2] == ':' {
		path = path[1:]
	}
	return filepath.FromSlash(path), nil
}

func sendDiagnosticNotification(ctx *glsp.Context, uri protocol.URI, diagnostics []protocol.Diagnostic) {
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

func ptrBool(b bool) *bool { return &b }

func ptrSyncKind(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind { return &k }

func strPtr(s string) *string { return &s }

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
