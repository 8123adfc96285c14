package lsp

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDiagnosticsForReportsParseError(t *testing.T) {
	diags := diagnosticsFor("bad.esir", "function f( { block entry { return; } }")
	require.Len(t, diags, 1)
	require.NotEmpty(t, diags[0].Message)
}

func TestDiagnosticsForReportsLoweringError(t *testing.T) {
	src := `function f() {
		block entry {
			goto missing;
		}
	}`
	diags := diagnosticsFor("bad.esir", src)
	require.Len(t, diags, 1)
}

func TestDiagnosticsForConvergesCleanly(t *testing.T) {
	src := `function f() {
		block entry {
			let x = 1;
			return x;
		}
	}`
	diags := diagnosticsFor("ok.esir", src)
	require.Empty(t, diags)
}

func TestUriToPathRoundTripsAFilePath(t *testing.T) {
	path, err := uriToPath("file:///tmp/ok.esir")
	require.NoError(t, err)
	require.Equal(t, "/tmp/ok.esir", path)
}
