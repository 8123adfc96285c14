package grammar_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kanso-lang/abstrans/internal/cfg"
	"github.com/kanso-lang/abstrans/internal/domain"
	"github.com/kanso-lang/abstrans/internal/driver"
	"github.com/kanso-lang/abstrans/internal/interp"
	"github.com/kanso-lang/abstrans/internal/view"

	"github.com/kanso-lang/abstrans/grammar"
)

const src = `
function callee(x) {
  block entry {
    return x + 1;
  }
}

function caller() {
  block entry {
    call result = closure(callee)(41) -> after;
  }
  block after {
    return result;
  }
}
`

func TestParseAndLowerRoundTripsAProgram(t *testing.T) {
	prog, err := grammar.ParseSource("test.esir", src)
	require.NoError(t, err)
	require.Len(t, prog.Functions, 2)

	built, err := grammar.Lower(prog)
	require.NoError(t, err)

	callee, ok := built.Func("callee")
	require.True(t, ok)
	assert.Equal(t, []string{"x"}, callee.Params)
	assert.Equal(t, cfg.NodeID(0), callee.Entry)

	caller, ok := built.Func("caller")
	require.True(t, ok)
	assert.Equal(t, cfg.NodeID(0), caller.Entry)
}

// TestParseLowerAndDriveConverges exercises the full pipeline from ESIR
// text through the fixed point: parse, lower to a cfg.Program, seed the
// driver, run to convergence, and observe the result the caller's
// post-call block sees.
func TestParseLowerAndDriveConverges(t *testing.T) {
	prog, err := grammar.ParseSource("test.esir", src)
	require.NoError(t, err)
	built, err := grammar.Lower(prog)
	require.NoError(t, err)

	d := driver.New(built, interp.New())
	caller, ok := built.Func("caller")
	require.True(t, ok)
	d.Seed(caller)

	failures := d.Run()
	require.Empty(t, failures)

	final := d.State(cfg.NodePoint{Func: "caller", Node: 1, View: view.Root()})
	require.False(t, final.IsBottom())
	assert.True(t, final.LookupLocal("result").Equal(domain.FromNumber(42)))
}

func TestLowerRejectsUndefinedLabel(t *testing.T) {
	bad := `
function f() {
  block entry {
    goto nowhere;
  }
}
`
	prog, err := grammar.ParseSource("bad.esir", bad)
	require.NoError(t, err)

	_, err = grammar.Lower(prog)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nowhere")
}
