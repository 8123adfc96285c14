package driver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kanso-lang/abstrans/internal/cfg"
	"github.com/kanso-lang/abstrans/internal/domain"
	"github.com/kanso-lang/abstrans/internal/interp"
	"github.com/kanso-lang/abstrans/internal/view"
)

func TestDriverConvergesAcrossACall(t *testing.T) {
	callee := &cfg.Function{
		Name:  "callee",
		Entry: 0,
		Nodes: map[cfg.NodeID]cfg.Node{
			0: cfg.BlockNode{Insts: []cfg.Instruction{
				cfg.Return{E: cfg.LitNumber{Value: 7}},
			}, Next: cfg.NoNode},
		},
	}
	caller := &cfg.Function{
		Name:  "caller",
		Entry: 0,
		Nodes: map[cfg.NodeID]cfg.Node{
			0: cfg.CallNode{
				Call: cfg.ICall{Fexpr: cfg.EClo{Func: "callee"}},
				Lhs:  "r",
				Next: 1,
			},
			1: cfg.BlockNode{Next: cfg.NoNode},
		},
	}
	prog := &cfg.Program{Functions: map[string]*cfg.Function{"callee": callee, "caller": caller}}

	d := New(prog, interp.New())
	d.Seed(caller)
	failures := d.Run()

	assert.Empty(t, failures)
	final := d.State(cfg.NodePoint{Func: "caller", Node: 1, View: view.Root()})
	require.False(t, final.IsBottom())
	assert.True(t, final.LookupLocal("r").Equal(domain.FromNumber(7)))
}

func TestDriverRecordsExplodedFailureWithoutAbortingRun(t *testing.T) {
	fn := &cfg.Function{
		Name:  "f",
		Entry: 0,
		Nodes: map[cfg.NodeID]cfg.Node{
			0: cfg.BlockNode{Insts: []cfg.Instruction{
				cfg.ExprStmt{E: cfg.EGetChildren{AST: cfg.LitUndefined{}, SiteID: 1}},
			}, Next: cfg.NoNode},
		},
	}
	prog := &cfg.Program{Functions: map[string]*cfg.Function{"f": fn}}

	d := New(prog, interp.New())
	d.Seed(fn)
	failures := d.Run()

	require.Len(t, failures, 1)
	assert.NotEmpty(t, failures[0].ID)
	assert.Error(t, failures[0].Err)
}
