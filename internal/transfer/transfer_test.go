package transfer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kanso-lang/abstrans/internal/cfg"
	"github.com/kanso-lang/abstrans/internal/domain"
	"github.com/kanso-lang/abstrans/internal/interp"
	"github.com/kanso-lang/abstrans/internal/store"
	"github.com/kanso-lang/abstrans/internal/view"
)

func newCore(prog *cfg.Program) *Core {
	return New(prog, interp.New(), store.New())
}

// TestEvalLiteralsAndArithmetic exercises C2 and C3 together over plain
// literal sub-expressions.
func TestEvalLiteralsAndArithmetic(t *testing.T) {
	c := newCore(&cfg.Program{Functions: map[string]*cfg.Function{}})
	ctx := Ctx{Func: &cfg.Function{Name: "f"}, View: view.Root()}
	state := domain.NewState()

	e := cfg.EBinary{Op: domain.OpAdd, Left: cfg.LitNumber{Value: 2}, Right: cfg.LitNumber{Value: 3}}
	v, out := c.Eval(ctx, state, e)
	require.False(t, out.IsBottom())
	assert.True(t, v.Equal(domain.FromNumber(5)))
}

// TestEvalLetAssignAndRef exercises C1, C2 and C5's let/assign instructions
// over an identifier and a property reference.
func TestEvalLetAssignAndRef(t *testing.T) {
	c := newCore(&cfg.Program{Functions: map[string]*cfg.Function{}})
	ctx := Ctx{Func: &cfg.Function{Name: "f"}, View: view.Root()}
	state := domain.NewState()

	insts := []cfg.Instruction{
		cfg.Let{Name: "obj", E: cfg.EMap{SiteID: 1, Fields: []cfg.MapField{
			{Key: "x", Value: cfg.LitNumber{Value: 10}},
		}}},
		cfg.Assign{
			R: cfg.RefProp{Base: cfg.Ident{Name: "obj"}, Key: cfg.LitString{Value: "x"}},
			E: cfg.LitNumber{Value: 20},
		},
	}
	out := c.RunBlock(ctx, state, insts)
	require.False(t, out.IsBottom())

	objVal := out.LookupLocal("obj")
	got := out.GetKey(objVal, domain.FromString("x"))
	assert.True(t, got.Equal(domain.FromNumber(20)))
}

// TestReturnIfAbruptRegistersReturnAndContinuesWithUnwrappedValue verifies
// EReturnIfAbrupt against a concretely abrupt completion: the abrupt half
// is submitted to the store at the enclosing return point, while analysis
// continues past the site carrying the completion's own unwrapped value
// (spec §4.4) rather than forcing the state to bottom.
func TestReturnIfAbruptRegistersReturnAndContinuesWithUnwrappedValue(t *testing.T) {
	fn := &cfg.Function{Name: "f", Entry: 0, IsReturnComp: true}
	prog := &cfg.Program{Functions: map[string]*cfg.Function{"f": fn}}
	c := newCore(prog)
	ctx := Ctx{Func: fn, View: view.Root()}

	state := domain.NewState().DefineLocal("kept", domain.FromNumber(1))
	comp := cfg.EComp{Type: domain.CompletionThrow, Value: cfg.LitString{Value: "boom"}}
	v, out := c.Eval(ctx, state, cfg.EReturnIfAbrupt{Value: comp, Check: true})

	assert.True(t, v.Equal(domain.FromString("boom")))
	require.False(t, out.IsBottom())
	assert.True(t, out.LookupLocal("kept").Equal(domain.FromNumber(1)))

	retVal, retState := c.Store.GetReturn(ctx.returnPoint())
	require.False(t, retState.IsBottom())
	assert.Equal(t, domain.CompletionThrow, mustComp(t, retVal).Type)
}

func mustComp(t *testing.T, v domain.AbsValue) domain.Completion {
	t.Helper()
	comp, ok := v.Comp.Elem()
	require.True(t, ok)
	return comp
}

// TestPruneTypeOfNarrowsOnBothBranches exercises C4 against a
// typeof(r) == "Number" condition on both polarities.
func TestPruneTypeOfNarrowsOnBothBranches(t *testing.T) {
	c := newCore(&cfg.Program{Functions: map[string]*cfg.Function{}})
	ctx := Ctx{Func: &cfg.Function{Name: "f"}, View: view.Root()}

	mixed := domain.FromNumber(1).Join(domain.FromString("x"))
	state := domain.NewState().DefineLocal("v", mixed)
	cond := cfg.EBinary{
		Op:   domain.OpEq,
		Left: cfg.ETypeOf{Value: cfg.ERef{Ref: cfg.RefIdent{Name: "v"}}},
		Right: cfg.LitConst{Value: string(domain.TypeNumber)},
	}

	thenState := c.Prune(ctx, state, cond, true)
	assert.True(t, thenState.LookupLocal("v").Equal(domain.FromNumber(1)))

	elseState := c.Prune(ctx, state, cond, false)
	assert.True(t, elseState.LookupLocal("v").Equal(domain.FromString("x")))
}

// TestCallTransferFansReturnValueBackToCaller wires C6/C7/C8 together over
// two tiny functions: caller calls callee via a closure call, callee
// returns a constant, and the caller's post-call node must observe it.
func TestCallTransferFansReturnValueBackToCaller(t *testing.T) {
	callee := &cfg.Function{
		Name:  "callee",
		Entry: 0,
		Nodes: map[cfg.NodeID]cfg.Node{
			0: cfg.BlockNode{Insts: []cfg.Instruction{
				cfg.Return{E: cfg.LitNumber{Value: 42}},
			}, Next: cfg.NoNode},
		},
	}
	caller := &cfg.Function{
		Name:  "caller",
		Entry: 0,
		Nodes: map[cfg.NodeID]cfg.Node{
			0: cfg.CallNode{
				Call: cfg.ICall{Fexpr: cfg.EClo{Func: "callee"}},
				Lhs:  "result",
				Next: 1,
			},
			1: cfg.BlockNode{Insts: nil, Next: cfg.NoNode},
		},
	}
	prog := &cfg.Program{Functions: map[string]*cfg.Function{"callee": callee, "caller": caller}}
	c := newCore(prog)

	entryNP := cfg.NodePoint{Func: "caller", Node: 0, View: view.Root()}
	c.Store.Seed(entryNP)
	c.Store.Put(entryNP, domain.NewState())

	for {
		np, ok := c.Store.Pop()
		if !ok {
			break
		}
		c.TransferNode(np)
	}

	post := c.Store.Get(cfg.NodePoint{Func: "caller", Node: 1, View: view.Root()})
	require.False(t, post.IsBottom())
	assert.True(t, post.LookupLocal("result").Equal(domain.FromNumber(42)))
}

// TestSDOResolverFallsBackToDefault exercises C9's DEFAULT fallback when no
// production-specific handler exists for a DEFAULT-eligible operation.
func TestSDOResolverFallsBackToDefault(t *testing.T) {
	prog := &cfg.Program{Functions: map[string]*cfg.Function{
		"<DEFAULT>.Contains": {Name: "<DEFAULT>.Contains", Entry: 0, Nodes: map[cfg.NodeID]cfg.Node{
			0: cfg.BlockNode{Next: cfg.NoNode},
		}},
	}}
	table := NewTable(prog)
	ast := domain.ASTValue{Name: "Weird", ProdIdx: 9}

	name, ok := table.Resolve(ast, "Contains")
	require.True(t, ok)
	assert.Equal(t, "<DEFAULT>.Contains", name)

	_, ok = table.Resolve(ast, "SomeOtherOp")
	assert.False(t, ok)
}

// TestOperatorExplodesOnUnhandledLatticeOperator confirms C3's explicit
// abort path raises an Exploded error through Run rather than panicking
// uncontrolled.
func TestOperatorExplodesOnUnhandledLatticeOperator(t *testing.T) {
	c := newCore(&cfg.Program{Functions: map[string]*cfg.Function{}})
	state := domain.NewState()
	impreciseStr := domain.AbsValue{Str: domain.Top[string]()}

	err := Run(func() {
		c.Operator(state, domain.Op("unknown"), []domain.AbsValue{impreciseStr})
	})
	require.Error(t, err)
	var exploded *Exploded
	assert.ErrorAs(t, err, &exploded)
}
