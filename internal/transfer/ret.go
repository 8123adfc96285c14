package transfer

import (
	"github.com/kanso-lang/abstrans/internal/cfg"
	"github.com/kanso-lang/abstrans/internal/domain"
)

// submitReturn is the do_return side effect shared by the Return
// instruction (C5) and EReturnIfAbrupt's early-exit half (C2): package
// (v, state-with-locals-cleared) and submit it to the semantics store at
// the enclosing return point, then immediately fan out to every caller
// already registered there (spec §4.3's do_return, §4.2's C8). It never
// touches the continuing local state — the caller decides separately
// whether execution continues (EReturnIfAbrupt) or halts (Return).
func (c *Core) submitReturn(ctx Ctx, state *domain.AbsState, value domain.AbsValue) *domain.AbsState {
	rp := ctx.returnPoint()
	cleared := state.Copied(map[string]domain.AbsValue{})
	c.Store.DoReturn(rp, value, cleared)
	c.ReturnTransfer(rp)
	return state
}

// ReturnTransfer is C8 (spec §4.2): read the accumulated (value, state) at
// rp, optionally refine the returned location's declared type, and fan the
// result out to every caller continuation recorded against rp.
func (c *Core) ReturnTransfer(rp cfg.ReturnPoint) {
	retValue, retState := c.Store.GetReturn(rp)
	if retState.IsBottom() {
		return
	}
	if t, ok := c.Interp.DeclaredReturnType(rp.Func); ok {
		if loc, isLoc := retValue.Loc(); isLoc {
			retState = retState.SetType(loc, t)
		}
	}

	calleeFn, ok := c.Prog.Func(rp.Func)
	wrapped := retValue
	if ok && calleeFn.IsReturnComp {
		wrapped = retValue.WrapCompletion()
	}

	for _, callerNP := range c.Store.RetEdges(rp) {
		callerFn, ok := c.Prog.Func(callerNP.Func)
		if !ok {
			continue
		}
		callNode, ok := callerFn.Node(callerNP.Node).(cfg.CallNode)
		if !ok {
			continue
		}
		callerState := c.Store.CallInfo(callerNP)
		if callerState.IsBottom() {
			continue
		}
		for _, nextID := range callNode.Successors() {
			nextView := c.returnNextView(callerFn, nextID, callerNP.View)
			newState := retState.DoReturn(callerState, callNode.Lhs, wrapped)
			c.Store.Put(cfg.NodePoint{Func: callerNP.Func, Node: nextID, View: nextView}, newState)
		}
	}
}

// returnNextView implements C8's next_view rule (spec §4.2): entering a
// loop head always re-enters via loop_enter; any other successor keeps the
// caller's view unchanged. Unlike C7's general get_next_np, C8 never needs
// the "from is a loop predecessor" distinction, since a call node has only
// one outgoing edge.
func (c *Core) returnNextView(fn *cfg.Function, nextID cfg.NodeID, view domain.View) domain.View {
	if branch, ok := fn.Node(nextID).(cfg.BranchNode); ok && branch.IsLoop {
		return view.LoopEnter(int(nextID))
	}
	return view
}
