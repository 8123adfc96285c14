package transfer

import (
	"github.com/kanso-lang/abstrans/internal/cfg"
	"github.com/kanso-lang/abstrans/internal/domain"
)

// TransferNode is C7: read a node point's state from the store, run the
// appropriate sub-transfer for the node kind, and emit successor states
// back into the store under the successor view policy (spec §4.1).
func (c *Core) TransferNode(np cfg.NodePoint) {
	fn, ok := c.Prog.Func(np.Func)
	if !ok {
		hardError("TransferNode: unknown function " + np.Func)
	}
	node := fn.Node(np.Node)
	if node == nil {
		hardError("TransferNode: unknown node in " + np.Func)
	}
	state := c.Store.Get(np)
	if state.IsBottom() {
		return
	}
	ctx := Ctx{Func: fn, View: np.View}

	switch n := node.(type) {
	case cfg.BlockNode:
		out := c.RunBlock(ctx, state, n.Insts)
		for _, succ := range n.Successors() {
			c.emit(fn, np, n, succ, out)
		}

	case cfg.CallNode:
		val, out := c.Call(ctx, np, state, n.Call)
		if val.IsBottom() {
			out = domain.BottomState()
		} else if n.Lhs != "" {
			out = out.DefineLocal(n.Lhs, val)
		}
		for _, succ := range n.Successors() {
			c.emit(fn, np, n, succ, out)
		}

	case cfg.BranchNode:
		cond, state := c.Eval(ctx, state, n.Cond)
		if domain.AVT.Leq(cond) {
			thenState := c.Prune(ctx, state, n.Cond, true)
			c.emit(fn, np, n, n.Then, thenState)
		}
		if n.ElsePresent && domain.AVF.Leq(cond) {
			elseState := c.Prune(ctx, state, n.Cond, false)
			if n.IsLoop {
				// The else edge of a loop branch is always its exit edge
				// (spec §4.1).
				c.Store.Put(cfg.NodePoint{Func: np.Func, Node: n.Else, View: np.View.LoopExit()}, elseState)
			} else {
				c.emit(fn, np, n, n.Else, elseState)
			}
		}

	default:
		hardError("TransferNode: unrecognized node kind in " + np.Func)
	}
}

// emit applies the successor view policy (get_next_np, spec §4.1) and
// writes state to the resulting control point.
func (c *Core) emit(fn *cfg.Function, np cfg.NodePoint, from cfg.Node, to cfg.NodeID, state *domain.AbsState) {
	if to == cfg.NoNode {
		return
	}
	nextView := np.View
	if branch, ok := fn.Node(to).(cfg.BranchNode); ok && branch.IsLoop {
		if isLoopPred(from) {
			nextView = np.View.LoopEnter(int(to))
		} else {
			nextView = np.View.LoopNext()
		}
	}
	c.Store.Put(cfg.NodePoint{Func: np.Func, Node: to, View: nextView}, state)
}

// isLoopPred reads the whole-node LoopPred flag (spec §4.1's get_next_np
// "from is a loop predecessor node"), a simplification of the spec's
// per-edge is_loop_pred concept to a single flag per node, since the
// source's exact intended shape wasn't available to ground against.
func isLoopPred(n cfg.Node) bool {
	switch nn := n.(type) {
	case cfg.BlockNode:
		return nn.LoopPred
	case cfg.CallNode:
		return nn.LoopPred
	case cfg.BranchNode:
		return nn.LoopPred
	default:
		return false
	}
}
