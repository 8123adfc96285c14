package transfer

import (
	"github.com/kanso-lang/abstrans/internal/cfg"
	"github.com/kanso-lang/abstrans/internal/domain"
)

// RunBlock is C5: fold the instruction transfer over a straight-line
// instruction list, stopping early once the state goes bottom (spec §4.3).
func (c *Core) RunBlock(ctx Ctx, state *domain.AbsState, insts []cfg.Instruction) *domain.AbsState {
	for _, inst := range insts {
		if state.IsBottom() {
			return state
		}
		state = c.runInst(ctx, state, inst)
	}
	return state
}

func (c *Core) runInst(ctx Ctx, state *domain.AbsState, inst cfg.Instruction) *domain.AbsState {
	switch ii := inst.(type) {
	case cfg.ExprStmt:
		_, state = c.Eval(ctx, state, ii.E)
		return state

	case cfg.Let:
		v, state := c.Eval(ctx, state, ii.E)
		return state.DefineLocal(ii.Name, v)

	case cfg.Assign:
		rv, state := c.ResolveRef(ctx, state, ii.R)
		v, state := c.Eval(ctx, state, ii.E)
		return state.Update(rv, v)

	case cfg.Delete:
		rv, state := c.ResolveRef(ctx, state, ii.R)
		return state.Delete(rv)

	case cfg.Push:
		v, state := c.Eval(ctx, state, ii.E)
		listVal, state := c.Eval(ctx, state, ii.List)
		loc, ok := listVal.Loc()
		if !ok {
			return state
		}
		if ii.Front {
			return state.Prepend(loc, v)
		}
		return state.Append(loc, v)

	case cfg.RemoveElem:
		listVal, state := c.Eval(ctx, state, ii.List)
		elem, state := c.Eval(ctx, state, ii.Elem)
		loc, ok := listVal.Loc()
		if !ok {
			return state
		}
		return state.Remove(loc, elem)

	case cfg.Return:
		v, state := c.Eval(ctx, state, ii.E)
		c.submitReturn(ctx, state, v)
		return domain.BottomState()

	case cfg.Assert:
		_, state := c.Eval(ctx, state, ii.E)
		return state

	case cfg.Print:
		_, state := c.Eval(ctx, state, ii.E)
		return state

	case cfg.Nop:
		return state

	default:
		hardError("malformed instruction node")
		return state
	}
}
