package transfer

import (
	"github.com/kanso-lang/abstrans/internal/cfg"
	"github.com/kanso-lang/abstrans/internal/domain"
)

// Prune is C4: refine an abstract state along a branch's condition syntax
// under the given polarity (spec §4.6). Forms the pruner doesn't recognize
// pass the state through unchanged.
func (c *Core) Prune(ctx Ctx, state *domain.AbsState, cond cfg.Expr, positive bool) *domain.AbsState {
	if state.IsBottom() {
		return state
	}
	switch e := cond.(type) {
	case cfg.EUnary:
		if e.Op == domain.OpNot {
			return c.Prune(ctx, state, e.Val, !positive)
		}

	case cfg.EOr:
		l := c.Prune(ctx, state, e.Left, positive)
		r := c.Prune(ctx, state, e.Right, positive)
		if positive {
			return l.Join(r)
		}
		return l.Meet(r)

	case cfg.EAnd:
		l := c.Prune(ctx, state, e.Left, positive)
		r := c.Prune(ctx, state, e.Right, positive)
		if positive {
			return l.Meet(r)
		}
		return l.Join(r)

	case cfg.EBinary:
		if e.Op == domain.OpEq {
			if tof, ok := e.Left.(cfg.ETypeOf); ok {
				return c.pruneTypeOf(ctx, state, tof.Value, e.Right, positive)
			}
			if tof, ok := e.Right.(cfg.ETypeOf); ok {
				return c.pruneTypeOf(ctx, state, tof.Value, e.Left, positive)
			}
		}
	}
	return state
}

// pruneTypeOf implements `typeof(r) == tyRef` (spec §4.6): only fires when
// the typeof'd operand is a plain reference read, since prune_type needs a
// ref_value to write the narrowed value back through.
func (c *Core) pruneTypeOf(ctx Ctx, state *domain.AbsState, valExpr, tyExpr cfg.Expr, positive bool) *domain.AbsState {
	refExpr, ok := valExpr.(cfg.ERef)
	if !ok {
		return state
	}
	rv, state := c.ResolveRef(ctx, state, refExpr.Ref)
	tv, state := c.Eval(ctx, state, tyExpr)
	cv, ok := tv.GetSingle().Elem()
	if !ok || cv.Kind != domain.TypeConst {
		return state
	}
	cur := state.Get(rv)
	narrowed := cur.PruneType(domain.Type(cv.Const), positive)
	return state.Update(rv, narrowed)
}
