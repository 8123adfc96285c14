package transfer

import (
	"github.com/kanso-lang/abstrans/internal/cfg"
	"github.com/kanso-lang/abstrans/internal/domain"
)

// ResolveRef is C1: turn a syntactic reference into an abstract reference
// value, evaluating a property access's base/key through C2 (spec §2,
// "turn syntactic references ... into abstract reference values and
// read/write them against an abstract state").
func (c *Core) ResolveRef(ctx Ctx, state *domain.AbsState, r cfg.Ref) (domain.RefValue, *domain.AbsState) {
	switch rr := r.(type) {
	case cfg.RefIdent:
		return domain.RefIdent(rr.Name), state
	case cfg.RefProp:
		base, state := c.Eval(ctx, state, rr.Base)
		key, state := c.Eval(ctx, state, rr.Key)
		return domain.RefProp(base, key), state
	default:
		hardError("malformed reference node")
		return domain.RefValue{}, state
	}
}
