package transfer

import (
	"math"

	"github.com/kanso-lang/abstrans/internal/domain"
)

// Operator is C3: lift a unary/binary/variadic operator over the flat
// value lattice (spec §4.5). If any operand is bottom, the result is
// bottom. If all operands are concrete and of compatible simple kinds,
// fold via the concrete interpreter and lift the result back; otherwise
// fall back to the lattice-level operator.
func (c *Core) Operator(state *domain.AbsState, op domain.Op, operands []domain.AbsValue) domain.AbsValue {
	for _, o := range operands {
		if o.IsBottom() {
			return domain.Bottom
		}
	}

	if op == domain.OpEq || op == domain.OpNeq {
		if v, ok := c.locationEquality(state, op, operands); ok {
			return v
		}
	}
	if op == domain.OpMin || op == domain.OpMax {
		return c.minMax(op, operands)
	}

	if cvs, ok := allConcrete(operands); ok {
		if v, err := c.Interp.Eval(op, cvs); err == nil {
			return v
		}
	}
	return c.latticeOp(op, operands)
}

func allConcrete(vs []domain.AbsValue) ([]domain.ConcreteValue, bool) {
	out := make([]domain.ConcreteValue, len(vs))
	for i, v := range vs {
		cv, ok := v.GetSingle().Elem()
		if !ok {
			return nil, false
		}
		out[i] = cv
	}
	return out, true
}

// locationEquality handles the equality edge case for locations (spec
// §4.5): the same abstract location compares equal only when known to be
// a singleton allocation; distinct locations compare unequal; anything
// else falls through to the general path (ok=false).
func (c *Core) locationEquality(state *domain.AbsState, op domain.Op, vs []domain.AbsValue) (domain.AbsValue, bool) {
	if len(vs) != 2 {
		return domain.Bottom, false
	}
	l1, ok1 := vs[0].Loc()
	l2, ok2 := vs[1].Loc()
	if !ok1 || !ok2 {
		return domain.Bottom, false
	}
	var eq domain.AbsValue
	switch {
	case l1 != l2:
		eq = domain.FromBool(false)
	case state.IsSingle(l1):
		eq = domain.FromBool(true)
	default:
		eq = domain.AbsValue{Bool: domain.Top[bool]()}
	}
	if op == domain.OpNeq {
		eq = negateBool(eq)
	}
	return eq, true
}

func negateBool(v domain.AbsValue) domain.AbsValue {
	if b, ok := v.Bool.Elem(); ok {
		return domain.FromBool(!b)
	}
	if v.Bool.IsTop() {
		return domain.AbsValue{Bool: domain.Top[bool]()}
	}
	return domain.Bottom
}

// minMax handles the variadic min/max infinity special case (spec §4.5,
// §9): a concrete -infinity operand decides Min outright (min is absorbing
// at -infinity); symmetrically +infinity decides Max. Absent that, all
// operands fold under the concrete interpreter; any imprecise operand
// degrades the whole result to Top.
func (c *Core) minMax(op domain.Op, vs []domain.AbsValue) domain.AbsValue {
	var finite []domain.ConcreteValue
	for _, v := range vs {
		cv, ok := v.GetSingle().Elem()
		if !ok {
			return domain.AbsValue{Num: domain.Top[float64]()}
		}
		if cv.Kind == domain.TypeNumber || cv.Kind == domain.TypeMath {
			val := cv.Num
			if cv.Kind == domain.TypeMath {
				val = cv.Math
			}
			if op == domain.OpMin && math.IsInf(val, -1) {
				return domain.FromNumber(math.Inf(-1))
			}
			if op == domain.OpMax && math.IsInf(val, 1) {
				return domain.FromNumber(math.Inf(1))
			}
		}
		finite = append(finite, cv)
	}
	v, err := c.Interp.Eval(op, finite)
	if err != nil {
		return domain.AbsValue{Num: domain.Top[float64]()}
	}
	return v
}

// latticeOp is the lattice-level fallback when operands aren't all
// concrete (spec §4.5): arithmetic degrades to Top of the appropriate
// result kind; genuinely unhandled operators explode (spec §7's "vop
// transfer" example tag).
func (c *Core) latticeOp(op domain.Op, vs []domain.AbsValue) domain.AbsValue {
	switch op {
	case domain.OpAdd, domain.OpSub, domain.OpMul, domain.OpDiv, domain.OpMod, domain.OpNeg, domain.OpMin, domain.OpMax:
		return domain.AbsValue{Num: domain.Top[float64]()}
	case domain.OpLt, domain.OpLe, domain.OpGt, domain.OpGe, domain.OpEq, domain.OpNeq, domain.OpNot:
		return domain.AbsValue{Bool: domain.Top[bool]()}
	case domain.OpConcat:
		return domain.AbsValue{Str: domain.Top[string]()}
	default:
		explode("vop transfer")
		return domain.Bottom
	}
}
