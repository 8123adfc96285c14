package transfer

import (
	"strconv"

	"github.com/kanso-lang/abstrans/internal/cfg"
	"github.com/kanso-lang/abstrans/internal/domain"
)

// Eval is C2: evaluate an IR expression against a state, threading the
// state through for its side effects — Pop, the allocation forms (EMap,
// EList, EListConcat, ESymbol, ECopy, EKeys, EGetChildren) and an abrupt
// EReturnIfAbrupt are the forms that change it (spec §4.4).
func (c *Core) Eval(ctx Ctx, state *domain.AbsState, e cfg.Expr) (domain.AbsValue, *domain.AbsState) {
	if state.IsBottom() {
		return domain.Bottom, state
	}
	switch ee := e.(type) {
	case cfg.LitBool:
		return domain.FromBool(ee.Value), state
	case cfg.LitString:
		return domain.FromString(ee.Value), state
	case cfg.LitNumber:
		return domain.FromNumber(ee.Value), state
	case cfg.LitMath:
		return domain.FromMath(ee.Value), state
	case cfg.LitBigInt:
		return domain.FromBigInt(ee.Value), state
	case cfg.LitCodeUnit:
		return domain.AbsValue{CodeUnit: domain.Single(ee.Value)}, state
	case cfg.LitConst:
		return domain.FromConst(ee.Value), state
	case cfg.LitUndefined:
		return domain.Undefined, state
	case cfg.LitNull:
		return domain.Null, state
	case cfg.LitAbsent:
		return domain.Absent, state

	case cfg.Ident:
		return state.LookupLocal(ee.Name), state

	case cfg.ERef:
		rv, state := c.ResolveRef(ctx, state, ee.Ref)
		return state.Get(rv), state

	case cfg.EComp:
		val, state := c.Eval(ctx, state, ee.Value)
		var target domain.Flat[string]
		if ee.Target != nil {
			tv, st2 := c.Eval(ctx, state, ee.Target)
			state = st2
			if s, ok := tv.GetSingle().Elem(); ok && s.Kind == domain.TypeString {
				target = domain.Single(s.Str)
			} else {
				target = domain.Top[string]()
			}
		}
		comp := domain.Completion{Type: ee.Type, Value: val, Target: target}
		return domain.AbsValue{Comp: domain.Single(comp)}, state

	case cfg.EIsCompletion:
		val, state := c.Eval(ctx, state, ee.Value)
		return domain.FromBool(val.IsCompletion()), state

	case cfg.EReturnIfAbrupt:
		val, state := c.Eval(ctx, state, ee.Value)
		if ee.Check {
			if abrupt := val.AbruptCompletion(); !abrupt.IsBottom() {
				state = c.submitReturn(ctx, state, abrupt)
			}
		}
		normal := val.UnwrapCompletion()
		if normal.IsBottom() {
			return domain.Bottom, domain.BottomState()
		}
		return normal, state

	case cfg.EPop:
		list, state := c.Eval(ctx, state, ee.List)
		loc, ok := list.Loc()
		if !ok {
			return domain.Bottom, state
		}
		return state.Pop(loc)

	case cfg.EParse:
		code, state := c.Eval(ctx, state, ee.Code)
		return code.Parse(ee.Rule), state

	case cfg.EGetChildren:
		return c.evalGetChildren(ctx, state, ee)

	case cfg.EAnd:
		left, state := c.Eval(ctx, state, ee.Left)
		if left.Equal(domain.AVF) {
			return domain.AVF, state
		}
		right, state := c.Eval(ctx, state, ee.Right)
		return boolAnd(left, right), state

	case cfg.EOr:
		left, state := c.Eval(ctx, state, ee.Left)
		if left.Equal(domain.AVT) {
			return domain.AVT, state
		}
		right, state := c.Eval(ctx, state, ee.Right)
		return boolOr(left, right), state

	case cfg.EEqAbsent:
		rv, state := c.ResolveRef(ctx, state, ee.Ref)
		return domain.FromBool(!state.Exists(rv)), state

	case cfg.ETypeOf:
		val, state := c.Eval(ctx, state, ee.Value)
		return val.TypeOf(state), state

	case cfg.ETypeCheck:
		val, state := c.Eval(ctx, state, ee.Value)
		return val.TypeCheck(ee.Name, state), state

	case cfg.EConvert:
		val, state := c.Eval(ctx, state, ee.Value)
		return val.Convert(ee.Op, ee.Radix), state

	case cfg.EClo:
		captured := map[string]domain.AbsValue{}
		for _, name := range ee.Captures {
			captured[name] = state.LookupLocal(name)
		}
		return domain.FromClosure(domain.Closure{Func: ee.Func, Captured: captured}), state

	case cfg.ECont:
		return c.evalCont(ctx, state, ee), state

	case cfg.EMap:
		fields := map[string]domain.AbsValue{}
		for _, f := range ee.Fields {
			var v domain.AbsValue
			v, state = c.Eval(ctx, state, f.Value)
			fields[f.Key] = v
		}
		loc := ctx.allocLoc(ee.SiteID)
		state = state.AllocMap(loc, fields)
		return domain.FromLoc(loc), state

	case cfg.EList:
		elems := make([]domain.AbsValue, len(ee.Elems))
		for i, sub := range ee.Elems {
			elems[i], state = c.Eval(ctx, state, sub)
		}
		loc := ctx.allocLoc(ee.SiteID)
		state = state.AllocList(loc, elems)
		return domain.FromLoc(loc), state

	case cfg.EListConcat:
		var all []domain.AbsValue
		for _, sub := range ee.Lists {
			var lv domain.AbsValue
			lv, state = c.Eval(ctx, state, sub)
			if loc, ok := lv.Loc(); ok {
				all = append(all, state.ElemsOf(loc)...)
			}
		}
		loc := ctx.allocLoc(ee.SiteID)
		state = state.AllocList(loc, all)
		return domain.FromLoc(loc), state

	case cfg.ESymbol:
		desc, state := c.Eval(ctx, state, ee.Desc)
		loc := ctx.allocLoc(ee.SiteID)
		state = state.AllocSymbol(loc, desc)
		return domain.FromLoc(loc), state

	case cfg.ECopy:
		src, state := c.Eval(ctx, state, ee.Src)
		srcLoc, ok := src.Loc()
		if !ok {
			return domain.AbsValue{Locs: domain.LocSet{Top: true}}, state
		}
		dst := ctx.allocLoc(ee.SiteID)
		state = state.CopyObj(dst, srcLoc)
		return domain.FromLoc(dst), state

	case cfg.EKeys:
		obj, state := c.Eval(ctx, state, ee.Obj)
		objLoc, ok := obj.Loc()
		if !ok {
			return domain.AbsValue{Locs: domain.LocSet{Top: true}}, state
		}
		listLoc := ctx.allocLoc(ee.SiteID)
		return state.Keys(objLoc, listLoc)

	case cfg.EIsArrayIndex:
		val, state := c.Eval(ctx, state, ee.Value)
		cv, ok := val.GetSingle().Elem()
		if !ok || cv.Kind != domain.TypeString {
			return domain.AbsValue{Bool: domain.Top[bool]()}, state
		}
		return domain.FromBool(isArrayIndexString(cv.Str)), state

	case cfg.EUnary:
		v, state := c.Eval(ctx, state, ee.Val)
		return c.Operator(state, ee.Op, []domain.AbsValue{v}), state

	case cfg.EBinary:
		l, state := c.Eval(ctx, state, ee.Left)
		r, state := c.Eval(ctx, state, ee.Right)
		return c.Operator(state, ee.Op, []domain.AbsValue{l, r}), state

	case cfg.EVariadic:
		vals := make([]domain.AbsValue, len(ee.Operands))
		for i, sub := range ee.Operands {
			vals[i], state = c.Eval(ctx, state, sub)
		}
		return c.Operator(state, ee.Op, vals), state

	default:
		hardError("malformed expression node")
		return domain.Bottom, state
	}
}

// evalGetChildren implements the four-way case split of spec §4.4's
// GetChildren: an imprecise kind or AST operand is an abort, not a silent
// degrade, since "which children" cannot be safely approximated.
func (c *Core) evalGetChildren(ctx Ctx, state *domain.AbsState, ee cfg.EGetChildren) (domain.AbsValue, *domain.AbsState) {
	var kindVal domain.AbsValue
	if ee.Kind != nil {
		kindVal, state = c.Eval(ctx, state, ee.Kind)
		if kindVal.IsBottom() {
			return domain.Bottom, domain.BottomState()
		}
	}
	astVal, state := c.Eval(ctx, state, ee.AST)
	if astVal.IsBottom() {
		return domain.Bottom, domain.BottomState()
	}

	astCV, astSingle := astVal.GetSingle().Elem()
	if !astSingle || astCV.Kind != domain.TypeAST {
		explode("EGetChildren")
	}

	var kids []domain.ASTValue
	if ee.Kind != nil {
		kindCV, kindSingle := kindVal.GetSingle().Elem()
		if !kindSingle || kindCV.Kind != domain.TypeGrammar {
			explode("EGetChildren")
		}
		kids = astCV.AST.MatchChildren(kindCV.Grammar)
	} else {
		kids = astCV.AST.FlattenOptionalChildren()
	}

	elems := make([]domain.AbsValue, len(kids))
	for i, k := range kids {
		elems[i] = domain.FromAST(k)
	}
	loc := ctx.allocLoc(ee.SiteID)
	state = state.AllocList(loc, elems)
	return domain.FromLoc(loc), state
}

// evalCont builds ACont(entry, captured_locals) (spec §4.4). It captures
// every current local binding rather than a declared subset: the IR's
// continuation sites don't carry a capture list the way EClo's do, so the
// conservative choice is to snapshot the whole environment. The current
// function's return edges are copied onto the continuation's return point,
// so a later resumption's return fans out to the same callers.
func (c *Core) evalCont(ctx Ctx, state *domain.AbsState, ee cfg.ECont) domain.AbsValue {
	fn, ok := c.Prog.Func(string(ee.Func))
	if !ok {
		hardError("ECont: unknown function " + string(ee.Func))
	}
	contRP := cfg.ReturnPoint{Func: fn.Name, View: ctx.View}
	for _, callerNP := range c.Store.RetEdges(ctx.returnPoint()) {
		c.Store.DoCall(callerNP, c.Store.CallInfo(callerNP), contRP)
	}
	captured := map[string]domain.AbsValue{}
	for k, v := range state.LocalsSnapshot() {
		captured[k] = v
	}
	entry := cfg.NodePoint{Func: fn.Name, Node: fn.Entry, View: ctx.View}
	cont := domain.Continuation{
		Entry:         entry.Ref(),
		Captured:      captured,
		ReturnsComp:   fn.IsReturnComp,
		CallerRetEdge: ctx.returnPoint().Ref(),
	}
	return domain.FromContinuation(cont)
}

func boolAnd(a, b domain.AbsValue) domain.AbsValue {
	av, aok := a.GetSingle().Elem()
	bv, bok := b.GetSingle().Elem()
	if aok && av.Kind == domain.TypeBool && !av.Bool {
		return domain.AVF
	}
	if aok && bok && av.Kind == domain.TypeBool && bv.Kind == domain.TypeBool {
		return domain.FromBool(av.Bool && bv.Bool)
	}
	return domain.AbsValue{Bool: domain.Top[bool]()}
}

func boolOr(a, b domain.AbsValue) domain.AbsValue {
	av, aok := a.GetSingle().Elem()
	bv, bok := b.GetSingle().Elem()
	if aok && av.Kind == domain.TypeBool && av.Bool {
		return domain.AVT
	}
	if aok && bok && av.Kind == domain.TypeBool && bv.Kind == domain.TypeBool {
		return domain.FromBool(av.Bool || bv.Bool)
	}
	return domain.AbsValue{Bool: domain.Top[bool]()}
}

// isArrayIndexString reports whether s is the canonical decimal rendering
// of an integer in [0, 2^32-1), per ECMAScript's array index string rule
// (spec §4.4, EIsArrayIndex); ParseUint rejects signs and non-digit text,
// and the FormatUint round-trip rejects leading zeros, so what passes both
// is canonical.
func isArrayIndexString(s string) bool {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return false
	}
	if strconv.FormatUint(n, 10) != s {
		return false
	}
	return n < uint64(1)<<32-1
}
