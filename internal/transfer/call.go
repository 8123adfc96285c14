package transfer

import (
	"github.com/kanso-lang/abstrans/internal/cfg"
	"github.com/kanso-lang/abstrans/internal/domain"
	"github.com/kanso-lang/abstrans/internal/view"
)

// Call is C6: dispatch one of the three call forms (spec §4.7). The
// returned value is the call's *direct* non-interprocedural contribution —
// always bottom for ICall/IMethodCall, since their results only become
// visible once C8 fans a callee's return back out to np's node — and,
// for ISdoCall, the joined lexical contribution alongside any registered
// syntactic calls.
func (c *Core) Call(ctx Ctx, np cfg.NodePoint, state *domain.AbsState, call cfg.CallInst) (domain.AbsValue, *domain.AbsState) {
	switch cc := call.(type) {
	case cfg.ICall:
		return c.callICall(ctx, np, state, cc)
	case cfg.IMethodCall:
		return c.callMethod(ctx, np, state, cc)
	case cfg.ISdoCall:
		return c.callSDO(ctx, np, state, cc)
	default:
		hardError("malformed call node")
		return domain.Bottom, state
	}
}

func (c *Core) callICall(ctx Ctx, np cfg.NodePoint, state *domain.AbsState, cc cfg.ICall) (domain.AbsValue, *domain.AbsState) {
	fv, state := c.Eval(ctx, state, cc.Fexpr)
	args, state := c.evalArgs(ctx, state, cc.Args)

	for _, clo := range fv.GetClos() {
		state = c.callClosure(ctx, np, state, clo, args)
	}
	for _, cont := range fv.GetCont() {
		state = c.resumeContinuation(ctx, state, cont, args)
	}
	return domain.Bottom, state
}

func (c *Core) callMethod(ctx Ctx, np cfg.NodePoint, state *domain.AbsState, cc cfg.IMethodCall) (domain.AbsValue, *domain.AbsState) {
	base, state := c.Eval(ctx, state, cc.Base)
	args, state := c.evalArgs(ctx, state, cc.Args)
	fv := state.GetKey(base, domain.FromString(cc.Method))
	full := append([]domain.AbsValue{base}, args...)

	for _, clo := range fv.GetClos() {
		state = c.callClosure(ctx, np, state, clo, full)
	}
	for _, cont := range fv.GetCont() {
		state = c.resumeContinuation(ctx, state, cont, full)
	}
	return domain.Bottom, state
}

func (c *Core) callSDO(ctx Ctx, np cfg.NodePoint, state *domain.AbsState, cc cfg.ISdoCall) (domain.AbsValue, *domain.AbsState) {
	bv, state := c.Eval(ctx, state, cc.Base)
	args, state := c.evalArgs(ctx, state, cc.Args)

	cv, single := bv.GetSingle().Elem()
	switch {
	case bv.IsBottom():
		return domain.Bottom, state
	case single && cv.Kind == domain.TypeAST && cv.AST.Lexical:
		return c.Interp.EvalLexical(cv.AST, cc.Method), state
	case single && cv.Kind == domain.TypeAST:
		name, ok := c.SDO.Resolve(cv.AST, cc.Method)
		if !ok {
			hardError("ISdoCall: no SDO for " + cv.AST.FuncName(cc.Method))
		}
		clo := domain.Closure{Func: domain.FuncRef(name)}
		full := append([]domain.AbsValue{bv}, args...)
		state = c.callClosure(ctx, np, state, clo, full)
		return domain.Bottom, state
	default:
		// Top AST: a real enumeration over every (sdo, ast) pair the value
		// could denote isn't expressible against this flat AST domain, so
		// the DEFAULT-eligible operations fall back to the generic handler
		// and anything else aborts rather than silently under-approximating.
		if !defaultOps[cc.Method] {
			explode("ISdoCall")
		}
		name := "<DEFAULT>." + cc.Method
		if _, ok := c.Prog.Func(name); !ok {
			explode("ISdoCall")
		}
		clo := domain.Closure{Func: domain.FuncRef(name)}
		full := append([]domain.AbsValue{bv}, args...)
		state = c.callClosure(ctx, np, state, clo, full)
		return domain.Bottom, state
	}
}

func (c *Core) evalArgs(ctx Ctx, state *domain.AbsState, exprs []cfg.Expr) ([]domain.AbsValue, *domain.AbsState) {
	vals := make([]domain.AbsValue, len(exprs))
	for i, e := range exprs {
		vals[i], state = c.Eval(ctx, state, e)
	}
	return vals, state
}

// callClosure registers a call edge for clo: builds the callee's initial
// locals (positional args unioned with the closure's captured bindings),
// emits that state at the callee's entry node point, records the call edge
// so C8 can later fan the callee's return back to np, and immediately
// replays any already-known return value (spec §4.7).
func (c *Core) callClosure(ctx Ctx, np cfg.NodePoint, state *domain.AbsState, clo domain.Closure, args []domain.AbsValue) *domain.AbsState {
	calleeFn, ok := c.Prog.Func(string(clo.Func))
	if !ok {
		hardError("call to unknown function " + string(clo.Func))
	}
	locals := calleeFn.Locals(args, false)
	for k, v := range clo.Captured {
		locals[k] = v
	}
	entryNP := cfg.NodePoint{Func: calleeFn.Name, Node: calleeFn.Entry, View: ctx.View}
	c.Store.Put(entryNP, state.Copied(locals))

	calleeRP := cfg.ReturnPoint{Func: calleeFn.Name, View: ctx.View}
	c.Store.DoCall(np, state, calleeRP)
	c.ReturnTransfer(calleeRP)
	return state
}

// resumeContinuation emits the continuation's captured locals (unioned with
// its positional resumption arguments) directly at its entry node point
// (spec §4.7): no call edge is registered, since resuming a continuation
// isn't itself a call whose value is later delivered through C8 — the
// continuation's eventual `return` targets the return point recorded when
// it was built.
func (c *Core) resumeContinuation(ctx Ctx, state *domain.AbsState, cont domain.Continuation, args []domain.AbsValue) *domain.AbsState {
	entryFn, ok := c.Prog.Func(cont.Entry.Func)
	if !ok {
		hardError("resume: unknown continuation function " + cont.Entry.Func)
	}
	wrapped := args
	if ctx.Func.IsReturnComp {
		wrapped = make([]domain.AbsValue, len(args))
		for i, a := range args {
			wrapped[i] = a.WrapCompletion()
		}
	}
	locals := entryFn.Locals(wrapped, true)
	for k, v := range cont.Captured {
		locals[k] = v
	}
	entryNP := cfg.NodePoint{Func: cont.Entry.Func, Node: cfg.NodeID(cont.Entry.Node), View: view.FromKey(cont.Entry.View)}
	c.Store.Put(entryNP, state.Copied(locals))
	return state
}
