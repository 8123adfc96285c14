package domain

// FuncRef names a callee by its function-name-map key (spec §6 fname_map).
// The transfer core treats it as opaque; the CFG collaborator resolves it.
type FuncRef string

// Closure is AClo(function, captured_locals) from spec §3: a closure value
// captures the current bindings of each name named at the EClo site.
type Closure struct {
	Func     FuncRef
	Captured map[string]AbsValue
}

// Equal reports structural equality, used when joining sets of closures.
func (c Closure) Equal(o Closure) bool {
	if c.Func != o.Func || len(c.Captured) != len(o.Captured) {
		return false
	}
	for k, v := range c.Captured {
		ov, ok := o.Captured[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// NodePointRef identifies a CFG node point without the transfer core
// depending on the cfg package (which in turn depends on domain); it is
// populated and consumed by internal/cfg and internal/transfer only.
type NodePointRef struct {
	Func string
	Node int
	View string
}

// Continuation is ACont(entry_node_point, captured_locals) from spec §3: a
// captured suspended computation, resumable via continuation call (§4.7).
type Continuation struct {
	Entry         NodePointRef
	Captured      map[string]AbsValue
	ReturnsComp   bool // the owning function's declared return-completion flag
	CallerRetEdge ReturnPointRef
}

// ReturnPointRef identifies a return point (callee_func, callee_view).
type ReturnPointRef struct {
	Func string
	View string
}

// Equal reports structural equality, used when joining sets of continuations.
func (c Continuation) Equal(o Continuation) bool {
	if c.Entry != o.Entry || c.ReturnsComp != o.ReturnsComp || c.CallerRetEdge != o.CallerRetEdge {
		return false
	}
	if len(c.Captured) != len(o.Captured) {
		return false
	}
	for k, v := range c.Captured {
		ov, ok := o.Captured[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}
