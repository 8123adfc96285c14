package domain

// IsCompletion reports whether v may be a completion record (spec §4.4,
// "IsCompletion").
func (v AbsValue) IsCompletion() bool { return !v.Comp.IsBottom() }

// WrapCompletion lifts a plain value to a Normal completion, per ECMAScript's
// UpdateEmpty/NormalCompletion convention: a value that is already a
// completion passes through unchanged (spec invariant 5, "wrap_completion").
func (v AbsValue) WrapCompletion() AbsValue {
	if v.IsCompletion() {
		return v
	}
	return AbsValue{Comp: Single(Completion{Type: CompletionNormal, Value: v})}
}

// UnwrapCompletion extracts the carried value from a completion record,
// passing non-completion values through unchanged (spec §4.4,
// "ReturnIfAbrupt").
func (v AbsValue) UnwrapCompletion() AbsValue {
	switch v.Comp.Kind() {
	case KindBot:
		return v
	case KindTop:
		return topValue() // collapsed: degrade to an opaque non-bottom value
	default:
		c, _ := v.Comp.Elem()
		return c.Value
	}
}

// AbruptCompletion returns the abrupt-only projection of v: itself if v is a
// concrete abrupt completion, otherwise Bottom (spec §4.4,
// "do_return(v.abrupt_completion)").
func (v AbsValue) AbruptCompletion() AbsValue {
	c, ok := v.Comp.Elem()
	if !ok || !c.Type.IsAbrupt() {
		return Bottom
	}
	return v
}

// topValue is the fully-imprecise AbsValue, used where a collapsed
// completion must degrade to "some unknown concrete value" rather than bottom.
func topValue() AbsValue {
	return AbsValue{
		Bool: Top[bool](), Str: Top[string](), Num: Top[float64](), Math: Top[float64](),
		BigInt: Top[string](), CodeUnit: Top[uint16](), Const: Top[string](),
		Undef: true, Null: true, Absent: true,
		AST: Top[ASTValue](), Grammar: Top[string](),
		Locs: LocSet{Top: true}, Clos: CloSet{Top: true}, Conts: ContSet{Top: true},
	}
}
