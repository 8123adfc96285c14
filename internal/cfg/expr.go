package cfg

import "github.com/kanso-lang/abstrans/internal/domain"

// Expr is an IR expression node. C2 (the expression evaluator) is total
// over this interface: every variant always yields an abstract value (spec
// §4.4).
type Expr interface {
	exprNode()
}

// Literal forms lift directly to an AbsValue; C2 handles these without any
// state threading.
type (
	LitBool      struct{ Value bool }
	LitString    struct{ Value string }
	LitNumber    struct{ Value float64 }
	LitMath      struct{ Value float64 }
	LitBigInt    struct{ Value string }
	LitCodeUnit  struct{ Value uint16 }
	LitConst     struct{ Value string }
	LitUndefined struct{}
	LitNull      struct{}
	LitAbsent    struct{}
)

func (LitBool) exprNode()      {}
func (LitString) exprNode()    {}
func (LitNumber) exprNode()    {}
func (LitMath) exprNode()      {}
func (LitBigInt) exprNode()    {}
func (LitCodeUnit) exprNode()  {}
func (LitConst) exprNode()     {}
func (LitUndefined) exprNode() {}
func (LitNull) exprNode()      {}
func (LitAbsent) exprNode()    {}

// Ident reads a local binding directly (lookup_local), distinct from
// ERef(RefIdent) only in that it never goes through C1's reference
// resolution machinery.
type Ident struct{ Name string }

func (Ident) exprNode() {}

// ERef reads through a reference value resolved by C1.
type ERef struct{ Ref Ref }

func (ERef) exprNode() {}

// EComp constructs a completion record: EComp(ty, val, tgt) -> mkCompletion
// (spec §4.4). Target is optional; nil means no target label.
type EComp struct {
	Type   domain.CompletionType
	Value  Expr
	Target Expr // may be nil
}

func (EComp) exprNode() {}

// EIsCompletion tests whether Value's abstract value may be a completion
// record.
type EIsCompletion struct{ Value Expr }

func (EIsCompletion) exprNode() {}

// EReturnIfAbrupt is returnIfAbrupt(v, check) (spec §4.4): when Check, the
// abrupt half of v additionally triggers an early do_return, while analysis
// continues on the unwrapped normal half. Check is known at CFG-build time
// (it reflects whether this site sits in a context where abrupt completion
// must propagate), not re-evaluated per state.
type EReturnIfAbrupt struct {
	Value Expr
	Check bool
}

func (EReturnIfAbrupt) exprNode() {}

// EPop is destructive: Pop(list) removes and returns the list's last
// element (spec §4.4).
type EPop struct{ List Expr }

func (EPop) exprNode() {}

// EParse delegates to the code value's parse(rule) (spec §4.4).
type EParse struct {
	Code Expr
	Rule string
}

func (EParse) exprNode() {}

// EGetChildren implements GetChildren's four-way case split on
// (kindOpt.getSingle, ast.getSingle) (spec §4.4). Kind is nil for the
// "none" arm (flatten optional children); non-nil evaluates to a grammar
// constant naming the non-terminal to select. The matched/flattened
// children are materialized as a fresh list object at SiteID.
type EGetChildren struct {
	Kind   Expr // may be nil
	AST    Expr
	SiteID int
}

func (EGetChildren) exprNode() {}

// EAnd and EOr short-circuit: if Left concretely determines the result
// (false for And, true for Or), Right is never evaluated (spec §4.4, used
// by testable property 3).
type (
	EAnd struct{ Left, Right Expr }
	EOr  struct{ Left, Right Expr }
)

func (EAnd) exprNode() {}
func (EOr) exprNode()  {}

// EEqAbsent is Eq(ref, absent), implemented as not exists(ref) (spec §4.4).
type EEqAbsent struct{ Ref Ref }

func (EEqAbsent) exprNode() {}

// ETypeOf, ETypeCheck, EConvert delegate to the evaluated value's matching
// domain.AbsValue method (spec §4.4).
type (
	ETypeOf    struct{ Value Expr }
	ETypeCheck struct {
		Value Expr
		Name  domain.Type
	}
	EConvert struct {
		Value Expr
		Op    domain.ConvertOp
		Radix int
	}
)

func (ETypeOf) exprNode()    {}
func (ETypeCheck) exprNode() {}
func (EConvert) exprNode()   {}

// EClo builds AClo(function, captured_locals): Captures names the current
// function's local bindings to snapshot at this site (spec §4.4).
type EClo struct {
	Func     domain.FuncRef
	Captures []string
}

func (EClo) exprNode() {}

// ECont builds ACont(entry_node_point, captured_locals): captures every
// named (non-temporary) local binding and copies the current function's
// return edges, so a later resumption re-fans-out to the same callers
// (spec §4.4).
type ECont struct {
	Func domain.FuncRef
}

func (ECont) exprNode() {}

// MapField is one field initializer of an EMap, kept as an ordered slice
// entry (rather than a map) so C2 evaluates field expressions in the
// written order the spec requires (spec §5, "expression sub-evaluations
// follow the written order").
type MapField struct {
	Key   string
	Value Expr
}

// Allocation forms each use an allocation site (SiteID, view) (spec §4.4).
type (
	EMap struct {
		SiteID int
		Fields []MapField
	}
	EList struct {
		SiteID int
		Elems  []Expr
	}
	EListConcat struct {
		SiteID int
		Lists  []Expr
	}
	ESymbol struct {
		SiteID int
		Desc   Expr
	}
	ECopy struct {
		SiteID int
		Src    Expr
	}
	EKeys struct {
		SiteID int
		Obj    Expr
	}
)

func (EMap) exprNode()        {}
func (EList) exprNode()       {}
func (EListConcat) exprNode() {}
func (ESymbol) exprNode()     {}
func (ECopy) exprNode()       {}
func (EKeys) exprNode()       {}

// EIsArrayIndex computes, on a concrete string, the canonical Number
// stringification and integer decoding; true iff the round-trip is equal
// and the value lies in [0, 2^32-1) (spec §4.4).
type EIsArrayIndex struct{ Value Expr }

func (EIsArrayIndex) exprNode() {}

// EUnary and EBinary lift an operator over the evaluated operand(s) via C3
// (spec §4.5).
type (
	EUnary struct {
		Op  domain.Op
		Val Expr
	}
	EBinary struct {
		Op          domain.Op
		Left, Right Expr
	}
	// EVariadic covers min/max/concat's N-ary forms (spec §4.5).
	EVariadic struct {
		Op       domain.Op
		Operands []Expr
	}
)

func (EUnary) exprNode()    {}
func (EBinary) exprNode()   {}
func (EVariadic) exprNode() {}
