package cfg

// Instruction is a straight-line instruction transferred by C5 (spec
// §4.3). BlockNode folds C5 over a list of these, stopping early at
// bottom.
type Instruction interface {
	instNode()
}

// ExprStmt evaluates E and discards the result.
type ExprStmt struct{ E Expr }

func (ExprStmt) instNode() {}

// Let evaluates E and binds the result to Name (define_local).
type Let struct {
	Name string
	E    Expr
}

func (Let) instNode() {}

// Assign resolves R to a reference, evaluates E, and writes through it
// (update).
type Assign struct {
	R Ref
	E Expr
}

func (Assign) instNode() {}

// Delete resolves R and removes the binding/field it denotes.
type Delete struct{ R Ref }

func (Delete) instNode() {}

// Push evaluates E and List, then prepends (Front) or appends E to the list
// at List's location.
type Push struct {
	E     Expr
	List  Expr
	Front bool
}

func (Push) instNode() {}

// RemoveElem removes Elem from the list at List's location.
type RemoveElem struct {
	List Expr
	Elem Expr
}

func (RemoveElem) instNode() {}

// Return evaluates E, submits it to the semantics store at the enclosing
// return point, and has no straight-line successor (the block's remaining
// instructions, if any, are unreachable).
type Return struct{ E Expr }

func (Return) instNode() {}

// Assert evaluates E and discards it; the core performs no refinement here
// (refinement is the pruner's job on branches).
type Assert struct{ E Expr }

func (Assert) instNode() {}

// Print is an identity instruction kept only for side effects external to
// the abstract semantics (console output in a concrete run); the core
// evaluates and discards E, exactly like ExprStmt, to exercise it as its
// own instruction form per the IR's instruction table (spec §4.3).
type Print struct{ E Expr }

func (Print) instNode() {}

// Nop is the identity instruction.
type Nop struct{}

func (Nop) instNode() {}
