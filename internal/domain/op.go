package domain

// Op names a unary, binary or variadic operator from the IR's expression
// language (spec §4.5), shared between the CFG's expression nodes and the
// concrete interpreter collaborator so neither package has to depend on the
// other's operator vocabulary.
type Op string

const (
	OpAdd    Op = "+"
	OpSub    Op = "-"
	OpMul    Op = "*"
	OpDiv    Op = "/"
	OpMod    Op = "%"
	OpLt     Op = "<"
	OpLe     Op = "<="
	OpGt     Op = ">"
	OpGe     Op = ">="
	OpEq     Op = "=="
	OpNeq    Op = "!="
	OpNeg    Op = "neg"
	OpNot    Op = "!"
	OpMin    Op = "min"
	OpMax    Op = "max"
	OpConcat Op = "concat"
)
