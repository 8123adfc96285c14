package domain

// Type names the runtime kinds an abstract value can carry. It plays the
// role Kanso's builtins.BuiltinType played for the Move/EVM type universe,
// re-centered on the ECMAScript-IR value universe from spec §3.
type Type string

const (
	TypeBool      Type = "Bool"
	TypeString    Type = "String"
	TypeNumber    Type = "Number"
	TypeMath      Type = "Math"
	TypeBigInt    Type = "BigInt"
	TypeCodeUnit  Type = "CodeUnit"
	TypeConst     Type = "Const"
	TypeUndefined Type = "Undefined"
	TypeNull      Type = "Null"
	TypeAbsent    Type = "Absent"
	TypeAST       Type = "AST"
	TypeGrammar   Type = "Grammar"
	TypeLoc       Type = "Loc"
	TypeClo       Type = "Clo"
	TypeCont      Type = "Cont"
	TypeComp      Type = "Completion"
)

// BuiltinTypes enumerates every type tag the core understands, in a stable
// order; IsBuiltinType searches it.
var BuiltinTypes = []Type{
	TypeBool, TypeString, TypeNumber, TypeMath, TypeBigInt, TypeCodeUnit,
	TypeConst, TypeUndefined, TypeNull, TypeAbsent, TypeAST, TypeGrammar,
	TypeLoc, TypeClo, TypeCont, TypeComp,
}

// IsBuiltinType reports whether name is one of the core's known type tags.
func IsBuiltinType(name Type) bool {
	for _, t := range BuiltinTypes {
		if t == name {
			return true
		}
	}
	return false
}

// IsNumericType reports whether t participates in arithmetic lifting (§4.5).
func IsNumericType(t Type) bool {
	return t == TypeNumber || t == TypeMath || t == TypeBigInt
}
