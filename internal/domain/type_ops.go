package domain

// AVT and AVF are the two elements of the 2-point boolean lattice used by
// branch reachability (spec §4.1: "AVT ⊑ v -> then; AVF ⊑ v -> else").
var (
	AVT = FromBool(true)
	AVF = FromBool(false)
)

// populatedTypes returns every Type tag with a non-bottom/true dimension in
// v, used by TypeOf and by the presence check in PruneType.
func (v AbsValue) populatedTypes() []Type {
	var out []Type
	if !v.Bool.IsBottom() {
		out = append(out, TypeBool)
	}
	if !v.Str.IsBottom() {
		out = append(out, TypeString)
	}
	if !v.Num.IsBottom() {
		out = append(out, TypeNumber)
	}
	if !v.Math.IsBottom() {
		out = append(out, TypeMath)
	}
	if !v.BigInt.IsBottom() {
		out = append(out, TypeBigInt)
	}
	if !v.CodeUnit.IsBottom() {
		out = append(out, TypeCodeUnit)
	}
	if !v.Const.IsBottom() {
		out = append(out, TypeConst)
	}
	if v.Undef {
		out = append(out, TypeUndefined)
	}
	if v.Null {
		out = append(out, TypeNull)
	}
	if v.Absent {
		out = append(out, TypeAbsent)
	}
	if !v.AST.IsBottom() {
		out = append(out, TypeAST)
	}
	if !v.Grammar.IsBottom() {
		out = append(out, TypeGrammar)
	}
	if !v.Locs.IsEmpty() {
		out = append(out, TypeLoc)
	}
	if !v.Clos.IsEmpty() {
		out = append(out, TypeClo)
	}
	if !v.Conts.IsEmpty() {
		out = append(out, TypeCont)
	}
	return out
}

// TypeOf returns the set of type names v may have at runtime, as a Const
// lattice value (spec §4.4, "TypeOf ... delegate to the value"). The state
// parameter is accepted for interface parity with a richer domain (heap
// object type lookups) even though this flat value alone carries enough
// information for every type tag it natively represents.
func (v AbsValue) TypeOf(state *AbsState) AbsValue {
	types := v.populatedTypes()
	switch len(types) {
	case 0:
		return Bottom
	case 1:
		return FromConst(string(types[0]))
	default:
		return AbsValue{Const: Top[string]()}
	}
}

// TypeCheck reports, as a boolean lattice value, whether v is definitely
// (AVT), definitely not (AVF), or ambiguously (Top) of the named type
// (spec §4.4, "TypeCheck").
func (v AbsValue) TypeCheck(name Type, state *AbsState) AbsValue {
	types := v.populatedTypes()
	has := false
	for _, t := range types {
		if t == name {
			has = true
			break
		}
	}
	switch {
	case len(types) == 0:
		return Bottom
	case len(types) == 1 && has:
		return AVT
	case !has:
		return AVF
	default:
		return AbsValue{Bool: Top[bool]()}
	}
}

// PruneType narrows v to keep only (positive) or remove (negative) the
// named type dimension, per spec §4.6's prune_type.
func (v AbsValue) PruneType(name Type, positive bool) AbsValue {
	if positive {
		return v.keepOnly(name)
	}
	return v.remove(name)
}

func (v AbsValue) keepOnly(t Type) AbsValue {
	r := AbsValue{}
	switch t {
	case TypeBool:
		r.Bool = v.Bool
	case TypeString:
		r.Str = v.Str
	case TypeNumber:
		r.Num = v.Num
	case TypeMath:
		r.Math = v.Math
	case TypeBigInt:
		r.BigInt = v.BigInt
	case TypeCodeUnit:
		r.CodeUnit = v.CodeUnit
	case TypeConst:
		r.Const = v.Const
	case TypeUndefined:
		r.Undef = v.Undef
	case TypeNull:
		r.Null = v.Null
	case TypeAbsent:
		r.Absent = v.Absent
	case TypeAST:
		r.AST = v.AST
	case TypeGrammar:
		r.Grammar = v.Grammar
	case TypeLoc:
		r.Locs = v.Locs
	case TypeClo:
		r.Clos = v.Clos
	case TypeCont:
		r.Conts = v.Conts
	}
	return r
}

func (v AbsValue) remove(t Type) AbsValue {
	r := v
	switch t {
	case TypeBool:
		r.Bool = Bot[bool]()
	case TypeString:
		r.Str = Bot[string]()
	case TypeNumber:
		r.Num = Bot[float64]()
	case TypeMath:
		r.Math = Bot[float64]()
	case TypeBigInt:
		r.BigInt = Bot[string]()
	case TypeCodeUnit:
		r.CodeUnit = Bot[uint16]()
	case TypeConst:
		r.Const = Bot[string]()
	case TypeUndefined:
		r.Undef = false
	case TypeNull:
		r.Null = false
	case TypeAbsent:
		r.Absent = false
	case TypeAST:
		r.AST = Bot[ASTValue]()
	case TypeGrammar:
		r.Grammar = Bot[string]()
	case TypeLoc:
		r.Locs = LocSet{}
	case TypeClo:
		r.Clos = CloSet{}
	case TypeCont:
		r.Conts = ContSet{}
	}
	return r
}

// ConvertOp names a Convert operation's conversion kind (spec §4.4).
type ConvertOp string

const (
	ConvertToNumber    ConvertOp = "ToNumber"
	ConvertToMath      ConvertOp = "ToMath"
	ConvertToBigInt    ConvertOp = "ToBigInt"
	ConvertToString    ConvertOp = "ToString"
	ConvertToCodeUnit  ConvertOp = "ToCodeUnit"
)

// Convert performs a best-effort concrete conversion when v is a flat
// single scalar, degrading to Top of the destination kind otherwise (spec
// §4.4, "Convert(cop, radix)").
func (v AbsValue) Convert(op ConvertOp, radix int) AbsValue {
	cv, ok := v.GetSingle().Elem()
	if !ok {
		return v.convertTop(op)
	}
	switch op {
	case ConvertToNumber:
		switch cv.Kind {
		case TypeNumber:
			return FromNumber(cv.Num)
		case TypeMath:
			return FromNumber(cv.Math)
		case TypeString:
			return AbsValue{Num: Top[float64]()}
		}
	case ConvertToMath:
		switch cv.Kind {
		case TypeNumber:
			return FromMath(cv.Num)
		case TypeMath:
			return v
		}
	case ConvertToString:
		if cv.Kind == TypeNumber || cv.Kind == TypeMath {
			return AbsValue{Str: Top[string]()}
		}
	}
	return v.convertTop(op)
}

func (v AbsValue) convertTop(op ConvertOp) AbsValue {
	switch op {
	case ConvertToNumber:
		return AbsValue{Num: Top[float64]()}
	case ConvertToMath:
		return AbsValue{Math: Top[float64]()}
	case ConvertToBigInt:
		return AbsValue{BigInt: Top[string]()}
	case ConvertToString:
		return AbsValue{Str: Top[string]()}
	case ConvertToCodeUnit:
		return AbsValue{CodeUnit: Top[uint16]()}
	default:
		return AbsValue{Const: Top[string]()}
	}
}
