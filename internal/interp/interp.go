// Package interp is the concrete interpreter collaborator (spec §6):
// reused only for constant-folding fully concrete operands, looking up a
// callee's declared return type, and evaluating lexical SDOs.
// It is deliberately out of the transfer core's scope (spec §1) but the
// core depends on its three entry points.
package interp

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kanso-lang/abstrans/internal/domain"
)

// Op is domain.Op: the shared operator vocabulary between CFG expression
// nodes and this package.
type Op = domain.Op

const (
	OpAdd    = domain.OpAdd
	OpSub    = domain.OpSub
	OpMul    = domain.OpMul
	OpDiv    = domain.OpDiv
	OpMod    = domain.OpMod
	OpLt     = domain.OpLt
	OpLe     = domain.OpLe
	OpGt     = domain.OpGt
	OpGe     = domain.OpGe
	OpEq     = domain.OpEq
	OpNeq    = domain.OpNeq
	OpNeg    = domain.OpNeg
	OpNot    = domain.OpNot
	OpMin    = domain.OpMin
	OpMax    = domain.OpMax
	OpConcat = domain.OpConcat
)

// Interp is the concrete interpreter: a pure function from operator and
// concrete operands to a concrete result, lifted back to an AbsValue by the
// caller (spec §4.5).
type Interp struct {
	// TypeMap is Interp.set_type_map: function_name -> declared_return_type
	// (spec §6), consulted by C8's return transfer.
	TypeMap map[string]domain.Type
}

// New returns an Interp with an empty declared-return-type map.
func New() *Interp {
	return &Interp{TypeMap: map[string]domain.Type{}}
}

// Eval constant-folds op over fully concrete operands (spec §4.5: "if all
// operands are concrete ... delegate to the concrete interpreter"). It
// returns an error if the combination of op/operand kinds is not supported,
// signaling the caller should fall back to the lattice-level operator.
func (ip *Interp) Eval(op Op, operands []domain.ConcreteValue) (domain.AbsValue, error) {
	switch op {
	case OpAdd, OpSub, OpMul, OpDiv, OpMod:
		return ip.evalArith(op, operands)
	case OpLt, OpLe, OpGt, OpGe:
		return ip.evalCompare(op, operands)
	case OpEq, OpNeq:
		return ip.evalEquality(op, operands)
	case OpNeg:
		return ip.evalNeg(operands)
	case OpNot:
		return ip.evalNot(operands)
	case OpConcat:
		return ip.evalConcat(operands)
	case OpMin, OpMax:
		return ip.evalMinMax(op, operands)
	default:
		return domain.Bottom, fmt.Errorf("interp: unsupported operator %q", op)
	}
}

func numOf(cv domain.ConcreteValue) (float64, bool) {
	switch cv.Kind {
	case domain.TypeNumber:
		return cv.Num, true
	case domain.TypeMath:
		return cv.Math, true
	}
	return 0, false
}

func (ip *Interp) evalArith(op Op, ops []domain.ConcreteValue) (domain.AbsValue, error) {
	if len(ops) != 2 {
		return domain.Bottom, fmt.Errorf("interp: %s needs 2 operands", op)
	}
	a, aok := numOf(ops[0])
	b, bok := numOf(ops[1])
	if !aok || !bok {
		return domain.Bottom, fmt.Errorf("interp: %s needs numeric operands", op)
	}
	var r float64
	switch op {
	case OpAdd:
		r = a + b
	case OpSub:
		r = a - b
	case OpMul:
		r = a * b
	case OpDiv:
		r = a / b
	case OpMod:
		r = mathMod(a, b)
	}
	if ops[0].Kind == domain.TypeMath && ops[1].Kind == domain.TypeMath {
		return domain.FromMath(r), nil
	}
	return domain.FromNumber(r), nil
}

func mathMod(a, b float64) float64 {
	m := a - b*float64(int64(a/b))
	return m
}

func (ip *Interp) evalCompare(op Op, ops []domain.ConcreteValue) (domain.AbsValue, error) {
	if len(ops) != 2 {
		return domain.Bottom, fmt.Errorf("interp: %s needs 2 operands", op)
	}
	a, aok := numOf(ops[0])
	b, bok := numOf(ops[1])
	if !aok || !bok {
		return domain.Bottom, fmt.Errorf("interp: %s needs numeric operands", op)
	}
	var r bool
	switch op {
	case OpLt:
		r = a < b
	case OpLe:
		r = a <= b
	case OpGt:
		r = a > b
	case OpGe:
		r = a >= b
	}
	return domain.FromBool(r), nil
}

func (ip *Interp) evalEquality(op Op, ops []domain.ConcreteValue) (domain.AbsValue, error) {
	if len(ops) != 2 {
		return domain.Bottom, fmt.Errorf("interp: %s needs 2 operands", op)
	}
	eq := concreteEqual(ops[0], ops[1])
	if op == OpNeq {
		eq = !eq
	}
	return domain.FromBool(eq), nil
}

func concreteEqual(a, b domain.ConcreteValue) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case domain.TypeBool:
		return a.Bool == b.Bool
	case domain.TypeString:
		return a.Str == b.Str
	case domain.TypeNumber:
		return a.Num == b.Num
	case domain.TypeMath:
		return a.Math == b.Math
	case domain.TypeBigInt:
		return a.BigInt == b.BigInt
	case domain.TypeCodeUnit:
		return a.CodeUnit == b.CodeUnit
	case domain.TypeConst:
		return a.Const == b.Const
	case domain.TypeUndefined, domain.TypeNull, domain.TypeAbsent:
		return true
	default:
		return false
	}
}

func (ip *Interp) evalNeg(ops []domain.ConcreteValue) (domain.AbsValue, error) {
	if len(ops) != 1 {
		return domain.Bottom, fmt.Errorf("interp: neg needs 1 operand")
	}
	n, ok := numOf(ops[0])
	if !ok {
		return domain.Bottom, fmt.Errorf("interp: neg needs a numeric operand")
	}
	if ops[0].Kind == domain.TypeMath {
		return domain.FromMath(-n), nil
	}
	return domain.FromNumber(-n), nil
}

func (ip *Interp) evalNot(ops []domain.ConcreteValue) (domain.AbsValue, error) {
	if len(ops) != 1 || ops[0].Kind != domain.TypeBool {
		return domain.Bottom, fmt.Errorf("interp: ! needs 1 boolean operand")
	}
	return domain.FromBool(!ops[0].Bool), nil
}

func (ip *Interp) evalConcat(ops []domain.ConcreteValue) (domain.AbsValue, error) {
	var b strings.Builder
	for _, o := range ops {
		switch o.Kind {
		case domain.TypeString:
			b.WriteString(o.Str)
		case domain.TypeCodeUnit:
			b.WriteRune(rune(o.CodeUnit))
		default:
			return domain.Bottom, fmt.Errorf("interp: concat needs string/code-unit operands")
		}
	}
	return domain.FromString(b.String()), nil
}

// evalMinMax folds a variadic min/max over fully concrete numeric operands.
// The absorbing-infinity cases are decided in the operator evaluator (spec
// §4.5 and §9's open-question note on the min/max reducer mix-up) before
// this is called; an infinity that does not decide the result (+Inf under
// min, -Inf under max) reaches this fold like any other operand.
func (ip *Interp) evalMinMax(op Op, ops []domain.ConcreteValue) (domain.AbsValue, error) {
	if len(ops) == 0 {
		return domain.Bottom, fmt.Errorf("interp: %s needs at least 1 operand", op)
	}
	best, ok := numOf(ops[0])
	if !ok {
		return domain.Bottom, fmt.Errorf("interp: %s needs numeric operands", op)
	}
	for _, o := range ops[1:] {
		n, ok := numOf(o)
		if !ok {
			return domain.Bottom, fmt.Errorf("interp: %s needs numeric operands", op)
		}
		if (op == OpMin && n < best) || (op == OpMax && n > best) {
			best = n
		}
	}
	return domain.FromNumber(best), nil
}

// EvalLexical evaluates a lexical SDO directly, without a call edge (spec
// §4.7: "Concrete lexical AST lex: delegate to the concrete interpreter
// interp(lex, method); produce value directly"). Lacking a real
// ECMAScript lexical grammar, this recognizes a handful of numeric/string
// conversion SDOs sufficient to exercise the dispatch; anything else
// returns Top rather than fabricating semantics.
func (ip *Interp) EvalLexical(lex domain.ASTValue, method string) domain.AbsValue {
	switch method {
	case "NumericValue":
		if n, err := strconv.ParseFloat(lex.Text, 64); err == nil {
			return domain.FromNumber(n)
		}
		return domain.AbsValue{} // bottom: malformed numeric literal text
	case "StringValue":
		return domain.FromString(lex.Text)
	default:
		return domain.AbsValue{Str: domain.Top[string](), Num: domain.Top[float64]()}
	}
}

// DeclaredReturnType looks up fn's declared return type in TypeMap
// (Interp.set_type_map, spec §6, §4.2), reporting false if none is recorded.
func (ip *Interp) DeclaredReturnType(fn string) (domain.Type, bool) {
	t, ok := ip.TypeMap[fn]
	return t, ok
}
