package grammar

import (
	"fmt"

	"github.com/kanso-lang/abstrans/internal/cfg"
	"github.com/kanso-lang/abstrans/internal/domain"
)

// Lower builds a *cfg.Program from a parsed ESIR text file. Block labels
// are resolved to cfg.NodeID per function in declaration order (the block
// labelled "entry" is the function's Entry if there is one, otherwise the
// first block), and every goto/call/branch target is checked against the
// function's own label set — an undefined label is a hard error (spec §7,
// error kind 3: malformed IR), returned as a plain error naming the label
// and function.
func Lower(prog *Program) (*cfg.Program, error) {
	out := &cfg.Program{Functions: map[string]*cfg.Function{}}
	for _, fn := range prog.Functions {
		built, err := lowerFunction(fn)
		if err != nil {
			return nil, err
		}
		out.Functions[built.Name] = built
	}
	return out, nil
}

func lowerFunction(fn *FunctionDecl) (*cfg.Function, error) {
	labels := make(map[string]cfg.NodeID, len(fn.Blocks))
	for i, b := range fn.Blocks {
		if _, dup := labels[b.Label]; dup {
			return nil, fmt.Errorf("function %q: duplicate block label %q", fn.Name, b.Label)
		}
		labels[b.Label] = cfg.NodeID(i)
	}

	resolve := func(label string) (cfg.NodeID, error) {
		id, ok := labels[label]
		if !ok {
			return cfg.NoNode, fmt.Errorf("function %q: undefined label %q", fn.Name, label)
		}
		return id, nil
	}

	nodes := make(map[cfg.NodeID]cfg.Node, len(fn.Blocks))
	for i, b := range fn.Blocks {
		node, err := lowerBlock(b, resolve)
		if err != nil {
			return nil, err
		}
		nodes[cfg.NodeID(i)] = node
	}

	entry := cfg.NodeID(0)
	if len(fn.Blocks) > 0 {
		if id, ok := labels["entry"]; ok {
			entry = id
		}
	}

	return &cfg.Function{
		Name:         fn.Name,
		Entry:        entry,
		Params:       fn.Params,
		IsReturnComp: fn.ReturnsComp,
		Nodes:        nodes,
	}, nil
}

func lowerBlock(b *BlockDecl, resolve func(string) (cfg.NodeID, error)) (cfg.Node, error) {
	insts, err := lowerInsts(b.Insts)
	if err != nil {
		return nil, err
	}

	if b.Term == nil {
		return cfg.BlockNode{Insts: insts, Next: cfg.NoNode}, nil
	}

	switch {
	case b.Term.Goto != nil:
		next, err := resolve(b.Term.Goto.Target)
		if err != nil {
			return nil, err
		}
		return cfg.BlockNode{Insts: insts, Next: next}, nil

	case b.Term.Call != nil:
		ct := b.Term.Call
		next, err := resolve(ct.Target)
		if err != nil {
			return nil, err
		}
		call, err := lowerCall(ct)
		if err != nil {
			return nil, err
		}
		return cfg.CallNode{Call: call, Lhs: ct.Lhs, Next: next}, nil

	case b.Term.Branch != nil:
		bt := b.Term.Branch
		cond, err := lowerExpr(bt.Cond)
		if err != nil {
			return nil, err
		}
		then, err := resolve(bt.Then)
		if err != nil {
			return nil, err
		}
		node := cfg.BranchNode{Cond: cond, Then: then, IsLoop: b.Loop}
		if bt.Else != "" {
			els, err := resolve(bt.Else)
			if err != nil {
				return nil, err
			}
			node.Else = els
			node.ElsePresent = true
		} else {
			node.Else = cfg.NoNode
		}
		return node, nil
	}

	return cfg.BlockNode{Insts: insts, Next: cfg.NoNode}, nil
}

func lowerCall(ct *CallTerm) (cfg.CallInst, error) {
	switch ct.Kind {
	case "closure":
		ident := ct.Callee.Left.Value.Ident
		if ident == nil || ct.Callee.Left.Operator != nil || len(ct.Callee.Ops) != 0 {
			return nil, fmt.Errorf("closure call target must be a bare function name")
		}
		args, err := lowerExprs(ct.Args)
		if err != nil {
			return nil, err
		}
		return cfg.ICall{Fexpr: cfg.EClo{Func: domain.FuncRef(*ident)}, Args: args}, nil

	case "method":
		base, err := lowerExpr(ct.Callee)
		if err != nil {
			return nil, err
		}
		args, err := lowerExprs(ct.Args)
		if err != nil {
			return nil, err
		}
		return cfg.IMethodCall{Base: base, Method: methodName(ct), Args: args}, nil

	case "sdo":
		base, err := lowerExpr(ct.Callee)
		if err != nil {
			return nil, err
		}
		args, err := lowerExprs(ct.Args)
		if err != nil {
			return nil, err
		}
		return cfg.ISdoCall{Base: base, Method: methodName(ct), Args: args}, nil
	}
	return nil, fmt.Errorf("unknown call kind %q", ct.Kind)
}

func methodName(ct *CallTerm) string {
	if ct.Method == nil {
		return ""
	}
	return *ct.Method
}

func lowerInsts(decls []*InstDecl) ([]cfg.Instruction, error) {
	out := make([]cfg.Instruction, 0, len(decls))
	for _, d := range decls {
		inst, err := lowerInst(d)
		if err != nil {
			return nil, err
		}
		out = append(out, inst)
	}
	return out, nil
}

func lowerInst(d *InstDecl) (cfg.Instruction, error) {
	switch {
	case d.Let != nil:
		e, err := lowerExpr(d.Let.Value)
		if err != nil {
			return nil, err
		}
		return cfg.Let{Name: d.Let.Name, E: e}, nil

	case d.Assign != nil:
		ref := lowerRef(d.Assign.Target)
		e, err := lowerExpr(d.Assign.Value)
		if err != nil {
			return nil, err
		}
		return cfg.Assign{R: ref, E: e}, nil

	case d.Return != nil:
		if d.Return.Value == nil {
			return cfg.Return{E: cfg.LitUndefined{}}, nil
		}
		e, err := lowerExpr(d.Return.Value)
		if err != nil {
			return nil, err
		}
		return cfg.Return{E: e}, nil

	case d.Assert != nil:
		e, err := lowerExpr(d.Assert.Value)
		if err != nil {
			return nil, err
		}
		return cfg.Assert{E: e}, nil

	case d.Print != nil:
		e, err := lowerExpr(d.Print.Value)
		if err != nil {
			return nil, err
		}
		return cfg.Print{E: e}, nil

	case d.Nop != nil:
		return cfg.Nop{}, nil

	case d.ExprStmt != nil:
		e, err := lowerExpr(d.ExprStmt.Value)
		if err != nil {
			return nil, err
		}
		return cfg.ExprStmt{E: e}, nil
	}
	return nil, fmt.Errorf("empty instruction")
}

func lowerRef(r *RefExpr) cfg.Ref {
	var ref cfg.Ref = cfg.RefIdent{Name: r.Base}
	for _, prop := range r.Props {
		ref = cfg.RefProp{Base: refAsExpr(ref), Key: cfg.LitString{Value: prop}}
	}
	return ref
}

// refAsExpr wraps a syntactic Ref back into an Expr so it can serve as the
// Base of a deeper RefProp chain (a.b.c lowers to RefProp(RefProp(a, "b"),
// "c"), and RefProp.Base is an Expr, not a Ref).
func refAsExpr(r cfg.Ref) cfg.Expr {
	switch v := r.(type) {
	case cfg.RefIdent:
		return cfg.Ident{Name: v.Name}
	case cfg.RefProp:
		return cfg.ERef{Ref: v}
	}
	return cfg.LitUndefined{}
}

func lowerExprs(decls []*Expr) ([]cfg.Expr, error) {
	out := make([]cfg.Expr, 0, len(decls))
	for _, d := range decls {
		e, err := lowerExpr(d)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func lowerExpr(e *Expr) (cfg.Expr, error) {
	left, err := lowerUnary(e.Left)
	if err != nil {
		return nil, err
	}
	for _, op := range e.Ops {
		right, err := lowerUnary(op.Right)
		if err != nil {
			return nil, err
		}
		left = cfg.EBinary{Op: domain.Op(op.Op), Left: left, Right: right}
	}
	return left, nil
}

func lowerUnary(u *UnaryExpr) (cfg.Expr, error) {
	val, err := lowerPrimary(u.Value)
	if err != nil {
		return nil, err
	}
	if u.Operator == nil {
		return val, nil
	}
	switch *u.Operator {
	case "!":
		return cfg.EUnary{Op: domain.OpNot, Val: val}, nil
	case "-":
		return cfg.EUnary{Op: domain.OpNeg, Val: val}, nil
	case "typeof":
		return cfg.ETypeOf{Value: val}, nil
	}
	return nil, fmt.Errorf("unknown unary operator %q", *u.Operator)
}

func lowerPrimary(p *PrimaryExpr) (cfg.Expr, error) {
	switch {
	case p.Number != nil:
		return cfg.LitNumber{Value: *p.Number}, nil
	case p.String != nil:
		return cfg.LitString{Value: unquote(*p.String)}, nil
	case p.Keyword != nil:
		switch *p.Keyword {
		case "true":
			return cfg.LitBool{Value: true}, nil
		case "false":
			return cfg.LitBool{Value: false}, nil
		case "undefined":
			return cfg.LitUndefined{}, nil
		case "null":
			return cfg.LitNull{}, nil
		case "absent":
			return cfg.LitAbsent{}, nil
		}
	case p.Ident != nil:
		return cfg.Ident{Name: *p.Ident}, nil
	case p.Paren != nil:
		return lowerExpr(p.Paren)
	}
	return nil, fmt.Errorf("empty primary expression")
}

// unquote strips the surrounding quotes the String lexer rule captured
// along with the text (participle hands back the raw matched token,
// quotes included, since no mapper unescapes it).
func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
