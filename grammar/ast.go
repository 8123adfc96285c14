package grammar

import "github.com/alecthomas/participle/v2/lexer"

// Program is a whole-program ESIR text file: a sequence of function
// declarations later lowered into a *cfg.Program by Lower (build.go).
type Program struct {
	Functions []*FunctionDecl `@@*`
}

// FunctionDecl declares one CFG function: its name, positional parameter
// names, whether it closes over completion records on return (spec §4.1's
// IsReturnComp), and its blocks.
type FunctionDecl struct {
	Pos         lexer.Position
	Name        string       `"function" @Ident "("`
	Params      []string     `[ @Ident { "," @Ident } ] ")"`
	ReturnsComp bool         `[ @"returnsComp" ]`
	Blocks      []*BlockDecl `"{" @@* "}"`
}

// BlockDecl is one CFG node, named by Label. Loop marks it as a loop head
// (cfg.BranchNode.IsLoop); only meaningful when Term is a BranchTerm.
type BlockDecl struct {
	Pos   lexer.Position
	Loop  bool        `[ @"loop" ]`
	Label string      `"block" @Ident "{"`
	Insts []*InstDecl `@@*`
	Term  *Terminator `[ @@ ] "}"`
}

// InstDecl is one straight-line instruction (spec §4.3). The text surface
// covers Let, Assign, Return, Assert, Print, Nop and bare expression
// statements; Delete/Push/RemoveElem and the list-allocation expression forms
// are reachable only by building a cfg.Program directly (as the transfer and
// driver tests do) — the core implements all of them, but a hand-written
// assembly surface for every one of the ten instruction kinds plus every
// allocation expression wasn't needed to exercise the fixed point end to
// end.
type InstDecl struct {
	Let      *LetInst      `  @@`
	Assign   *AssignInst   `| @@`
	Return   *ReturnInst   `| @@`
	Assert   *AssertInst   `| @@`
	Print    *PrintInst    `| @@`
	Nop      *NopInst      `| @@`
	ExprStmt *ExprStmtInst `| @@`
}

type LetInst struct {
	Pos   lexer.Position
	Name  string `"let" @Ident "="`
	Value *Expr  `@@ ";"`
}

type AssignInst struct {
	Pos    lexer.Position
	Target *RefExpr `@@ "="`
	Value  *Expr    `@@ ";"`
}

type ReturnInst struct {
	Pos   lexer.Position
	Value *Expr `"return" [ @@ ] ";"`
}

type AssertInst struct {
	Pos   lexer.Position
	Value *Expr `"assert" @@ ";"`
}

type PrintInst struct {
	Pos   lexer.Position
	Value *Expr `"print" @@ ";"`
}

type NopInst struct {
	Pos lexer.Position
	Tok bool `@"nop" ";"`
}

type ExprStmtInst struct {
	Pos   lexer.Position
	Value *Expr `@@ ";"`
}

// RefExpr is an assignment target: an identifier, optionally followed by a
// chain of property accesses (spec §4.2's RefIdent / RefProp).
type RefExpr struct {
	Pos   lexer.Position
	Base  string   `@Ident`
	Props []string `{ "." @Ident }`
}

// Terminator ends a block: a fallthrough goto (BlockNode), a call
// (CallNode), or a conditional branch (BranchNode). A block with no
// terminator is a dead end (Next = cfg.NoNode) — the usual shape for a
// block whose last instruction is Return.
type Terminator struct {
	Goto   *GotoTerm   `  @@`
	Call   *CallTerm   `| @@`
	Branch *BranchTerm `| @@`
}

type GotoTerm struct {
	Pos    lexer.Position
	Target string `"goto" @Ident ";"`
}

// CallTerm is a closure, method, or syntax-directed-operation call (spec
// §4.7). For Kind "closure", Callee names the target function directly
// (cfg.EClo{Func}); for "method"/"sdo", Callee is the base expression and
// Method names the selector.
type CallTerm struct {
	Pos    lexer.Position
	Lhs    string  `"call" @Ident "="`
	Kind   string  `@("closure" | "method" | "sdo")`
	Callee *Expr   `"(" @@ ")"`
	Method *string `[ "." @Ident ]`
	Args   []*Expr `"(" [ @@ { "," @@ } ] ")"`
	Target string  `"->" @Ident ";"`
}

type BranchTerm struct {
	Pos  lexer.Position
	Cond *Expr  `"branch" "(" @@ ")"`
	Then string `"then" @Ident`
	Else string `[ "else" @Ident ]`
}

// Expr is a left-associative chain of binary operators over unary
// expressions. The text surface deliberately has one precedence level
// (parenthesize to nest) rather than the full operator-precedence table a
// general-purpose language would need — every IR-level expression is
// itself already a single operator application (spec §4.5), so nesting in
// practice only ever needs parens around a sub-EBinary, not a precedence
// climb.
type Expr struct {
	Pos  lexer.Position
	Left *UnaryExpr `@@`
	Ops  []*BinOp   `{ @@ }`
}

type BinOp struct {
	Op    string     `@("==" | "!=" | "<=" | ">=" | "&&" | "||" | "<" | ">" | "+" | "-" | "*" | "/" | "%")`
	Right *UnaryExpr `@@`
}

type UnaryExpr struct {
	Pos      lexer.Position
	Operator *string      `[ @("!" | "-" | "typeof") ]`
	Value    *PrimaryExpr `@@`
}

type PrimaryExpr struct {
	Pos     lexer.Position
	Number  *float64 `  @Number`
	String  *string  `| @String`
	Keyword *string  `| @("true" | "false" | "undefined" | "null" | "absent")`
	Ident   *string  `| @Ident`
	Paren   *Expr    `| "(" @@ ")"`
}
