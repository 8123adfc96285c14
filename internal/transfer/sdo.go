package transfer

import (
	"github.com/kanso-lang/abstrans/internal/cfg"
	"github.com/kanso-lang/abstrans/internal/domain"
)

// defaultOps are the operations that fall back to a "<DEFAULT>.<op>" handler
// when no production-specific syntax-directed operation is defined (spec
// §4.8).
var defaultOps = map[string]bool{
	"Contains":                   true,
	"AllPrivateIdentifiersValid": true,
	"ContainsArguments":          true,
}

// Table is C9's memoized syntax-directed-operation resolver (spec §4.8).
type Table struct {
	prog  *cfg.Program
	cache map[string]string
}

// NewTable builds an empty resolver over prog's function-name map.
func NewTable(prog *cfg.Program) *Table {
	return &Table{prog: prog, cache: map[string]string{}}
}

// Resolve walks ast's chain (spec §4.8's innermost-first transparent-
// ancestor walk), computing "<astName>[<prodIdx>,<subIdx>].<op>" at each
// link and returning the first that names a known function. Falls back to
// "<DEFAULT>.<op>" at the innermost link for the DEFAULT-eligible
// operations. The memo key is the function name of every link in the chain,
// so two ASTs that share an innermost (name, prodIdx, subIdx) but have
// different transparent ancestors are cached separately.
func (t *Table) Resolve(ast domain.ASTValue, op string) (string, bool) {
	chain := ast.Chain()
	key := ""
	for _, link := range chain {
		key += link.FuncName(op) + "|"
	}
	if v, ok := t.cache[key]; ok {
		return v, v != ""
	}
	for _, link := range chain {
		name := link.FuncName(op)
		if _, ok := t.prog.Func(name); ok {
			t.cache[key] = name
			return name, true
		}
	}
	if defaultOps[op] {
		name := "<DEFAULT>." + op
		if _, ok := t.prog.Func(name); ok {
			t.cache[key] = name
			return name, true
		}
	}
	t.cache[key] = ""
	return "", false
}
