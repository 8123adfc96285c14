// Package transfer implements the abstract transfer function: C1's
// reference resolver through C9's SDO resolver (spec §2-§4). Every
// component is a method on Core so they share the CFG, concrete
// interpreter, and semantics store collaborators without any global state.
package transfer

import (
	"github.com/kanso-lang/abstrans/internal/cfg"
	"github.com/kanso-lang/abstrans/internal/domain"
	"github.com/kanso-lang/abstrans/internal/interp"
	"github.com/kanso-lang/abstrans/internal/store"
)

// Core holds the external collaborators the transfer function is specified
// against (spec §6): the CFG, the concrete interpreter, and the semantics
// store. It has no other mutable state; SDO-name memoization lives in
// sdo.go's own Table, also held here. Sub-indices are not memoized:
// ASTValue.SubIdx is recomputed on each lookup.
type Core struct {
	Prog   *cfg.Program
	Interp *interp.Interp
	Store  *store.Store
	SDO    *Table
}

// New builds a Core over the given collaborators, with a fresh memoized
// SDO table.
func New(prog *cfg.Program, ip *interp.Interp, st *store.Store) *Core {
	return &Core{Prog: prog, Interp: ip, Store: st, SDO: NewTable(prog)}
}

// Ctx is the per-call context threaded through every C1-C9 method: which
// function and view the current node point belongs to (spec §3's node
// point is (function, node, view); Ctx carries the first and third so call
// sites don't have to keep re-deriving them).
type Ctx struct {
	Func *cfg.Function
	View domain.View
}

func (c Ctx) returnPoint() cfg.ReturnPoint {
	return cfg.ReturnPoint{Func: c.Func.Name, View: c.View}
}

// allocLoc builds the allocation site (syntactic_site_id, view) key for an
// expression's SiteID field (spec §3, "Allocation site").
func (ctx Ctx) allocLoc(siteID int) domain.Loc {
	return domain.NewLoc(siteID, ctx.View)
}
