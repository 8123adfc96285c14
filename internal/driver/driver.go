// Package driver is the minimal reference fixed-point loop that exercises
// the transfer core end to end (spec §6 treats the driver as external to
// the specified components; this is scaffolding, not part of the core).
package driver

import (
	"github.com/segmentio/ksuid"

	"github.com/kanso-lang/abstrans/internal/cfg"
	"github.com/kanso-lang/abstrans/internal/domain"
	"github.com/kanso-lang/abstrans/internal/interp"
	"github.com/kanso-lang/abstrans/internal/store"
	"github.com/kanso-lang/abstrans/internal/transfer"
	"github.com/kanso-lang/abstrans/internal/view"
)

// Failure is an analysis failure surfaced by a Run: an exploded abort or a
// hard error (spec §7.2, §7.3), tagged with a run-scoped ID so a CLI or LSP
// consumer can correlate failures across an invocation.
type Failure struct {
	ID  string
	Err error
}

// Driver owns a Core over a freshly-built store and drains its worklist to
// a fixed point. Only the functions passed to Seed are entered directly (at
// their entry point under the root view); others are reached through calls.
type Driver struct {
	Core  *transfer.Core
	Store *store.Store
}

// New builds a driver over prog, with a fresh semantics store and concrete
// interpreter.
func New(prog *cfg.Program, ip *interp.Interp) *Driver {
	st := store.New()
	return &Driver{
		Core:  transfer.New(prog, ip, st),
		Store: st,
	}
}

// Seed primes fn's entry node point with the empty abstract state under the
// root view, so the worklist has somewhere to start.
func (d *Driver) Seed(fn *cfg.Function) {
	np := cfg.NodePoint{Func: fn.Name, Node: fn.Entry, View: view.Root()}
	d.Store.Seed(np)
}

// Run drains the worklist to a fixed point, transferring one node point at
// a time until none remain. Every TransferNode call is wrapped in
// transfer.Run so an exploded abort or hard error on one node point is
// recorded as a Failure rather than aborting the whole run — the rest of
// the worklist still gets a chance to converge, per spec §7's "the
// analysis as a whole may still report results for other paths" framing.
func (d *Driver) Run() []Failure {
	var failures []Failure
	for {
		np, ok := d.Store.Pop()
		if !ok {
			return failures
		}
		np := np
		if err := transfer.Run(func() { d.Core.TransferNode(np) }); err != nil {
			failures = append(failures, Failure{ID: ksuid.New().String(), Err: err})
		}
	}
}

// State reads the converged state at a node point after Run has finished.
func (d *Driver) State(np cfg.NodePoint) *domain.AbsState {
	return d.Store.Get(np)
}
