package domain

import "fmt"

// View is the opaque context token managed by the external fixed-point
// driver (spec §3: "the core only calls loop_enter, loop_next and
// loop_exit on it"). The core never inspects a View's structure; it only
// calls the three loop transformations and takes a stable string form so
// Views can key maps (spec §6 "View algebra").
type View interface {
	// Key returns a comparable, hashable representation of the view. Two
	// views that should be treated as identical by the core MUST return
	// equal keys.
	Key() string

	// LoopEnter returns the view to use on the forward edge into the loop
	// head identified by branchSite (spec §6: "loop_enter(view, branch) ->
	// view").
	LoopEnter(branchSite int) View

	// LoopNext returns the view to use on the loop body's back edge into
	// the loop head (spec §6: "loop_next(view) -> view").
	LoopNext() View

	// LoopExit returns the view to use past the loop's exit edge (spec §6:
	// "loop_exit(view) -> view").
	LoopExit() View
}

// Loc is an allocation-site-keyed heap location: a pair of the syntactic
// site id where the allocation expression occurs and the view active at
// that point (spec §3 "Allocation site"). Two calls from different views
// allocate at distinct abstract locations; the same pair always yields the
// same location (invariant 3).
type Loc struct {
	Site int
	View string // View.Key(), stored by value so Loc is comparable/hashable
}

// NewLoc builds the allocation site key for a syntactic site under a view.
func NewLoc(site int, view View) Loc {
	key := ""
	if view != nil {
		key = view.Key()
	}
	return Loc{Site: site, View: key}
}

func (l Loc) String() string {
	return fmt.Sprintf("loc#%d@%s", l.Site, l.View)
}
