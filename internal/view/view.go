// Package view implements the context-sensitivity tokens the external
// fixed-point driver hands to the transfer core as the `view` component of
// every control point (spec §3, §6 "View algebra"). The core treats a
// domain.View as opaque and only calls LoopEnter/LoopNext/LoopExit on it;
// this package owns the concrete policy for how those calls shape the key.
package view

import (
	"strconv"
	"strings"

	"github.com/kanso-lang/abstrans/internal/domain"
)

// maxLoopDepth bounds how many nested loop frames a view holds: entering a
// new loop at that depth drops the outermost frame.
// Without a bound, a deeply-iterating loop would mint unboundedly many
// distinct views and the fixed point would never close (spec §6 note on
// "an abstraction of them").
const maxLoopDepth = 3

// frame records one nested loop's iteration marker: the syntactic branch
// site of the loop head and how many loop_next calls have landed since the
// last loop_enter, clamped at widenAfter.
type frame struct {
	site int
	iter int
}

// Loop is the reference View implementation: a stack of loop frames
// identifying which loop(s) the current control point is nested in and how
// far each has iterated, clamped to bound the number of distinct views.
type Loop struct {
	frames []frame
}

// Root is the view active before any loop has been entered.
func Root() *Loop {
	return &Loop{}
}

var _ domain.View = (*Loop)(nil)

// Key returns a string uniquely identifying this view's frame stack, stable
// across calls so it can key the semantics store's state and heap maps.
func (v *Loop) Key() string {
	if len(v.frames) == 0 {
		return "root"
	}
	var b strings.Builder
	for i, f := range v.frames {
		if i > 0 {
			b.WriteByte('/')
		}
		b.WriteString(strconv.Itoa(f.site))
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(f.iter))
	}
	return b.String()
}

// LoopEnter pushes a fresh frame for branchSite, entering a loop for the
// first time on this path (spec §6: loop_enter(view, branch) -> view).
// Re-entering the same loop head that is already the innermost frame (e.g.
// after a return-edge transformation re-applies loop_enter per invariant 4)
// resets that frame rather than nesting a duplicate.
func (v *Loop) LoopEnter(branchSite int) domain.View {
	next := &Loop{frames: append([]frame(nil), v.frames...)}
	if n := len(next.frames); n > 0 && next.frames[n-1].site == branchSite {
		next.frames[n-1].iter = 0
		return next
	}
	if len(next.frames) >= maxLoopDepth {
		next.frames = next.frames[1:]
	}
	next.frames = append(next.frames, frame{site: branchSite, iter: 0})
	return next
}

// LoopNext advances the innermost loop's iteration marker on the loop
// body's back edge (spec §6: loop_next(view) -> view). Iterations beyond
// widenAfter are folded onto the same marker so the fixed point closes.
func (v *Loop) LoopNext() domain.View {
	if len(v.frames) == 0 {
		return v
	}
	next := &Loop{frames: append([]frame(nil), v.frames...)}
	last := &next.frames[len(next.frames)-1]
	if last.iter < widenAfter {
		last.iter++
	}
	return next
}

// widenAfter is how many distinct per-iteration views a loop gets before
// LoopNext stops minting new keys and folds further iterations together.
const widenAfter = 2

// LoopExit pops the innermost loop frame on the loop's exit edge (spec §6:
// loop_exit(view) -> view).
func (v *Loop) LoopExit() domain.View {
	if len(v.frames) == 0 {
		return v
	}
	return &Loop{frames: v.frames[:len(v.frames)-1]}
}

// Depth reports how many loops this view is currently nested inside,
// mainly useful for driver diagnostics and tests.
func (v *Loop) Depth() int {
	return len(v.frames)
}

// Raw is a view reconstructed from a previously-recorded Key() string (e.g.
// a continuation's captured entry point, which only carries the string
// form). It supports Key() for store lookups; further loop transitions on a
// resumed continuation are treated as no-ops rather than re-parsed back
// into frames, since the IR never re-enters a loop head through a
// continuation resumption in a way that needs that precision.
type Raw string

var _ domain.View = Raw("")

func (r Raw) Key() string                { return string(r) }
func (r Raw) LoopEnter(int) domain.View  { return r }
func (r Raw) LoopNext() domain.View      { return r }
func (r Raw) LoopExit() domain.View      { return r }

// FromKey wraps a previously-recorded Key() string back into a domain.View.
func FromKey(key string) domain.View { return Raw(key) }
