// Package store implements the semantics store from spec §3: the external
// shared map of control point -> state that the node and return transfers
// (C7, C8) read and join-write into, plus the call/return edge bookkeeping
// (call_info, ret_edges) and the explored worklist the fixed-point driver
// drains.
package store

import (
	"github.com/sasha-s/go-deadlock"

	"github.com/kanso-lang/abstrans/internal/cfg"
	"github.com/kanso-lang/abstrans/internal/domain"
)

// retValue is the abstract-return payload `sem` holds at a return point:
// (value, state) (spec §3).
type retValue struct {
	Value domain.AbsValue
	State *domain.AbsState
}

// Store is the semantics store. Every map is guarded by a single mutex:
// the core is specified single-threaded (spec §5), but a driver that fans
// call edges out to worker goroutines still needs safe joins, so writes
// always go through Put/DoReturn/DoCall/Seed rather than direct map
// access. mu uses go-deadlock instead of sync.Mutex purely for its
// lock-order-cycle diagnostics during development; production behavior is
// identical to sync.Mutex.
type Store struct {
	mu deadlock.Mutex

	nodeState map[nodeKey]*domain.AbsState
	retState  map[retKey]retValue

	callInfo map[nodeKey]*domain.AbsState
	retEdges map[retKey]map[nodeKey]cfg.NodePoint

	worklist []cfg.NodePoint
	seen     map[nodeKey]bool
}

type nodeKey struct {
	Func string
	Node cfg.NodeID
	View string
}

type retKey struct {
	Func string
	View string
}

func nk(np cfg.NodePoint) nodeKey {
	v := ""
	if np.View != nil {
		v = np.View.Key()
	}
	return nodeKey{Func: np.Func, Node: np.Node, View: v}
}

func rk(rp cfg.ReturnPoint) retKey {
	v := ""
	if rp.View != nil {
		v = rp.View.Key()
	}
	return retKey{Func: rp.Func, View: v}
}

// New returns an empty semantics store.
func New() *Store {
	return &Store{
		nodeState: map[nodeKey]*domain.AbsState{},
		retState:  map[retKey]retValue{},
		callInfo:  map[nodeKey]*domain.AbsState{},
		retEdges:  map[retKey]map[nodeKey]cfg.NodePoint{},
		seen:      map[nodeKey]bool{},
	}
}

// Get reads sem(cp) for a node point, or the bottom state if unset (spec
// §3, "sem(cp) read").
func (s *Store) Get(np cfg.NodePoint) *domain.AbsState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.nodeState[nk(np)]; ok {
		return v
	}
	return domain.BottomState()
}

// Put joins state into sem(np) and enqueues np onto the worklist if the
// join strictly increased the stored state (spec §3, "sem += (cp -> state)
// write (which implicitly joins with any prior state and enqueues)").
func (s *Store) Put(np cfg.NodePoint, state *domain.AbsState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := nk(np)
	prev, ok := s.nodeState[key]
	if !ok {
		prev = domain.BottomState()
	}
	joined := prev.Join(state)
	if ok && joined.Leq(prev) {
		return
	}
	s.nodeState[key] = joined
	if !s.seen[key] {
		s.seen[key] = true
		s.worklist = append(s.worklist, np)
	}
}

// GetReturn reads sem(rp): the (value, state) pair recorded for a return
// point, or (Bottom, bottom-state) if unset.
func (s *Store) GetReturn(rp cfg.ReturnPoint) (domain.AbsValue, *domain.AbsState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.retState[rk(rp)]; ok {
		return v.Value, v.State
	}
	return domain.Bottom, domain.BottomState()
}

// DoReturn joins (value, state) into sem(rp) (spec §3, "sem.do_return").
func (s *Store) DoReturn(rp cfg.ReturnPoint, value domain.AbsValue, state *domain.AbsState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := rk(rp)
	prev, ok := s.retState[key]
	if !ok {
		s.retState[key] = retValue{Value: value, State: state}
		return
	}
	s.retState[key] = retValue{Value: prev.Value.Join(value), State: prev.State.Join(state)}
}

// DoCall records callerState under caller_np (call_info) and registers
// caller_np as a ret_edge continuation of the callee's return point, so a
// later DoReturn at that return point fans out to it (spec §3,
// "sem.do_call(caller_np, caller_state, callee_func, args, captured?)").
// The args/captured parameters named in the spec's signature are consumed
// by C6 to build the callee's initial locals before DoCall is reached; this
// store only needs the edge bookkeeping.
func (s *Store) DoCall(callerNP cfg.NodePoint, callerState *domain.AbsState, calleeRP cfg.ReturnPoint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ckey := nk(callerNP)
	prev, ok := s.callInfo[ckey]
	if ok {
		s.callInfo[ckey] = prev.Join(callerState)
	} else {
		s.callInfo[ckey] = callerState
	}
	key := rk(calleeRP)
	if s.retEdges[key] == nil {
		s.retEdges[key] = map[nodeKey]cfg.NodePoint{}
	}
	s.retEdges[key][ckey] = callerNP
}

// CallInfo reads call_info(caller_np).
func (s *Store) CallInfo(np cfg.NodePoint) *domain.AbsState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.callInfo[nk(np)]; ok {
		return v
	}
	return domain.BottomState()
}

// RetEdges returns the live caller node points registered against rp (spec
// §3, "ret_edges(return_point) -> set of caller_np"), used by C8's fan-out.
func (s *Store) RetEdges(rp cfg.ReturnPoint) []cfg.NodePoint {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []cfg.NodePoint
	for _, np := range s.retEdges[rk(rp)] {
		out = append(out, np)
	}
	return out
}

// Pop removes and returns one pending node point from the worklist, or
// false if it is empty (spec §3, "explored worklist").
func (s *Store) Pop() (cfg.NodePoint, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.worklist) == 0 {
		return cfg.NodePoint{}, false
	}
	np := s.worklist[0]
	s.worklist = s.worklist[1:]
	delete(s.seen, nk(np))
	return np, true
}

// Seed enqueues np without requiring a prior Put, used by the driver to
// prime a function's entry point.
func (s *Store) Seed(np cfg.NodePoint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := nk(np)
	if _, ok := s.nodeState[key]; !ok {
		s.nodeState[key] = domain.NewState()
	}
	if !s.seen[key] {
		s.seen[key] = true
		s.worklist = append(s.worklist, np)
	}
}
