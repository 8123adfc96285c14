package store

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kanso-lang/abstrans/internal/cfg"
	"github.com/kanso-lang/abstrans/internal/domain"
	"github.com/kanso-lang/abstrans/internal/view"
)

func TestPutJoinsAndEnqueuesOnce(t *testing.T) {
	s := New()
	np := cfg.NodePoint{Func: "f", Node: 1, View: view.Root()}

	s.Put(np, domain.NewState().DefineLocal("x", domain.FromNumber(1)))
	s.Put(np, domain.NewState().DefineLocal("x", domain.FromNumber(2)))

	got := s.Get(np)
	assert.True(t, got.LookupLocal("x").Equal(domain.FromNumber(1).Join(domain.FromNumber(2))))

	popped, ok := s.Pop()
	assert.True(t, ok)
	assert.Equal(t, np, popped)
	_, ok = s.Pop()
	assert.False(t, ok)
}

func TestPutNoRedundantEnqueueWhenNotIncreasing(t *testing.T) {
	s := New()
	np := cfg.NodePoint{Func: "f", Node: 1, View: view.Root()}
	s.Put(np, domain.NewState().DefineLocal("x", domain.FromNumber(1)))
	_, _ = s.Pop()
	s.Put(np, domain.NewState().DefineLocal("x", domain.FromNumber(1)))
	_, ok := s.Pop()
	assert.False(t, ok, "re-putting an unchanged state must not re-enqueue")
}

func TestDoCallAndRetEdges(t *testing.T) {
	s := New()
	callerNP := cfg.NodePoint{Func: "caller", Node: 5, View: view.Root()}
	calleeRP := cfg.ReturnPoint{Func: "callee", View: view.Root()}

	s.DoCall(callerNP, domain.NewState().DefineLocal("a", domain.FromNumber(9)), calleeRP)

	edges := s.RetEdges(calleeRP)
	assert.Len(t, edges, 1)
	assert.Equal(t, callerNP, edges[0])

	info := s.CallInfo(callerNP)
	assert.True(t, info.LookupLocal("a").Equal(domain.FromNumber(9)))
}

func TestDoReturnJoinsAcrossCalls(t *testing.T) {
	s := New()
	rp := cfg.ReturnPoint{Func: "f", View: view.Root()}
	s.DoReturn(rp, domain.FromNumber(1), domain.NewState())
	s.DoReturn(rp, domain.FromNumber(2), domain.NewState())

	v, _ := s.GetReturn(rp)
	assert.True(t, v.Equal(domain.FromNumber(1).Join(domain.FromNumber(2))))
}
