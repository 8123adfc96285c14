package cfg

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kanso-lang/abstrans/internal/domain"
)

func TestFunctionLocalsBindsPositionally(t *testing.T) {
	f := &Function{Name: "f", Params: []string{"a", "b"}}
	locals := f.Locals([]domain.AbsValue{domain.FromNumber(1)}, false)
	assert.True(t, locals["a"].Equal(domain.FromNumber(1)))
	assert.True(t, locals["b"].Equal(domain.Absent))
}

func TestBlockNodeSuccessors(t *testing.T) {
	b := BlockNode{Next: 3}
	assert.Equal(t, []NodeID{3}, b.Successors())
}

func TestReturnNodeHasNoSuccessor(t *testing.T) {
	b := BlockNode{Next: NoNode}
	assert.Empty(t, b.Successors())
}

func TestBranchNodeSuccessorsBothSides(t *testing.T) {
	b := BranchNode{Then: 1, Else: 2, ElsePresent: true}
	assert.ElementsMatch(t, []NodeID{1, 2}, b.Successors())
}

func TestBranchNodeSingleSided(t *testing.T) {
	b := BranchNode{Then: 1}
	assert.Equal(t, []NodeID{1}, b.Successors())
}
