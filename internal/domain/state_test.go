package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefineAndLookupLocal(t *testing.T) {
	s := NewState()
	s = s.DefineLocal("x", FromNumber(3))
	assert.True(t, s.LookupLocal("x").Equal(FromNumber(3)))
	assert.True(t, s.LookupLocal("y").IsBottom())
}

func TestBottomStateAbsorbing(t *testing.T) {
	s := BottomState()
	assert.True(t, s.IsBottom())
	assert.True(t, s.DefineLocal("x", FromNumber(1)).IsBottom())
	assert.True(t, s.Update(RefIdent("x"), FromNumber(1)).IsBottom())
}

func TestJoinIsIdentityOnBottom(t *testing.T) {
	s := NewState().DefineLocal("x", FromNumber(1))
	assert.Equal(t, s, s.Join(BottomState()))
	assert.Equal(t, s, BottomState().Join(s))
}

func TestPropertyUpdateAndExists(t *testing.T) {
	s := NewState()
	loc := Loc{Site: 1}
	s = s.AllocMap(loc, map[string]AbsValue{})
	base := FromLoc(loc)
	ref := RefProp(base, FromString("a"))

	assert.False(t, s.Exists(ref))
	s = s.Update(ref, FromNumber(5))
	assert.True(t, s.Exists(ref))
	assert.True(t, s.Get(ref).Equal(FromNumber(5)))

	s = s.Delete(ref)
	assert.False(t, s.Exists(ref))
}

func TestListPushPopRemove(t *testing.T) {
	s := NewState()
	loc := Loc{Site: 2}
	s = s.AllocList(loc, nil)
	s = s.Append(loc, FromNumber(1))
	s = s.Prepend(loc, FromNumber(0))

	base := FromLoc(loc)
	assert.True(t, s.GetKey(base, FromNumber(0)).Equal(FromNumber(0)))
	assert.True(t, s.GetKey(base, FromNumber(1)).Equal(FromNumber(1)))

	v, s2 := s.Pop(loc)
	assert.True(t, v.Equal(FromNumber(1)))

	s3 := s2.Remove(loc, FromNumber(0))
	assert.True(t, s3.Contains(loc, FromNumber(0), "").Equal(AVF))
}

func TestAllocationSiteDeterminism(t *testing.T) {
	view := constView("v1")
	loc1 := NewLoc(7, view)
	loc2 := NewLoc(7, view)
	assert.Equal(t, loc1, loc2)

	s := NewState()
	s = s.AllocMap(loc1, map[string]AbsValue{"k": FromNumber(1)})
	assert.True(t, s.IsSingle(loc1))
	s = s.AllocMap(loc2, map[string]AbsValue{"k": FromNumber(2)})
	assert.False(t, s.IsSingle(loc2))
}

func TestDoReturnBindsLhsAndMergesHeap(t *testing.T) {
	caller := NewState().DefineLocal("x", FromNumber(1))
	calleeLoc := Loc{Site: 9}
	callee := NewState().AllocMap(calleeLoc, map[string]AbsValue{"f": FromNumber(42)})

	result := callee.DoReturn(caller, "r", FromNumber(99))
	assert.True(t, result.LookupLocal("r").Equal(FromNumber(99)))
	assert.True(t, result.LookupLocal("x").Equal(FromNumber(1)))
	assert.True(t, result.Get(RefProp(FromLoc(calleeLoc), FromString("f"))).Equal(FromNumber(42)))
}

type constView string

func (c constView) Key() string         { return string(c) }
func (c constView) LoopEnter(int) View  { return c }
func (c constView) LoopNext() View      { return c }
func (c constView) LoopExit() View      { return c }
