package domain

import "testing"

import "github.com/stretchr/testify/assert"

func TestFlatJoinIdentityAndCollapse(t *testing.T) {
	a := Single(3)
	assert.Equal(t, a, joinFlat(a, Bot[int](), func(x, y int) bool { return x == y }))
	assert.Equal(t, a, joinFlat(Single(3), Single(3), func(x, y int) bool { return x == y }))
	joined := joinFlat(Single(3), Single(4), func(x, y int) bool { return x == y })
	assert.True(t, joined.IsTop())
}

func TestAbsValueGetSingle(t *testing.T) {
	assert.True(t, Bottom.GetSingle().IsBottom())

	one := FromNumber(3)
	cv, ok := one.GetSingle().Elem()
	assert.True(t, ok)
	assert.Equal(t, TypeNumber, cv.Kind)
	assert.Equal(t, 3.0, cv.Num)

	mixed := FromNumber(3).Join(FromString("x"))
	assert.True(t, mixed.GetSingle().IsTop())

	wide := FromNumber(3).Join(FromNumber(4))
	assert.True(t, wide.GetSingle().IsTop())
}

func TestAbsValueJoinMonotone(t *testing.T) {
	a := FromNumber(1)
	b := FromNumber(2)
	j := a.Join(b)
	assert.True(t, a.Leq(j))
	assert.True(t, b.Leq(j))
}

func TestAbsValueLeqReflexiveAndBottom(t *testing.T) {
	v := FromString("x").Join(FromBool(true))
	assert.True(t, v.Leq(v))
	assert.True(t, Bottom.Leq(v))
}

func TestWrapUnwrapCompletion(t *testing.T) {
	v := FromNumber(3)
	wrapped := v.WrapCompletion()
	assert.True(t, wrapped.IsCompletion())
	assert.True(t, wrapped.UnwrapCompletion().Equal(v))

	// Wrapping an already-wrapped value is idempotent.
	assert.True(t, wrapped.WrapCompletion().Equal(wrapped))
}

func TestAbruptCompletion(t *testing.T) {
	normal := FromNumber(1).WrapCompletion()
	assert.True(t, normal.AbruptCompletion().IsBottom())

	abrupt := AbsValue{Comp: Single(Completion{Type: CompletionThrow, Value: FromString("err")})}
	assert.False(t, abrupt.AbruptCompletion().IsBottom())
}

func TestPruneTypeNarrowsAndRemoves(t *testing.T) {
	v := FromString("x").Join(FromNumber(1))
	pos := v.PruneType(TypeString, true)
	assert.False(t, pos.Str.IsBottom())
	assert.True(t, pos.Num.IsBottom())

	neg := v.PruneType(TypeString, false)
	assert.True(t, neg.Str.IsBottom())
	assert.False(t, neg.Num.IsBottom())
}

func TestTypeCheck(t *testing.T) {
	s := NewState()
	str := FromString("x")
	assert.True(t, str.TypeCheck(TypeString, s).Equal(AVT))
	assert.True(t, str.TypeCheck(TypeNumber, s).Equal(AVF))

	mixed := FromString("x").Join(FromNumber(1))
	tc := mixed.TypeCheck(TypeString, s)
	assert.True(t, tc.Bool.IsTop())
}

func TestLocSetUnionAndSubset(t *testing.T) {
	l1 := LocSet{Elems: []Loc{{Site: 1}}}
	l2 := LocSet{Elems: []Loc{{Site: 2}}}
	u := l1.Union(l2)
	assert.Len(t, u.Elems, 2)
	assert.True(t, l1.Subset(u))
}
