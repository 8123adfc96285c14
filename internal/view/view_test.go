package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRootKeyStable(t *testing.T) {
	a, b := Root(), Root()
	assert.Equal(t, a.Key(), b.Key())
}

func TestLoopEnterNextExitRoundTrips(t *testing.T) {
	root := Root()
	entered := root.LoopEnter(10)
	assert.Equal(t, 1, entered.(*Loop).Depth())

	next := entered.LoopNext()
	assert.NotEqual(t, entered.Key(), next.Key())

	exited := next.LoopExit()
	assert.Equal(t, 0, exited.(*Loop).Depth())
	assert.Equal(t, root.Key(), exited.Key())
}

func TestLoopNextWidensAfterThreshold(t *testing.T) {
	v := Root().LoopEnter(1)
	for i := 0; i < widenAfter+5; i++ {
		v = v.LoopNext()
	}
	assert.Equal(t, widenAfter, v.(*Loop).frames[0].iter)
}

func TestLoopEnterReentryResetsInnermostFrame(t *testing.T) {
	v := Root().LoopEnter(5).LoopNext().LoopNext()
	reentered := v.LoopEnter(5)
	assert.Equal(t, 1, reentered.(*Loop).Depth())
	assert.Equal(t, 0, reentered.(*Loop).frames[0].iter)
}

func TestNestedLoopsClampAtMaxDepth(t *testing.T) {
	v := Root()
	for site := 0; site < maxLoopDepth+3; site++ {
		v = v.LoopEnter(site)
	}
	assert.Equal(t, maxLoopDepth, v.(*Loop).Depth())
}
