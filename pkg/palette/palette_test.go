package palette

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	air   Value = 0
	stone Value = 1
)

func TestPromotionSequence(t *testing.T) {
	// Scenario 5: start single AIR, set one block, promote to indirect,
	// then promote to direct on the 17th distinct block.
	c := New(air, 4096, 16, 4)
	require.Equal(t, 1, c.Len())

	prev := c.Set(0, stone)
	require.Equal(t, air, prev)
	require.Equal(t, 2, c.Len())
	require.Equal(t, stone, c.Get(0))
	require.Equal(t, air, c.Get(1))

	// Insert 14 more distinct values (air, stone, 3..16 = 16 distinct
	// total), filling the indirect palette exactly to PAL=16.
	for i := 2; i <= 15; i++ {
		c.Set(i, Value(i+1))
	}
	require.Equal(t, 16, c.Len())

	// The 17th distinct value (air, stone, 3..16, then this one) forces
	// promotion to direct mode.
	c.Set(16, Value(17))
	require.Equal(t, 0, c.Len())
	require.Equal(t, Value(17), c.Get(16))
	// Earlier cells remain readable after promotion.
	require.Equal(t, stone, c.Get(0))
}

func TestSetGetInvariant(t *testing.T) {
	c := New(air, 64, 16, 4)
	for i := 0; i < 64; i++ {
		v := Value(i % 5)
		c.Set(i, v)
		require.Equal(t, v, c.Get(i))
	}
}

func TestWireRoundTripIndirect(t *testing.T) {
	c := New(air, 16, 16, 4)
	for i := 0; i < 16; i++ {
		c.Set(i, Value(i%3))
	}
	buf := c.WriteBlock(nil)
	decoded, n, err := ReadBlock(buf, 16, 16, 4)
	require.NoError(t, err)
	require.Equal(t, len(buf), n)
	for i := 0; i < 16; i++ {
		require.Equal(t, c.Get(i), decoded.Get(i))
	}
}

func TestWireRoundTripSingle(t *testing.T) {
	c := New(stone, 16, 16, 4)
	buf := c.WriteBlock(nil)
	decoded, n, err := ReadBlock(buf, 16, 16, 4)
	require.NoError(t, err)
	require.Equal(t, len(buf), n)
	for i := 0; i < 16; i++ {
		require.Equal(t, stone, decoded.Get(i))
	}
}

func TestWireRoundTripDirect(t *testing.T) {
	c := New(air, 32, 4, 5)
	for i := 0; i < 32; i++ {
		c.Set(i, Value(i)) // forces promotion past PAL=4
	}
	require.Equal(t, 0, c.Len())
	buf := c.WriteBlock(nil)
	decoded, _, err := ReadBlock(buf, 32, 4, 5)
	require.NoError(t, err)
	for i := 0; i < 32; i++ {
		require.Equal(t, c.Get(i), decoded.Get(i))
	}
}

func TestShrinkToFitCollapsesToSingle(t *testing.T) {
	c := New(air, 16, 16, 4)
	c.Set(0, stone)
	c.Set(0, air) // back to only air present
	c.ShrinkToFit()
	require.Equal(t, 1, c.Len())
	require.Equal(t, air, c.Get(0))
}

func TestSetSameValueNoOp(t *testing.T) {
	c := New(air, 16, 16, 4)
	before := c.Get(0)
	c.Set(0, c.Get(0))
	require.Equal(t, before, c.Get(0))
	require.Equal(t, 1, c.Len())
}
