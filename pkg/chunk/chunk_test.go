package chunk

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const testStateMax = 70 // matches the embedded regdata fixture's total block states
const testBiomeMax = 4

func TestNewSectionIsEmpty(t *testing.T) {
	s := NewSection(testStateMax, testBiomeMax)
	require.True(t, s.IsEmpty())
	require.Equal(t, 0, s.NonAirCount())
	require.Equal(t, uint32(AirState), s.BlockAt(0, 0, 0))
}

func TestSetBlockMaintainsNonAirIncrementally(t *testing.T) {
	s := NewSection(testStateMax, testBiomeMax)
	s.SetBlock(0, 0, 0, 5)
	require.Equal(t, 1, s.NonAirCount())
	s.SetBlock(1, 0, 0, 7)
	require.Equal(t, 2, s.NonAirCount())

	// Overwriting a non-air cell with another non-air value doesn't
	// change the count.
	s.SetBlock(0, 0, 0, 9)
	require.Equal(t, 2, s.NonAirCount())
	require.Equal(t, uint32(9), s.BlockAt(0, 0, 0))

	// Clearing back to air decrements.
	s.SetBlock(0, 0, 0, AirState)
	require.Equal(t, 1, s.NonAirCount())
	require.False(t, s.IsEmpty())

	s.SetBlock(1, 0, 0, AirState)
	require.True(t, s.IsEmpty())
}

func TestBiomeSetGet(t *testing.T) {
	s := NewSection(testStateMax, testBiomeMax)
	s.SetBiome(1, 2, 3, 2)
	require.Equal(t, uint32(2), s.BiomeAt(4, 8, 12))
}

func TestSectionWireRoundTrip(t *testing.T) {
	s := NewSection(testStateMax, testBiomeMax)
	for x := 0; x < blockDim; x++ {
		for z := 0; z < blockDim; z++ {
			s.SetBlock(x, 0, z, uint32((x+z)%5))
		}
	}
	s.SetBiome(0, 0, 0, 3)

	buf := s.WriteTo(nil)
	decoded, n, err := ReadSection(buf, testStateMax, testBiomeMax)
	require.NoError(t, err)
	require.Equal(t, len(buf), n)
	require.Equal(t, s.NonAirCount(), decoded.NonAirCount())

	for x := 0; x < blockDim; x++ {
		for z := 0; z < blockDim; z++ {
			require.Equal(t, s.BlockAt(x, 0, z), decoded.BlockAt(x, 0, z))
		}
	}
	require.Equal(t, uint32(3), decoded.BiomeAt(0, 0, 0))
}

func TestSectionPromotesToDirectUnderManyDistinctStates(t *testing.T) {
	s := NewSection(testStateMax, testBiomeMax)
	// 17 distinct states forces the block container past PAL=16.
	for i := 0; i < 17; i++ {
		s.SetBlock(i, 0, 0, uint32(i+1))
	}
	require.Equal(t, 17, s.NonAirCount())
	buf := s.WriteTo(nil)
	decoded, _, err := ReadSection(buf, testStateMax, testBiomeMax)
	require.NoError(t, err)
	for i := 0; i < 17; i++ {
		require.Equal(t, uint32(i+1), decoded.BlockAt(i, 0, 0))
	}
}
