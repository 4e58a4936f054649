package phf

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildLookupRoundTrip(t *testing.T) {
	names := make([][]byte, 0, 64)
	for i := 0; i < 64; i++ {
		names = append(names, []byte(fmt.Sprintf("minecraft:block_%02d", i)))
	}

	table, err := Build(names)
	require.NoError(t, err)

	for i, name := range names {
		got, ok := table.Lookup(name)
		require.True(t, ok, "lookup %q", name)
		require.Equal(t, uint32(i), got)
	}
}

func TestLookupNonMemberReturnsInRangeValue(t *testing.T) {
	names := [][]byte{[]byte("a"), []byte("b"), []byte("c"), []byte("d")}
	table, err := Build(names)
	require.NoError(t, err)

	// A non-member key may alias a slot, but the caller is expected to
	// verify the recovered name; here we just confirm Lookup returns a
	// value in-range so the caller's name-equality check is meaningful.
	v, ok := table.Lookup([]byte("zzz-not-present"))
	if ok {
		require.Less(t, int(v), len(names))
	}
}

func TestEmptySet(t *testing.T) {
	table, err := Build(nil)
	require.NoError(t, err)
	_, ok := table.Lookup([]byte("anything"))
	require.False(t, ok)
}
