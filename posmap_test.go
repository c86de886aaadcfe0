package pathoram

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestArrayPositionMap(t *testing.T) {
	requireT := require.New(t)

	tree := newTestTree(t, 3)
	pm := NewArrayPositionMap(6, tree, &scriptedSource{values: []int{0, 1, 2, 3}})
	requireT.Equal(6, pm.Len())

	for address, want := range []int{5, 6, 7, 8, 5, 6} {
		requireT.Equal(want, pm.Get(address), "address %d", address)
	}

	pm.Set(2, 8)
	requireT.Equal(8, pm.Get(2))
	requireT.Equal(6, pm.Get(1))
	requireT.Equal(6, pm.Len())
}
