package pathoram

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestTree(t *testing.T, depth int) *Tree {
	tree, err := NewTree(depth, DefaultBucketSize, DefaultStashSize)
	require.NoError(t, err)
	return tree
}

func TestNewTree(t *testing.T) {
	requireT := require.New(t)

	tree := newTestTree(t, 3)
	requireT.Equal(3, tree.Depth())
	requireT.Equal(1, tree.RootIdx())
	requireT.Equal(8, tree.NumNodes())
	requireT.Equal(5, tree.FirstLeaf())
	requireT.Equal(8, tree.LastLeaf())
	requireT.Equal(4, tree.NumLeaves())
	requireT.Zero(tree.Count())

	for idx := 1; idx <= tree.NumNodes(); idx++ {
		node, err := tree.Node(idx)
		requireT.NoError(err)
		capacity, err := tree.Capacity(idx)
		requireT.NoError(err)
		if idx == tree.RootIdx() {
			requireT.Equal(KindStash, node.Kind)
			requireT.Equal(DefaultStashSize, capacity)
		} else {
			requireT.Equal(KindBucket, node.Kind)
			requireT.Equal(DefaultBucketSize, capacity)
		}
		requireT.Empty(node.Blocks)
	}
}

func TestNewTreeInvalid(t *testing.T) {
	tests := []struct {
		name                         string
		depth, bucketSize, stashSize int
	}{
		{"zero depth", 0, 3, 5},
		{"zero bucket", 3, 0, 5},
		{"zero stash", 3, 3, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTree(tt.depth, tt.bucketSize, tt.stashSize)
			require.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestTreePath(t *testing.T) {
	// Depth 3: nodes 1..8, leaves 5..8.
	//          1
	//        /   \
	//       2     3
	//      / \   / \
	//     4   5 6   7
	//    /
	//   8
	tree := newTestTree(t, 3)

	tests := []struct {
		leaf     int
		wantPath []int
	}{
		{5, []int{5, 2, 1}},
		{6, []int{6, 3, 1}},
		{7, []int{7, 3, 1}},
		{8, []int{8, 4, 2, 1}},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("leaf=%d", tt.leaf), func(t *testing.T) {
			path, err := tree.Path(tt.leaf)
			require.NoError(t, err)
			require.Equal(t, tt.wantPath, path)
		})
	}

	for _, leaf := range []int{-1, 0, 1, 4, 9} {
		t.Run(fmt.Sprintf("invalid leaf=%d", leaf), func(t *testing.T) {
			_, err := tree.Path(leaf)
			require.ErrorIs(t, err, ErrInvalidLeaf)
		})
	}
}

func TestIsAncestor(t *testing.T) {
	requireT := require.New(t)

	for depth := 1; depth <= 6; depth++ {
		tree := newTestTree(t, depth)

		for idx := 1; idx <= tree.NumNodes(); idx++ {
			requireT.True(tree.IsAncestor(idx, idx), "node %d at depth %d", idx, depth)
		}

		for leaf := tree.FirstLeaf(); leaf <= tree.LastLeaf(); leaf++ {
			path, err := tree.Path(leaf)
			requireT.NoError(err)
			onPath := map[int]bool{}
			for _, idx := range path {
				onPath[idx] = true
			}
			for idx := 1; idx <= tree.NumNodes(); idx++ {
				requireT.Equal(onPath[idx], tree.IsAncestor(idx, leaf), "node %d, leaf %d", idx, leaf)
			}
			requireT.False(tree.IsAncestor(0, leaf))
		}
	}
}

func TestRandomLeaf(t *testing.T) {
	requireT := require.New(t)

	tree := newTestTree(t, 4)
	requireT.Equal(9, tree.FirstLeaf())
	requireT.Equal(16, tree.LastLeaf())

	requireT.Equal(9, tree.RandomLeaf(&scriptedSource{values: []int{0}}))
	requireT.Equal(16, tree.RandomLeaf(&scriptedSource{values: []int{7}}))

	rng := newPCG(1)
	counts := map[int]int{}
	for range 8000 {
		leaf := tree.RandomLeaf(rng)
		requireT.True(tree.IsLeaf(leaf), "leaf %d", leaf)
		counts[leaf]++
	}
	requireT.Len(counts, 8)
	for leaf, n := range counts {
		requireT.InDelta(1000, n, 200, "leaf %d", leaf)
	}
}

func TestReadAndClearPath(t *testing.T) {
	requireT := require.New(t)

	tree := newTestTree(t, 3)
	requireT.NoError(tree.WriteBlockToBucket(5, Block{Address: 0, Data: []byte{1}}))
	requireT.NoError(tree.WriteBlockToBucket(5, Block{Address: 1, Data: []byte{0}}))
	requireT.NoError(tree.WriteBlockToBucket(2, Block{Address: 2, Data: []byte{1}}))
	requireT.NoError(tree.WriteBlockToBucket(1, Block{Address: 3, Data: []byte{1}}))
	requireT.NoError(tree.WriteBlockToBucket(3, Block{Address: 4, Data: []byte{0}}))
	requireT.Equal(5, tree.Count())

	nodes, err := tree.ReadAndClearPath(5)
	requireT.NoError(err)
	requireT.Equal([]PathNode{
		{Index: 5, Kind: KindBucket, Blocks: []Block{{Address: 0, Data: []byte{1}}, {Address: 1, Data: []byte{0}}}},
		{Index: 2, Kind: KindBucket, Blocks: []Block{{Address: 2, Data: []byte{1}}}},
		{Index: 1, Kind: KindStash, Blocks: []Block{{Address: 3, Data: []byte{1}}}},
	}, nodes)

	for _, idx := range []int{5, 2, 1} {
		node, err := tree.Node(idx)
		requireT.NoError(err)
		requireT.Empty(node.Blocks)
	}
	node, err := tree.Node(3)
	requireT.NoError(err)
	requireT.Equal([]Block{{Address: 4, Data: []byte{0}}}, node.Blocks)
	requireT.Equal(1, tree.Count())
}

func TestReadAndClearPathInvalidLeaf(t *testing.T) {
	requireT := require.New(t)

	tree := newTestTree(t, 3)
	requireT.NoError(tree.WriteBlockToBucket(2, Block{Address: 0, Data: []byte{1}}))

	_, err := tree.ReadAndClearPath(2)
	requireT.ErrorIs(err, ErrInvalidLeaf)
	requireT.Equal(1, tree.Count())
}

func TestWriteBlockToBucket(t *testing.T) {
	requireT := require.New(t)

	tree := newTestTree(t, 3)
	for i := range DefaultBucketSize {
		requireT.NoError(tree.WriteBlockToBucket(6, Block{Address: i, Data: []byte{1}}))
	}
	requireT.ErrorIs(tree.WriteBlockToBucket(6, Block{Address: 9, Data: []byte{1}}), ErrHolderFull)

	for i := range DefaultStashSize {
		requireT.NoError(tree.WriteBlockToBucket(1, Block{Address: 10 + i, Data: []byte{1}}))
	}
	requireT.ErrorIs(tree.WriteBlockToBucket(1, Block{Address: 20, Data: []byte{1}}), ErrHolderFull)

	requireT.ErrorIs(tree.WriteBlockToBucket(0, Block{Address: 0, Data: []byte{1}}), ErrInvalidNode)
	requireT.ErrorIs(tree.WriteBlockToBucket(9, Block{Address: 0, Data: []byte{1}}), ErrInvalidNode)
	requireT.Equal(DefaultBucketSize+DefaultStashSize, tree.Count())
}

func TestFingerprint(t *testing.T) {
	requireT := require.New(t)

	a := newTestTree(t, 3)
	b := newTestTree(t, 3)
	requireT.Equal(a.Fingerprint(), b.Fingerprint())

	requireT.NoError(a.WriteBlockToBucket(7, Block{Address: 1, Data: []byte{1}}))
	requireT.NoError(a.WriteBlockToBucket(7, Block{Address: 2, Data: []byte{0}}))
	requireT.NoError(b.WriteBlockToBucket(7, Block{Address: 2, Data: []byte{0}}))
	requireT.NoError(b.WriteBlockToBucket(7, Block{Address: 1, Data: []byte{1}}))
	requireT.Equal(a.Fingerprint(), b.Fingerprint())

	c := newTestTree(t, 3)
	requireT.NoError(c.WriteBlockToBucket(3, Block{Address: 1, Data: []byte{1}}))
	requireT.NoError(c.WriteBlockToBucket(7, Block{Address: 2, Data: []byte{0}}))
	requireT.NotEqual(a.Fingerprint(), c.Fingerprint())

	d := newTestTree(t, 3)
	requireT.NoError(d.WriteBlockToBucket(7, Block{Address: 1, Data: []byte{0}}))
	requireT.NoError(d.WriteBlockToBucket(7, Block{Address: 2, Data: []byte{0}}))
	requireT.NotEqual(a.Fingerprint(), d.Fingerprint())
}
