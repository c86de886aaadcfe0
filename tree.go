package pathoram

import (
	"encoding/binary"

	"github.com/cespare/xxhash"
	"github.com/pkg/errors"
)

// rootIdx is the index of the root node, which always holds the stash.
const rootIdx = 1

// PathNode is the content a node held when its path was read.
type PathNode struct {
	Index  int
	Kind   HolderKind
	Blocks []Block
}

// Tree is a complete binary tree of holders stored as a 1-indexed array.
// For node i, children are 2i and 2i+1 and the parent is i/2.
// Leaves occupy [2^(depth-1)+1, 2^depth].
//
// Tree knows nothing about addresses or eviction policy.
type Tree struct {
	depth int
	nodes []*Holder // nodes[0] is unused
}

// NewTree allocates 2^depth+1 nodes: a stash at the root and empty buckets
// everywhere else.
func NewTree(depth, bucketSize, stashSize int) (*Tree, error) {
	if depth < 1 || bucketSize < 1 || stashSize < 1 {
		return nil, errors.Wrapf(ErrInvalidConfig, "depth: %d, bucket size: %d, stash size: %d",
			depth, bucketSize, stashSize)
	}

	nodes := make([]*Holder, 1<<depth+1)
	nodes[rootIdx] = NewStash(stashSize)
	for i := rootIdx + 1; i < len(nodes); i++ {
		nodes[i] = NewBucket(bucketSize)
	}
	return &Tree{
		depth: depth,
		nodes: nodes,
	}, nil
}

// Depth returns the depth the tree was built with.
func (t *Tree) Depth() int {
	return t.depth
}

// RootIdx returns the index of the root node.
func (t *Tree) RootIdx() int {
	return rootIdx
}

// NumNodes returns the number of addressable nodes.
func (t *Tree) NumNodes() int {
	return len(t.nodes) - 1
}

// FirstLeaf returns the lowest leaf index.
func (t *Tree) FirstLeaf() int {
	return 1<<(t.depth-1) + 1
}

// LastLeaf returns the highest leaf index.
func (t *Tree) LastLeaf() int {
	return 1 << t.depth
}

// NumLeaves returns the number of leaves.
func (t *Tree) NumLeaves() int {
	return t.LastLeaf() - t.FirstLeaf() + 1
}

// IsLeaf reports whether idx lies in the leaf range.
func (t *Tree) IsLeaf(idx int) bool {
	return idx >= t.FirstLeaf() && idx <= t.LastLeaf()
}

// Parent returns the parent index of idx. The parent of the root is 0.
func (t *Tree) Parent(idx int) int {
	return idx / 2
}

// RandomLeaf returns a leaf index drawn uniformly from the leaf range.
func (t *Tree) RandomLeaf(rng LeafSource) int {
	return t.FirstLeaf() + rng.IntN(t.NumLeaves())
}

// IsAncestor reports whether node a lies on the path from d to the root.
// Every node is its own ancestor.
func (t *Tree) IsAncestor(a, d int) bool {
	if a < rootIdx {
		return false
	}
	for d > a {
		d /= 2
	}
	return d == a
}

// Path returns node indices from leaf up to the root inclusive.
func (t *Tree) Path(leaf int) ([]int, error) {
	if !t.IsLeaf(leaf) {
		return nil, errors.Wrapf(ErrInvalidLeaf, "leaf %d outside [%d, %d]", leaf, t.FirstLeaf(), t.LastLeaf())
	}
	path := make([]int, 0, t.depth+1)
	for idx := leaf; idx >= rootIdx; idx = t.Parent(idx) {
		path = append(path, idx)
	}
	return path, nil
}

// ReadAndClearPath returns the content of every node from leaf up to the root
// inclusive and empties those nodes.
func (t *Tree) ReadAndClearPath(leaf int) ([]PathNode, error) {
	path, err := t.Path(leaf)
	if err != nil {
		return nil, err
	}
	nodes := make([]PathNode, 0, len(path))
	for _, idx := range path {
		h := t.nodes[idx]
		nodes = append(nodes, PathNode{
			Index:  idx,
			Kind:   h.Kind(),
			Blocks: h.Blocks(),
		})
		h.Clear()
	}
	return nodes, nil
}

// WriteBlockToBucket places b into a free slot of node idx.
func (t *Tree) WriteBlockToBucket(idx int, b Block) error {
	h, err := t.node(idx)
	if err != nil {
		return err
	}
	return errors.Wrapf(h.WriteBlock(b), "writing address %d to node %d", b.Address, idx)
}

// Capacity returns the slot count of node idx.
func (t *Tree) Capacity(idx int) (int, error) {
	h, err := t.node(idx)
	if err != nil {
		return 0, err
	}
	return h.Capacity(), nil
}

// Node returns copies of the blocks held by node idx together with its kind.
func (t *Tree) Node(idx int) (PathNode, error) {
	h, err := t.node(idx)
	if err != nil {
		return PathNode{}, err
	}
	return PathNode{Index: idx, Kind: h.Kind(), Blocks: h.Blocks()}, nil
}

// Count returns the number of occupied slots across the whole tree.
func (t *Tree) Count() int {
	n := 0
	for _, h := range t.nodes[rootIdx:] {
		n += h.Len()
	}
	return n
}

// Fingerprint returns a digest of the occupancy of every node.
// Two trees holding the same blocks in the same nodes have equal fingerprints
// regardless of slot order inside a node.
func (t *Tree) Fingerprint() uint64 {
	var fp uint64
	var buf [16]byte
	for idx := rootIdx; idx < len(t.nodes); idx++ {
		for _, b := range t.nodes[idx].slots {
			if b.IsEmpty() {
				continue
			}
			d := xxhash.New()
			binary.LittleEndian.PutUint64(buf[0:8], uint64(idx))
			binary.LittleEndian.PutUint64(buf[8:16], uint64(b.Address))
			_, _ = d.Write(buf[:])
			_, _ = d.Write(b.Data)
			// slot order is irrelevant, so per-block digests are combined commutatively
			fp += d.Sum64()
		}
	}
	return fp
}

func (t *Tree) node(idx int) (*Holder, error) {
	if idx < rootIdx || idx >= len(t.nodes) {
		return nil, errors.Wrapf(ErrInvalidNode, "node %d outside [%d, %d]", idx, rootIdx, t.NumNodes())
	}
	return t.nodes[idx], nil
}
