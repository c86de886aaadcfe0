package pathoram

import (
	"math/rand/v2"
	"slices"
)

// scriptedSource replays values in a loop, reduced modulo n.
type scriptedSource struct {
	values []int
	next   int
}

func (s *scriptedSource) IntN(n int) int {
	v := s.values[s.next%len(s.values)] % n
	s.next++
	return v
}

func newPCG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func positions(o *Oram) []int {
	return slices.Clone(o.posMap.(*ArrayPositionMap).leaves)
}

type pathRead struct {
	leaf  int
	nodes []int
}

type blockWrite struct {
	node    int
	address int
}

type recordingObserver struct {
	depth, numLeaves, numAddresses int

	reads  []pathRead
	writes []blockWrite
	failed []error
}

func (r *recordingObserver) Initialized(depth, numLeaves, numAddresses int) {
	r.depth, r.numLeaves, r.numAddresses = depth, numLeaves, numAddresses
}

func (r *recordingObserver) PathRead(leaf int, nodes []int) {
	r.reads = append(r.reads, pathRead{leaf: leaf, nodes: nodes})
}

func (r *recordingObserver) BlockWritten(node int, b Block) {
	r.writes = append(r.writes, blockWrite{node: node, address: b.Address})
}

func (r *recordingObserver) AccessFailed(_ int, err error) {
	r.failed = append(r.failed, err)
}
