package pathoram

// PositionMap tracks address-to-leaf assignments.
// For recursive ORAM, this can be implemented as another ORAM instance.
type PositionMap interface {
	// Get returns the leaf currently assigned to address.
	Get(address int) int

	// Set assigns address to leaf.
	Set(address, leaf int)

	// Len returns the number of addresses tracked.
	Len() int
}

// ArrayPositionMap implements PositionMap using a slice indexed by address.
type ArrayPositionMap struct {
	leaves []int
}

// NewArrayPositionMap creates a position map for n addresses, each assigned
// an independent random leaf of tree.
func NewArrayPositionMap(n int, tree *Tree, rng LeafSource) *ArrayPositionMap {
	leaves := make([]int, n)
	for i := range leaves {
		leaves[i] = tree.RandomLeaf(rng)
	}
	return &ArrayPositionMap{leaves: leaves}
}

// Get returns the leaf assigned to address.
func (p *ArrayPositionMap) Get(address int) int {
	return p.leaves[address]
}

// Set assigns address to leaf.
func (p *ArrayPositionMap) Set(address, leaf int) {
	p.leaves[address] = leaf
}

// Len returns the number of addresses.
func (p *ArrayPositionMap) Len() int {
	return len(p.leaves)
}
