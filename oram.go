package pathoram

import (
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// Oram implements the Path ORAM access protocol over a Tree.
//
// Oram is not safe for concurrent use. Wrap it with Synchronized when it is
// shared between goroutines.
type Oram struct {
	cfg Config

	tree   *Tree
	posMap PositionMap
	rng    LeafSource // leaf assignment randomness
	obs    Observer   // diagnostic hooks
}

// New creates an ORAM for cfg.NumBlocks addresses with explicit randomness
// and observer. Every address is assigned an independent random leaf.
// A nil rng falls back to CryptoSource, a nil obs to NopObserver.
func New(cfg Config, rng LeafSource, obs Observer) (*Oram, error) {
	cfg, err := cfg.Validate()
	if err != nil {
		return nil, err
	}
	if rng == nil {
		rng = CryptoSource{}
	}
	if obs == nil {
		obs = NopObserver{}
	}

	depth, numLeaves, _ := cfg.ComputeTreeParams()
	tree, err := NewTree(depth, cfg.BucketSize, cfg.StashSize)
	if err != nil {
		return nil, err
	}

	o := &Oram{
		cfg:    cfg,
		tree:   tree,
		posMap: NewArrayPositionMap(cfg.NumBlocks, tree, rng),
		rng:    rng,
		obs:    obs,
	}
	obs.Initialized(depth, numLeaves, cfg.NumBlocks)
	return o, nil
}

// NewInMemory creates an ORAM using crypto/rand and no observer.
func NewInMemory(cfg Config) (*Oram, error) {
	return New(cfg, CryptoSource{}, NopObserver{})
}

// Create creates an ORAM for n addresses holding one-byte (boolean) payloads
// with default bucket and stash sizes.
func Create(n int) (*Oram, error) {
	return NewInMemory(Config{NumBlocks: n, BlockSize: 1})
}

// Capacity returns the size of the logical address space.
func (o *Oram) Capacity() int {
	return o.cfg.NumBlocks
}

// BlockSize returns the configured payload size.
func (o *Oram) BlockSize() int {
	return o.cfg.BlockSize
}

// Depth returns the depth of the tree.
func (o *Oram) Depth() int {
	return o.tree.Depth()
}

// NumLeaves returns the number of leaves in the tree.
func (o *Oram) NumLeaves() int {
	return o.tree.NumLeaves()
}

// StashLen returns the number of blocks currently held by the root stash.
func (o *Oram) StashLen() int {
	return o.tree.nodes[rootIdx].Len()
}

// Len returns the number of live blocks.
func (o *Oram) Len() int {
	return o.tree.Count()
}

// Execute performs one oblivious access.
// For reads, the result holds the stored value, or Found=false if the
// address was never written. For writes, the result holds the value stored
// before the write.
// Invalid requests are rejected before the tree or position map is touched.
// On ErrStashOverflow the access is rolled back completely.
func (o *Oram) Execute(req Request) (Result, error) {
	if err := o.validate(req); err != nil {
		return Result{}, err
	}
	return o.access(req)
}

// Read reads the value stored at address.
func (o *Oram) Read(address int) (Result, error) {
	return o.Execute(ReadRequest(address))
}

// Write stores data at address.
func (o *Oram) Write(address int, data []byte) error {
	_, err := o.Execute(WriteRequest(address, data))
	return err
}

func (o *Oram) validate(req Request) error {
	if req.Op != OpRead && req.Op != OpWrite {
		return errors.Wrapf(ErrInvalidOp, "op %d", req.Op)
	}
	if req.Address < 0 || req.Address >= o.cfg.NumBlocks {
		return errors.Wrapf(ErrInvalidAddress, "address %d outside [0, %d)", req.Address, o.cfg.NumBlocks)
	}
	if req.Op == OpWrite && len(req.Data) != o.cfg.BlockSize {
		return errors.Wrapf(ErrInvalidDataSize, "got %d bytes, want %d", len(req.Data), o.cfg.BlockSize)
	}
	return nil
}

// access performs the core Path ORAM access operation.
func (o *Oram) access(req Request) (Result, error) {
	// Step 1: Remap the address before anything else happens
	oldLeaf := o.posMap.Get(req.Address)
	o.posMap.Set(req.Address, o.tree.RandomLeaf(o.rng))

	// Step 2: Read path into the working set
	nodes, err := o.tree.ReadAndClearPath(oldLeaf)
	if err != nil {
		o.posMap.Set(req.Address, oldLeaf)
		return Result{}, err
	}
	o.obs.PathRead(oldLeaf, lo.Map(nodes, func(n PathNode, _ int) int {
		return n.Index
	}))
	working := o.collect(oldLeaf, nodes)

	// Step 3: Find the requested block
	var foundIdx int
	var current []byte
	if o.cfg.ConstantTime {
		foundIdx, current = o.findConstantTime(working, req.Address)
	} else {
		foundIdx, current = o.find(working, req.Address)
	}
	result := Result{Found: foundIdx != -1}
	if result.Found {
		result.Data = current
	}

	// Step 4: Apply the write
	if req.Op == OpWrite {
		b := Block{Address: req.Address, Data: make([]byte, o.cfg.BlockSize)}
		copy(b.Data, req.Data)
		if foundIdx == -1 {
			working = append(working, b)
		} else {
			working[foundIdx] = b
		}
	}

	// Step 5: Eviction - write blocks back to the path
	plan, err := o.planEviction(nodes, working)
	if err != nil {
		o.posMap.Set(req.Address, oldLeaf)
		o.restore(nodes)
		o.obs.AccessFailed(oldLeaf, err)
		return Result{}, err
	}
	o.applyEviction(plan)

	return result, nil
}

// collect flattens the path into a working set.
// An address found twice means the position map or eviction is broken.
func (o *Oram) collect(leaf int, nodes []PathNode) []Block {
	working := lo.FlatMap(nodes, func(n PathNode, _ int) []Block {
		return n.Blocks
	})
	seen := make(map[int]struct{}, len(working))
	for _, b := range working {
		if _, exists := seen[b.Address]; exists {
			panic(errors.Errorf("address %d found twice on path to leaf %d", b.Address, leaf))
		}
		seen[b.Address] = struct{}{}
	}
	return working
}

// find searches the working set for address.
// Returns (index, data) where index is -1 if not found.
func (o *Oram) find(working []Block, address int) (int, []byte) {
	for i, b := range working {
		if b.Address == address {
			result := make([]byte, o.cfg.BlockSize)
			copy(result, b.Data)
			return i, result
		}
	}
	return -1, nil
}

// restore puts the blocks read from a path back where they were.
func (o *Oram) restore(nodes []PathNode) {
	for _, n := range nodes {
		for _, b := range n.Blocks {
			if err := o.tree.WriteBlockToBucket(n.Index, b); err != nil {
				panic(errors.Wrap(err, "restoring path failed"))
			}
		}
	}
}

// Verify checks the storage invariants: every stored block has a valid
// address and payload size, no address is stored twice, and every block
// lies on the path of the leaf the position map assigns to it.
func (o *Oram) Verify() error {
	for address := 0; address < o.posMap.Len(); address++ {
		if leaf := o.posMap.Get(address); !o.tree.IsLeaf(leaf) {
			return errors.Errorf("address %d is mapped to non-leaf %d", address, leaf)
		}
	}

	seen := map[int]int{}
	for idx := rootIdx; idx <= o.tree.NumNodes(); idx++ {
		h := o.tree.nodes[idx]
		if (idx == rootIdx) != (h.Kind() == KindStash) {
			return errors.Errorf("node %d is a %s", idx, h.Kind())
		}
		for _, b := range h.Blocks() {
			if b.Address < 0 || b.Address >= o.cfg.NumBlocks {
				return errors.Errorf("node %d holds invalid address %d", idx, b.Address)
			}
			if len(b.Data) != o.cfg.BlockSize {
				return errors.Errorf("address %d holds %d bytes, want %d", b.Address, len(b.Data), o.cfg.BlockSize)
			}
			if other, exists := seen[b.Address]; exists {
				return errors.Errorf("address %d is held by nodes %d and %d", b.Address, other, idx)
			}
			seen[b.Address] = idx
			if leaf := o.posMap.Get(b.Address); !o.tree.IsAncestor(idx, leaf) {
				return errors.Errorf("address %d in node %d is off the path to leaf %d", b.Address, idx, leaf)
			}
		}
	}
	return nil
}
