package pathoram

import (
	"cmp"
	"slices"

	"github.com/pkg/errors"
)

// placement lists the blocks to be written into one path node.
type placement struct {
	node   int
	blocks []Block
}

// planEviction distributes the working set over the path, greedily from the
// leaf up to the root. Nothing is written to the tree.
//
// The working set is ordered by address first, so which eligible blocks a
// full node takes never depends on which address was accessed.
func (o *Oram) planEviction(nodes []PathNode, working []Block) ([]placement, error) {
	slices.SortFunc(working, func(a, b Block) int {
		return cmp.Compare(a.Address, b.Address)
	})

	plan := make([]placement, 0, len(nodes))
	for _, n := range nodes {
		capacity, err := o.tree.Capacity(n.Index)
		if err != nil {
			return nil, err
		}
		var selected []Block
		selected, working = o.selectEligible(n.Index, capacity, working)
		plan = append(plan, placement{node: n.Index, blocks: selected})
	}

	if len(working) > 0 {
		return nil, errors.Wrapf(ErrStashOverflow, "%d blocks left after reaching the root", len(working))
	}
	return plan, nil
}

// selectEligible takes up to capacity blocks that may live in node.
// Returns (selected, rest).
func (o *Oram) selectEligible(node, capacity int, working []Block) ([]Block, []Block) {
	selected := make([]Block, 0, capacity)
	rest := make([]Block, 0, len(working))
	for _, b := range working {
		eligible := o.canPlaceAt(node, b.Address)
		if eligible && len(selected) < capacity {
			selected = append(selected, b)
			continue
		}
		rest = append(rest, b)
	}
	return selected, rest
}

// canPlaceAt reports whether the block for address may be stored in node,
// i.e. node lies on the path to the leaf currently assigned to address.
func (o *Oram) canPlaceAt(node, address int) bool {
	leaf := o.posMap.Get(address)
	if o.cfg.ConstantTime {
		return o.isAncestorConstantTime(node, leaf)
	}
	return o.tree.IsAncestor(node, leaf)
}

// applyEviction writes a plan produced by planEviction.
func (o *Oram) applyEviction(plan []placement) {
	for _, p := range plan {
		for _, b := range p.blocks {
			if err := o.tree.WriteBlockToBucket(p.node, b); err != nil {
				panic(errors.Wrap(err, "eviction plan exceeds node capacity"))
			}
			o.obs.BlockWritten(p.node, b)
		}
	}
}
