package pathoram

import "crypto/subtle"

// findConstantTime searches the working set without timing leaks.
// Returns (index, data) where index is -1 if not found.
// Always iterates through the entire working set regardless of match.
func (o *Oram) findConstantTime(working []Block, address int) (int, []byte) {
	foundIdx := -1
	result := make([]byte, o.cfg.BlockSize)

	for i := range working {
		match := subtle.ConstantTimeEq(int32(working[i].Address), int32(address))
		foundIdx = subtle.ConstantTimeSelect(match, i, foundIdx)
		subtle.ConstantTimeCopy(match, result, working[i].Data)
	}
	if foundIdx == -1 {
		return -1, nil
	}
	return foundIdx, result
}

// isAncestorConstantTime checks ancestry without early exit.
// Always walks the full height of the tree.
func (o *Oram) isAncestorConstantTime(a, d int) bool {
	found := 0
	for level := 0; level <= o.tree.Depth(); level++ {
		found |= subtle.ConstantTimeEq(int32(d), int32(a))
		d /= 2
	}
	return found == 1
}
