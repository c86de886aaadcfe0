package pathoram

import "github.com/pkg/errors"

// EmptyAddress marks a holder slot as empty.
const EmptyAddress = -1

const (
	// DefaultBucketSize is the slot count of every non-root node (Z parameter).
	DefaultBucketSize = 3
	// DefaultStashSize is the slot count of the root stash.
	DefaultStashSize = 5
)

var (
	ErrInvalidConfig   = errors.New("invalid ORAM configuration")
	ErrInvalidAddress  = errors.New("invalid address")
	ErrInvalidDataSize = errors.New("data size doesn't match block size")
	ErrInvalidOp       = errors.New("invalid operation")
	ErrInvalidLeaf     = errors.New("invalid leaf index")
	ErrInvalidNode     = errors.New("invalid node index")
	ErrHolderFull      = errors.New("holder is full")
	ErrStashOverflow   = errors.New("stash overflow")
)

// Config holds ORAM configuration parameters.
type Config struct {
	NumBlocks    int  // Size of the logical address space (valid addresses: 0 to NumBlocks-1)
	BlockSize    int  // Size of each block payload in bytes
	BucketSize   int  // Slots per non-root node
	StashSize    int  // Slots in the root stash
	ConstantTime bool // Avoid data-dependent branches in lookups and eligibility checks
}

// Validate checks the configuration for errors and applies defaults.
// Returns a copy of the config with defaults applied.
func (c Config) Validate() (Config, error) {
	if c.NumBlocks <= 0 || c.BlockSize <= 0 {
		return c, errors.Wrapf(ErrInvalidConfig, "blocks: %d, block size: %d", c.NumBlocks, c.BlockSize)
	}
	if c.BucketSize < 0 || c.StashSize < 0 {
		return c, errors.Wrapf(ErrInvalidConfig, "bucket size: %d, stash size: %d", c.BucketSize, c.StashSize)
	}
	if c.BucketSize == 0 {
		c.BucketSize = DefaultBucketSize
	}
	if c.StashSize == 0 {
		c.StashSize = DefaultStashSize
	}
	return c, nil
}

// ComputeTreeParams calculates tree dimensions from config.
// Depth is the smallest d with 2^d >= 2*NumBlocks, which keeps the expected
// load per leaf at or below one half.
// Returns (depth, numLeaves, numNodes).
func (c Config) ComputeTreeParams() (depth, numLeaves, numNodes int) {
	depth = 1
	for 1<<depth < 2*c.NumBlocks {
		depth++
	}
	numLeaves = 1 << (depth - 1)
	numNodes = 1 << depth
	return
}
