package pathoram

import (
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// Block is a single stored payload together with its logical address.
type Block struct {
	Address int    // Logical address (EmptyAddress = free slot)
	Data    []byte // Fixed-size payload
}

// IsEmpty reports whether the block marks a free slot.
func (b Block) IsEmpty() bool {
	return b.Address == EmptyAddress
}

func (b Block) clone() Block {
	data := make([]byte, len(b.Data))
	copy(data, b.Data)
	return Block{Address: b.Address, Data: data}
}

// HolderKind tags a tree node as a bucket or as the stash.
type HolderKind int

const (
	KindBucket HolderKind = iota
	KindStash
)

func (k HolderKind) String() string {
	switch k {
	case KindBucket:
		return "bucket"
	case KindStash:
		return "stash"
	default:
		return "unknown"
	}
}

// Holder is a fixed-capacity container of blocks. Slot order carries no meaning.
type Holder struct {
	kind  HolderKind
	slots []Block
}

// NewBucket creates an empty bucket with the given capacity.
func NewBucket(capacity int) *Holder {
	return newHolder(KindBucket, capacity)
}

// NewStash creates an empty stash with the given capacity.
func NewStash(capacity int) *Holder {
	return newHolder(KindStash, capacity)
}

func newHolder(kind HolderKind, capacity int) *Holder {
	h := &Holder{
		kind:  kind,
		slots: make([]Block, capacity),
	}
	h.Clear()
	return h
}

// Kind returns whether the holder is a bucket or the stash.
func (h *Holder) Kind() HolderKind {
	return h.kind
}

// Capacity returns the number of slots.
func (h *Holder) Capacity() int {
	return len(h.slots)
}

// Len returns the number of occupied slots.
func (h *Holder) Len() int {
	n := 0
	for _, b := range h.slots {
		if !b.IsEmpty() {
			n++
		}
	}
	return n
}

// IsFull reports whether every slot is occupied.
func (h *Holder) IsFull() bool {
	return h.Len() == h.Capacity()
}

// Blocks returns copies of the occupied slots.
func (h *Holder) Blocks() []Block {
	occupied := lo.Filter(h.slots, func(b Block, _ int) bool {
		return !b.IsEmpty()
	})
	return lo.Map(occupied, func(b Block, _ int) Block {
		return b.clone()
	})
}

// Clear empties every slot.
func (h *Holder) Clear() {
	for i := range h.slots {
		h.slots[i] = Block{Address: EmptyAddress}
	}
}

// WriteBlock stores a copy of b in a free slot.
// Existing slots are never overwritten or merged.
func (h *Holder) WriteBlock(b Block) error {
	if b.IsEmpty() {
		return errors.Wrap(ErrInvalidAddress, "empty block can't be written")
	}
	for i := range h.slots {
		if h.slots[i].IsEmpty() {
			h.slots[i] = b.clone()
			return nil
		}
	}
	return errors.Wrapf(ErrHolderFull, "%s of capacity %d", h.kind, h.Capacity())
}
