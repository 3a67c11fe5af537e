package shadowreg

import (
	"github.com/bits-and-blooms/bitset"
)

// maxTotalSize is the largest table size Builder.Build accepts: every
// address within the table must fit in a uint16, so totalSize can be at
// most 65536 (addresses 0..65535 plus the exclusive end at 65536).
const maxTotalSize = 65536

// Table owns the byte backing store and the block-granular dirty bitmap for
// a shadow register region. It knows nothing about access control,
// persistence, or staging — those are layered on top by the views and
// Storage.
//
// A Table is fixed-size for its lifetime: totalSize == blockSize *
// blockCount, and both the byte buffer and the dirty bitmap are allocated
// once at construction.
type Table struct {
	totalSize  int
	blockSize  int
	blockCount int

	bytes []byte
	dirty *bitset.BitSet
}

// newTable constructs a zero-initialized Table. Callers must already have
// validated totalSize == blockSize*blockCount; Builder.Build (in builder.go)
// and test helpers are the intended callers.
func newTable(totalSize, blockSize, blockCount int) *Table {
	return &Table{
		totalSize:  totalSize,
		blockSize:  blockSize,
		blockCount: blockCount,
		bytes:      make([]byte, totalSize),
		dirty:      bitset.New(uint(blockCount)),
	}
}

// WithBytes invokes f with an immutable view of the byte span [addr,
// addr+len). It has no effect on dirty state.
func (t *Table) WithBytes(addr uint16, length int, f func([]byte) error) error {
	off, end, err := rangeSpan(t.totalSize, addr, length)
	if err != nil {
		return err
	}
	return f(t.bytes[off:end])
}

// WithBytesMut invokes f with a mutable view of the byte span [addr,
// addr+len). It has no effect on dirty state by itself — callers layer
// dirty marking on top, as HostView does.
func (t *Table) WithBytesMut(addr uint16, length int, f func([]byte) error) error {
	off, end, err := rangeSpan(t.totalSize, addr, length)
	if err != nil {
		return err
	}
	return f(t.bytes[off:end])
}

// MarkDirty sets every dirty bit in the block span covered by (addr, len).
func (t *Table) MarkDirty(addr uint16, length int) error {
	sb, eb, err := blockSpan(t.totalSize, t.blockSize, t.blockCount, addr, length)
	if err != nil {
		return err
	}
	for b := sb; b <= eb; b++ {
		t.dirty.Set(uint(b))
	}
	return nil
}

// ClearDirty clears every dirty bit in the block span covered by (addr,
// len). Because a block is the atom of dirty tracking, this clears the
// whole block even if len only partially covers it.
func (t *Table) ClearDirty(addr uint16, length int) error {
	sb, eb, err := blockSpan(t.totalSize, t.blockSize, t.blockCount, addr, length)
	if err != nil {
		return err
	}
	for b := sb; b <= eb; b++ {
		t.dirty.Clear(uint(b))
	}
	return nil
}

// ClearAllDirty zeroes the entire dirty bitmap.
func (t *Table) ClearAllDirty() {
	t.dirty.ClearAll()
}

// IsDirty reports whether any block in the span covered by (addr, len) is
// dirty.
func (t *Table) IsDirty(addr uint16, length int) (bool, error) {
	sb, eb, err := blockSpan(t.totalSize, t.blockSize, t.blockCount, addr, length)
	if err != nil {
		return false, err
	}
	for b := sb; b <= eb; b++ {
		if t.dirty.Test(uint(b)) {
			return true, nil
		}
	}
	return false, nil
}

// AnyDirty reports whether any block in the table is dirty.
func (t *Table) AnyDirty() bool {
	return t.dirty.Any()
}

// IterDirty invokes f(addr, block) for each dirty block in strictly
// ascending index order, where addr is the block-aligned start address and
// block is the full blockSize-byte slice for that block. Iteration aborts
// on the first error f returns, and does not clear any dirty bits.
func (t *Table) IterDirty(f func(addr uint16, block []byte) error) error {
	for i, e := t.dirty.NextSet(0); e; i, e = t.dirty.NextSet(i + 1) {
		off := int(i) * t.blockSize
		addr := uint16(off)
		if err := f(addr, t.bytes[off:off+t.blockSize]); err != nil {
			return err
		}
	}
	return nil
}
