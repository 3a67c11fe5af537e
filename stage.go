package shadowreg

// WriteResult is a tagged pair used as the return value of write callbacks
// to HostView/HostViewStaged. It is the caller's decision — not the
// implementation's — whether a successful write should mark blocks dirty
// (or, when staging, be committed to the staging buffer at all).
type WriteResult[R any] struct {
	value R
	dirty bool
}

// Dirty wraps r as a result that should mark the written range dirty (or
// commit the staged entry).
func Dirty[R any](r R) WriteResult[R] { return WriteResult[R]{value: r, dirty: true} }

// Clean wraps r as a result that should leave dirty state untouched (or
// discard the staged entry, reclaiming its space).
func Clean[R any](r R) WriteResult[R] { return WriteResult[R]{value: r, dirty: false} }

// IsDirty reports whether this result indicates the write should be marked
// dirty / committed.
func (w WriteResult[R]) IsDirty() bool { return w.dirty }

// Value returns the wrapped value regardless of dirty state.
func (w WriteResult[R]) Value() R { return w.value }

// StagingBuffer is the contract a HostViewStaged consumes to record writes
// before they are applied to the shadow table.
type StagingBuffer interface {
	// AnyStaged reports whether any entries are currently staged.
	AnyStaged() bool

	// AllocStaged appends a zero-filled len-byte region to the arena and
	// invokes f with a mutable view of it. If f returns a dirty
	// WriteResult, the entry (addr, len, offset) is committed to the
	// entry table. If f returns a clean result, the arena is truncated
	// back and no entry is recorded. Returns ErrStageFull if there isn't
	// room in either the arena or the entry table.
	AllocStaged(addr uint16, length int, f func(RWSlice) WriteResult[struct{}]) (WriteResult[struct{}], error)

	// IterStaged invokes f(addr, data) for each staged entry in
	// insertion order. Iteration aborts on the first error f returns.
	IterStaged(f func(addr uint16, data []byte) error) error

	// ClearStaged discards all staged entries.
	ClearStaged()
}

type patchEntry struct {
	addr uint16
	len  uint16
	off  uint16
}

// PatchBuffer is the fixed-capacity append-log StagingBuffer implementation
// described in spec.md §4.6: a byte arena of capacity dataCap and an entry
// table of capacity entryCap. Later entries overwrite earlier ones on
// overlap at overlay/commit time — the buffer itself never merges or
// compacts entries.
type PatchBuffer struct {
	data    []byte
	dataLen int

	entries    []patchEntry
	entryCount int
}

// NewPatchBuffer constructs an empty PatchBuffer with the given arena and
// entry-table capacities.
func NewPatchBuffer(dataCap, entryCap int) *PatchBuffer {
	return &PatchBuffer{
		data:    make([]byte, dataCap),
		entries: make([]patchEntry, entryCap),
	}
}

// AnyStaged reports whether any entries are currently staged.
func (p *PatchBuffer) AnyStaged() bool { return p.entryCount > 0 }

// AllocStaged implements StagingBuffer.
func (p *PatchBuffer) AllocStaged(addr uint16, length int, f func(RWSlice) WriteResult[struct{}]) (WriteResult[struct{}], error) {
	if p.dataLen+length > len(p.data) || p.entryCount == len(p.entries) {
		return WriteResult[struct{}]{}, ErrStageFull
	}

	off := p.dataLen
	region := p.data[off : off+length]
	for i := range region {
		region[i] = 0
	}

	result := f(newRWSlice(region))

	if result.IsDirty() {
		p.entries[p.entryCount] = patchEntry{addr: addr, len: uint16(length), off: uint16(off)}
		p.entryCount++
		p.dataLen += length
	}
	// Clean: nothing to reclaim since dataLen was never advanced.

	return result, nil
}

// IterStaged implements StagingBuffer.
func (p *PatchBuffer) IterStaged(f func(addr uint16, data []byte) error) error {
	for i := 0; i < p.entryCount; i++ {
		e := p.entries[i]
		if err := f(e.addr, p.data[e.off:e.off+e.len]); err != nil {
			return err
		}
	}
	return nil
}

// ClearStaged implements StagingBuffer.
func (p *PatchBuffer) ClearStaged() {
	p.dataLen = 0
	p.entryCount = 0
}

// applyOverlay copies staged entry bytes over out wherever an entry's
// address range overlaps [addr, addr+len(out)), in insertion order, so
// later entries win. Used by read-with-overlay semantics.
func (p *PatchBuffer) applyOverlay(addr uint16, out []byte) {
	qStart := int(addr)
	qEnd := qStart + len(out)

	for i := 0; i < p.entryCount; i++ {
		e := p.entries[i]
		eStart := int(e.addr)
		eEnd := eStart + int(e.len)

		start := max(qStart, eStart)
		end := min(qEnd, eEnd)
		if start >= end {
			continue
		}

		entryData := p.data[e.off : e.off+e.len]
		copy(out[start-qStart:end-qStart], entryData[start-eStart:end-eStart])
	}
}
