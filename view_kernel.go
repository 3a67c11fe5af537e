package shadowreg

// KernelView is the hardware-driver-side view of the shadow table, typically
// bound from an interrupt handler. It never touches access or persist
// policies, never marks dirty, and is the only view that clears dirty
// state.
type KernelView struct {
	table *Table
}

func newKernelView(t *Table) *KernelView {
	return &KernelView{table: t}
}

// WithROSlice invokes f with a read-only view of [addr, addr+len). Never
// marks dirty.
func (v *KernelView) WithROSlice(addr uint16, length int, f func(ROSlice)) error {
	return v.table.WithBytes(addr, length, func(b []byte) error {
		f(newROSlice(b))
		return nil
	})
}

// WithRWSlice invokes f with a read-write view of [addr, addr+len). Never
// marks dirty — kernel writes typically reflect data just read from
// hardware, and marking dirty would cause it to be written straight back.
func (v *KernelView) WithRWSlice(addr uint16, length int, f func(RWSlice)) error {
	return v.table.WithBytesMut(addr, length, func(b []byte) error {
		f(newRWSlice(b))
		return nil
	})
}

// IterDirty invokes f(addr, block) for each dirty block in ascending index
// order. Iteration aborts on the first error f returns; dirty bits are not
// cleared by iteration itself.
func (v *KernelView) IterDirty(f func(addr uint16, block ROSlice) error) error {
	return v.table.IterDirty(func(addr uint16, block []byte) error {
		return f(addr, newROSlice(block))
	})
}

// IsDirty reports whether any block in the span covered by (addr, len) is
// dirty.
func (v *KernelView) IsDirty(addr uint16, length int) (bool, error) {
	return v.table.IsDirty(addr, length)
}

// AnyDirty reports whether any block in the table is dirty.
func (v *KernelView) AnyDirty() bool {
	return v.table.AnyDirty()
}

// ClearDirty clears every dirty bit in the block span covered by (addr,
// len), even if len only partially overlaps the trailing or leading block.
func (v *KernelView) ClearDirty(addr uint16, length int) error {
	return v.table.ClearDirty(addr, length)
}

// ClearAllDirty zeroes the entire dirty bitmap.
func (v *KernelView) ClearAllDirty() {
	v.table.ClearAllDirty()
}
