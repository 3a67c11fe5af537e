package shadowreg

// HostViewStaged wraps a HostView and exclusively borrows a StagingBuffer.
// Its slice accessors (StagedReadRO, StagedWriteWO, StagedWriteRW) delegate
// to the base HostView verbatim; AllocStaged/CommitStaged are the staging-
// specific additions described in spec.md §4.7.3.
type HostViewStaged[K any] struct {
	base  *HostView[K]
	stage StagingBuffer
}

func newHostViewStaged[K any](base *HostView[K], stage StagingBuffer) *HostViewStaged[K] {
	return &HostViewStaged[K]{base: base, stage: stage}
}

// StagedReadRO delegates to HostReadRO on the underlying HostView: staged
// writes have not yet taken effect, so this never sees them. Use
// StagedReadOverlay to preview staged-but-uncommitted state.
func StagedReadRO[K, R any](v *HostViewStaged[K], addr uint16, length int, f func(ROSlice) R) (R, error) {
	return HostReadRO(v.base, addr, length, f)
}

// StagedWriteWO delegates to HostWriteWO on the underlying HostView,
// bypassing staging entirely.
func StagedWriteWO[K, R any](v *HostViewStaged[K], addr uint16, length int, f func(WOSlice) WriteResult[R]) (WriteResult[R], error) {
	return HostWriteWO(v.base, addr, length, f)
}

// StagedWriteRW delegates to HostWriteRW on the underlying HostView,
// bypassing staging entirely.
func StagedWriteRW[K, R any](v *HostViewStaged[K], addr uint16, length int, f func(RWSlice) WriteResult[R]) (WriteResult[R], error) {
	return HostWriteRW(v.base, addr, length, f)
}

// AllocStaged checks AccessPolicy.CanWrite and the table bounds of (addr,
// len), then appends a staged write to the staging buffer. No dirty marking
// or persist firing occurs — the write has not yet taken effect against the
// table.
func AllocStaged[K, R any](v *HostViewStaged[K], addr uint16, length int, f func(RWSlice) WriteResult[R]) (WriteResult[R], error) {
	if !v.base.access.CanWrite(addr, length) {
		return WriteResult[R]{}, ErrDenied
	}
	if _, _, err := rangeSpan(v.base.table.totalSize, addr, length); err != nil {
		return WriteResult[R]{}, err
	}

	var inner R
	dirty, err := v.stage.AllocStaged(addr, length, func(s RWSlice) WriteResult[struct{}] {
		result := f(s)
		inner = result.Value()
		if result.IsDirty() {
			return Dirty(struct{}{})
		}
		return Clean(struct{}{})
	})
	if err != nil {
		return WriteResult[R]{}, err
	}

	if dirty.IsDirty() {
		return Dirty(inner), nil
	}
	return Clean(inner), nil
}

// StagedReadOverlay reads [addr, addr+len(out)) from the table, then applies
// any staged entries that overlap it, later entries winning on overlap —
// giving a preview of the table as if the staging buffer had already been
// committed.
func (v *HostViewStaged[K]) StagedReadOverlay(addr uint16, out []byte) error {
	if !v.base.access.CanRead(addr, len(out)) {
		return ErrDenied
	}

	if err := v.base.table.WithBytes(addr, len(out), func(b []byte) error {
		copy(out, b)
		return nil
	}); err != nil {
		return err
	}

	if pb, ok := v.stage.(*PatchBuffer); ok {
		pb.applyOverlay(addr, out)
		return nil
	}

	qStart := int(addr)
	return v.stage.IterStaged(func(eAddr uint16, data []byte) error {
		eStart := int(eAddr)
		start := max(qStart, eStart)
		end := min(qStart+len(out), eStart+len(data))
		if start < end {
			copy(out[start-qStart:end-qStart], data[start-eStart:end-eStart])
		}
		return nil
	})
}

// CommitStaged applies every staged entry to the table in insertion order,
// marking affected blocks dirty, then fires at most one persist request for
// the whole commit (the OR of every entry's persist-policy decision),
// rather than once per entry as the direct HostWriteWO path would. If
// iteration fails partway through (which should not happen for entries that
// passed through AllocStaged, since that already validated bounds), the
// staging buffer is left intact and the table may have been partially
// mutated.
func (v *HostViewStaged[K]) CommitStaged() error {
	if !v.stage.AnyStaged() {
		return nil
	}

	shouldPersist := false
	err := v.stage.IterStaged(func(addr uint16, data []byte) error {
		if err := v.base.writeBytesNoPersist(addr, data); err != nil {
			return err
		}
		if v.base.persist != nil {
			shouldPersist = v.base.persist.PushPersistKeysForRange(addr, len(data), func(k K) {
				if v.base.trigger != nil {
					v.base.trigger.PushKey(k)
				}
			}) || shouldPersist
		}
		return nil
	})
	if err != nil {
		return err
	}

	v.stage.ClearStaged()

	if shouldPersist && v.base.trigger != nil {
		v.base.trigger.RequestPersist()
	}
	return nil
}

// IsStaged reports whether there are any staged writes pending.
func (v *HostViewStaged[K]) IsStaged() bool { return v.stage.AnyStaged() }

// IterStaged invokes f(addr, data) for each staged entry in insertion
// order. Iteration aborts on the first error f returns.
func (v *HostViewStaged[K]) IterStaged(f func(addr uint16, data ROSlice) error) error {
	return v.stage.IterStaged(func(addr uint16, data []byte) error {
		return f(addr, newROSlice(data))
	})
}

// ClearStaged discards all staged entries without committing them.
func (v *HostViewStaged[K]) ClearStaged() { v.stage.ClearStaged() }

// IsDirty reports whether any block in the span covered by (addr, len) is
// dirty.
func (v *HostViewStaged[K]) IsDirty(addr uint16, length int) (bool, error) {
	return v.base.IsDirty(addr, length)
}

// AnyDirty reports whether any block in the table is dirty.
func (v *HostViewStaged[K]) AnyDirty() bool { return v.base.AnyDirty() }
