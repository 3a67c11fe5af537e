package shadowreg

// HostView is the application-side view of the shadow table. Writes
// through it mark blocks dirty and, per the configured PersistPolicy, may
// trigger a persist request. Reads and writes are subject to the
// configured AccessPolicy.
//
// Go does not support type parameters on methods beyond those of the
// receiver, so the slice-scoped accessors that need their own result type R
// (HostReadRO, HostWriteWO, HostWriteRW) are package-level generic functions
// taking the view explicitly, rather than methods — the same shape the
// standard library's slices/maps packages use for the same reason.
type HostView[K any] struct {
	table   *Table
	access  AccessPolicy
	persist PersistPolicy[K]
	trigger PersistTrigger[K]
}

func newHostView[K any](t *Table, access AccessPolicy, persist PersistPolicy[K], trigger PersistTrigger[K]) *HostView[K] {
	return &HostView[K]{table: t, access: access, persist: persist, trigger: trigger}
}

// HostReadRO invokes f with a read-only view of [addr, addr+len), after
// checking AccessPolicy.CanRead. Returns ErrDenied if the policy rejects
// the read.
func HostReadRO[K, R any](v *HostView[K], addr uint16, length int, f func(ROSlice) R) (R, error) {
	var zero R
	if !v.access.CanRead(addr, length) {
		return zero, ErrDenied
	}

	var result R
	err := v.table.WithBytes(addr, length, func(b []byte) error {
		result = f(newROSlice(b))
		return nil
	})
	if err != nil {
		return zero, err
	}
	return result, nil
}

// HostWriteWO invokes f with a write-only view of [addr, addr+len), after
// checking AccessPolicy.CanWrite. If f returns a Dirty result, the range is
// marked dirty and the persist policy/trigger sequence in spec.md §4.4 runs;
// if f returns Clean, no dirty bits change and persistence is never
// consulted.
func HostWriteWO[K, R any](v *HostView[K], addr uint16, length int, f func(WOSlice) WriteResult[R]) (WriteResult[R], error) {
	if !v.access.CanWrite(addr, length) {
		return WriteResult[R]{}, ErrDenied
	}

	var result WriteResult[R]
	err := v.table.WithBytesMut(addr, length, func(b []byte) error {
		result = f(newWOSlice(b))
		return nil
	})
	if err != nil {
		return WriteResult[R]{}, err
	}

	if result.IsDirty() {
		if err := v.markDirtyAndPersist(addr, length); err != nil {
			return WriteResult[R]{}, err
		}
	}

	return result, nil
}

// HostWriteRW invokes f with a read-write view of [addr, addr+len), after
// checking both AccessPolicy.CanRead and AccessPolicy.CanWrite. Otherwise
// identical to HostWriteWO.
func HostWriteRW[K, R any](v *HostView[K], addr uint16, length int, f func(RWSlice) WriteResult[R]) (WriteResult[R], error) {
	if !v.access.CanRead(addr, length) || !v.access.CanWrite(addr, length) {
		return WriteResult[R]{}, ErrDenied
	}

	var result WriteResult[R]
	err := v.table.WithBytesMut(addr, length, func(b []byte) error {
		result = f(newRWSlice(b))
		return nil
	})
	if err != nil {
		return WriteResult[R]{}, err
	}

	if result.IsDirty() {
		if err := v.markDirtyAndPersist(addr, length); err != nil {
			return WriteResult[R]{}, err
		}
	}

	return result, nil
}

// markDirtyAndPersist marks (addr, len) dirty, then runs the persist
// policy/trigger sequence from spec.md §4.4: keys are pushed to the
// trigger before request is (maybe) fired, and the fire happens iff the
// policy's boolean return is true — independent of whether any keys were
// actually pushed (spec.md §9's documented interpretation).
func (v *HostView[K]) markDirtyAndPersist(addr uint16, length int) error {
	if err := v.table.MarkDirty(addr, length); err != nil {
		return err
	}

	if v.persist == nil {
		return nil
	}

	shouldPersist := v.persist.PushPersistKeysForRange(addr, length, func(k K) {
		if v.trigger != nil {
			v.trigger.PushKey(k)
		}
	})
	if shouldPersist && v.trigger != nil {
		v.trigger.RequestPersist()
	}
	return nil
}

// writeBytesNoPersist copies data into the table at addr, marking the range
// dirty but never consulting the persist policy or trigger. Used by
// HostViewStaged.CommitStaged, which batches a single persist decision
// across every staged entry instead of firing one per entry.
func (v *HostView[K]) writeBytesNoPersist(addr uint16, data []byte) error {
	if err := v.table.WithBytesMut(addr, len(data), func(b []byte) error {
		copy(b, data)
		return nil
	}); err != nil {
		return err
	}
	return v.table.MarkDirty(addr, len(data))
}

// IsDirty reports whether any block in the span covered by (addr, len) is
// dirty.
func (v *HostView[K]) IsDirty(addr uint16, length int) (bool, error) {
	return v.table.IsDirty(addr, length)
}

// AnyDirty reports whether any block in the table is dirty.
func (v *HostView[K]) AnyDirty() bool {
	return v.table.AnyDirty()
}
