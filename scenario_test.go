package shadowreg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Scenario A — basic sync. Host writes mark dirty; kernel iter_dirty visits
// exactly the touched blocks in order; clear_all_dirty drains it.
func TestScenarioABasicSync(t *testing.T) {
	tb := newTable(1024, 64, 16)
	host := newHostView[int](tb, AllowAllPolicy{}, NoPersistPolicy[int]{}, NoPersistTrigger[int]{})
	kernel := newKernelView(tb)

	_, err := HostWriteWO(host, 0x100, 4, func(s WOSlice) WriteResult[struct{}] {
		s.CopyFromSlice([]byte{0xDE, 0xAD, 0xBE, 0xEF})
		return Dirty(struct{}{})
	})
	require.NoError(t, err)

	_, err = HostWriteWO(host, 0x200, 8, func(s WOSlice) WriteResult[struct{}] {
		s.CopyFromSlice([]byte{1, 2, 3, 4, 5, 6, 7, 8})
		return Dirty(struct{}{})
	})
	require.NoError(t, err)

	var visited []uint16
	require.NoError(t, kernel.IterDirty(func(addr uint16, block ROSlice) error {
		visited = append(visited, addr)
		assert.Equal(t, 64, block.Len())
		return nil
	}))
	assert.Equal(t, []uint16{0x100, 0x200}, visited)

	kernel.ClearAllDirty()
	assert.False(t, kernel.AnyDirty())
}

// Scenario B — bootloader protection. RangeGuardPolicy denies writes
// touching [0x000, 0x100) (even partially), allows all reads, allows writes
// entirely beyond the guard.
func TestScenarioBBootloaderProtection(t *testing.T) {
	tb := newTable(1024, 64, 16)
	host := newHostView[int](tb, RangeGuardPolicy{GuardedLen: 0x100}, NoPersistPolicy[int]{}, NoPersistTrigger[int]{})

	_, err := HostWriteWO(host, 0x00, 4, func(s WOSlice) WriteResult[struct{}] { return Dirty(struct{}{}) })
	assert.ErrorIs(t, err, ErrDenied)

	_, err = HostWriteWO(host, 0xFF, 2, func(s WOSlice) WriteResult[struct{}] { return Dirty(struct{}{}) })
	assert.ErrorIs(t, err, ErrDenied)

	result, err := HostWriteWO(host, 0x100, 4, func(s WOSlice) WriteResult[struct{}] { return Dirty(struct{}{}) })
	require.NoError(t, err)
	assert.True(t, result.IsDirty())

	_, err = HostReadRO(host, 0x00, 4, func(s ROSlice) int { return 0 })
	assert.NoError(t, err)
}

// Scenario C — staged commit. Overlapping staged writes apply with
// last-writer-wins only after CommitStaged; the table reads zeros before.
func TestScenarioCStagedCommit(t *testing.T) {
	tb := newTable(1024, 64, 16)
	base := newHostView[int](tb, AllowAllPolicy{}, NoPersistPolicy[int]{}, NoPersistTrigger[int]{})
	v := newHostViewStaged(base, NewPatchBuffer(64, 8))

	_, err := AllocStaged(v, 0x100, 2, func(s RWSlice) WriteResult[struct{}] {
		s.WriteU16LEAt(0, 200)
		return Dirty(struct{}{})
	})
	require.NoError(t, err)
	_, err = AllocStaged(v, 0x102, 2, func(s RWSlice) WriteResult[struct{}] {
		s.WriteU16LEAt(0, 300)
		return Dirty(struct{}{})
	})
	require.NoError(t, err)
	_, err = AllocStaged(v, 0x100, 2, func(s RWSlice) WriteResult[struct{}] {
		s.WriteU16LEAt(0, 999)
		return Dirty(struct{}{})
	})
	require.NoError(t, err)

	before, err := StagedReadRO(v, 0x100, 4, func(s ROSlice) uint32 { return s.ReadU32LEAt(0) })
	require.NoError(t, err)
	assert.Equal(t, uint32(0), before)

	require.NoError(t, v.CommitStaged())

	after, err := StagedReadRO(v, 0x100, 4, func(s ROSlice) []uint16 {
		return []uint16{s.ReadU16LEAt(0), s.ReadU16LEAt(2)}
	})
	require.NoError(t, err)
	assert.Equal(t, []uint16{999, 300}, after)
}

// Scenario D — stage capacity. Sixty-one 1-byte entries: first 8 succeed
// (EC=8), the rest fail with StageFull. A separate buffer demonstrates
// data-arena exhaustion with a 60-byte entry followed by an 8-byte one.
func TestScenarioDStageCapacityEntryLimit(t *testing.T) {
	pb := NewPatchBuffer(64, 8)

	successes := 0
	for i := 0; i < 61; i++ {
		_, err := pb.AllocStaged(uint16(i), 1, func(s RWSlice) WriteResult[struct{}] {
			return Dirty(struct{}{})
		})
		if err == nil {
			successes++
		} else {
			assert.ErrorIs(t, err, ErrStageFull)
		}
	}
	assert.Equal(t, 8, successes)
	assert.Equal(t, 8, pb.entryCount)
	assert.Equal(t, 8, pb.dataLen)
}

func TestScenarioDStageCapacityDataLimit(t *testing.T) {
	pb := NewPatchBuffer(64, 8)

	_, err := pb.AllocStaged(0x000, 60, func(s RWSlice) WriteResult[struct{}] { return Dirty(struct{}{}) })
	require.NoError(t, err)

	_, err = pb.AllocStaged(0x100, 8, func(s RWSlice) WriteResult[struct{}] { return Dirty(struct{}{}) })
	assert.ErrorIs(t, err, ErrStageFull)

	assert.Equal(t, 1, pb.entryCount)
	assert.Equal(t, 60, pb.dataLen)
}

// Scenario E — kernel no-dirty write. A kernel write after a host write
// leaves the block's dirty bit set (host-origin) without any additional
// bits, and is visible to subsequent host reads.
func TestScenarioEKernelNoDirtyWrite(t *testing.T) {
	tb := newTable(1024, 64, 16)
	host := newHostView[int](tb, AllowAllPolicy{}, NoPersistPolicy[int]{}, NoPersistTrigger[int]{})
	kernel := newKernelView(tb)

	_, err := HostWriteWO(host, 0x000, 1, func(s WOSlice) WriteResult[struct{}] {
		s.WriteU8At(0, 0xAA)
		return Dirty(struct{}{})
	})
	require.NoError(t, err)

	dirtyBefore := kernel.AnyDirty()
	require.True(t, dirtyBefore)

	require.NoError(t, kernel.WithRWSlice(0x000, 64, func(s RWSlice) {
		s.Fill(0x55)
	}))

	dirtyAfter, _ := kernel.IsDirty(0x000, 1)
	assert.True(t, dirtyAfter)

	val, err := HostReadRO(host, 0x000, 1, func(s ROSlice) byte { return s.ReadU8At(0) })
	require.NoError(t, err)
	assert.Equal(t, byte(0x55), val)
}

// Scenario F — persist batching on commit. Only entries touching
// [0x200, 0x300) fire the persist policy; the trigger's RequestPersist is
// called exactly once for the whole commit.
func TestScenarioFPersistBatchingOnCommit(t *testing.T) {
	tb := newTable(1024, 64, 16)
	trigger := &countingTrigger{}
	persist := rangePersistPolicy{lo: 0x200, hi: 0x300}
	base := newHostView[int](tb, AllowAllPolicy{}, persist, trigger)
	v := newHostViewStaged(base, NewPatchBuffer(64, 8))

	_, err := AllocStaged(v, 0x200, 4, func(s RWSlice) WriteResult[struct{}] { return Dirty(struct{}{}) })
	require.NoError(t, err)
	_, err = AllocStaged(v, 0x220, 4, func(s RWSlice) WriteResult[struct{}] { return Dirty(struct{}{}) })
	require.NoError(t, err)
	_, err = AllocStaged(v, 0x2F0, 4, func(s RWSlice) WriteResult[struct{}] { return Dirty(struct{}{}) })
	require.NoError(t, err)
	_, err = AllocStaged(v, 0x000, 4, func(s RWSlice) WriteResult[struct{}] { return Dirty(struct{}{}) })
	require.NoError(t, err)

	require.NoError(t, v.CommitStaged())
	assert.Equal(t, 1, trigger.requests)
	assert.ElementsMatch(t, []int{0x200, 0x220, 0x2F0}, trigger.pushed)
}
