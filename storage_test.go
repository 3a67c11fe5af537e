package shadowreg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *Storage[int] {
	t.Helper()
	storage, err := NewBuilder[int]().Dimensions(1024, 64, 16).Build()
	require.NoError(t, err)
	return storage
}

func TestLoadDefaultsDoesNotMarkDirty(t *testing.T) {
	storage := newTestStorage(t)

	err := storage.LoadDefaults(func(write WriteFn) error {
		return write(0x000, []byte{1, 2, 3, 4})
	})
	require.NoError(t, err)

	host := storage.HostShadow()
	host.WithHostView(func(v *HostView[int]) {
		dirty, _ := v.IsDirty(0x000, 4)
		assert.False(t, dirty)

		val, err := HostReadRO(v, 0x000, 1, func(s ROSlice) byte { return s.ReadU8At(0) })
		require.NoError(t, err)
		assert.Equal(t, byte(1), val)
	})
}

func TestHostShadowWithViewUsesCriticalSection(t *testing.T) {
	crit := &MutexCriticalSection{}
	storage, err := NewBuilder[int]().
		Dimensions(1024, 64, 16).
		CriticalSection(crit).
		Build()
	require.NoError(t, err)

	host := storage.HostShadow()
	entered := false
	host.WithHostView(func(v *HostView[int]) {
		entered = true
		// The section is held for the duration of the callback.
		assert.False(t, crit.mu.TryLock())
	})
	assert.True(t, entered)
}

func TestHostShadowWithViewReleasesCriticalSectionOnPanic(t *testing.T) {
	storage := newTestStorage(t)
	storage.crit = &MutexCriticalSection{}
	host := storage.HostShadow()

	func() {
		defer func() { recover() }()
		host.WithHostView(func(v *HostView[int]) {
			panic("boom")
		})
	}()

	// If Leave wasn't deferred, this would deadlock.
	host.WithHostView(func(v *HostView[int]) {})
}

func TestWithStagingUpgradesHostShadowView(t *testing.T) {
	storage := newTestStorage(t)
	storage.WithStaging(NewPatchBuffer(64, 8))
	assert.True(t, storage.HasStaging())

	host := storage.HostShadow()
	host.WithStagedView(func(v *HostViewStaged[int]) {
		_, err := AllocStaged(v, 0x100, 2, func(s RWSlice) WriteResult[struct{}] {
			s.WriteU16LEAt(0, 42)
			return Dirty(struct{}{})
		})
		require.NoError(t, err)
		require.NoError(t, v.CommitStaged())
	})

	host.WithHostView(func(v *HostView[int]) {
		val, err := HostReadRO(v, 0x100, 2, func(s ROSlice) uint16 { return s.ReadU16LEAt(0) })
		require.NoError(t, err)
		assert.Equal(t, uint16(42), val)
	})
}

func TestWithStagedViewPanicsWithoutStaging(t *testing.T) {
	storage := newTestStorage(t)
	host := storage.HostShadow()

	assert.Panics(t, func() {
		host.WithStagedView(func(v *HostViewStaged[int]) {})
	})
}

func TestHostShadowWithViewDispatchesOnStagingState(t *testing.T) {
	storage := newTestStorage(t)

	storage.HostShadow().WithView(func(view any) {
		_, ok := view.(*HostView[int])
		assert.True(t, ok)
	})

	storage.WithStaging(NewPatchBuffer(64, 8))
	storage.HostShadow().WithView(func(view any) {
		_, ok := view.(*HostViewStaged[int])
		assert.True(t, ok)
	})
}

func TestKernelShadowWithView(t *testing.T) {
	storage := newTestStorage(t)
	require.NoError(t, storage.LoadDefaultsUnchecked(func(write WriteFn) error {
		return write(0x000, []byte{0xAA})
	}))

	kernel := storage.KernelShadow()
	var val byte
	kernel.WithView(func(v *KernelView) {
		require.NoError(t, v.WithROSlice(0x000, 1, func(s ROSlice) {
			val = s.ReadU8At(0)
		}))
	})
	assert.Equal(t, byte(0xAA), val)
}
