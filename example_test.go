package shadowreg_test

import (
	"fmt"

	"shadowreg"
)

// ExampleBuilder walks through building a Storage, writing a register
// through the host view, and observing the change from the kernel side —
// the same round trip spec.md §8 Scenario A exercises in test form.
func ExampleBuilder() {
	storage, err := shadowreg.NewBuilder[int]().
		Dimensions(1024, 64, 16).
		Build()
	if err != nil {
		panic(err)
	}

	host := storage.HostShadow()
	host.WithHostView(func(v *shadowreg.HostView[int]) {
		_, err := shadowreg.HostWriteWO(v, 0x100, 2, func(s shadowreg.WOSlice) shadowreg.WriteResult[struct{}] {
			s.WriteU16LEAt(0, 0xBEEF)
			return shadowreg.Dirty(struct{}{})
		})
		if err != nil {
			panic(err)
		}
	})

	kernel := storage.KernelShadow()
	kernel.WithView(func(v *shadowreg.KernelView) {
		_ = v.IterDirty(func(addr uint16, block shadowreg.ROSlice) error {
			fmt.Printf("dirty block at 0x%03X: %04X\n", addr, block.ReadU16LEAt(0))
			return nil
		})
	})

	// Output:
	// dirty block at 0x100: BEEF
}

// ExampleHostViewStaged_CommitStaged shows staging two overlapping writes
// and committing them, with the later write winning on overlap.
func ExampleHostViewStaged_CommitStaged() {
	storage, err := shadowreg.NewBuilder[int]().Dimensions(1024, 64, 16).Build()
	if err != nil {
		panic(err)
	}
	storage.WithStaging(shadowreg.NewPatchBuffer(64, 8))

	host := storage.HostShadow()
	host.WithStagedView(func(v *shadowreg.HostViewStaged[int]) {
		_, _ = shadowreg.AllocStaged(v, 0x100, 2, func(s shadowreg.RWSlice) shadowreg.WriteResult[struct{}] {
			s.WriteU16LEAt(0, 200)
			return shadowreg.Dirty(struct{}{})
		})
		_, _ = shadowreg.AllocStaged(v, 0x100, 2, func(s shadowreg.RWSlice) shadowreg.WriteResult[struct{}] {
			s.WriteU16LEAt(0, 999)
			return shadowreg.Dirty(struct{}{})
		})
		if err := v.CommitStaged(); err != nil {
			panic(err)
		}
	})

	host.WithHostView(func(v *shadowreg.HostView[int]) {
		val, _ := shadowreg.HostReadRO(v, 0x100, 2, func(s shadowreg.ROSlice) uint16 {
			return s.ReadU16LEAt(0)
		})
		fmt.Println(val)
	})

	// Output:
	// 999
}
