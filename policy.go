package shadowreg

// AccessPolicy is a pure, side-effect-free predicate over read/write access
// to a region of the shadow table. Implementations must be deterministic and
// fast enough to call on every HostView and HostViewStaged operation.
// KernelView never consults it.
type AccessPolicy interface {
	CanRead(addr uint16, length int) bool
	CanWrite(addr uint16, length int) bool
}

// AllowAllPolicy is the default AccessPolicy: every read and write is
// permitted.
type AllowAllPolicy struct{}

func (AllowAllPolicy) CanRead(addr uint16, length int) bool  { return true }
func (AllowAllPolicy) CanWrite(addr uint16, length int) bool { return true }

// RangeGuardPolicy denies writes to [0, GuardedLen) while always allowing
// reads anywhere. It models a bootloader-protection policy: a low address
// range holds boot configuration that the application must never overwrite,
// but may freely read. A write range that merely touches the guarded region
// (even partially, e.g. crossing its upper boundary) is denied.
type RangeGuardPolicy struct {
	GuardedLen uint16
}

func (p RangeGuardPolicy) CanRead(addr uint16, length int) bool { return true }

func (p RangeGuardPolicy) CanWrite(addr uint16, length int) bool {
	end := int(addr) + length
	return int(addr) >= int(p.GuardedLen) || end <= 0
}

// PersistPolicy inspects a write range and decides which persistence
// entities it touches. It pushes zero or more keys of type K into push for
// each entity affected, and returns whether the write should additionally
// trigger a save. A policy MAY push keys and still return false — see
// spec.md §9's documented interpretation, honored by HostView: the save
// fires iff the boolean is true, independent of whether keys were pushed.
type PersistPolicy[K any] interface {
	PushPersistKeysForRange(addr uint16, length int, push func(K)) bool
}

// NoPersistPolicy never requests persistence and never pushes a key.
type NoPersistPolicy[K any] struct{}

func (NoPersistPolicy[K]) PushPersistKeysForRange(addr uint16, length int, push func(K)) bool {
	return false
}

// PersistTrigger accumulates persist keys pushed by a PersistPolicy and
// performs the actual save when requested. Implementations typically
// deduplicate keys and MAY silently drop pushes beyond their own capacity.
type PersistTrigger[K any] interface {
	PushKey(key K)
	RequestPersist()
}

// NoPersistTrigger discards every pushed key and every persist request.
type NoPersistTrigger[K any] struct{}

func (NoPersistTrigger[K]) PushKey(key K)   {}
func (NoPersistTrigger[K]) RequestPersist() {}

// SectorPersistPolicy maps a write range onto fixed-size flash sectors and
// requests persistence whenever a write touches at least one sector.
// Restored from the original implementation's examples/persist.rs, which
// spec.md's distillation dropped but which remains the canonical non-trivial
// PersistPolicy for this system.
type SectorPersistPolicy struct {
	SectorSize int
}

// PushPersistKeysForRange pushes the sector index (addr / SectorSize) for
// every sector the range [addr, addr+len) overlaps, in ascending order, and
// always returns true: any write that reaches a sector makes that sector
// dirty and worth saving.
func (p SectorPersistPolicy) PushPersistKeysForRange(addr uint16, length int, push func(int)) bool {
	start := int(addr) / p.SectorSize
	end := (int(addr) + length - 1) / p.SectorSize
	for sector := start; sector <= end; sector++ {
		push(sector)
	}
	return true
}
