package shadowreg

import "go.uber.org/zap"

// Storage owns the table, the access and persist policies, the persist
// trigger, and — once upgraded via WithStaging — a staging buffer. It is
// constructed once (via Builder) and then shared between host and kernel
// roles for the program's lifetime behind a critical-section guard; it is
// never destroyed in typical embedded use.
type Storage[K any] struct {
	table   *Table
	access  AccessPolicy
	persist PersistPolicy[K]
	trigger PersistTrigger[K]
	crit    CriticalSection
	log     *zap.Logger

	stage StagingBuffer // nil until WithStaging is called
}

// HostShadow returns a short-lived handle for the application-side role.
func (s *Storage[K]) HostShadow() *HostShadow[K] { return &HostShadow[K]{storage: s} }

// KernelShadow returns a short-lived handle for the hardware-driver-side
// role.
func (s *Storage[K]) KernelShadow() *KernelShadow[K] { return &KernelShadow[K]{storage: s} }

// WithStaging upgrades storage in place to carry a staging buffer, after
// which HostShadow.WithView hands out a *HostViewStaged instead of a
// *HostView and WithStagedView becomes usable; WithHostView still hands out
// a plain *HostView. Calling it twice replaces the previous stage.
func (s *Storage[K]) WithStaging(sb StagingBuffer) {
	s.stage = sb
}

// HasStaging reports whether WithStaging has been called.
func (s *Storage[K]) HasStaging() bool { return s.stage != nil }

// WriteFn is the callback type for LoadDefaults: it writes data into the
// table at addr without marking anything dirty.
type WriteFn func(addr uint16, data []byte) error

// LoadDefaults acquires the critical section, then hands f a writer
// callback that writes bytes into the table without touching dirty bits.
// Use this during system initialization to populate the shadow table with
// factory defaults or data restored from non-volatile storage.
func (s *Storage[K]) LoadDefaults(f func(write WriteFn) error) error {
	s.crit.Enter()
	defer s.crit.Leave()
	return s.LoadDefaultsUnchecked(f)
}

// LoadDefaultsUnchecked is LoadDefaults without the critical-section guard.
// The caller must already guarantee exclusive access — e.g. during boot,
// before interrupts are enabled.
func (s *Storage[K]) LoadDefaultsUnchecked(f func(write WriteFn) error) error {
	write := func(addr uint16, data []byte) error {
		return s.table.WithBytesMut(addr, len(data), func(buf []byte) error {
			copy(buf, data)
			return nil
		})
	}
	if err := f(write); err != nil {
		s.log.Debug("load_defaults callback failed", zap.Error(err))
		return err
	}
	return nil
}

// HostShadow is the short-lived handle an application uses to obtain a
// HostView or HostViewStaged.
type HostShadow[K any] struct {
	storage *Storage[K]
}

// WithView acquires the critical section, constructs the appropriate view
// (HostView or HostViewStaged, depending on whether WithStaging was
// called), invokes f, and releases the critical section on return — even if
// f panics.
func (h *HostShadow[K]) WithView(f func(view any)) {
	h.storage.crit.Enter()
	defer h.storage.crit.Leave()
	h.WithViewUnchecked(f)
}

// WithViewUnchecked is WithView without the critical-section guard.
func (h *HostShadow[K]) WithViewUnchecked(f func(view any)) {
	base := newHostView(h.storage.table, h.storage.access, h.storage.persist, h.storage.trigger)
	if h.storage.stage != nil {
		staged := newHostViewStaged(base, h.storage.stage)
		f(staged)
		return
	}
	f(base)
}

// WithHostView is the typed counterpart of WithView for storages without
// staging: it fails to compile-time-distinguish (Go has no such
// specialization), so callers that know they have no stage should prefer
// this for a concretely-typed *HostView[K] instead of doing a type
// assertion inside WithView's callback.
func (h *HostShadow[K]) WithHostView(f func(view *HostView[K])) {
	h.storage.crit.Enter()
	defer h.storage.crit.Leave()
	h.WithHostViewUnchecked(f)
}

// WithHostViewUnchecked is WithHostView without the critical-section guard.
func (h *HostShadow[K]) WithHostViewUnchecked(f func(view *HostView[K])) {
	view := newHostView(h.storage.table, h.storage.access, h.storage.persist, h.storage.trigger)
	f(view)
}

// WithStagedView is the typed counterpart for storages that have had
// WithStaging called; it panics if no stage has been configured, since that
// is always a caller bug rather than a runtime condition to recover from.
func (h *HostShadow[K]) WithStagedView(f func(view *HostViewStaged[K])) {
	h.storage.crit.Enter()
	defer h.storage.crit.Leave()
	h.WithStagedViewUnchecked(f)
}

// WithStagedViewUnchecked is WithStagedView without the critical-section
// guard.
func (h *HostShadow[K]) WithStagedViewUnchecked(f func(view *HostViewStaged[K])) {
	if h.storage.stage == nil {
		panic("shadowreg: WithStagedView called on storage without WithStaging")
	}
	base := newHostView(h.storage.table, h.storage.access, h.storage.persist, h.storage.trigger)
	view := newHostViewStaged(base, h.storage.stage)
	f(view)
}

// KernelShadow is the short-lived handle a hardware driver uses to obtain a
// KernelView, typically from interrupt context.
type KernelShadow[K any] struct {
	storage *Storage[K]
}

// WithView acquires the critical section, constructs a KernelView, invokes
// f, and releases the critical section on return — even if f panics.
func (k *KernelShadow[K]) WithView(f func(view *KernelView)) {
	k.storage.crit.Enter()
	defer k.storage.crit.Leave()
	k.WithViewUnchecked(f)
}

// WithViewUnchecked is WithView without the critical-section guard. The
// caller asserts exclusivity by contract — e.g. already inside an ISR with
// interrupts disabled.
func (k *KernelShadow[K]) WithViewUnchecked(f func(view *KernelView)) {
	view := newKernelView(k.storage.table)
	f(view)
}
