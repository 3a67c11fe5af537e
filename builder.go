package shadowreg

import "go.uber.org/zap"

// Builder assembles a Storage[K] step by step. The original implementation
// encoded the phase order (size, then access, then persistence) as a
// compile-time state machine over phantom types; Go has no value-level
// generics to carry that through, so this degrades to a runtime-validated
// fluent builder instead — the tested behavior (you cannot Build() before
// dimensions are set, and TotalSize must equal BlockSize*BlockCount) is
// identical, just checked at Build() instead of at compile time.
type Builder[K any] struct {
	totalSize  int
	blockSize  int
	blockCount int
	dimsSet    bool

	access  AccessPolicy
	persist PersistPolicy[K]
	trigger PersistTrigger[K]
	crit    CriticalSection
	log     *zap.Logger

	err error
}

// NewBuilder starts a Builder with the zero-value defaults spec.md §4.9
// calls for: AllowAllPolicy, NoPersistPolicy, NoPersistTrigger,
// NoOpCriticalSection, and a no-op logger.
func NewBuilder[K any]() *Builder[K] {
	return &Builder[K]{
		access:  AllowAllPolicy{},
		persist: NoPersistPolicy[K]{},
		trigger: NoPersistTrigger[K]{},
		crit:    NoOpCriticalSection{},
		log:     zap.NewNop(),
	}
}

// Dimensions sets the table's total size, block size, and block count in one
// call. It is the only way to set them; Build fails loudly if totalSize !=
// blockSize*blockCount, rather than silently truncating or padding.
func (b *Builder[K]) Dimensions(totalSize, blockSize, blockCount int) *Builder[K] {
	b.totalSize = totalSize
	b.blockSize = blockSize
	b.blockCount = blockCount
	b.dimsSet = true
	return b
}

// AccessPolicy overrides the default AllowAllPolicy.
func (b *Builder[K]) AccessPolicy(p AccessPolicy) *Builder[K] {
	b.access = p
	return b
}

// PersistPolicy overrides the default NoPersistPolicy.
func (b *Builder[K]) PersistPolicy(p PersistPolicy[K]) *Builder[K] {
	b.persist = p
	return b
}

// PersistTrigger overrides the default NoPersistTrigger.
func (b *Builder[K]) PersistTrigger(t PersistTrigger[K]) *Builder[K] {
	b.trigger = t
	return b
}

// CriticalSection overrides the default NoOpCriticalSection.
func (b *Builder[K]) CriticalSection(c CriticalSection) *Builder[K] {
	b.crit = c
	return b
}

// Logger overrides the default no-op *zap.Logger. Passing nil is equivalent
// to not calling Logger at all.
func (b *Builder[K]) Logger(l *zap.Logger) *Builder[K] {
	b.log = logger(l)
	return b
}

// Build validates the accumulated configuration and constructs a Storage.
// It fails if Dimensions was never called, if totalSize != blockSize*
// blockCount, if any dimension is non-positive, or if totalSize exceeds
// maxTotalSize — every address must fit in a uint16.
func (b *Builder[K]) Build() (*Storage[K], error) {
	if !b.dimsSet {
		return nil, errDimensionsRequired
	}
	if b.totalSize <= 0 || b.blockSize <= 0 || b.blockCount <= 0 {
		return nil, ErrZeroLength
	}
	if b.totalSize != b.blockSize*b.blockCount {
		return nil, errDimensionMismatch
	}
	if b.totalSize > maxTotalSize {
		return nil, errTotalSizeTooLarge
	}

	return &Storage[K]{
		table:   newTable(b.totalSize, b.blockSize, b.blockCount),
		access:  b.access,
		persist: b.persist,
		trigger: b.trigger,
		crit:    b.crit,
		log:     b.log,
	}, nil
}
