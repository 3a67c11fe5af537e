package shadowreg

import (
	"sync"

	"github.com/google/uuid"
)

// uuidPersistNamespace is the fixed namespace UUID used to derive
// deterministic v5 persist keys from a block index, so the same block
// always maps to the same key across process restarts.
var uuidPersistNamespace = uuid.MustParse("6f6d8f1e-6b3b-4f6a-9c1d-9e6a6e7b9c2a")

// UUIDPersistPolicy maps a write range onto block-granular persist keys
// derived as deterministic version-5 UUIDs (keyed by block index within
// uuidPersistNamespace), for callers that want a stable, collision-resistant
// persist key without hand-rolling their own key scheme. It always requests
// a persist for any write that touches at least one block.
type UUIDPersistPolicy struct {
	BlockSize int
}

// PushPersistKeysForRange pushes one uuid.UUID per block touched by [addr,
// addr+length), in ascending block order.
func (p UUIDPersistPolicy) PushPersistKeysForRange(addr uint16, length int, push func(uuid.UUID)) bool {
	start := int(addr) / p.BlockSize
	end := (int(addr) + length - 1) / p.BlockSize
	for block := start; block <= end; block++ {
		push(blockPersistKey(block))
	}
	return true
}

// blockPersistKey derives the deterministic persist key for a block index.
func blockPersistKey(block int) uuid.UUID {
	name := [4]byte{byte(block >> 24), byte(block >> 16), byte(block >> 8), byte(block)}
	return uuid.NewSHA1(uuidPersistNamespace, name[:])
}

// UUIDPersistTrigger is an in-memory PersistTrigger[uuid.UUID]: it
// deduplicates pushed keys into a set and counts how many times
// RequestPersist has fired, standing in for the real NVM-flush path a
// caller would wire in its place.
type UUIDPersistTrigger struct {
	mu           sync.Mutex
	pending      map[uuid.UUID]struct{}
	lastFlushed  []uuid.UUID
	requestCount int
}

// NewUUIDPersistTrigger constructs an empty UUIDPersistTrigger.
func NewUUIDPersistTrigger() *UUIDPersistTrigger {
	return &UUIDPersistTrigger{pending: make(map[uuid.UUID]struct{})}
}

// PushKey records key as pending persistence, deduplicating repeats.
func (t *UUIDPersistTrigger) PushKey(key uuid.UUID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pending[key] = struct{}{}
}

// RequestPersist flushes the accumulated pending keys to t.lastFlushed (a
// real implementation would write them to non-volatile storage here) and
// clears the pending set, so a subsequent RequestPersist with no
// intervening PushKey re-persists nothing.
func (t *UUIDPersistTrigger) RequestPersist() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.requestCount++
	t.lastFlushed = t.lastFlushed[:0]
	for k := range t.pending {
		t.lastFlushed = append(t.lastFlushed, k)
	}
	t.pending = make(map[uuid.UUID]struct{})
}

// DrainPending returns and clears the set of keys flushed by the most
// recent RequestPersist call.
func (t *UUIDPersistTrigger) DrainPending() []uuid.UUID {
	t.mu.Lock()
	defer t.mu.Unlock()
	keys := t.lastFlushed
	t.lastFlushed = nil
	return keys
}

// RequestCount returns how many times RequestPersist has been called.
func (t *UUIDPersistTrigger) RequestCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.requestCount
}
