package conchash

import (
	"fmt"
	"log/slog"
	"math/bits"
	"sync/atomic"
)

// Table is the shared handle every writer and reader operation goes
// through: a pointer to the current table body, the writer-owned retired-
// bodies list, the hazard registry, the caller's hash/equality callbacks,
// and the optional writer-exclusion latch.
//
// Exactly one goroutine may act as the writer (Insert, Remove, MaybeShrink,
// Clear, TryCleanMem, DrainRetired). WithWriterLatch serializes Insert,
// Remove, MaybeShrink and Clear across goroutines; TryCleanMem and
// DrainRetired do not take the latch. Any number of
// goroutines may act as readers (ApplyToElem, ForEach) concurrently with
// the writer and each other, each under its own id in [0, H).
type Table[K comparable, V any] struct {
	current atomic.Pointer[body[K, V]]

	// retired is the writer-owned head of the retired-bodies list. Only
	// ever touched from reclaim.go: by publishBody from the latched writer
	// operations, and by TryCleanMem/DrainRetired, which take no latch.
	retired *body[K, V]

	hazards *hazardRegistry

	hashFn func(K) uint64
	eqFn   func(K, K) bool

	cfg config

	latch   atomic.Bool   // CAS writer-exclusion spin latch (optional)
	readers atomic.Uint32 // bitmask of checked-out reader ids, for AcquireReaderID/ReleaseReaderID

	closed atomic.Bool
}

// New creates a table. hashFn must be deterministic and pure; eqFn must
// agree with hashFn (equal keys must hash equal). Both are external
// collaborators — the core never inspects key internals beyond calling
// these two callbacks.
func New[K comparable, V any](hashFn func(K) uint64, eqFn func(K, K) bool, opts ...Option) (*Table[K, V], error) {
	if hashFn == nil {
		return nil, fmt.Errorf("conchash: hashFn must not be nil")
	}
	if eqFn == nil {
		return nil, fmt.Errorf("conchash: eqFn must not be nil")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.hazardSlots <= 0 {
		return nil, fmt.Errorf("conchash: hazard slot count must be positive")
	}
	if cfg.hazardSlots > 32 {
		// AcquireReaderID's free-list is a uint32 bitmask, so New accepts at
		// most 32 hazard slots; more are rejected even for callers that
		// pick ids themselves.
		return nil, fmt.Errorf("conchash: hazard slot count must be <= 32 (AcquireReaderID/ReleaseReaderID use a 32-bit free list)")
	}
	if cfg.probeLimit <= 0 {
		return nil, fmt.Errorf("conchash: probe limit must be positive")
	}

	capacity := nextPowerOfTwo(cfg.initialCapacity)
	if capacity < minCapacity {
		capacity = minCapacity
	}

	t := &Table[K, V]{
		hazards: newHazardRegistry(cfg.hazardSlots),
		hashFn:  hashFn,
		eqFn:    eqFn,
		cfg:     *cfg,
	}

	initialSalt := mix(uint64(capacity)*uint64(cfg.hazardSlots), 0)
	b, err := newBody[K, V](capacity, initialSalt, cfg.hazardSlots)
	if err != nil {
		return nil, err
	}
	t.current.Store(b)

	return t, nil
}

func (t *Table[K, V]) log() *slog.Logger {
	if t.cfg.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return t.cfg.logger
}

// Size returns the current table's capacity: the slot-array size, not the
// live-entry count.
func (t *Table[K, V]) Size() int {
	return t.current.Load().capacity()
}

// Close releases the table. Any retired bodies still pinned by a lagging
// reader are simply abandoned to the garbage collector rather than freed
// explicitly.
func (t *Table[K, V]) Close() error {
	t.closed.Store(true)
	return nil
}

// AcquireReaderID checks out an unused reader id in [0, H) and returns it,
// or ErrNoFreeReaderID if every id is currently checked out. Purely a
// convenience on top of the explicit-id contract; callers may always choose
// ids themselves instead.
func (t *Table[K, V]) AcquireReaderID() (int, error) {
	full := allReaderBits(t.hazards.size())
	for {
		cur := t.readers.Load()
		if cur == full {
			return 0, ErrNoFreeReaderID
		}
		id := bits.TrailingZeros32(^cur & full)
		bit := uint32(1) << uint(id)
		if t.readers.CompareAndSwap(cur, cur|bit) {
			return id, nil
		}
		// lost the race with another acquirer; reread and retry
	}
}

// ReleaseReaderID returns a previously acquired reader id to the free list.
// Passing an id not currently checked out, or out of range, is a no-op.
func (t *Table[K, V]) ReleaseReaderID(id int) {
	if id < 0 || id >= t.hazards.size() {
		return
	}
	bit := uint32(1) << uint(id)
	for {
		cur := t.readers.Load()
		if t.readers.CompareAndSwap(cur, cur&^bit) {
			return
		}
	}
}

func allReaderBits(n int) uint32 {
	if n >= 32 {
		return ^uint32(0)
	}
	return (uint32(1) << uint(n)) - 1
}
