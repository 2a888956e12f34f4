package conchash

import (
	"fmt"
	"sync/atomic"
)

// body is one generation of the table: a fixed-size open-addressed slot
// array plus the bookkeeping a resize swaps out wholesale.
//
// Only the writer ever mutates slots, count, iterHead, or retiredHead.
// hazardSnapshot is written once, by the writer, at publication time
// (reclaim.go's publishBody) and cleared entry-by-entry by the reclamation
// sweep; readers never touch it.
type body[K any, V any] struct {
	slots []slot[K, V]
	mask  uint64 // capacity-1; capacity is always a power of two (I6)
	salt  uint64

	count int64 // live-entry count; writer-owned, never read by readers

	// iterHead is the index of the most recently inserted live-or-tombstoned
	// slot in the iteration list, or nilLink if the list is empty. Published
	// with a release store so a concurrent walk's acquire-load sees every
	// slot reachable from it.
	iterHead atomic.Int64

	// retiredHead chains tombstoned slots for deferred key/value cleanup
	// when this body itself is reclaimed. Writer-owned only.
	retiredHead int64

	// hazardSnapshot[i] is non-zero while hazard slot i might still be
	// pinning this (now-retired) body. Sized to the table's configured
	// hazard-slot count at creation.
	hazardSnapshot []atomic.Uint32

	// nextRetired chains this body into the shared handle's retired-bodies
	// list once it has been superseded but not yet proven unreachable.
	nextRetired *body[K, V]
}

// newBody allocates a fresh generation at the given capacity (must already
// be a power of two) and salt. A capacity that overflows int (possible
// after enough retry-doubling in a pathological resize) or that the
// runtime otherwise refuses to allocate is reported as ErrAllocation rather
// than crashing the caller; the caller's existing body is left untouched in
// that case. Ordinary out-of-memory conditions are not always recoverable
// this way — the runtime can abort the process outright — but a negative
// or absurdly large length from capacity overflow panics cleanly and is
// caught here.
func newBody[K any, V any](capacity int, salt uint64, hazardSlots int) (b *body[K, V], err error) {
	defer func() {
		if r := recover(); r != nil {
			b = nil
			err = fmt.Errorf("%w: %v", ErrAllocation, r)
		}
	}()

	b = &body[K, V]{
		slots:          make([]slot[K, V], capacity),
		mask:           uint64(capacity - 1),
		salt:           salt,
		retiredHead:    nilLink,
		hazardSnapshot: make([]atomic.Uint32, hazardSlots),
	}
	b.iterHead.Store(nilLink)
	for i := range b.slots {
		b.slots[i].iterNext = nilLink
		b.slots[i].retiredNext = nilLink
	}
	return b, nil
}

func (b *body[K, V]) capacity() int {
	return int(b.mask) + 1
}

// pushIter links slot idx onto the front of the iteration list and
// publishes the new head with a release store. The slot's iterNext must
// already be set to the *previous* head value by the caller before this
// call, since that plain write must happen-before the release store for
// readers walking the list to observe it safely.
func (b *body[K, V]) pushIter(idx int) {
	b.iterHead.Store(int64(idx))
}

// pushRetired links slot idx onto the writer-only retired-entries list.
func (b *body[K, V]) pushRetired(idx int) {
	b.slots[idx].retiredNext = b.retiredHead
	b.retiredHead = int64(idx)
}
