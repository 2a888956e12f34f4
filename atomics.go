package conchash

import "sync/atomic"

// This file is a typed façade over sync/atomic: named load/store/fetch-add/
// fetch-sub/fence operations with the ordering each call site relies on
// spelled out in its name. Go's memory model (as of Go 1.19) defines
// sync/atomic operations to behave as if sequentially consistent, which is
// strictly stronger than the acquire/release pairing this package actually
// needs — so every ordering below is satisfied by a plain sync/atomic call.
// The wrappers exist so the calling code documents *which* ordering
// guarantee it is actually relying on, not because Go needs separate
// primitives per ordering the way hand-rolled C11 builtins do.

// loadAcquire reads v. Named for the call sites that pair it with a
// corresponding releaseStore elsewhere to establish happens-before.
func loadAcquire[T any](v *atomic.Pointer[T]) *T {
	return v.Load()
}

// storeRelease writes v, publishing everything the calling goroutine did
// before the call to any goroutine whose subsequent loadAcquire observes it.
func storeRelease[T any](v *atomic.Pointer[T], val *T) {
	v.Store(val)
}

// fetchAddAcquire increments a hazard counter on the acquire path (reader
// registering interest in the current table body).
func fetchAddAcquire(v *atomic.Uint32, delta uint32) uint32 {
	return v.Add(delta)
}

// fetchSubRelease decrements a hazard counter on the release path (reader
// finished observing the table body it had pinned).
func fetchSubRelease(v *atomic.Uint32, delta uint32) uint32 {
	return v.Add(^(delta - 1)) // two's-complement subtraction via Add
}

// fullFence is the full sequentially-consistent barrier needed between the
// writer's publication store and its hazard-counter snapshot loads, so that
// no reader whose acquire-increment has not yet become visible can be
// missed. Go's sync/atomic operations already behave as sequentially
// consistent with respect to each other (Go memory model, "Atomic
// Operations" — any pair of atomic reads/writes of the same word is totally
// ordered, and a Store happens-before a Load that observes it regardless of
// declared ordering granularity); there is no separate fence instruction to
// call, so this is an explicit no-op marking the program point the barrier
// occupies.
func fullFence() {}
