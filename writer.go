package conchash

import (
	"runtime"
)

// withWriterLatch serializes callers through the optional CAS spin latch
// when WithWriterLatch was set at creation; otherwise it is a no-op, and
// concurrent writer calls are undefined.
func (t *Table[K, V]) withWriterLatch(fn func() error) error {
	if !t.cfg.writerLatch {
		return fn()
	}
	for !t.latch.CompareAndSwap(false, true) {
		runtime.Gosched()
	}
	defer t.latch.Store(false)
	return fn()
}

// Insert adds key/value if key is not already present. A duplicate insert
// is silently ignored, not an error: there is no value update on a
// duplicate key. Writer-only (see withWriterLatch).
func (t *Table[K, V]) Insert(key K, value V) error {
	return t.withWriterLatch(func() error {
		if t.closed.Load() {
			return ErrClosed
		}
		h := mix(t.hashFn(key), 0)
		b := t.current.Load()

		for {
			idx, outcome := insertProbe(b, h, key, t.eqFn, t.cfg.probeLimit)
			switch outcome {
			case probeExists:
				return nil
			case probeEmpty:
				t.populate(b, idx, h, key, value)
				if b != t.current.Load() {
					t.publishBody(b)
				}
				return nil
			case probeFull:
				plan := planResize(b.salt, int(b.count), b.capacity(), false, t.cfg.ratios)
				next, err := rebuild(b, plan, t.eqFn, t.cfg.probeLimit, t.hazards.size())
				if err != nil {
					return err
				}
				t.log().Debug("conchash: resized on insert overflow",
					"old_capacity", b.capacity(), "new_capacity", next.capacity())
				b = next
			}
		}
	})
}

// populate writes a live entry into slot idx of b and links it into b's
// iteration list, in the store order concurrent readers depend on:
// value/key/iterNext first (plain stores, writer-only so far), then the
// tag published with a release store (makes the entry visible to
// lookup-probe), then the iteration-list head published with a second
// release store (makes the entry visible to ForEach).
func (t *Table[K, V]) populate(b *body[K, V], idx int, h uint64, key K, value V) {
	s := &b.slots[idx]
	s.value = value
	s.key = key
	s.iterNext = b.iterHead.Load()

	s.tag.Store(h) // release: publishes this slot to lookup-probe

	b.pushIter(idx) // release: publishes this slot to for_each
	b.count++
}

// Remove looks up key and, if present, tombstones its slot and returns its
// value with ok=true. Removing an absent key is not an error: it returns
// the zero value and ok=false. Writer-only.
//
// The tag is set to TOMB with the same atomic store populate uses, but no
// ordering is relied on here: a reader racing on this slot will simply
// observe the entry as absent, which is consistent with removed — there is
// nothing downstream of the tombstone write a reader needs ordered against
// it.
func (t *Table[K, V]) Remove(key K) (value V, ok bool) {
	var zero V
	err := t.withWriterLatch(func() error {
		if t.closed.Load() {
			return ErrClosed
		}
		b := t.current.Load()
		h := mix(t.hashFn(key), 0)
		idx, found := lookupProbe(b, h, key, t.eqFn, t.cfg.probeLimit)
		if !found {
			return nil
		}
		s := &b.slots[idx]
		value = s.value
		ok = true
		s.tag.Store(tombTag)
		b.pushRetired(idx)
		b.count--
		return nil
	})
	if err != nil {
		return zero, false
	}
	return value, ok
}

// MaybeShrink resizes the table down to half its current capacity if the
// live-entry count has fallen below capacity/shrinkRatio, and is a no-op
// otherwise. Unlike insert-overflow resizes, this is the only path that may
// choose to shrink. Writer-only.
func (t *Table[K, V]) MaybeShrink() error {
	return t.withWriterLatch(func() error {
		if t.closed.Load() {
			return ErrClosed
		}
		b := t.current.Load()
		plan := planResize(b.salt, int(b.count), b.capacity(), true, t.cfg.ratios)
		if plan.capacity >= b.capacity() {
			return nil // shrink condition not met, or already at the capacity floor
		}
		next, err := rebuild(b, plan, t.eqFn, t.cfg.probeLimit, t.hazards.size())
		if err != nil {
			return err
		}
		t.log().Debug("conchash: shrank table", "old_capacity", b.capacity(), "new_capacity", next.capacity())
		t.publishBody(next)
		return nil
	})
}

// Clear removes every entry by publishing a fresh, empty body at the
// current capacity — the simplest safe option, reusing the existing
// hazard-reclamation path rather than mutating the live body out from under
// readers.
func (t *Table[K, V]) Clear() error {
	return t.withWriterLatch(func() error {
		if t.closed.Load() {
			return ErrClosed
		}
		b := t.current.Load()
		salt := mix(b.salt, 0)
		next, err := newBody[K, V](b.capacity(), salt, t.hazards.size())
		if err != nil {
			return err
		}
		t.publishBody(next)
		return nil
	})
}
