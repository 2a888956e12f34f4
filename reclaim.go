package conchash

import (
	"context"
	"fmt"
	"runtime"
)

// publishBody stores the new current pointer, snapshots the hazard
// registry into old's hazardSnapshot, and either frees old immediately
// (nothing pinning it) or prepends it to the shared handle's retired list.
func (t *Table[K, V]) publishBody(next *body[K, V]) {
	old := t.current.Load()
	storeRelease(&t.current, next)

	anyPinned := t.hazards.snapshotInto(old.hazardSnapshot)

	// Sweep the existing retired list first, before deciding old's own
	// fate, so a long-idle retired list doesn't grow without bound just
	// because the writer keeps resizing.
	t.sweepRetiredLocked()

	if !anyPinned {
		return // nothing to do: old is simply dropped, GC reclaims it
	}
	old.nextRetired = t.retired
	t.retired = old
}

// sweepRetiredLocked walks the writer-owned retired-bodies list, freeing
// every body whose hazard snapshot has fully settled to zero. Writer-only;
// no synchronization needed beyond what already protects t.retired.
func (t *Table[K, V]) sweepRetiredLocked() {
	var head *body[K, V]
	cur := t.retired
	for cur != nil {
		next := cur.nextRetired
		if t.hazards.clearSettled(cur.hazardSnapshot) {
			cur = next
			continue
		}
		cur.nextRetired = head
		head = cur
		cur = next
	}
	// head now holds, in reverse order, every body still pinned; order
	// doesn't matter for a singly-linked free-standing list.
	t.retired = head
}

// TryCleanMem performs one best-effort reclamation sweep over the retired
// list, freeing whatever has settled and leaving the rest for next time.
// Writer-only.
func (t *Table[K, V]) TryCleanMem() {
	t.sweepRetiredLocked()
}

// DrainRetired repeatedly sweeps the retired-bodies list until it is empty
// or ctx is cancelled, yielding the processor between passes. Bounded by
// ctx rather than spinning forever, since a reader stuck inside a callback
// must not be able to hang a caller that wants to wait for reclamation.
func (t *Table[K, V]) DrainRetired(ctx context.Context) error {
	for t.retired != nil {
		select {
		case <-ctx.Done():
			return fmt.Errorf("drain retired bodies: %w", ctx.Err())
		default:
		}
		t.sweepRetiredLocked()
		if t.retired != nil {
			runtime.Gosched()
		}
	}
	return nil
}
