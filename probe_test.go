package conchash

import (
	"errors"
	"testing"
)

func intEq(a, b int) bool { return a == b }

func mustNewBody(t *testing.T, capacity int, salt uint64, hazardSlots int) *body[int, string] {
	t.Helper()
	b, err := newBody[int, string](capacity, salt, hazardSlots)
	if err != nil {
		t.Fatalf("newBody: %v", err)
	}
	return b
}

func TestInsertProbeEmptyThenExists(t *testing.T) {
	b := mustNewBody(t, 8, 0, 1)

	idx, outcome := insertProbe(b, mix(1, b.salt), 1, intEq, defaultProbeLimit)
	if outcome != probeEmpty {
		t.Fatalf("first insert of a fresh table should land on EMPTY, got %v", outcome)
	}
	b.slots[idx].tag.Store(mix(1, b.salt))
	b.slots[idx].key = 1

	_, outcome = insertProbe(b, mix(1, b.salt), 1, intEq, defaultProbeLimit)
	if outcome != probeExists {
		t.Fatalf("inserting the same key again should report EXISTS, got %v", outcome)
	}
}

func TestInsertProbeFullWithoutEmptyOrTomb(t *testing.T) {
	b := mustNewBody(t, 4, 0, 1)
	h := mix(5, b.salt)

	// Fill every slot the probe sequence would visit with distinct live
	// entries so the probe window exhausts without ever seeing EMPTY.
	lh := h
	for range defaultProbeLimit {
		at := lh & b.mask
		b.slots[at].tag.Store(lh | 2) // arbitrary non-reserved tag
		b.slots[at].key = int(at) + 1000
		lh = nextProbeHash(lh, b.salt)
	}

	_, outcome := insertProbe(b, h, 5, intEq, defaultProbeLimit)
	if outcome != probeFull {
		t.Fatalf("exhausted probe window with no EMPTY should report FULL, got %v", outcome)
	}
}

func TestInsertProbeTombstoneDoesNotBlockFullVerdict(t *testing.T) {
	// Seeing a TOMB but no EMPTY is still FULL — tombstones are never
	// reused in place.
	b := mustNewBody(t, 4, 0, 1)
	h := mix(7, b.salt)

	lh := h
	for range defaultProbeLimit {
		at := lh & b.mask
		b.slots[at].tag.Store(tombTag)
		lh = nextProbeHash(lh, b.salt)
	}

	_, outcome := insertProbe(b, h, 7, intEq, defaultProbeLimit)
	if outcome != probeFull {
		t.Fatalf("all-tombstone probe window should still report FULL, got %v", outcome)
	}
}

func TestLookupProbeSkipsTombstones(t *testing.T) {
	b := mustNewBody(t, 4, 0, 1)
	h := mix(9, b.salt)

	first := h & b.mask
	b.slots[first].tag.Store(tombTag) // occupies probe step 0 with a tombstone

	second := nextProbeHash(h, b.salt) & b.mask
	liveHash := nextProbeHash(h, b.salt)
	if liveHash < 2 {
		liveHash = 2
	}
	b.slots[second].tag.Store(liveHash)
	b.slots[second].key = 9

	idx, found := lookupProbe(b, h, 9, intEq, defaultProbeLimit)
	if !found || idx != int(second) {
		t.Fatalf("lookup should continue past a TOMB to find the live entry; found=%v idx=%d want=%d", found, idx, second)
	}
}

func TestNewBodyReportsAllocationFailure(t *testing.T) {
	_, err := newBody[int, string](-1, 0, 1)
	if !errors.Is(err, ErrAllocation) {
		t.Fatalf("newBody with a negative capacity: err = %v; want ErrAllocation", err)
	}
}

func TestLookupProbeNeverReturnsReservedTagSlot(t *testing.T) {
	b := mustNewBody(t, 4, 0, 1)
	// Entire table is EMPTY.
	if _, found := lookupProbe(b, mix(3, b.salt), 3, intEq, defaultProbeLimit); found {
		t.Fatal("lookup on an empty table must never report found")
	}
}
