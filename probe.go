package conchash

// defaultProbeLimit bounds how many candidate slots insert-probe and
// lookup-probe examine before giving up. Two is the sweet spot: higher
// values waste work under light load, lower loses density.
const defaultProbeLimit = 2

// probeOutcome is the insert-probe decision.
type probeOutcome int

const (
	probeEmpty probeOutcome = iota // landed on an EMPTY slot: safe insert target
	probeExists                    // a live slot already holds an equal key
	probeFull                      // exhausted the probe window with no decision
)

// insertProbe walks up to limit candidate slots starting from h, returning
// the slot index to populate on probeEmpty, or the outcome alone otherwise.
//
// Tie-break: the first EMPTY along the sequence wins over any earlier TOMB.
// If the probe exhausts without ever seeing an EMPTY — even if it saw a
// TOMB — the outcome is probeFull: a tombstone is never reused in place.
// That simplifies the reader contract (lookup-probe never needs to race the
// writer's reuse of a slot it is currently reading) at the cost of relying
// on the next rehash to actually reclaim tombstones.
func insertProbe[K any, V any](b *body[K, V], h uint64, key K, eq func(K, K) bool, limit int) (idx int, outcome probeOutcome) {
	lh := h
	for range limit {
		at := lh & b.mask
		s := &b.slots[at]
		tag := s.tag.Load()

		switch {
		case tag == emptyTag:
			return int(at), probeEmpty
		case tag != tombTag && eq(s.key, key):
			return 0, probeExists
		}

		lh = nextProbeHash(lh, b.salt)
	}
	return 0, probeFull
}

// lookupProbe walks the same sequence insertProbe would for the same key
// and body, returning the slot index of a live, key-equal match. It must
// continue past TOMB slots — they only occlude the single probe step that
// landed on them, not later steps in the chain — and stops only once the
// probe window is exhausted.
func lookupProbe[K any, V any](b *body[K, V], h uint64, key K, eq func(K, K) bool, limit int) (idx int, found bool) {
	lh := h
	for range limit {
		at := lh & b.mask
		s := &b.slots[at]
		tag := s.tag.Load()

		if tag > tombTag && eq(s.key, key) {
			return int(at), true
		}

		lh = nextProbeHash(lh, b.salt)
	}
	return 0, false
}
