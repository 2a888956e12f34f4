package conchash

// Resize policy ratios. Grown and rehashed bodies reuse the mixer with a
// fresh salt so an adversary who forced a collision-heavy insert sequence
// into the old body gets a different probe sequence in the new one.
const (
	defaultGrowthRatio = 2  // new cap = cap * growthRatio
	defaultRehashRatio = 5  // rehash (same cap, new salt) when live-count < cap/rehashRatio
	defaultShrinkRatio = 10 // shrink (cap/2) when live-count < cap/shrinkRatio
)

// minCapacity is the floor every table body's capacity must stay at or
// above, no matter how aggressively MaybeShrink is called. Not a tunable:
// a table that shrank itself down to one or two slots would spend its
// entire probe window on collisions.
const minCapacity = 128

// resizePlan is the {capacity, salt} pair the resize engine chooses before
// attempting a rebuild.
type resizePlan struct {
	capacity int
	salt     uint64
}

// planResize picks the next body's capacity and salt. allowShrink must be
// false when called from the insert-overflow path: shrinking can only be
// entered from an explicit maybe-shrink call after a remove, never from
// insert-overflow — shrinking in response to a probe failure would be
// self-defeating, since the table is about to receive one more entry than
// it currently holds.
func planResize(currentSalt uint64, liveCount, capacity int, allowShrink bool, ratios tuningRatios) resizePlan {
	newSalt := mix(currentSalt, 0)

	switch {
	case allowShrink && liveCount < capacity/ratios.shrink:
		target := capacity / 2
		if target < minCapacity {
			target = minCapacity
		}
		return resizePlan{capacity: target, salt: newSalt}
	case liveCount < capacity/ratios.rehash:
		return resizePlan{capacity: capacity, salt: newSalt}
	default:
		return resizePlan{capacity: capacity * ratios.growth, salt: newSalt}
	}
}

type tuningRatios struct {
	growth int
	rehash int
	shrink int
}

// rebuild constructs a fresh body at plan's capacity/salt and transplants
// every live entry from src's *iteration list* — cheaper than a full slot
// scan and it skips tombstones for free. If any re-insert exhausts its
// probe window, the half-built body is discarded, the candidate capacity
// doubles, the salt is re-mixed, and the whole transplant restarts; this
// terminates in O(log capacity) retries since each retry at least doubles
// capacity. If the candidate body itself cannot be allocated, the src body
// is left untouched and ErrAllocation is returned.
func rebuild[K any, V any](src *body[K, V], plan resizePlan, eq func(K, K) bool, limit int, hazardSlots int) (*body[K, V], error) {
	capacity := plan.capacity
	salt := plan.salt

	for {
		dst, err := newBody[K, V](capacity, salt, hazardSlots)
		if err != nil {
			return nil, err
		}
		ok := transplant(src, dst, eq, limit)
		if ok {
			return dst, nil
		}
		capacity *= 2
		salt = mix(salt, 0)
	}
}

// transplant walks src's iteration list and re-insert-probes every live
// entry into dst. Returns false if any re-insert exhausts dst's probe
// window, signalling the caller should retry at a larger capacity.
func transplant[K any, V any](src *body[K, V], dst *body[K, V], eq func(K, K) bool, limit int) bool {
	dst.count = 0
	idx := src.iterHead.Load()
	for idx != nilLink {
		s := &src.slots[idx]
		tag := s.tag.Load()
		if tag > tombTag {
			at, outcome := insertProbe(dst, tag, s.key, eq, limit)
			if outcome != probeEmpty {
				// probeExists cannot happen: every key in src's iteration
				// list is already unique by construction. Only probeFull
				// can occur here, and it means this capacity is too small.
				return false
			}
			target := &dst.slots[at]
			target.key = s.key
			target.value = s.value
			target.iterNext = dst.iterHead.Load()
			target.tag.Store(tag)
			dst.pushIter(at)
			dst.count++
		}
		idx = s.iterNext
	}
	return true
}
