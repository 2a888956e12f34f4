package conchash

// mix is a 64-to-64 finalizer-style avalanche mixer, salted per table body.
// The xor-shift / odd-multiplication sequence is MurmurHash3's finalizer.
//
// Contract: deterministic, good avalanche on the low bits (used to index the
// slot array), and output >= 2 — slot tags 0 and 1 are reserved (EMPTY,
// TOMB), so any mix that lands on them is nudged up rather than silently
// colliding with a sentinel.
func mix(h, salt uint64) uint64 {
	h += salt
	h ^= h >> 33
	h *= 0xff51afd7ed558ccd
	h ^= h >> 33
	h *= 0xc4ceb9fe1a85ec53
	h ^= h >> 33

	if h < 2 {
		h += 2
	}
	return h
}

// nextProbeHash derives the next candidate hash in a probe chain from the
// previous one, reusing the same mixer that produced the initial hash. Each
// body's salt perturbs every step after the first, so two bodies created
// with different salts (e.g. after a pure rehash) send the same key to
// different slots from the second probe step on; the first step comes from
// the unsalted starting hash and is the same in both.
func nextProbeHash(h, salt uint64) uint64 {
	return mix(h, salt)
}
