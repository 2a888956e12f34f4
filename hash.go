package conchash

import "github.com/cespare/xxhash/v2"

// Hash and equality functions are caller-supplied collaborators — the core
// never assumes a particular key type. These two helpers are a convenience
// for the common case, delegated to an established avalanche hash (xxhash)
// rather than a hand-rolled one, since the table's own mixer (mixer.go)
// re-avalanches and clamps whatever comes out regardless.

// DefaultStringHash hashes a string with xxhash64. Suitable as the hashFn
// argument to New for string-keyed tables.
func DefaultStringHash(s string) uint64 {
	return xxhash.Sum64String(s)
}

// DefaultBytesHash hashes a byte slice with xxhash64. Suitable as the
// hashFn argument to New for []byte-keyed tables (callers must supply
// bytes.Equal as the matching eqFn).
func DefaultBytesHash(b []byte) uint64 {
	return xxhash.Sum64(b)
}
