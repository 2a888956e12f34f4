// Package conchash implements a single-writer, many-reader concurrent
// open-addressed hash table with hazard-epoch memory reclamation.
//
// Exactly one goroutine — the writer — may call Insert, Remove, or
// MaybeShrink. Any number of goroutines may concurrently call ApplyToElem
// or ForEach as readers, each under its own reader id in [0, H). Readers
// never block the writer and never take a lock; the writer never blocks on
// readers either. A resize builds a replacement table body off to the side
// and publishes it with a single atomic pointer store; the previous body is
// freed only once a hazard sweep proves no reader can still be observing it.
//
// Concurrent writes from more than one goroutine are undefined unless the
// optional writer-exclusion latch (WithWriterLatch) is enabled, in which
// case writes are merely serialized, not made lock-free.
package conchash
