package conchash

import "errors"

// Sentinel errors for the core's error kinds. Duplicate insert and
// remove-of-absent-key are not treated as errors at all, and are reported
// through ordinary return values instead.
var (
	// ErrReaderIDOutOfRange is returned when a reader id passed to
	// ApplyToElem or ForEach falls outside [0, H). This is
	// a programming error the caller is responsible for bounds-checking; it
	// is surfaced as an error rather than panicking, consistent with this
	// package's preference for returning wrapped errors over panicking on
	// caller mistakes.
	ErrReaderIDOutOfRange = errors.New("conchash: reader id out of range")

	// ErrAllocation is returned when a resize cannot allocate a new body.
	// On this error, table state remains fully consistent: the previous
	// body is still current.
	ErrAllocation = errors.New("conchash: allocation failure")

	// ErrNoFreeReaderID is returned by AcquireReaderID when every reader id
	// is currently checked out.
	ErrNoFreeReaderID = errors.New("conchash: no free reader id")

	// ErrClosed is returned by Insert, MaybeShrink and Clear on a Table whose
	// Close method has already run. Remove has no error result; on a closed
	// Table it returns the zero value and ok=false.
	ErrClosed = errors.New("conchash: table closed")
)
