package conchash

import "log/slog"

// config holds the knobs New assembles before building a Table.
type config struct {
	initialCapacity int
	hazardSlots     int
	probeLimit      int
	ratios          tuningRatios
	logger          *slog.Logger
	writerLatch     bool
}

func defaultConfig() *config {
	return &config{
		initialCapacity: 128, // also the minimum valid capacity, a power of two
		hazardSlots:     8,   // default number of concurrent reader ids (H)
		probeLimit:      defaultProbeLimit,
		ratios: tuningRatios{
			growth: defaultGrowthRatio,
			rehash: defaultRehashRatio,
			shrink: defaultShrinkRatio,
		},
	}
}

// Option configures a Table at creation time.
type Option func(*config)

// WithInitialCapacity sets the table's starting capacity. Rounded up to the
// next power of two if it isn't one already, and raised to the 128-slot
// floor if it is smaller.
func WithInitialCapacity(n int) Option {
	return func(c *config) { c.initialCapacity = n }
}

// WithHazardSlots sets H, the number of concurrent reader ids the table
// supports (default 8).
func WithHazardSlots(n int) Option {
	return func(c *config) { c.hazardSlots = n }
}

// WithProbeLimit overrides the bounded probe-sequence length (default 2).
func WithProbeLimit(n int) Option {
	return func(c *config) { c.probeLimit = n }
}

// WithGrowthRatio overrides the resize-engine growth multiplier (default 2).
func WithGrowthRatio(n int) Option {
	return func(c *config) { c.ratios.growth = n }
}

// WithRehashRatio overrides the live-count-vs-capacity divisor below which a
// resize prefers a same-size rehash over growing (default 5).
func WithRehashRatio(n int) Option {
	return func(c *config) { c.ratios.rehash = n }
}

// WithShrinkRatio overrides the live-count-vs-capacity divisor below which
// MaybeShrink will actually shrink (default 10).
func WithShrinkRatio(n int) Option {
	return func(c *config) { c.ratios.shrink = n }
}

// WithLogger attaches a diagnostic logger for resize and reclamation
// events. Never called on the read path.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithWriterLatch enables the optional compare-and-exchange writer-
// exclusion latch. With it enabled, Insert/Remove/MaybeShrink may safely be
// called from more than one goroutine, serialized through the latch;
// without it, multi-writer use is undefined.
func WithWriterLatch() Option {
	return func(c *config) { c.writerLatch = true }
}

func nextPowerOfTwo(n int) int {
	if n < 1 {
		return 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
