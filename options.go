package memocache

import (
	"time"

	"go.uber.org/zap"
)

// Defaults applied when an option is omitted or out of range.
const (
	// DefaultBatchSize is the number of pending reorders a
	// [RecencyCache] accumulates before compacting its recency list.
	DefaultBatchSize = 10
	// DefaultSweepInterval is the period of the [ExpiringCache]
	// background sweep.
	DefaultSweepInterval = time.Minute
	// DefaultAnalysisInterval is the period of the [AdaptiveCache]
	// access-pattern analysis.
	DefaultAnalysisInterval = time.Minute
	// DefaultProbationaryRatio is the fraction of a
	// [SegmentedRecencyCache]'s capacity reserved for new entries.
	DefaultProbationaryRatio = 0.2
	// DefaultPrecision is the discretization step used by [Memoize].
	DefaultPrecision = 0.001

	minimumTTL = time.Millisecond
)

type (
	// Option adjusts construction parameters shared by the cache
	// constructors. Options irrelevant to a given policy are ignored.
	Option   func(*settings)
	settings struct {
		logger            *zap.Logger
		sweepInterval     time.Duration
		analysisInterval  time.Duration
		probationaryRatio float64
		batchSize         int
	}
)

func defaultSettings() settings {
	return settings{
		logger:            zap.NewNop(),
		sweepInterval:     DefaultSweepInterval,
		analysisInterval:  DefaultAnalysisInterval,
		probationaryRatio: DefaultProbationaryRatio,
		batchSize:         DefaultBatchSize,
	}
}

func parseOptions(options ...Option) settings {
	set := defaultSettings()
	for _, apply := range options {
		apply(&set)
	}
	return set
}

// WithLogger routes background-task diagnostics (sweeps, analysis)
// through logger. The default is a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(set *settings) {
		if logger != nil {
			set.logger = logger
		}
	}
}

// WithBatchSize sets the reorder batch threshold of a [RecencyCache].
// Values below 1 fall back to [DefaultBatchSize].
func WithBatchSize(size int) Option {
	return func(set *settings) {
		if size >= 1 {
			set.batchSize = size
		}
	}
}

// WithSweepInterval sets the period of the [ExpiringCache]
// background sweep. Non-positive values fall back to
// [DefaultSweepInterval].
func WithSweepInterval(interval time.Duration) Option {
	return func(set *settings) {
		if interval > 0 {
			set.sweepInterval = interval
		}
	}
}

// WithAnalysisInterval sets the period of the [AdaptiveCache]
// access-pattern analysis. Non-positive values fall back to
// [DefaultAnalysisInterval].
func WithAnalysisInterval(interval time.Duration) Option {
	return func(set *settings) {
		if interval > 0 {
			set.analysisInterval = interval
		}
	}
}

// WithProbationaryRatio sets the capacity fraction of the probationary
// segment of a [SegmentedRecencyCache]. Values outside (0,1) fall back
// to [DefaultProbationaryRatio].
func WithProbationaryRatio(ratio float64) Option {
	return func(set *settings) {
		if ratio > 0 && ratio < 1 {
			set.probationaryRatio = ratio
		}
	}
}
