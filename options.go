package lsmgo

import (
	"log/slog"

	"github.com/hupe1980/lsmgo/memtable"
)

// Defaults mirror the classic LSM sizing rules: a handful of runs per level
// before compaction, and a tenfold capacity step between levels.
const (
	DefaultMaxLevels           = 7
	DefaultLevelSizeMultiplier = 10
	DefaultBloomFilterSize     = 1024
	DefaultCompactionThreshold = 4
)

type options struct {
	memtableSize        int
	maxLevels           int
	levelSizeMultiplier int
	bloomFilterSize     int
	compactionThreshold int
	strategy            CompactionStrategy
	metricsCollector    MetricsCollector
	logger              *Logger
}

// Option configures Tree construction.
type Option func(*options)

// WithMemtableSize sets the number of write operations a memtable absorbs
// before a flush is forced. Must be at least 1.
func WithMemtableSize(n int) Option {
	return func(o *options) {
		o.memtableSize = n
	}
}

// WithMaxLevels sets the depth of the level hierarchy. Levels exist for the
// tree's lifetime; the hierarchy is not grown on demand. Must be at least 1.
func WithMaxLevels(n int) Option {
	return func(o *options) {
		o.maxLevels = n
	}
}

// WithLevelSizeMultiplier sets the per-level capacity growth factor used by
// size-based strategies: level L holds memtableSize * multiplier^L entries
// before tiered compaction relocates it. Must be at least 2.
func WithLevelSizeMultiplier(n int) Option {
	return func(o *options) {
		o.levelSizeMultiplier = n
	}
}

// WithBloomFilterSize sets the byte budget for each SSTable's Bloom filter.
// Budgets below one 64-byte block are clamped up by the filter itself.
func WithBloomFilterSize(n int) Option {
	return func(o *options) {
		o.bloomFilterSize = n
	}
}

// WithCompactionThreshold sets the SSTable count per level that triggers
// compaction. Must be at least 2.
func WithCompactionThreshold(n int) Option {
	return func(o *options) {
		o.compactionThreshold = n
	}
}

// WithCompactionStrategy selects the compaction strategy. The strategy is
// fixed at construction; it cannot change at runtime.
func WithCompactionStrategy(s CompactionStrategy) Option {
	return func(o *options) {
		o.strategy = s
	}
}

// WithMetricsCollector configures a metrics collector for monitoring
// operations. Pass nil to disable metrics collection.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for flush and compaction
// activity. Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) (options, error) {
	o := options{
		memtableSize:        memtable.DefaultMaxSize,
		maxLevels:           DefaultMaxLevels,
		levelSizeMultiplier: DefaultLevelSizeMultiplier,
		bloomFilterSize:     DefaultBloomFilterSize,
		compactionThreshold: DefaultCompactionThreshold,
		strategy:            Leveled,
		metricsCollector:    NoopMetricsCollector{},
		logger:              NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}

	switch {
	case o.memtableSize < 1:
		return o, &ErrInvalidConfig{Field: "memtableSize", Value: o.memtableSize}
	case o.maxLevels < 1:
		return o, &ErrInvalidConfig{Field: "maxLevels", Value: o.maxLevels}
	case o.levelSizeMultiplier < 2:
		return o, &ErrInvalidConfig{Field: "levelSizeMultiplier", Value: o.levelSizeMultiplier}
	case o.bloomFilterSize < 1:
		return o, &ErrInvalidConfig{Field: "bloomFilterSize", Value: o.bloomFilterSize}
	case o.compactionThreshold < 2:
		return o, &ErrInvalidConfig{Field: "compactionThreshold", Value: o.compactionThreshold}
	case o.strategy < Leveled || o.strategy > Tiered:
		return o, &ErrInvalidConfig{Field: "strategy", Value: o.strategy}
	}
	return o, nil
}
