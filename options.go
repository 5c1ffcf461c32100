package animalcache

import (
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/hupe1980/animalcache/model"
)

const (
	// DefaultResultCacheSize is the number of substring results kept by default.
	DefaultResultCacheSize = 256
)

type options struct {
	logger           *Logger
	metricsCollector MetricsCollector
	projection       model.Projection
	buildTimeout     time.Duration
	seed             uint64
	seeded           bool
	replay           bool
	rebuildLimit     rate.Limit
	rebuildBurst     int
	autoRebuild      time.Duration
	resultCacheSize  int
}

func defaultOptions() options {
	return options{
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
		projection:       model.DefaultProjection,
		replay:           true,
		rebuildLimit:     rate.Inf,
		resultCacheSize:  DefaultResultCacheSize,
	}
}

// Option configures a Cache.
type Option func(*options)

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// WithLogger sets the logger. nil restores the no-op logger.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithLogLevel installs a text logger on stderr at the given level.
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithMetricsCollector sets the metrics sink. nil disables metrics.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithProjection sets the fields requested from the source on each build.
// The identifier, category and name fields are always requested. Defaults to
// model.DefaultProjection.
func WithProjection(p model.Projection) Option {
	return func(o *options) {
		o.projection = p
	}
}

// WithBuildTimeout bounds the snapshot fetch and index construction of each
// build. A timed-out first build leaves the cache uninitialized.
func WithBuildTimeout(d time.Duration) Option {
	return func(o *options) {
		o.buildTimeout = d
	}
}

// WithSeed makes the randomized insertion order of the identifier index
// reproducible. Each build derives its permutation from the seed and the build
// generation.
func WithSeed(seed uint64) Option {
	return func(o *options) {
		o.seed = seed
		o.seeded = true
	}
}

// WithMutationReplay controls what happens to lifecycle hooks that arrive while
// a build is in flight. When enabled (the default) they are queued and replayed
// onto the new snapshot after the swap. When disabled they are dropped, and a
// change that reached the backing store after the snapshot fetch is lost until
// the next rebuild.
func WithMutationReplay(enabled bool) Option {
	return func(o *options) {
		o.replay = enabled
	}
}

// WithRebuildLimit throttles Rebuild to the given rate. Callers over the limit
// wait for a token or until their context is done.
func WithRebuildLimit(limit rate.Limit, burst int) Option {
	return func(o *options) {
		o.rebuildLimit = limit
		o.rebuildBurst = max(burst, 1)
	}
}

// WithAutoRebuild rebuilds the cache in the background every interval, picking
// up bulk changes that bypass the lifecycle hooks. Failures are logged and the
// previous snapshot stays in service. Close stops the refresher.
func WithAutoRebuild(interval time.Duration) Option {
	return func(o *options) {
		o.autoRebuild = interval
	}
}

// WithResultCache sets the number of substring search results kept in the LRU.
// Zero disables result caching.
func WithResultCache(size int) Option {
	return func(o *options) {
		o.resultCacheSize = max(size, 0)
	}
}
