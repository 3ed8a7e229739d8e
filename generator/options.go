package generator

import (
	"io"
	"log/slog"
	"math/rand/v2"
	"time"
)

const (
	// DefaultRetryBudget is the number of attempts an expression with an
	// exclusion gets before generation fails.
	DefaultRetryBudget = 100
	// DefaultMaxDepth bounds nested variable and group expansion.
	DefaultMaxDepth = 256
)

// Options configures a Generator.
type Options struct {
	retryBudget int
	maxDepth    int
	rand        *rand.Rand
	logger      *slog.Logger
}

// Option configures Options.
type Option func(*Options)

// WithRetryBudget sets the attempts allowed per excluding expression.
// Values below 1 select DefaultRetryBudget.
func WithRetryBudget(n int) Option {
	return func(opts *Options) {
		opts.retryBudget = n
	}
}

// WithMaxDepth sets the expansion depth limit. Values below 1 select
// DefaultMaxDepth.
func WithMaxDepth(n int) Option {
	return func(opts *Options) {
		opts.maxDepth = n
	}
}

// WithRand sets the random source. The generator takes ownership of r.
func WithRand(r *rand.Rand) Option {
	return func(opts *Options) {
		opts.rand = r
	}
}

// WithSeed seeds a private PCG source, making output reproducible.
func WithSeed(seed uint64) Option {
	return func(opts *Options) {
		opts.rand = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// WithLogger sets the logger for retry diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(opts *Options) {
		opts.logger = logger
	}
}

func newOptions(opts []Option) *Options {
	rv := &Options{}
	for _, o := range opts {
		o(rv)
	}

	if rv.retryBudget < 1 {
		rv.retryBudget = DefaultRetryBudget
	}
	if rv.maxDepth < 1 {
		rv.maxDepth = DefaultMaxDepth
	}
	if rv.rand == nil {
		now := uint64(time.Now().UnixNano())
		rv.rand = rand.New(rand.NewPCG(now, now>>1))
	}
	if rv.logger == nil {
		rv.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return rv
}
