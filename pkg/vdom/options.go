package vdom

import (
	"fmt"
	"log/slog"
)

// Strategy selects the keyed list reconciliation algorithm.
type Strategy uint8

const (
	// StrategyLIS keeps the longest increasing run of reused nodes in place
	// and moves only the rest. This is the default.
	StrategyLIS Strategy = iota

	// StrategyForward makes a single forward pass and moves any reused node
	// found behind the furthest reused position seen so far.
	StrategyForward
)

// String returns the string representation of the Strategy.
func (s Strategy) String() string {
	switch s {
	case StrategyLIS:
		return "lis"
	case StrategyForward:
		return "forward"
	default:
		return "unknown"
	}
}

// ParseStrategy parses a strategy name as produced by String.
func ParseStrategy(name string) (Strategy, error) {
	switch name {
	case "", "lis":
		return StrategyLIS, nil
	case "forward":
		return StrategyForward, nil
	default:
		return 0, fmt.Errorf("unknown keyed strategy %q", name)
	}
}

// DefaultMaxDepth bounds tree depth during mount and patch.
const DefaultMaxDepth = 10000

// Options configures a Container.
type Options struct {
	// Strategy is the keyed list algorithm (default: StrategyLIS).
	Strategy Strategy

	// StrictKeys turns duplicate sibling keys into ErrDuplicateKey instead
	// of a logged warning.
	StrictKeys bool

	// MaxDepth is the deepest tree accepted (default: DefaultMaxDepth).
	MaxDepth int

	// Logger receives render summaries and key warnings.
	// If nil, slog.Default() is used.
	Logger *slog.Logger
}

// Option configures a Container.
type Option func(*Options)

// WithStrategy sets the keyed list algorithm.
func WithStrategy(s Strategy) Option {
	return func(o *Options) {
		o.Strategy = s
	}
}

// WithStrictKeys makes duplicate sibling keys fail the render.
func WithStrictKeys(strict bool) Option {
	return func(o *Options) {
		o.StrictKeys = strict
	}
}

// WithMaxDepth sets the deepest tree accepted.
func WithMaxDepth(depth int) Option {
	return func(o *Options) {
		o.MaxDepth = depth
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithOptions replaces all options at once, e.g. from a config file.
func WithOptions(opts Options) Option {
	return func(o *Options) {
		*o = opts
	}
}

// defaultOptions returns the default options.
func defaultOptions() Options {
	return Options{
		Strategy: StrategyLIS,
		MaxDepth: DefaultMaxDepth,
	}
}

func (o *Options) resolve() {
	if o.MaxDepth <= 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
}
