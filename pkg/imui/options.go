package imui

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vango-dev/imui/pkg/metrics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const (
	// DefaultMaxDepth is the default reconciliation stack capacity,
	// counting the root frame.
	DefaultMaxDepth = 32

	// DefaultIndexThreshold is the previous-child count at which
	// StrategyAuto switches a frame to an ID index.
	DefaultIndexThreshold = 64

	tracerName = "github.com/vango-dev/imui"
)

// Strategy selects how a frame looks up previous children by ID.
type Strategy uint8

const (
	// StrategyScan walks the remaining previous children in order and
	// unlinks the first match. Children walked past stay queued and are
	// destroyed when the frame closes if nothing claims them, so siblings
	// may be reordered freely between renders.
	StrategyScan Strategy = iota

	// StrategyEvict walks like StrategyScan but destroys every child it
	// walks past before the match. Reordered siblings are recreated.
	StrategyEvict

	// StrategyIndex builds an ID index when the frame opens. Lookups are
	// O(1); leftovers are destroyed when the frame closes.
	StrategyIndex

	// StrategyAuto uses StrategyScan for small containers and
	// StrategyIndex once a container had IndexThreshold or more children.
	StrategyAuto
)

// String returns the configuration name of the Strategy.
func (s Strategy) String() string {
	switch s {
	case StrategyScan:
		return "scan"
	case StrategyEvict:
		return "evict"
	case StrategyIndex:
		return "index"
	case StrategyAuto:
		return "auto"
	default:
		return "unknown"
	}
}

// ParseStrategy parses a configuration name into a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "", "scan":
		return StrategyScan, nil
	case "evict":
		return StrategyEvict, nil
	case "index":
		return StrategyIndex, nil
	case "auto":
		return StrategyAuto, nil
	}
	return 0, fmt.Errorf("unknown lookup strategy %q", s)
}

// DuplicatePolicy decides what happens when an ID is declared twice among
// the same siblings in one render.
type DuplicatePolicy uint8

const (
	// DuplicateWarn logs the duplicate and creates a second node for it.
	DuplicateWarn DuplicatePolicy = iota

	// DuplicateReject treats a duplicate as a fatal violation.
	DuplicateReject
)

// String returns the configuration name of the DuplicatePolicy.
func (p DuplicatePolicy) String() string {
	switch p {
	case DuplicateWarn:
		return "warn"
	case DuplicateReject:
		return "reject"
	default:
		return "unknown"
	}
}

// ParseDuplicatePolicy parses a configuration name into a DuplicatePolicy.
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch s {
	case "", "warn":
		return DuplicateWarn, nil
	case "reject":
		return DuplicateReject, nil
	}
	return 0, fmt.Errorf("unknown duplicate policy %q", s)
}

// Option configures a Session.
type Option func(*options)

type options struct {
	maxDepth       int
	strategy       Strategy
	indexThreshold int
	duplicates     DuplicatePolicy
	logger         *slog.Logger
	metrics        *metrics.Recorder
	tracer         trace.Tracer
	ctx            context.Context
}

func defaultOptions() options {
	return options{
		maxDepth:       DefaultMaxDepth,
		strategy:       StrategyScan,
		indexThreshold: DefaultIndexThreshold,
		duplicates:     DuplicateWarn,
		logger:         slog.Default(),
		tracer:         otel.Tracer(tracerName),
		ctx:            context.Background(),
	}
}

// WithMaxDepth sets the reconciliation stack capacity, counting the root
// frame. Values below 1 are ignored.
func WithMaxDepth(n int) Option {
	return func(o *options) {
		if n >= 1 {
			o.maxDepth = n
		}
	}
}

// WithStrategy sets the lookup strategy for every frame.
func WithStrategy(s Strategy) Option {
	return func(o *options) {
		o.strategy = s
	}
}

// WithIndexThreshold sets the container size at which StrategyAuto
// switches to an ID index.
func WithIndexThreshold(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.indexThreshold = n
		}
	}
}

// WithDuplicatePolicy sets the duplicate sibling ID policy.
func WithDuplicatePolicy(p DuplicatePolicy) Option {
	return func(o *options) {
		o.duplicates = p
	}
}

// WithLogger sets the session logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMetrics records render passes and node lifecycles on r.
func WithMetrics(r *metrics.Recorder) Option {
	return func(o *options) {
		o.metrics = r
	}
}

// WithTracer sets the tracer used for render pass spans. The default
// resolves a tracer from the global OpenTelemetry provider.
func WithTracer(t trace.Tracer) Option {
	return func(o *options) {
		if t != nil {
			o.tracer = t
		}
	}
}

// WithContext sets the parent context of spans for passes started by the
// toolkit's event dispatch rather than by Render.
func WithContext(ctx context.Context) Option {
	return func(o *options) {
		if ctx != nil {
			o.ctx = ctx
		}
	}
}
