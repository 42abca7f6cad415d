// config.go defines VM's functional-option configuration, adapted from the
// teacher's pkg/config.go: a small config struct with sane defaults, plumbed
// through a handful of With* options. The generics on the teacher's
// Option[K,V] are dropped — VM has no user-chosen key/value types to be
// generic over — but the defaultConfig/applyOptions shape is unchanged.
//
// © 2025 glimmer authors. MIT License.
package vm

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

type config struct {
	logger   *zap.Logger
	registry *prometheus.Registry
}

func defaultConfig() *config {
	return &config{
		logger:   zap.NewNop(),
		registry: nil, // user must opt in to metrics, matching the teacher's default
	}
}

// Option configures a VM at construction time.
type Option func(*config)

// WithLogger plugs an external zap.Logger. The core's own hot paths
// (pkg/table, pkg/value) never log; VM hands the logger out through
// VM.Logger and does not write any log entries itself.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics enables Prometheus metrics collection. Passing nil disables
// metrics (the default).
func WithMetrics(reg *prometheus.Registry) Option {
	return func(c *config) { c.registry = reg }
}

func applyOptions(cfg *config, opts []Option) {
	for _, opt := range opts {
		opt(cfg)
	}
}
