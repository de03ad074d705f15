package typeddict

import "go.uber.org/zap"

type options struct {
	logger  *zap.Logger
	metrics MetricsCollector
}

// Option configures a Dict descriptor.
type Option func(*options)

// WithLogger sets the logger used for growth, rebuild and release events.
// If nil is passed, logging is disabled.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l == nil {
			l = zap.NewNop()
		}
		o.logger = l
	}
}

// WithMetrics sets the collector notified of storage events.
// If nil is passed, NoopMetricsCollector is used.
func WithMetrics(m MetricsCollector) Option {
	return func(o *options) {
		if m == nil {
			m = NoopMetricsCollector{}
		}
		o.metrics = m
	}
}

func defaultOptions() options {
	return options{
		logger:  zap.NewNop(),
		metrics: NoopMetricsCollector{},
	}
}
