package disconnected

import (
	"go.uber.org/zap"
)

// options holds the collaborators shared by repositories and Synchronize.
type options struct {
	logger  *zap.Logger
	metrics *SyncMetrics
}

// Option configures a repository or a synchronization pass.
type Option func(*options)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMetrics sets the sync metrics. A nil value disables metrics.
func WithMetrics(m *SyncMetrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

func newOptions(opts []Option) options {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
