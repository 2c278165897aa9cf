package observability

import "go.uber.org/zap"

type Option func(*Config)

func WithMetrics() Option {
	return func(cfg *Config) {
		cfg.metrics.enabled = true
	}
}

// WithLogger sets the logger used to report metric instantiation failures.
func WithLogger(l *zap.Logger) Option {
	return func(cfg *Config) {
		if l != nil {
			cfg.logger = l
		}
	}
}

func WithDependencies(deps Dependencies) Option {
	return func(cfg *Config) {
		cfg.deps = deps
	}
}
