package observability

import (
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.uber.org/zap"
)

type (
	metricsConfig struct {
		enabled bool
	}

	// Dependencies are the constructors Initialize calls. Tests replace them
	// to exercise failure paths.
	Dependencies struct {
		ResourceMerge func(a, b *resource.Resource) (*resource.Resource, error)
		PrometheusNew func(opts ...prometheus.Option) (*prometheus.Exporter, error)
	}

	Config struct {
		metrics metricsConfig
		logger  *zap.Logger
		deps    Dependencies
	}
)

func defaultConfig() Config {
	return Config{
		logger: zap.NewNop(),
		deps: Dependencies{
			ResourceMerge: resource.Merge,
			PrometheusNew: prometheus.New,
		},
	}
}
