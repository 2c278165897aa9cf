package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/multierr"

	"github.com/ssvlabs/ssv-bridge/observability"
)

// HealthChecker reports whether the node can serve.
type HealthChecker interface {
	HealthCheck() error
}

// HealthCheckFunc adapts a function to HealthChecker.
type HealthCheckFunc func() error

func (f HealthCheckFunc) HealthCheck() error {
	return f()
}

// Checks combines health checkers; all of them run and their errors are
// joined.
type Checks map[string]HealthChecker

func (c Checks) HealthCheck() error {
	var err error
	for name, checker := range c {
		if checkErr := checker.HealthCheck(); checkErr != nil {
			err = multierr.Append(err, fmt.Errorf("%s: %w", name, checkErr))
		}
	}
	return err
}

var (
	meter = otel.Meter("github.com/ssvlabs/ssv-bridge/monitoring/metrics")

	nodeStatusGauge = observability.NewMetric(
		"bridge.node.healthy",
		func(metricName string) (metric.Int64Gauge, error) {
			return meter.Int64Gauge(
				metricName,
				metric.WithDescription("1 when the last health check passed"))
		},
	)
)

func reportHealth(ctx context.Context, healthy bool) {
	var v int64
	if healthy {
		v = 1
	}
	nodeStatusGauge.Record(ctx, v)
}
