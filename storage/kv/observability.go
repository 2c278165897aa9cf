package kv

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/ssvlabs/ssv-bridge/observability"
)

const (
	observabilityName      = "github.com/ssvlabs/ssv-bridge/storage/kv"
	observabilityNamespace = "bridge.storage.badger"
)

var (
	meter = otel.Meter(observabilityName)

	gcDurationHistogram = observability.NewMetric(
		observabilityNamespace+".gc.duration",
		func(metricName string) (metric.Float64Histogram, error) {
			return meter.Float64Histogram(
				metricName,
				metric.WithUnit("s"),
				metric.WithDescription("value log garbage collection duration"),
				metric.WithExplicitBucketBoundaries(observability.SecondsHistogramBuckets...))
		},
	)
)

func recordGC(ctx context.Context, kind string, took time.Duration, err error) {
	gcDurationHistogram.Record(ctx, took.Seconds(),
		metric.WithAttributes(
			attribute.String("bridge.storage.gc.kind", kind),
			attribute.Bool("bridge.storage.gc.failed", err != nil),
		))
}
