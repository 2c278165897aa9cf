package ledger

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/ssvlabs/ssv-bridge/observability"
)

const (
	observabilityComponentName      = "github.com/ssvlabs/ssv-bridge/ledger"
	observabilityComponentNamespace = "bridge.ledger"
)

var (
	meter = otel.Meter(observabilityComponentName)

	transactionsCounter = observability.NewMetric(
		fmt.Sprintf("%s.transactions", observabilityComponentNamespace),
		func(metricName string) (metric.Int64Counter, error) {
			return meter.Int64Counter(
				metricName,
				metric.WithUnit("{transaction}"),
				metric.WithDescription("total number of executed transactions by outcome"))
		},
	)

	transactionDurationHistogram = observability.NewMetric(
		fmt.Sprintf("%s.transaction.duration", observabilityComponentNamespace),
		func(metricName string) (metric.Float64Histogram, error) {
			return meter.Float64Histogram(
				metricName,
				metric.WithUnit("s"),
				metric.WithDescription("transaction execution duration"),
				metric.WithExplicitBucketBoundaries(observability.SecondsHistogramBuckets...))
		},
	)
)

func recordTransaction(ctx context.Context, took time.Duration, committed bool) {
	outcome := metric.WithAttributes(observability.OutcomeAttribute(committed))
	transactionsCounter.Add(ctx, 1, outcome)
	transactionDurationHistogram.Record(ctx, took.Seconds(), outcome)
}
