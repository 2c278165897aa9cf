package processor

import (
	"context"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/ssvlabs/ssv-bridge/bridge"
	"github.com/ssvlabs/ssv-bridge/observability"
)

const (
	observabilityComponentName      = "github.com/ssvlabs/ssv-bridge/bridge/processor"
	observabilityComponentNamespace = "bridge.processor"
)

var (
	meter = otel.Meter(observabilityComponentName)

	instructionsCounter = observability.NewMetric(
		fmt.Sprintf("%s.instructions", observabilityComponentNamespace),
		func(metricName string) (metric.Int64Counter, error) {
			return meter.Int64Counter(
				metricName,
				metric.WithUnit("{instruction}"),
				metric.WithDescription("total number of processed instructions"))
		},
	)

	instructionErrorsCounter = observability.NewMetric(
		fmt.Sprintf("%s.instructions.errors", observabilityComponentNamespace),
		func(metricName string) (metric.Int64Counter, error) {
			return meter.Int64Counter(
				metricName,
				metric.WithUnit("{instruction}"),
				metric.WithDescription("total number of failed instructions by error code"))
		},
	)

	instructionDurationHistogram = observability.NewMetric(
		fmt.Sprintf("%s.instructions.duration", observabilityComponentNamespace),
		func(metricName string) (metric.Float64Histogram, error) {
			return meter.Float64Histogram(
				metricName,
				metric.WithUnit("s"),
				metric.WithDescription("instruction processing duration"),
				metric.WithExplicitBucketBoundaries(observability.SecondsHistogramBuckets...))
		},
	)

	depositedCounter = observability.NewMetric(
		fmt.Sprintf("%s.deposited", observabilityComponentNamespace),
		func(metricName string) (metric.Int64Counter, error) {
			return meter.Int64Counter(
				metricName,
				metric.WithUnit("{token}"),
				metric.WithDescription("total amount deposited into custody"))
		},
	)

	withdrawnCounter = observability.NewMetric(
		fmt.Sprintf("%s.withdrawn", observabilityComponentNamespace),
		func(metricName string) (metric.Int64Counter, error) {
			return meter.Int64Counter(
				metricName,
				metric.WithUnit("{token}"),
				metric.WithDescription("total amount released from custody"))
		},
	)
)

func recordInstruction(ctx context.Context, name string, took time.Duration, err error) {
	ixAttr := metric.WithAttributes(observability.InstructionAttribute(name))
	instructionsCounter.Add(ctx, 1, ixAttr)
	instructionDurationHistogram.Record(ctx, took.Seconds(), ixAttr)
	if err == nil {
		return
	}

	codeName := "other"
	if code, ok := bridge.CodeOf(err); ok {
		codeName = code.String()
	}
	instructionErrorsCounter.Add(ctx, 1, metric.WithAttributes(
		observability.InstructionAttribute(name),
		observability.ErrorCodeAttribute(codeName)))
}

func recordDeposit(ctx context.Context, mint solana.PublicKey, amount uint64) {
	observability.RecordUint64Value(ctx, amount, depositedCounter.Add,
		metric.WithAttributes(observability.MintAttribute(mint.String())))
}

func recordWithdrawal(ctx context.Context, mint solana.PublicKey, amounts []uint64) {
	attrs := metric.WithAttributes(observability.MintAttribute(mint.String()))
	for _, amount := range amounts {
		observability.RecordUint64Value(ctx, amount, withdrawnCounter.Add, attrs)
	}
}
