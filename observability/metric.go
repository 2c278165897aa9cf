package observability

import (
	"context"
	"math"
	"sync/atomic"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

var (
	logger atomic.Pointer[zap.Logger]

	SecondsHistogramBuckets = []float64{0, 0.001, 0.005, 0.01, 0.025, 0.05, 0.075, 0.1, 0.25, 0.5, 0.75, 1, 2.5, 5}
)

func init() {
	logger.Store(zap.NewNop())
}

func initLogger(l *zap.Logger) {
	logger.Store(l.Named("Observability"))
}

// NewMetric builds an instrument. Instruments obtained from otel.Meter before
// Initialize delegate to the provider installed later, so package level
// instruments are safe. Failures are logged and the zero instrument returned.
func NewMetric[T any](name string, create func(metricName string) (T, error)) T {
	m, err := create(name)
	if err != nil {
		logger.Load().Error("failed to instantiate metric", zap.String("name", name), zap.Error(err))
	}
	return m
}

// RecordUint64Value records value through an int64 instrument, dropping values
// that do not fit.
func RecordUint64Value(
	ctx context.Context,
	value uint64,
	recordF func(ctx context.Context, value int64, options ...metric.AddOption),
	options ...metric.AddOption,
) {
	if value > math.MaxInt64 {
		logger.Load().Error("value exceeds int64 range, metric not recorded", zap.Uint64("value", value))
		return
	}
	recordF(ctx, int64(value), options...)
}
