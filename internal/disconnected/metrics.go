package disconnected

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// SyncMetricsMeterName is the name used for the synchronization meter.
const SyncMetricsMeterName = "github.com/mesh-intelligence/depot/disconnected"

// Gateway operation labels.
const (
	opInsert = "insert"
	opUpdate = "update"
	opDelete = "delete"
)

// SyncMetrics holds the OpenTelemetry instruments for synchronization passes.
// A nil *SyncMetrics is valid and records nothing.
type SyncMetrics struct {
	operations metric.Int64Counter
	failures   metric.Int64Counter
	duration   metric.Float64Histogram
}

// NewSyncMetrics creates the instruments on the given provider.
// If provider is nil, it returns nil (no-op metrics).
func NewSyncMetrics(provider metric.MeterProvider) (*SyncMetrics, error) {
	if provider == nil {
		return nil, nil
	}

	meter := provider.Meter(SyncMetricsMeterName)

	operations, err := meter.Int64Counter(
		"depot_sync_operations_total",
		metric.WithDescription("Gateway operations issued by synchronization passes"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, err
	}

	failures, err := meter.Int64Counter(
		"depot_sync_failures_total",
		metric.WithDescription("Synchronization passes aborted by a gateway failure"),
		metric.WithUnit("{pass}"),
	)
	if err != nil {
		return nil, err
	}

	duration, err := meter.Float64Histogram(
		"depot_sync_duration_seconds",
		metric.WithDescription("Duration of synchronization passes in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5),
	)
	if err != nil {
		return nil, err
	}

	return &SyncMetrics{
		operations: operations,
		failures:   failures,
		duration:   duration,
	}, nil
}

func (m *SyncMetrics) recordOperation(ctx context.Context, kind, op string) {
	if m == nil {
		return
	}
	m.operations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("entity", kind),
		attribute.String("op", op),
	))
}

func (m *SyncMetrics) recordFailure(ctx context.Context, kind string) {
	if m == nil {
		return
	}
	m.failures.Add(ctx, 1, metric.WithAttributes(attribute.String("entity", kind)))
}

func (m *SyncMetrics) recordDuration(ctx context.Context, kind string, d time.Duration) {
	if m == nil {
		return
	}
	m.duration.Record(ctx, d.Seconds(), metric.WithAttributes(attribute.String("entity", kind)))
}
