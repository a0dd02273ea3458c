package disconnected

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

func TestNewSyncMetrics(t *testing.T) {
	t.Run("returns nil when provider is nil", func(t *testing.T) {
		metrics, err := NewSyncMetrics(nil)
		require.NoError(t, err)
		assert.Nil(t, metrics)
	})

	t.Run("creates instruments with SDK provider", func(t *testing.T) {
		mp := sdkmetric.NewMeterProvider()
		defer func() { _ = mp.Shutdown(context.Background()) }()

		metrics, err := NewSyncMetrics(mp)
		require.NoError(t, err)
		require.NotNil(t, metrics)
		assert.NotNil(t, metrics.operations)
		assert.NotNil(t, metrics.failures)
		assert.NotNil(t, metrics.duration)
	})
}

func TestSyncMetricsNilIsNoop(t *testing.T) {
	var metrics *SyncMetrics
	ctx := context.Background()
	// Should not panic
	metrics.recordOperation(ctx, "products", opInsert)
	metrics.recordFailure(ctx, "products")
	metrics.recordDuration(ctx, "products", time.Second)
}
