package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	semconv "go.opentelemetry.io/otel/semconv/v1.9.0"

	"github.com/tuanvumaihuynh/product-catalog/internal/config"
)

func TestInitTracer(t *testing.T) {
	t.Run("Should be a no-op without collector", func(t *testing.T) {
		cleanup, err := InitTracer(context.Background(), config.Otel{ServiceName: "product-catalog"})
		require.NoError(t, err)
		assert.NoError(t, cleanup(context.Background()))
	})
}

func TestNewResource(t *testing.T) {
	res := newResource(config.Otel{ServiceName: "product-catalog", K8sPodName: "catalog-0"})

	name, ok := res.Set().Value(semconv.ServiceNameKey)
	require.True(t, ok)
	assert.Equal(t, "product-catalog", name.AsString())

	pod, ok := res.Set().Value(semconv.K8SPodNameKey)
	require.True(t, ok)
	assert.Equal(t, "catalog-0", pod.AsString())

	_, ok = res.Set().Value(semconv.K8SNamespaceNameKey)
	assert.False(t, ok)
}
