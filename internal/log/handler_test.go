package log_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/product-catalog/internal/config"
	"github.com/tuanvumaihuynh/product-catalog/internal/log"
	"github.com/tuanvumaihuynh/product-catalog/pkg/correlationid"
)

func TestContextHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(config.Log{Format: config.LogFormatJSON, Level: slog.LevelInfo}, &buf)

	ctx := correlationid.NewContext(context.Background(), "corr-42")
	logger.With(slog.String("service", "http")).InfoContext(ctx, "product created")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))

	assert.Equal(t, "product created", record["msg"])
	assert.Equal(t, "corr-42", record["correlation_id"])
	assert.Equal(t, "http", record["service"])
	assert.NotContains(t, record, "trace_id")

	t.Run("Should add context attributes", func(t *testing.T) {
		buf.Reset()
		ctx := log.WithAttrs(ctx, slog.String("product_id", "p-1"))
		ctx = log.WithAttrs(ctx, slog.String("topic", "product.created"))

		logger.InfoContext(ctx, "event relayed")

		var record map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
		assert.Equal(t, "p-1", record["product_id"])
		assert.Equal(t, "product.created", record["topic"])
		assert.Equal(t, "corr-42", record["correlation_id"])
	})
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(config.Log{Format: config.LogFormatText, Level: slog.LevelWarn}, &buf)

	logger.Info("dropped")
	assert.Empty(t, buf.String())

	logger.Warn("kept")
	assert.Contains(t, buf.String(), "kept")
}
