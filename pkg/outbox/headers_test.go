package outbox_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tuanvumaihuynh/product-catalog/pkg/correlationid"
	"github.com/tuanvumaihuynh/product-catalog/pkg/outbox"
)

func TestHeaders(t *testing.T) {
	ctx := correlationid.NewContext(context.Background(), "corr-1")

	headers := outbox.BuildHeaders(ctx, "product.created")
	assert.Equal(t, "product.created", headers[outbox.EventTypeHeader])
	assert.Equal(t, "corr-1", headers[correlationid.Header])

	got, ok := correlationid.FromContext(outbox.ExtractContext(context.Background(), headers))
	assert.True(t, ok)
	assert.Equal(t, "corr-1", got)
}
