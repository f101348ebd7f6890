package model_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/product-catalog/internal/model"
)

func TestProductPatchUnmarshal(t *testing.T) {
	var patch model.ProductPatch
	require.NoError(t, json.Unmarshal([]byte(`{"price": 1299.99, "stock": 15, "description": null}`), &patch))

	assert.False(t, patch.Name.IsSpecified())
	assert.False(t, patch.Category.IsSpecified())

	require.True(t, patch.Price.IsSpecified())
	assert.Equal(t, 1299.99, patch.Price.MustGet())
	assert.Equal(t, 15, patch.Stock.MustGet())

	assert.True(t, patch.Description.IsSpecified())
	assert.True(t, patch.Description.IsNull())
}

func TestProductPatchIgnoresUnknownFields(t *testing.T) {
	var patch model.ProductPatch
	require.NoError(t, json.Unmarshal([]byte(`{"id": "ignored"}`), &patch))

	assert.Equal(t, model.ProductPatch{}, patch)
}
