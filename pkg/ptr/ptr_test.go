package ptr_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tuanvumaihuynh/product-catalog/pkg/ptr"
)

func TestValueOr(t *testing.T) {
	assert.Equal(t, 7, ptr.ValueOr(ptr.New(7), 0))
	assert.Equal(t, 0.0, ptr.ValueOr(ptr.New(0.0), 2.5))
	assert.Equal(t, 2.5, ptr.ValueOr[float64](nil, 2.5))
}
