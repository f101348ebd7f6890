package catalog

import (
	"strings"

	"github.com/tuanvumaihuynh/product-catalog/internal/apperr"
	"github.com/tuanvumaihuynh/product-catalog/internal/model"
)

// FilterParams are the optional, conjunctive list criteria.
type FilterParams struct {
	Available *bool
	// Category matches case-insensitively; empty means no category criterion.
	Category *string
	// MaxPrice keeps products priced at or below it and must be greater than 0.
	MaxPrice *float64
}

func (p FilterParams) isEmpty() bool {
	return p.Available == nil && (p.Category == nil || *p.Category == "") && p.MaxPrice == nil
}

// Filter returns the products matching every criterion in params, in input
// order. Without criteria it returns products unchanged.
func Filter(products []model.Product, params FilterParams) ([]model.Product, error) {
	if params.MaxPrice != nil && !(*params.MaxPrice > 0) {
		return nil, apperr.InvalidPrice(*params.MaxPrice, "max_price")
	}

	if params.isEmpty() {
		return products, nil
	}

	filtered := make([]model.Product, 0, len(products))
	for _, p := range products {
		if params.Available != nil && p.Available != *params.Available {
			continue
		}
		if params.Category != nil && *params.Category != "" && !strings.EqualFold(p.Category, *params.Category) {
			continue
		}
		if params.MaxPrice != nil && p.Price > *params.MaxPrice {
			continue
		}
		filtered = append(filtered, p)
	}

	return filtered, nil
}
