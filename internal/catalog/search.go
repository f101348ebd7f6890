package catalog

import (
	"strings"
	"unicode/utf8"

	"github.com/tuanvumaihuynh/product-catalog/internal/apperr"
	"github.com/tuanvumaihuynh/product-catalog/internal/model"
)

const minSearchQueryLength = 2

type SearchParams struct {
	Query     string
	MinRating *float64
}

// Search returns the products whose name or description contains the query,
// ignoring case, and whose rating reaches MinRating when set. The query is
// matched as given; it is trimmed only for the minimum length check.
// Results keep input order.
func Search(products []model.Product, params SearchParams) ([]model.Product, error) {
	if utf8.RuneCountInString(strings.TrimSpace(params.Query)) < minSearchQueryLength {
		return nil, apperr.InvalidSearch(params.Query)
	}

	if r := params.MinRating; r != nil && !(*r >= MinRating && *r <= MaxRating) {
		return nil, apperr.ValidationFailure("min_rating", "must be between 0 and 5")
	}

	query := strings.ToLower(params.Query)

	results := make([]model.Product, 0)
	for _, p := range products {
		if !matches(p, query) {
			continue
		}
		if params.MinRating != nil && p.Rating < *params.MinRating {
			continue
		}
		results = append(results, p)
	}

	return results, nil
}

func matches(p model.Product, lowerQuery string) bool {
	if strings.Contains(strings.ToLower(p.Name), lowerQuery) {
		return true
	}
	return p.Description != nil && strings.Contains(strings.ToLower(*p.Description), lowerQuery)
}
