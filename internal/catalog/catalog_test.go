package catalog_test

import (
	"time"

	"github.com/google/uuid"

	"github.com/tuanvumaihuynh/product-catalog/internal/catalog"
	"github.com/tuanvumaihuynh/product-catalog/internal/model"
	"github.com/tuanvumaihuynh/product-catalog/pkg/ptr"
	"github.com/tuanvumaihuynh/product-catalog/pkg/validator"
)

func newValidator() *catalog.Validator {
	return catalog.NewValidator(validator.MustNewDefaultValidator())
}

func fixtureProducts() []model.Product {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return []model.Product{
		{
			ID:          uuid.MustParse("0195f3a0-0000-7000-8000-000000000001"),
			Name:        "Laptop Gaming",
			Description: ptr.New("Laptop para juegos con RTX 4060"),
			Price:       1500.99,
			Stock:       10,
			Category:    "Tecnología",
			Available:   true,
			Rating:      4.5,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			ID:          uuid.MustParse("0195f3a0-0000-7000-8000-000000000002"),
			Name:        "Smartphone Samsung",
			Description: ptr.New("Teléfono inteligente con 128GB de almacenamiento"),
			Price:       899.99,
			Stock:       25,
			Category:    "Electrónicos",
			Available:   true,
			Rating:      4.3,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			ID:        uuid.MustParse("0195f3a0-0000-7000-8000-000000000003"),
			Name:      "Mouse Pad",
			Price:     12.5,
			Category:  "Accesorios",
			Available: false,
			Rating:    3.1,
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:        uuid.MustParse("0195f3a0-0000-7000-8000-000000000004"),
			Name:      "Gamepad",
			Price:     59.9,
			Category:  "tecnología",
			Available: true,
			Rating:    2,
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
}

func names(products []model.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.Name)
	}
	return out
}
