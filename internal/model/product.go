package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/oapi-codegen/nullable"
)

type Product struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Price       float64   `json:"price"`
	Stock       int       `json:"stock"`
	Category    string    `json:"category"`
	Available   bool      `json:"available"`
	Rating      float64   `json:"rating"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProductPatch is a partial update of a Product. An unspecified field leaves
// the stored value untouched, a null field is only accepted for Description.
type ProductPatch struct {
	Name        nullable.Nullable[string]  `json:"name"`
	Description nullable.Nullable[string]  `json:"description"`
	Price       nullable.Nullable[float64] `json:"price"`
	Stock       nullable.Nullable[int]     `json:"stock"`
	Category    nullable.Nullable[string]  `json:"category"`
	Available   nullable.Nullable[bool]    `json:"available"`
	Rating      nullable.Nullable[float64] `json:"rating"`
}
