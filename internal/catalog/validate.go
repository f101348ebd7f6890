package catalog

import (
	"errors"
	"fmt"
	"strings"

	govalidator "github.com/go-playground/validator/v10"
	"github.com/oapi-codegen/nullable"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tuanvumaihuynh/product-catalog/internal/apperr"
	"github.com/tuanvumaihuynh/product-catalog/internal/model"
	"github.com/tuanvumaihuynh/product-catalog/pkg/validator"
	"github.com/tuanvumaihuynh/product-catalog/pkg/zerror"
)

const (
	MinRating = 0.0
	MaxRating = 5.0
)

// CreateProductParams holds the caller supplied fields of a new product.
type CreateProductParams struct {
	Name        string  `json:"name" validate:"notblank,max=100"`
	Description *string `json:"description" validate:"omitnil,max=500"`
	Price       float64 `json:"price" validate:"gt=0"`
	Stock       int     `json:"stock" validate:"gte=0"`
	Category    string  `json:"category" validate:"notblank,max=50"`
	Available   *bool   `json:"available"`
	Rating      float64 `json:"rating" validate:"gte=0,lte=5"`
}

// patchFields mirrors the specified, non-null values of a model.ProductPatch.
type patchFields struct {
	Name        *string  `json:"name" validate:"omitnil,notblank,max=100"`
	Description *string  `json:"description" validate:"omitnil,max=500"`
	Price       *float64 `json:"price" validate:"omitnil,gt=0"`
	Stock       *int     `json:"stock" validate:"omitnil,gte=0"`
	Category    *string  `json:"category" validate:"omitnil,notblank,max=50"`
	Rating      *float64 `json:"rating" validate:"omitnil,gte=0,lte=5"`
}

// Validator normalizes and validates product payloads.
type Validator struct {
	v validator.Validator
}

func NewValidator(v validator.Validator) *Validator {
	return &Validator{v: v}
}

// NewProduct validates params and returns the normalized product. The id and
// timestamps are left for the caller to assign.
func (val *Validator) NewProduct(params CreateProductParams) (model.Product, error) {
	if err := val.validate(params); err != nil {
		return model.Product{}, err
	}

	price, err := normalizePrice(params.Price)
	if err != nil {
		return model.Product{}, err
	}

	available := true
	if params.Available != nil {
		available = *params.Available
	}

	return model.Product{
		Name:        normalizeName(params.Name),
		Description: normalizeDescription(params.Description),
		Price:       price,
		Stock:       params.Stock,
		Category:    params.Category,
		Available:   available,
		Rating:      params.Rating,
	}, nil
}

// ApplyPatch validates every specified field of patch and returns a copy of
// product with those fields replaced. Unspecified fields are neither
// validated nor changed. product itself is never modified.
func (val *Validator) ApplyPatch(product model.Product, patch model.ProductPatch) (model.Product, error) {
	fields, err := specifiedFields(patch)
	if err != nil {
		return model.Product{}, err
	}

	if err := val.validate(fields); err != nil {
		return model.Product{}, err
	}

	if fields.Name != nil {
		product.Name = normalizeName(*fields.Name)
	}
	if patch.Description.IsSpecified() {
		product.Description = normalizeDescription(fields.Description)
	}
	if fields.Price != nil {
		if product.Price, err = normalizePrice(*fields.Price); err != nil {
			return model.Product{}, err
		}
	}
	if fields.Stock != nil {
		product.Stock = *fields.Stock
	}
	if fields.Category != nil {
		product.Category = *fields.Category
	}
	if patch.Available.IsSpecified() {
		product.Available = patch.Available.MustGet()
	}
	if fields.Rating != nil {
		product.Rating = *fields.Rating
	}

	return product, nil
}

func specifiedFields(patch model.ProductPatch) (patchFields, error) {
	var (
		fields patchFields
		errs   []error
	)

	fields.Name, errs = nonNull(patch.Name, "name", errs)
	fields.Price, errs = nonNull(patch.Price, "price", errs)
	fields.Stock, errs = nonNull(patch.Stock, "stock", errs)
	fields.Category, errs = nonNull(patch.Category, "category", errs)
	fields.Rating, errs = nonNull(patch.Rating, "rating", errs)
	_, errs = nonNull(patch.Available, "available", errs)

	// description is nullable: null clears it.
	if patch.Description.IsSpecified() && !patch.Description.IsNull() {
		description := patch.Description.MustGet()
		fields.Description = &description
	}

	if len(errs) > 0 {
		return patchFields{}, errs[0]
	}

	return fields, nil
}

func nonNull[T any](n nullable.Nullable[T], field string, errs []error) (*T, []error) {
	if !n.IsSpecified() {
		return nil, errs
	}
	if n.IsNull() {
		return nil, append(errs, apperr.ValidationFailure(field, "must not be null"))
	}
	v := n.MustGet()
	return &v, errs
}

func (val *Validator) validate(s any) error {
	err := val.v.Validate(s)
	if err == nil {
		return nil
	}

	var verrs govalidator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("validate: %w", err)
	}

	return fromValidationErrors(verrs)
}

// fromValidationErrors picks the error kind from the first failing field and
// reports every failing field as a detail.
func fromValidationErrors(verrs govalidator.ValidationErrors) error {
	details := make([]zerror.Detail, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, zerror.Detail{
			Field:   fe.Field(),
			Message: validator.ValidationErrorMessage(fe),
		})
	}

	first := verrs[0]
	var base zerror.ZError
	switch first.Field() {
	case "price":
		base = apperr.InvalidPrice(fieldValue[float64](first), "price")
	case "stock":
		base = apperr.NegativeStock(fieldValue[int](first))
	default:
		base = apperr.ValidationErr.
			WithMsg(fmt.Sprintf("%s %s", first.Field(), details[0].Message)).
			WithDetails(details[0])
	}

	return base.WithDetails(details[1:]...)
}

// fieldValue returns the value that failed validation, dereferencing
// optional fields.
func fieldValue[T any](fe govalidator.FieldError) T {
	switch v := fe.Value().(type) {
	case T:
		return v
	case *T:
		if v != nil {
			return *v
		}
	}
	var zero T
	return zero
}

func normalizeName(name string) string {
	return cases.Title(language.Und).String(strings.TrimSpace(name))
}

func normalizeDescription(description *string) *string {
	if description == nil || *description == "" {
		return nil
	}
	d := *description
	return &d
}

// normalizePrice rounds half away from zero on the shortest decimal
// representation of price, so 19.995 becomes 20.00.
func normalizePrice(price float64) (float64, error) {
	rounded := decimal.NewFromFloat(price).Round(2)
	if !rounded.IsPositive() {
		return 0, apperr.InvalidPrice(price, "price")
	}
	return rounded.InexactFloat64(), nil
}
