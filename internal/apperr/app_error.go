package apperr

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/tuanvumaihuynh/product-catalog/pkg/zerror"
)

const (
	ValidationErrorCode      = "VALIDATION_FAILED"
	ProductNotFoundErrorCode = "PRODUCT_NOT_FOUND"
	ProductDuplicatedCode    = "PRODUCT_DUPLICATED"
	InvalidPriceErrorCode    = "INVALID_PRICE"
	NegativeStockErrorCode   = "NEGATIVE_STOCK"
	InvalidSearchErrorCode   = "INVALID_SEARCH"
)

var (
	ValidationErr        = zerror.NewValidationFailed(ValidationErrorCode, "validation error")
	ProductNotFoundErr   = zerror.NewNotFound(ProductNotFoundErrorCode, "product not found")
	ProductDuplicatedErr = zerror.NewConflict(ProductDuplicatedCode, "a product with that name already exists")
	InvalidPriceErr      = zerror.NewValidationFailed(InvalidPriceErrorCode, "price must be greater than 0")
	NegativeStockErr     = zerror.NewValidationFailed(NegativeStockErrorCode, "stock cannot be negative")
	InvalidSearchErr     = zerror.NewValidationFailed(InvalidSearchErrorCode, "search query must have at least 2 characters")
)

// NotFound reports that no product has the given id.
func NotFound(id uuid.UUID) error {
	return ProductNotFoundErr.WithMsg(fmt.Sprintf("product with ID %s not found", id))
}

// DuplicateName reports that another product already uses name, compared case-insensitively.
func DuplicateName(name string) error {
	return ProductDuplicatedErr.
		WithMsg(fmt.Sprintf("a product named %q already exists", name)).
		WithDetails(zerror.Detail{Field: "name", Message: "must be unique"})
}

// InvalidPrice reports a non-positive price. field names the offending input,
// e.g. "price" or "max_price".
func InvalidPrice(value float64, field string) zerror.ZError {
	return InvalidPriceErr.
		WithMsg(fmt.Sprintf("%s must be greater than 0", field)).
		WithDetails(zerror.Detail{
			Field:   field,
			Message: "must be greater than 0, got " + strconv.FormatFloat(value, 'f', -1, 64),
		})
}

// NegativeStock reports a stock below zero.
func NegativeStock(value int) zerror.ZError {
	return NegativeStockErr.WithDetails(zerror.Detail{
		Field:   "stock",
		Message: fmt.Sprintf("must be greater than or equal to 0, got %d", value),
	})
}

// InvalidSearch reports a search query that is too short once trimmed.
func InvalidSearch(query string) error {
	return InvalidSearchErr.WithDetails(zerror.Detail{
		Field:   "q",
		Message: fmt.Sprintf("must have at least 2 characters, got %q", query),
	})
}

// ValidationFailure reports a single invalid field.
func ValidationFailure(field, reason string) error {
	return ValidationErr.
		WithMsg(fmt.Sprintf("%s %s", field, reason)).
		WithDetails(zerror.Detail{Field: field, Message: reason})
}

var (
	RouteNotFoundErr    = zerror.NewNotFound("ROUTE_NOT_FOUND", "route not found")
	MethodNotAllowedErr = zerror.NewMethodNotAllowed("METHOD_NOT_ALLOWED", "method not allowed")
	RequestBodyErr      = zerror.NewBadRequest("INVALID_REQUEST_BODY", "invalid request body")
)

// InvalidParameter reports a request parameter that could not be bound.
func InvalidParameter(name string, cause error) error {
	return ValidationErr.
		WithMsg(fmt.Sprintf("invalid parameter %s", name)).
		WithDetails(zerror.Detail{Field: name, Message: "has an invalid format"}).
		WrapParent(cause)
}

// InvalidBody reports a request body that is not a well-formed JSON object.
// field is empty when the problem is not tied to one field.
func InvalidBody(field, reason string, cause error) error {
	err := RequestBodyErr.WithMsg("invalid request body: " + reason)
	if field != "" {
		err = err.WithDetails(zerror.Detail{Field: field, Message: reason})
	}
	return err.WrapParent(cause)
}
