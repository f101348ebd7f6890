package apierr

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	govalidator "github.com/go-playground/validator/v10"

	"github.com/tuanvumaihuynh/product-catalog/pkg/validator"
	"github.com/tuanvumaihuynh/product-catalog/pkg/zerror"
)

// FieldError describes one invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorBody is the payload of every error response.
type ErrorBody struct {
	Code       string       `json:"code"`
	Message    string       `json:"message"`
	StatusCode int          `json:"status_code"`
	Timestamp  time.Time    `json:"timestamp"`
	Path       string       `json:"path,omitempty"`
	Details    []FieldError `json:"details,omitempty"`
}

// ErrorResponse is the error response for the API.
type ErrorResponse struct {
	Body ErrorBody `json:"error"`

	// StatusCode is the status code for the error response.
	StatusCode int `json:"-"`
}

// New maps err to an error response stamped with the current time.
func New(err error) ErrorResponse {
	res := errorToErrorResponse(err)
	res.Body.StatusCode = res.StatusCode
	res.Body.Timestamp = time.Now().UTC()
	return res
}

// WithPath returns a copy of the response carrying the request path.
func (e ErrorResponse) WithPath(path string) ErrorResponse {
	e.Body.Path = path
	return e
}

// Write sends the response as JSON with its status code.
func (e ErrorResponse) Write(w http.ResponseWriter) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.StatusCode)
	return json.NewEncoder(w).Encode(e)
}

var InternalServerErr = ErrorResponse{
	Body: ErrorBody{
		Code:    "INTERNAL_SERVER_ERROR",
		Message: "an unknown error occurred",
	},
	StatusCode: http.StatusInternalServerError,
}

func errorToErrorResponse(err error) ErrorResponse {
	var zErr zerror.ZError
	if errors.As(err, &zErr) {
		res := ErrorResponse{
			Body: ErrorBody{
				Code:    zErr.Code(),
				Message: zErr.Msg(),
			},
			StatusCode: ZErrorStatusToHTTPStatus(zErr.Status()),
		}
		for _, d := range zErr.Details() {
			res.Body.Details = append(res.Body.Details, FieldError{Field: d.Field, Message: d.Message})
		}
		return res
	}

	var validationErrs govalidator.ValidationErrors
	if errors.As(err, &validationErrs) {
		details := make([]FieldError, len(validationErrs))
		for i, fe := range validationErrs {
			details[i] = FieldError{
				Field:   fe.Field(),
				Message: validator.ValidationErrorMessage(fe),
			}
		}

		return ErrorResponse{
			Body: ErrorBody{
				Code:    "VALIDATION_FAILED",
				Message: "validation error",
				Details: details,
			},
			StatusCode: http.StatusBadRequest,
		}
	}

	return InternalServerErr
}

func ZErrorStatusToHTTPStatus(status zerror.Status) int {
	switch status {
	case zerror.StatusUnauthorized:
		return http.StatusUnauthorized
	case zerror.StatusForbidden:
		return http.StatusForbidden
	case zerror.StatusNotFound:
		return http.StatusNotFound
	case zerror.StatusMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case zerror.StatusUnprocessableEntity:
		return http.StatusUnprocessableEntity
	case zerror.StatusConflict:
		return http.StatusConflict
	case zerror.StatusTooManyRequests:
		return http.StatusTooManyRequests
	case zerror.StatusBadRequest:
		return http.StatusBadRequest
	case zerror.StatusValidationFailed:
		return http.StatusBadRequest
	case zerror.StatusUnknown, zerror.StatusInternalServerError:
		return http.StatusInternalServerError
	case zerror.StatusTimeout:
		return http.StatusGatewayTimeout
	case zerror.StatusNotImplemented:
		return http.StatusNotImplemented
	case zerror.StatusBadGateway:
		return http.StatusBadGateway
	case zerror.StatusServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
