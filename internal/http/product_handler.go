package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"

	"github.com/tuanvumaihuynh/product-catalog/internal/apperr"
	"github.com/tuanvumaihuynh/product-catalog/internal/catalog"
	"github.com/tuanvumaihuynh/product-catalog/internal/model"
	"github.com/tuanvumaihuynh/product-catalog/internal/service"
	"github.com/tuanvumaihuynh/product-catalog/pkg/ptr"
)

const maxBodyBytes = 1 << 20 // 1 MB

const productDeletedMsg = "product deleted successfully"

type productHandler struct {
	productSvc service.ProductService
}

func newProductHandler(productSvc service.ProductService) *productHandler {
	return &productHandler{
		productSvc: productSvc,
	}
}

type createProductRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Stock       *int     `json:"stock"`
	Category    *string  `json:"category"`
	Available   *bool    `json:"available"`
	Rating      *float64 `json:"rating"`
}

func (req createProductRequest) toParams() (catalog.CreateProductParams, error) {
	switch {
	case req.Name == nil:
		return catalog.CreateProductParams{}, apperr.ValidationFailure("name", "is required")
	case req.Price == nil:
		return catalog.CreateProductParams{}, apperr.ValidationFailure("price", "is required")
	case req.Category == nil:
		return catalog.CreateProductParams{}, apperr.ValidationFailure("category", "is required")
	}

	return catalog.CreateProductParams{
		Name:        *req.Name,
		Description: req.Description,
		Price:       *req.Price,
		Stock:       ptr.ValueOr(req.Stock, 0),
		Category:    *req.Category,
		Available:   req.Available,
		Rating:      ptr.ValueOr(req.Rating, 0),
	}, nil
}

type deleteProductResponse struct {
	Message        string        `json:"message"`
	DeletedProduct model.Product `json:"deleted_product"`
}

func (h *productHandler) ListProducts(w http.ResponseWriter, r *http.Request) error {
	var params catalog.FilterParams
	query := r.URL.Query()

	if err := runtime.BindQueryParameter("form", true, false, "available", query, &params.Available); err != nil {
		return apperr.InvalidParameter("available", err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "category", query, &params.Category); err != nil {
		return apperr.InvalidParameter("category", err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "max_price", query, &params.MaxPrice); err != nil {
		return apperr.InvalidParameter("max_price", err)
	}

	products, err := h.productSvc.ListProducts(r.Context(), params)
	if err != nil {
		return fmt.Errorf("product service list products: %w", err)
	}

	return writeJSON(w, http.StatusOK, products)
}

func (h *productHandler) SearchProducts(w http.ResponseWriter, r *http.Request) error {
	var (
		q         *string
		minRating *float64
	)
	query := r.URL.Query()

	if err := runtime.BindQueryParameter("form", true, false, "q", query, &q); err != nil {
		return apperr.InvalidParameter("q", err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "min_rating", query, &minRating); err != nil {
		return apperr.InvalidParameter("min_rating", err)
	}

	params := catalog.SearchParams{MinRating: minRating}
	if q != nil {
		params.Query = *q
	}

	products, err := h.productSvc.SearchProducts(r.Context(), params)
	if err != nil {
		return fmt.Errorf("product service search products: %w", err)
	}

	return writeJSON(w, http.StatusOK, products)
}

func (h *productHandler) GetProduct(w http.ResponseWriter, r *http.Request) error {
	id, err := productID(r)
	if err != nil {
		return err
	}

	product, err := h.productSvc.GetProduct(r.Context(), id)
	if err != nil {
		return fmt.Errorf("product service get product: %w", err)
	}

	return writeJSON(w, http.StatusOK, product)
}

func (h *productHandler) CreateProduct(w http.ResponseWriter, r *http.Request) error {
	var req createProductRequest
	if err := decodeBody(w, r, &req); err != nil {
		return err
	}

	params, err := req.toParams()
	if err != nil {
		return err
	}

	product, err := h.productSvc.CreateProduct(r.Context(), params)
	if err != nil {
		return fmt.Errorf("product service create product: %w", err)
	}

	w.Header().Set("Location", "/products/"+product.ID.String())
	return writeJSON(w, http.StatusCreated, product)
}

func (h *productHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) error {
	id, err := productID(r)
	if err != nil {
		return err
	}

	var patch model.ProductPatch
	if err := decodeBody(w, r, &patch); err != nil {
		return err
	}

	product, err := h.productSvc.UpdateProduct(r.Context(), id, patch)
	if err != nil {
		return fmt.Errorf("product service update product: %w", err)
	}

	return writeJSON(w, http.StatusOK, product)
}

func (h *productHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) error {
	id, err := productID(r)
	if err != nil {
		return err
	}

	product, err := h.productSvc.DeleteProduct(r.Context(), id)
	if err != nil {
		return fmt.Errorf("product service delete product: %w", err)
	}

	return writeJSON(w, http.StatusOK, deleteProductResponse{
		Message:        productDeletedMsg,
		DeletedProduct: product,
	})
}

func productID(r *http.Request) (uuid.UUID, error) {
	var id uuid.UUID
	if err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	}); err != nil {
		return uuid.Nil, apperr.InvalidParameter("id", err)
	}

	return id, nil
}

// decodeBody reads a single JSON object from the request body into dst.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var (
			typeErr   *json.UnmarshalTypeError
			syntaxErr *json.SyntaxError
			maxErr    *http.MaxBytesError
		)
		switch {
		case errors.Is(err, io.EOF):
			return apperr.InvalidBody("", "body must not be empty", err)
		case errors.As(err, &typeErr):
			return apperr.InvalidBody(typeErr.Field, "must be of type "+typeErr.Type.String(), err)
		case errors.As(err, &syntaxErr):
			return apperr.InvalidBody("", "malformed JSON", err)
		case errors.As(err, &maxErr):
			return apperr.InvalidBody("", "body is too large", err)
		default:
			return apperr.InvalidBody("", "malformed JSON", err)
		}
	}

	if dec.More() {
		return apperr.InvalidBody("", "body must contain a single JSON object", nil)
	}

	return nil
}

// writeJSON only fails before anything is written, so the caller can still
// send an error response.
func writeJSON(w http.ResponseWriter, status int, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal response: %w", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck
	w.Write(append(b, '\n'))

	return nil
}
