package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tuanvumaihuynh/product-catalog/internal/apperr"
	"github.com/tuanvumaihuynh/product-catalog/internal/catalog"
	"github.com/tuanvumaihuynh/product-catalog/internal/event"
	"github.com/tuanvumaihuynh/product-catalog/internal/model"
	"github.com/tuanvumaihuynh/product-catalog/internal/repository"
	"github.com/tuanvumaihuynh/product-catalog/pkg/outbox"
	"github.com/tuanvumaihuynh/product-catalog/pkg/ptr"
)

type ProductService interface {
	// ListProducts returns the products matching params in insertion order.
	ListProducts(ctx context.Context, params catalog.FilterParams) ([]model.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (model.Product, error)
	CreateProduct(ctx context.Context, params catalog.CreateProductParams) (model.Product, error)
	// UpdateProduct applies the specified fields of patch to the product.
	UpdateProduct(ctx context.Context, id uuid.UUID, patch model.ProductPatch) (model.Product, error)
	// DeleteProduct removes the product and returns it as it was stored.
	DeleteProduct(ctx context.Context, id uuid.UUID) (model.Product, error)
	SearchProducts(ctx context.Context, params catalog.SearchParams) ([]model.Product, error)
	CountProducts(ctx context.Context) (int, error)
}

type productService struct {
	validator     *catalog.Validator
	productRepo   repository.ProductRepository
	outboxMsgRepo repository.OutboxMsgRepository
	now           func() time.Time
}

type Option func(*productService)

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *productService) {
		s.now = now
	}
}

func NewProductService(
	validator *catalog.Validator,
	productRepo repository.ProductRepository,
	outboxMsgRepo repository.OutboxMsgRepository,
	opts ...Option,
) ProductService {
	s := &productService{
		validator:     validator,
		productRepo:   productRepo,
		outboxMsgRepo: outboxMsgRepo,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *productService) ListProducts(ctx context.Context, params catalog.FilterParams) ([]model.Product, error) {
	products, err := s.listAll(ctx)
	if err != nil {
		return nil, err
	}

	filtered, err := catalog.Filter(products, params)
	if err != nil {
		return nil, fmt.Errorf("filter products: %w", err)
	}

	return filtered, nil
}

func (s *productService) GetProduct(ctx context.Context, id uuid.UUID) (model.Product, error) {
	var product model.Product
	if err := s.productRepo.View(ctx, func(r repository.ProductReader) error {
		p, ok := r.GetProduct(id)
		if !ok {
			return apperr.NotFound(id)
		}
		product = p
		return nil
	}); err != nil {
		return model.Product{}, fmt.Errorf("product repository view: %w", err)
	}

	return product, nil
}

func (s *productService) CreateProduct(ctx context.Context, params catalog.CreateProductParams) (model.Product, error) {
	product, err := s.validator.NewProduct(params)
	if err != nil {
		return model.Product{}, fmt.Errorf("validate product: %w", err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return model.Product{}, fmt.Errorf("generate uuid v7: %w", err)
	}

	now := s.now()
	product.ID = id
	product.CreatedAt = now
	product.UpdatedAt = now

	if err := s.productRepo.WithTx(ctx, func(tx repository.ProductWriter) error {
		if catalog.IsDuplicate(tx.ListAllProducts(), product.Name, nil) {
			return apperr.DuplicateName(product.Name)
		}

		tx.CreateProduct(product)

		return s.recordEvent(ctx, event.TopicProductCreated, product, now)
	}); err != nil {
		return model.Product{}, fmt.Errorf("product repository with tx: %w", err)
	}

	return product, nil
}

func (s *productService) UpdateProduct(ctx context.Context, id uuid.UUID, patch model.ProductPatch) (model.Product, error) {
	var updated model.Product
	if err := s.productRepo.WithTx(ctx, func(tx repository.ProductWriter) error {
		current, ok := tx.GetProduct(id)
		if !ok {
			return apperr.NotFound(id)
		}

		product, err := s.validator.ApplyPatch(current, patch)
		if err != nil {
			return fmt.Errorf("apply patch: %w", err)
		}

		if patch.Name.IsSpecified() && catalog.IsDuplicate(tx.ListAllProducts(), product.Name, &id) {
			return apperr.DuplicateName(product.Name)
		}

		now := s.now()
		if now.Before(product.CreatedAt) {
			now = product.CreatedAt
		}
		product.UpdatedAt = now

		if !tx.UpdateProduct(product) {
			return apperr.NotFound(id)
		}
		updated = product

		return s.recordEvent(ctx, event.TopicProductUpdated, product, now)
	}); err != nil {
		return model.Product{}, fmt.Errorf("product repository with tx: %w", err)
	}

	return updated, nil
}

func (s *productService) DeleteProduct(ctx context.Context, id uuid.UUID) (model.Product, error) {
	var deleted model.Product
	if err := s.productRepo.WithTx(ctx, func(tx repository.ProductWriter) error {
		product, ok := tx.DeleteProduct(id)
		if !ok {
			return apperr.NotFound(id)
		}
		deleted = product

		return s.recordEvent(ctx, event.TopicProductDeleted, product, s.now())
	}); err != nil {
		return model.Product{}, fmt.Errorf("product repository with tx: %w", err)
	}

	return deleted, nil
}

func (s *productService) SearchProducts(ctx context.Context, params catalog.SearchParams) ([]model.Product, error) {
	products, err := s.listAll(ctx)
	if err != nil {
		return nil, err
	}

	results, err := catalog.Search(products, params)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}

	return results, nil
}

func (s *productService) CountProducts(ctx context.Context) (int, error) {
	n, err := s.productRepo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("product repository count: %w", err)
	}

	return n, nil
}

func (s *productService) listAll(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	if err := s.productRepo.View(ctx, func(r repository.ProductReader) error {
		products = r.ListAllProducts()
		return nil
	}); err != nil {
		return nil, fmt.Errorf("product repository view: %w", err)
	}

	return products, nil
}

// recordEvent queues the product event in the outbox. It runs inside the
// product transaction, so a failure here discards the product change too.
func (s *productService) recordEvent(ctx context.Context, topic string, product model.Product, at time.Time) error {
	payload, err := json.Marshal(event.NewProductEvent(product, at))
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if err := s.outboxMsgRepo.CreateOutboxMsg(ctx, repository.CreateOutboxMsgParams{
		Topic:        topic,
		Headers:      outbox.BuildHeaders(ctx, topic),
		Payload:      payload,
		PartitionKey: ptr.New(product.ID.String()),
	}); err != nil {
		return fmt.Errorf("outbox msg repository create outbox msg: %w", err)
	}

	return nil
}
