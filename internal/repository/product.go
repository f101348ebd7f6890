package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/tuanvumaihuynh/product-catalog/internal/model"
	"github.com/tuanvumaihuynh/product-catalog/internal/storage/memory"
)

// ProductReader gives read access to the product collection.
type ProductReader interface {
	GetProduct(id uuid.UUID) (model.Product, bool)
	// ListAllProducts returns every product in insertion order.
	ListAllProducts() []model.Product
}

// ProductWriter gives write access to the product collection.
type ProductWriter interface {
	ProductReader
	CreateProduct(product model.Product)
	// UpdateProduct replaces the product with the same ID in place.
	UpdateProduct(product model.Product) bool
	DeleteProduct(id uuid.UUID) (model.Product, bool)
}

type ProductRepository interface {
	// View runs fn with a consistent read-only view of the products.
	View(ctx context.Context, fn func(ProductReader) error) error
	// WithTx runs fn with exclusive write access. If fn returns an error none
	// of its changes are kept.
	WithTx(ctx context.Context, fn func(ProductWriter) error) error
	// Count returns the number of stored products.
	Count(ctx context.Context) (int, error)
}

type productStore = memory.Store[uuid.UUID, model.Product]

type productRepository struct {
	store *productStore
}

func NewProductRepository() ProductRepository {
	return &productRepository{
		store: memory.NewStore(func(p model.Product) uuid.UUID { return p.ID }),
	}
}

func (r *productRepository) View(ctx context.Context, fn func(ProductReader) error) error {
	if err := r.store.View(ctx, func(c *memory.Collection[uuid.UUID, model.Product]) error {
		return fn(productTx{c})
	}); err != nil {
		return fmt.Errorf("product store view: %w", err)
	}

	return nil
}

func (r *productRepository) WithTx(ctx context.Context, fn func(ProductWriter) error) error {
	if err := r.store.WithTx(ctx, func(c *memory.Collection[uuid.UUID, model.Product]) error {
		return fn(productTx{c})
	}); err != nil {
		return fmt.Errorf("product store tx: %w", err)
	}

	return nil
}

func (r *productRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.store.View(ctx, func(c *memory.Collection[uuid.UUID, model.Product]) error {
		n = c.Len()
		return nil
	}); err != nil {
		return 0, fmt.Errorf("product store count: %w", err)
	}

	return n, nil
}

var _ ProductWriter = productTx{}

type productTx struct {
	c *memory.Collection[uuid.UUID, model.Product]
}

func (tx productTx) GetProduct(id uuid.UUID) (model.Product, bool) {
	return tx.c.Find(id)
}

func (tx productTx) ListAllProducts() []model.Product {
	return tx.c.All()
}

func (tx productTx) CreateProduct(product model.Product) {
	tx.c.Append(product)
}

func (tx productTx) UpdateProduct(product model.Product) bool {
	return tx.c.Replace(product)
}

func (tx productTx) DeleteProduct(id uuid.UUID) (model.Product, bool) {
	return tx.c.Remove(id)
}
