package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/oapi-codegen/nullable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/product-catalog/internal/apperr"
	"github.com/tuanvumaihuynh/product-catalog/internal/catalog"
	"github.com/tuanvumaihuynh/product-catalog/internal/event"
	"github.com/tuanvumaihuynh/product-catalog/internal/model"
	"github.com/tuanvumaihuynh/product-catalog/internal/repository"
	"github.com/tuanvumaihuynh/product-catalog/internal/service"
	"github.com/tuanvumaihuynh/product-catalog/pkg/ptr"
	"github.com/tuanvumaihuynh/product-catalog/pkg/validator"
)

// clock hands out strictly increasing instants.
type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

type fixture struct {
	svc    service.ProductService
	outbox repository.OutboxMsgRepository
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	outboxRepo := repository.NewOutboxMsgRepository()
	c := &clock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	svc := service.NewProductService(
		catalog.NewValidator(validator.MustNewDefaultValidator()),
		repository.NewProductRepository(),
		outboxRepo,
		service.WithClock(c.Now),
	)

	return fixture{svc: svc, outbox: outboxRepo}
}

func laptopParams() catalog.CreateProductParams {
	return catalog.CreateProductParams{
		Name:        "Laptop Gaming",
		Description: ptr.New("Laptop para juegos con RTX 4060"),
		Price:       1500.99,
		Stock:       10,
		Category:    "Tecnología",
		Rating:      4.5,
	}
}

func phoneParams() catalog.CreateProductParams {
	return catalog.CreateProductParams{
		Name:        "smartphone samsung",
		Description: ptr.New("Teléfono inteligente con 128GB de almacenamiento"),
		Price:       899.99,
		Stock:       25,
		Category:    "Electrónicos",
		Available:   ptr.New(true),
		Rating:      4.3,
	}
}

func pendingTopics(t *testing.T, repo repository.OutboxMsgRepository) []string {
	t.Helper()
	msgs, err := repo.ListUnprocessedOutboxMsgs(context.Background(), repository.ListUnprocessedOutboxMsgsParams{})
	require.NoError(t, err)

	topics := make([]string, 0, len(msgs))
	for _, m := range msgs {
		topics = append(topics, m.Topic)
	}
	return topics
}

func TestProductService_CreateProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("Should assign id and equal timestamps", func(t *testing.T) {
		f := newFixture(t)

		product, err := f.svc.CreateProduct(ctx, laptopParams())
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, product.ID)
		assert.Equal(t, product.CreatedAt, product.UpdatedAt)
		assert.Equal(t, "Laptop Gaming", product.Name)

		stored, err := f.svc.GetProduct(ctx, product.ID)
		require.NoError(t, err)
		assert.Equal(t, product, stored)
	})

	t.Run("Should store price rounded to two decimals", func(t *testing.T) {
		f := newFixture(t)
		params := laptopParams()
		params.Price = 19.995

		product, err := f.svc.CreateProduct(ctx, params)
		require.NoError(t, err)

		stored, err := f.svc.GetProduct(ctx, product.ID)
		require.NoError(t, err)
		assert.Equal(t, 20.0, stored.Price)
	})

	t.Run("Should reject names differing only by case", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.CreateProduct(ctx, laptopParams())
		require.NoError(t, err)

		params := phoneParams()
		params.Name = "LAPTOP GAMING"
		_, err = f.svc.CreateProduct(ctx, params)
		assert.ErrorIs(t, err, apperr.ProductDuplicatedErr)

		products, err := f.svc.ListProducts(ctx, catalog.FilterParams{})
		require.NoError(t, err)
		assert.Len(t, products, 1)
	})

	t.Run("Should record a created event", func(t *testing.T) {
		f := newFixture(t)
		product, err := f.svc.CreateProduct(ctx, laptopParams())
		require.NoError(t, err)

		msgs, err := f.outbox.ListUnprocessedOutboxMsgs(ctx, repository.ListUnprocessedOutboxMsgsParams{})
		require.NoError(t, err)
		require.Len(t, msgs, 1)
		assert.Equal(t, event.TopicProductCreated, msgs[0].Topic)
		assert.Equal(t, product.ID.String(), *msgs[0].PartitionKey)

		var ev event.ProductEvent
		require.NoError(t, json.Unmarshal(msgs[0].Payload, &ev))
		assert.Equal(t, product.ID.String(), ev.ProductID)
		assert.Equal(t, product.Name, ev.Name)
	})

	t.Run("Should not store nor record anything on validation error", func(t *testing.T) {
		f := newFixture(t)
		params := laptopParams()
		params.Price = 0

		_, err := f.svc.CreateProduct(ctx, params)
		assert.ErrorIs(t, err, apperr.InvalidPriceErr)

		products, err := f.svc.ListProducts(ctx, catalog.FilterParams{})
		require.NoError(t, err)
		assert.Empty(t, products)
		assert.Empty(t, pendingTopics(t, f.outbox))
	})
}

func TestProductService_UpdateProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("Should change only patched fields and bump updated_at", func(t *testing.T) {
		f := newFixture(t)
		created, err := f.svc.CreateProduct(ctx, laptopParams())
		require.NoError(t, err)

		updated, err := f.svc.UpdateProduct(ctx, created.ID, model.ProductPatch{
			Price: nullable.NewNullableWithValue(1299.99),
			Stock: nullable.NewNullableWithValue(15),
		})
		require.NoError(t, err)

		assert.Equal(t, 1299.99, updated.Price)
		assert.Equal(t, 15, updated.Stock)
		assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))

		want := created
		want.Price = 1299.99
		want.Stock = 15
		want.UpdatedAt = updated.UpdatedAt
		assert.Equal(t, want, updated)

		stored, err := f.svc.GetProduct(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, updated, stored)
	})

	t.Run("Should allow renaming a product to its own name in another case", func(t *testing.T) {
		f := newFixture(t)
		created, err := f.svc.CreateProduct(ctx, laptopParams())
		require.NoError(t, err)

		updated, err := f.svc.UpdateProduct(ctx, created.ID, model.ProductPatch{
			Name: nullable.NewNullableWithValue("laptop gaming"),
		})
		require.NoError(t, err)
		assert.Equal(t, "Laptop Gaming", updated.Name)
	})

	t.Run("Should reject renaming onto another product", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.CreateProduct(ctx, laptopParams())
		require.NoError(t, err)
		phone, err := f.svc.CreateProduct(ctx, phoneParams())
		require.NoError(t, err)

		_, err = f.svc.UpdateProduct(ctx, phone.ID, model.ProductPatch{
			Name:  nullable.NewNullableWithValue("laptop GAMING"),
			Price: nullable.NewNullableWithValue(1.0),
		})
		assert.ErrorIs(t, err, apperr.ProductDuplicatedErr)

		stored, err := f.svc.GetProduct(ctx, phone.ID)
		require.NoError(t, err)
		assert.Equal(t, phone, stored)
	})

	t.Run("Should reject invalid patch without partial change", func(t *testing.T) {
		f := newFixture(t)
		created, err := f.svc.CreateProduct(ctx, laptopParams())
		require.NoError(t, err)

		_, err = f.svc.UpdateProduct(ctx, created.ID, model.ProductPatch{
			Price: nullable.NewNullableWithValue(10.0),
			Stock: nullable.NewNullableWithValue(-1),
		})
		assert.ErrorIs(t, err, apperr.NegativeStockErr)

		stored, err := f.svc.GetProduct(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created, stored)
		assert.Equal(t, []string{event.TopicProductCreated}, pendingTopics(t, f.outbox))
	})

	t.Run("Should return not found for unknown id", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.UpdateProduct(ctx, uuid.New(), model.ProductPatch{
			Stock: nullable.NewNullableWithValue(1),
		})
		assert.ErrorIs(t, err, apperr.ProductNotFoundErr)
	})
}

func TestProductService_DeleteProduct(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	laptop, err := f.svc.CreateProduct(ctx, laptopParams())
	require.NoError(t, err)
	phone, err := f.svc.CreateProduct(ctx, phoneParams())
	require.NoError(t, err)

	deleted, err := f.svc.DeleteProduct(ctx, laptop.ID)
	require.NoError(t, err)
	assert.Equal(t, laptop, deleted)

	_, err = f.svc.GetProduct(ctx, laptop.ID)
	assert.ErrorIs(t, err, apperr.ProductNotFoundErr)

	_, err = f.svc.DeleteProduct(ctx, laptop.ID)
	assert.ErrorIs(t, err, apperr.ProductNotFoundErr)

	products, err := f.svc.ListProducts(ctx, catalog.FilterParams{})
	require.NoError(t, err)
	assert.Equal(t, []model.Product{phone}, products)

	assert.Equal(t, []string{
		event.TopicProductCreated,
		event.TopicProductCreated,
		event.TopicProductDeleted,
	}, pendingTopics(t, f.outbox))
}

func TestProductService_ListAndSearch(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	laptop, err := f.svc.CreateProduct(ctx, laptopParams())
	require.NoError(t, err)
	_, err = f.svc.CreateProduct(ctx, phoneParams())
	require.NoError(t, err)

	t.Run("Should search by name ignoring case", func(t *testing.T) {
		results, err := f.svc.SearchProducts(ctx, catalog.SearchParams{Query: "gaming"})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "Laptop Gaming", results[0].Name)
	})

	t.Run("Should filter by category", func(t *testing.T) {
		results, err := f.svc.ListProducts(ctx, catalog.FilterParams{Category: ptr.New("Tecnología")})
		require.NoError(t, err)
		assert.Equal(t, []model.Product{laptop}, results)
	})

	t.Run("Should keep insertion order", func(t *testing.T) {
		results, err := f.svc.ListProducts(ctx, catalog.FilterParams{})
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, "Laptop Gaming", results[0].Name)
		assert.Equal(t, "Smartphone Samsung", results[1].Name)
	})

	t.Run("Should propagate filter and search errors", func(t *testing.T) {
		_, err := f.svc.ListProducts(ctx, catalog.FilterParams{MaxPrice: ptr.New(0.0)})
		assert.ErrorIs(t, err, apperr.InvalidPriceErr)

		_, err = f.svc.SearchProducts(ctx, catalog.SearchParams{Query: "a"})
		assert.ErrorIs(t, err, apperr.InvalidSearchErr)
	})
}

func TestProductService_ConcurrentCreates(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		conflicts int
	)
	for range 20 {
		wg.Go(func() {
			_, err := f.svc.CreateProduct(ctx, laptopParams())
			if errors.Is(err, apperr.ProductDuplicatedErr) {
				mu.Lock()
				conflicts++
				mu.Unlock()
			}
		})
	}
	wg.Wait()

	products, err := f.svc.ListProducts(ctx, catalog.FilterParams{})
	require.NoError(t, err)
	assert.Len(t, products, 1)
	assert.Equal(t, 19, conflicts)

	n, err := f.svc.CountProducts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
