package event

import (
	"context"
	"log/slog"
	"time"

	"github.com/tuanvumaihuynh/product-catalog/internal/model"
)

const (
	TopicProductCreated = "product.created"
	TopicProductUpdated = "product.updated"
	TopicProductDeleted = "product.deleted"
)

// Topics lists every topic the catalog publishes to.
var Topics = []string{TopicProductCreated, TopicProductUpdated, TopicProductDeleted}

type ProductEvent struct {
	ProductID  string    `json:"product_id"`
	Name       string    `json:"name"`
	Category   string    `json:"category"`
	Price      float64   `json:"price"`
	Stock      int       `json:"stock"`
	Available  bool      `json:"available"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewProductEvent snapshots product as an event that occurred at occurredAt.
func NewProductEvent(product model.Product, occurredAt time.Time) ProductEvent {
	return ProductEvent{
		ProductID:  product.ID.String(),
		Name:       product.Name,
		Category:   product.Category,
		Price:      product.Price,
		Stock:      product.Stock,
		Available:  product.Available,
		OccurredAt: occurredAt,
	}
}

func (s *Service) handleProductEvent(ctx context.Context, topic string, ev ProductEvent) error {
	s.logger.InfoContext(ctx, "handling product event",
		slog.String("topic", topic),
		slog.Any("event", ev),
	)
	return nil
}
