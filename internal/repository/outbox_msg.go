package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"time"

	"github.com/google/uuid"

	"github.com/tuanvumaihuynh/product-catalog/internal/model"
	"github.com/tuanvumaihuynh/product-catalog/internal/storage/memory"
)

type CreateOutboxMsgParams struct {
	Topic        string
	Headers      map[string]string
	Payload      json.RawMessage
	PartitionKey *string
}

type ListUnprocessedOutboxMsgsParams struct {
	BatchSize int
}

type ListUnprocessedOutboxMsgsResult struct {
	ID           uuid.UUID
	Topic        string
	Headers      map[string]string
	Payload      json.RawMessage
	PartitionKey *string
	Attempts     int
}

type BulkUpdateOutboxMsgsItem struct {
	ID    uuid.UUID
	Error *string
}

type BulkUpdateOutboxMsgsParams struct {
	Items []BulkUpdateOutboxMsgsItem
}

type OutboxMsgRepository interface {
	CreateOutboxMsg(ctx context.Context, params CreateOutboxMsgParams) error
	// ListUnprocessedOutboxMsgs returns up to BatchSize pending messages, oldest first.
	ListUnprocessedOutboxMsgs(ctx context.Context, params ListUnprocessedOutboxMsgsParams) ([]ListUnprocessedOutboxMsgsResult, error)
	// BulkUpdateOutboxMsgs drops the messages relayed successfully and records
	// the error of the others, which stay pending.
	BulkUpdateOutboxMsgs(ctx context.Context, params BulkUpdateOutboxMsgsParams) error
}

type outboxMsgRepository struct {
	store *memory.Store[uuid.UUID, model.OutboxMsg]
	now   func() time.Time
}

func NewOutboxMsgRepository() OutboxMsgRepository {
	return &outboxMsgRepository{
		store: memory.NewStore(func(m model.OutboxMsg) uuid.UUID { return m.ID }),
		now:   time.Now,
	}
}

func (r *outboxMsgRepository) CreateOutboxMsg(ctx context.Context, params CreateOutboxMsgParams) error {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("generate uuid v7: %w", err)
	}

	msg := model.OutboxMsg{
		ID:           id,
		Topic:        params.Topic,
		Headers:      maps.Clone(params.Headers),
		Payload:      params.Payload,
		PartitionKey: params.PartitionKey,
		CreatedAt:    r.now(),
	}

	if err := r.store.WithTx(ctx, func(c *memory.Collection[uuid.UUID, model.OutboxMsg]) error {
		c.Append(msg)
		return nil
	}); err != nil {
		return fmt.Errorf("outbox msg create: %w", err)
	}

	return nil
}

func (r *outboxMsgRepository) ListUnprocessedOutboxMsgs(ctx context.Context, params ListUnprocessedOutboxMsgsParams) ([]ListUnprocessedOutboxMsgsResult, error) {
	var msgs []model.OutboxMsg
	if err := r.store.View(ctx, func(c *memory.Collection[uuid.UUID, model.OutboxMsg]) error {
		msgs = c.All()
		return nil
	}); err != nil {
		return nil, fmt.Errorf("outbox msg list unprocessed: %w", err)
	}

	if params.BatchSize > 0 && len(msgs) > params.BatchSize {
		msgs = msgs[:params.BatchSize]
	}

	results := make([]ListUnprocessedOutboxMsgsResult, 0, len(msgs))
	for _, msg := range msgs {
		results = append(results, ListUnprocessedOutboxMsgsResult{
			ID:           msg.ID,
			Topic:        msg.Topic,
			Headers:      msg.Headers,
			Payload:      msg.Payload,
			PartitionKey: msg.PartitionKey,
			Attempts:     msg.Attempts,
		})
	}

	return results, nil
}

func (r *outboxMsgRepository) BulkUpdateOutboxMsgs(ctx context.Context, params BulkUpdateOutboxMsgsParams) error {
	if err := r.store.WithTx(ctx, func(c *memory.Collection[uuid.UUID, model.OutboxMsg]) error {
		delivered := make(map[uuid.UUID]struct{}, len(params.Items))
		for _, item := range params.Items {
			if item.Error == nil {
				delivered[item.ID] = struct{}{}
				continue
			}

			msg, ok := c.Find(item.ID)
			if !ok {
				continue
			}
			msg.Attempts++
			msg.LastError = item.Error
			c.Replace(msg)
		}

		c.RemoveFunc(func(msg model.OutboxMsg) bool {
			_, ok := delivered[msg.ID]
			return ok
		})
		return nil
	}); err != nil {
		return fmt.Errorf("outbox msg bulk update: %w", err)
	}

	return nil
}
