package repository_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/product-catalog/internal/repository"
	"github.com/tuanvumaihuynh/product-catalog/pkg/ptr"
)

func TestOutboxMsgRepository(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewOutboxMsgRepository()

	headers := map[string]string{"event-type": "product.created"}
	for _, topic := range []string{"product.created", "product.updated", "product.deleted"} {
		require.NoError(t, repo.CreateOutboxMsg(ctx, repository.CreateOutboxMsgParams{
			Topic:        topic,
			Headers:      headers,
			Payload:      json.RawMessage(`{"name":"Laptop Gaming"}`),
			PartitionKey: ptr.New("key"),
		}))
	}
	headers["event-type"] = "mutated"

	msgs, err := repo.ListUnprocessedOutboxMsgs(ctx, repository.ListUnprocessedOutboxMsgsParams{BatchSize: 2})
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "product.created", msgs[0].Topic)
	assert.Equal(t, "product.updated", msgs[1].Topic)
	assert.Equal(t, "product.created", msgs[0].Headers["event-type"])

	require.NoError(t, repo.BulkUpdateOutboxMsgs(ctx, repository.BulkUpdateOutboxMsgsParams{
		Items: []repository.BulkUpdateOutboxMsgsItem{
			{ID: msgs[0].ID},
			{ID: msgs[1].ID, Error: ptr.New("broker down")},
		},
	}))

	left, err := repo.ListUnprocessedOutboxMsgs(ctx, repository.ListUnprocessedOutboxMsgsParams{})
	require.NoError(t, err)
	require.Len(t, left, 2)
	assert.Equal(t, "product.updated", left[0].Topic)
	assert.Equal(t, 1, left[0].Attempts)
	assert.Equal(t, "product.deleted", left[1].Topic)
	assert.Zero(t, left[1].Attempts)

	t.Run("Should fail on a cancelled context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := repo.ListUnprocessedOutboxMsgs(cancelled, repository.ListUnprocessedOutboxMsgsParams{})
		assert.ErrorIs(t, err, context.Canceled)
	})
}
