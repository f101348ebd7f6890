package relay_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/product-catalog/internal/config"
	"github.com/tuanvumaihuynh/product-catalog/internal/log"
	"github.com/tuanvumaihuynh/product-catalog/internal/relay"
	"github.com/tuanvumaihuynh/product-catalog/internal/repository"
	"github.com/tuanvumaihuynh/product-catalog/internal/storage/mq"
)

type fakeProducer struct {
	mu       sync.Mutex
	produced []mq.ProduceMsg
	failures map[string]error
}

func (p *fakeProducer) Produce(_ context.Context, msg mq.ProduceMsg) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.failures[msg.Topic]; err != nil {
		return err
	}
	p.produced = append(p.produced, msg)
	return nil
}

func (p *fakeProducer) topics() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	topics := make([]string, 0, len(p.produced))
	for _, m := range p.produced {
		topics = append(topics, m.Topic)
	}
	return topics
}

func seed(t *testing.T, repo repository.OutboxMsgRepository, topics ...string) {
	t.Helper()
	for _, topic := range topics {
		require.NoError(t, repo.CreateOutboxMsg(context.Background(), repository.CreateOutboxMsgParams{
			Topic:   topic,
			Headers: map[string]string{"event-type": topic},
			Payload: json.RawMessage(`{}`),
		}))
	}
}

func pending(t *testing.T, repo repository.OutboxMsgRepository) []repository.ListUnprocessedOutboxMsgsResult {
	t.Helper()
	msgs, err := repo.ListUnprocessedOutboxMsgs(context.Background(), repository.ListUnprocessedOutboxMsgsParams{})
	require.NoError(t, err)
	return msgs
}

func TestService_RelayBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("Should publish and drop delivered messages", func(t *testing.T) {
		repo := repository.NewOutboxMsgRepository()
		seed(t, repo, "product.created", "product.updated", "product.deleted")
		producer := &fakeProducer{}
		svc := relay.NewService(config.Relay{BatchSize: 10, Concurrency: 2}, log.Discard(), repo, producer)

		n, err := svc.RelayBatch(ctx)
		require.NoError(t, err)

		assert.Equal(t, 3, n)
		assert.ElementsMatch(t, []string{"product.created", "product.updated", "product.deleted"}, producer.topics())
		assert.Empty(t, pending(t, repo))
	})

	t.Run("Should respect the batch size", func(t *testing.T) {
		repo := repository.NewOutboxMsgRepository()
		seed(t, repo, "product.created", "product.updated", "product.deleted")
		producer := &fakeProducer{}
		svc := relay.NewService(config.Relay{BatchSize: 2}, log.Discard(), repo, producer)

		n, err := svc.RelayBatch(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		left := pending(t, repo)
		require.Len(t, left, 1)
		assert.Equal(t, "product.deleted", left[0].Topic)
	})

	t.Run("Should keep failed messages pending", func(t *testing.T) {
		repo := repository.NewOutboxMsgRepository()
		seed(t, repo, "product.created", "product.updated")
		producer := &fakeProducer{failures: map[string]error{"product.updated": errors.New("broker down")}}
		svc := relay.NewService(config.Relay{BatchSize: 10}, log.Discard(), repo, producer)

		_, err := svc.RelayBatch(ctx)
		require.NoError(t, err)
		_, err = svc.RelayBatch(ctx)
		require.NoError(t, err)

		assert.Equal(t, []string{"product.created"}, producer.topics())
		left := pending(t, repo)
		require.Len(t, left, 1)
		assert.Equal(t, "product.updated", left[0].Topic)
		assert.Equal(t, 2, left[0].Attempts)
	})

	t.Run("Should do nothing without pending messages", func(t *testing.T) {
		producer := &fakeProducer{}
		svc := relay.NewService(config.Relay{BatchSize: 10}, log.Discard(), repository.NewOutboxMsgRepository(), producer)

		n, err := svc.RelayBatch(ctx)
		require.NoError(t, err)
		assert.Zero(t, n)
		assert.Empty(t, producer.topics())
	})
}

func TestService_Run(t *testing.T) {
	repo := repository.NewOutboxMsgRepository()
	seed(t, repo, "product.created")
	producer := &fakeProducer{}
	svc := relay.NewService(config.Relay{BatchSize: 10, Interval: 10 * time.Millisecond}, log.Discard(), repo, producer)

	cleanup := svc.Run(context.Background())
	defer cleanup()

	assert.Eventually(t, func() bool {
		return len(producer.topics()) == 1
	}, time.Second, 10*time.Millisecond)
}
