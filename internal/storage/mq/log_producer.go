package mq

import (
	"context"
	"log/slog"
)

var _ Producer = (*LogProducer)(nil)

// LogProducer writes messages to the log instead of a broker. It is used
// when no Kafka address is configured.
type LogProducer struct {
	log *slog.Logger
}

func NewLogProducer(logger *slog.Logger) *LogProducer {
	return &LogProducer{log: logger.With(slog.String("producer", "log"))}
}

func (p *LogProducer) Produce(ctx context.Context, msg ProduceMsg) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	attrs := []any{
		slog.String("topic", msg.Topic),
		slog.Any("headers", msg.Headers),
		slog.String("payload", string(msg.Payload)),
	}
	if msg.PartitionKey != nil {
		attrs = append(attrs, slog.String("key", *msg.PartitionKey))
	}
	p.log.InfoContext(ctx, "message produced", attrs...)

	return nil
}
