package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// OutboxMsg is a pending message recorded alongside a product change and
// later relayed to the message broker.
type OutboxMsg struct {
	ID           uuid.UUID
	Topic        string
	Headers      map[string]string
	Payload      json.RawMessage
	PartitionKey *string
	CreatedAt    time.Time
	Attempts     int
	LastError    *string
}
