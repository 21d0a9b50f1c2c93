package interfaces

import (
	"context"
	"time"
)

// RabbitMQ messages

// OrderChangedMessage is published to the fanout exchange after every
// successful write to the order collection. It carries no order payload:
// subscribers re-read the collection so snapshots always reflect the
// store's commit order.
type OrderChangedMessage struct {
	OrderID    string    `json:"order_id"`
	ChangeType string    `json:"change_type"`
	OccurredAt time.Time `json:"occurred_at"`
}

const (
	ChangeTypeCreated = "created"
	ChangeTypePatched = "patched"
)

// Messaging interfaces (Adapter/RabbitMQ)

type ChangePublisher interface {
	PublishOrderChanged(ctx context.Context, msg OrderChangedMessage) error
}

// ChangeListener delivers raw change notifications from the fanout
// exchange. ListenChanges blocks until ctx is cancelled or the transport
// fails; it does not reconnect.
type ChangeListener interface {
	ListenChanges(ctx context.Context, handler ChangeHandler) error
}

type ChangeHandler func(ctx context.Context, body []byte) error
