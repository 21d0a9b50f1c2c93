package interfaces

import (
	"context"

	"github.com/chanuu/kds-poc/internal/domain"
)

// OrderPatch is the subset of mutable order fields a transition writes.
// Nil fields are left untouched by the store; updated_at is always
// stamped by the store on apply.
type OrderPatch struct {
	Items         []domain.OrderItem
	OverallStatus *domain.Status
}

// OrderStore is the Postgres-level view of the shared order collection
// (Adapter/Postgres).
type OrderStore interface {
	FetchAll(ctx context.Context) ([]domain.Order, error)
	FetchOne(ctx context.Context, orderID string) (*domain.Order, error)
	Patch(ctx context.Context, orderID string, patch OrderPatch) error
	InsertAll(ctx context.Context, orders []domain.Order) error
}

// OrderRepository is the live view of the shared order collection consumed
// by station synchronizers: full-collection snapshots pushed on every
// remote change, point reads, and partial updates (Adapter/Store).
type OrderRepository interface {
	// Subscribe opens a standing subscription to the order collection. The
	// returned subscription delivers one snapshot immediately with current
	// contents and another after every remote change, until Close is
	// called or an error is delivered. It is not retried internally.
	Subscribe(ctx context.Context) (Subscription, error)
	FetchOne(ctx context.Context, orderID string) (*domain.Order, error)
	PatchOrder(ctx context.Context, orderID string, patch OrderPatch) error
}

// Subscription is one standing snapshot feed. After Close no further
// snapshots or errors are delivered. At most one error is ever delivered;
// it ends the feed.
type Subscription interface {
	Snapshots() <-chan []domain.Order
	Err() <-chan error
	Close()
}
