// Package store binds the Postgres order collection and the RabbitMQ
// change fanout into one live repository: full-collection snapshots pushed
// on every remote change, point reads, and partial updates that notify
// every other subscriber.
package store

import (
	"context"
	"time"

	"github.com/chanuu/kds-poc/internal/adapter/logger"
	"github.com/chanuu/kds-poc/internal/domain"
	"github.com/chanuu/kds-poc/internal/interfaces"
)

type Repository struct {
	orders    interfaces.OrderStore
	listener  interfaces.ChangeListener
	publisher interfaces.ChangePublisher
	logger    logger.Logger
}

func NewRepository(
	orders interfaces.OrderStore,
	listener interfaces.ChangeListener,
	publisher interfaces.ChangePublisher,
	logger logger.Logger,
) *Repository {
	return &Repository{
		orders:    orders,
		listener:  listener,
		publisher: publisher,
		logger:    logger,
	}
}

// Subscribe opens a standing snapshot feed: one snapshot immediately with
// current contents, then one after every change notification. The feed
// stops on the first transport error; it is not re-established here.
func (r *Repository) Subscribe(ctx context.Context) (interfaces.Subscription, error) {
	// The initial read happens before the subscription is handed out, so a
	// store that is unreachable surfaces as a Subscribe error rather than
	// an empty view.
	initial, err := r.orders.FetchAll(ctx)
	if err != nil {
		return nil, err
	}

	sub := newSubscription(ctx)
	sub.push(initial)

	go r.feed(sub)

	return sub, nil
}

func (r *Repository) feed(sub *subscription) {
	err := r.listener.ListenChanges(sub.ctx, func(ctx context.Context, body []byte) error {
		// The notification is only a marker. Re-reading the collection
		// keeps snapshot contents in the store's commit order regardless
		// of how notifications interleave.
		snapshot, err := r.orders.FetchAll(ctx)
		if err != nil {
			r.logger.Error("snapshot_refresh_failed", "Failed to re-read orders after change", "", nil, err)
			return err
		}
		sub.push(snapshot)
		return nil
	})

	if sub.ctx.Err() != nil {
		// Closed by the subscriber; not an error.
		return
	}
	sub.fail(err)
}

func (r *Repository) FetchOne(ctx context.Context, orderID string) (*domain.Order, error) {
	return r.orders.FetchOne(ctx, orderID)
}

// PatchOrder applies the merge and notifies subscribers. The write is the
// source of truth: a failed notification is logged and swallowed, the next
// successful write re-syncs everyone.
func (r *Repository) PatchOrder(ctx context.Context, orderID string, patch interfaces.OrderPatch) error {
	if err := r.orders.Patch(ctx, orderID, patch); err != nil {
		return err
	}

	msg := interfaces.OrderChangedMessage{
		OrderID:    orderID,
		ChangeType: interfaces.ChangeTypePatched,
		OccurredAt: time.Now().UTC(),
	}
	if err := r.publisher.PublishOrderChanged(ctx, msg); err != nil {
		r.logger.Error("change_publish_failed", "Failed to publish order change", orderID, nil, err)
	}

	return nil
}
