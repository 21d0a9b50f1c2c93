package rabbitmq

import (
	"context"
	"fmt"

	"github.com/chanuu/kds-poc/internal/interfaces"
)

type listener struct {
	conn     Connection
	exchange string
}

func NewListener(conn Connection, exchange string) interfaces.ChangeListener {
	return &listener{conn: conn, exchange: exchange}
}

// ListenChanges binds a temporary exclusive queue to the fanout exchange
// and feeds every delivery to the handler. It blocks until ctx is
// cancelled, the channel drops, or the handler fails; failures are
// returned as an error and not retried here, the subscription owner
// decides what a broken feed means.
func (l *listener) ListenChanges(ctx context.Context, handler interfaces.ChangeHandler) error {
	ch, err := l.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	closeChan := ch.NotifyClose()

	if err := ch.ExchangeDeclare(l.exchange, "fanout", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	// Temporary exclusive queue: every subscription sees every change.
	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	if err := ch.QueueBind(q.Name, "", l.exchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue: %w", err)
	}

	msgs, err := ch.Consume(q.Name, "", true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case err := <-closeChan:
			if err != nil {
				return fmt.Errorf("channel closed: %w", err)
			}
			return fmt.Errorf("channel closed")

		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("messages channel closed")
			}
			// A delivery the handler cannot act on ends the feed; the
			// snapshot contract has no delivered-but-stale state.
			if err := handler(ctx, msg.Body); err != nil {
				return fmt.Errorf("handler failed: %w", err)
			}
		}
	}
}
