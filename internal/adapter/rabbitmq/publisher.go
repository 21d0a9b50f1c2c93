package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/chanuu/kds-poc/internal/interfaces"
)

type publisher struct {
	conn     Connection
	exchange string
}

func NewPublisher(conn Connection, exchange string) interfaces.ChangePublisher {
	return &publisher{conn: conn, exchange: exchange}
}

// PublishOrderChanged fans the notification out to every open subscription.
// Notifications are fire-and-forget markers; the collection itself is
// re-read by each subscriber, so a transient delivery is enough.
func (p *publisher) PublishOrderChanged(ctx context.Context, msg interfaces.OrderChangedMessage) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(p.exchange, "fanout", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	err = ch.Publish(p.exchange, "", false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	return nil
}
