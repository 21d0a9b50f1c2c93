package amqp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/chanuu/kds-poc/internal/adapter/logger"
	"github.com/chanuu/kds-poc/internal/interfaces"
)

// ChangeHandler tails the raw change feed for operators: one line per
// write against the shared collection.
type ChangeHandler struct {
	logger logger.Logger
}

func NewChangeHandler(logger logger.Logger) *ChangeHandler {
	return &ChangeHandler{logger: logger}
}

func (h *ChangeHandler) HandleChange(ctx context.Context, body []byte) error {
	var msg interfaces.OrderChangedMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		// A malformed notification is skipped, not fatal: a handler error
		// ends the feed, and the tail should outlive one bad message.
		h.logger.Error("message_parse_failed", "Failed to parse change notification", "", nil, err)
		return nil
	}

	h.logger.Debug("change_received", fmt.Sprintf("Order %s %s", msg.OrderID, msg.ChangeType),
		msg.OrderID, map[string]interface{}{
			"order_id":    msg.OrderID,
			"change_type": msg.ChangeType,
		})

	fmt.Printf("Order %s: %s at %s\n", msg.OrderID, msg.ChangeType, msg.OccurredAt.Format("15:04:05"))

	return nil
}
