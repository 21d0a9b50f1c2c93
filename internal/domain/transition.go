package domain

import "time"

// ApplyItemStatus validates a single item transition and returns the new
// item list together with the recomputed overall status. The receiver
// order is left untouched; the caller persists the result as one write.
//
// A transition is legal only while the order is not completed, and only
// when newStatus is either the item's current status (an idempotent no-op)
// or the status immediately following it in the preparation flow. Status
// regressions and skips are rejected even though the display only offers
// the legal next step.
func ApplyItemStatus(order *Order, itemID string, newStatus Status, now time.Time) ([]OrderItem, Status, error) {
	if order.Completed() {
		return nil, "", ErrInvalidTransition
	}
	if !IsItemStatus(newStatus) {
		return nil, "", ErrInvalidTransition
	}

	item := order.Item(itemID)
	if item == nil {
		return nil, "", ErrItemNotFound
	}

	if newStatus != item.Status {
		next, ok := NextItemStatus(item.Status)
		if !ok || next != newStatus {
			return nil, "", ErrInvalidTransition
		}
	}

	items := make([]OrderItem, len(order.Items))
	copy(items, order.Items)
	for i := range items {
		if items[i].ID == itemID {
			items[i].Status = newStatus
			items[i].UpdatedAt = now
		}
	}

	return items, DeriveOverallStatus(items), nil
}

// CompleteOrder validates order completion and returns the resulting
// overall status. Completion is allowed only once every item is ready,
// mirroring the gate under which the display offers the action. Completing
// an already completed order is a no-op; changed is false so the caller
// can skip the write.
func CompleteOrder(order *Order) (status Status, changed bool, err error) {
	if order.Completed() {
		return StatusCompleted, false, nil
	}
	if DeriveOverallStatus(order.Items) != StatusReady {
		return "", false, ErrInvalidTransition
	}
	return StatusCompleted, true, nil
}
