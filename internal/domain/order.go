package domain

import (
	"errors"
	"time"
)

// Order represents one kitchen order as stored in the shared collection.
// Orders are created by the front-of-house order entry system; the display
// stations only ever mutate item statuses and the derived overall status.
type Order struct {
	ID            string      `json:"id"`
	StationID     string      `json:"station_id"`
	TableNumber   int         `json:"table_number"`
	CustomerName  string      `json:"customer_name"`
	OverallStatus Status      `json:"overall_status"`
	Items         []OrderItem `json:"items"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// OrderItem represents a single line of an order. Items are never added or
// removed while the order is open; only Status and UpdatedAt change.
type OrderItem struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	Notes     string    `json:"notes,omitempty"`
	Status    Status    `json:"status"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Completed reports whether the order has reached its terminal status.
func (o *Order) Completed() bool {
	return o.OverallStatus == StatusCompleted
}

// Item returns the item with the given id, or nil when the order has no
// such item.
func (o *Order) Item(itemID string) *OrderItem {
	for i := range o.Items {
		if o.Items[i].ID == itemID {
			return &o.Items[i]
		}
	}
	return nil
}

// Validate applies the structural rules an order must satisfy before it
// enters the store.
func (o *Order) Validate() error {
	if o.ID == "" {
		return errors.New("order id is required")
	}
	if o.StationID == "" {
		return errors.New("station id is required")
	}
	if len(o.Items) == 0 {
		return errors.New("order must have at least one item")
	}
	for _, item := range o.Items {
		if item.ID == "" {
			return errors.New("item id is required")
		}
		if item.Quantity < 1 {
			return errors.New("item quantity must be positive")
		}
		if !IsItemStatus(item.Status) {
			return errors.New("invalid item status")
		}
	}
	return nil
}

var (
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrItemNotFound      = errors.New("item not found in order")
	ErrOrderNotFound     = errors.New("order not found")
	ErrWriteFailed       = errors.New("order store write failed")
)
