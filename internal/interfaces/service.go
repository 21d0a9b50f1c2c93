package interfaces

import (
	"context"

	"github.com/chanuu/kds-poc/internal/domain"
)

// Service interfaces (Business Logic)

// StationService keeps one station's order list in sync with the shared
// collection and exposes the two transition operations the display offers.
type StationService interface {
	Start(ctx context.Context) error
	Stop()
	View() StationView
	Updates() <-chan StationView
	RequestItemStatusChange(ctx context.Context, orderID, itemID string, status domain.Status) error
	RequestOrderCompletion(ctx context.Context, orderID string) error
}

// StationView is what the display renders: the station's orders sorted by
// creation time, plus loading/error state and the status breakdown shown
// in the dashboard header.
type StationView struct {
	Orders  []domain.Order
	Loading bool
	Err     string
	Counts  StatusCounts
}

type StatusCounts struct {
	Pending int `json:"pending"`
	Cooking int `json:"cooking"`
	Ready   int `json:"ready"`
	Total   int `json:"total"`
}

// CountStatuses tallies orders by overall status for the dashboard badges.
func CountStatuses(orders []domain.Order) StatusCounts {
	var c StatusCounts
	for _, o := range orders {
		switch o.OverallStatus {
		case domain.StatusPending:
			c.Pending++
		case domain.StatusCooking:
			c.Cooking++
		case domain.StatusReady:
			c.Ready++
		}
	}
	c.Total = len(orders)
	return c
}
