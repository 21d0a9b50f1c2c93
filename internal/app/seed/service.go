// Package seed bootstraps the demo: schema plus a handful of orders with
// all-pending items, mirroring the data set the display expects from the
// order entry system.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/chanuu/kds-poc/internal/adapter/logger"
	"github.com/chanuu/kds-poc/internal/domain"
	"github.com/chanuu/kds-poc/internal/interfaces"
)

type Service struct {
	orders    interfaces.OrderStore
	publisher interfaces.ChangePublisher
	logger    logger.Logger
}

func NewService(orders interfaces.OrderStore, publisher interfaces.ChangePublisher, logger logger.Logger) *Service {
	return &Service{
		orders:    orders,
		publisher: publisher,
		logger:    logger,
	}
}

// Run inserts the demo orders and notifies subscribers once per order so
// open displays pick them up immediately.
func (s *Service) Run(ctx context.Context) error {
	orders := DemoOrders(time.Now().UTC())

	if err := s.orders.InsertAll(ctx, orders); err != nil {
		return fmt.Errorf("failed to seed demo orders: %w", err)
	}

	for _, order := range orders {
		msg := interfaces.OrderChangedMessage{
			OrderID:    order.ID,
			ChangeType: interfaces.ChangeTypeCreated,
			OccurredAt: time.Now().UTC(),
		}
		if err := s.publisher.PublishOrderChanged(ctx, msg); err != nil {
			s.logger.Error("change_publish_failed", "Failed to publish seed notification", order.ID, nil, err)
		}
	}

	s.logger.Info("demo_seeded", fmt.Sprintf("Seeded %d demo orders", len(orders)), "", map[string]interface{}{
		"orders": len(orders),
	})

	return nil
}

// DemoOrders builds the demo data set: two stations, staggered creation
// times, every item pending.
func DemoOrders(now time.Time) []domain.Order {
	defs := []struct {
		station  string
		table    int
		customer string
		age      time.Duration
		items    []demoItem
	}{
		{"grill", 4, "Maya", 12 * time.Minute, []demoItem{
			{"Ribeye Steak", 1, "medium rare"},
			{"Grilled Corn", 2, ""},
		}},
		{"grill", 7, "Jonas", 6 * time.Minute, []demoItem{
			{"Lamb Skewers", 3, "extra sauce"},
		}},
		{"fry", 2, "Priya", 9 * time.Minute, []demoItem{
			{"Fries", 2, ""},
			{"Onion Rings", 1, "no salt"},
		}},
		{"fry", 11, "Tomas", 2 * time.Minute, []demoItem{
			{"Fried Chicken", 1, ""},
			{"Fries", 1, ""},
			{"Coleslaw", 1, ""},
		}},
	}

	orders := make([]domain.Order, 0, len(defs))
	for _, def := range defs {
		createdAt := now.Add(-def.age)
		items := make([]domain.OrderItem, 0, len(def.items))
		for _, it := range def.items {
			items = append(items, domain.OrderItem{
				ID:        uuid.NewString(),
				Name:      it.name,
				Quantity:  it.quantity,
				Notes:     it.notes,
				Status:    domain.StatusPending,
				UpdatedAt: createdAt,
			})
		}
		orders = append(orders, domain.Order{
			ID:            uuid.NewString(),
			StationID:     def.station,
			TableNumber:   def.table,
			CustomerName:  def.customer,
			OverallStatus: domain.StatusPending,
			Items:         items,
			CreatedAt:     createdAt,
			UpdatedAt:     createdAt,
		})
	}

	return orders
}

type demoItem struct {
	name     string
	quantity int
	notes    string
}
