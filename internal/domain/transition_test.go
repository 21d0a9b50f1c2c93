package domain

import (
	"errors"
	"testing"
	"time"
)

func testOrder(statuses ...Status) *Order {
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return &Order{
		ID:            "o1",
		StationID:     "grill",
		TableNumber:   4,
		CustomerName:  "Maya",
		OverallStatus: DeriveOverallStatus(items(statuses...)),
		Items:         items(statuses...),
		CreatedAt:     created,
		UpdatedAt:     created,
	}
}

func TestApplyItemStatus(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 5, 0, 0, time.UTC)

	tests := []struct {
		name        string
		order       *Order
		itemID      string
		newStatus   Status
		wantErr     error
		wantOverall Status
	}{
		{"startCooking", testOrder(StatusPending, StatusPending), "a", StatusCooking, nil, StatusCooking},
		{"markReady", testOrder(StatusCooking, StatusReady), "a", StatusReady, nil, StatusReady},
		{"idempotentNoOp", testOrder(StatusCooking, StatusPending), "a", StatusCooking, nil, StatusCooking},
		{"skipPendingToReady", testOrder(StatusPending), "a", StatusReady, ErrInvalidTransition, ""},
		{"regressReadyToCooking", testOrder(StatusReady, StatusReady), "a", StatusCooking, ErrInvalidTransition, ""},
		{"regressReadyToPending", testOrder(StatusReady), "a", StatusPending, ErrInvalidTransition, ""},
		{"regressCookingToPending", testOrder(StatusCooking), "a", StatusPending, ErrInvalidTransition, ""},
		{"unknownItem", testOrder(StatusPending), "zzz", StatusCooking, ErrItemNotFound, ""},
		{"notAnItemStatus", testOrder(StatusPending), "a", StatusCompleted, ErrInvalidTransition, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			updated, overall, err := ApplyItemStatus(tt.order, tt.itemID, tt.newStatus, now)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ApplyItemStatus() err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ApplyItemStatus() err = %v", err)
			}

			if overall != tt.wantOverall {
				t.Errorf("overall = %q, want %q", overall, tt.wantOverall)
			}

			target := false
			for _, item := range updated {
				if item.ID == tt.itemID {
					target = true
					if item.Status != tt.newStatus {
						t.Errorf("item status = %q, want %q", item.Status, tt.newStatus)
					}
					if !item.UpdatedAt.Equal(now) {
						t.Errorf("item UpdatedAt = %v, want %v", item.UpdatedAt, now)
					}
				}
			}
			if !target {
				t.Error("target item missing from result")
			}
		})
	}
}

func TestApplyItemStatusCompletedOrderIsFrozen(t *testing.T) {
	order := testOrder(StatusReady, StatusReady)
	order.OverallStatus = StatusCompleted

	_, _, err := ApplyItemStatus(order, "a", StatusReady, time.Now())
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("err = %v, want ErrInvalidTransition", err)
	}
}

func TestApplyItemStatusDoesNotMutateOrder(t *testing.T) {
	order := testOrder(StatusPending, StatusPending)

	_, _, err := ApplyItemStatus(order, "a", StatusCooking, time.Now())
	if err != nil {
		t.Fatalf("ApplyItemStatus() err = %v", err)
	}

	if order.Items[0].Status != StatusPending {
		t.Error("input order was mutated")
	}
	if order.OverallStatus != StatusPending {
		t.Error("input overall status was mutated")
	}
}

func TestCompleteOrder(t *testing.T) {
	tests := []struct {
		name        string
		order       *Order
		wantErr     error
		wantChanged bool
	}{
		{"allReady", testOrder(StatusReady, StatusReady), nil, true},
		{"someCooking", testOrder(StatusReady, StatusCooking), ErrInvalidTransition, false},
		{"allPending", testOrder(StatusPending), ErrInvalidTransition, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, changed, err := CompleteOrder(tt.order)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("CompleteOrder() err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("CompleteOrder() err = %v", err)
			}
			if status != StatusCompleted {
				t.Errorf("status = %q, want %q", status, StatusCompleted)
			}
			if changed != tt.wantChanged {
				t.Errorf("changed = %v, want %v", changed, tt.wantChanged)
			}
		})
	}
}

func TestCompleteOrderIdempotent(t *testing.T) {
	order := testOrder(StatusReady)
	order.OverallStatus = StatusCompleted

	status, changed, err := CompleteOrder(order)
	if err != nil {
		t.Fatalf("CompleteOrder() err = %v", err)
	}
	if status != StatusCompleted || changed {
		t.Errorf("got (%q, %v), want (completed, false)", status, changed)
	}
}

// TestOrderLifecycle walks an order from all-pending through per-item
// transitions to completion, checking the derived aggregate at each step.
func TestOrderLifecycle(t *testing.T) {
	order := testOrder(StatusPending, StatusPending)
	now := order.CreatedAt

	step := func(itemID string, status Status, wantOverall Status) {
		t.Helper()
		now = now.Add(time.Minute)
		updated, overall, err := ApplyItemStatus(order, itemID, status, now)
		if err != nil {
			t.Fatalf("ApplyItemStatus(%s, %s): %v", itemID, status, err)
		}
		if overall != wantOverall {
			t.Fatalf("overall after (%s, %s) = %q, want %q", itemID, status, overall, wantOverall)
		}
		order.Items = updated
		order.OverallStatus = overall
		order.UpdatedAt = now
	}

	step("a", StatusCooking, StatusCooking)
	step("b", StatusCooking, StatusCooking)
	step("a", StatusReady, StatusCooking)
	step("b", StatusReady, StatusReady)

	status, changed, err := CompleteOrder(order)
	if err != nil || !changed {
		t.Fatalf("CompleteOrder() = (%q, %v, %v), want (completed, true, nil)", status, changed, err)
	}
	order.OverallStatus = status

	if _, _, err := ApplyItemStatus(order, "a", StatusReady, now); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("post-completion transition err = %v, want ErrInvalidTransition", err)
	}
}
