// Package station keeps one kitchen station's order view in sync with the
// shared order collection and turns user actions into validated store
// writes.
package station

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/chanuu/kds-poc/internal/adapter/logger"
	"github.com/chanuu/kds-poc/internal/domain"
	"github.com/chanuu/kds-poc/internal/interfaces"
)

// Service owns the subscription lifecycle for exactly one station context.
// The station identity and the repository are injected; running a second
// station means constructing a second Service. A station-id change is a
// Stop plus a new Service, never an in-place mutation.
type Service struct {
	repo      interfaces.OrderRepository
	logger    logger.Logger
	stationID string

	mu      sync.RWMutex
	view    interfaces.StationView
	byID    map[string]domain.Order
	sub     interfaces.Subscription
	stopped bool

	updates chan interfaces.StationView
	done    chan struct{}
}

func NewService(repo interfaces.OrderRepository, logger logger.Logger, stationID string) *Service {
	return &Service{
		repo:      repo,
		logger:    logger,
		stationID: stationID,
		byID:      make(map[string]domain.Order),
		updates:   make(chan interfaces.StationView, 1),
		done:      make(chan struct{}),
	}
}

// Start opens the subscription and begins republishing the station view on
// every snapshot. With an empty station id it publishes an empty,
// non-loading view and opens nothing.
func (s *Service) Start(ctx context.Context) error {
	if s.stationID == "" {
		s.publish(interfaces.StationView{})
		s.logger.Info("station_idle", "No station id configured, view stays empty", "", nil)
		return nil
	}

	s.publish(interfaces.StationView{Loading: true})

	sub, err := s.repo.Subscribe(ctx)
	if err != nil {
		s.publish(interfaces.StationView{Err: err.Error()})
		s.logger.Error("subscribe_failed", "Failed to subscribe to order collection", s.stationID, nil, err)
		return err
	}

	s.mu.Lock()
	if s.stopped {
		// Stop won the race while Subscribe was in flight; the feed must
		// not outlive it.
		s.mu.Unlock()
		sub.Close()
		return nil
	}
	s.sub = sub
	s.mu.Unlock()

	s.logger.Info("station_started", fmt.Sprintf("Station %s subscribed to order collection", s.stationID), s.stationID, nil)

	go s.loop(sub)

	return nil
}

// Stop releases the subscription. It is synchronous: once Stop returns, no
// further view update will be published, even if a snapshot is already in
// flight. In-flight writes are not cancelled, only their echoes become
// unobservable here.
func (s *Service) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	sub := s.sub
	s.mu.Unlock()

	close(s.done)
	if sub != nil {
		sub.Close()
	}

	s.logger.Info("station_stopped", fmt.Sprintf("Station %s released its subscription", s.stationID), s.stationID, nil)
}

func (s *Service) loop(sub interfaces.Subscription) {
	for {
		select {
		case <-s.done:
			return

		case snapshot := <-sub.Snapshots():
			s.applySnapshot(snapshot)

		case err := <-sub.Err():
			s.publish(interfaces.StationView{Err: err.Error()})
			s.logger.Error("subscription_lost", "Order collection subscription dropped", s.stationID, nil, err)
			sub.Close()
			return
		}
	}
}

// applySnapshot re-derives the station view from a full-collection
// snapshot: filter to this station, drop completed orders (they leave the
// active view), sort ascending by creation time.
func (s *Service) applySnapshot(snapshot []domain.Order) {
	var orders []domain.Order
	for _, order := range snapshot {
		if order.StationID != s.stationID || order.Completed() {
			continue
		}
		orders = append(orders, order)
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.Before(orders[j].CreatedAt)
	})

	byID := make(map[string]domain.Order, len(orders))
	for _, order := range orders {
		byID[order.ID] = order
	}

	s.mu.Lock()
	s.byID = byID
	s.mu.Unlock()

	s.publish(interfaces.StationView{
		Orders: orders,
		Counts: interfaces.CountStatuses(orders),
	})

	s.logger.Debug("view_updated", "Station view republished", s.stationID, map[string]interface{}{
		"orders": len(orders),
	})
}

// publish replaces the current view and offers it to the updates channel.
// After Stop it is inert.
func (s *Service) publish(view interfaces.StationView) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.view = view
	s.mu.Unlock()

	// One-slot conflation: a lagging observer sees only the newest view.
	for {
		select {
		case s.updates <- view:
			return
		default:
			select {
			case <-s.updates:
			default:
			}
		}
	}
}

// View returns the last published view.
func (s *Service) View() interfaces.StationView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view
}

// Updates delivers view republications. The channel is conflated, never
// closed; observers should also watch their own shutdown signal.
func (s *Service) Updates() <-chan interfaces.StationView {
	return s.updates
}

// RequestItemStatusChange validates and persists one item transition. The
// view is never mutated locally: the change becomes visible only when the
// store pushes the updated snapshot back, so a failed write leaves the
// published list untouched.
func (s *Service) RequestItemStatusChange(ctx context.Context, orderID, itemID string, status domain.Status) error {
	order, err := s.currentOrder(ctx, orderID)
	if err != nil {
		return err
	}

	items, overall, err := domain.ApplyItemStatus(order, itemID, status, time.Now().UTC())
	if err != nil {
		return err
	}

	patch := interfaces.OrderPatch{Items: items, OverallStatus: &overall}
	if err := s.repo.PatchOrder(ctx, orderID, patch); err != nil {
		s.logger.Error("patch_failed", "Failed to persist item transition", orderID, map[string]interface{}{
			"item_id": itemID,
			"status":  string(status),
		}, err)
		return err
	}

	s.logger.Debug("item_transition", "Item transition persisted", orderID, map[string]interface{}{
		"item_id":        itemID,
		"status":         string(status),
		"overall_status": string(overall),
	})

	return nil
}

// RequestOrderCompletion marks an all-ready order completed. Items are
// left as they are; completing a completed order is a no-op.
func (s *Service) RequestOrderCompletion(ctx context.Context, orderID string) error {
	order, err := s.currentOrder(ctx, orderID)
	if err != nil {
		return err
	}

	status, changed, err := domain.CompleteOrder(order)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}

	patch := interfaces.OrderPatch{OverallStatus: &status}
	if err := s.repo.PatchOrder(ctx, orderID, patch); err != nil {
		s.logger.Error("patch_failed", "Failed to persist order completion", orderID, nil, err)
		return err
	}

	s.logger.Debug("order_completed", "Order completion persisted", orderID, nil)

	return nil
}

// currentOrder prefers the live snapshot; orders outside it (another
// station's, or already completed) are fetched point-blank so the
// validator always sees current state.
func (s *Service) currentOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	s.mu.RLock()
	order, ok := s.byID[orderID]
	s.mu.RUnlock()
	if ok {
		return &order, nil
	}
	return s.repo.FetchOne(ctx, orderID)
}
