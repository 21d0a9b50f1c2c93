package store

import (
	"context"
	"sync"

	"github.com/chanuu/kds-poc/internal/domain"
)

// subscription carries snapshots from the change feed to one consumer.
// The snapshot channel holds a single slot and is conflated: when the
// consumer lags, the stale snapshot is dropped for the newest one. A
// consumer that always re-renders from the latest snapshot cannot tell
// the difference.
type subscription struct {
	ctx       context.Context
	cancel    context.CancelFunc
	snapshots chan []domain.Order
	errs      chan error
	closeOnce sync.Once
}

func newSubscription(parent context.Context) *subscription {
	ctx, cancel := context.WithCancel(parent)
	return &subscription{
		ctx:       ctx,
		cancel:    cancel,
		snapshots: make(chan []domain.Order, 1),
		errs:      make(chan error, 1),
	}
}

func (s *subscription) Snapshots() <-chan []domain.Order {
	return s.snapshots
}

func (s *subscription) Err() <-chan error {
	return s.errs
}

// Close tears the feed down. It returns immediately; the feed goroutine
// observes the cancelled context and stops pushing.
func (s *subscription) Close() {
	s.closeOnce.Do(s.cancel)
}

// push delivers a snapshot, replacing an undelivered one. Only the feed
// goroutine calls this. After Close it drops the snapshot: Close promises
// that no delivery fires afterwards.
func (s *subscription) push(snapshot []domain.Order) {
	if s.ctx.Err() != nil {
		return
	}
	for {
		select {
		case s.snapshots <- snapshot:
			return
		default:
			select {
			case <-s.snapshots:
			default:
			}
		}
	}
}

// fail delivers the terminal error. The feed stops afterwards.
func (s *subscription) fail(err error) {
	select {
	case s.errs <- err:
	default:
	}
}
