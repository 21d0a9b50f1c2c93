package store

import (
	"context"
	"testing"

	"github.com/chanuu/kds-poc/internal/domain"
)

func TestSnapshotConflationKeepsLatest(t *testing.T) {
	sub := newSubscription(context.Background())
	defer sub.Close()

	sub.push([]domain.Order{order("o1")})
	sub.push([]domain.Order{order("o1"), order("o2")})

	snapshot := <-sub.Snapshots()
	if len(snapshot) != 2 {
		t.Errorf("got stale snapshot with %d orders, want the latest with 2", len(snapshot))
	}

	select {
	case <-sub.Snapshots():
		t.Error("second snapshot delivered, want conflation into one")
	default:
	}
}

func TestPushAfterCloseIsDropped(t *testing.T) {
	sub := newSubscription(context.Background())
	sub.Close()

	sub.push([]domain.Order{order("o1")})

	select {
	case <-sub.Snapshots():
		t.Error("snapshot delivered after Close")
	default:
	}
}
