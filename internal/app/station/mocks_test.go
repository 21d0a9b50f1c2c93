package station

import (
	"context"
	"sync"

	"github.com/chanuu/kds-poc/internal/domain"
	"github.com/chanuu/kds-poc/internal/interfaces"
)

type mockSubscription struct {
	snapshots chan []domain.Order
	errs      chan error
	closeOnce sync.Once
	closed    chan struct{}
}

func newMockSubscription() *mockSubscription {
	return &mockSubscription{
		snapshots: make(chan []domain.Order, 8),
		errs:      make(chan error, 1),
		closed:    make(chan struct{}),
	}
}

func (s *mockSubscription) Snapshots() <-chan []domain.Order { return s.snapshots }
func (s *mockSubscription) Err() <-chan error                { return s.errs }

func (s *mockSubscription) Close() {
	s.closeOnce.Do(func() { close(s.closed) })
}

func (s *mockSubscription) isClosed() bool {
	select {
	case <-s.closed:
		return true
	default:
		return false
	}
}

type patchCall struct {
	orderID string
	patch   interfaces.OrderPatch
}

type mockRepository struct {
	mu sync.Mutex

	sub          *mockSubscription
	subscribeErr error
	subscribed   int
	onSubscribe  func()

	fetchable map[string]domain.Order
	fetchErr  error
	fetches   []string

	patchErr error
	patches  []patchCall
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		sub:       newMockSubscription(),
		fetchable: make(map[string]domain.Order),
	}
}

func (r *mockRepository) Subscribe(ctx context.Context) (interfaces.Subscription, error) {
	r.mu.Lock()
	r.subscribed++
	err := r.subscribeErr
	sub := r.sub
	hook := r.onSubscribe
	r.mu.Unlock()

	if hook != nil {
		hook()
	}
	if err != nil {
		return nil, err
	}
	return sub, nil
}

func (r *mockRepository) FetchOne(ctx context.Context, orderID string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fetches = append(r.fetches, orderID)
	if r.fetchErr != nil {
		return nil, r.fetchErr
	}
	order, ok := r.fetchable[orderID]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return &order, nil
}

func (r *mockRepository) PatchOrder(ctx context.Context, orderID string, patch interfaces.OrderPatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.patchErr != nil {
		return r.patchErr
	}
	r.patches = append(r.patches, patchCall{orderID: orderID, patch: patch})
	return nil
}

func (r *mockRepository) patchCalls() []patchCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	calls := make([]patchCall, len(r.patches))
	copy(calls, r.patches)
	return calls
}

func (r *mockRepository) fetchCalls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	calls := make([]string, len(r.fetches))
	copy(calls, r.fetches)
	return calls
}

func (r *mockRepository) subscribeCalls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.subscribed
}
