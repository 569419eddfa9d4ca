package usecase

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/event"
	"github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/order/domain"
)

// savedEvent is one outbox write seen by fakeStore.
type savedEvent struct {
	EventType   event.EventType
	AggregateID string
	TraceID     string
	Payload     event.Payload
}

// fakeStore keeps orders and outbox writes in memory. WithTx restores the previous state
// when fn fails, so tests observe all-or-nothing writes.
type fakeStore struct {
	mu      sync.Mutex
	orders  map[uuid.UUID]domain.Order
	events  []savedEvent
	saveErr error
	calls   int
}

func newFakeStore(orders ...*domain.Order) *fakeStore {
	s := &fakeStore{orders: make(map[uuid.UUID]domain.Order)}
	for _, o := range orders {
		s.orders[o.ID] = *o
	}
	return s
}

func (s *fakeStore) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders := make(map[uuid.UUID]domain.Order, len(s.orders))
	for k, v := range s.orders {
		orders[k] = v
	}
	events := append([]savedEvent(nil), s.events...)

	if err := fn(ctx); err != nil {
		s.orders = orders
		s.events = events
		return err
	}
	return nil
}

func (s *fakeStore) Create(ctx context.Context, order *domain.Order) error {
	s.calls++
	s.orders[order.ID] = *order
	return nil
}

func (s *fakeStore) get(id uuid.UUID) (*domain.Order, error) {
	s.calls++
	order, ok := s.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return &order, nil
}

func (s *fakeStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return s.get(id)
}

func (s *fakeStore) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return s.get(id)
}

func (s *fakeStore) Update(ctx context.Context, order *domain.Order) error {
	s.calls++
	if _, ok := s.orders[order.ID]; !ok {
		return domain.ErrOrderNotFound
	}
	s.orders[order.ID] = *order
	return nil
}

func (s *fakeStore) ListByBuyer(ctx context.Context, buyerID uuid.UUID, offset, limit int) ([]*domain.Order, error) {
	return nil, nil
}

func (s *fakeStore) ListByProduct(ctx context.Context, productID uuid.UUID, offset, limit int) ([]*domain.Order, error) {
	return nil, nil
}

func (s *fakeStore) Save(
	ctx context.Context,
	eventType event.EventType,
	aggregateType, aggregateID, traceID string,
	payload event.Payload,
) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.events = append(s.events, savedEvent{
		EventType:   eventType,
		AggregateID: aggregateID,
		TraceID:     traceID,
		Payload:     payload,
	})
	return nil
}

func (s *fakeStore) status(id uuid.UUID) domain.OrderStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orders[id].Status
}

func (s *fakeStore) eventsOf(t event.EventType, aggregateID string) []savedEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []savedEvent
	for _, e := range s.events {
		if e.EventType == t && e.AggregateID == aggregateID {
			out = append(out, e)
		}
	}
	return out
}

type MockShippingAddressLookup struct {
	mock.Mock
}

func (m *MockShippingAddressLookup) GetShippingAddress(
	ctx context.Context,
	buyerID uuid.UUID,
) (*domain.ShippingAddress, error) {
	args := m.Called(ctx, buyerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ShippingAddress), args.Error(1)
}

type MockProductLookup struct {
	mock.Mock
}

func (m *MockProductLookup) GetProducts(ctx context.Context, ids []uuid.UUID) ([]*domain.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Product), args.Error(1)
}

type MockDeduplicator struct {
	mock.Mock
}

func (m *MockDeduplicator) Seen(ctx context.Context, eventID string) (bool, error) {
	args := m.Called(ctx, eventID)
	return args.Bool(0), args.Error(1)
}

func (m *MockDeduplicator) Mark(ctx context.Context, eventID string) error {
	args := m.Called(ctx, eventID)
	return args.Error(0)
}

func (m *MockDeduplicator) Close() error {
	return nil
}
