package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/buyitnow/backend/internal/domain"
	"github.com/buyitnow/backend/pkg/payment"
)

// fakeGateway implements payment.Gateway for tests. Signature "valid"
// verifies successfully and yields the configured event; anything else
// fails verification. Per-product errors and delays let tests simulate
// partial failures and adversarial completion order.
type fakeGateway struct {
	mu sync.Mutex

	event       *payment.Event
	lineItems   []payment.LineItemRecord
	products    map[string]payment.ProductDetail
	productErr  map[string]error
	productWait map[string]time.Duration
	createErr   error

	lastParams   *payment.SessionParams
	listCalls    int
	productCalls int
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		products:    make(map[string]payment.ProductDetail),
		productErr:  make(map[string]error),
		productWait: make(map[string]time.Duration),
	}
}

func (g *fakeGateway) CreateCheckoutSession(ctx context.Context, p *payment.SessionParams) (*payment.Session, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lastParams = p
	if g.createErr != nil {
		return nil, g.createErr
	}
	return &payment.Session{ID: "cs_test_1", URL: "https://pay.example.com/cs_test_1"}, nil
}

func (g *fakeGateway) VerifyEvent(payload []byte, signature string) (*payment.Event, error) {
	if signature != "valid" {
		return nil, errors.New("signature verification failed")
	}
	return g.event, nil
}

func (g *fakeGateway) ListLineItems(ctx context.Context, sessionID string) ([]payment.LineItemRecord, error) {
	g.mu.Lock()
	g.listCalls++
	g.mu.Unlock()
	return g.lineItems, nil
}

func (g *fakeGateway) GetProduct(ctx context.Context, productRef string) (*payment.ProductDetail, error) {
	g.mu.Lock()
	g.productCalls++
	wait := g.productWait[productRef]
	err := g.productErr[productRef]
	detail, ok := g.products[productRef]
	g.mu.Unlock()

	if wait > 0 {
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.New("unknown product " + productRef)
	}
	return &detail, nil
}

// memStore is an in-memory ReconciliationStore. Uniqueness on event ID and
// session ID is enforced under one lock, mirroring what the real store's
// constraints guarantee.
type memStore struct {
	mu     sync.Mutex
	events map[string]bool
	orders map[string]*domain.Order // keyed by session ID

	seenErr   error
	createErr error
	writes    int
}

func newMemStore() *memStore {
	return &memStore{
		events: make(map[string]bool),
		orders: make(map[string]*domain.Order),
	}
}

func (s *memStore) SeenEvent(ctx context.Context, eventID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seenErr != nil {
		return false, s.seenErr
	}
	return s.events[eventID], nil
}

func (s *memStore) CreateFromEvent(ctx context.Context, ev *domain.WebhookEvent, o *domain.Order) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return false, s.createErr
	}
	s.events[ev.ID] = true
	if _, exists := s.orders[o.SessionID]; exists {
		return false, nil
	}
	s.orders[o.SessionID] = o
	s.writes++
	return true, nil
}

func (s *memStore) FindBySessionID(ctx context.Context, sessionID string) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orders[sessionID], nil
}

func (s *memStore) orderCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}
