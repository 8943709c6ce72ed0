package handler

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/buyitnow/backend/internal/domain"
	"github.com/buyitnow/backend/internal/service"
	"github.com/buyitnow/backend/pkg/payment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubGateway verifies signature "valid" and serves one session with one
// line item.
type stubGateway struct {
	event      *payment.Event
	productErr error
}

func (g *stubGateway) CreateCheckoutSession(ctx context.Context, p *payment.SessionParams) (*payment.Session, error) {
	return &payment.Session{ID: "cs_1", URL: "https://pay.example.com/cs_1"}, nil
}

func (g *stubGateway) VerifyEvent(payload []byte, signature string) (*payment.Event, error) {
	if signature != "valid" {
		return nil, errors.New("bad signature")
	}
	return g.event, nil
}

func (g *stubGateway) ListLineItems(ctx context.Context, sessionID string) ([]payment.LineItemRecord, error) {
	return []payment.LineItemRecord{{ProductRef: "prod_a", UnitAmount: 1000, Quantity: 1}}, nil
}

func (g *stubGateway) GetProduct(ctx context.Context, productRef string) (*payment.ProductDetail, error) {
	if g.productErr != nil {
		return nil, g.productErr
	}
	return &payment.ProductDetail{ProductID: "p1", Name: "Widget"}, nil
}

type stubStore struct {
	events map[string]bool
	orders map[string]*domain.Order
}

func newStubStore() *stubStore {
	return &stubStore{events: make(map[string]bool), orders: make(map[string]*domain.Order)}
}

func (s *stubStore) SeenEvent(ctx context.Context, eventID string) (bool, error) {
	return s.events[eventID], nil
}

func (s *stubStore) CreateFromEvent(ctx context.Context, ev *domain.WebhookEvent, o *domain.Order) (bool, error) {
	s.events[ev.ID] = true
	if _, ok := s.orders[o.SessionID]; ok {
		return false, nil
	}
	s.orders[o.SessionID] = o
	return true, nil
}

func (s *stubStore) FindBySessionID(ctx context.Context, sessionID string) (*domain.Order, error) {
	return s.orders[sessionID], nil
}

func newWebhookHandler(gw payment.Gateway, store service.ReconciliationStore) *WebhookHandler {
	resolver := service.NewLineItemResolver(gw, time.Second)
	return NewWebhookHandler(service.NewWebhookService(gw, store, resolver))
}

func postWebhook(t *testing.T, h *WebhookHandler, signature string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/webhook", bytes.NewBufferString(`{}`))
	if signature != "" {
		req.Header.Set("Stripe-Signature", signature)
	}
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestWebhookAcksProcessedEvent(t *testing.T) {
	gw := &stubGateway{event: &payment.Event{
		ID:   "evt_1",
		Type: payment.EventCheckoutCompleted,
		Session: payment.CheckoutSession{
			ID:                "cs_1",
			ClientReferenceID: "user-1",
			AmountTotal:       1000,
		},
	}}
	store := newStubStore()
	h := newWebhookHandler(gw, store)

	rec := postWebhook(t, h, "valid")
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, store.orders["cs_1"])
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	gw := &stubGateway{}
	store := newStubStore()
	h := newWebhookHandler(gw, store)

	rec := postWebhook(t, h, "forged")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, store.orders)
}

func TestWebhookRejectsMissingSignature(t *testing.T) {
	h := newWebhookHandler(&stubGateway{}, newStubStore())

	rec := postWebhook(t, h, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWebhookWithholdsAckOnPartialResolution(t *testing.T) {
	gw := &stubGateway{
		event: &payment.Event{
			ID:      "evt_1",
			Type:    payment.EventCheckoutCompleted,
			Session: payment.CheckoutSession{ID: "cs_1"},
		},
		productErr: errors.New("provider down"),
	}
	store := newStubStore()
	h := newWebhookHandler(gw, store)

	rec := postWebhook(t, h, "valid")
	// Non-2xx: the provider must retry this delivery.
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Empty(t, store.orders)
}

func TestWebhookAcksIrrelevantEventType(t *testing.T) {
	gw := &stubGateway{event: &payment.Event{ID: "evt_9", Type: "invoice.paid"}}
	store := newStubStore()
	h := newWebhookHandler(gw, store)

	rec := postWebhook(t, h, "valid")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, store.orders)
}

func TestWebhookAcksDuplicate(t *testing.T) {
	gw := &stubGateway{event: &payment.Event{
		ID:      "evt_1",
		Type:    payment.EventCheckoutCompleted,
		Session: payment.CheckoutSession{ID: "cs_1"},
	}}
	store := newStubStore()
	h := newWebhookHandler(gw, store)

	assert.Equal(t, http.StatusOK, postWebhook(t, h, "valid").Code)
	assert.Equal(t, http.StatusOK, postWebhook(t, h, "valid").Code)
	assert.Len(t, store.orders, 1)
}
