package service

import (
	"context"
	"log"
	"time"

	"github.com/buyitnow/backend/internal/domain"
	"github.com/buyitnow/backend/pkg/payment"
)

// ReconciliationStore is the durable side of webhook processing: the
// events-seen set and the orders table. Implementations must enforce
// uniqueness on event ID and session ID at the storage layer; concurrent
// duplicate deliveries are resolved there, not by application locks.
type ReconciliationStore interface {
	SeenEvent(ctx context.Context, eventID string) (bool, error)
	CreateFromEvent(ctx context.Context, ev *domain.WebhookEvent, o *domain.Order) (bool, error)
	FindBySessionID(ctx context.Context, sessionID string) (*domain.Order, error)
}

// WebhookService consumes asynchronous payment provider events and
// materializes orders exactly once. Pipeline per event:
// verify signature → filter type → dedup on event ID → resolve line items
// → create order under storage uniqueness constraints.
type WebhookService struct {
	gateway  payment.Gateway
	store    ReconciliationStore
	resolver *LineItemResolver
}

// NewWebhookService creates a new WebhookService.
func NewWebhookService(gateway payment.Gateway, store ReconciliationStore, resolver *LineItemResolver) *WebhookService {
	return &WebhookService{gateway: gateway, store: store, resolver: resolver}
}

// HandleEvent processes one raw webhook delivery. A nil return means the
// delivery should be acknowledged (processed, duplicate, or irrelevant
// type). A retryable error means acknowledgment must be withheld so the
// provider redelivers; any other error is terminal.
func (s *WebhookService) HandleEvent(ctx context.Context, payload []byte, signature string) error {
	if signature == "" {
		log.Printf("webhook rejected: missing signature")
		return domain.ErrUnauthorized("missing webhook signature")
	}

	// Nothing in the payload is trusted until the signature checks out.
	event, err := s.gateway.VerifyEvent(payload, signature)
	if err != nil {
		log.Printf("webhook rejected: signature verification failed: %v", err)
		return domain.ErrUnauthorized("invalid webhook signature")
	}

	if event.Type != payment.EventCheckoutCompleted {
		// Acknowledged and ignored; the provider stops retrying.
		return nil
	}

	// Fast-path dedup on the provider's event ID. This runs before any
	// provider call so a replayed delivery costs one SELECT, not a full
	// line-item fetch. The race window it leaves (two concurrent first
	// deliveries) is closed by the store's uniqueness constraints below.
	seen, err := s.store.SeenEvent(ctx, event.ID)
	if err != nil {
		return domain.ErrUnavailable("order store unavailable", err)
	}
	if seen {
		log.Printf("webhook event %s already processed, acknowledging", event.ID)
		return nil
	}

	items, err := s.resolver.Resolve(ctx, event.Session.ID)
	if err != nil {
		// Retryable: no order exists yet and the event is not marked seen,
		// so the provider's redelivery will run the pipeline again.
		return err
	}

	order := s.buildOrder(event, items)
	created, err := s.store.CreateFromEvent(ctx, &domain.WebhookEvent{
		ID:        event.ID,
		Type:      event.Type,
		SessionID: event.Session.ID,
	}, order)
	if err != nil {
		return domain.ErrUnavailable("failed to persist order", err)
	}

	if created {
		log.Printf("order %s created for session %s (event %s)", order.ID, order.SessionID, event.ID)
		return nil
	}

	// A distinct event for an already-materialized session. Report the
	// pre-existing order and acknowledge.
	existing, err := s.store.FindBySessionID(ctx, order.SessionID)
	if err == nil && existing != nil {
		log.Printf("order %s already exists for session %s, acknowledging event %s", existing.ID, order.SessionID, event.ID)
	}
	return nil
}

// buildOrder assembles the durable order from the verified event. Every
// payment field comes from the provider's authoritative session totals,
// never from anything a client sent at checkout time.
func (s *WebhookService) buildOrder(event *payment.Event, items []domain.OrderItem) *domain.Order {
	return &domain.Order{
		ID:           domain.NewOrderID(),
		SessionID:    event.Session.ID,
		UserID:       event.Session.ClientReferenceID,
		ShippingInfo: event.Session.Metadata["shippingInfo"],
		Payment: domain.PaymentInfo{
			TransactionID:   event.Session.PaymentIntentID,
			Status:          event.Session.PaymentStatus,
			AmountPaidCents: event.Session.AmountTotal,
			TaxPaidCents:    event.Session.AmountTax,
		},
		Items:     items,
		Status:    domain.OrderStatusProcessing,
		CreatedAt: time.Now(),
	}
}
