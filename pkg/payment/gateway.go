package payment

import "context"

// Event types we care about. Everything else is acknowledged and ignored.
const EventCheckoutCompleted = "checkout.session.completed"

// SessionLineItem is one normalized line of a session-creation request.
// UnitAmount is in minor currency units and ImageURL must be absolute —
// the provider cannot resolve relative references.
type SessionLineItem struct {
	Name       string
	ProductID  string
	ImageURL   string
	Currency   string
	UnitAmount int64
	Quantity   int64
}

// SessionParams describes a checkout session to create with the provider.
// Metadata is carried through the session and returned on the confirming
// webhook event, so the webhook path is self-contained.
type SessionParams struct {
	CustomerEmail     string
	ClientReferenceID string
	SuccessURL        string
	CancelURL         string
	Metadata          map[string]string
	LineItems         []SessionLineItem
}

// Session is a provider-issued checkout session.
type Session struct {
	ID  string
	URL string
}

// CheckoutSession is the session state carried on a webhook event.
// Amounts are the provider's authoritative totals in minor units.
type CheckoutSession struct {
	ID                string
	ClientReferenceID string
	PaymentIntentID   string
	PaymentStatus     string
	AmountTotal       int64
	AmountTax         int64
	Metadata          map[string]string
}

// Event is a verified provider webhook event.
type Event struct {
	ID      string
	Type    string
	Session CheckoutSession
}

// LineItemRecord is one opaque per-session line item as the provider
// stores it. ProductRef points at the provider's product object, which
// must be fetched separately to recover name, image, and our product ID.
type LineItemRecord struct {
	ProductRef string
	UnitAmount int64
	Quantity   int64
}

// ProductDetail is the provider-side product record behind a line item.
type ProductDetail struct {
	ProductID string
	Name      string
	ImageURL  string
}

// Gateway abstracts the external payment provider. Implementations must be
// safe for concurrent use; every request handler shares one injected value.
type Gateway interface {
	// CreateCheckoutSession creates a hosted payment session.
	CreateCheckoutSession(ctx context.Context, params *SessionParams) (*Session, error)
	// VerifyEvent checks the signature over the raw payload and parses the
	// event. An error here means the payload must not be trusted.
	VerifyEvent(payload []byte, signature string) (*Event, error)
	// ListLineItems returns the session's line items in provider order.
	ListLineItems(ctx context.Context, sessionID string) ([]LineItemRecord, error)
	// GetProduct fetches the provider-side product behind a line item.
	GetProduct(ctx context.Context, productRef string) (*ProductDetail, error)
}
