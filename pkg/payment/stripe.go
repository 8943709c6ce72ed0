package payment

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
	"github.com/stripe/stripe-go/v82/webhook"
)

// StripeGateway implements Gateway against the Stripe API. The client is an
// explicit injected value, not the package-global key, so tests and multiple
// environments can construct their own.
type StripeGateway struct {
	api           *client.API
	webhookSecret string
}

// NewStripeGateway creates a StripeGateway with its own API client.
func NewStripeGateway(secretKey, webhookSecret string) *StripeGateway {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeGateway{api: api, webhookSecret: webhookSecret}
}

// CreateCheckoutSession creates a hosted Stripe Checkout session.
func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, p *SessionParams) (*Session, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		SuccessURL:         stripe.String(p.SuccessURL),
		CancelURL:          stripe.String(p.CancelURL),
		CustomerEmail:      stripe.String(p.CustomerEmail),
		ClientReferenceID:  stripe.String(p.ClientReferenceID),
	}
	params.Context = ctx
	for k, v := range p.Metadata {
		params.AddMetadata(k, v)
	}

	for _, li := range p.LineItems {
		params.LineItems = append(params.LineItems, &stripe.CheckoutSessionLineItemParams{
			Quantity: stripe.Int64(li.Quantity),
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(li.Currency),
				UnitAmount: stripe.Int64(li.UnitAmount),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name:     stripe.String(li.Name),
					Images:   stripe.StringSlice([]string{li.ImageURL}),
					Metadata: map[string]string{"productId": li.ProductID},
				},
			},
		})
	}

	s, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}
	return &Session{ID: s.ID, URL: s.URL}, nil
}

// VerifyEvent verifies the Stripe-Signature header over the raw payload and
// parses the event. For checkout.session.completed events the session
// object is extracted from the event data.
func (g *StripeGateway) VerifyEvent(payload []byte, signature string) (*Event, error) {
	ev, err := webhook.ConstructEvent(payload, signature, g.webhookSecret)
	if err != nil {
		return nil, fmt.Errorf("verify webhook signature: %w", err)
	}

	out := &Event{ID: ev.ID, Type: string(ev.Type)}
	if out.Type != EventCheckoutCompleted {
		return out, nil
	}

	var cs stripe.CheckoutSession
	if err := json.Unmarshal(ev.Data.Raw, &cs); err != nil {
		return nil, fmt.Errorf("parse checkout session from event: %w", err)
	}

	out.Session = CheckoutSession{
		ID:                cs.ID,
		ClientReferenceID: cs.ClientReferenceID,
		PaymentStatus:     string(cs.PaymentStatus),
		AmountTotal:       cs.AmountTotal,
		Metadata:          cs.Metadata,
	}
	if cs.PaymentIntent != nil {
		out.Session.PaymentIntentID = cs.PaymentIntent.ID
	}
	if cs.TotalDetails != nil {
		out.Session.AmountTax = cs.TotalDetails.AmountTax
	}
	return out, nil
}

// ListLineItems returns the session's line items in the order Stripe
// returns them.
func (g *StripeGateway) ListLineItems(ctx context.Context, sessionID string) ([]LineItemRecord, error) {
	params := &stripe.CheckoutSessionListLineItemsParams{
		Session: stripe.String(sessionID),
	}
	params.Context = ctx

	var records []LineItemRecord
	iter := g.api.CheckoutSessions.ListLineItems(params)
	for iter.Next() {
		li := iter.LineItem()
		rec := LineItemRecord{Quantity: li.Quantity}
		if li.Price != nil {
			rec.UnitAmount = li.Price.UnitAmount
			if li.Price.Product != nil {
				rec.ProductRef = li.Price.Product.ID
			}
		}
		records = append(records, rec)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("list line items for session %s: %w", sessionID, err)
	}
	return records, nil
}

// GetProduct fetches a Stripe product. Our catalog product ID travels in
// the product metadata set at session creation.
func (g *StripeGateway) GetProduct(ctx context.Context, productRef string) (*ProductDetail, error) {
	params := &stripe.ProductParams{}
	params.Context = ctx

	prod, err := g.api.Products.Get(productRef, params)
	if err != nil {
		return nil, fmt.Errorf("get product %s: %w", productRef, err)
	}

	detail := &ProductDetail{
		ProductID: prod.Metadata["productId"],
		Name:      prod.Name,
	}
	if len(prod.Images) > 0 {
		detail.ImageURL = prod.Images[0]
	}
	return detail, nil
}
