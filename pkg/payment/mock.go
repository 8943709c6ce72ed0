package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"
)

// MockGateway is an in-memory Gateway for local development and tests.
// Sessions it creates are remembered so a hand-crafted webhook event can be
// replayed against them. Signatures are HMAC-SHA256 over the raw payload.
type MockGateway struct {
	secret string

	mu       sync.Mutex
	sessions map[string][]SessionLineItem
	products map[string]ProductDetail
	seq      int
}

// NewMockGateway creates a MockGateway with the given webhook secret.
func NewMockGateway(secret string) *MockGateway {
	return &MockGateway{
		secret:   secret,
		sessions: make(map[string][]SessionLineItem),
		products: make(map[string]ProductDetail),
	}
}

func (g *MockGateway) CreateCheckoutSession(ctx context.Context, p *SessionParams) (*Session, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.seq++
	id := fmt.Sprintf("cs_mock_%d", g.seq)
	g.sessions[id] = p.LineItems
	for _, li := range p.LineItems {
		ref := "prod_mock_" + li.ProductID
		g.products[ref] = ProductDetail{ProductID: li.ProductID, Name: li.Name, ImageURL: li.ImageURL}
	}
	return &Session{ID: id, URL: "https://pay.example.com/session/" + id}, nil
}

// VerifyEvent checks an HMAC-SHA256 hex signature and parses the payload
// as a JSON-encoded Event.
func (g *MockGateway) VerifyEvent(payload []byte, signature string) (*Event, error) {
	mac := hmac.New(sha256.New, []byte(g.secret))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(signature), []byte(expected)) {
		return nil, fmt.Errorf("invalid mock signature")
	}

	var ev Event
	if err := json.Unmarshal(payload, &ev); err != nil {
		return nil, fmt.Errorf("parse mock event: %w", err)
	}
	return &ev, nil
}

func (g *MockGateway) ListLineItems(ctx context.Context, sessionID string) ([]LineItemRecord, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	items, ok := g.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("unknown mock session %s", sessionID)
	}
	records := make([]LineItemRecord, len(items))
	for i, li := range items {
		records[i] = LineItemRecord{
			ProductRef: "prod_mock_" + li.ProductID,
			UnitAmount: li.UnitAmount,
			Quantity:   li.Quantity,
		}
	}
	return records, nil
}

func (g *MockGateway) GetProduct(ctx context.Context, productRef string) (*ProductDetail, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	detail, ok := g.products[productRef]
	if !ok {
		return nil, fmt.Errorf("unknown mock product %s", productRef)
	}
	return &detail, nil
}

// Sign computes the signature the mock gateway expects for a payload.
// Useful for exercising the webhook endpoint by hand.
func (g *MockGateway) Sign(payload []byte) string {
	mac := hmac.New(sha256.New, []byte(g.secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}
