package payment

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockGatewayRoundTrip(t *testing.T) {
	g := NewMockGateway("whsec_test")

	session, err := g.CreateCheckoutSession(context.Background(), &SessionParams{
		ClientReferenceID: "user-1",
		LineItems: []SessionLineItem{
			{Name: "Widget", ProductID: "p1", UnitAmount: 1000, Quantity: 2, Currency: "usd"},
		},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, session.URL)

	records, err := g.ListLineItems(context.Background(), session.ID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, int64(1000), records[0].UnitAmount)

	detail, err := g.GetProduct(context.Background(), records[0].ProductRef)
	require.NoError(t, err)
	assert.Equal(t, "p1", detail.ProductID)
	assert.Equal(t, "Widget", detail.Name)
}

func TestMockGatewaySignature(t *testing.T) {
	g := NewMockGateway("whsec_test")

	payload, err := json.Marshal(&Event{ID: "evt_1", Type: EventCheckoutCompleted})
	require.NoError(t, err)

	ev, err := g.VerifyEvent(payload, g.Sign(payload))
	require.NoError(t, err)
	assert.Equal(t, "evt_1", ev.ID)

	_, err = g.VerifyEvent(payload, "forged")
	assert.Error(t, err)

	other := NewMockGateway("whsec_other")
	_, err = g.VerifyEvent(payload, other.Sign(payload))
	assert.Error(t, err)
}
