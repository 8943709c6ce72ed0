package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/buyitnow/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCheckoutService(gw *fakeGateway) *CheckoutService {
	return NewCheckoutService(gw, "https://buyitnow.example.com", "usd", 2*time.Second)
}

func validCheckoutRequest() *domain.CheckoutRequest {
	return &domain.CheckoutRequest{
		Items: []domain.CartItem{
			{Product: "p1", Name: "Widget", Price: 10.00, Quantity: 2, Image: "/images/widget.jpg"},
			{Product: "p2", Name: "Gadget", Price: 5.50, Quantity: 1, Image: "https://cdn.example.com/gadget.jpg"},
		},
		ShippingInfo: "12 Main St, Springfield",
	}
}

func TestCreateSessionRejectsMissingBuyer(t *testing.T) {
	svc := newCheckoutService(newFakeGateway())

	_, err := svc.CreateSession(context.Background(), "", "", validCheckoutRequest())
	require.Error(t, err)
	appErr, ok := domain.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 401, appErr.Code)
	assert.Equal(t, "user not authenticated", appErr.Message)
}

func TestCreateSessionRejectsEmptyCart(t *testing.T) {
	svc := newCheckoutService(newFakeGateway())

	req := validCheckoutRequest()
	req.Items = nil
	_, err := svc.CreateSession(context.Background(), "user-1", "u@example.com", req)
	require.Error(t, err)
	appErr, ok := domain.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.Code)
	assert.Equal(t, "cart is empty", appErr.Message)
}

func TestCreateSessionRejectsMissingShipping(t *testing.T) {
	svc := newCheckoutService(newFakeGateway())

	req := validCheckoutRequest()
	req.ShippingInfo = ""
	_, err := svc.CreateSession(context.Background(), "user-1", "u@example.com", req)
	require.Error(t, err)
	appErr, ok := domain.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.Code)
	assert.Equal(t, "shipping information is required", appErr.Message)
}

func TestCreateSessionRejectsInvalidItem(t *testing.T) {
	svc := newCheckoutService(newFakeGateway())

	req := validCheckoutRequest()
	req.Items[0].Price = -1
	_, err := svc.CreateSession(context.Background(), "user-1", "u@example.com", req)
	require.Error(t, err)
	appErr, ok := domain.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 422, appErr.Code)
}

func TestCreateSessionNormalizesLineItems(t *testing.T) {
	gw := newFakeGateway()
	svc := newCheckoutService(gw)

	resp, err := svc.CreateSession(context.Background(), "user-1", "u@example.com", validCheckoutRequest())
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example.com/cs_test_1", resp.URL)

	params := gw.lastParams
	require.NotNil(t, params)
	assert.Equal(t, "user-1", params.ClientReferenceID)
	assert.Equal(t, "u@example.com", params.CustomerEmail)
	assert.Equal(t, "12 Main St, Springfield", params.Metadata["shippingInfo"])
	assert.Equal(t, "https://buyitnow.example.com/me/orders?order_success=true", params.SuccessURL)

	require.Len(t, params.LineItems, 2)
	// Decimal prices become minor units.
	assert.Equal(t, int64(1000), params.LineItems[0].UnitAmount)
	assert.Equal(t, int64(550), params.LineItems[1].UnitAmount)
	assert.Equal(t, "usd", params.LineItems[0].Currency)
	// Relative image refs are rewritten against the base URL; absolute
	// ones pass through.
	assert.Equal(t, "https://buyitnow.example.com/images/widget.jpg", params.LineItems[0].ImageURL)
	assert.Equal(t, "https://cdn.example.com/gadget.jpg", params.LineItems[1].ImageURL)
	assert.Equal(t, "p1", params.LineItems[0].ProductID)
}

func TestCreateSessionProviderFailure(t *testing.T) {
	gw := newFakeGateway()
	gw.createErr = errors.New("stripe: api_connection_error")
	svc := newCheckoutService(gw)

	_, err := svc.CreateSession(context.Background(), "user-1", "u@example.com", validCheckoutRequest())
	require.Error(t, err)
	appErr, ok := domain.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 500, appErr.Code)
	// Provider detail stays server-side.
	assert.Equal(t, "failed to create checkout session", appErr.Message)
}
