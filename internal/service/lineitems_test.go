package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/buyitnow/backend/internal/domain"
	"github.com/buyitnow/backend/pkg/payment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePreservesProviderOrder(t *testing.T) {
	gw := newFakeGateway()
	for i := 0; i < 5; i++ {
		ref := fmt.Sprintf("prod_%d", i)
		gw.lineItems = append(gw.lineItems, payment.LineItemRecord{
			ProductRef: ref,
			UnitAmount: int64(100 * (i + 1)),
			Quantity:   int64(i + 1),
		})
		gw.products[ref] = payment.ProductDetail{
			ProductID: fmt.Sprintf("p%d", i),
			Name:      fmt.Sprintf("Product %d", i),
		}
		// Earlier items finish last; assembly must not care.
		gw.productWait[ref] = time.Duration(5-i) * 10 * time.Millisecond
	}

	resolver := NewLineItemResolver(gw, 2*time.Second)
	items, err := resolver.Resolve(context.Background(), "cs_1")
	require.NoError(t, err)
	require.Len(t, items, 5)

	for i, item := range items {
		assert.Equal(t, fmt.Sprintf("p%d", i), item.Product)
		assert.Equal(t, int64(100*(i+1)), item.PriceCents)
		assert.Equal(t, int64(i+1), item.Quantity)
	}
}

func TestResolveFailsWholeOnSingleError(t *testing.T) {
	gw := newFakeGateway()
	gw.lineItems = []payment.LineItemRecord{
		{ProductRef: "prod_0", UnitAmount: 100, Quantity: 1},
		{ProductRef: "prod_1", UnitAmount: 200, Quantity: 1},
		{ProductRef: "prod_2", UnitAmount: 300, Quantity: 1},
	}
	gw.products["prod_0"] = payment.ProductDetail{ProductID: "p0"}
	gw.products["prod_2"] = payment.ProductDetail{ProductID: "p2"}
	gw.productErr["prod_1"] = errors.New("fetch failed")

	resolver := NewLineItemResolver(gw, 2*time.Second)
	items, err := resolver.Resolve(context.Background(), "cs_1")
	require.Error(t, err)
	assert.Nil(t, items)
	assert.True(t, domain.IsRetryable(err))
}

func TestResolveEmptySession(t *testing.T) {
	gw := newFakeGateway()
	resolver := NewLineItemResolver(gw, 2*time.Second)

	items, err := resolver.Resolve(context.Background(), "cs_1")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestResolveTimesOut(t *testing.T) {
	gw := newFakeGateway()
	gw.lineItems = []payment.LineItemRecord{{ProductRef: "prod_slow", UnitAmount: 100, Quantity: 1}}
	gw.products["prod_slow"] = payment.ProductDetail{ProductID: "p0"}
	gw.productWait["prod_slow"] = time.Second

	resolver := NewLineItemResolver(gw, 20*time.Millisecond)
	_, err := resolver.Resolve(context.Background(), "cs_1")
	require.Error(t, err)
	assert.True(t, domain.IsRetryable(err))
}
