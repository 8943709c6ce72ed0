package service

import (
	"context"
	"fmt"
	"time"

	"github.com/buyitnow/backend/internal/domain"
	"github.com/buyitnow/backend/pkg/payment"
	"golang.org/x/sync/errgroup"
)

// LineItemResolver reconstructs order line items from the provider's
// per-session records. Product details are fetched concurrently, but the
// result is assembled by original index, so output order and totals never
// depend on which fetch completes first. If any single fetch fails the
// whole resolution fails — a partial order must never be materialized.
type LineItemResolver struct {
	gateway payment.Gateway
	timeout time.Duration
}

// NewLineItemResolver creates a LineItemResolver. The timeout bounds the
// entire resolution, listing included.
func NewLineItemResolver(gateway payment.Gateway, timeout time.Duration) *LineItemResolver {
	return &LineItemResolver{gateway: gateway, timeout: timeout}
}

// Resolve returns the ordered line items for a confirmed session.
func (r *LineItemResolver) Resolve(ctx context.Context, sessionID string) ([]domain.OrderItem, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	records, err := r.gateway.ListLineItems(ctx, sessionID)
	if err != nil {
		return nil, domain.ErrUnavailable("failed to list session line items", err)
	}

	items := make([]domain.OrderItem, len(records))
	g, ctx := errgroup.WithContext(ctx)
	for i, rec := range records {
		i, rec := i, rec // per-iteration copies; module targets pre-1.22 loopvar semantics
		g.Go(func() error {
			detail, err := r.gateway.GetProduct(ctx, rec.ProductRef)
			if err != nil {
				return fmt.Errorf("line item %d (%s): %w", i, rec.ProductRef, err)
			}
			items[i] = domain.OrderItem{
				Product:    detail.ProductID,
				Name:       detail.Name,
				PriceCents: rec.UnitAmount,
				Quantity:   rec.Quantity,
				Image:      detail.ImageURL,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, domain.ErrPartialResolution("failed to resolve session line items", err)
	}
	return items, nil
}
