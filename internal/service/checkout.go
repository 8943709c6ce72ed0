package service

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/buyitnow/backend/internal/domain"
	"github.com/buyitnow/backend/pkg/payment"
	"github.com/go-playground/validator/v10"
)

// CheckoutService turns a validated cart plus shipping info into a payment
// provider session and hands the buyer the redirect URL. It creates no
// local state: the order is materialized later, from the provider's
// confirming webhook event.
type CheckoutService struct {
	gateway  payment.Gateway
	baseURL  string
	currency string
	timeout  time.Duration
	validate *validator.Validate
}

// NewCheckoutService creates a new CheckoutService.
func NewCheckoutService(gateway payment.Gateway, baseURL, currency string, timeout time.Duration) *CheckoutService {
	return &CheckoutService{
		gateway:  gateway,
		baseURL:  baseURL,
		currency: currency,
		timeout:  timeout,
		validate: validator.New(),
	}
}

// CreateSession creates a checkout session for the authenticated buyer.
func (s *CheckoutService) CreateSession(ctx context.Context, userID, email string, req *domain.CheckoutRequest) (*domain.CheckoutResponse, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized("user not authenticated")
	}
	if len(req.Items) == 0 {
		return nil, domain.ErrBadRequest("cart is empty")
	}
	if req.ShippingInfo == "" {
		return nil, domain.ErrBadRequest("shipping information is required")
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}

	lineItems := make([]payment.SessionLineItem, len(req.Items))
	for i, item := range req.Items {
		lineItems[i] = payment.SessionLineItem{
			Name:       item.Name,
			ProductID:  item.Product,
			ImageURL:   s.absoluteImageURL(item.Image),
			Currency:   s.currency,
			UnitAmount: item.PriceCents(),
			Quantity:   item.Quantity,
		}
	}

	params := &payment.SessionParams{
		CustomerEmail:     email,
		ClientReferenceID: userID,
		SuccessURL:        s.baseURL + "/me/orders?order_success=true",
		CancelURL:         s.baseURL,
		Metadata:          map[string]string{"shippingInfo": req.ShippingInfo},
		LineItems:         lineItems,
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	session, err := s.gateway.CreateCheckoutSession(ctx, params)
	if err != nil {
		log.Printf("checkout session creation failed for user %s: %v", userID, err)
		return nil, domain.ErrInternal("failed to create checkout session", err)
	}

	return &domain.CheckoutResponse{URL: session.URL}, nil
}

// absoluteImageURL rewrites relative image references against the
// configured base URL. The provider can't resolve relative paths.
func (s *CheckoutService) absoluteImageURL(image string) string {
	if image == "" || strings.HasPrefix(image, "http://") || strings.HasPrefix(image, "https://") {
		return image
	}
	if !strings.HasPrefix(image, "/") {
		image = "/" + image
	}
	return s.baseURL + image
}
