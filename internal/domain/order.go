package domain

import (
	"time"

	"github.com/google/uuid"
)

// Order statuses.
const (
	OrderStatusProcessing = "Processing"
	OrderStatusShipped    = "Shipped"
	OrderStatusDelivered  = "Delivered"
)

// OrderItem is one line of an order, reconstructed from the payment
// provider's per-session line-item records.
type OrderItem struct {
	Product    string `json:"product"`
	Name       string `json:"name"`
	PriceCents int64  `json:"priceCents"`
	Quantity   int64  `json:"quantity"`
	Image      string `json:"image"`
}

// PaymentInfo holds the provider's authoritative payment values. Amounts
// are minor currency units; they come from the verified webhook event,
// never from client-supplied cart data.
type PaymentInfo struct {
	TransactionID   string `json:"id"`
	Status          string `json:"status"`
	AmountPaidCents int64  `json:"amountPaidCents"`
	TaxPaidCents    int64  `json:"taxPaidCents"`
}

// Order is the durable record materialized from a confirmed checkout
// session. At most one order exists per session ID, enforced by a unique
// constraint in the store. Immutable after creation except for Status.
type Order struct {
	ID           string      `json:"id"`
	SessionID    string      `json:"sessionId"`
	UserID       string      `json:"userId"`
	ShippingInfo string      `json:"shippingInfo"`
	Payment      PaymentInfo `json:"-"`
	Items        []OrderItem `json:"orderItems"`
	Status       string      `json:"orderStatus"`
	CreatedAt    time.Time   `json:"createdAt"`
}

// WebhookEvent is a verified provider notification. ID is the provider's
// event identifier (the dedup key); SessionID ties it to a checkout session.
type WebhookEvent struct {
	ID        string
	Type      string
	SessionID string
}

// OrderItemResponse is the JSON shape for one order line, with the price
// as a decimal amount.
type OrderItemResponse struct {
	Product  string  `json:"product"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int64   `json:"quantity"`
	Image    string  `json:"image"`
}

// PaymentInfoResponse is the JSON shape for payment details.
type PaymentInfoResponse struct {
	ID         string  `json:"id"`
	Status     string  `json:"status"`
	AmountPaid float64 `json:"amountPaid"`
	TaxPaid    float64 `json:"taxPaid"`
}

// OrderResponse is the API response for an order.
type OrderResponse struct {
	ID           string              `json:"id"`
	SessionID    string              `json:"sessionId"`
	UserID       string              `json:"userId"`
	ShippingInfo string              `json:"shippingInfo"`
	PaymentInfo  PaymentInfoResponse `json:"paymentInfo"`
	OrderItems   []OrderItemResponse `json:"orderItems"`
	OrderStatus  string              `json:"orderStatus"`
	CreatedAt    time.Time           `json:"createdAt"`
}

// NewOrderResponse converts an Order to its API shape.
func NewOrderResponse(o *Order) *OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i, it := range o.Items {
		items[i] = OrderItemResponse{
			Product:  it.Product,
			Name:     it.Name,
			Price:    float64(it.PriceCents) / 100,
			Quantity: it.Quantity,
			Image:    it.Image,
		}
	}
	return &OrderResponse{
		ID:           o.ID,
		SessionID:    o.SessionID,
		UserID:       o.UserID,
		ShippingInfo: o.ShippingInfo,
		PaymentInfo: PaymentInfoResponse{
			ID:         o.Payment.TransactionID,
			Status:     o.Payment.Status,
			AmountPaid: float64(o.Payment.AmountPaidCents) / 100,
			TaxPaid:    float64(o.Payment.TaxPaidCents) / 100,
		},
		OrderItems:  items,
		OrderStatus: o.Status,
		CreatedAt:   o.CreatedAt,
	}
}

// OrderListResponse is the paginated order listing.
type OrderListResponse struct {
	OrdersCount int              `json:"ordersCount"`
	ResPerPage  int              `json:"resPerPage"`
	Orders      []*OrderResponse `json:"orders"`
}

// UpdateOrderRequest is the validated input for updating an order's status.
type UpdateOrderRequest struct {
	OrderStatus string `json:"orderStatus" validate:"required,oneof=Processing Shipped Delivered"`
}

// NewOrderID generates a new UUID for an order.
func NewOrderID() string {
	return uuid.New().String()
}
