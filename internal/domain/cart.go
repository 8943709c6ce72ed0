package domain

// CartItem is one priced, quantified product entry supplied by the client
// at checkout time. It is consumed when the payment session is created and
// never persisted: the authoritative line items are reconstructed later
// from the provider's records, not from this struct.
type CartItem struct {
	Product  string  `json:"product" validate:"required"`
	Name     string  `json:"name" validate:"required"`
	Price    float64 `json:"price" validate:"required,gt=0"`
	Quantity int64   `json:"quantity" validate:"required,gt=0"`
	Image    string  `json:"image"`
}

// PriceCents returns the unit price in minor currency units.
func (c CartItem) PriceCents() int64 {
	// Round, don't truncate: 5.50*100 is not exactly 550 in float64.
	return int64(c.Price*100 + 0.5)
}

// CheckoutRequest is the validated input for creating a checkout session.
// ShippingInfo is an opaque serialized blob carried through the payment
// session metadata and stored verbatim on the resulting order.
type CheckoutRequest struct {
	Items        []CartItem `json:"items" validate:"dive"`
	ShippingInfo string     `json:"shippingInfo"`
}

// CheckoutResponse carries the provider's hosted payment page URL.
type CheckoutResponse struct {
	URL string `json:"url"`
}
