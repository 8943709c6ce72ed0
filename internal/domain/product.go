package domain

import (
	"time"

	"github.com/google/uuid"
)

// Product is a catalog entry. Prices are stored in minor currency units
// (cents) and only converted to decimals at the JSON edge.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	PriceCents  int64     `json:"-"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	Stock       int       `json:"stock"`
	ImageURL    string    `json:"image"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// SetPrice fills the decimal Price field from PriceCents.
func (p *Product) SetPrice() {
	p.Price = float64(p.PriceCents) / 100
}

// CreateProductRequest is the validated input for creating a product.
type CreateProductRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=200"`
	Description string  `json:"description" validate:"max=2000"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Category    string  `json:"category" validate:"required"`
	Stock       int     `json:"stock" validate:"gte=0"`
	ImageURL    string  `json:"image"`
}

// UpdateProductRequest is the validated input for updating a product.
// Nil fields are left unchanged.
type UpdateProductRequest struct {
	Name        *string  `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string  `json:"description" validate:"omitempty,max=2000"`
	Price       *float64 `json:"price" validate:"omitempty,gt=0"`
	Category    *string  `json:"category"`
	Stock       *int     `json:"stock" validate:"omitempty,gte=0"`
	ImageURL    *string  `json:"image"`
}

// ProductFilter narrows a catalog listing.
type ProductFilter struct {
	Keyword  string
	Category string
	MinPrice int64 // cents, 0 = unset
	MaxPrice int64 // cents, 0 = unset
	Page     int
}

// ProductListResponse is the paginated catalog listing.
type ProductListResponse struct {
	ProductsCount int        `json:"productsCount"`
	ResPerPage    int        `json:"resPerPage"`
	Products      []*Product `json:"products"`
}

// NewProductID generates a new UUID for a product.
func NewProductID() string {
	return uuid.New().String()
}
