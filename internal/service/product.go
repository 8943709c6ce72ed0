package service

import (
	"context"
	"time"

	"github.com/buyitnow/backend/internal/domain"
	"github.com/buyitnow/backend/internal/repository"
	"github.com/go-playground/validator/v10"
)

const productsPerPage = 10

// ProductService handles catalog reads and admin-gated mutations.
type ProductService struct {
	repo     *repository.ProductRepository
	validate *validator.Validate
}

// NewProductService creates a new ProductService.
func NewProductService(repo *repository.ProductRepository) *ProductService {
	return &ProductService{repo: repo, validate: validator.New()}
}

// List returns a filtered page of the catalog.
func (s *ProductService) List(ctx context.Context, filter *domain.ProductFilter) (*domain.ProductListResponse, error) {
	products, count, err := s.repo.List(ctx, filter, productsPerPage)
	if err != nil {
		return nil, domain.ErrInternal("failed to list products", err)
	}
	return &domain.ProductListResponse{
		ProductsCount: count,
		ResPerPage:    productsPerPage,
		Products:      products,
	}, nil
}

// Get returns one product by ID.
func (s *ProductService) Get(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, domain.ErrInternal("failed to find product", err)
	}
	if product == nil {
		return nil, domain.ErrNotFound("no product found with this ID")
	}
	return product, nil
}

// Create adds a product to the catalog.
func (s *ProductService) Create(ctx context.Context, req *domain.CreateProductRequest) (*domain.Product, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}

	now := time.Now()
	product := &domain.Product{
		ID:          domain.NewProductID(),
		Name:        req.Name,
		Description: req.Description,
		PriceCents:  int64(req.Price*100 + 0.5),
		Category:    req.Category,
		Stock:       req.Stock,
		ImageURL:    req.ImageURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, domain.ErrInternal("failed to create product", err)
	}
	product.SetPrice()
	return product, nil
}

// Update applies a partial update to a product.
func (s *ProductService) Update(ctx context.Context, id string, req *domain.UpdateProductRequest) (*domain.Product, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}

	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, domain.ErrInternal("failed to find product", err)
	}
	if product == nil {
		return nil, domain.ErrNotFound("no product found with this ID")
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		product.PriceCents = int64(*req.Price*100 + 0.5)
	}
	if req.Category != nil {
		product.Category = *req.Category
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if req.ImageURL != nil {
		product.ImageURL = *req.ImageURL
	}

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, domain.ErrInternal("failed to update product", err)
	}
	product.SetPrice()
	return product, nil
}

// Delete removes a product from the catalog.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.ErrInternal("failed to find product", err)
	}
	if product == nil {
		return domain.ErrNotFound("no product found with this ID")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return domain.ErrInternal("failed to delete product", err)
	}
	return nil
}
