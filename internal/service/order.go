package service

import (
	"context"

	"github.com/buyitnow/backend/internal/domain"
	"github.com/buyitnow/backend/internal/repository"
	"github.com/go-playground/validator/v10"
)

// Orders per page on listing endpoints.
const ordersPerPage = 10

// OrderService is the query/CRUD surface over orders the webhook pipeline
// produced. It never creates orders; that is WebhookService's job.
type OrderService struct {
	repo     *repository.OrderRepository
	validate *validator.Validate
}

// NewOrderService creates a new OrderService.
func NewOrderService(repo *repository.OrderRepository) *OrderService {
	return &OrderService{repo: repo, validate: validator.New()}
}

// List returns a page of all orders (admin).
func (s *OrderService) List(ctx context.Context, page int) (*domain.OrderListResponse, error) {
	orders, count, err := s.repo.List(ctx, ordersPerPage, page)
	if err != nil {
		return nil, domain.ErrInternal("failed to list orders", err)
	}
	return newOrderList(orders, count), nil
}

// ListMine returns a page of the authenticated buyer's orders.
func (s *OrderService) ListMine(ctx context.Context, userID string, page int) (*domain.OrderListResponse, error) {
	orders, count, err := s.repo.ListByUserID(ctx, userID, ordersPerPage, page)
	if err != nil {
		return nil, domain.ErrInternal("failed to list orders", err)
	}
	return newOrderList(orders, count), nil
}

// Get returns one order by ID.
func (s *OrderService) Get(ctx context.Context, id string) (*domain.OrderResponse, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, domain.ErrInternal("failed to find order", err)
	}
	if order == nil {
		return nil, domain.ErrNotFound("no order found with this ID")
	}
	return domain.NewOrderResponse(order), nil
}

// UpdateStatus transitions an order's status.
func (s *OrderService) UpdateStatus(ctx context.Context, id string, req *domain.UpdateOrderRequest) (*domain.OrderResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}

	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, domain.ErrInternal("failed to find order", err)
	}
	if order == nil {
		return nil, domain.ErrNotFound("no order found with this ID")
	}

	if err := s.repo.UpdateStatus(ctx, id, req.OrderStatus); err != nil {
		return nil, domain.ErrInternal("failed to update order", err)
	}
	order.Status = req.OrderStatus
	return domain.NewOrderResponse(order), nil
}

// Delete removes an order.
func (s *OrderService) Delete(ctx context.Context, id string) error {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.ErrInternal("failed to find order", err)
	}
	if order == nil {
		return domain.ErrNotFound("no order found with this ID")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return domain.ErrInternal("failed to delete order", err)
	}
	return nil
}

// CanReview reports whether the buyer has purchased the given product.
func (s *OrderService) CanReview(ctx context.Context, userID, productID string) (bool, error) {
	purchased, err := s.repo.HasUserPurchased(ctx, userID, productID)
	if err != nil {
		return false, domain.ErrInternal("failed to check purchases", err)
	}
	return purchased, nil
}

func newOrderList(orders []*domain.Order, count int) *domain.OrderListResponse {
	resp := &domain.OrderListResponse{
		OrdersCount: count,
		ResPerPage:  ordersPerPage,
		Orders:      make([]*domain.OrderResponse, len(orders)),
	}
	for i, o := range orders {
		resp.Orders[i] = domain.NewOrderResponse(o)
	}
	return resp
}
