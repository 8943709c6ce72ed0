package handler

import (
	"net/http"
	"strconv"

	"github.com/buyitnow/backend/internal/domain"
	"github.com/buyitnow/backend/internal/service"
	"github.com/go-chi/chi/v5"
)

// ProductHandler handles catalog endpoints.
type ProductHandler struct {
	svc *service.ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(svc *service.ProductService) *ProductHandler {
	return &ProductHandler{svc: svc}
}

// List handles GET /api/products.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := &domain.ProductFilter{
		Keyword:  q.Get("keyword"),
		Category: q.Get("category"),
		Page:     pageParam(r),
	}
	if min, err := strconv.ParseFloat(q.Get("price[gte]"), 64); err == nil {
		filter.MinPrice = int64(min * 100)
	}
	if max, err := strconv.ParseFloat(q.Get("price[lte]"), 64); err == nil {
		filter.MaxPrice = int64(max * 100)
	}

	resp, err := h.svc.List(r.Context(), filter)
	if err != nil {
		Error(w, err)
		return
	}
	JSON(w, http.StatusOK, resp)
}

// Get handles GET /api/products/{id}.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		Error(w, err)
		return
	}
	JSON(w, http.StatusOK, map[string]interface{}{"product": product})
}

// Create handles POST /api/products (admin).
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateProductRequest
	if err := DecodeJSON(r, &req); err != nil {
		Error(w, err)
		return
	}

	product, err := h.svc.Create(r.Context(), &req)
	if err != nil {
		Error(w, err)
		return
	}
	JSON(w, http.StatusCreated, map[string]interface{}{"product": product})
}

// Update handles PUT /api/products/{id} (admin).
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateProductRequest
	if err := DecodeJSON(r, &req); err != nil {
		Error(w, err)
		return
	}

	product, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		Error(w, err)
		return
	}
	JSON(w, http.StatusOK, map[string]interface{}{"product": product})
}

// Delete handles DELETE /api/products/{id} (admin).
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		Error(w, err)
		return
	}
	JSON(w, http.StatusOK, map[string]bool{"success": true})
}
