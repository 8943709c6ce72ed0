package handler

import (
	"net/http"

	"github.com/buyitnow/backend/internal/contextkeys"
	"github.com/buyitnow/backend/internal/domain"
	"github.com/buyitnow/backend/internal/service"
)

// CheckoutHandler handles checkout session creation.
type CheckoutHandler struct {
	svc *service.CheckoutService
}

// NewCheckoutHandler creates a new CheckoutHandler.
func NewCheckoutHandler(svc *service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{svc: svc}
}

// Create handles POST /api/checkout. On success the response body carries
// the provider's hosted payment page URL for the client to redirect to.
func (h *CheckoutHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value(contextkeys.UserID).(string)
	email, _ := r.Context().Value(contextkeys.UserEmail).(string)

	var req domain.CheckoutRequest
	if err := DecodeJSON(r, &req); err != nil {
		Error(w, err)
		return
	}

	resp, err := h.svc.CreateSession(r.Context(), userID, email, &req)
	if err != nil {
		Error(w, err)
		return
	}

	JSON(w, http.StatusOK, resp)
}
