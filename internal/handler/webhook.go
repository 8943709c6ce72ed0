package handler

import (
	"io"
	"net/http"

	"github.com/buyitnow/backend/internal/service"
)

// Webhook payloads are small; cap reads so a hostile sender can't stream
// an unbounded body into memory.
const maxWebhookBody = 1 << 16

// WebhookHandler is the HTTP entry point for payment provider events.
type WebhookHandler struct {
	svc *service.WebhookService
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(svc *service.WebhookService) *WebhookHandler {
	return &WebhookHandler{svc: svc}
}

// Handle handles POST /api/webhook. A 200 acknowledges the delivery and
// stops provider retries; any other status withholds the ack. The raw body
// is read before any parsing — the signature covers the exact bytes sent.
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		JSON(w, http.StatusBadRequest, map[string]string{"error": "failed to read body"})
		return
	}

	signature := r.Header.Get("Stripe-Signature")

	if err := h.svc.HandleEvent(r.Context(), body, signature); err != nil {
		Error(w, err)
		return
	}

	JSON(w, http.StatusOK, map[string]bool{"received": true})
}
