package wire

import (
	"car-rental/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireWebhook(r chi.Router, webhookHandler *adaptor.WebhookHandler) {
	// ==================== PROVIDER ROUTES ====================
	// Authenticated by signature, not by identity middleware.
	r.Post("/api/webhooks/payments", webhookHandler.HandlePaymentEvent)
}
