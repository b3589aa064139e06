package adaptor

import (
	"errors"
	"io"
	"net/http"

	"car-rental/internal/usecase"
	"car-rental/pkg/payment"
	"car-rental/pkg/utils"

	"go.uber.org/zap"
)

// maxWebhookBody bounds webhook payload reads.
const maxWebhookBody = 1 << 20

type WebhookHandler struct {
	service usecase.WebhookService
	log     *zap.Logger
}

func NewWebhookHandler(service usecase.WebhookService, log *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		service: service,
		log:     log.With(zap.String("handler", "webhook")),
	}
}

// HandlePaymentEvent handles POST /api/webhooks/payments. The provider
// retries on any non-2xx, so only authenticity and parse failures reject;
// everything else acknowledges.
func (h *WebhookHandler) HandlePaymentEvent(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	signature := r.Header.Get("Webhook-Signature")

	if err := h.service.Ingest(r.Context(), payload, signature); err != nil {
		if errors.Is(err, payment.ErrBadSignature) || errors.Is(err, usecase.ErrBadPayload) {
			// No detail in the body; the audit trail is the log.
			utils.ResponseBadRequest(w, "Rejected", nil)
			return
		}
		h.log.Error("Webhook ingestion failed", zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}
