package adaptor

import (
	"errors"
	"net/http"
	"strings"

	"car-rental/internal/data/entity"
	"car-rental/internal/pricing"
	"car-rental/internal/usecase"
	"car-rental/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Listing *ListingHandler
	Booking *BookingHandler
	Payout  *PayoutHandler
	Webhook *WebhookHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Listing: NewListingHandler(service.Listing, log),
		Booking: NewBookingHandler(service.Booking, log),
		Payout:  NewPayoutHandler(service.Payout, log),
		Webhook: NewWebhookHandler(service.Webhook, log),
	}
}

// handleServiceError maps domain errors to HTTP responses.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	switch {
	case errors.Is(err, entity.ErrNotFound):
		log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, err.Error())

	case errors.Is(err, entity.ErrDateConflict):
		log.Info(operation+" rejected - date conflict", zap.Error(err))
		utils.ResponseConflict(w, "Dates no longer available. Please choose different dates.")

	case errors.Is(err, entity.ErrInvalidTransition):
		log.Warn(operation+" rejected - stale state", zap.Error(err))
		utils.ResponseConflict(w, "The record has already moved to a different state. Refresh and try again.")

	case errors.Is(err, entity.ErrProofNotAllowed):
		log.Warn(operation+" rejected - card booking", zap.Error(err))
		utils.ResponseConflict(w, "This booking is paid by card; a bank transfer proof cannot be applied.")

	case errors.Is(err, entity.ErrListingUnavailable):
		log.Warn(operation+" rejected - listing unavailable", zap.Error(err))
		utils.ResponseUnprocessable(w, err.Error())

	case errors.Is(err, pricing.ErrInvalidRange), errors.Is(err, pricing.ErrInvalidAddon):
		log.Warn(operation+" rejected - invalid input", zap.Error(err))
		utils.ResponseBadRequest(w, err.Error(), nil)

	case strings.Contains(err.Error(), "validation failed"),
		strings.Contains(err.Error(), "invalid"):
		log.Warn(operation+" validation failed", zap.Error(err))
		utils.ResponseBadRequest(w, err.Error(), nil)

	default:
		log.Error(operation+" failed", zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
