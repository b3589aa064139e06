package adaptor

import (
	"encoding/json"
	"net/http"

	"car-rental/internal/dto/request"
	"car-rental/internal/usecase"
	"car-rental/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type PayoutHandler struct {
	service usecase.PayoutService
	log     *zap.Logger
}

func NewPayoutHandler(service usecase.PayoutService, log *zap.Logger) *PayoutHandler {
	return &PayoutHandler{
		service: service,
		log:     log.With(zap.String("handler", "payout")),
	}
}

// CreatePayout handles POST /api/admin/payouts (operator)
func (h *PayoutHandler) CreatePayout(w http.ResponseWriter, r *http.Request) {
	var req request.CreatePayoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	payout, err := h.service.CreatePayout(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create payout")
		return
	}

	utils.ResponseCreated(w, "success", payout)
}

// ListPayouts handles GET /api/admin/payouts (operator)
func (h *PayoutHandler) ListPayouts(w http.ResponseWriter, r *http.Request) {
	req := paginationFromQuery(r)

	payouts, err := h.service.ListPayouts(r.Context(), req)
	if err != nil {
		handleServiceError(w, h.log, err, "list payouts")
		return
	}

	utils.ResponseSuccess(w, "success", payouts)
}

// GetPayoutByID handles GET /api/admin/payouts/{id} (operator)
func (h *PayoutHandler) GetPayoutByID(w http.ResponseWriter, r *http.Request) {
	payoutID := chi.URLParam(r, "id")
	if payoutID == "" {
		utils.ResponseBadRequest(w, "Payout ID is required", nil)
		return
	}

	payout, err := h.service.GetPayoutByID(r.Context(), payoutID)
	if err != nil {
		handleServiceError(w, h.log, err, "get payout by ID")
		return
	}

	utils.ResponseSuccess(w, "success", payout)
}

// UpdatePayoutStatus handles PUT /api/admin/payouts/{id}/status (operator)
func (h *PayoutHandler) UpdatePayoutStatus(w http.ResponseWriter, r *http.Request) {
	payoutID := chi.URLParam(r, "id")
	if payoutID == "" {
		utils.ResponseBadRequest(w, "Payout ID is required", nil)
		return
	}

	var req request.UpdatePayoutStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	payout, err := h.service.UpdateStatus(r.Context(), payoutID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update payout status")
		return
	}

	utils.ResponseSuccess(w, "success", payout)
}
