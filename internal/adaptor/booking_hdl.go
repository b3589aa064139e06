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

type BookingHandler struct {
	service usecase.BookingService
	log     *zap.Logger
}

func NewBookingHandler(service usecase.BookingService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log.With(zap.String("handler", "booking")),
	}
}

// CreateBooking handles POST /api/bookings (renter)
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	booking, err := h.service.CreateBooking(r.Context(), userID.String(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create booking")
		return
	}

	utils.ResponseCreated(w, "success", booking)
}

// GetUserBookings handles GET /api/user/bookings (renter)
func (h *BookingHandler) GetUserBookings(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	req := paginationFromQuery(r)

	bookings, err := h.service.GetUserBookings(r.Context(), userID.String(), req)
	if err != nil {
		handleServiceError(w, h.log, err, "get user bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

// GetBooking handles GET /api/bookings/{id} (renter)
func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	bookingID := chi.URLParam(r, "id")
	if bookingID == "" {
		utils.ResponseBadRequest(w, "Booking ID is required", nil)
		return
	}

	booking, err := h.service.GetBooking(r.Context(), userID.String(), bookingID)
	if err != nil {
		handleServiceError(w, h.log, err, "get booking")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// CancelBooking handles POST /api/bookings/{id}/cancel (renter)
func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	bookingID := chi.URLParam(r, "id")
	if bookingID == "" {
		utils.ResponseBadRequest(w, "Booking ID is required", nil)
		return
	}

	if err := h.service.CancelByRenter(r.Context(), userID.String(), bookingID); err != nil {
		handleServiceError(w, h.log, err, "cancel booking")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

// SubmitPaymentProof handles POST /api/bookings/{id}/payment-proof (renter)
func (h *BookingHandler) SubmitPaymentProof(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	bookingID := chi.URLParam(r, "id")
	if bookingID == "" {
		utils.ResponseBadRequest(w, "Booking ID is required", nil)
		return
	}

	var req request.SubmitPaymentProofRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	booking, err := h.service.SubmitPaymentProof(r.Context(), userID.String(), bookingID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "submit payment proof")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// ==================== OPERATOR METHODS ====================

// ListBookings handles GET /api/admin/bookings (operator)
func (h *BookingHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	req := paginationFromQuery(r)
	status := r.URL.Query().Get("status")

	bookings, err := h.service.ListBookings(r.Context(), status, req)
	if err != nil {
		handleServiceError(w, h.log, err, "list bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

// GetBookingByID handles GET /api/admin/bookings/{id} (operator)
func (h *BookingHandler) GetBookingByID(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "id")
	if bookingID == "" {
		utils.ResponseBadRequest(w, "Booking ID is required", nil)
		return
	}

	booking, err := h.service.GetBookingByID(r.Context(), bookingID)
	if err != nil {
		handleServiceError(w, h.log, err, "get booking by ID")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// ApproveBooking handles POST /api/admin/bookings/{id}/approve (operator)
func (h *BookingHandler) ApproveBooking(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "id")
	if bookingID == "" {
		utils.ResponseBadRequest(w, "Booking ID is required", nil)
		return
	}

	booking, err := h.service.ApproveBooking(r.Context(), bookingID)
	if err != nil {
		handleServiceError(w, h.log, err, "approve booking")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// CancelBookingByOperator handles POST /api/admin/bookings/{id}/cancel (operator)
func (h *BookingHandler) CancelBookingByOperator(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "id")
	if bookingID == "" {
		utils.ResponseBadRequest(w, "Booking ID is required", nil)
		return
	}

	if err := h.service.CancelByOperator(r.Context(), bookingID); err != nil {
		handleServiceError(w, h.log, err, "cancel booking")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

// ConfirmTransfer handles POST /api/admin/bookings/{id}/payment-proof (operator)
func (h *BookingHandler) ConfirmTransfer(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "id")
	if bookingID == "" {
		utils.ResponseBadRequest(w, "Booking ID is required", nil)
		return
	}

	var req request.SubmitPaymentProofRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	booking, err := h.service.ConfirmTransfer(r.Context(), bookingID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "confirm transfer")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

func paginationFromQuery(r *http.Request) *request.PaginatedRequest {
	query := r.URL.Query()
	return &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}
}
