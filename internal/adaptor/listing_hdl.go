package adaptor

import (
	"net/http"

	"car-rental/internal/usecase"
	"car-rental/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ListingHandler struct {
	service usecase.ListingService
	log     *zap.Logger
}

func NewListingHandler(service usecase.ListingService, log *zap.Logger) *ListingHandler {
	return &ListingHandler{
		service: service,
		log:     log.With(zap.String("handler", "listing")),
	}
}

// GetListings handles GET /api/listings (public)
func (h *ListingHandler) GetListings(w http.ResponseWriter, r *http.Request) {
	req := paginationFromQuery(r)

	listings, err := h.service.GetListings(r.Context(), req)
	if err != nil {
		handleServiceError(w, h.log, err, "get listings")
		return
	}

	utils.ResponseSuccess(w, "success", listings)
}

// GetListingByID handles GET /api/listings/{id} (public)
func (h *ListingHandler) GetListingByID(w http.ResponseWriter, r *http.Request) {
	listingID := chi.URLParam(r, "id")
	if listingID == "" {
		utils.ResponseBadRequest(w, "Listing ID is required", nil)
		return
	}

	listing, err := h.service.GetListingByID(r.Context(), listingID)
	if err != nil {
		handleServiceError(w, h.log, err, "get listing by ID")
		return
	}

	utils.ResponseSuccess(w, "success", listing)
}

// CheckAvailability handles GET /api/listings/{id}/availability (public)
func (h *ListingHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	listingID := chi.URLParam(r, "id")
	if listingID == "" {
		utils.ResponseBadRequest(w, "Listing ID is required", nil)
		return
	}

	query := r.URL.Query()
	start := query.Get("start")
	end := query.Get("end")
	if start == "" || end == "" {
		utils.ResponseBadRequest(w, "start and end query parameters are required", nil)
		return
	}

	availability, err := h.service.CheckAvailability(r.Context(), listingID, start, end)
	if err != nil {
		handleServiceError(w, h.log, err, "check availability")
		return
	}

	utils.ResponseSuccess(w, "success", availability)
}
