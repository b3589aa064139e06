package wire

import (
	"car-rental/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireListing(r chi.Router, listingHandler *adaptor.ListingHandler) {
	// ==================== PUBLIC ROUTES ====================
	// GET /api/listings - Browse bookable listings
	r.Get("/api/listings", listingHandler.GetListings)

	// GET /api/listings/{id} - Listing details
	r.Get("/api/listings/{id}", listingHandler.GetListingByID)

	// GET /api/listings/{id}/availability - Probe a date range
	r.Get("/api/listings/{id}/availability", listingHandler.CheckAvailability)
}
