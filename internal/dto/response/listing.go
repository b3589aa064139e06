package response

import (
	"time"

	"car-rental/internal/data/entity"
)

type ListingResponse struct {
	ID            string    `json:"id"`
	OwnerID       string    `json:"owner_id"`
	Title         string    `json:"title"`
	DailyRate     int64     `json:"daily_rate"`
	ChauffeurRate int64     `json:"chauffeur_rate,omitempty"`
	Currency      string    `json:"currency"`
	CreatedAt     time.Time `json:"created_at"`
}

func ListingToResponse(listing *entity.Listing) ListingResponse {
	return ListingResponse{
		ID:            listing.ID.String(),
		OwnerID:       listing.OwnerID.String(),
		Title:         listing.Title,
		DailyRate:     listing.DailyRate,
		ChauffeurRate: listing.ChauffeurRate,
		Currency:      listing.Currency,
		CreatedAt:     listing.CreatedAt,
	}
}
