package response

import (
	"time"

	"car-rental/internal/data/entity"
)

type BookingResponse struct {
	ID           string     `json:"id"`
	Reference    string     `json:"reference"`
	ListingID    string     `json:"listing_id"`
	ListingTitle string     `json:"listing_title,omitempty"`
	RenterID     string     `json:"renter_id"`
	StartDate    string     `json:"start_date"`
	EndDate      string     `json:"end_date"`
	Days         int64      `json:"days"`
	ChauffeurKm  int64      `json:"chauffeur_km,omitempty"`
	TotalAmount  int64      `json:"total_amount"`
	Currency     string     `json:"currency"`
	Status       string     `json:"status"`
	CheckoutURL  string     `json:"checkout_url,omitempty"`
	PaymentRef   *string    `json:"payment_ref,omitempty"`
	PaidAt       *time.Time `json:"paid_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// BookingToResponse maps a booking row to its read model. checkoutURL is only
// known right after session creation and is empty elsewhere.
func BookingToResponse(booking *entity.Booking, listingTitle, checkoutURL string) BookingResponse {
	days := int64(booking.EndDate.Sub(booking.StartDate) / (24 * time.Hour))

	return BookingResponse{
		ID:           booking.ID.String(),
		Reference:    booking.Reference,
		ListingID:    booking.ListingID.String(),
		ListingTitle: listingTitle,
		RenterID:     booking.RenterID.String(),
		StartDate:    booking.StartDate.Format("2006-01-02"),
		EndDate:      booking.EndDate.Format("2006-01-02"),
		Days:         days,
		ChauffeurKm:  booking.ChauffeurKm,
		TotalAmount:  booking.TotalAmount,
		Currency:     booking.Currency,
		Status:       string(booking.Status),
		CheckoutURL:  checkoutURL,
		PaymentRef:   booking.PaymentRef,
		PaidAt:       booking.PaidAt,
		CreatedAt:    booking.CreatedAt,
	}
}

type AvailabilityResponse struct {
	ListingID string `json:"listing_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Available bool   `json:"available"`
}
