package repository

import (
	"car-rental/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	Listing      ListingRepository
	Booking      BookingRepository
	Payout       PayoutRepository
	WebhookEvent WebhookEventRepository
}

func NewRepository(db database.Querier, log *zap.Logger) *Repository {
	return &Repository{
		Listing:      NewListingRepository(db, log),
		Booking:      NewBookingRepository(db, log),
		Payout:       NewPayoutRepository(db, log),
		WebhookEvent: NewWebhookEventRepository(db, log),
	}
}
