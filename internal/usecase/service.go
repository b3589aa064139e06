package usecase

import (
	"context"

	"car-rental/internal/data/repository"
	"car-rental/pkg/payment"
	"car-rental/pkg/utils"

	"go.uber.org/zap"
)

// CardGateway is the slice of the payment client the booking engine uses.
// *payment.Client satisfies it; tests substitute a fake.
type CardGateway interface {
	CreateCheckoutSession(ctx context.Context, params payment.CheckoutParams) (*payment.CheckoutSession, error)
}

type Service struct {
	Listing ListingService
	Booking BookingService
	Payout  PayoutService
	Webhook WebhookService
}

func NewService(repo *repository.Repository, config *utils.Config, cards CardGateway, log *zap.Logger) *Service {
	return &Service{
		Listing: NewListingService(repo, log),
		Booking: NewBookingService(repo, config, cards, log),
		Payout:  NewPayoutService(repo, log),
		Webhook: NewWebhookService(repo, config, log),
	}
}
