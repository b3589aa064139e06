package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"car-rental/internal/data/entity"
	"car-rental/internal/data/repository"
	"car-rental/pkg/payment"
	"car-rental/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrBadPayload: the webhook body did not decode into an event envelope.
var ErrBadPayload = errors.New("webhook payload rejected")

// WebhookService applies card-network settlement events to bookings.
// Deliveries are at-least-once; every path through Ingest is safe to repeat.
type WebhookService interface {
	// Ingest verifies and applies one webhook delivery. A nil error means
	// the delivery is acknowledged (applied, duplicate, irrelevant, or
	// unresolvable); payment.ErrBadSignature and parse failures mean reject.
	Ingest(ctx context.Context, payload []byte, signatureHeader string) error
}

type webhookService struct {
	repo      *repository.Repository
	secret    string
	tolerance time.Duration
	log       *zap.Logger
}

func NewWebhookService(repo *repository.Repository, config *utils.Config, log *zap.Logger) WebhookService {
	return &webhookService{
		repo:      repo,
		secret:    config.Payment.WebhookSecret,
		tolerance: time.Duration(config.Payment.ToleranceSecs) * time.Second,
		log:       log.With(zap.String("service", "webhook")),
	}
}

func (s *webhookService) Ingest(ctx context.Context, payload []byte, signatureHeader string) error {
	// Authenticity before parsing, always.
	if err := payment.VerifySignature(payload, signatureHeader, s.secret, s.tolerance); err != nil {
		s.log.Warn("Webhook signature rejected")
		return err
	}

	event, err := payment.ParseEvent(payload)
	if err != nil {
		s.log.Warn("Webhook payload unparseable", zap.Error(err))
		return fmt.Errorf("%w: %v", ErrBadPayload, err)
	}

	// The channel is shared infrastructure; only settlement events matter.
	if !event.Settlement() {
		s.log.Debug("Ignoring webhook event type", zap.String("type", event.Type))
		return nil
	}

	// Fast path for redeliveries. The authoritative dedup is the unique
	// event id inside ApplyCardSettlement.
	if processed, err := s.repo.WebhookEvent.FindByEventID(ctx, event.ID); err == nil && processed != nil {
		s.log.Info("Duplicate webhook delivery ignored",
			zap.String("event_id", event.ID),
			zap.String("type", event.Type),
		)
		return nil
	}

	booking, err := s.resolveBooking(ctx, event)
	if err != nil {
		return err
	}
	if booking == nil {
		// Possibly another integration's session or a deleted booking.
		s.log.Info("Webhook event resolved no booking",
			zap.String("event_id", event.ID),
			zap.String("session_id", event.Data.Object.ID),
		)
		return nil
	}

	paymentRef := event.Data.Object.PaymentIntent
	if paymentRef == "" {
		paymentRef = event.Data.Object.ID
	}

	outcome, err := s.repo.Booking.ApplyCardSettlement(ctx, booking.ID, event.ID, event.Type, paymentRef, time.Now())
	if err != nil {
		s.log.Error("Failed to apply card settlement",
			zap.Error(err),
			zap.String("event_id", event.ID),
			zap.String("booking_id", booking.ID.String()),
		)
		return fmt.Errorf("apply card settlement: %w", err)
	}

	switch outcome {
	case repository.SettlementApplied:
		s.log.Info("Card settlement applied",
			zap.String("event_id", event.ID),
			zap.String("booking_id", booking.ID.String()),
			zap.String("payment_ref", paymentRef),
		)
	case repository.SettlementDuplicate:
		s.log.Info("Duplicate webhook delivery ignored",
			zap.String("event_id", event.ID),
			zap.String("booking_id", booking.ID.String()),
		)
	case repository.SettlementStale:
		s.log.Warn("Settlement event for booking no longer awaiting payment",
			zap.String("event_id", event.ID),
			zap.String("booking_id", booking.ID.String()),
			zap.String("status", string(booking.Status)),
		)
	case repository.SettlementConflict:
		// Money arrived for dates another booking now holds. Acknowledge so
		// the provider stops retrying; the refund is a support workflow.
		s.log.Error("Settlement conflicts with an existing hold",
			zap.String("event_id", event.ID),
			zap.String("booking_id", booking.ID.String()),
			zap.String("listing_id", booking.ListingID.String()),
		)
	}

	return nil
}

// resolveBooking locates the booking for an event: the embedded booking id
// first, the stored checkout session id as fallback.
func (s *webhookService) resolveBooking(ctx context.Context, event *payment.Event) (*entity.Booking, error) {
	if ref := event.BookingID(); ref != "" {
		id, err := uuid.Parse(ref)
		if err == nil {
			booking, err := s.repo.Booking.FindByID(ctx, id)
			if err != nil {
				return nil, fmt.Errorf("resolve booking by metadata id: %w", err)
			}
			if booking != nil {
				return booking, nil
			}
		}
	}

	if sessionID := event.Data.Object.ID; sessionID != "" {
		booking, err := s.repo.Booking.FindBySessionID(ctx, sessionID)
		if err != nil {
			return nil, fmt.Errorf("resolve booking by session id: %w", err)
		}
		return booking, nil
	}

	return nil, nil
}
