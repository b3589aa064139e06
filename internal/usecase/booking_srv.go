package usecase

import (
	"context"
	"fmt"
	"time"

	"car-rental/internal/data/entity"
	"car-rental/internal/data/repository"
	"car-rental/internal/dto/request"
	"car-rental/internal/dto/response"
	"car-rental/internal/pricing"
	"car-rental/pkg/payment"
	"car-rental/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingService interface {
	// Renter endpoints
	CreateBooking(ctx context.Context, renterID string, req *request.CreateBookingRequest) (*response.BookingResponse, error)
	GetUserBookings(ctx context.Context, renterID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)
	GetBooking(ctx context.Context, renterID string, bookingID string) (*response.BookingResponse, error)
	CancelByRenter(ctx context.Context, renterID string, bookingID string) error
	SubmitPaymentProof(ctx context.Context, renterID string, bookingID string, req *request.SubmitPaymentProofRequest) (*response.BookingResponse, error)

	// Operator endpoints
	GetBookingByID(ctx context.Context, bookingID string) (*response.BookingResponse, error)
	ListBookings(ctx context.Context, status string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)
	ApproveBooking(ctx context.Context, bookingID string) (*response.BookingResponse, error)
	CancelByOperator(ctx context.Context, bookingID string) error
	ConfirmTransfer(ctx context.Context, bookingID string, req *request.SubmitPaymentProofRequest) (*response.BookingResponse, error)
}

type bookingService struct {
	repo   *repository.Repository
	config *utils.Config
	cards  CardGateway
	log    *zap.Logger
}

func NewBookingService(repo *repository.Repository, config *utils.Config, cards CardGateway, log *zap.Logger) BookingService {
	return &bookingService{
		repo:   repo,
		config: config,
		cards:  cards,
		log:    log.With(zap.String("service", "booking")),
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, renterID string, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create booking validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	renterUUID, err := uuid.Parse(renterID)
	if err != nil {
		return nil, fmt.Errorf("invalid renter ID format %s: %w", renterID, err)
	}

	listingID, err := uuid.Parse(req.ListingID)
	if err != nil {
		return nil, fmt.Errorf("invalid listing ID format %s: %w", req.ListingID, err)
	}

	startDate, err := utils.ParseDate(req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("invalid start date %s: %w", req.StartDate, err)
	}
	endDate, err := utils.ParseDate(req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("invalid end date %s: %w", req.EndDate, err)
	}

	listing, err := s.repo.Listing.FindByID(ctx, listingID)
	if err != nil {
		return nil, fmt.Errorf("load listing %s: %w", req.ListingID, err)
	}
	if listing == nil {
		return nil, fmt.Errorf("listing %s: %w", req.ListingID, entity.ErrNotFound)
	}
	if !listing.Bookable() {
		return nil, entity.ErrListingUnavailable
	}

	// Price is snapshotted now and never recomputed for this booking.
	totalAmount, err := pricing.Quote(listing.DailyRate, startDate, endDate, req.ChauffeurKm, listing.ChauffeurRate)
	if err != nil {
		return nil, err
	}

	// Advisory availability check. The exclusion constraint is the real
	// arbiter; this only gives a clean answer on the common path.
	held, err := s.repo.Booking.HasHoldingOverlap(ctx, listingID, startDate, endDate)
	if err != nil {
		s.log.Error("Failed to check availability", zap.Error(err))
		return nil, fmt.Errorf("check availability: %w", err)
	}
	if held {
		return nil, entity.ErrDateConflict
	}

	now := time.Now()
	booking := &entity.Booking{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Reference:   utils.GenerateBookingReference(),
		ListingID:   listingID,
		RenterID:    renterUUID,
		StartDate:   startDate,
		EndDate:     endDate,
		ChauffeurKm: req.ChauffeurKm,
		TotalAmount: totalAmount,
		Currency:    listing.Currency,
		Status:      entity.BookingStatusAwaitingPayment,
	}

	if err := s.repo.Booking.Create(ctx, booking); err != nil {
		if err == entity.ErrDateConflict {
			return nil, err
		}
		s.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("renter_id", renterID),
			zap.String("listing_id", req.ListingID),
		)
		return nil, fmt.Errorf("create booking: %w", err)
	}

	checkoutURL := ""
	if entity.PaymentMethod(req.PaymentMethod) == entity.PaymentMethodCard {
		session, err := s.cards.CreateCheckoutSession(ctx, payment.CheckoutParams{
			BookingID:   booking.ID.String(),
			Reference:   booking.Reference,
			Description: fmt.Sprintf("Rental of %s, %s to %s", listing.Title, req.StartDate, req.EndDate),
			Amount:      booking.TotalAmount,
			Currency:    booking.Currency,
		})
		if err != nil {
			// Roll back: the renter cannot pay a session-less card booking.
			if _, cancelErr := s.repo.Booking.UpdateStatusFrom(ctx, booking.ID, entity.BookingStatusAwaitingPayment, entity.BookingStatusCancelled); cancelErr != nil {
				s.log.Error("Failed to cancel booking after session failure",
					zap.Error(cancelErr),
					zap.String("booking_id", booking.ID.String()),
				)
			}
			return nil, fmt.Errorf("create checkout session: %w", err)
		}

		if err := s.repo.Booking.AttachCheckoutSession(ctx, booking.ID, session.ID); err != nil {
			return nil, fmt.Errorf("attach checkout session: %w", err)
		}
		booking.CheckoutSessionID = &session.ID
		checkoutURL = session.URL
	}

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("reference", booking.Reference),
		zap.String("renter_id", renterID),
		zap.String("listing_id", req.ListingID),
		zap.String("payment_method", req.PaymentMethod),
		zap.Int64("total_amount", totalAmount),
	)

	resp := response.BookingToResponse(booking, listing.Title, checkoutURL)
	return &resp, nil
}

func (s *bookingService) GetUserBookings(ctx context.Context, renterID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	renterUUID, err := uuid.Parse(renterID)
	if err != nil {
		return nil, fmt.Errorf("invalid renter ID format %s: %w", renterID, err)
	}

	bookings, err := s.repo.Booking.FindByRenterID(ctx, renterUUID, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to get renter bookings",
			zap.Error(err),
			zap.String("renter_id", renterID),
		)
		return nil, fmt.Errorf("get renter bookings: %w", err)
	}

	total, err := s.repo.Booking.CountByRenterID(ctx, renterUUID)
	if err != nil {
		s.log.Error("Failed to count renter bookings", zap.Error(err))
		return nil, fmt.Errorf("count renter bookings: %w", err)
	}

	return response.NewPaginatedResponse(s.toResponses(ctx, bookings), req.Page, req.PerPage, total), nil
}

func (s *bookingService) GetBooking(ctx context.Context, renterID string, bookingID string) (*response.BookingResponse, error) {
	booking, err := s.findBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.RenterID.String() != renterID {
		// Do not reveal other renters' bookings.
		return nil, fmt.Errorf("booking %s: %w", bookingID, entity.ErrNotFound)
	}

	return s.toResponse(ctx, booking), nil
}

func (s *bookingService) CancelByRenter(ctx context.Context, renterID string, bookingID string) error {
	booking, err := s.findBooking(ctx, bookingID)
	if err != nil {
		return err
	}

	if booking.RenterID.String() != renterID {
		return fmt.Errorf("booking %s: %w", bookingID, entity.ErrNotFound)
	}

	// Renters may only abandon an unpaid booking. Once payment evidence
	// exists the cancellation decision belongs to the operator.
	ok, err := s.repo.Booking.UpdateStatusFrom(ctx, booking.ID, entity.BookingStatusAwaitingPayment, entity.BookingStatusCancelled)
	if err != nil {
		return fmt.Errorf("cancel booking %s: %w", bookingID, err)
	}
	if !ok {
		return entity.ErrInvalidTransition
	}

	s.log.Info("Booking cancelled by renter",
		zap.String("booking_id", bookingID),
		zap.String("reference", booking.Reference),
	)

	return nil
}

func (s *bookingService) SubmitPaymentProof(ctx context.Context, renterID string, bookingID string, req *request.SubmitPaymentProofRequest) (*response.BookingResponse, error) {
	booking, err := s.findBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.RenterID.String() != renterID {
		return nil, fmt.Errorf("booking %s: %w", bookingID, entity.ErrNotFound)
	}

	return s.settleManually(ctx, booking, req)
}

// ==================== OPERATOR METHODS ====================

func (s *bookingService) GetBookingByID(ctx context.Context, bookingID string) (*response.BookingResponse, error) {
	booking, err := s.findBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, booking), nil
}

func (s *bookingService) ListBookings(ctx context.Context, status string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	bookings, err := s.repo.Booking.FindAll(ctx, entity.BookingStatus(status), req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to list bookings", zap.Error(err), zap.String("status", status))
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	total, err := s.repo.Booking.CountAll(ctx, entity.BookingStatus(status))
	if err != nil {
		s.log.Error("Failed to count bookings", zap.Error(err))
		return nil, fmt.Errorf("count bookings: %w", err)
	}

	return response.NewPaginatedResponse(s.toResponses(ctx, bookings), req.Page, req.PerPage, total), nil
}

func (s *bookingService) ApproveBooking(ctx context.Context, bookingID string) (*response.BookingResponse, error) {
	booking, err := s.findBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	ok, err := s.repo.Booking.UpdateStatusFrom(ctx, booking.ID, entity.BookingStatusAwaitingApproval, entity.BookingStatusConfirmed)
	if err != nil {
		return nil, fmt.Errorf("approve booking %s: %w", bookingID, err)
	}
	if !ok {
		return nil, entity.ErrInvalidTransition
	}

	s.log.Info("Booking approved",
		zap.String("booking_id", bookingID),
		zap.String("reference", booking.Reference),
	)

	booking.Status = entity.BookingStatusConfirmed
	return s.toResponse(ctx, booking), nil
}

func (s *bookingService) CancelByOperator(ctx context.Context, bookingID string) error {
	booking, err := s.findBooking(ctx, bookingID)
	if err != nil {
		return err
	}

	// Confirmed bookings are never cancelled here; that is a support
	// workflow, not an engine transition.
	for _, from := range []entity.BookingStatus{entity.BookingStatusAwaitingPayment, entity.BookingStatusAwaitingApproval} {
		ok, err := s.repo.Booking.UpdateStatusFrom(ctx, booking.ID, from, entity.BookingStatusCancelled)
		if err != nil {
			return fmt.Errorf("cancel booking %s: %w", bookingID, err)
		}
		if ok {
			s.log.Info("Booking cancelled by operator",
				zap.String("booking_id", bookingID),
				zap.String("reference", booking.Reference),
				zap.String("was_status", string(from)),
			)
			return nil
		}
	}

	return entity.ErrInvalidTransition
}

func (s *bookingService) ConfirmTransfer(ctx context.Context, bookingID string, req *request.SubmitPaymentProofRequest) (*response.BookingResponse, error) {
	booking, err := s.findBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	return s.settleManually(ctx, booking, req)
}

// ==================== HELPER METHODS ====================

func (s *bookingService) findBooking(ctx context.Context, bookingID string) (*entity.Booking, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, fmt.Errorf("invalid booking ID format %s: %w", bookingID, err)
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load booking %s: %w", bookingID, err)
	}
	if booking == nil {
		return nil, fmt.Errorf("booking %s: %w", bookingID, entity.ErrNotFound)
	}

	return booking, nil
}

// settleManually moves an awaiting_payment bank-transfer booking to
// awaiting_approval. Card bookings settle only through the webhook.
func (s *bookingService) settleManually(ctx context.Context, booking *entity.Booking, req *request.SubmitPaymentProofRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	if booking.CheckoutSessionID != nil {
		return nil, entity.ErrProofNotAllowed
	}

	now := time.Now()
	ok, err := s.repo.Booking.RecordManualSettlement(ctx, booking.ID, "transfer:"+req.TransferReference, now)
	if err != nil {
		if err == entity.ErrDateConflict {
			// The range was taken while this booking sat unpaid.
			return nil, err
		}
		return nil, fmt.Errorf("record manual settlement: %w", err)
	}
	if !ok {
		return nil, entity.ErrInvalidTransition
	}

	s.log.Info("Manual settlement recorded",
		zap.String("booking_id", booking.ID.String()),
		zap.String("reference", booking.Reference),
		zap.String("transfer_reference", req.TransferReference),
	)

	booking.Status = entity.BookingStatusAwaitingApproval
	ref := "transfer:" + req.TransferReference
	booking.PaymentRef = &ref
	booking.PaidAt = &now

	return s.toResponse(ctx, booking), nil
}

func (s *bookingService) toResponse(ctx context.Context, booking *entity.Booking) *response.BookingResponse {
	title := ""
	if listing, err := s.repo.Listing.FindByID(ctx, booking.ListingID); err == nil && listing != nil {
		title = listing.Title
	}
	resp := response.BookingToResponse(booking, title, "")
	return &resp
}

func (s *bookingService) toResponses(ctx context.Context, bookings []*entity.Booking) []response.BookingResponse {
	responses := make([]response.BookingResponse, len(bookings))
	for i, booking := range bookings {
		responses[i] = *s.toResponse(ctx, booking)
	}
	return responses
}
