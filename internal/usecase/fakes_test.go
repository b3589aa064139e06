package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"car-rental/internal/data/entity"
	"car-rental/internal/data/repository"
	"car-rental/pkg/payment"
	"car-rental/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// fakeStore is the shared in-memory backing for the fake repositories. It
// mirrors the database guards: status-conditional updates and the exclusion
// constraint on overlapping holds.
type fakeStore struct {
	listings     map[uuid.UUID]*entity.Listing
	bookings     map[uuid.UUID]*entity.Booking
	bookingOrder []uuid.UUID
	payouts      map[uuid.UUID]*entity.Payout
	payoutOrder  []uuid.UUID
	events       map[string]*entity.WebhookEvent
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		listings: make(map[uuid.UUID]*entity.Listing),
		bookings: make(map[uuid.UUID]*entity.Booking),
		payouts:  make(map[uuid.UUID]*entity.Payout),
		events:   make(map[string]*entity.WebhookEvent),
	}
}

func (s *fakeStore) repo() *repository.Repository {
	return &repository.Repository{
		Listing:      &fakeListingRepo{s},
		Booking:      &fakeBookingRepo{s},
		Payout:       &fakePayoutRepo{s},
		WebhookEvent: &fakeWebhookEventRepo{s},
	}
}

// holdingOverlap mirrors the exclusion constraint: half-open ranges, holding
// statuses only.
func (s *fakeStore) holdingOverlap(listingID, exclude uuid.UUID, start, end time.Time) bool {
	for _, b := range s.bookings {
		if b.ID == exclude || b.ListingID != listingID || !b.Status.Holding() {
			continue
		}
		if b.StartDate.Before(end) && start.Before(b.EndDate) {
			return true
		}
	}
	return false
}

func (s *fakeStore) recordEvent(eventID, eventType string, at time.Time) {
	s.events[eventID] = &entity.WebhookEvent{
		ID:          uuid.New(),
		EventID:     eventID,
		EventType:   eventType,
		ProcessedAt: at,
	}
}

// ==================== LISTINGS ====================

type fakeListingRepo struct{ s *fakeStore }

func (r *fakeListingRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Listing, error) {
	return r.s.listings[id], nil
}

func (r *fakeListingRepo) FindAllBookable(_ context.Context, limit, offset int) ([]*entity.Listing, error) {
	var out []*entity.Listing
	for _, l := range r.s.listings {
		if l.Bookable() {
			out = append(out, l)
		}
	}
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeListingRepo) CountBookable(_ context.Context) (int64, error) {
	var n int64
	for _, l := range r.s.listings {
		if l.Bookable() {
			n++
		}
	}
	return n, nil
}

// ==================== BOOKINGS ====================

type fakeBookingRepo struct{ s *fakeStore }

func (r *fakeBookingRepo) Create(_ context.Context, booking *entity.Booking) error {
	if booking.Status.Holding() && r.s.holdingOverlap(booking.ListingID, booking.ID, booking.StartDate, booking.EndDate) {
		return entity.ErrDateConflict
	}
	copied := *booking
	r.s.bookings[booking.ID] = &copied
	r.s.bookingOrder = append(r.s.bookingOrder, booking.ID)
	return nil
}

func (r *fakeBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Booking, error) {
	b, ok := r.s.bookings[id]
	if !ok {
		return nil, nil
	}
	copied := *b
	return &copied, nil
}

func (r *fakeBookingRepo) FindBySessionID(_ context.Context, sessionID string) (*entity.Booking, error) {
	for _, b := range r.s.bookings {
		if b.CheckoutSessionID != nil && *b.CheckoutSessionID == sessionID {
			copied := *b
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeBookingRepo) FindByRenterID(_ context.Context, renterID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	var out []*entity.Booking
	for i := len(r.s.bookingOrder) - 1; i >= 0; i-- {
		b := r.s.bookings[r.s.bookingOrder[i]]
		if b.RenterID == renterID {
			copied := *b
			out = append(out, &copied)
		}
	}
	return paginate(out, limit, offset), nil
}

func (r *fakeBookingRepo) CountByRenterID(_ context.Context, renterID uuid.UUID) (int64, error) {
	var n int64
	for _, b := range r.s.bookings {
		if b.RenterID == renterID {
			n++
		}
	}
	return n, nil
}

func (r *fakeBookingRepo) FindAll(_ context.Context, status entity.BookingStatus, limit, offset int) ([]*entity.Booking, error) {
	var out []*entity.Booking
	for i := len(r.s.bookingOrder) - 1; i >= 0; i-- {
		b := r.s.bookings[r.s.bookingOrder[i]]
		if status == "" || b.Status == status {
			copied := *b
			out = append(out, &copied)
		}
	}
	return paginate(out, limit, offset), nil
}

func (r *fakeBookingRepo) CountAll(_ context.Context, status entity.BookingStatus) (int64, error) {
	var n int64
	for _, b := range r.s.bookings {
		if status == "" || b.Status == status {
			n++
		}
	}
	return n, nil
}

func (r *fakeBookingRepo) HasHoldingOverlap(_ context.Context, listingID uuid.UUID, start, end time.Time) (bool, error) {
	return r.s.holdingOverlap(listingID, uuid.Nil, start, end), nil
}

func (r *fakeBookingRepo) AttachCheckoutSession(_ context.Context, id uuid.UUID, sessionID string) error {
	b, ok := r.s.bookings[id]
	if !ok || b.Status != entity.BookingStatusAwaitingPayment || b.CheckoutSessionID != nil {
		return entity.ErrInvalidTransition
	}
	b.CheckoutSessionID = &sessionID
	return nil
}

func (r *fakeBookingRepo) UpdateStatusFrom(_ context.Context, id uuid.UUID, from, to entity.BookingStatus) (bool, error) {
	b, ok := r.s.bookings[id]
	if !ok || b.Status != from {
		return false, nil
	}
	if to.Holding() && !from.Holding() && r.s.holdingOverlap(b.ListingID, b.ID, b.StartDate, b.EndDate) {
		return false, entity.ErrDateConflict
	}
	b.Status = to
	b.UpdatedAt = time.Now()
	return true, nil
}

func (r *fakeBookingRepo) RecordManualSettlement(_ context.Context, id uuid.UUID, paymentRef string, paidAt time.Time) (bool, error) {
	b, ok := r.s.bookings[id]
	if !ok || b.Status != entity.BookingStatusAwaitingPayment || b.CheckoutSessionID != nil {
		return false, nil
	}
	if r.s.holdingOverlap(b.ListingID, b.ID, b.StartDate, b.EndDate) {
		return false, entity.ErrDateConflict
	}
	b.Status = entity.BookingStatusAwaitingApproval
	b.PaymentRef = &paymentRef
	b.PaidAt = &paidAt
	b.UpdatedAt = paidAt
	return true, nil
}

func (r *fakeBookingRepo) ApplyCardSettlement(_ context.Context, id uuid.UUID, eventID, eventType, paymentRef string, paidAt time.Time) (repository.SettlementOutcome, error) {
	if _, seen := r.s.events[eventID]; seen {
		return repository.SettlementDuplicate, nil
	}

	b, ok := r.s.bookings[id]
	if !ok || b.Status != entity.BookingStatusAwaitingPayment {
		r.s.recordEvent(eventID, eventType, paidAt)
		return repository.SettlementStale, nil
	}

	if r.s.holdingOverlap(b.ListingID, b.ID, b.StartDate, b.EndDate) {
		// Transaction rolls back: neither the event nor the transition lands.
		return repository.SettlementConflict, nil
	}

	r.s.recordEvent(eventID, eventType, paidAt)
	b.Status = entity.BookingStatusAwaitingApproval
	b.PaymentRef = &paymentRef
	b.PaidAt = &paidAt
	b.UpdatedAt = paidAt
	return repository.SettlementApplied, nil
}

// ==================== PAYOUTS ====================

type fakePayoutRepo struct{ s *fakeStore }

func (r *fakePayoutRepo) Create(_ context.Context, payout *entity.Payout) error {
	copied := *payout
	r.s.payouts[payout.ID] = &copied
	r.s.payoutOrder = append(r.s.payoutOrder, payout.ID)
	return nil
}

func (r *fakePayoutRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Payout, error) {
	p, ok := r.s.payouts[id]
	if !ok {
		return nil, nil
	}
	copied := *p
	return &copied, nil
}

func (r *fakePayoutRepo) FindAll(_ context.Context, limit, offset int) ([]*entity.Payout, error) {
	var out []*entity.Payout
	for i := len(r.s.payoutOrder) - 1; i >= 0; i-- {
		copied := *r.s.payouts[r.s.payoutOrder[i]]
		out = append(out, &copied)
	}
	return paginate(out, limit, offset), nil
}

func (r *fakePayoutRepo) CountAll(_ context.Context) (int64, error) {
	return int64(len(r.s.payouts)), nil
}

func (r *fakePayoutRepo) UpdateStatusFrom(_ context.Context, id uuid.UUID, from, to entity.PayoutStatus) (bool, error) {
	p, ok := r.s.payouts[id]
	if !ok || p.Status != from {
		return false, nil
	}
	p.Status = to
	p.UpdatedAt = time.Now()
	return true, nil
}

// ==================== WEBHOOK EVENTS ====================

type fakeWebhookEventRepo struct{ s *fakeStore }

func (r *fakeWebhookEventRepo) FindByEventID(_ context.Context, eventID string) (*entity.WebhookEvent, error) {
	e, ok := r.s.events[eventID]
	if !ok {
		return nil, nil
	}
	copied := *e
	return &copied, nil
}

// ==================== CARD GATEWAY ====================

type fakeCardGateway struct {
	calls   []payment.CheckoutParams
	session payment.CheckoutSession
	err     error
}

func (g *fakeCardGateway) CreateCheckoutSession(_ context.Context, params payment.CheckoutParams) (*payment.CheckoutSession, error) {
	g.calls = append(g.calls, params)
	if g.err != nil {
		return nil, g.err
	}
	session := g.session
	if session.ID == "" {
		session = payment.CheckoutSession{ID: "cs_test_" + params.BookingID, URL: "https://pay.example.com/c/" + params.BookingID}
	}
	return &session, nil
}

var errGatewayDown = errors.New("gateway unavailable")

// ==================== HELPERS ====================

func paginate[T any](items []T, limit, offset int) []T {
	if offset > len(items) {
		offset = len(items)
	}
	items = items[offset:]
	if limit < len(items) {
		items = items[:limit]
	}
	return items
}

func testConfig() *utils.Config {
	return &utils.Config{
		Payment: utils.PaymentConfig{
			WebhookSecret: "whsec_test",
			ToleranceSecs: 300,
		},
		Booking: utils.BookingConfig{
			MaxRentalDays:  30,
			MaxChauffeurKm: 10000,
		},
	}
}

func day(t *testing.T, s string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("bad test date %q: %v", s, err)
	}
	return parsed
}

func seedListing(s *fakeStore, dailyRate, chauffeurRate int64) *entity.Listing {
	listing := &entity.Listing{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		OwnerID:       uuid.New(),
		Title:         "2019 Toyota Corolla",
		DailyRate:     dailyRate,
		ChauffeurRate: chauffeurRate,
		Currency:      "ZAR",
		IsActive:      true,
		IsApproved:    true,
	}
	s.listings[listing.ID] = listing
	return listing
}

func seedBooking(t *testing.T, s *fakeStore, listing *entity.Listing, renterID uuid.UUID, status entity.BookingStatus, start, end string) *entity.Booking {
	t.Helper()
	now := time.Now()
	booking := &entity.Booking{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Reference:   utils.GenerateBookingReference(),
		ListingID:   listing.ID,
		RenterID:    renterID,
		StartDate:   day(t, start),
		EndDate:     day(t, end),
		TotalAmount: listing.DailyRate,
		Currency:    listing.Currency,
		Status:      status,
	}
	s.bookings[booking.ID] = booking
	s.bookingOrder = append(s.bookingOrder, booking.ID)
	return booking
}

func attachSession(s *fakeStore, booking *entity.Booking, sessionID string) {
	b := s.bookings[booking.ID]
	b.CheckoutSessionID = &sessionID
}

func newTestBookingService(s *fakeStore, gateway *fakeCardGateway) BookingService {
	return NewBookingService(s.repo(), testConfig(), gateway, zap.NewNop())
}
