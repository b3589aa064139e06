package usecase

import (
	"context"
	"testing"

	"car-rental/internal/data/entity"
	"car-rental/internal/dto/request"
	"car-rental/internal/pricing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createReq(listing *entity.Listing, method string) *request.CreateBookingRequest {
	return &request.CreateBookingRequest{
		ListingID:     listing.ID.String(),
		StartDate:     "2026-09-10",
		EndDate:       "2026-09-13",
		PaymentMethod: method,
	}
}

func TestCreateBookingBankTransfer(t *testing.T) {
	store := newFakeStore()
	gateway := &fakeCardGateway{}
	svc := newTestBookingService(store, gateway)
	listing := seedListing(store, 500000, 0)
	renterID := uuid.New()

	resp, err := svc.CreateBooking(context.Background(), renterID.String(), createReq(listing, "bank_transfer"))
	require.NoError(t, err)

	assert.Equal(t, string(entity.BookingStatusAwaitingPayment), resp.Status)
	assert.Equal(t, int64(3), resp.Days)
	assert.Equal(t, int64(1500000), resp.TotalAmount)
	assert.Equal(t, "ZAR", resp.Currency)
	assert.Empty(t, resp.CheckoutURL)
	assert.NotEmpty(t, resp.Reference)
	assert.Empty(t, gateway.calls, "bank transfer must not open a checkout session")

	stored := store.bookings[uuid.MustParse(resp.ID)]
	require.NotNil(t, stored)
	assert.Nil(t, stored.CheckoutSessionID)
}

func TestCreateBookingCardOpensCheckoutSession(t *testing.T) {
	store := newFakeStore()
	gateway := &fakeCardGateway{}
	svc := newTestBookingService(store, gateway)
	listing := seedListing(store, 500000, 0)

	resp, err := svc.CreateBooking(context.Background(), uuid.New().String(), createReq(listing, "card"))
	require.NoError(t, err)

	require.Len(t, gateway.calls, 1)
	assert.Equal(t, resp.ID, gateway.calls[0].BookingID)
	assert.Equal(t, int64(1500000), gateway.calls[0].Amount)
	assert.Equal(t, "ZAR", gateway.calls[0].Currency)
	assert.NotEmpty(t, resp.CheckoutURL)

	stored := store.bookings[uuid.MustParse(resp.ID)]
	require.NotNil(t, stored.CheckoutSessionID)
	assert.Equal(t, "cs_test_"+resp.ID, *stored.CheckoutSessionID)
}

func TestCreateBookingCardSessionFailureCancels(t *testing.T) {
	store := newFakeStore()
	gateway := &fakeCardGateway{err: errGatewayDown}
	svc := newTestBookingService(store, gateway)
	listing := seedListing(store, 500000, 0)

	_, err := svc.CreateBooking(context.Background(), uuid.New().String(), createReq(listing, "card"))
	require.Error(t, err)

	// The dangling booking must not sit around unpayable.
	require.Len(t, store.bookings, 1)
	for _, b := range store.bookings {
		assert.Equal(t, entity.BookingStatusCancelled, b.Status)
	}
}

func TestCreateBookingChauffeurAddon(t *testing.T) {
	store := newFakeStore()
	svc := newTestBookingService(store, &fakeCardGateway{})
	listing := seedListing(store, 500000, 800)

	req := createReq(listing, "bank_transfer")
	req.ChauffeurKm = 120

	resp, err := svc.CreateBooking(context.Background(), uuid.New().String(), req)
	require.NoError(t, err)

	// 3 days * 500000 + 120 km * 800.
	assert.Equal(t, int64(1596000), resp.TotalAmount)
}

func TestCreateBookingAddonWithoutChauffeurRate(t *testing.T) {
	store := newFakeStore()
	svc := newTestBookingService(store, &fakeCardGateway{})
	listing := seedListing(store, 500000, 0)

	req := createReq(listing, "bank_transfer")
	req.ChauffeurKm = 50

	_, err := svc.CreateBooking(context.Background(), uuid.New().String(), req)
	assert.ErrorIs(t, err, pricing.ErrInvalidAddon)
}

func TestCreateBookingZeroDayRange(t *testing.T) {
	store := newFakeStore()
	svc := newTestBookingService(store, &fakeCardGateway{})
	listing := seedListing(store, 500000, 0)

	req := createReq(listing, "bank_transfer")
	req.EndDate = req.StartDate

	_, err := svc.CreateBooking(context.Background(), uuid.New().String(), req)
	assert.ErrorIs(t, err, pricing.ErrInvalidRange)
}

func TestCreateBookingListingNotBookable(t *testing.T) {
	store := newFakeStore()
	svc := newTestBookingService(store, &fakeCardGateway{})
	listing := seedListing(store, 500000, 0)
	listing.IsActive = false

	_, err := svc.CreateBooking(context.Background(), uuid.New().String(), createReq(listing, "bank_transfer"))
	assert.ErrorIs(t, err, entity.ErrListingUnavailable)
}

func TestCreateBookingUnknownListing(t *testing.T) {
	store := newFakeStore()
	svc := newTestBookingService(store, &fakeCardGateway{})

	req := &request.CreateBookingRequest{
		ListingID:     uuid.New().String(),
		StartDate:     "2026-09-10",
		EndDate:       "2026-09-13",
		PaymentMethod: "bank_transfer",
	}

	_, err := svc.CreateBooking(context.Background(), uuid.New().String(), req)
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestCreateBookingInvalidPaymentMethod(t *testing.T) {
	store := newFakeStore()
	svc := newTestBookingService(store, &fakeCardGateway{})
	listing := seedListing(store, 500000, 0)

	_, err := svc.CreateBooking(context.Background(), uuid.New().String(), createReq(listing, "cash"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestCreateBookingHeldDatesRejected(t *testing.T) {
	store := newFakeStore()
	svc := newTestBookingService(store, &fakeCardGateway{})
	listing := seedListing(store, 500000, 0)
	seedBooking(t, store, listing, uuid.New(), entity.BookingStatusAwaitingApproval, "2026-09-11", "2026-09-15")

	_, err := svc.CreateBooking(context.Background(), uuid.New().String(), createReq(listing, "bank_transfer"))
	assert.ErrorIs(t, err, entity.ErrDateConflict)
}

func TestUnpaidBookingDoesNotBlockDates(t *testing.T) {
	store := newFakeStore()
	svc := newTestBookingService(store, &fakeCardGateway{})
	listing := seedListing(store, 500000, 0)
	renterA := uuid.New()
	renterB := uuid.New()

	respA, err := svc.CreateBooking(context.Background(), renterA.String(), createReq(listing, "bank_transfer"))
	require.NoError(t, err)

	// A has not paid, so B may book the same dates.
	respB, err := svc.CreateBooking(context.Background(), renterB.String(), createReq(listing, "bank_transfer"))
	require.NoError(t, err)

	// A pays first and takes the hold.
	proof := &request.SubmitPaymentProofRequest{TransferReference: "FNB-20260910-001"}
	_, err = svc.SubmitPaymentProof(context.Background(), renterA.String(), respA.ID, proof)
	require.NoError(t, err)

	// B's proof arrives second; the dates are gone.
	proofB := &request.SubmitPaymentProofRequest{TransferReference: "FNB-20260910-002"}
	_, err = svc.SubmitPaymentProof(context.Background(), renterB.String(), respB.ID, proofB)
	assert.ErrorIs(t, err, entity.ErrDateConflict)

	assert.Equal(t, entity.BookingStatusAwaitingPayment, store.bookings[uuid.MustParse(respB.ID)].Status)
}

func TestSubmitPaymentProof(t *testing.T) {
	store := newFakeStore()
	svc := newTestBookingService(store, &fakeCardGateway{})
	listing := seedListing(store, 500000, 0)
	renterID := uuid.New()
	booking := seedBooking(t, store, listing, renterID, entity.BookingStatusAwaitingPayment, "2026-09-10", "2026-09-13")

	proof := &request.SubmitPaymentProofRequest{TransferReference: "FNB-123456"}
	resp, err := svc.SubmitPaymentProof(context.Background(), renterID.String(), booking.ID.String(), proof)
	require.NoError(t, err)

	assert.Equal(t, string(entity.BookingStatusAwaitingApproval), resp.Status)
	require.NotNil(t, resp.PaymentRef)
	assert.Equal(t, "transfer:FNB-123456", *resp.PaymentRef)
	assert.NotNil(t, resp.PaidAt)

	stored := store.bookings[booking.ID]
	assert.Equal(t, entity.BookingStatusAwaitingApproval, stored.Status)
	require.NotNil(t, stored.PaymentRef)
	assert.Equal(t, "transfer:FNB-123456", *stored.PaymentRef)
}

func TestSubmitPaymentProofCardBookingRejected(t *testing.T) {
	store := newFakeStore()
	svc := newTestBookingService(store, &fakeCardGateway{})
	listing := seedListing(store, 500000, 0)
	renterID := uuid.New()
	booking := seedBooking(t, store, listing, renterID, entity.BookingStatusAwaitingPayment, "2026-09-10", "2026-09-13")
	attachSession(store, booking, "cs_live_abc")

	proof := &request.SubmitPaymentProofRequest{TransferReference: "FNB-123456"}
	_, err := svc.SubmitPaymentProof(context.Background(), renterID.String(), booking.ID.String(), proof)
	assert.ErrorIs(t, err, entity.ErrProofNotAllowed)
	assert.Equal(t, entity.BookingStatusAwaitingPayment, store.bookings[booking.ID].Status)
}

func TestSubmitPaymentProofWrongRenter(t *testing.T) {
	store := newFakeStore()
	svc := newTestBookingService(store, &fakeCardGateway{})
	listing := seedListing(store, 500000, 0)
	booking := seedBooking(t, store, listing, uuid.New(), entity.BookingStatusAwaitingPayment, "2026-09-10", "2026-09-13")

	proof := &request.SubmitPaymentProofRequest{TransferReference: "FNB-123456"}
	_, err := svc.SubmitPaymentProof(context.Background(), uuid.New().String(), booking.ID.String(), proof)
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestGetBookingHidesOtherRenters(t *testing.T) {
	store := newFakeStore()
	svc := newTestBookingService(store, &fakeCardGateway{})
	listing := seedListing(store, 500000, 0)
	booking := seedBooking(t, store, listing, uuid.New(), entity.BookingStatusAwaitingPayment, "2026-09-10", "2026-09-13")

	_, err := svc.GetBooking(context.Background(), uuid.New().String(), booking.ID.String())
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestApproveBooking(t *testing.T) {
	store := newFakeStore()
	svc := newTestBookingService(store, &fakeCardGateway{})
	listing := seedListing(store, 500000, 0)
	booking := seedBooking(t, store, listing, uuid.New(), entity.BookingStatusAwaitingApproval, "2026-09-10", "2026-09-13")

	resp, err := svc.ApproveBooking(context.Background(), booking.ID.String())
	require.NoError(t, err)
	assert.Equal(t, string(entity.BookingStatusConfirmed), resp.Status)

	// Approving twice must not succeed twice.
	_, err = svc.ApproveBooking(context.Background(), booking.ID.String())
	assert.ErrorIs(t, err, entity.ErrInvalidTransition)
}

func TestApproveUnpaidBookingRejected(t *testing.T) {
	store := newFakeStore()
	svc := newTestBookingService(store, &fakeCardGateway{})
	listing := seedListing(store, 500000, 0)
	booking := seedBooking(t, store, listing, uuid.New(), entity.BookingStatusAwaitingPayment, "2026-09-10", "2026-09-13")

	_, err := svc.ApproveBooking(context.Background(), booking.ID.String())
	assert.ErrorIs(t, err, entity.ErrInvalidTransition)
	assert.Equal(t, entity.BookingStatusAwaitingPayment, store.bookings[booking.ID].Status)
}

func TestCancelByRenter(t *testing.T) {
	store := newFakeStore()
	svc := newTestBookingService(store, &fakeCardGateway{})
	listing := seedListing(store, 500000, 0)
	renterID := uuid.New()
	booking := seedBooking(t, store, listing, renterID, entity.BookingStatusAwaitingPayment, "2026-09-10", "2026-09-13")

	err := svc.CancelByRenter(context.Background(), renterID.String(), booking.ID.String())
	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusCancelled, store.bookings[booking.ID].Status)
}

func TestCancelByRenterAfterPaymentRejected(t *testing.T) {
	store := newFakeStore()
	svc := newTestBookingService(store, &fakeCardGateway{})
	listing := seedListing(store, 500000, 0)
	renterID := uuid.New()
	booking := seedBooking(t, store, listing, renterID, entity.BookingStatusAwaitingApproval, "2026-09-10", "2026-09-13")

	err := svc.CancelByRenter(context.Background(), renterID.String(), booking.ID.String())
	assert.ErrorIs(t, err, entity.ErrInvalidTransition)
	assert.Equal(t, entity.BookingStatusAwaitingApproval, store.bookings[booking.ID].Status)
}

func TestCancelByOperator(t *testing.T) {
	store := newFakeStore()
	svc := newTestBookingService(store, &fakeCardGateway{})
	listing := seedListing(store, 500000, 0)

	unpaid := seedBooking(t, store, listing, uuid.New(), entity.BookingStatusAwaitingPayment, "2026-09-10", "2026-09-13")
	paid := seedBooking(t, store, listing, uuid.New(), entity.BookingStatusAwaitingApproval, "2026-10-01", "2026-10-05")
	confirmed := seedBooking(t, store, listing, uuid.New(), entity.BookingStatusConfirmed, "2026-11-01", "2026-11-05")

	require.NoError(t, svc.CancelByOperator(context.Background(), unpaid.ID.String()))
	require.NoError(t, svc.CancelByOperator(context.Background(), paid.ID.String()))
	assert.Equal(t, entity.BookingStatusCancelled, store.bookings[unpaid.ID].Status)
	assert.Equal(t, entity.BookingStatusCancelled, store.bookings[paid.ID].Status)

	err := svc.CancelByOperator(context.Background(), confirmed.ID.String())
	assert.ErrorIs(t, err, entity.ErrInvalidTransition)
	assert.Equal(t, entity.BookingStatusConfirmed, store.bookings[confirmed.ID].Status)
}

func TestConfirmTransferByOperator(t *testing.T) {
	store := newFakeStore()
	svc := newTestBookingService(store, &fakeCardGateway{})
	listing := seedListing(store, 500000, 0)
	booking := seedBooking(t, store, listing, uuid.New(), entity.BookingStatusAwaitingPayment, "2026-09-10", "2026-09-13")

	proof := &request.SubmitPaymentProofRequest{TransferReference: "EFT-99881"}
	resp, err := svc.ConfirmTransfer(context.Background(), booking.ID.String(), proof)
	require.NoError(t, err)
	assert.Equal(t, string(entity.BookingStatusAwaitingApproval), resp.Status)
}

func TestLifecycleIsMonotonic(t *testing.T) {
	store := newFakeStore()
	svc := newTestBookingService(store, &fakeCardGateway{})
	listing := seedListing(store, 500000, 0)
	renterID := uuid.New()
	cancelled := seedBooking(t, store, listing, renterID, entity.BookingStatusCancelled, "2026-09-10", "2026-09-13")

	proof := &request.SubmitPaymentProofRequest{TransferReference: "FNB-77777"}
	_, err := svc.SubmitPaymentProof(context.Background(), renterID.String(), cancelled.ID.String(), proof)
	assert.ErrorIs(t, err, entity.ErrInvalidTransition)

	_, err = svc.ApproveBooking(context.Background(), cancelled.ID.String())
	assert.ErrorIs(t, err, entity.ErrInvalidTransition)

	err = svc.CancelByOperator(context.Background(), cancelled.ID.String())
	assert.ErrorIs(t, err, entity.ErrInvalidTransition)

	assert.Equal(t, entity.BookingStatusCancelled, store.bookings[cancelled.ID].Status)
}

func TestGetUserBookings(t *testing.T) {
	store := newFakeStore()
	svc := newTestBookingService(store, &fakeCardGateway{})
	listing := seedListing(store, 500000, 0)
	renterID := uuid.New()

	seedBooking(t, store, listing, renterID, entity.BookingStatusAwaitingPayment, "2026-09-10", "2026-09-13")
	seedBooking(t, store, listing, renterID, entity.BookingStatusConfirmed, "2026-10-01", "2026-10-04")
	seedBooking(t, store, listing, uuid.New(), entity.BookingStatusConfirmed, "2026-11-01", "2026-11-04")

	resp, err := svc.GetUserBookings(context.Background(), renterID.String(), &request.PaginatedRequest{Page: 1, PerPage: 10})
	require.NoError(t, err)

	assert.Len(t, resp.Data, 2)
	assert.Equal(t, int64(2), resp.Pagination.Total)
	for _, b := range resp.Data {
		assert.Equal(t, renterID.String(), b.RenterID)
		assert.Equal(t, listing.Title, b.ListingTitle)
	}
}

func TestListBookingsByStatus(t *testing.T) {
	store := newFakeStore()
	svc := newTestBookingService(store, &fakeCardGateway{})
	listing := seedListing(store, 500000, 0)

	seedBooking(t, store, listing, uuid.New(), entity.BookingStatusAwaitingApproval, "2026-09-10", "2026-09-13")
	seedBooking(t, store, listing, uuid.New(), entity.BookingStatusAwaitingApproval, "2026-10-01", "2026-10-04")
	seedBooking(t, store, listing, uuid.New(), entity.BookingStatusConfirmed, "2026-11-01", "2026-11-04")

	resp, err := svc.ListBookings(context.Background(), "awaiting_approval", &request.PaginatedRequest{Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.Len(t, resp.Data, 2)
	assert.Equal(t, int64(2), resp.Pagination.Total)

	all, err := svc.ListBookings(context.Background(), "", &request.PaginatedRequest{Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.Len(t, all.Data, 3)
}
