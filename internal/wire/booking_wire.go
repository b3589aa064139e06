package wire

import (
	"car-rental/internal/adaptor"
	"car-rental/pkg/middleware"
	"car-rental/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(
	r chi.Router,
	bookingHandler *adaptor.BookingHandler,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== RENTER ROUTES (gateway identity) ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.Identity(log))

		// POST /api/bookings - Create new booking
		r.Post("/api/bookings", bookingHandler.CreateBooking)

		// GET /api/user/bookings - Booking history (renter's own)
		r.Get("/api/user/bookings", bookingHandler.GetUserBookings)

		// GET /api/bookings/{id} - Booking details (renter's own)
		r.Get("/api/bookings/{id}", bookingHandler.GetBooking)

		// POST /api/bookings/{id}/cancel - Abandon an unpaid booking
		r.Post("/api/bookings/{id}/cancel", bookingHandler.CancelBooking)

		// POST /api/bookings/{id}/payment-proof - Report a bank transfer
		r.Post("/api/bookings/{id}/payment-proof", bookingHandler.SubmitPaymentProof)
	})

	// ==================== OPERATOR ROUTES ====================
	r.Route("/api/admin/bookings", func(r chi.Router) {
		r.Use(middleware.Operator(config.Auth.OperatorKeyHash, log))

		// GET /api/admin/bookings - List bookings, optional ?status= filter
		r.Get("/", bookingHandler.ListBookings)

		// GET /api/admin/bookings/{id} - View any booking
		r.Get("/{id}", bookingHandler.GetBookingByID)

		// POST /api/admin/bookings/{id}/approve - Final approval gate
		r.Post("/{id}/approve", bookingHandler.ApproveBooking)

		// POST /api/admin/bookings/{id}/cancel - Operator cancel
		r.Post("/{id}/cancel", bookingHandler.CancelBookingByOperator)

		// POST /api/admin/bookings/{id}/payment-proof - Confirm a bank transfer
		r.Post("/{id}/payment-proof", bookingHandler.ConfirmTransfer)
	})
}
