package wire

import (
	"car-rental/internal/adaptor"
	"car-rental/pkg/middleware"
	"car-rental/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wirePayout(
	r chi.Router,
	payoutHandler *adaptor.PayoutHandler,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== OPERATOR ROUTES ====================
	// Payouts are operator-only record keeping.
	r.Route("/api/admin/payouts", func(r chi.Router) {
		r.Use(middleware.Operator(config.Auth.OperatorKeyHash, log))

		// POST /api/admin/payouts - Record money owed to an owner
		r.Post("/", payoutHandler.CreatePayout)

		// GET /api/admin/payouts - List payouts
		r.Get("/", payoutHandler.ListPayouts)

		// GET /api/admin/payouts/{id} - Payout details
		r.Get("/{id}", payoutHandler.GetPayoutByID)

		// PUT /api/admin/payouts/{id}/status - Mark paid or failed
		r.Put("/{id}/status", payoutHandler.UpdatePayoutStatus)
	})
}
