package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"car-rental/internal/data/entity"
	"car-rental/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// Postgres error codes that mean the exclusion/unique guard fired.
const (
	pgExclusionViolation = "23P01"
	pgUniqueViolation    = "23505"
)

// SettlementOutcome reports what applying a card settlement event did.
type SettlementOutcome int

const (
	// SettlementApplied: first delivery, booking moved to awaiting_approval.
	SettlementApplied SettlementOutcome = iota
	// SettlementDuplicate: event id already recorded, nothing changed.
	SettlementDuplicate
	// SettlementStale: new event id but the booking had already left
	// awaiting_payment. Event recorded, booking untouched.
	SettlementStale
	// SettlementConflict: the transition would have double-held the listing's
	// dates. Nothing committed; needs operator attention.
	SettlementConflict
)

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindBySessionID(ctx context.Context, sessionID string) (*entity.Booking, error)
	FindByRenterID(ctx context.Context, renterID uuid.UUID, limit, offset int) ([]*entity.Booking, error)
	CountByRenterID(ctx context.Context, renterID uuid.UUID) (int64, error)
	FindAll(ctx context.Context, status entity.BookingStatus, limit, offset int) ([]*entity.Booking, error)
	CountAll(ctx context.Context, status entity.BookingStatus) (int64, error)

	// Availability. The advisory check keeps the common conflict off the
	// constraint path; the exclusion constraint remains the guarantee.
	HasHoldingOverlap(ctx context.Context, listingID uuid.UUID, start, end time.Time) (bool, error)

	// Lifecycle transitions, all guarded on the expected prior status so
	// concurrent operators resolve to exactly one commit.
	AttachCheckoutSession(ctx context.Context, id uuid.UUID, sessionID string) error
	UpdateStatusFrom(ctx context.Context, id uuid.UUID, from, to entity.BookingStatus) (bool, error)
	RecordManualSettlement(ctx context.Context, id uuid.UUID, paymentRef string, paidAt time.Time) (bool, error)
	ApplyCardSettlement(ctx context.Context, id uuid.UUID, eventID, eventType, paymentRef string, paidAt time.Time) (SettlementOutcome, error)
}

type bookingRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewBookingRepository(db database.Querier, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

const bookingColumns = `id, reference, listing_id, renter_id, start_date, end_date, chauffeur_km,
		       total_amount, currency, status, checkout_session_id, payment_ref, paid_at,
		       created_at, updated_at`

func scanBooking(row pgx.Row) (*entity.Booking, error) {
	var booking entity.Booking
	err := row.Scan(
		&booking.ID,
		&booking.Reference,
		&booking.ListingID,
		&booking.RenterID,
		&booking.StartDate,
		&booking.EndDate,
		&booking.ChauffeurKm,
		&booking.TotalAmount,
		&booking.Currency,
		&booking.Status,
		&booking.CheckoutSessionID,
		&booking.PaymentRef,
		&booking.PaidAt,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// isHoldViolation reports whether err is the exclusion (or reference unique)
// constraint rejecting the write.
func isHoldViolation(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == pgExclusionViolation || pgErr.Code == pgUniqueViolation
}

func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	query := `
		INSERT INTO bookings (id, reference, listing_id, renter_id, start_date, end_date, chauffeur_km,
		                      total_amount, currency, status, checkout_session_id, payment_ref, paid_at,
		                      created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := r.db.Exec(ctx, query,
		booking.ID,
		booking.Reference,
		booking.ListingID,
		booking.RenterID,
		booking.StartDate,
		booking.EndDate,
		booking.ChauffeurKm,
		booking.TotalAmount,
		booking.Currency,
		booking.Status,
		booking.CheckoutSessionID,
		booking.PaymentRef,
		booking.PaidAt,
		booking.CreatedAt,
		booking.UpdatedAt,
	)

	if err != nil {
		if isHoldViolation(err) {
			return entity.ErrDateConflict
		}
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("reference", booking.Reference),
			zap.String("listing_id", booking.ListingID.String()),
		)
		return fmt.Errorf("create booking %s: %w", booking.Reference, err)
	}

	return nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id.String(), err)
	}

	return booking, nil
}

func (r *bookingRepository) FindBySessionID(ctx context.Context, sessionID string) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE checkout_session_id = $1`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, sessionID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by session ID",
			zap.Error(err),
			zap.String("session_id", sessionID),
		)
		return nil, fmt.Errorf("find booking by session ID %s: %w", sessionID, err)
	}

	return booking, nil
}

func (r *bookingRepository) FindByRenterID(ctx context.Context, renterID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE renter_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, renterID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find bookings by renter ID",
			zap.Error(err),
			zap.String("renter_id", renterID.String()),
		)
		return nil, fmt.Errorf("find bookings by renter ID %s: %w", renterID.String(), err)
	}
	defer rows.Close()

	return collectBookings(rows, r.log)
}

func (r *bookingRepository) CountByRenterID(ctx context.Context, renterID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM bookings WHERE renter_id = $1`

	var count int64
	if err := r.db.QueryRow(ctx, query, renterID).Scan(&count); err != nil {
		r.log.Error("Failed to count bookings by renter ID",
			zap.Error(err),
			zap.String("renter_id", renterID.String()),
		)
		return 0, fmt.Errorf("count bookings by renter ID %s: %w", renterID.String(), err)
	}

	return count, nil
}

func (r *bookingRepository) FindAll(ctx context.Context, status entity.BookingStatus, limit, offset int) ([]*entity.Booking, error) {
	// Empty status means no filter.
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, string(status), limit, offset)
	if err != nil {
		r.log.Error("Failed to list bookings",
			zap.Error(err),
			zap.String("status", string(status)),
		)
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	return collectBookings(rows, r.log)
}

func (r *bookingRepository) CountAll(ctx context.Context, status entity.BookingStatus) (int64, error) {
	query := `SELECT COUNT(*) FROM bookings WHERE ($1 = '' OR status = $1)`

	var count int64
	if err := r.db.QueryRow(ctx, query, string(status)).Scan(&count); err != nil {
		r.log.Error("Failed to count bookings", zap.Error(err))
		return 0, fmt.Errorf("count bookings: %w", err)
	}

	return count, nil
}

func (r *bookingRepository) HasHoldingOverlap(ctx context.Context, listingID uuid.UUID, start, end time.Time) (bool, error) {
	// Half-open overlap: [s1,e1) and [s2,e2) conflict iff s1 < e2 AND s2 < e1.
	query := `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE listing_id = $1
			  AND status IN ('awaiting_approval', 'confirmed')
			  AND start_date < $3
			  AND $2 < end_date
		)
	`

	var exists bool
	if err := r.db.QueryRow(ctx, query, listingID, start, end).Scan(&exists); err != nil {
		r.log.Error("Failed to check holding overlap",
			zap.Error(err),
			zap.String("listing_id", listingID.String()),
		)
		return false, fmt.Errorf("check holding overlap for listing %s: %w", listingID.String(), err)
	}

	return exists, nil
}

func (r *bookingRepository) AttachCheckoutSession(ctx context.Context, id uuid.UUID, sessionID string) error {
	query := `
		UPDATE bookings
		SET checkout_session_id = $2, updated_at = NOW()
		WHERE id = $1 AND status = 'awaiting_payment' AND checkout_session_id IS NULL
	`

	result, err := r.db.Exec(ctx, query, id, sessionID)
	if err != nil {
		r.log.Error("Failed to attach checkout session",
			zap.Error(err),
			zap.String("booking_id", id.String()),
			zap.String("session_id", sessionID),
		)
		return fmt.Errorf("attach checkout session to booking %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return entity.ErrInvalidTransition
	}

	return nil
}

func (r *bookingRepository) UpdateStatusFrom(ctx context.Context, id uuid.UUID, from, to entity.BookingStatus) (bool, error) {
	query := `UPDATE bookings SET status = $3, updated_at = NOW() WHERE id = $1 AND status = $2`

	result, err := r.db.Exec(ctx, query, id, from, to)
	if err != nil {
		if isHoldViolation(err) {
			return false, entity.ErrDateConflict
		}
		r.log.Error("Failed to update booking status",
			zap.Error(err),
			zap.String("booking_id", id.String()),
			zap.String("from", string(from)),
			zap.String("to", string(to)),
		)
		return false, fmt.Errorf("update booking %s status %s -> %s: %w", id.String(), string(from), string(to), err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *bookingRepository) RecordManualSettlement(ctx context.Context, id uuid.UUID, paymentRef string, paidAt time.Time) (bool, error) {
	// Only the bank-transfer path may settle manually; a booking with a card
	// session attached belongs to the webhook.
	query := `
		UPDATE bookings
		SET status = 'awaiting_approval', payment_ref = $2, paid_at = $3, updated_at = NOW()
		WHERE id = $1 AND status = 'awaiting_payment' AND checkout_session_id IS NULL
	`

	result, err := r.db.Exec(ctx, query, id, paymentRef, paidAt)
	if err != nil {
		if isHoldViolation(err) {
			return false, entity.ErrDateConflict
		}
		r.log.Error("Failed to record manual settlement",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return false, fmt.Errorf("record manual settlement for booking %s: %w", id.String(), err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *bookingRepository) ApplyCardSettlement(ctx context.Context, id uuid.UUID, eventID, eventType, paymentRef string, paidAt time.Time) (SettlementOutcome, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin settlement tx: %w", err)
	}
	defer tx.Rollback(ctx)

	// Dedup first. The unique index makes redelivery a no-op regardless of
	// how many workers race on the same event.
	recorded, err := tx.Exec(ctx, `
		INSERT INTO webhook_events (id, event_id, event_type, processed_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (event_id) DO NOTHING
	`, uuid.New(), eventID, eventType, paidAt)
	if err != nil {
		return 0, fmt.Errorf("record webhook event %s: %w", eventID, err)
	}

	if recorded.RowsAffected() == 0 {
		return SettlementDuplicate, nil
	}

	updated, err := tx.Exec(ctx, `
		UPDATE bookings
		SET status = 'awaiting_approval', payment_ref = $2, paid_at = $3, updated_at = NOW()
		WHERE id = $1 AND status = 'awaiting_payment'
	`, id, paymentRef, paidAt)
	if err != nil {
		if isHoldViolation(err) {
			// The paid booking lost the range race. Roll everything back so
			// the delivery stays visible as unprocessed for the operator.
			return SettlementConflict, nil
		}
		return 0, fmt.Errorf("apply settlement to booking %s: %w", id.String(), err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit settlement tx: %w", err)
	}

	if updated.RowsAffected() == 0 {
		return SettlementStale, nil
	}
	return SettlementApplied, nil
}

func collectBookings(rows pgx.Rows, log *zap.Logger) ([]*entity.Booking, error) {
	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}
	return bookings, nil
}
