package entity

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusAwaitingPayment  BookingStatus = "awaiting_payment"
	BookingStatusAwaitingApproval BookingStatus = "awaiting_approval"
	BookingStatusConfirmed        BookingStatus = "confirmed"
	BookingStatusCancelled        BookingStatus = "cancelled"
)

type PaymentMethod string

const (
	PaymentMethodCard         PaymentMethod = "card"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
)

// Booking is a reservation of a listing for a half-open date range
// [StartDate, EndDate). TotalAmount is snapshotted at creation in minor
// currency units and never recomputed. CheckoutSessionID is set only for the
// card path; PaymentRef and PaidAt are written when settlement evidence
// arrives (card webhook or manual proof).
type Booking struct {
	Base
	Reference         string        `db:"reference"`
	ListingID         uuid.UUID     `db:"listing_id"`
	RenterID          uuid.UUID     `db:"renter_id"`
	StartDate         time.Time     `db:"start_date"`
	EndDate           time.Time     `db:"end_date"`
	ChauffeurKm       int64         `db:"chauffeur_km"`
	TotalAmount       int64         `db:"total_amount"`
	Currency          string        `db:"currency"`
	Status            BookingStatus `db:"status"`
	CheckoutSessionID *string       `db:"checkout_session_id"`
	PaymentRef        *string       `db:"payment_ref"`
	PaidAt            *time.Time    `db:"paid_at"`
}

// Holding reports whether the booking blocks its date range for other
// renters. awaiting_payment deliberately does not hold: a renter who has not
// produced payment evidence must not squat on dates.
func (s BookingStatus) Holding() bool {
	return s == BookingStatusAwaitingApproval || s == BookingStatusConfirmed
}

// Terminal reports whether no further transitions are possible.
func (s BookingStatus) Terminal() bool {
	return s == BookingStatusConfirmed || s == BookingStatusCancelled
}
