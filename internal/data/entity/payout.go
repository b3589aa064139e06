package entity

import (
	"time"

	"github.com/google/uuid"
)

type PayoutStatus string

const (
	PayoutStatusPending PayoutStatus = "pending"
	PayoutStatusPaid    PayoutStatus = "paid"
	PayoutStatusFailed  PayoutStatus = "failed"
)

// Payout is an operator-entered record of money owed to a listing owner.
// Amounts are in minor currency units. The period fields are informational;
// payouts are never derived automatically from bookings.
type Payout struct {
	Base
	OwnerID     uuid.UUID    `db:"owner_id"`
	Amount      int64        `db:"amount"`
	Currency    string       `db:"currency"`
	Status      PayoutStatus `db:"status"`
	PeriodStart *time.Time   `db:"period_start"`
	PeriodEnd   *time.Time   `db:"period_end"`
}

// Terminal reports whether the payout status permits no further change.
func (s PayoutStatus) Terminal() bool {
	return s == PayoutStatusPaid || s == PayoutStatusFailed
}
