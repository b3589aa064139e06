package entity

import (
	"github.com/google/uuid"
)

// Listing is the catalog read model captured at booking time. Rates are in
// integer minor currency units (cents). ChauffeurRate is the per-km rate for
// the optional chauffeur addon; zero means the listing does not offer it.
type Listing struct {
	Base
	OwnerID       uuid.UUID `db:"owner_id"`
	Title         string    `db:"title"`
	DailyRate     int64     `db:"daily_rate"`
	ChauffeurRate int64     `db:"chauffeur_rate"`
	Currency      string    `db:"currency"`
	IsActive      bool      `db:"is_active"`
	IsApproved    bool      `db:"is_approved"`
}

// Bookable reports whether new bookings may be created against the listing.
func (l *Listing) Bookable() bool {
	return l.IsActive && l.IsApproved
}
