// Package pricing computes rental totals in integer minor currency units.
// All arithmetic is integral; rounding happens once, upstream, when a decimal
// rate is converted to minor units at listing creation.
package pricing

import (
	"errors"
	"time"
)

const (
	// MaxRentalDays caps a single booking's length.
	MaxRentalDays = 30
	// MaxChauffeurKm caps the chauffeur addon distance per booking.
	MaxChauffeurKm = 10000
)

var (
	ErrInvalidRange = errors.New("pricing: rental range must cover 1 to 30 days")
	ErrInvalidAddon = errors.New("pricing: invalid chauffeur addon")
)

// Quote prices a rental of [start, end) at dailyRate per day plus an optional
// chauffeur addon of chauffeurKm at chauffeurRate per km. Dates are compared
// at day granularity; the range is half-open, so a same-day start and end is
// a zero-day rental and is rejected.
func Quote(dailyRate int64, start, end time.Time, chauffeurKm, chauffeurRate int64) (int64, error) {
	days := Days(start, end)
	if days < 1 || days > MaxRentalDays {
		return 0, ErrInvalidRange
	}

	if chauffeurKm < 0 || chauffeurKm > MaxChauffeurKm {
		return 0, ErrInvalidAddon
	}
	// A listing with no chauffeur rate does not offer the addon.
	if chauffeurKm > 0 && chauffeurRate <= 0 {
		return 0, ErrInvalidAddon
	}

	return days*dailyRate + chauffeurKm*chauffeurRate, nil
}

// Days returns the number of calendar days in [start, end).
func Days(start, end time.Time) int64 {
	s := truncateToDay(start)
	e := truncateToDay(end)
	return int64(e.Sub(s) / (24 * time.Hour))
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
