package entity

import "errors"

// Domain error identities shared by the repository and service layers.
// Handlers map these to HTTP statuses with errors.Is.
var (
	// ErrNotFound: the referenced record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrListingUnavailable: the listing is inactive or not yet approved.
	ErrListingUnavailable = errors.New("listing is not available for booking")

	// ErrDateConflict: another booking holds an overlapping date range.
	// Surfaced to the renter as "dates no longer available"; never retried
	// automatically.
	ErrDateConflict = errors.New("dates no longer available")

	// ErrInvalidTransition: the booking or payout is not in the state the
	// caller expects (stale view, double click, terminal state).
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrProofNotAllowed: manual payment proof on a booking that has a card
	// checkout session attached.
	ErrProofNotAllowed = errors.New("payment proof not allowed for card bookings")
)
