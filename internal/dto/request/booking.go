package request

type CreateBookingRequest struct {
	ListingID     string `json:"listing_id" validate:"required,uuid"`
	StartDate     string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate       string `json:"end_date" validate:"required,datetime=2006-01-02"`
	PaymentMethod string `json:"payment_method" validate:"required,oneof=card bank_transfer"`
	ChauffeurKm   int64  `json:"chauffeur_km" validate:"gte=0"`
}

// SubmitPaymentProofRequest carries the renter's (or operator's) reference
// for a completed bank transfer.
type SubmitPaymentProofRequest struct {
	TransferReference string `json:"transfer_reference" validate:"required,min=4,max=64"`
}