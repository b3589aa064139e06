package response

import (
	"time"

	"car-rental/internal/data/entity"
)

type PayoutResponse struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Amount      int64     `json:"amount"`
	Currency    string    `json:"currency"`
	Status      string    `json:"status"`
	PeriodStart *string   `json:"period_start,omitempty"`
	PeriodEnd   *string   `json:"period_end,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func PayoutToResponse(payout *entity.Payout) PayoutResponse {
	resp := PayoutResponse{
		ID:        payout.ID.String(),
		OwnerID:   payout.OwnerID.String(),
		Amount:    payout.Amount,
		Currency:  payout.Currency,
		Status:    string(payout.Status),
		CreatedAt: payout.CreatedAt,
		UpdatedAt: payout.UpdatedAt,
	}

	if payout.PeriodStart != nil {
		s := payout.PeriodStart.Format("2006-01-02")
		resp.PeriodStart = &s
	}
	if payout.PeriodEnd != nil {
		e := payout.PeriodEnd.Format("2006-01-02")
		resp.PeriodEnd = &e
	}

	return resp
}
