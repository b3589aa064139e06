package request

type CreatePayoutRequest struct {
	OwnerID     string `json:"owner_id" validate:"required,uuid"`
	Amount      int64  `json:"amount" validate:"required,gt=0"`
	Currency    string `json:"currency" validate:"required,len=3,alpha"`
	PeriodStart string `json:"period_start" validate:"omitempty,datetime=2006-01-02"`
	PeriodEnd   string `json:"period_end" validate:"omitempty,datetime=2006-01-02"`
}

type UpdatePayoutStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=paid failed"`
}
