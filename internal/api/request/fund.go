package request

type FundAmountRequest struct {
	Amount float64 `json:"amount"`
}
