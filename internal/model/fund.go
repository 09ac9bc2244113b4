package model

import "time"

// Fund represents a user's cash account: spendable balance, deployed cost
// basis, and lifetime pay-in/pay-out totals. There is exactly one Fund per
// user, created lazily on first access.
type Fund struct {
	ID              string  `json:"id"`
	UserID          string  `json:"userId"`
	AvailableAmount float64 `json:"availableAmount"`
	InvestedAmount  float64 `json:"investedAmount"`
	OpeningBalance  float64 `json:"openingBalance"`
	Payin           float64 `json:"payin"`
	Payout          float64 `json:"payout"`
}

// FundTransaction is one entry in a fund's append-only transaction log.
// Kind is one of: add, withdraw, buy, sell.
type FundTransaction struct {
	ID        string    `json:"id"`
	FundID    string    `json:"fundId"`
	Kind      string    `json:"kind"`
	Amount    float64   `json:"amount"`
	CreatedAt time.Time `json:"createdAt"`
}

// Fund transaction kinds.
const (
	TxKindAdd      = "add"
	TxKindWithdraw = "withdraw"
	TxKindBuy      = "buy"
	TxKindSell     = "sell"
)

// FundResponse is the fund snapshot returned by the API, with the ordered
// transaction log and the owning username attached.
type FundResponse struct {
	Fund
	Username     string            `json:"username"`
	Transactions []FundTransaction `json:"transactions"`
}
