package model

import "time"

// Position is a user's open exposure in one instrument for one product type
// (CNC = delivery, MIS = intraday). Like Holding, a Position row exists only
// while its quantity is greater than zero.
//
// MTM is the mark-to-market profit/loss:
// (lastPrice - averagePrice) * quantity.
type Position struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	Symbol       string    `json:"symbol"`
	ProductType  string    `json:"productType"`
	Quantity     float64   `json:"quantity"`
	AveragePrice float64   `json:"averagePrice"`
	LastPrice    float64   `json:"lastPrice"`
	MTM          float64   `json:"mtm"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Product types partitioning positions.
const (
	ProductCNC = "CNC"
	ProductMIS = "MIS"
)
