package model

import "time"

// Order is an immutable intent record in the append-only order log. After
// creation only the status and execution timestamp change.
type Order struct {
	ID           string     `json:"id"`
	UserID       string     `json:"userId"`
	Symbol       string     `json:"symbol"`
	Quantity     float64    `json:"quantity"`
	Price        float64    `json:"price"`
	Side         string     `json:"side"`
	OrderType    string     `json:"orderType"`
	ProductType  string     `json:"productType"`
	Validity     string     `json:"validity"`
	TriggerPrice float64    `json:"triggerPrice,omitempty"`
	Status       string     `json:"status"`
	Remarks      string     `json:"remarks,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	ExecutedAt   *time.Time `json:"executedAt,omitempty"`
}

// Order sides.
const (
	SideBuy  = "BUY"
	SideSell = "SELL"
)

// Order statuses.
const (
	StatusPending   = "Pending"
	StatusExecuting = "Executing"
	StatusExecuted  = "Executed"
	StatusCancelled = "Cancelled"
)

// Order types.
const (
	OrderTypeMarket = "Market"
	OrderTypeLimit  = "Limit"
)

// Order validities.
const (
	ValidityDay = "DAY"
	ValidityIOC = "IOC"
	ValidityGTT = "GTT"
)
