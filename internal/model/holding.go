package model

// Holding is a user's aggregated cost-basis position in one instrument,
// independent of product type. A Holding row exists only while its quantity
// is greater than zero; selling a holding down to exactly zero deletes it.
//
// NetChange and DayChange are display fields derived from the freshest known
// price: (lastPrice - averageCost) * quantity and
// (lastPrice - previousClose) * quantity respectively.
type Holding struct {
	ID            string  `json:"id"`
	UserID        string  `json:"userId"`
	Symbol        string  `json:"symbol"`
	Quantity      float64 `json:"quantity"`
	AverageCost   float64 `json:"averageCost"`
	LastPrice     float64 `json:"lastPrice"`
	PreviousClose float64 `json:"previousClose"`
	NetChange     float64 `json:"netChange"`
	DayChange     float64 `json:"dayChange"`
	LastOrderID   string  `json:"lastOrderId,omitempty"`

	// Version guards concurrent read-modify-write cycles between the order
	// path and the price-refresh path. Bumped on every write.
	Version int64 `json:"-"`
}
