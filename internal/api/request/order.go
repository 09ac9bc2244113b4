package request

type PlaceOrderRequest struct {
	Symbol       string  `json:"symbol"`
	Side         string  `json:"side"`
	Quantity     float64 `json:"quantity,omitempty"`
	Amount       float64 `json:"amount,omitempty"`
	Price        float64 `json:"price"`
	OrderType    string  `json:"orderType,omitempty"`
	ProductType  string  `json:"productType,omitempty"`
	Validity     string  `json:"validity,omitempty"`
	TriggerPrice float64 `json:"triggerPrice,omitempty"`
	Remarks      string  `json:"remarks,omitempty"`
}
