package validation

import (
	"fmt"
	"strings"

	"github.com/brokersim/backend/internal/api/request"
)

// ValidOrderSide contains the allowed order side values.
var ValidOrderSide = map[string]bool{
	"BUY": true, "SELL": true,
}

// ValidOrderType contains the allowed order type values.
var ValidOrderType = map[string]bool{
	"Market": true, "Limit": true,
}

// ValidProductType contains the allowed product type values.
var ValidProductType = map[string]bool{
	"CNC": true, "MIS": true,
}

// ValidValidity contains the allowed order validity values.
var ValidValidity = map[string]bool{
	"DAY": true, "IOC": true, "GTT": true,
}

// ValidatePlaceOrder validates an order placement request.
//
// Required fields:
//   - symbol: non-empty instrument symbol
//   - side: BUY or SELL
//   - price: must be positive
//   - quantity: must be positive for buys; sells may supply a positive
//     notional amount instead
//
// Optional fields (validated when provided): orderType, productType,
// validity, triggerPrice.
//
// Returns a validation Error with field-specific messages if validation fails.
func ValidatePlaceOrder(req request.PlaceOrderRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.Symbol) == "" {
		errors["symbol"] = "symbol is required"
	}

	if strings.TrimSpace(req.Side) == "" {
		errors["side"] = "side is required"
	} else if !ValidOrderSide[req.Side] {
		errors["side"] = fmt.Sprintf("invalid side: %s", req.Side)
	}

	if req.Price <= 0 {
		errors["price"] = "price must be positive"
	}

	switch {
	case req.Side == "SELL":
		if req.Quantity <= 0 && req.Amount <= 0 {
			errors["quantity"] = "quantity or amount must be positive"
		}
	default:
		if req.Quantity <= 0 {
			errors["quantity"] = "quantity must be positive"
		}
	}

	if req.OrderType != "" && !ValidOrderType[req.OrderType] {
		errors["orderType"] = fmt.Sprintf("invalid order type: %s", req.OrderType)
	}

	if req.ProductType != "" && !ValidProductType[req.ProductType] {
		errors["productType"] = fmt.Sprintf("invalid product type: %s", req.ProductType)
	}

	if req.Validity != "" && !ValidValidity[req.Validity] {
		errors["validity"] = fmt.Sprintf("invalid validity: %s", req.Validity)
	}

	if req.TriggerPrice < 0 {
		errors["triggerPrice"] = "trigger price cannot be negative"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}
