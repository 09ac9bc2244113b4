package validation

import "github.com/brokersim/backend/internal/api/request"

// ValidateFundAmount validates a deposit or withdrawal request.
func ValidateFundAmount(req request.FundAmountRequest) error {
	if req.Amount <= 0 {
		return &Error{Fields: map[string]string{
			"amount": "amount must be positive",
		}}
	}
	return nil
}
