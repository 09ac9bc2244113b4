package handlers

import (
	"errors"
	"net/http"

	"github.com/brokersim/backend/internal/api/middleware"
	"github.com/brokersim/backend/internal/api/request"
	"github.com/brokersim/backend/internal/api/response"
	"github.com/brokersim/backend/internal/apperrors"
	"github.com/brokersim/backend/internal/service"
	"github.com/brokersim/backend/internal/validation"
)

// FundHandler handles HTTP requests for cash account endpoints.
// It serves as the HTTP layer adapter, parsing requests and delegating
// business logic to the fundService.
type FundHandler struct {
	fundService *service.FundService
}

// NewFundHandler creates a new FundHandler with the provided service dependency.
func NewFundHandler(fundService *service.FundService) *FundHandler {
	return &FundHandler{
		fundService: fundService,
	}
}

// GetFund handles GET requests to retrieve the user's fund snapshot,
// including the ordered transaction log. The fund is created lazily on
// first access.
//
// Endpoint: GET /api/funds
// Response: 200 OK with FundResponse
// Error: 500 Internal Server Error if retrieval fails
func (h *FundHandler) GetFund(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	fund, err := h.fundService.GetFund(r.Context(), userID)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveFund.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, fund)
}

// Deposit handles POST requests to add cash to the user's fund.
//
// Endpoint: POST /api/funds/add
// Request Body: FundAmountRequest (amount)
// Response: 200 OK with the updated Fund
// Error: 400 Bad Request if validation fails
// Error: 500 Internal Server Error if the update fails
func (h *FundHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	req, err := parseJSON[request.FundAmountRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateFundAmount(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	fund, err := h.fundService.Deposit(r.Context(), userID, req.Amount)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToUpdateFund.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, fund)
}

// Withdraw handles POST requests to withdraw cash from the user's fund.
//
// Endpoint: POST /api/funds/withdraw
// Request Body: FundAmountRequest (amount)
// Response: 200 OK with the updated Fund
// Error: 400 Bad Request if validation fails
// Error: 422 Unprocessable Entity if the amount exceeds the available balance
// Error: 500 Internal Server Error if the update fails
func (h *FundHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	req, err := parseJSON[request.FundAmountRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateFundAmount(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	fund, err := h.fundService.Withdraw(r.Context(), userID, req.Amount)
	if err != nil {
		if errors.Is(err, apperrors.ErrInsufficientFunds) {
			response.RespondError(w, http.StatusUnprocessableEntity, apperrors.ErrInsufficientFunds.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToUpdateFund.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, fund)
}
