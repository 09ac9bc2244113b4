package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/brokersim/backend/internal/api/middleware"
	"github.com/brokersim/backend/internal/api/response"
	"github.com/brokersim/backend/internal/apperrors"
	"github.com/brokersim/backend/internal/service"
)

// HoldingHandler handles HTTP requests for holding endpoints.
type HoldingHandler struct {
	holdingService *service.HoldingService
}

// NewHoldingHandler creates a new HoldingHandler with the provided service dependency.
func NewHoldingHandler(holdingService *service.HoldingService) *HoldingHandler {
	return &HoldingHandler{
		holdingService: holdingService,
	}
}

// GetHoldings handles GET requests to retrieve the user's holdings ledger.
//
// Endpoint: GET /api/holdings
// Response: 200 OK with array of Holding
// Error: 500 Internal Server Error if retrieval fails
func (h *HoldingHandler) GetHoldings(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	holdings, err := h.holdingService.GetHoldings(userID)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveHoldings.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, holdings)
}

// GetHoldingQuantity handles GET requests for the held quantity of a
// single instrument. A symbol the user does not hold reports zero.
//
// Endpoint: GET /api/holdings/quantity/{symbol}
// Response: 200 OK with {"symbol": ..., "quantity": ...}
// Error: 500 Internal Server Error if retrieval fails
func (h *HoldingHandler) GetHoldingQuantity(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	symbol := chi.URLParam(r, "symbol")

	quantity, err := h.holdingService.GetHoldingQuantity(userID, symbol)
	if err != nil && !errors.Is(err, apperrors.ErrHoldingNotFound) {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveHoldings.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"symbol":   symbol,
		"quantity": quantity,
	})
}

// RefreshPrices handles POST requests to re-price all holdings from the
// quote gateway. Symbols whose quote lookup fails are skipped.
//
// Endpoint: POST /api/holdings/refresh
// Response: 200 OK with {"updated": N}
// Error: 500 Internal Server Error if the refresh fails outright
func (h *HoldingHandler) RefreshPrices(w http.ResponseWriter, r *http.Request) {
	updated, err := h.holdingService.RefreshPrices(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to refresh holding prices", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"updated": updated,
	})
}
