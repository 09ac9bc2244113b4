package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/brokersim/backend/internal/api/response"
	"github.com/brokersim/backend/internal/apperrors"
	"github.com/brokersim/backend/internal/quote"
)

// QuoteHandler handles HTTP requests for live quote lookups.
type QuoteHandler struct {
	client  quote.Client
	timeout time.Duration
}

// NewQuoteHandler creates a new QuoteHandler backed by the given quote client.
func NewQuoteHandler(client quote.Client, timeout time.Duration) *QuoteHandler {
	return &QuoteHandler{
		client:  client,
		timeout: timeout,
	}
}

// GetQuote handles GET requests for a single instrument quote.
//
// Endpoint: GET /api/quote?symbol=AAPL
// Response: 200 OK with Quote
// Error: 400 Bad Request if symbol is missing
// Error: 502 Bad Gateway if the quote source is unavailable
func (h *QuoteHandler) GetQuote(w http.ResponseWriter, r *http.Request) {
	symbol := r.URL.Query().Get("symbol")
	if symbol == "" {
		response.RespondError(w, http.StatusBadRequest, "symbol is required", "missing symbol query parameter")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	q, err := h.client.GetQuote(ctx, symbol)
	if err != nil {
		response.RespondError(w, http.StatusBadGateway, apperrors.ErrQuoteUnavailable.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, q)
}
