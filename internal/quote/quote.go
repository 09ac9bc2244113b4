package quote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/brokersim/backend/internal/apperrors"
)

// Client is the quote gateway contract consumed by the core. Implementations
// are best-effort price oracles: callers must tolerate failure and degrade to
// the price they already have.
type Client interface {
	GetQuote(ctx context.Context, symbol string) (Quote, error)
}

// FinanceClient fetches quotes from the Yahoo Finance API.
// It wraps an HTTP client and converts raw responses into Quote values.
type FinanceClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewFinanceClient creates a new Yahoo Finance quote client with default
// HTTP settings. Per-call deadlines come from the caller's context.
func NewFinanceClient() *FinanceClient {
	return &FinanceClient{
		httpClient: &http.Client{},
		baseURL:    "https://query1.finance.yahoo.com/v7/finance/quote",
	}
}

// GetQuote fetches the last traded price and previous close for a symbol.
//
// All failure modes (transport, non-200, API error, empty result) are wrapped
// in apperrors.ErrQuoteUnavailable so callers can treat them uniformly as a
// fallback trigger.
func (c *FinanceClient) GetQuote(ctx context.Context, symbol string) (Quote, error) {
	reqURL := fmt.Sprintf("%s?symbols=%s", c.baseURL, url.QueryEscape(symbol))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return Quote{}, fmt.Errorf("%w: %v", apperrors.ErrQuoteUnavailable, err)
	}

	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Quote{}, fmt.Errorf("%w: %v", apperrors.ErrQuoteUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Quote{}, fmt.Errorf("%w: status %d for symbol %s", apperrors.ErrQuoteUnavailable, resp.StatusCode, symbol)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Quote{}, fmt.Errorf("%w: %v", apperrors.ErrQuoteUnavailable, err)
	}

	var response Response
	if err := json.Unmarshal(data, &response); err != nil {
		return Quote{}, fmt.Errorf("%w: %v", apperrors.ErrQuoteUnavailable, err)
	}

	if response.QuoteResponse.Error != nil {
		return Quote{}, fmt.Errorf("%w: %s", apperrors.ErrQuoteUnavailable, *response.QuoteResponse.Error)
	}
	if len(response.QuoteResponse.Result) == 0 {
		return Quote{}, fmt.Errorf("%w: no results for symbol %s", apperrors.ErrQuoteUnavailable, symbol)
	}

	result := response.QuoteResponse.Result[0]
	return Quote{
		Symbol:        result.Symbol,
		LastPrice:     result.RegularMarketPrice,
		PreviousClose: result.RegularMarketPreviousClose,
	}, nil
}
