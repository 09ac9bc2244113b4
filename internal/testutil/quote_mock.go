package testutil

import (
	"context"
	"sync"

	"github.com/brokersim/backend/internal/quote"
)

// MockQuoteClient is a mock implementation of quote.Client for testing.
// It returns predefined quotes instead of calling an external source.
type MockQuoteClient struct {
	mu sync.Mutex
	// Quotes maps symbol to the quote returned for it. Symbols not in the
	// map fall back to Default.
	Quotes map[string]quote.Quote
	// Default is returned for symbols without an entry in Quotes.
	Default quote.Quote
	// Err, when set, is returned from every GetQuote call.
	Err error
	// Calls tracks how many times GetQuote was invoked.
	Calls int
}

// NewMockQuoteClient creates a mock quote client with a neutral default quote.
func NewMockQuoteClient() *MockQuoteClient {
	return &MockQuoteClient{
		Quotes: map[string]quote.Quote{},
		Default: quote.Quote{
			LastPrice:     100,
			PreviousClose: 98,
		},
	}
}

// SetQuote configures the quote returned for one symbol.
func (m *MockQuoteClient) SetQuote(symbol string, lastPrice, previousClose float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Quotes[symbol] = quote.Quote{
		Symbol:        symbol,
		LastPrice:     lastPrice,
		PreviousClose: previousClose,
	}
}

// GetQuote returns the configured quote or error for a symbol.
func (m *MockQuoteClient) GetQuote(_ context.Context, symbol string) (quote.Quote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls++
	if m.Err != nil {
		return quote.Quote{}, m.Err
	}
	if q, ok := m.Quotes[symbol]; ok {
		return q, nil
	}
	q := m.Default
	q.Symbol = symbol
	return q, nil
}
