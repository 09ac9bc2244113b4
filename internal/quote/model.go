package quote

// Response represents the raw JSON response structure from the Yahoo Finance
// quote API. This type maps directly to the v7 quote endpoint format: an
// array of quote results plus an optional API error.
type Response struct {
	QuoteResponse struct {
		Result []Result `json:"result"`
		Error  *string  `json:"error"`
	} `json:"quoteResponse"`
}

// Result is one instrument's quote in a raw API response.
type Result struct {
	Symbol                     string  `json:"symbol"`
	Currency                   string  `json:"currency"`
	ShortName                  string  `json:"shortName"`
	RegularMarketPrice         float64 `json:"regularMarketPrice"`
	RegularMarketPreviousClose float64 `json:"regularMarketPreviousClose"`
	RegularMarketDayHigh       float64 `json:"regularMarketDayHigh"`
	RegularMarketDayLow        float64 `json:"regularMarketDayLow"`
	RegularMarketVolume        int64   `json:"regularMarketVolume"`
}

// Quote is the application's internal view of one instrument's pricing:
// the last traded price and the previous session's close.
type Quote struct {
	Symbol        string  `json:"symbol"`
	LastPrice     float64 `json:"lastPrice"`
	PreviousClose float64 `json:"previousClose"`
}
