package marketdata

import "github.com/shopspring/decimal"

// Response represents the raw JSON response structure from the Yahoo Finance
// quote API. This type maps directly to the v7 quote endpoint format:
//
//   - QuoteResponse.Result: Array of quote objects, one per requested symbol
//   - QuoteResponse.Error: Optional error message from the Yahoo API
//
// Symbols Yahoo does not recognize are simply absent from Result rather than
// reported as errors.
type Response struct {
	QuoteResponse struct {
		Result []struct {
			Symbol                      string  `json:"symbol"`
			Currency                    string  `json:"currency"`
			RegularMarketPrice          float64 `json:"regularMarketPrice"`
			TrailingAnnualDividendYield float64 `json:"trailingAnnualDividendYield"`
		} `json:"result"`
		Error *string `json:"error"`
	} `json:"quoteResponse"`
}

// Quote is the parsed market snapshot for one symbol.
// DividendYield is a percentage (2.5 means 2.5%).
type Quote struct {
	Symbol        string          `json:"symbol"`
	Currency      string          `json:"currency"`
	Price         decimal.Decimal `json:"price"`
	DividendYield decimal.Decimal `json:"dividendYield"`
}
