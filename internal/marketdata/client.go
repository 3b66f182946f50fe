package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
)

// Provider fetches market quotes for a set of tickers. The daily refresh job
// consumes this interface; tests substitute a canned implementation.
type Provider interface {
	FetchQuotes(ctx context.Context, symbols []string) (map[string]Quote, error)
}

// FinanceClient fetches quotes from the Yahoo Finance quote API.
// It wraps an HTTP client and batches all requested symbols into a single
// request.
type FinanceClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewFinanceClient creates a new Yahoo Finance client with default HTTP settings.
func NewFinanceClient() *FinanceClient {
	return &FinanceClient{
		httpClient: &http.Client{},
		baseURL:    "https://query1.finance.yahoo.com/v7/finance/quote",
	}
}

// FetchQuotes fetches current price and trailing dividend yield for the given
// symbols. Symbols Yahoo does not recognize are absent from the returned map;
// the caller decides how to treat the gap.
//
// Yahoo reports the trailing yield as a fraction; it is converted to a
// percentage here so downstream arithmetic works in the same unit as the
// stored dividend_yield column.
func (c *FinanceClient) FetchQuotes(ctx context.Context, symbols []string) (map[string]Quote, error) {
	if len(symbols) == 0 {
		return map[string]Quote{}, nil
	}

	reqURL := fmt.Sprintf("%s?symbols=%s", c.baseURL, url.QueryEscape(strings.Join(symbols, ",")))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var response Response
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, err
	}
	if response.QuoteResponse.Error != nil {
		return nil, fmt.Errorf("yahoo error: %s", *response.QuoteResponse.Error)
	}

	quotes := make(map[string]Quote, len(response.QuoteResponse.Result))
	for _, r := range response.QuoteResponse.Result {
		if r.RegularMarketPrice <= 0 {
			continue
		}
		quotes[strings.ToUpper(r.Symbol)] = Quote{
			Symbol:        strings.ToUpper(r.Symbol),
			Currency:      r.Currency,
			Price:         decimal.NewFromFloat(r.RegularMarketPrice).Round(4),
			DividendYield: decimal.NewFromFloat(r.TrailingAnnualDividendYield * 100).Round(4),
		}
	}
	return quotes, nil
}
