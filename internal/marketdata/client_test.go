package marketdata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
)

func TestFetchQuotes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("symbols"); got != "ACME,BOLT" {
			t.Errorf("symbols = %q, want ACME,BOLT", got)
		}
		w.Header().Set("Content-Type", "application/json")
		// BOLT is unknown to the provider and omitted from the result.
		w.Write([]byte(`{"quoteResponse":{"result":[
			{"symbol":"acme","currency":"USD","regularMarketPrice":65.5,"trailingAnnualDividendYield":0.021}
		],"error":null}}`))
	}))
	defer server.Close()

	client := NewFinanceClient()
	client.baseURL = server.URL

	quotes, err := client.FetchQuotes(context.Background(), []string{"ACME", "BOLT"})
	if err != nil {
		t.Fatalf("FetchQuotes: %v", err)
	}

	if len(quotes) != 1 {
		t.Fatalf("got %d quotes, want 1", len(quotes))
	}
	quote, ok := quotes["ACME"]
	if !ok {
		t.Fatalf("quote keyed %v, want uppercase ACME", quotes)
	}
	if !quote.Price.Equal(decimal.RequireFromString("65.5")) {
		t.Errorf("Price = %s, want 65.5", quote.Price)
	}
	// Fractional yield converted to a percentage.
	if !quote.DividendYield.Equal(decimal.RequireFromString("2.1")) {
		t.Errorf("DividendYield = %s, want 2.1", quote.DividendYield)
	}
}

func TestFetchQuotes_ProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"quoteResponse":{"result":[],"error":"rate limited"}}`))
	}))
	defer server.Close()

	client := NewFinanceClient()
	client.baseURL = server.URL

	if _, err := client.FetchQuotes(context.Background(), []string{"ACME"}); err == nil {
		t.Fatal("expected error from provider")
	}
}

func TestFetchQuotes_NoSymbols(t *testing.T) {
	client := NewFinanceClient()

	quotes, err := client.FetchQuotes(context.Background(), nil)
	if err != nil {
		t.Fatalf("FetchQuotes: %v", err)
	}
	if len(quotes) != 0 {
		t.Errorf("got %d quotes, want 0", len(quotes))
	}
}
