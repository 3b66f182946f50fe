package testutil

import (
	"context"

	"github.com/sonnyholman/novusedge/internal/marketdata"
)

// StaticProvider is a canned marketdata.Provider for tests. It returns its
// fixed quote set regardless of the symbols requested.
type StaticProvider struct {
	Quotes map[string]marketdata.Quote
	Err    error
}

// FetchQuotes returns the canned quotes or error.
func (p *StaticProvider) FetchQuotes(ctx context.Context, symbols []string) (map[string]marketdata.Quote, error) {
	if p.Err != nil {
		return nil, p.Err
	}
	return p.Quotes, nil
}
