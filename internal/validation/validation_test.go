package validation

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/sonnyholman/novusedge/internal/api/request"
)

func TestIsValidEmail(t *testing.T) {
	cases := []struct {
		email string
		want  bool
	}{
		{"alice@example.com", true},
		{"first.last+tag@sub.example.co", true},
		{"no-at-sign", false},
		{"missing@tld", false},
		{"@example.com", false},
		{"", false},
	}

	for _, tc := range cases {
		if got := IsValidEmail(tc.email); got != tc.want {
			t.Errorf("IsValidEmail(%q) = %v, want %v", tc.email, got, tc.want)
		}
	}
}

func TestValidateCreateTransaction(t *testing.T) {
	valid := request.CreateTransactionRequest{
		Ticker:        "ACME",
		Type:          "buy",
		Shares:        decimal.NewFromInt(10),
		PricePerShare: decimal.NewFromInt(50),
	}
	if err := ValidateCreateTransaction(valid); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*request.CreateTransactionRequest)
		field  string
	}{
		{"missing ticker", func(r *request.CreateTransactionRequest) { r.Ticker = " " }, "ticker"},
		{"bad type", func(r *request.CreateTransactionRequest) { r.Type = "dividend" }, "type"},
		{"zero shares", func(r *request.CreateTransactionRequest) { r.Shares = decimal.Zero }, "shares"},
		{"negative price", func(r *request.CreateTransactionRequest) { r.PricePerShare = decimal.NewFromInt(-1) }, "pricePerShare"},
		{"negative fees", func(r *request.CreateTransactionRequest) { r.Fees = decimal.NewFromInt(-1) }, "fees"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := valid
			tc.mutate(&req)

			err := ValidateCreateTransaction(req)
			vErr, ok := err.(*Error)
			if !ok {
				t.Fatalf("expected *Error, got %v", err)
			}
			if _, present := vErr.Fields[tc.field]; !present {
				t.Errorf("expected field %q in %v", tc.field, vErr.Fields)
			}
		})
	}
}

func TestValidateWithdrawal(t *testing.T) {
	err := ValidateWithdrawal(request.WithdrawalRequest{
		ShareholderID: "not-a-uuid",
		Amount:        decimal.Zero,
	})
	vErr, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *Error, got %v", err)
	}
	for _, field := range []string{"shareholderId", "amount"} {
		if _, present := vErr.Fields[field]; !present {
			t.Errorf("expected field %q in %v", field, vErr.Fields)
		}
	}
}
