package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/sonnyholman/novusedge/internal/api"
	"github.com/sonnyholman/novusedge/internal/config"
	"github.com/sonnyholman/novusedge/internal/marketdata"
	"github.com/sonnyholman/novusedge/internal/model"
	"github.com/sonnyholman/novusedge/internal/service"
	"github.com/sonnyholman/novusedge/internal/testutil"
)

// newTestRouter wires the full HTTP surface over an in-memory database, the
// same composition cmd/server performs.
func newTestRouter(t *testing.T) (http.Handler, *testutil.Engine) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	eng := testutil.NewTestEngine(t, db)
	testutil.NewFirm().WithCash("100000").Build(t, db)

	refreshJob := service.NewRefreshJob(
		"0 0 0 * * *",
		&testutil.StaticProvider{Quotes: map[string]marketdata.Quote{}},
		eng.PositionRepo,
		eng.Sync,
		zerolog.Nop(),
	)

	cfg := &config.Config{
		Engine: testutil.TestEngineConfig(),
		CORS:   config.CORSConfig{AllowedOrigins: []string{"http://localhost"}},
	}

	router := api.NewRouter(db, eng.PositionRepo, api.Services{
		Shareholder: eng.Shareholder,
		Transaction: eng.Transaction,
		Withdrawal:  eng.Withdrawal,
		Firm:        eng.Firm,
		RefreshJob:  refreshJob,
	}, cfg, zerolog.Nop())

	return router, eng
}

// TestTransactionEndpoint_BuyThenRead processes a buy over HTTP and reads the
// resulting position back.
func TestTransactionEndpoint_BuyThenRead(t *testing.T) {
	router, _ := newTestRouter(t)

	body := map[string]any{
		"ticker":        "acme",
		"type":          "buy",
		"shares":        "10",
		"pricePerShare": "150.25",
		"fees":          "2.50",
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, testutil.NewJSONRequest(t, http.MethodPost, "/api/transaction", body))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var created model.Transaction
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if created.Ticker != "ACME" {
		t.Errorf("Ticker = %q, want ACME", created.Ticker)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/portfolio/ACME", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("get position status = %d", rec.Code)
	}

	var position model.Position
	if err := json.Unmarshal(rec.Body.Bytes(), &position); err != nil {
		t.Fatalf("decode position: %v", err)
	}
	if !position.TotalShares.Equal(created.Shares) {
		t.Errorf("TotalShares = %s, want %s", position.TotalShares, created.Shares)
	}
}

// TestTransactionEndpoint_ErrorMapping checks the typed-error to status-code
// mapping at the HTTP boundary.
func TestTransactionEndpoint_ErrorMapping(t *testing.T) {
	router, _ := newTestRouter(t)

	cases := []struct {
		name string
		body map[string]any
		want int
	}{
		{
			name: "validation failure",
			body: map[string]any{"ticker": "", "type": "buy", "shares": "1", "pricePerShare": "1"},
			want: http.StatusBadRequest,
		},
		{
			name: "sell without position",
			body: map[string]any{"ticker": "NOPE", "type": "sell", "shares": "1", "pricePerShare": "1"},
			want: http.StatusNotFound,
		},
		{
			name: "unaffordable buy",
			body: map[string]any{"ticker": "ACME", "type": "buy", "shares": "100", "pricePerShare": "9999"},
			want: http.StatusConflict,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, testutil.NewJSONRequest(t, http.MethodPost, "/api/transaction", tc.body))
			if rec.Code != tc.want {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tc.want, rec.Body.String())
			}
		})
	}
}

// TestShareholderEndpoint_OnboardAndWithdrawalPlan onboards over HTTP, then
// plans a cash-covered withdrawal.
func TestShareholderEndpoint_OnboardAndWithdrawalPlan(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, testutil.NewJSONRequest(t, http.MethodPost, "/api/shareholder", map[string]any{
		"name":       "Dana",
		"email":      "dana@example.com",
		"ownership":  "50",
		"investment": "20000",
	}))
	if rec.Code != http.StatusCreated {
		t.Fatalf("onboard status = %d, body %s", rec.Code, rec.Body.String())
	}

	var holder model.Shareholder
	if err := json.Unmarshal(rec.Body.Bytes(), &holder); err != nil {
		t.Fatalf("decode shareholder: %v", err)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, testutil.NewJSONRequest(t, http.MethodPost, "/api/withdrawal/plan", map[string]any{
		"shareholderId": holder.ID,
		"amount":        "5000",
	}))
	if rec.Code != http.StatusOK {
		t.Fatalf("plan status = %d, body %s", rec.Code, rec.Body.String())
	}

	var plan model.LiquidationPlan
	if err := json.Unmarshal(rec.Body.Bytes(), &plan); err != nil {
		t.Fatalf("decode plan: %v", err)
	}
	if len(plan.Sales) != 0 {
		t.Errorf("expected cash-covered plan, got %d sales", len(plan.Sales))
	}

	// Over-entitlement maps to 409.
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, testutil.NewJSONRequest(t, http.MethodPost, "/api/withdrawal/plan", map[string]any{
		"shareholderId": holder.ID,
		"amount":        "999999",
	}))
	if rec.Code != http.StatusConflict {
		t.Errorf("over-entitlement status = %d, want 409", rec.Code)
	}
}

// TestSystemEndpoint_Health exercises the health check.
func TestSystemEndpoint_Health(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/system/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("health status = %d", rec.Code)
	}
}
