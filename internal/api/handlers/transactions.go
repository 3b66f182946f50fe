package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sonnyholman/novusedge/internal/api/request"
	"github.com/sonnyholman/novusedge/internal/api/response"
	"github.com/sonnyholman/novusedge/internal/repository"
	"github.com/sonnyholman/novusedge/internal/service"
	"github.com/sonnyholman/novusedge/internal/validation"
)

// TransactionHandler handles HTTP requests for transaction endpoints.
// It serves as the HTTP layer adapter, parsing requests and delegating
// business logic to the transactionService.
type TransactionHandler struct {
	transactionService *service.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler with the provided service dependency.
func NewTransactionHandler(transactionService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
	}
}

// CreateTransaction handles POST requests to process a buy or sell.
//
// Endpoint: POST /api/transaction
// Request Body: CreateTransactionRequest (ticker, type, shares, pricePerShare, fees, notes)
// Response: 201 Created with the recorded Transaction
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 404 Not Found when selling a ticker with no position
// Error: 409 Conflict on insufficient shares or cash
// Error: 423 Locked if the position lock could not be acquired in time
func (h *TransactionHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateTransactionRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateTransaction(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	transaction, err := h.transactionService.Process(r.Context(), service.TradeRequest{
		Ticker:        req.Ticker,
		Type:          req.Type,
		Shares:        req.Shares,
		PricePerShare: req.PricePerShare,
		Fees:          req.Fees,
		DividendYield: req.DividendYield,
		Notes:         req.Notes,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusCreated, transaction)
}

// GetTransaction handles GET requests to retrieve a single transaction by ID.
//
// Endpoint: GET /api/transaction/{uuid}
// Response: 200 OK with Transaction
// Error: 404 Not Found if transaction not found
func (h *TransactionHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	transaction, err := h.transactionService.GetTransaction(r.Context(), chi.URLParam(r, "uuid"))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, transaction)
}

// AllTransactions handles GET requests to retrieve the transaction audit
// trail, oldest first.
//
// Endpoint: GET /api/transaction?ticker=AAPL&startDate=2026-01-01&endDate=2026-01-31
// Response: 200 OK with array of Transaction
// Error: 400 Bad Request if a date filter is malformed
func (h *TransactionHandler) AllTransactions(w http.ResponseWriter, r *http.Request) {
	filter := repository.TransactionFilter{
		Ticker: r.URL.Query().Get("ticker"),
	}

	if raw := r.URL.Query().Get("startDate"); raw != "" {
		start, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.RespondError(w, http.StatusBadRequest, "invalid startDate", err.Error())
			return
		}
		filter.StartDate = start
	}
	if raw := r.URL.Query().Get("endDate"); raw != "" {
		end, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.RespondError(w, http.StatusBadRequest, "invalid endDate", err.Error())
			return
		}
		// Inclusive end of day.
		filter.EndDate = end.Add(24*time.Hour - time.Second)
	}

	transactions, err := h.transactionService.GetTransactions(r.Context(), filter)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, transactions)
}
