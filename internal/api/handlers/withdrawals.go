package handlers

import (
	"net/http"

	"github.com/sonnyholman/novusedge/internal/api/request"
	"github.com/sonnyholman/novusedge/internal/api/response"
	"github.com/sonnyholman/novusedge/internal/service"
	"github.com/sonnyholman/novusedge/internal/validation"
)

// WithdrawalHandler handles HTTP requests for shareholder withdrawals.
type WithdrawalHandler struct {
	withdrawalService *service.WithdrawalService
}

// NewWithdrawalHandler creates a new WithdrawalHandler with the provided service dependency.
func NewWithdrawalHandler(withdrawalService *service.WithdrawalService) *WithdrawalHandler {
	return &WithdrawalHandler{
		withdrawalService: withdrawalService,
	}
}

// PlanWithdrawal handles POST requests to compute a liquidation plan without
// executing it.
//
// Endpoint: POST /api/withdrawal/plan
// Request Body: WithdrawalRequest (shareholderId, amount)
// Response: 200 OK with LiquidationPlan
// Error: 409 Conflict if the amount exceeds the shareholder's entitlement
func (h *WithdrawalHandler) PlanWithdrawal(w http.ResponseWriter, r *http.Request) {
	req, ok := h.parse(w, r)
	if !ok {
		return
	}

	plan, err := h.withdrawalService.Plan(r.Context(), req.ShareholderID, req.Amount)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, plan)
}

// ExecuteWithdrawal handles POST requests to plan and execute a withdrawal in
// one call. The plan is recomputed from current state, then executed
// atomically.
//
// Endpoint: POST /api/withdrawal
// Request Body: WithdrawalRequest (shareholderId, amount)
// Response: 200 OK with the executed LiquidationPlan
// Error: 409 Conflict on entitlement breach or plan/state mismatch
// Error: 423 Locked if position locks could not be acquired in time
func (h *WithdrawalHandler) ExecuteWithdrawal(w http.ResponseWriter, r *http.Request) {
	req, ok := h.parse(w, r)
	if !ok {
		return
	}

	plan, err := h.withdrawalService.Plan(r.Context(), req.ShareholderID, req.Amount)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	if _, err := h.withdrawalService.Execute(r.Context(), plan); err != nil {
		respondServiceError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, plan)
}

func (h *WithdrawalHandler) parse(w http.ResponseWriter, r *http.Request) (request.WithdrawalRequest, bool) {
	req, err := parseJSON[request.WithdrawalRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return req, false
	}

	if err := validation.ValidateWithdrawal(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return req, false
	}
	return req, true
}
