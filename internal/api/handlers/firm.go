package handlers

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/sonnyholman/novusedge/internal/api/request"
	"github.com/sonnyholman/novusedge/internal/api/response"
	"github.com/sonnyholman/novusedge/internal/model"
	"github.com/sonnyholman/novusedge/internal/service"
	"github.com/sonnyholman/novusedge/internal/validation"
)

// FirmHandler handles HTTP requests for the firm ledger.
type FirmHandler struct {
	firmService *service.FirmService
}

// NewFirmHandler creates a new FirmHandler with the provided service dependency.
func NewFirmHandler(firmService *service.FirmService) *FirmHandler {
	return &FirmHandler{
		firmService: firmService,
	}
}

// GetFirm handles GET requests to retrieve the firm ledger.
//
// Endpoint: GET /api/firm
// Response: 200 OK with Firm
// Error: 404 Not Found if the firm has not been created
func (h *FirmHandler) GetFirm(w http.ResponseWriter, r *http.Request) {
	firm, err := h.firmService.GetFirm(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, firm)
}

// CreateFirm handles POST requests to create the firm ledger.
//
// Endpoint: POST /api/firm
// Request Body: CreateFirmRequest (firmName)
// Response: 201 Created with Firm
// Error: 409 Conflict if a firm already exists
func (h *FirmHandler) CreateFirm(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateFirmRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateFirm(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	firm, err := h.firmService.CreateFirm(r.Context(), req.FirmName)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusCreated, firm)
}

// PostExpense handles POST requests to record an operating expense.
//
// Endpoint: POST /api/firm/expense
func (h *FirmHandler) PostExpense(w http.ResponseWriter, r *http.Request) {
	h.post(w, r, h.firmService.PostExpense)
}

// PostRevenue handles POST requests to record revenue.
//
// Endpoint: POST /api/firm/revenue
func (h *FirmHandler) PostRevenue(w http.ResponseWriter, r *http.Request) {
	h.post(w, r, h.firmService.PostRevenue)
}

// PostLiability handles POST requests to record a liability.
//
// Endpoint: POST /api/firm/liability
func (h *FirmHandler) PostLiability(w http.ResponseWriter, r *http.Request) {
	h.post(w, r, h.firmService.PostLiability)
}

func (h *FirmHandler) post(w http.ResponseWriter, r *http.Request, apply func(context.Context, decimal.Decimal) (model.Firm, error)) {
	req, err := parseJSON[request.PostingRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidatePosting(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	firm, err := apply(r.Context(), req.Amount)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, firm)
}
