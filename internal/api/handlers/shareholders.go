package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sonnyholman/novusedge/internal/api/request"
	"github.com/sonnyholman/novusedge/internal/api/response"
	"github.com/sonnyholman/novusedge/internal/service"
	"github.com/sonnyholman/novusedge/internal/validation"
)

// ShareholderHandler handles HTTP requests for shareholder endpoints.
type ShareholderHandler struct {
	shareholderService *service.ShareholderService
}

// NewShareholderHandler creates a new ShareholderHandler with the provided service dependency.
func NewShareholderHandler(shareholderService *service.ShareholderService) *ShareholderHandler {
	return &ShareholderHandler{
		shareholderService: shareholderService,
	}
}

// Onboard handles POST requests to onboard a new shareholder.
//
// Endpoint: POST /api/shareholder
// Request Body: OnboardShareholderRequest (name, email, ownership, investment)
// Response: 201 Created with Shareholder
// Error: 400 Bad Request if validation fails
// Error: 409 Conflict if the name or email exists or ownership would exceed 100%
func (h *ShareholderHandler) Onboard(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.OnboardShareholderRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateOnboardShareholder(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	shareholder, err := h.shareholderService.Onboard(r.Context(), service.OnboardRequest{
		Name:       req.Name,
		Email:      req.Email,
		Ownership:  req.Ownership,
		Investment: req.Investment,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusCreated, shareholder)
}

// GetShareholder handles GET requests to retrieve a single shareholder by ID.
//
// Endpoint: GET /api/shareholder/{uuid}
// Response: 200 OK with Shareholder
// Error: 404 Not Found if shareholder not found
func (h *ShareholderHandler) GetShareholder(w http.ResponseWriter, r *http.Request) {
	shareholder, err := h.shareholderService.GetShareholder(r.Context(), chi.URLParam(r, "uuid"))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, shareholder)
}

// AllShareholders handles GET requests to retrieve all shareholders.
//
// Endpoint: GET /api/shareholder
// Response: 200 OK with array of Shareholder
func (h *ShareholderHandler) AllShareholders(w http.ResponseWriter, r *http.Request) {
	shareholders, err := h.shareholderService.GetAllShareholders(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, shareholders)
}

// SetStatus handles PUT requests to activate or deactivate a shareholder.
//
// Endpoint: PUT /api/shareholder/{uuid}/status
// Request Body: UpdateShareholderStatusRequest (status)
// Response: 200 OK with updated Shareholder
// Error: 400 Bad Request if the status value is invalid
// Error: 404 Not Found if shareholder not found
func (h *ShareholderHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.UpdateShareholderStatusRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateShareholderStatus(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	shareholder, err := h.shareholderService.SetStatus(r.Context(), chi.URLParam(r, "uuid"), req.Status)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, shareholder)
}

// DeleteShareholder handles DELETE requests to remove a shareholder.
//
// Endpoint: DELETE /api/shareholder/{uuid}
// Response: 204 No Content
// Error: 404 Not Found if shareholder not found
// Error: 409 Conflict if the shareholder still holds ownership
func (h *ShareholderHandler) DeleteShareholder(w http.ResponseWriter, r *http.Request) {
	if err := h.shareholderService.Delete(r.Context(), chi.URLParam(r, "uuid")); err != nil {
		respondServiceError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}
