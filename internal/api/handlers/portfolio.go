package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sonnyholman/novusedge/internal/api/response"
	"github.com/sonnyholman/novusedge/internal/repository"
)

// PortfolioHandler handles HTTP requests for portfolio position reads. The
// position set is mutated only through transactions and withdrawals, so this
// handler is read-only over the repository.
type PortfolioHandler struct {
	positionRepo *repository.PositionRepository
}

// NewPortfolioHandler creates a new PortfolioHandler with the provided repository dependency.
func NewPortfolioHandler(positionRepo *repository.PositionRepository) *PortfolioHandler {
	return &PortfolioHandler{
		positionRepo: positionRepo,
	}
}

// AllPositions handles GET requests to retrieve all portfolio positions.
//
// Endpoint: GET /api/portfolio
// Response: 200 OK with array of Position
func (h *PortfolioHandler) AllPositions(w http.ResponseWriter, r *http.Request) {
	positions, err := h.positionRepo.GetAllPositions(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, positions)
}

// GetPosition handles GET requests to retrieve one position by ticker.
//
// Endpoint: GET /api/portfolio/{ticker}
// Response: 200 OK with Position
// Error: 404 Not Found if no position exists for the ticker
func (h *PortfolioHandler) GetPosition(w http.ResponseWriter, r *http.Request) {
	position, err := h.positionRepo.GetPosition(r.Context(), chi.URLParam(r, "ticker"))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, position)
}
