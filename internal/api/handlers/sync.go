package handlers

import (
	"net/http"

	"github.com/sonnyholman/novusedge/internal/api/response"
	"github.com/sonnyholman/novusedge/internal/service"
)

// SyncHandler handles HTTP requests for the market refresh.
type SyncHandler struct {
	refreshJob *service.RefreshJob
}

// NewSyncHandler creates a new SyncHandler with the provided job dependency.
func NewSyncHandler(refreshJob *service.RefreshJob) *SyncHandler {
	return &SyncHandler{
		refreshJob: refreshJob,
	}
}

// Refresh handles POST requests to run a market refresh pass immediately.
// Without force=true a pass that already completed today is skipped.
//
// Endpoint: POST /api/sync/refresh?force=true
// Response: 200 OK with RefreshResult
// Error: 423 Locked if the snapshot lock could not be acquired in time
func (h *SyncHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	force := r.URL.Query().Get("force") == "true"

	result, err := h.refreshJob.RunOnce(r.Context(), force)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, result)
}
