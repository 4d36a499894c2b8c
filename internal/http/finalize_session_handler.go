package http

import (
	"net/http"

	"biosignal-pipeline/internal/finalizers"

	"github.com/go-chi/chi/v5"
)

// FinalizeSessionResponse is the response body for POST /sessions/{sessionID}/finalize.
type FinalizeSessionResponse struct {
	SessionID        string `json:"sessionId"`
	TotalSamples     int    `json:"totalSamples"`
	SourceChunkCount int    `json:"sourceChunkCount"`
	AlreadyCompleted bool   `json:"alreadyCompleted"`
}

type finalizeSessionHandler struct {
	finalizationService finalizers.FinalizationService
}

func NewFinalizeSessionHandler(finalizationService finalizers.FinalizationService) AppHttpHandler {
	return &finalizeSessionHandler{
		finalizationService: finalizationService,
	}
}

// Handle processes POST /sessions/{sessionID}/finalize requests.
func (h *finalizeSessionHandler) Handle(w http.ResponseWriter, r *http.Request) error {
	result, err := h.finalizationService.FinalizeSession(r.Context(), userID(r), chi.URLParam(r, "sessionID"))
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, FinalizeSessionResponse{
		SessionID:        result.SessionID,
		TotalSamples:     result.TotalSamples,
		SourceChunkCount: result.SourceChunkCount,
		AlreadyCompleted: result.AlreadyCompleted,
	})
	return nil
}
