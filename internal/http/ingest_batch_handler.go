package http

import (
	"encoding/json"
	"net/http"

	"biosignal-pipeline/internal/ingestors"
	"biosignal-pipeline/internal/models"

	"github.com/go-chi/chi/v5"
)

const maxBatchBytes = 4 * 1024 * 1024

// IngestBatchResponse is the response body for POST /sessions/{sessionID}/batches.
type IngestBatchResponse struct {
	SessionID      string               `json:"sessionId"`
	SequenceIndex  int                  `json:"sequenceIndex"`
	ProcessedCount int                  `json:"processedCount"`
	SessionStatus  models.SessionStatus `json:"sessionStatus"`
}

type ingestBatchHandler struct {
	ingestionService ingestors.IngestionService
}

func NewIngestBatchHandler(ingestionService ingestors.IngestionService) AppHttpHandler {
	return &ingestBatchHandler{
		ingestionService: ingestionService,
	}
}

// Handle processes POST /sessions/{sessionID}/batches requests.
func (h *ingestBatchHandler) Handle(w http.ResponseWriter, r *http.Request) error {
	var batch models.UploadBatch
	limited := http.MaxBytesReader(w, r.Body, maxBatchBytes)
	if err := json.NewDecoder(limited).Decode(&batch); err != nil {
		return errInvalidRequestBody(err)
	}

	// The path owns the session identity; a body-level session ID must agree.
	sessionID := chi.URLParam(r, "sessionID")
	if batch.SessionID == "" {
		batch.SessionID = sessionID
	} else if batch.SessionID != sessionID {
		return errInvalidQueryParam("body sessionId does not match URL", nil)
	}

	result, err := h.ingestionService.IngestBatch(r.Context(), userID(r), userAgent(r), &batch)
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusAccepted, IngestBatchResponse{
		SessionID:      result.SessionID,
		SequenceIndex:  result.SequenceIndex,
		ProcessedCount: result.ProcessedCount,
		SessionStatus:  result.SessionStatus,
	})
	return nil
}
