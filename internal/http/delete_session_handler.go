package http

import (
	"net/http"

	"biosignal-pipeline/internal/sessions"

	"github.com/go-chi/chi/v5"
)

type deleteSessionHandler struct {
	sessionService sessions.SessionService
}

func NewDeleteSessionHandler(sessionService sessions.SessionService) AppHttpHandler {
	return &deleteSessionHandler{
		sessionService: sessionService,
	}
}

// Handle processes DELETE /sessions/{sessionID} requests.
func (h *deleteSessionHandler) Handle(w http.ResponseWriter, r *http.Request) error {
	err := h.sessionService.DeleteSession(r.Context(), userID(r), chi.URLParam(r, "sessionID"))
	if err != nil {
		return err
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}
