package http

import (
	"net/http"

	"biosignal-pipeline/internal/sessions"

	"github.com/go-chi/chi/v5"
)

type getSessionHandler struct {
	sessionService sessions.SessionService
}

func NewGetSessionHandler(sessionService sessions.SessionService) AppHttpHandler {
	return &getSessionHandler{
		sessionService: sessionService,
	}
}

// Handle processes GET /sessions/{sessionID} requests.
func (h *getSessionHandler) Handle(w http.ResponseWriter, r *http.Request) error {
	session, err := h.sessionService.GetSession(r.Context(), userID(r), chi.URLParam(r, "sessionID"))
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, session)
	return nil
}
