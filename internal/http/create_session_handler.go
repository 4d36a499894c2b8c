package http

import (
	"encoding/json"
	"net/http"

	"biosignal-pipeline/internal/sessions"
)

// CreateSessionRequest is the request body for POST /sessions.
type CreateSessionRequest struct {
	SessionID  string  `json:"sessionId,omitempty"`
	DeviceID   string  `json:"deviceId"`
	DeviceType string  `json:"deviceType,omitempty"`
	DeviceName string  `json:"deviceName,omitempty"`
	SampleRate float64 `json:"sampleRate,omitempty"`
}

type createSessionHandler struct {
	sessionService sessions.SessionService
}

func NewCreateSessionHandler(sessionService sessions.SessionService) AppHttpHandler {
	return &createSessionHandler{
		sessionService: sessionService,
	}
}

// Handle processes POST /sessions requests.
func (h *createSessionHandler) Handle(w http.ResponseWriter, r *http.Request) error {
	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return errInvalidRequestBody(err)
	}

	session, err := h.sessionService.CreateSession(r.Context(), userID(r), sessions.CreateSessionParams{
		SessionID:  req.SessionID,
		DeviceID:   req.DeviceID,
		DeviceType: req.DeviceType,
		DeviceName: req.DeviceName,
		SampleRate: req.SampleRate,
	})
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusCreated, session)
	return nil
}
