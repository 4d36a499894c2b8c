package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"biosignal-pipeline/internal/models"
	"biosignal-pipeline/internal/sessions"
	sessionmocks "biosignal-pipeline/internal/sessions/mocks"
	"biosignal-pipeline/internal/shared/svcerrors"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// withSessionID attaches a chi route context carrying the sessionID URL param.
func withSessionID(req *http.Request, sessionID string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("sessionID", sessionID)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestCreateSessionHandler_Handle_Success(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSessionService := sessionmocks.NewMockSessionService(ctrl)
	handler := NewCreateSessionHandler(mockSessionService)

	body := []byte(`{"deviceId":"device1","deviceType":"ecg","sampleRate":1000}`)
	req := httptest.NewRequest(http.MethodPost, "/sessions", bytes.NewReader(body))
	req.Header.Set(headerUserID, "user1")
	rr := httptest.NewRecorder()

	mockSessionService.EXPECT().
		CreateSession(gomock.Any(), "user1", sessions.CreateSessionParams{
			DeviceID:   "device1",
			DeviceType: "ecg",
			SampleRate: 1000,
		}).
		Return(&models.Session{SessionID: "session1", UserID: "user1", Status: models.SessionActive}, nil)

	err := handler.Handle(rr, req)

	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rr.Code)

	var session models.Session
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &session))
	assert.Equal(t, "session1", session.SessionID)
}

func TestCreateSessionHandler_Handle_InvalidBody(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSessionService := sessionmocks.NewMockSessionService(ctrl)
	handler := NewCreateSessionHandler(mockSessionService)

	req := httptest.NewRequest(http.MethodPost, "/sessions", bytes.NewReader([]byte(`{not json`)))
	req.Header.Set(headerUserID, "user1")
	rr := httptest.NewRecorder()

	err := handler.Handle(rr, req)

	require.Error(t, err)
	svcErr, ok := svcerrors.AsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, "REQ_1000", svcErr.Code)
}

func TestGetSessionHandler_Handle_Success(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSessionService := sessionmocks.NewMockSessionService(ctrl)
	handler := NewGetSessionHandler(mockSessionService)

	req := httptest.NewRequest(http.MethodGet, "/sessions/session1", nil)
	req.Header.Set(headerUserID, "user1")
	req = withSessionID(req, "session1")
	rr := httptest.NewRecorder()

	mockSessionService.EXPECT().
		GetSession(gomock.Any(), "user1", "session1").
		Return(&models.Session{SessionID: "session1", UserID: "user1"}, nil)

	err := handler.Handle(rr, req)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestGetSessionHandler_Handle_NotFound(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSessionService := sessionmocks.NewMockSessionService(ctrl)
	handler := NewGetSessionHandler(mockSessionService)

	req := httptest.NewRequest(http.MethodGet, "/sessions/missing", nil)
	req.Header.Set(headerUserID, "user1")
	req = withSessionID(req, "missing")
	rr := httptest.NewRecorder()

	expectedErr := svcerrors.NewNotFoundError("SES_1002", "session not found", nil)
	mockSessionService.EXPECT().
		GetSession(gomock.Any(), "user1", "missing").
		Return(nil, expectedErr)

	err := handler.Handle(rr, req)

	require.Error(t, err)
	svcErr, ok := svcerrors.AsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, "SES_1002", svcErr.Code)
}

func TestDeleteSessionHandler_Handle_Success(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSessionService := sessionmocks.NewMockSessionService(ctrl)
	handler := NewDeleteSessionHandler(mockSessionService)

	req := httptest.NewRequest(http.MethodDelete, "/sessions/session1", nil)
	req.Header.Set(headerUserID, "user1")
	req = withSessionID(req, "session1")
	rr := httptest.NewRecorder()

	mockSessionService.EXPECT().
		DeleteSession(gomock.Any(), "user1", "session1").
		Return(nil)

	err := handler.Handle(rr, req)

	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, rr.Code)
}
