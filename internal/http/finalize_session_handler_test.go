package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"biosignal-pipeline/internal/finalizers"
	finalizermocks "biosignal-pipeline/internal/finalizers/mocks"
	"biosignal-pipeline/internal/shared/svcerrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestFinalizeSessionHandler_Handle_Success(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockFinalizationService := finalizermocks.NewMockFinalizationService(ctrl)
	handler := NewFinalizeSessionHandler(mockFinalizationService)

	req := httptest.NewRequest(http.MethodPost, "/sessions/session1/finalize", nil)
	req.Header.Set(headerUserID, "user1")
	req = withSessionID(req, "session1")
	rr := httptest.NewRecorder()

	mockFinalizationService.EXPECT().
		FinalizeSession(gomock.Any(), "user1", "session1").
		Return(&finalizers.FinalizeResult{
			SessionID:        "session1",
			TotalSamples:     1000,
			SourceChunkCount: 2,
		}, nil)

	err := handler.Handle(rr, req)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp FinalizeSessionResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 1000, resp.TotalSamples)
	assert.Equal(t, 2, resp.SourceChunkCount)
	assert.False(t, resp.AlreadyCompleted)
}

func TestFinalizeSessionHandler_Handle_AlreadyCompleted(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockFinalizationService := finalizermocks.NewMockFinalizationService(ctrl)
	handler := NewFinalizeSessionHandler(mockFinalizationService)

	req := httptest.NewRequest(http.MethodPost, "/sessions/session1/finalize", nil)
	req.Header.Set(headerUserID, "user1")
	req = withSessionID(req, "session1")
	rr := httptest.NewRecorder()

	mockFinalizationService.EXPECT().
		FinalizeSession(gomock.Any(), "user1", "session1").
		Return(&finalizers.FinalizeResult{
			SessionID:        "session1",
			TotalSamples:     1000,
			AlreadyCompleted: true,
		}, nil)

	err := handler.Handle(rr, req)

	require.NoError(t, err, "repeated finalization is a success, not an error")
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp FinalizeSessionResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.AlreadyCompleted)
}

func TestFinalizeSessionHandler_Handle_Error(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockFinalizationService := finalizermocks.NewMockFinalizationService(ctrl)
	handler := NewFinalizeSessionHandler(mockFinalizationService)

	req := httptest.NewRequest(http.MethodPost, "/sessions/missing/finalize", nil)
	req.Header.Set(headerUserID, "user1")
	req = withSessionID(req, "missing")
	rr := httptest.NewRecorder()

	expectedErr := svcerrors.NewNotFoundError("FIN_1002", "session not found", nil)
	mockFinalizationService.EXPECT().
		FinalizeSession(gomock.Any(), "user1", "missing").
		Return(nil, expectedErr)

	err := handler.Handle(rr, req)

	require.Error(t, err)
	svcErr, ok := svcerrors.AsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, "FIN_1002", svcErr.Code)
}
