package finalizers

import (
	"fmt"

	"biosignal-pipeline/internal/shared/svcerrors"
)

// FinalizationService errors
const (
	codeValidationFailed = "FIN_1000"
	codeSessionNotFound  = "FIN_1002"
	codeSessionNotActive = "FIN_1003"

	codeInternalChunkStoreFailed   = "FIN_9000"
	codeInternalSessionStoreFailed = "FIN_9001"
)

// errValidationFailed returns an error for malformed finalize requests.
func errValidationFailed(msg string, cause error) *svcerrors.ServiceError {
	return svcerrors.NewInvalidArgumentError(codeValidationFailed, msg, cause)
}

// errSessionNotFound covers both unknown sessions and sessions owned by
// someone else.
func errSessionNotFound(cause error) *svcerrors.ServiceError {
	return svcerrors.NewNotFoundError(codeSessionNotFound, "session not found", cause)
}

// errSessionNotActive returns an error when the session is in the error state.
func errSessionNotActive(cause error) *svcerrors.ServiceError {
	return svcerrors.NewFailedPreconditionError(codeSessionNotActive, "session is not active", cause)
}

// errInternalChunkStoreFailed returns an error when a chunk store operation fails.
func errInternalChunkStoreFailed(cause error) *svcerrors.ServiceError {
	return svcerrors.NewInternalError(codeInternalChunkStoreFailed, fmt.Errorf("chunkStoreFailed: %w", cause))
}

// errInternalSessionStoreFailed returns an error when a session store operation fails.
func errInternalSessionStoreFailed(cause error) *svcerrors.ServiceError {
	return svcerrors.NewInternalError(codeInternalSessionStoreFailed, fmt.Errorf("sessionStoreFailed: %w", cause))
}
