package sessions

import (
	"fmt"

	"biosignal-pipeline/internal/shared/svcerrors"
)

// SessionService errors
const (
	codeValidationFailed     = "SES_1000"
	codeSessionNotFound      = "SES_1002"
	codeSessionAlreadyExists = "SES_1004"

	codeInternalChunkStoreFailed   = "SES_9000"
	codeInternalSessionStoreFailed = "SES_9001"
)

// errValidationFailed returns an error for malformed session requests.
func errValidationFailed(msg string, cause error) *svcerrors.ServiceError {
	return svcerrors.NewInvalidArgumentError(codeValidationFailed, msg, cause)
}

// errSessionNotFound covers both unknown sessions and sessions owned by
// someone else.
func errSessionNotFound(cause error) *svcerrors.ServiceError {
	return svcerrors.NewNotFoundError(codeSessionNotFound, "session not found", cause)
}

// errSessionAlreadyExists returns an error when a client-supplied session ID
// collides with an existing session.
func errSessionAlreadyExists(cause error) *svcerrors.ServiceError {
	return svcerrors.NewResourceConflictError(codeSessionAlreadyExists, "session already exists", cause)
}

// errInternalChunkStoreFailed returns an error when a chunk store operation fails.
func errInternalChunkStoreFailed(cause error) *svcerrors.ServiceError {
	return svcerrors.NewInternalError(codeInternalChunkStoreFailed, fmt.Errorf("chunkStoreFailed: %w", cause))
}

// errInternalSessionStoreFailed returns an error when a session store operation fails.
func errInternalSessionStoreFailed(cause error) *svcerrors.ServiceError {
	return svcerrors.NewInternalError(codeInternalSessionStoreFailed, fmt.Errorf("sessionStoreFailed: %w", cause))
}
