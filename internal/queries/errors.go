package queries

import (
	"fmt"

	"biosignal-pipeline/internal/shared/svcerrors"
)

// QueryService errors
const (
	codeValidationFailed = "QRY_1000"
	codeSessionNotFound  = "QRY_1002"

	codeInternalChunkStoreFailed   = "QRY_9000"
	codeInternalSessionStoreFailed = "QRY_9001"
)

// errValidationFailed returns an error for malformed query requests.
func errValidationFailed(msg string, cause error) *svcerrors.ServiceError {
	return svcerrors.NewInvalidArgumentError(codeValidationFailed, msg, cause)
}

// errSessionNotFound covers both unknown sessions and sessions owned by
// someone else.
func errSessionNotFound(cause error) *svcerrors.ServiceError {
	return svcerrors.NewNotFoundError(codeSessionNotFound, "session not found", cause)
}

// errInternalChunkStoreFailed returns an error when a chunk store operation fails.
func errInternalChunkStoreFailed(cause error) *svcerrors.ServiceError {
	return svcerrors.NewInternalError(codeInternalChunkStoreFailed, fmt.Errorf("chunkStoreFailed: %w", cause))
}

// errInternalSessionStoreFailed returns an error when a session store operation fails.
func errInternalSessionStoreFailed(cause error) *svcerrors.ServiceError {
	return svcerrors.NewInternalError(codeInternalSessionStoreFailed, fmt.Errorf("sessionStoreFailed: %w", cause))
}
