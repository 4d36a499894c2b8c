package ingestors

import (
	"fmt"

	"biosignal-pipeline/internal/shared/svcerrors"
)

// IngestionService errors
const (
	codeValidationFailed    = "ING_1000"
	codeBatchIntegrity      = "ING_1001"
	codeSessionNotFound     = "ING_1002"
	codeSessionNotActive    = "ING_1003"
	codeDuplicateChunkIndex = "ING_1004"

	codeInternalChunkStoreFailed   = "ING_9000"
	codeInternalSessionStoreFailed = "ING_9001"
)

// errValidationFailed returns an error for malformed batch requests.
func errValidationFailed(msg string, cause error) *svcerrors.ServiceError {
	return svcerrors.NewInvalidArgumentError(codeValidationFailed, msg, cause)
}

// errBatchIntegrity returns an error when declared batch metadata does not
// match the actual payload.
func errBatchIntegrity(msg string, cause error) *svcerrors.ServiceError {
	return svcerrors.NewInvalidArgumentError(codeBatchIntegrity, msg, cause)
}

// errSessionNotFound is returned both when no session matches and when the
// caller does not own it; the two cases are deliberately indistinguishable.
func errSessionNotFound(cause error) *svcerrors.ServiceError {
	return svcerrors.NewNotFoundError(codeSessionNotFound, "session not found", cause)
}

// errSessionNotActive returns an error when a batch arrives for a session
// in a non-active, non-completed state.
func errSessionNotActive(cause error) *svcerrors.ServiceError {
	return svcerrors.NewFailedPreconditionError(codeSessionNotActive, "session is not active", cause)
}

// errDuplicateChunkIndex returns an error when two uploads race on the same
// provisional sequence index. The caller may retry with a re-read count.
func errDuplicateChunkIndex(cause error) *svcerrors.ServiceError {
	return svcerrors.NewResourceConflictError(codeDuplicateChunkIndex, "chunk sequence index already taken", cause)
}

// errInternalChunkStoreFailed returns an error when a chunk store operation fails.
func errInternalChunkStoreFailed(cause error) *svcerrors.ServiceError {
	return svcerrors.NewInternalError(codeInternalChunkStoreFailed, fmt.Errorf("chunkStoreFailed: %w", cause))
}

// errInternalSessionStoreFailed returns an error when a session store operation fails.
func errInternalSessionStoreFailed(cause error) *svcerrors.ServiceError {
	return svcerrors.NewInternalError(codeInternalSessionStoreFailed, fmt.Errorf("sessionStoreFailed: %w", cause))
}
