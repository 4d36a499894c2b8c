package http

import (
	"biosignal-pipeline/internal/shared/svcerrors"
)

// Handler-level errors for requests that fail before reaching a service.
const (
	codeInvalidRequestBody = "REQ_1000"
	codeInvalidQueryParam  = "REQ_1001"
)

// errInvalidRequestBody returns an error for unparseable request bodies.
func errInvalidRequestBody(cause error) *svcerrors.ServiceError {
	return svcerrors.NewInvalidArgumentError(codeInvalidRequestBody, "invalid json body", cause)
}

// errInvalidQueryParam returns an error for malformed query string values.
func errInvalidQueryParam(msg string, cause error) *svcerrors.ServiceError {
	return svcerrors.NewInvalidArgumentError(codeInvalidQueryParam, msg, cause)
}
