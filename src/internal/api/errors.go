package api

import (
	"encoding/json"
	"net/http"
	"strings"

	fiberrors "github.com/maksimkurb/fibctl/src/internal/errors"
)

// ErrorCode represents standard API error codes.
type ErrorCode string

const (
	// ErrCodeInvalidRequest indicates malformed or invalid request data.
	ErrCodeInvalidRequest ErrorCode = "invalid_request"

	// ErrCodeNotFound indicates the requested resource was not found.
	ErrCodeNotFound ErrorCode = "not_found"

	// ErrCodeForbidden indicates the client address is not allowed.
	ErrCodeForbidden ErrorCode = "forbidden"

	// ErrCodeInternalError indicates an internal server error.
	ErrCodeInternalError ErrorCode = "internal_error"
)

// APIError represents a structured API error response.
type APIError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ErrorResponse wraps an APIError for JSON responses.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// NewAPIError creates a new APIError with the given code and message.
func NewAPIError(code ErrorCode, message string) APIError {
	return APIError{
		Code:    code,
		Message: message,
		Details: nil,
	}
}

// WithDetails adds details to an APIError.
func (e APIError) WithDetails(details map[string]interface{}) APIError {
	e.Details = details
	return e
}

// WriteError writes an error response to the HTTP response writer.
func WriteError(w http.ResponseWriter, statusCode int, err APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{Error: err})
}

// WriteInvalidRequest writes a 400 Bad Request error.
func WriteInvalidRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, NewAPIError(ErrCodeInvalidRequest, message))
}

// WriteNotFound writes a 404 Not Found error.
func WriteNotFound(w http.ResponseWriter, resource string) {
	WriteError(w, http.StatusNotFound, NewAPIError(ErrCodeNotFound, resource+" not found"))
}

// WriteForbidden writes a 403 Forbidden error.
func WriteForbidden(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusForbidden, NewAPIError(ErrCodeForbidden, message))
}

// WriteInternalError writes a 500 Internal Server Error.
func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, NewAPIError(ErrCodeInternalError, message))
}

// statusForCode maps engine error codes to HTTP statuses. Failures of the
// upstream daemons are gateway errors, a timeout is a gateway timeout.
var statusForCode = map[fiberrors.ErrorCode]int{
	fiberrors.ErrCodeMalformedInput:     http.StatusBadRequest,
	fiberrors.ErrCodeAgentUnreachable:   http.StatusBadGateway,
	fiberrors.ErrCodeAgentTimeout:       http.StatusGatewayTimeout,
	fiberrors.ErrCodeAgentProtocol:      http.StatusBadGateway,
	fiberrors.ErrCodeAgentRejected:      http.StatusBadGateway,
	fiberrors.ErrCodeDecision:           http.StatusBadGateway,
	fiberrors.ErrCodeKernelAccess:       http.StatusServiceUnavailable,
	fiberrors.ErrCodeValidationMismatch: http.StatusConflict,
}

// WriteEngineError writes err with the status matching its error code. The
// API error code is the lower-cased engine code.
func WriteEngineError(w http.ResponseWriter, err error) {
	code := fiberrors.CodeOf(err)
	status, ok := statusForCode[code]
	if !ok {
		status = http.StatusInternalServerError
	}
	WriteError(w, status, NewAPIError(ErrorCode(strings.ToLower(string(code))), err.Error()))
}
