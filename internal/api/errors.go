package api

import (
	"errors"
	"net/http"

	"github.com/dailydone/checklist-api/internal/domain"
	"github.com/dailydone/checklist-api/internal/generation"
	"github.com/dailydone/checklist-api/internal/quota"
	"github.com/dailydone/checklist-api/internal/sanitize"
)

// Machine-readable error kinds returned in response bodies.
const (
	CodeValidationError    = "VALIDATION_ERROR"
	CodeQuotaExceeded      = "QUOTA_EXCEEDED"
	CodeUpstreamCallFailed = "UPSTREAM_CALL_FAILED"
	CodeEmptyOutput        = "EMPTY_OUTPUT"
	CodeTruncatedOutput    = "TRUNCATED_OUTPUT"
	CodeMalformedJSON      = "MALFORMED_JSON"
	CodeInternal           = "INTERNAL_ERROR"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes. Quota
// rejections use a distinct status from validation errors, and upstream
// failures are reported as a bad gateway rather than a server bug.
func MapErrorToStatusCode(err error) int {
	switch {
	// Request validation errors
	case errors.Is(err, domain.ErrMissingUserID),
		errors.Is(err, domain.ErrMissingTaskID),
		errors.Is(err, domain.ErrMissingTaskTitle),
		errors.Is(err, domain.ErrMissingTaskDescription):
		return http.StatusBadRequest

	// Quota rejections
	case errors.Is(err, quota.ErrTaskLimitReached),
		errors.Is(err, quota.ErrUserLimitReached):
		return http.StatusTooManyRequests

	// Upstream call and response failures
	case errors.Is(err, generation.ErrCallExhausted),
		errors.Is(err, generation.ErrInvalidResponse),
		errors.Is(err, sanitize.ErrEmptyOutput),
		errors.Is(err, sanitize.ErrTruncatedOutput),
		errors.Is(err, sanitize.ErrMalformedJSON):
		return http.StatusBadGateway

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// MapErrorToCode maps internal errors to the machine-readable kind carried
// in the response body.
func MapErrorToCode(err error) string {
	switch {
	case errors.Is(err, domain.ErrMissingUserID),
		errors.Is(err, domain.ErrMissingTaskID),
		errors.Is(err, domain.ErrMissingTaskTitle),
		errors.Is(err, domain.ErrMissingTaskDescription):
		return CodeValidationError

	case errors.Is(err, quota.ErrTaskLimitReached),
		errors.Is(err, quota.ErrUserLimitReached):
		return CodeQuotaExceeded

	case errors.Is(err, generation.ErrCallExhausted),
		errors.Is(err, generation.ErrInvalidResponse):
		return CodeUpstreamCallFailed

	case errors.Is(err, sanitize.ErrEmptyOutput):
		return CodeEmptyOutput

	case errors.Is(err, sanitize.ErrTruncatedOutput):
		return CodeTruncatedOutput

	case errors.Is(err, sanitize.ErrMalformedJSON):
		return CodeMalformedJSON

	default:
		return CodeInternal
	}
}

// GetSafeErrorMessage returns a user-facing message for the error without
// leaking internal detail.
func GetSafeErrorMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrMissingUserID):
		return "userId is required"
	case errors.Is(err, domain.ErrMissingTaskID):
		return "taskId is required"
	case errors.Is(err, domain.ErrMissingTaskTitle):
		return "taskTitle is required"
	case errors.Is(err, domain.ErrMissingTaskDescription):
		return "taskDescription is required"

	case errors.Is(err, quota.ErrTaskLimitReached):
		return "Checklist generation limit reached for this task today for this user"
	case errors.Is(err, quota.ErrUserLimitReached):
		return "User has reached the daily checklist generation limit for new tasks"

	case errors.Is(err, generation.ErrCallExhausted):
		return "Error calling LLM API"
	case errors.Is(err, generation.ErrInvalidResponse):
		return "No text generated"

	case errors.Is(err, sanitize.ErrEmptyOutput):
		return "Received empty API response"
	case errors.Is(err, sanitize.ErrTruncatedOutput):
		return "Received incomplete API response"
	case errors.Is(err, sanitize.ErrMalformedJSON):
		return "Failed to parse API output"

	default:
		return "An unexpected error occurred"
	}
}
