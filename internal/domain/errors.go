// Package domain contains the core business entities, value objects, and
// domain logic of the application. It represents the heart of the system,
// independent of any specific infrastructure or delivery mechanism.
package domain

import "errors"

// Common validation errors for GenerationRequest. The API layer maps these
// to HTTP 400; they never consume quota.
var (
	ErrMissingUserID          = errors.New("userId is required")
	ErrMissingTaskID          = errors.New("taskId is required")
	ErrMissingTaskTitle       = errors.New("taskTitle is required")
	ErrMissingTaskDescription = errors.New("taskDescription is required")
)
