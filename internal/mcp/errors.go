package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/timestudy/internal/domain/observation"
	"github.com/rpggio/timestudy/internal/domain/project"
	"github.com/rpggio/timestudy/internal/domain/study"
	"github.com/rpggio/timestudy/internal/domain/timeline"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.RecoveryHint != "" {
		msg += " (" + e.RecoveryHint + ")"
	}
	return msg
}

func (e *APIError) CodeValue() string {
	return e.Code
}

func (e *APIError) MessageValue() string {
	return e.Message
}

func (e *APIError) DetailsValue() any {
	return e.Details
}

func (e *APIError) RecoveryHintValue() string {
	return e.RecoveryHint
}

// MapError maps domain errors to MCP error codes. The message keeps the
// wrapped detail, such as the path that failed to open.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	apiErr := func(code, hint string) *APIError {
		return &APIError{Code: code, Message: err.Error(), RecoveryHint: hint}
	}
	switch {
	case errors.Is(err, timeline.ErrNoMedia):
		return apiErr("NO_MEDIA", "Call open_video first")
	case errors.Is(err, timeline.ErrMediaOpen):
		return apiErr("MEDIA_OPEN_FAILED", "Check the file path and format")
	case errors.Is(err, timeline.ErrInvalidDuration):
		return apiErr("INVALID_DURATION", "The file reports no playable length")
	case errors.Is(err, timeline.ErrSegmentOutOfRange):
		return apiErr("SEGMENT_OUT_OF_RANGE", "")
	case errors.Is(err, observation.ErrEntryNotFound):
		return apiErr("ENTRY_NOT_FOUND", "Call list_entries for current IDs")
	case errors.Is(err, observation.ErrInvalidTrack):
		return apiErr("INVALID_TRACK", "Tracks are 0 through 5")
	case errors.Is(err, observation.ErrTimestampParse):
		return apiErr("INVALID_TIMESTAMP", "Use hh:mm:ss or hh:mm:ss.fff")
	case errors.Is(err, project.ErrProjectNotFound):
		return apiErr("PROJECT_NOT_FOUND", "Call list_projects for saved IDs")
	case errors.Is(err, project.ErrConflict):
		return apiErr("CONFLICT", "Reload the project before saving again")
	case errors.Is(err, project.ErrInvalidDocument):
		return apiErr("INVALID_DOCUMENT", "")
	case errors.Is(err, project.ErrInvalidInput), errors.Is(err, study.ErrInvalidInput):
		return apiErr("INVALID_INPUT", "")
	case errors.Is(err, study.ErrNotConfigured):
		return apiErr("NOT_CONFIGURED", "")
	default:
		return nil
	}
}

func mapError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
