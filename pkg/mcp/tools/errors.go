package tools

import (
	"encoding/json"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/lacrosselens/lacrosselens-engine/pkg/apperrors"
)

// ErrorResponse represents a structured error in tool results.
// It is returned as tool content so the model sees the failure and can
// correct its arguments rather than the error being dropped by the client.
type ErrorResponse struct {
	Error   bool   `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// NewErrorResult creates a tool result containing a structured error.
// Use this for recoverable errors (bad arguments, unknown video). System
// failures still return Go errors.
func NewErrorResult(code, message string) *mcp.CallToolResult {
	return NewErrorResultWithDetails(code, message, nil)
}

// NewErrorResultWithDetails creates an error result with additional context.
func NewErrorResultWithDetails(code, message string, details any) *mcp.CallToolResult {
	resp := ErrorResponse{
		Error:   true,
		Code:    code,
		Message: message,
		Details: details,
	}
	jsonBytes, _ := json.Marshal(resp)
	result := mcp.NewToolResultText(string(jsonBytes))
	result.IsError = true
	return result
}

// NewServiceErrorResult maps caller-correctable service errors to tool
// error results. It returns nil for anything else; the caller should then
// return the Go error.
func NewServiceErrorResult(err error) *mcp.CallToolResult {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, apperrors.ErrNotFound):
		return NewErrorResult("not_found", err.Error())
	case errors.Is(err, apperrors.ErrForbidden):
		return NewErrorResult("forbidden", "the resource belongs to another user")
	case errors.Is(err, apperrors.ErrInvalidInput):
		return NewErrorResult("invalid_input", err.Error())
	case errors.Is(err, apperrors.ErrUnauthorized):
		return NewErrorResult("unauthorized", "authentication required")
	}
	return nil
}

// IsInputError reports whether err was caused by the caller's arguments
// rather than a server failure. Input errors are logged at debug level.
func IsInputError(err error) bool {
	return errors.Is(err, apperrors.ErrNotFound) ||
		errors.Is(err, apperrors.ErrForbidden) ||
		errors.Is(err, apperrors.ErrInvalidInput) ||
		errors.Is(err, apperrors.ErrUnauthorized)
}
