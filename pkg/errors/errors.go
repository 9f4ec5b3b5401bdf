// Package errors provides structured error handling for the application.
// It defines AppError type with error codes for consistent API responses.
package errors

import (
	"errors"
	"fmt"
)

// Error codes organized by category
const (
	// General errors (1000-1099)
	CodeSuccess       = 0
	CodeUnknown       = 1000
	CodeInvalidParams = 1001
	CodeNotFound      = 1002

	// Source acquisition errors (1100-1199)
	CodeVideoNotFound     = 1100
	CodeVideoAccessDenied = 1101
	CodeVideoGone         = 1102
	CodeDownloadFailed    = 1103
	CodeDownloadExhausted = 1104
	CodeDownloadTimeout   = 1105
	CodeUnsupportedURL    = 1106

	// Audio extraction errors (1200-1299)
	CodeAudioInvalidInput = 1200
	CodeAudioExhausted    = 1201

	// Highlight discovery errors (1300-1399)
	CodeMissingCredentials = 1300
	CodeAnalyzerFailed     = 1301
	CodeUnparsableResponse = 1302
	CodeTranscribeFailed   = 1303

	// Clip materialization errors (1400-1499)
	CodeClipExhausted = 1400

	// Storage errors (1500-1599)
	CodeDBError      = 1500
	CodeFileNotFound = 1501

	// Pipeline errors (1600-1699)
	CodePipelineTimeout  = 1600
	CodePipelineCanceled = 1601
	CodeQueueFull        = 1602
)

// AppError represents a structured application error
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
	Cause   error  `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with an AppError
func Wrap(code int, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WrapWithDetail wraps an error with additional detail
func WrapWithDetail(code int, message string, detail string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Detail:  detail,
		Cause:   cause,
	}
}

// Is checks if the target error is an AppError with the specified code
func Is(err error, code int) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// GetCode extracts error code from error, returns CodeUnknown if not AppError
func GetCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknown
}

// GetMessage extracts message from error
func GetMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

// GetDetail extracts detail from error, empty for non-AppError values
func GetDetail(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Detail
	}
	return ""
}

// Predefined common errors
var (
	ErrInvalidParams = New(CodeInvalidParams, "Invalid parameters")
	ErrNotFound      = New(CodeNotFound, "Resource not found")

	// Acquisition
	ErrVideoNotFound     = New(CodeVideoNotFound, "Video not found")
	ErrVideoAccessDenied = New(CodeVideoAccessDenied, "Video is age-restricted or region-blocked")
	ErrVideoGone         = New(CodeVideoGone, "Video is unavailable or private")
	ErrDownloadExhausted = New(CodeDownloadExhausted, "All download methods failed")

	// Extraction
	ErrAudioInvalidInput = New(CodeAudioInvalidInput, "Source video is missing or empty")

	// Discovery
	ErrMissingCredentials = New(CodeMissingCredentials, "AI analysis requires transcription and LLM API keys")

	// Materialization
	ErrClipExhausted = New(CodeClipExhausted, "All encoding profiles failed")

	// Storage
	ErrDBError      = New(CodeDBError, "Database error")
	ErrFileNotFound = New(CodeFileNotFound, "File not found")

	// Pipeline
	ErrPipelineTimeout = New(CodePipelineTimeout, "Pipeline deadline exceeded")
)
