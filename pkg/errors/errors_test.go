package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	// Test without cause
	err := New(CodeDownloadFailed, "Test error")
	assert.Equal(t, "[1103] Test error", err.Error())

	// Test with cause
	cause := errors.New("underlying error")
	errWithCause := Wrap(CodeDownloadFailed, "Test error", cause)
	assert.Contains(t, errWithCause.Error(), "underlying error")
	assert.Contains(t, errWithCause.Error(), "1103")
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(CodeTranscribeFailed, "Transcription failed", cause)

	// Test Unwrap
	assert.Equal(t, cause, err.Unwrap())

	// Test errors.Is
	assert.True(t, errors.Is(err, cause))
}

func TestIs(t *testing.T) {
	err := New(CodeClipExhausted, "Encode failed")

	assert.True(t, Is(err, CodeClipExhausted))
	assert.False(t, Is(err, CodeDownloadFailed))

	// Test with regular error
	regularErr := errors.New("regular error")
	assert.False(t, Is(regularErr, CodeClipExhausted))
}

func TestGetCode(t *testing.T) {
	// AppError
	appErr := New(CodeMissingCredentials, "Missing credentials")
	assert.Equal(t, CodeMissingCredentials, GetCode(appErr))

	// Regular error returns CodeUnknown
	regularErr := errors.New("regular error")
	assert.Equal(t, CodeUnknown, GetCode(regularErr))
}

func TestGetMessage(t *testing.T) {
	// AppError
	appErr := New(CodeFileNotFound, "File not found")
	assert.Equal(t, "File not found", GetMessage(appErr))

	// Regular error returns error message
	regularErr := errors.New("regular error message")
	assert.Equal(t, "regular error message", GetMessage(regularErr))
}

func TestWrapWithDetail(t *testing.T) {
	cause := errors.New("connection refused")
	err := WrapWithDetail(CodeDownloadFailed, "Download failed", "URL: https://example.com", cause)

	assert.Equal(t, CodeDownloadFailed, err.Code)
	assert.Equal(t, "Download failed", err.Message)
	assert.Equal(t, "URL: https://example.com", err.Detail)
	assert.Equal(t, cause, err.Cause)
}

func TestGetDetail(t *testing.T) {
	err := WrapWithDetail(CodeAudioExhausted, "Extraction failed", "mp3: exit 1; wav: exit 1", nil)
	assert.Equal(t, "mp3: exit 1; wav: exit 1", GetDetail(err))

	assert.Equal(t, "", GetDetail(errors.New("plain")))
}

func TestPredefinedErrors(t *testing.T) {
	// Verify predefined errors have correct codes
	assert.Equal(t, CodeInvalidParams, ErrInvalidParams.Code)
	assert.Equal(t, CodeVideoNotFound, ErrVideoNotFound.Code)
	assert.Equal(t, CodeDownloadExhausted, ErrDownloadExhausted.Code)
	assert.Equal(t, CodeAudioInvalidInput, ErrAudioInvalidInput.Code)
	assert.Equal(t, CodeClipExhausted, ErrClipExhausted.Code)
	assert.Equal(t, CodeDBError, ErrDBError.Code)
}
