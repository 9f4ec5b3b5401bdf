package downloader

import (
	"net/http"
	"strings"

	apperrors "trilion/pkg/errors"
)

// classifyStatus maps an HTTP status to the acquisition error taxonomy.
// Unrecognized statuses return nil so callers keep their generic error.
func classifyStatus(status int) *apperrors.AppError {
	switch status {
	case http.StatusNotFound:
		return apperrors.New(apperrors.CodeVideoNotFound, "Video not found. Please check the link.")
	case http.StatusForbidden:
		return apperrors.New(apperrors.CodeVideoAccessDenied, "Access denied. This video may be age-restricted or region-blocked.")
	case http.StatusGone:
		return apperrors.New(apperrors.CodeVideoGone, "Video is unavailable or private.")
	}
	return nil
}

// classifyMessage inspects tool/client error text for machine-readable
// causes and returns the matching error code, or CodeDownloadFailed.
func classifyMessage(message string) int {
	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "http error 404"), strings.Contains(lower, "not found"):
		return apperrors.CodeVideoNotFound
	case strings.Contains(lower, "http error 403"), strings.Contains(lower, "age-restricted"), strings.Contains(lower, "sign in to confirm"):
		return apperrors.CodeVideoAccessDenied
	case strings.Contains(lower, "http error 410"), strings.Contains(lower, "private video"), strings.Contains(lower, "video unavailable"):
		return apperrors.CodeVideoGone
	}
	return apperrors.CodeDownloadFailed
}
