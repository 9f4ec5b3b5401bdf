package pipeline

import (
	apperrors "trilion/pkg/errors"
)

// Suggestions maps a pipeline error to user-facing remediation hints, shown
// alongside the error message in API responses.
func Suggestions(err error) []string {
	switch apperrors.GetCode(err) {
	case apperrors.CodeVideoNotFound:
		return []string{
			"Check that the video link is correct and the video still exists",
			"Try copying the link again from your browser",
		}
	case apperrors.CodeVideoAccessDenied:
		return []string{
			"Age-restricted or region-blocked videos cannot be processed",
			"Try a publicly available video instead",
		}
	case apperrors.CodeVideoGone:
		return []string{
			"The video is private or has been removed",
			"Ask the owner to make it public, or pick another video",
		}
	case apperrors.CodeDownloadExhausted, apperrors.CodeDownloadFailed, apperrors.CodeDownloadTimeout:
		return []string{
			"The platform may be rate-limiting downloads, try again in a few minutes",
			"Shorter videos download more reliably",
		}
	case apperrors.CodeMissingCredentials:
		return []string{
			"Set OPENAI_API_KEY (and optionally LLM_API_KEY) before starting the server",
			"Use demo mode to try the API without credentials",
		}
	case apperrors.CodeTranscribeFailed, apperrors.CodeAnalyzerFailed, apperrors.CodeUnparsableResponse:
		return []string{
			"Videos with clear speech analyze best",
			"Try again, transient AI backend errors are common",
		}
	case apperrors.CodeClipExhausted:
		return []string{
			"Verify ffmpeg is installed and on PATH",
			"Try fewer or shorter clips",
		}
	case apperrors.CodePipelineTimeout:
		return []string{
			"The video took too long to process, try a shorter one",
			"Increase the pipeline deadline in the config file",
		}
	}
	return []string{"Try again, or try a different video link"}
}
