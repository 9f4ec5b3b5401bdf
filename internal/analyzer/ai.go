package analyzer

import (
	"context"
	"encoding/json"
	"fmt"

	"trilion/internal/types"
	"trilion/log"
	apperrors "trilion/pkg/errors"
	"trilion/pkg/util"

	"go.uber.org/zap"
)

// Transcriber turns an audio file into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath, model string) (string, error)
}

// Chatter submits one prompt to an LLM and returns the raw reply.
type Chatter interface {
	ChatCompletion(ctx context.Context, model, prompt string) (string, error)
}

// AIAnalyzer is the fallback discoverer: transcribe the audio, then ask an
// LLM to pick the most engaging windows of the transcript.
type AIAnalyzer struct {
	transcriber     Transcriber
	chatter         Chatter
	transcribeModel string
	chatModel       string
	configured      bool
}

func NewAIAnalyzer(transcriber Transcriber, chatter Chatter, transcribeModel, chatModel string, configured bool) *AIAnalyzer {
	return &AIAnalyzer{
		transcriber:     transcriber,
		chatter:         chatter,
		transcribeModel: transcribeModel,
		chatModel:       chatModel,
		configured:      configured,
	}
}

func (a *AIAnalyzer) Name() string { return "ai" }

type llmVerdict struct {
	Clips []types.Highlight `json:"clips"`
}

func (a *AIAnalyzer) Discover(ctx context.Context, req Request) ([]types.Highlight, error) {
	if !a.configured {
		// Fail before any network call so the pipeline error is actionable.
		return nil, apperrors.ErrMissingCredentials
	}
	if req.AudioPath == "" {
		return nil, apperrors.New(apperrors.CodeTranscribeFailed, "no audio track available for transcription")
	}

	transcript, err := a.transcriber.Transcribe(ctx, req.AudioPath, a.transcribeModel)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, apperrors.Wrap(apperrors.CodeTranscribeFailed, "audio transcription failed", err)
	}
	if transcript == "" {
		return nil, apperrors.New(apperrors.CodeTranscribeFailed, "transcription produced no text")
	}
	log.GetLogger().Info("transcription complete", zap.Int("chars", len(transcript)))

	prompt := fmt.Sprintf(types.ViralClipPrompt, req.NumClips, req.ClipDuration, transcript)
	reply, err := a.chatter.ChatCompletion(ctx, a.chatModel, prompt)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, apperrors.Wrap(apperrors.CodeAnalyzerFailed, "LLM highlight selection failed", err)
	}

	var verdict llmVerdict
	extracted := util.ExtractJsonFromText(reply)
	if err := json.Unmarshal([]byte(extracted), &verdict); err != nil {
		return nil, apperrors.WrapWithDetail(apperrors.CodeUnparsableResponse,
			"LLM reply is not valid clip JSON", tailText(reply, 300), err)
	}
	if len(verdict.Clips) == 0 {
		return nil, apperrors.New(apperrors.CodeUnparsableResponse, "LLM reply contains no clips")
	}
	return verdict.Clips, nil
}
