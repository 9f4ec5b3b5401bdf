// Package analyzer discovers highlight-worthy time ranges in a source video.
// The primary discoverer shells out to the scoring script; an AI
// transcribe-and-reason backend stands in when the script is unavailable.
package analyzer

import (
	"context"

	"trilion/internal/types"
	"trilion/log"

	"go.uber.org/zap"
)

// Request carries everything a discoverer might need. Subprocess discovery
// works from the extracted audio and the source video on disk; the AI
// backend needs only the audio.
type Request struct {
	AudioPath    string
	VideoPath    string
	NumClips     int
	ClipDuration int // seconds
}

// Discoverer produces candidate highlights for one request.
type Discoverer interface {
	Name() string
	Discover(ctx context.Context, req Request) ([]types.Highlight, error)
}

// Chain tries each discoverer in order and returns the first success.
type Chain struct {
	backends []Discoverer
}

func NewChain(backends ...Discoverer) *Chain {
	return &Chain{backends: backends}
}

func (c *Chain) Name() string { return "chain" }

func (c *Chain) Discover(ctx context.Context, req Request) ([]types.Highlight, error) {
	var lastErr error
	for _, backend := range c.backends {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		highlights, err := backend.Discover(ctx, req)
		if err == nil {
			log.GetLogger().Info("highlight discovery succeeded",
				zap.String("backend", backend.Name()), zap.Int("highlights", len(highlights)))
			return highlights, nil
		}
		log.GetLogger().Warn("discovery backend failed, trying next",
			zap.String("backend", backend.Name()), zap.Error(err))
		lastErr = err
	}
	return nil, lastErr
}
