// Package downloader resolves a remote video reference to a local media
// file by trying an ordered chain of retrieval strategies.
package downloader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"trilion/config"
	"trilion/internal/types"
	"trilion/log"
	apperrors "trilion/pkg/errors"

	"go.uber.org/zap"
)

const defaultAttemptTimeout = 5 * time.Minute

// Strategy is one way of fetching a remote video to a local path.
type Strategy interface {
	Name() string
	Fetch(ctx context.Context, url, dest string) error
}

type Downloader struct {
	strategies     []Strategy
	attemptTimeout time.Duration
}

// New builds the production strategy chain: native client first, then
// yt-dlp, then yt-dlp identifying as the android player client. Strategies
// are tried strictly in order, never concurrently, so a failed attempt
// cannot race a later one on the destination file.
func New(cfg config.DownloaderConfig, proxy string) *Downloader {
	timeout := time.Duration(cfg.AttemptTimeoutSecond) * time.Second
	if timeout <= 0 {
		timeout = defaultAttemptTimeout
	}

	return &Downloader{
		strategies: []Strategy{
			newNativeStrategy(proxy),
			newYtdlpStrategy("yt-dlp", proxy, []string{
				"-f", "bestvideo[height<=1080][ext=mp4]+bestaudio[ext=m4a]/best[ext=mp4]/best",
			}),
			newYtdlpStrategy("yt-dlp-android", proxy, []string{
				"--extractor-args", "youtube:player_client=android",
				"-f", "best[ext=mp4]/best",
			}),
		},
		attemptTimeout: timeout,
	}
}

func newWithStrategies(strategies []Strategy, attemptTimeout time.Duration) *Downloader {
	if attemptTimeout <= 0 {
		attemptTimeout = defaultAttemptTimeout
	}
	return &Downloader{strategies: strategies, attemptTimeout: attemptTimeout}
}

// Acquire downloads url to dest, falling through the strategy chain until
// one produces a non-empty file. A failed strategy may leave a partial file
// at dest; the next strategy overwrites it.
func (d *Downloader) Acquire(ctx context.Context, url, dest string) (*types.SourceAsset, error) {
	var lastErr error

	for _, strategy := range d.strategies {
		if err := ctx.Err(); err != nil {
			return nil, apperrors.Wrap(apperrors.CodePipelineCanceled, "download canceled", err)
		}

		attemptCtx, cancel := context.WithTimeout(ctx, d.attemptTimeout)
		err := strategy.Fetch(attemptCtx, url, dest)
		cancel()

		if err == nil {
			info, statErr := os.Stat(dest)
			if statErr == nil && info.Size() > 0 {
				log.GetLogger().Info("video downloaded",
					zap.String("strategy", strategy.Name()),
					zap.String("dest", dest),
					zap.Int64("size", info.Size()))
				return &types.SourceAsset{
					Path:   dest,
					Size:   info.Size(),
					Method: strategy.Name(),
				}, nil
			}
			err = fmt.Errorf("strategy %s reported success but produced no file", strategy.Name())
		}

		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			err = apperrors.Wrap(apperrors.CodeDownloadTimeout,
				fmt.Sprintf("download via %s timed out", strategy.Name()), err)
		}

		log.GetLogger().Warn("download strategy failed",
			zap.String("strategy", strategy.Name()),
			zap.String("url", url),
			zap.Error(err))
		lastErr = err
	}

	return nil, apperrors.Wrap(apperrors.CodeDownloadExhausted, "All download methods failed", lastErr)
}
