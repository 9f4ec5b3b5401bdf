package mediatool

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"trilion/internal/storage"
	"trilion/internal/types"
	"trilion/log"
	apperrors "trilion/pkg/errors"

	"go.uber.org/zap"
)

// FFmpeg drives audio extraction and clip cutting through the ffmpeg binary
// resolved at startup. All invocations inherit the caller's context so a
// pipeline deadline kills the subprocess.
type FFmpeg struct{}

func NewFFmpeg() *FFmpeg {
	return &FFmpeg{}
}

// ExtractAudio produces an audio track from videoPath at destBase (extension
// is appended here). It tries compressed mp3 first and falls back to pcm wav,
// which survives broken or missing encoder builds.
func (f *FFmpeg) ExtractAudio(ctx context.Context, videoPath, destBase string) (*types.AudioAsset, error) {
	info, err := os.Stat(videoPath)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeAudioInvalidInput, "video file is not readable", err)
	}
	if info.Size() == 0 {
		return nil, apperrors.New(apperrors.CodeAudioInvalidInput, "video file is empty")
	}

	mp3Path := destBase + ".mp3"
	mp3Err := f.run(ctx,
		"-i", videoPath,
		"-vn",
		"-acodec", "libmp3lame",
		"-ac", "1",
		"-ar", "16000",
		"-b:a", "192k",
		"-y", mp3Path,
	)
	if mp3Err == nil {
		return &types.AudioAsset{Path: mp3Path, Format: "mp3"}, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	log.GetLogger().Warn("mp3 extraction failed, retrying as wav",
		zap.String("video", videoPath), zap.Error(mp3Err))

	wavPath := destBase + ".wav"
	wavErr := f.run(ctx,
		"-i", videoPath,
		"-vn",
		"-acodec", "pcm_s16le",
		"-ac", "1",
		"-ar", "16000",
		"-y", wavPath,
	)
	if wavErr == nil {
		return &types.AudioAsset{Path: wavPath, Format: "wav"}, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	return nil, apperrors.WrapWithDetail(apperrors.CodeAudioExhausted,
		"audio extraction failed in every format",
		fmt.Sprintf("mp3: %v; wav: %v", mp3Err, wavErr), wavErr)
}

// CutClip re-encodes the [start, start+duration) window of videoPath into
// dest. The quality profile comes first; if the encode fails for any reason
// other than cancellation, a faster stream-copy-audio profile retries once.
func (f *FFmpeg) CutClip(ctx context.Context, videoPath, dest string, start, duration int) (string, error) {
	qualityErr := f.run(ctx,
		"-ss", fmt.Sprintf("%d", start),
		"-i", videoPath,
		"-t", fmt.Sprintf("%d", duration),
		"-c:v", "libx264",
		"-preset", "fast",
		"-crf", "23",
		"-c:a", "aac",
		"-movflags", "+faststart",
		"-y", dest,
	)
	if qualityErr == nil {
		return types.ClipProfileQuality, nil
	}
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	log.GetLogger().Warn("quality profile failed, retrying with speed profile",
		zap.String("video", videoPath), zap.Int("start", start), zap.Error(qualityErr))

	speedErr := f.run(ctx,
		"-ss", fmt.Sprintf("%d", start),
		"-i", videoPath,
		"-t", fmt.Sprintf("%d", duration),
		"-c:v", "libx264",
		"-preset", "ultrafast",
		"-crf", "28",
		"-c:a", "copy",
		"-y", dest,
	)
	if speedErr == nil {
		return types.ClipProfileSpeed, nil
	}
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	return "", apperrors.WrapWithDetail(apperrors.CodeClipExhausted,
		"clip encode failed in every profile",
		fmt.Sprintf("quality: %v; speed: %v", qualityErr, speedErr), speedErr)
}

func (f *FFmpeg) run(ctx context.Context, args ...string) error {
	cmd := exec.CommandContext(ctx, storage.FfmpegPath, args...)
	log.GetLogger().Debug("running ffmpeg", zap.Strings("args", args))
	output, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.GetLogger().Error("ffmpeg failed",
			zap.Strings("args", args), zap.String("output", tail(string(output), 500)), zap.Error(err))
		return fmt.Errorf("ffmpeg: %w: %s", err, tail(string(output), 200))
	}
	return nil
}

func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
