package mediatool

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"trilion/internal/storage"
	"trilion/internal/types"
	"trilion/log"
	apperrors "trilion/pkg/errors"

	"go.uber.org/zap"
)

func init() {
	log.Logger = zap.NewNop()
}

// fakeFfmpeg installs a shell script in place of the real binary and restores
// the original path on cleanup.
func fakeFfmpeg(t *testing.T, script string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "ffmpeg")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755); err != nil {
		t.Fatal(err)
	}
	old := storage.FfmpegPath
	storage.FfmpegPath = path
	t.Cleanup(func() { storage.FfmpegPath = old })
}

func writeVideo(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "source.mp4")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestExtractAudioRejectsEmptyInput(t *testing.T) {
	fakeFfmpeg(t, "echo should-not-run >&2; exit 3")
	video := writeVideo(t, "")

	_, err := NewFFmpeg().ExtractAudio(context.Background(), video, filepath.Join(t.TempDir(), "audio"))
	if !apperrors.Is(err, apperrors.CodeAudioInvalidInput) {
		t.Fatalf("error = %v, want CodeAudioInvalidInput", err)
	}
}

func TestExtractAudioRejectsMissingInput(t *testing.T) {
	fakeFfmpeg(t, "exit 0")

	_, err := NewFFmpeg().ExtractAudio(context.Background(), filepath.Join(t.TempDir(), "nope.mp4"), filepath.Join(t.TempDir(), "audio"))
	if !apperrors.Is(err, apperrors.CodeAudioInvalidInput) {
		t.Fatalf("error = %v, want CodeAudioInvalidInput", err)
	}
}

func TestExtractAudioPrefersMp3(t *testing.T) {
	fakeFfmpeg(t, `for last; do :; done
: > "$last"`)
	video := writeVideo(t, "bytes")

	asset, err := NewFFmpeg().ExtractAudio(context.Background(), video, filepath.Join(t.TempDir(), "audio"))
	if err != nil {
		t.Fatalf("ExtractAudio() error: %v", err)
	}
	if asset.Format != "mp3" {
		t.Fatalf("Format = %q, want mp3", asset.Format)
	}
	if _, err := os.Stat(asset.Path); err != nil {
		t.Fatalf("audio file missing: %v", err)
	}
}

func TestExtractAudioFallsBackToWav(t *testing.T) {
	fakeFfmpeg(t, `for last; do :; done
case "$last" in
*.mp3) echo "Unknown encoder 'libmp3lame'" >&2; exit 1 ;;
esac
: > "$last"`)
	video := writeVideo(t, "bytes")

	asset, err := NewFFmpeg().ExtractAudio(context.Background(), video, filepath.Join(t.TempDir(), "audio"))
	if err != nil {
		t.Fatalf("ExtractAudio() error: %v", err)
	}
	if asset.Format != "wav" {
		t.Fatalf("Format = %q, want wav", asset.Format)
	}
}

func TestExtractAudioExhausted(t *testing.T) {
	fakeFfmpeg(t, "echo broken >&2; exit 1")
	video := writeVideo(t, "bytes")

	_, err := NewFFmpeg().ExtractAudio(context.Background(), video, filepath.Join(t.TempDir(), "audio"))
	if !apperrors.Is(err, apperrors.CodeAudioExhausted) {
		t.Fatalf("error = %v, want CodeAudioExhausted", err)
	}
}

func TestCutClipQualityProfile(t *testing.T) {
	fakeFfmpeg(t, `for last; do :; done
: > "$last"`)
	video := writeVideo(t, "bytes")
	dest := filepath.Join(t.TempDir(), "clip.mp4")

	profile, err := NewFFmpeg().CutClip(context.Background(), video, dest, 10, 30)
	if err != nil {
		t.Fatalf("CutClip() error: %v", err)
	}
	if profile != types.ClipProfileQuality {
		t.Fatalf("profile = %q, want %q", profile, types.ClipProfileQuality)
	}
}

func TestCutClipFallsBackToSpeedProfile(t *testing.T) {
	fakeFfmpeg(t, `case "$*" in
*"-preset fast"*) exit 1 ;;
esac
for last; do :; done
: > "$last"`)
	video := writeVideo(t, "bytes")
	dest := filepath.Join(t.TempDir(), "clip.mp4")

	profile, err := NewFFmpeg().CutClip(context.Background(), video, dest, 0, 15)
	if err != nil {
		t.Fatalf("CutClip() error: %v", err)
	}
	if profile != types.ClipProfileSpeed {
		t.Fatalf("profile = %q, want %q", profile, types.ClipProfileSpeed)
	}
}

func TestCutClipExhausted(t *testing.T) {
	fakeFfmpeg(t, "exit 1")
	video := writeVideo(t, "bytes")

	_, err := NewFFmpeg().CutClip(context.Background(), video, filepath.Join(t.TempDir(), "clip.mp4"), 0, 15)
	if !apperrors.Is(err, apperrors.CodeClipExhausted) {
		t.Fatalf("error = %v, want CodeClipExhausted", err)
	}
}
