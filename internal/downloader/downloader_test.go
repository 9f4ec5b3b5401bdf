package downloader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"trilion/log"
	apperrors "trilion/pkg/errors"

	"go.uber.org/zap"
)

func init() {
	log.Logger = zap.NewNop()
}

type fakeStrategy struct {
	name    string
	err     error
	payload []byte
	calls   int
}

func (f *fakeStrategy) Name() string { return f.name }

func (f *fakeStrategy) Fetch(ctx context.Context, url, dest string) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	return os.WriteFile(dest, f.payload, 0o644)
}

func TestAcquireFallsThroughChainInOrder(t *testing.T) {
	first := &fakeStrategy{name: "first", err: errors.New("boom")}
	second := &fakeStrategy{name: "second", err: errors.New("boom again")}
	third := &fakeStrategy{name: "third", payload: []byte("video-bytes")}

	d := newWithStrategies([]Strategy{first, second, third}, time.Minute)
	dest := filepath.Join(t.TempDir(), "video.mp4")

	asset, err := d.Acquire(context.Background(), "https://example.com/watch?v=abc", dest)
	if err != nil {
		t.Fatalf("Acquire() error: %v", err)
	}
	if asset.Method != "third" {
		t.Fatalf("Method = %q, want %q", asset.Method, "third")
	}
	if asset.Size != int64(len("video-bytes")) {
		t.Fatalf("Size = %d", asset.Size)
	}
	if first.calls != 1 || second.calls != 1 || third.calls != 1 {
		t.Fatalf("calls = %d/%d/%d, want 1/1/1", first.calls, second.calls, third.calls)
	}
}

func TestAcquireAllStrategiesFail(t *testing.T) {
	first := &fakeStrategy{name: "first", err: errors.New("boom")}
	second := &fakeStrategy{name: "second", err: errors.New("boom")}

	d := newWithStrategies([]Strategy{first, second}, time.Minute)
	dest := filepath.Join(t.TempDir(), "video.mp4")

	_, err := d.Acquire(context.Background(), "https://example.com/watch?v=abc", dest)
	if err == nil {
		t.Fatal("Acquire() expected error")
	}
	if !apperrors.Is(err, apperrors.CodeDownloadExhausted) {
		t.Fatalf("error code = %d, want CodeDownloadExhausted", apperrors.GetCode(err))
	}
}

func TestAcquireRejectsEmptyFile(t *testing.T) {
	empty := &fakeStrategy{name: "empty", payload: nil}

	d := newWithStrategies([]Strategy{empty}, time.Minute)
	dest := filepath.Join(t.TempDir(), "video.mp4")

	_, err := d.Acquire(context.Background(), "https://example.com/watch?v=abc", dest)
	if !apperrors.Is(err, apperrors.CodeDownloadExhausted) {
		t.Fatalf("error = %v, want CodeDownloadExhausted", err)
	}
}

func TestAcquireStopsOnCanceledContext(t *testing.T) {
	strategy := &fakeStrategy{name: "never", payload: []byte("x")}
	d := newWithStrategies([]Strategy{strategy}, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := d.Acquire(ctx, "https://example.com/watch?v=abc", filepath.Join(t.TempDir(), "v.mp4"))
	if !apperrors.Is(err, apperrors.CodePipelineCanceled) {
		t.Fatalf("error = %v, want CodePipelineCanceled", err)
	}
	if strategy.calls != 0 {
		t.Fatalf("strategy called %d times after cancel", strategy.calls)
	}
}

func TestClassifyMessage(t *testing.T) {
	cases := []struct {
		message string
		want    int
	}{
		{"ERROR: HTTP Error 404: Not Found", apperrors.CodeVideoNotFound},
		{"ERROR: HTTP Error 403: Forbidden", apperrors.CodeVideoAccessDenied},
		{"Sign in to confirm your age", apperrors.CodeVideoAccessDenied},
		{"ERROR: HTTP Error 410: Gone", apperrors.CodeVideoGone},
		{"ERROR: Private video", apperrors.CodeVideoGone},
		{"ERROR: Video unavailable", apperrors.CodeVideoGone},
		{"something exploded", apperrors.CodeDownloadFailed},
	}
	for _, tc := range cases {
		if got := classifyMessage(tc.message); got != tc.want {
			t.Errorf("classifyMessage(%q) = %d, want %d", tc.message, got, tc.want)
		}
	}
}

func TestClassifyStatus(t *testing.T) {
	if err := classifyStatus(404); err == nil || err.Code != apperrors.CodeVideoNotFound {
		t.Fatalf("classifyStatus(404) = %v", err)
	}
	if err := classifyStatus(500); err != nil {
		t.Fatalf("classifyStatus(500) = %v, want nil", err)
	}
}
