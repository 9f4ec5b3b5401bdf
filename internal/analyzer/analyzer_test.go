package analyzer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"trilion/config"
	"trilion/internal/types"
	"trilion/log"
	apperrors "trilion/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	log.Logger = zap.NewNop()
}

type stubDiscoverer struct {
	name       string
	highlights []types.Highlight
	err        error
	calls      int
}

func (s *stubDiscoverer) Name() string { return s.name }

func (s *stubDiscoverer) Discover(ctx context.Context, req Request) ([]types.Highlight, error) {
	s.calls++
	return s.highlights, s.err
}

type stubTranscriber struct {
	text string
	err  error
}

func (s *stubTranscriber) Transcribe(ctx context.Context, audioPath, model string) (string, error) {
	return s.text, s.err
}

type stubChatter struct {
	reply string
	err   error
}

func (s *stubChatter) ChatCompletion(ctx context.Context, model, prompt string) (string, error) {
	return s.reply, s.err
}

func TestChainSkipsFailedBackend(t *testing.T) {
	primary := &stubDiscoverer{name: "primary", err: errors.New("script missing")}
	fallback := &stubDiscoverer{name: "fallback", highlights: []types.Highlight{
		{Start: "0:10", End: "0:40", Title: "Hook"},
	}}

	chain := NewChain(primary, fallback)
	highlights, err := chain.Discover(context.Background(), Request{NumClips: 1, ClipDuration: 30})
	require.NoError(t, err)
	require.Len(t, highlights, 1)
	assert.Equal(t, "Hook", highlights[0].Title)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, fallback.calls)
}

func TestChainReturnsLastError(t *testing.T) {
	primary := &stubDiscoverer{name: "primary", err: errors.New("first")}
	fallback := &stubDiscoverer{name: "fallback", err: apperrors.ErrMissingCredentials}

	chain := NewChain(primary, fallback)
	_, err := chain.Discover(context.Background(), Request{})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeMissingCredentials))
}

func TestAIAnalyzerRequiresCredentials(t *testing.T) {
	a := NewAIAnalyzer(&stubTranscriber{}, &stubChatter{}, "whisper-1", "gpt-4o", false)

	_, err := a.Discover(context.Background(), Request{AudioPath: "audio.mp3"})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeMissingCredentials))
}

func TestAIAnalyzerParsesFencedReply(t *testing.T) {
	reply := "Here you go:\n```json\n{\"clips\":[{\"start_time\":\"1:05\",\"end_time\":\"1:35\",\"title\":\"WOW\",\"description\":\"shocking\"}]}\n```"
	a := NewAIAnalyzer(&stubTranscriber{text: "some transcript"}, &stubChatter{reply: reply}, "whisper-1", "gpt-4o", true)

	highlights, err := a.Discover(context.Background(), Request{AudioPath: "audio.mp3", NumClips: 1, ClipDuration: 30})
	require.NoError(t, err)
	require.Len(t, highlights, 1)
	assert.Equal(t, "1:05", highlights[0].Start)
	assert.Equal(t, "WOW", highlights[0].Title)
}

func TestAIAnalyzerTranscriptionFailure(t *testing.T) {
	a := NewAIAnalyzer(&stubTranscriber{err: errors.New("api down")}, &stubChatter{}, "whisper-1", "gpt-4o", true)

	_, err := a.Discover(context.Background(), Request{AudioPath: "audio.mp3"})
	assert.True(t, apperrors.Is(err, apperrors.CodeTranscribeFailed))
}

func TestAIAnalyzerUnparsableReply(t *testing.T) {
	a := NewAIAnalyzer(&stubTranscriber{text: "text"}, &stubChatter{reply: "I cannot help with that."}, "whisper-1", "gpt-4o", true)

	_, err := a.Discover(context.Background(), Request{AudioPath: "audio.mp3", NumClips: 1})
	assert.True(t, apperrors.Is(err, apperrors.CodeUnparsableResponse))
}

func TestParseVerdict(t *testing.T) {
	cases := []struct {
		name    string
		output  string
		want    int
		wantErr bool
	}{
		{
			name:   "clean object",
			output: `{"highlights":[{"start_time":"0:00","end_time":"0:30","title":"A"}]}`,
			want:   1,
		},
		{
			name:   "progress noise around the object",
			output: "Downloading model...\n{\"highlights\":[{\"start_time\":\"0:00\",\"end_time\":\"0:30\",\"title\":\"A\"}]}\ndone\n",
			want:   1,
		},
		{
			name:   "script-level error",
			output: `{"error":"no speech detected"}`,
			want:   0,
		},
		{
			name:    "garbage",
			output:  "Traceback (most recent call last): boom",
			wantErr: true,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			verdict, err := parseVerdict(tc.output)
			if tc.wantErr {
				require.Error(t, err)
				assert.True(t, apperrors.Is(err, apperrors.CodeUnparsableResponse))
				return
			}
			require.NoError(t, err)
			assert.Len(t, verdict.Highlights, tc.want)
		})
	}
}

func TestSubprocessAnalyzerReportsScriptError(t *testing.T) {
	s := NewSubprocessAnalyzer(config.AnalyzerConfig{
		Command:       "sh",
		Script:        "-c",
		TimeoutSecond: 5,
	})
	// "sh -c" runs the first positional argument as a command, so the audio
	// path slot carries a snippet that prints the error object.
	_, err := s.Discover(context.Background(), Request{
		AudioPath: `echo '{"error":"analysis engine offline"}'`,
	})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeAnalyzerFailed))
	assert.Contains(t, apperrors.GetMessage(err), "offline")
}

func TestSubprocessAnalyzerPassesMediaPathsAndBudget(t *testing.T) {
	script := filepath.Join(t.TempDir(), "analyze.sh")
	// The script echoes its argv back inside the verdict, proving the
	// invocation order: audio path, video path, count, duration.
	body := `printf '{"highlights":[{"start_time":"0:00","end_time":"0:30","title":"%s|%s|%s|%s"}]}' "$1" "$2" "$3" "$4"` + "\n"
	require.NoError(t, os.WriteFile(script, []byte(body), 0o644))

	s := NewSubprocessAnalyzer(config.AnalyzerConfig{
		Command:       "sh",
		Script:        script,
		TimeoutSecond: 5,
	})
	highlights, err := s.Discover(context.Background(), Request{
		AudioPath:    "/tmp/audio_1.mp3",
		VideoPath:    "/tmp/video_1.mp4",
		NumClips:     2,
		ClipDuration: 45,
	})
	require.NoError(t, err)
	require.Len(t, highlights, 1)
	assert.Equal(t, "/tmp/audio_1.mp3|/tmp/video_1.mp4|2|45", highlights[0].Title)
}

func TestSanitize(t *testing.T) {
	in := []types.Highlight{
		{Start: "0:00", End: "0:30", Title: "The SHOCKING truth"},
		{Start: "1:00", End: "1:30", Title: "the shocking truth!"},
		{Start: "2:00", End: "2:30", Title: ""},
		{Start: "3:00", End: "3:30", Title: "Completely different"},
		{Start: "4:00", End: "4:30", Title: "One too many"},
	}

	out := Sanitize(in, 3)
	require.Len(t, out, 3)
	assert.Equal(t, "The SHOCKING truth", out[0].Title)
	assert.Equal(t, "Viral Moment 3", out[1].Title)
	assert.Equal(t, "Completely different", out[2].Title)
}
