package downloader

import (
	"context"
	"os"
	"os/exec"
	"strings"

	"trilion/internal/storage"
	apperrors "trilion/pkg/errors"
)

// cookieFile matches the path the cookie upload endpoint writes to.
const cookieFile = "cookies.txt"

// ytdlpStrategy shells out to yt-dlp. Two instances sit in the chain with
// different format selection and player-client identification.
type ytdlpStrategy struct {
	name  string
	proxy string
	args  []string
}

func newYtdlpStrategy(name, proxy string, args []string) *ytdlpStrategy {
	return &ytdlpStrategy{name: name, proxy: proxy, args: args}
}

func (s *ytdlpStrategy) Name() string { return s.name }

func (s *ytdlpStrategy) Fetch(ctx context.Context, url, dest string) error {
	cmdArgs := append([]string{}, s.args...)
	cmdArgs = append(cmdArgs, "--no-playlist", "--force-overwrites", "-o", dest)
	if s.proxy != "" {
		cmdArgs = append(cmdArgs, "--proxy", s.proxy)
	}
	// An uploaded cookies.txt unlocks age-restricted and login-gated videos.
	if _, err := os.Stat(cookieFile); err == nil {
		cmdArgs = append(cmdArgs, "--cookies", cookieFile)
	}
	cmdArgs = append(cmdArgs, url)

	cmd := exec.CommandContext(ctx, storage.YtdlpPath, cmdArgs...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return apperrors.WrapWithDetail(classifyMessage(string(output)),
			"yt-dlp download failed", tail(string(output), 500), err)
	}
	return nil
}

// tail keeps the last n bytes of tool output, where the actionable error
// message usually sits.
func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
