package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"trilion/config"
	"trilion/internal/types"
	"trilion/log"
	apperrors "trilion/pkg/errors"
	"trilion/pkg/util"

	"go.uber.org/zap"
)

// SubprocessAnalyzer runs the scoring script and reads its verdict from
// stdout. Protocol: a single JSON object, either {"highlights": [...]} or
// {"error": "..."}; anything the script logs goes to stderr.
type SubprocessAnalyzer struct {
	command string
	script  string
	timeout time.Duration
}

func NewSubprocessAnalyzer(cfg config.AnalyzerConfig) *SubprocessAnalyzer {
	return &SubprocessAnalyzer{
		command: cfg.Command,
		script:  cfg.Script,
		timeout: time.Duration(cfg.TimeoutSecond) * time.Second,
	}
}

func (s *SubprocessAnalyzer) Name() string { return "subprocess" }

type subprocessVerdict struct {
	Highlights []types.Highlight `json:"highlights"`
	Error      string            `json:"error"`
}

func (s *SubprocessAnalyzer) Discover(ctx context.Context, req Request) ([]types.Highlight, error) {
	runCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	// Script argv contract: audio path, video path, highlight budget,
	// target duration in seconds.
	cmd := exec.CommandContext(runCtx, s.command, s.script,
		req.AudioPath,
		req.VideoPath,
		fmt.Sprintf("%d", req.NumClips),
		fmt.Sprintf("%d", req.ClipDuration),
	)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log.GetLogger().Info("running analyzer script",
		zap.String("command", s.command), zap.String("script", s.script),
		zap.String("audio", req.AudioPath), zap.String("video", req.VideoPath))

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, apperrors.WrapWithDetail(apperrors.CodeAnalyzerFailed,
			"analyzer script failed", tailText(stderr.String(), 500), err)
	}

	verdict, err := parseVerdict(stdout.String())
	if err != nil {
		return nil, err
	}
	if verdict.Error != "" {
		return nil, apperrors.New(apperrors.CodeAnalyzerFailed, verdict.Error)
	}
	if len(verdict.Highlights) == 0 {
		return nil, apperrors.New(apperrors.CodeAnalyzerFailed, "analyzer returned no highlights")
	}
	return verdict.Highlights, nil
}

func parseVerdict(output string) (*subprocessVerdict, error) {
	var verdict subprocessVerdict
	if err := json.Unmarshal([]byte(strings.TrimSpace(output)), &verdict); err == nil {
		return &verdict, nil
	}

	// The script may print progress noise around the JSON object.
	extracted := util.ExtractJsonFromText(output)
	if err := json.Unmarshal([]byte(extracted), &verdict); err != nil {
		return nil, apperrors.WrapWithDetail(apperrors.CodeUnparsableResponse,
			"analyzer output is not valid JSON", tailText(output, 300), err)
	}
	return &verdict, nil
}

func tailText(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
