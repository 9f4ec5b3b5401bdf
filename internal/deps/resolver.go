// Package deps verifies the external tools the pipeline shells out to.
package deps

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"trilion/config"
	"trilion/internal/storage"
	"trilion/log"

	"go.uber.org/zap"
)

type DependencyTier string

const (
	DependencyTierMust     DependencyTier = "must"
	DependencyTierOptional DependencyTier = "optional"
)

type DependencyStatus string

const (
	DependencyStatusOK      DependencyStatus = "ok"
	DependencyStatusMissing DependencyStatus = "missing"
	DependencyStatusError   DependencyStatus = "error"
)

type DependencySpec struct {
	ID             string
	Command        string
	Tier           DependencyTier
	ConfiguredPath string
	Hint           string
}

type DependencyState struct {
	DependencySpec
	ResolvedPath string
	Status       DependencyStatus
	Error        string
}

type PathResolver struct {
	LookPath func(file string) (string, error)
	AbsPath  func(path string) (string, error)
	Stat     func(name string) (os.FileInfo, error)
}

func NewPathResolver() PathResolver {
	return PathResolver{
		LookPath: exec.LookPath,
		AbsPath:  filepath.Abs,
		Stat:     os.Stat,
	}
}

func (r PathResolver) Resolve(spec DependencySpec) DependencyState {
	state := DependencyState{DependencySpec: spec}

	if configured := strings.TrimSpace(spec.ConfiguredPath); configured != "" {
		resolvedPath, err := r.resolveConfiguredPath(configured)
		if err == nil {
			state.Status = DependencyStatusOK
			state.ResolvedPath = resolvedPath
			return state
		}
		state.ResolvedPath = configured
		state.Error = err.Error()
		if isMissingPathError(err) {
			state.Status = DependencyStatusMissing
		} else {
			state.Status = DependencyStatusError
		}
		return state
	}

	resolvedPath, err := r.LookPath(spec.Command)
	if err == nil {
		state.Status = DependencyStatusOK
		state.ResolvedPath = resolvedPath
		return state
	}

	state.Error = err.Error()
	if isMissingPathError(err) {
		state.Status = DependencyStatusMissing
		return state
	}
	state.Status = DependencyStatusError
	return state
}

func (r PathResolver) resolveConfiguredPath(configuredPath string) (string, error) {
	if resolvedPath, err := r.LookPath(configuredPath); err == nil {
		return resolvedPath, nil
	}

	absPath, err := r.AbsPath(configuredPath)
	if err != nil {
		return "", err
	}
	if _, err = r.Stat(absPath); err != nil {
		return "", err
	}
	return absPath, nil
}

// BuildDependencyInventory lists the external tools the pipeline needs.
// yt-dlp is a must because two of the three download strategies use it;
// the analyzer command is optional since discovery falls back to the AI path.
func BuildDependencyInventory(cfg config.Config) []DependencySpec {
	return []DependencySpec{
		{
			ID:             "ffmpeg",
			Command:        "ffmpeg",
			Tier:           DependencyTierMust,
			ConfiguredPath: cfg.Downloader.FfmpegPath,
			Hint:           "Required for audio extraction and clip encoding.",
		},
		{
			ID:             "yt-dlp",
			Command:        "yt-dlp",
			Tier:           DependencyTierMust,
			ConfiguredPath: cfg.Downloader.YtdlpPath,
			Hint:           "Required for the fallback download strategies.",
		},
		{
			ID:             "analyzer",
			Command:        cfg.Analyzer.Command,
			Tier:           DependencyTierOptional,
			Hint:           "Primary highlight analyzer; discovery falls back to the AI path without it.",
		},
	}
}

// CheckDependency resolves the tool inventory, wires resolved paths into
// storage and fails when a must-tier tool is missing.
func CheckDependency() error {
	resolver := NewPathResolver()
	var missing []string

	for _, spec := range BuildDependencyInventory(config.Conf) {
		state := resolver.Resolve(spec)
		if state.Status != DependencyStatusOK {
			if spec.Tier == DependencyTierMust {
				missing = append(missing, fmt.Sprintf("%s (%s)", spec.ID, spec.Hint))
			} else {
				log.GetLogger().Warn("optional dependency unavailable",
					zap.String("dependency", spec.ID),
					zap.String("hint", spec.Hint))
			}
			continue
		}

		switch spec.ID {
		case "ffmpeg":
			storage.FfmpegPath = state.ResolvedPath
		case "yt-dlp":
			storage.YtdlpPath = state.ResolvedPath
		}
		log.GetLogger().Info("dependency resolved",
			zap.String("dependency", spec.ID),
			zap.String("path", state.ResolvedPath))
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required dependencies: %s", strings.Join(missing, "; "))
	}
	return nil
}

func isMissingPathError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, os.ErrNotExist) || errors.Is(err, exec.ErrNotFound) {
		return true
	}

	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		if errors.Is(pathErr.Err, os.ErrNotExist) {
			return true
		}
	}

	var execErr *exec.Error
	if errors.As(err, &execErr) {
		if errors.Is(execErr.Err, exec.ErrNotFound) {
			return true
		}
	}

	message := strings.ToLower(err.Error())
	return strings.Contains(message, "not found") || strings.Contains(message, "cannot find")
}
