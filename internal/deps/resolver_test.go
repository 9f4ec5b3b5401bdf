package deps

import (
	"errors"
	"os"
	"testing"
)

func fakeResolver(lookPathErr error, lookPathResult string) PathResolver {
	return PathResolver{
		LookPath: func(file string) (string, error) {
			if lookPathErr != nil {
				return "", lookPathErr
			}
			return lookPathResult, nil
		},
		AbsPath: func(path string) (string, error) { return "/abs/" + path, nil },
		Stat:    func(name string) (os.FileInfo, error) { return nil, os.ErrNotExist },
	}
}

func TestResolveUsesLookPath(t *testing.T) {
	resolver := fakeResolver(nil, "/usr/bin/ffmpeg")

	state := resolver.Resolve(DependencySpec{ID: "ffmpeg", Command: "ffmpeg", Tier: DependencyTierMust})
	if state.Status != DependencyStatusOK {
		t.Fatalf("Status = %q, want ok (error: %s)", state.Status, state.Error)
	}
	if state.ResolvedPath != "/usr/bin/ffmpeg" {
		t.Fatalf("ResolvedPath = %q", state.ResolvedPath)
	}
}

func TestResolveMissingBinary(t *testing.T) {
	resolver := fakeResolver(os.ErrNotExist, "")

	state := resolver.Resolve(DependencySpec{ID: "yt-dlp", Command: "yt-dlp", Tier: DependencyTierMust})
	if state.Status != DependencyStatusMissing {
		t.Fatalf("Status = %q, want missing", state.Status)
	}
}

func TestResolveConfiguredPathFallsBackToStat(t *testing.T) {
	resolver := PathResolver{
		LookPath: func(file string) (string, error) { return "", os.ErrNotExist },
		AbsPath:  func(path string) (string, error) { return "/abs/tools/ffmpeg", nil },
		Stat:     func(name string) (os.FileInfo, error) { return nil, nil },
	}

	state := resolver.Resolve(DependencySpec{
		ID:             "ffmpeg",
		Command:        "ffmpeg",
		ConfiguredPath: "tools/ffmpeg",
	})
	if state.Status != DependencyStatusOK {
		t.Fatalf("Status = %q, want ok (error: %s)", state.Status, state.Error)
	}
	if state.ResolvedPath != "/abs/tools/ffmpeg" {
		t.Fatalf("ResolvedPath = %q", state.ResolvedPath)
	}
}

func TestIsMissingPathError(t *testing.T) {
	if !isMissingPathError(os.ErrNotExist) {
		t.Fatal("os.ErrNotExist should be missing")
	}
	if !isMissingPathError(errors.New("executable file not found in $PATH")) {
		t.Fatal("lookpath message should be missing")
	}
	if isMissingPathError(errors.New("permission denied")) {
		t.Fatal("permission denied is not missing")
	}
}
