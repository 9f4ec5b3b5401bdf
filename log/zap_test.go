package log

import (
	"errors"
	"path/filepath"
	"testing"

	"trilion/internal/appdirs"
)

func setAppDirsResolverForTest(t *testing.T, resolver func() (appdirs.Paths, error)) {
	t.Helper()

	originalResolver := appDirsResolver
	appDirsResolver = resolver
	t.Cleanup(func() {
		appDirsResolver = originalResolver
	})
}

func TestResolveLogDir(t *testing.T) {
	t.Run("uses resolved log dir", func(t *testing.T) {
		expectedDir := filepath.Join("tmp", "logs")
		setAppDirsResolverForTest(t, func() (appdirs.Paths, error) {
			return appdirs.Paths{LogDir: expectedDir}, nil
		})

		logDir, err := ResolveLogDir()
		if err != nil {
			t.Fatalf("ResolveLogDir() returned unexpected error: %v", err)
		}
		if logDir != expectedDir {
			t.Fatalf("ResolveLogDir() = %q, want %q", logDir, expectedDir)
		}
	})

	t.Run("falls back to current dir when empty", func(t *testing.T) {
		setAppDirsResolverForTest(t, func() (appdirs.Paths, error) {
			return appdirs.Paths{LogDir: " \t "}, nil
		})

		logDir, err := ResolveLogDir()
		if err != nil {
			t.Fatalf("ResolveLogDir() returned unexpected error: %v", err)
		}
		if logDir != "." {
			t.Fatalf("ResolveLogDir() = %q, want %q", logDir, ".")
		}
	})

	t.Run("returns resolver error", func(t *testing.T) {
		setAppDirsResolverForTest(t, func() (appdirs.Paths, error) {
			return appdirs.Paths{}, errors.New("resolve failed")
		})

		_, err := ResolveLogDir()
		if err == nil {
			t.Fatal("ResolveLogDir() returned nil error")
		}
	})
}

func TestResolveLogFilePath(t *testing.T) {
	expectedDir := filepath.Join("tmp", "logs")
	setAppDirsResolverForTest(t, func() (appdirs.Paths, error) {
		return appdirs.Paths{LogDir: expectedDir}, nil
	})

	got, err := ResolveLogFilePath()
	if err != nil {
		t.Fatalf("ResolveLogFilePath() returned unexpected error: %v", err)
	}
	want := filepath.Join(expectedDir, logFileName)
	if got != want {
		t.Fatalf("ResolveLogFilePath() = %q, want %q", got, want)
	}
}
