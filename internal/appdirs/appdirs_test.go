package appdirs

import (
	"path/filepath"
	"testing"
)

func TestResolveDefaultsToRelativeData(t *testing.T) {
	paths, err := resolve(resolveDeps{getenv: func(string) string { return "" }})
	if err != nil {
		t.Fatalf("resolve() error: %v", err)
	}

	if paths.DataDir != "data" {
		t.Fatalf("DataDir = %q, want %q", paths.DataDir, "data")
	}
	if paths.ConfigFile != filepath.Join("data", "config", "config.toml") {
		t.Fatalf("ConfigFile = %q", paths.ConfigFile)
	}
	if paths.MediaDir != filepath.Join("data", "media") {
		t.Fatalf("MediaDir = %q", paths.MediaDir)
	}
}

func TestResolveHonorsEnvOverride(t *testing.T) {
	paths, err := resolve(resolveDeps{getenv: func(key string) string {
		if key == DataRootEnv {
			return "/srv/trilion"
		}
		return ""
	}})
	if err != nil {
		t.Fatalf("resolve() error: %v", err)
	}

	if paths.DataDir != "/srv/trilion" {
		t.Fatalf("DataDir = %q", paths.DataDir)
	}
	if paths.LogDir != filepath.Join("/srv/trilion", "logs") {
		t.Fatalf("LogDir = %q", paths.LogDir)
	}
}

func TestDBPathFor(t *testing.T) {
	paths := Paths{CacheDir: filepath.Join("tmp", "cache")}
	want := filepath.Join("tmp", "cache", "trilion.db")
	if got := DBPathFor(paths); got != want {
		t.Fatalf("DBPathFor() = %q, want %q", got, want)
	}
}

func TestMediaDirForFallback(t *testing.T) {
	if got := MediaDirFor(Paths{}); got != "media" {
		t.Fatalf("MediaDirFor(empty) = %q, want %q", got, "media")
	}
	if got := MediaDirFor(Paths{MediaDir: "x"}); got != "x" {
		t.Fatalf("MediaDirFor() = %q, want %q", got, "x")
	}
}
