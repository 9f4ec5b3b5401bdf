// Package appdirs resolves the on-disk layout of the service: config file,
// log directory, media output directory and the sqlite database location.
package appdirs

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	// DataRootEnv overrides the data root; defaults to ./data.
	DataRootEnv = "TRILION_DATA_DIR"

	configFileName = "config.toml"
	dbFileName     = "trilion.db"

	// MediaRootName is the URL alias under which clip files are served.
	MediaRootName = "media"
)

type Paths struct {
	DataDir    string
	ConfigDir  string
	ConfigFile string
	LogDir     string
	MediaDir   string
	CacheDir   string
}

type resolveDeps struct {
	getenv func(string) string
}

func Resolve() (Paths, error) {
	return resolve(resolveDeps{getenv: os.Getenv})
}

func resolve(deps resolveDeps) (Paths, error) {
	if deps.getenv == nil {
		deps.getenv = os.Getenv
	}

	root := strings.TrimSpace(deps.getenv(DataRootEnv))
	if root == "" {
		root = "data"
	}

	configDir := filepath.Join(root, "config")
	return Paths{
		DataDir:    root,
		ConfigDir:  configDir,
		ConfigFile: filepath.Join(configDir, configFileName),
		LogDir:     filepath.Join(root, "logs"),
		MediaDir:   filepath.Join(root, MediaRootName),
		CacheDir:   filepath.Join(root, "cache"),
	}, nil
}

// DBPathFor returns the sqlite database path for the resolved layout.
func DBPathFor(paths Paths) string {
	return filepath.Join(paths.CacheDir, dbFileName)
}

// MediaDirFor returns the media directory, falling back to a relative
// default when the resolved layout is empty.
func MediaDirFor(paths Paths) string {
	if strings.TrimSpace(paths.MediaDir) == "" {
		return MediaRootName
	}
	return paths.MediaDir
}
