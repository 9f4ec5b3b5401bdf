package handler

import (
	"os"
	"path/filepath"
	"strings"

	"trilion/internal/appdirs"
)

var appDirsResolver = appdirs.Resolve

// mediaDirCandidates lists the directories a clip may live in: the configured
// media dir first, then the resolved data layout, then the relative default.
func (h Handler) mediaDirCandidates() []string {
	candidates := make([]string, 0, 3)
	if h.MediaDir != "" {
		candidates = append(candidates, h.MediaDir)
	}
	if dirs, err := appDirsResolver(); err == nil {
		candidates = append(candidates, appdirs.MediaDirFor(dirs))
	}
	candidates = append(candidates, appdirs.MediaRootName)
	return uniquePaths(candidates...)
}

// resolveClipPath maps a requested filename onto a real file inside one of
// the media roots. Traversal outside a root is rejected.
func (h Handler) resolveClipPath(requested string) (string, bool) {
	requested = strings.TrimSpace(requested)
	requested = strings.TrimPrefix(requested, "/")
	if requested == "" || hasParentTraversal(requested) {
		return "", false
	}
	requested = filepath.FromSlash(filepath.Clean(requested))

	for _, rootDir := range h.mediaDirCandidates() {
		candidate := filepath.Clean(filepath.Join(rootDir, requested))
		if !isPathWithinRoot(rootDir, candidate) {
			continue
		}
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
	}
	return "", false
}

func uniquePaths(values ...string) []string {
	seen := make(map[string]struct{}, len(values))
	paths := make([]string, 0, len(values))
	for _, value := range values {
		cleaned := strings.TrimSpace(value)
		if cleaned == "" {
			continue
		}
		cleaned = filepath.Clean(cleaned)
		if _, exists := seen[cleaned]; exists {
			continue
		}
		seen[cleaned] = struct{}{}
		paths = append(paths, cleaned)
	}
	return paths
}

func isPathWithinRoot(root, candidate string) bool {
	root = filepath.Clean(root)
	candidate = filepath.Clean(candidate)

	rel, err := filepath.Rel(root, candidate)
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func hasParentTraversal(path string) bool {
	normalized := strings.ReplaceAll(path, "\\", "/")
	for _, part := range strings.Split(normalized, "/") {
		if part == ".." {
			return true
		}
	}
	return false
}
