// Package publisher turns a local clip file into URLs clients can use.
package publisher

import (
	"context"
	"fmt"
	"strings"
)

// URLs are the two links handed back per clip: a streamable location and a
// direct download.
type URLs struct {
	URL         string
	DownloadURL string
}

// Publisher makes one clip file reachable and returns its links.
type Publisher interface {
	Publish(ctx context.Context, localPath, filename string) (*URLs, error)
}

// Local serves clips straight from the media directory through the HTTP API.
type Local struct {
	baseUrl string
}

func NewLocal(baseUrl string) *Local {
	return &Local{baseUrl: strings.TrimRight(baseUrl, "/")}
}

func (l *Local) Publish(_ context.Context, _ string, filename string) (*URLs, error) {
	return &URLs{
		URL:         fmt.Sprintf("%s/api/clips/%s", l.baseUrl, filename),
		DownloadURL: fmt.Sprintf("%s/api/download/%s", l.baseUrl, filename),
	}, nil
}
