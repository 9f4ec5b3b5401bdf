package downloader

import (
	"context"
	"net/http"
	"net/url"

	apperrors "trilion/pkg/errors"

	"github.com/kkdai/youtube/v2"
)

// VideoInfo is source metadata resolved without downloading.
type VideoInfo struct {
	Title    string
	Author   string
	Duration int // seconds
}

// Prober answers link-validation requests.
type Prober struct {
	yt *youtube.Client
}

func NewProber(proxy string) *Prober {
	transport := &http.Transport{}
	if proxy != "" {
		if proxyUrl, err := url.Parse(proxy); err == nil {
			transport.Proxy = http.ProxyURL(proxyUrl)
		}
	}
	return &Prober{yt: &youtube.Client{HTTPClient: &http.Client{Transport: transport}}}
}

func (p *Prober) Probe(ctx context.Context, videoUrl string) (*VideoInfo, error) {
	video, err := p.yt.GetVideoContext(ctx, videoUrl)
	if err != nil {
		return nil, apperrors.Wrap(classifyMessage(err.Error()), "failed to resolve video", err)
	}
	return &VideoInfo{
		Title:    video.Title,
		Author:   video.Author,
		Duration: int(video.Duration.Seconds()),
	}, nil
}
