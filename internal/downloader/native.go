package downloader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"

	apperrors "trilion/pkg/errors"

	"github.com/go-resty/resty/v2"
	"github.com/kkdai/youtube/v2"
)

// nativeStrategy resolves the stream URL in-process and downloads it over
// plain HTTP. Cheaper than shelling out, but the most likely to break when
// the upstream player API changes, hence first in the chain with yt-dlp
// behind it.
type nativeStrategy struct {
	yt   *youtube.Client
	http *resty.Client
}

func newNativeStrategy(proxy string) *nativeStrategy {
	transport := &http.Transport{}
	if proxy != "" {
		if proxyUrl, err := url.Parse(proxy); err == nil {
			transport.Proxy = http.ProxyURL(proxyUrl)
		}
	}

	httpClient := resty.New().SetTransport(transport)
	return &nativeStrategy{
		yt:   &youtube.Client{HTTPClient: &http.Client{Transport: transport}},
		http: httpClient,
	}
}

func (s *nativeStrategy) Name() string { return "native" }

func (s *nativeStrategy) Fetch(ctx context.Context, videoUrl, dest string) error {
	video, err := s.yt.GetVideoContext(ctx, videoUrl)
	if err != nil {
		return apperrors.Wrap(classifyMessage(err.Error()), "failed to resolve video", err)
	}

	formats := video.Formats.WithAudioChannels()
	if len(formats) == 0 {
		return apperrors.New(apperrors.CodeDownloadFailed, "no muxed audio+video format available")
	}
	formats.Sort()

	streamUrl, err := s.yt.GetStreamURLContext(ctx, video, &formats[0])
	if err != nil {
		return apperrors.Wrap(classifyMessage(err.Error()), "failed to resolve stream URL", err)
	}

	resp, err := s.http.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(streamUrl)
	if err != nil {
		return err
	}
	body := resp.RawBody()
	defer body.Close()

	if resp.StatusCode() != http.StatusOK {
		if appErr := classifyStatus(resp.StatusCode()); appErr != nil {
			return appErr
		}
		return apperrors.New(apperrors.CodeDownloadFailed,
			fmt.Sprintf("stream request returned status %d", resp.StatusCode()))
	}

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err = io.Copy(out, body); err != nil {
		return fmt.Errorf("failed to write stream to %s: %w", dest, err)
	}
	return nil
}
