// Package pipeline orchestrates one run end to end: acquire the source
// video, extract its audio, discover highlights, cut a clip per highlight,
// and publish the results. Stage failures fail the run; clip failures do not.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"trilion/internal/analyzer"
	"trilion/internal/storage"
	"trilion/internal/types"
	"trilion/log"
	apperrors "trilion/pkg/errors"
	"trilion/pkg/publisher"
	"trilion/pkg/util"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Stage names published to progress subscribers.
const (
	StageAcquiring       = "acquiring"
	StageExtractingAudio = "extracting_audio"
	StageDiscovering     = "discovering"
	StageMaterializing   = "materializing"
	StageAggregating     = "aggregating"
	StageDone            = "done"
	StageBypassed        = "bypassed"
	StageFailed          = "failed"
)

// Acquirer downloads the source video to dest.
type Acquirer interface {
	Acquire(ctx context.Context, url, dest string) (*types.SourceAsset, error)
}

// Transcoder extracts audio tracks and cuts clips.
type Transcoder interface {
	ExtractAudio(ctx context.Context, videoPath, destBase string) (*types.AudioAsset, error)
	CutClip(ctx context.Context, videoPath, dest string, start, duration int) (string, error)
}

// Notifier receives stage transitions. Implementations must not block.
type Notifier interface {
	StageChanged(runId, stage string)
}

// Options tune one orchestrator instance.
type Options struct {
	MediaDir         string
	StrictTimestamps bool
	Deadline         time.Duration
	MaxParallelClips int
	Platform         string
}

// Orchestrator runs the clip pipeline. Safe for concurrent Run calls as long
// as run ids are distinct.
type Orchestrator struct {
	acquirer   Acquirer
	transcoder Transcoder
	discoverer analyzer.Discoverer
	publisher  publisher.Publisher
	notifier   Notifier
	opts       Options

	now func() time.Time
}

func NewOrchestrator(acquirer Acquirer, transcoder Transcoder, discoverer analyzer.Discoverer,
	pub publisher.Publisher, notifier Notifier, opts Options) *Orchestrator {
	if opts.MaxParallelClips <= 0 {
		opts.MaxParallelClips = 1
	}
	return &Orchestrator{
		acquirer:   acquirer,
		transcoder: transcoder,
		discoverer: discoverer,
		publisher:  pub,
		notifier:   notifier,
		opts:       opts,
		now:        time.Now,
	}
}

// Runner is the pipeline surface handlers and queue workers depend on.
type Runner interface {
	Run(ctx context.Context, req RunRequest) (*types.PipelineResult, error)
}

// RunRequest describes one pipeline run.
type RunRequest struct {
	RunId        string
	Url          string
	NumClips     int
	ClipDuration int // seconds
	Demo         bool
}

// Run executes the full pipeline and returns the aggregated result. The
// source video is kept on disk; the intermediate audio file is removed.
func (o *Orchestrator) Run(ctx context.Context, req RunRequest) (*types.PipelineResult, error) {
	if req.NumClips <= 0 {
		req.NumClips = 3
	}
	if req.ClipDuration <= 0 {
		req.ClipDuration = 30
	}

	if o.opts.Deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.opts.Deadline)
		defer cancel()
	}

	o.persistRun(req, types.RunStatusProcessing, "", nil)

	result, err := o.execute(ctx, req)
	if err != nil {
		err = o.translateCtxError(ctx, err)
		o.notify(req.RunId, StageFailed)
		o.persistRun(req, types.RunStatusFailed, apperrors.GetMessage(err), nil)
		return nil, err
	}

	o.notify(req.RunId, StageDone)
	o.persistRun(req, types.RunStatusDone, "", result)
	return result, nil
}

func (o *Orchestrator) execute(ctx context.Context, req RunRequest) (*types.PipelineResult, error) {
	if req.Demo {
		o.notify(req.RunId, StageBypassed)
		return o.runDemo(req)
	}

	ts := o.now().Unix()

	o.notify(req.RunId, StageAcquiring)
	videoPath := filepath.Join(o.opts.MediaDir, fmt.Sprintf("video_%d.mp4", ts))
	source, err := o.acquirer.Acquire(ctx, req.Url, videoPath)
	if err != nil {
		return nil, err
	}
	log.GetLogger().Info("source acquired", zap.String("runId", req.RunId),
		zap.String("method", source.Method), zap.Int64("size", source.Size))
	if err = ctx.Err(); err != nil {
		return nil, err
	}

	o.notify(req.RunId, StageExtractingAudio)
	audio, err := o.transcoder.ExtractAudio(ctx, source.Path, filepath.Join(o.opts.MediaDir, fmt.Sprintf("audio_%d", ts)))
	if err != nil {
		return nil, err
	}
	// Audio exists only to feed discovery; the source video stays for reuse.
	defer o.removeAudio(req.RunId, audio.Path)
	if err = ctx.Err(); err != nil {
		return nil, err
	}

	o.notify(req.RunId, StageDiscovering)
	highlights, err := o.discoverer.Discover(ctx, analyzer.Request{
		AudioPath:    audio.Path,
		VideoPath:    source.Path,
		NumClips:     req.NumClips,
		ClipDuration: req.ClipDuration,
	})
	if err != nil {
		return nil, err
	}
	highlights = analyzer.Sanitize(highlights, req.NumClips)
	if err = ctx.Err(); err != nil {
		return nil, err
	}

	o.notify(req.RunId, StageMaterializing)
	clips, err := o.materialize(ctx, req, source.Path, highlights, ts)
	if err != nil {
		return nil, err
	}

	o.notify(req.RunId, StageAggregating)
	return &types.PipelineResult{
		Clips:          clips,
		Requested:      req.NumClips,
		Created:        len(clips),
		TargetDuration: req.ClipDuration,
		Platform:       o.opts.Platform,
	}, nil
}

// materialize cuts one clip per highlight. A failed clip is logged and
// skipped; a run where every clip fails still finishes, with an empty list.
func (o *Orchestrator) materialize(ctx context.Context, req RunRequest, videoPath string,
	highlights []types.Highlight, ts int64) ([]types.ClipAsset, error) {

	results := make([]*types.ClipAsset, len(highlights))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.opts.MaxParallelClips)

	for i, h := range highlights {
		i, h := i, h
		g.Go(func() error {
			clip, err := o.cutOne(gctx, req, videoPath, h, ts, i)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				log.GetLogger().Warn("clip failed, continuing with the rest",
					zap.String("runId", req.RunId), zap.Int("index", i+1), zap.Error(err))
				return nil
			}
			results[i] = clip
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	clips := lo.FilterMap(results, func(c *types.ClipAsset, _ int) (types.ClipAsset, bool) {
		if c == nil {
			return types.ClipAsset{}, false
		}
		return *c, true
	})
	if len(clips) == 0 {
		log.GetLogger().Warn("no highlight survived materialization",
			zap.String("runId", req.RunId), zap.Int("highlights", len(highlights)))
	}
	return clips, nil
}

func (o *Orchestrator) cutOne(ctx context.Context, req RunRequest, videoPath string,
	h types.Highlight, ts int64, index int) (*types.ClipAsset, error) {

	start, end, err := o.resolveWindow(h, req.ClipDuration)
	if err != nil {
		return nil, err
	}
	duration := end - start

	filename := fmt.Sprintf("clip_%d_%d.mp4", ts, index+1)
	dest := filepath.Join(o.opts.MediaDir, filename)

	profile, err := o.transcoder.CutClip(ctx, videoPath, dest, start, duration)
	if err != nil {
		return nil, err
	}

	clip := &types.ClipAsset{
		Filename:    filename,
		Path:        dest,
		StartTime:   util.SecondsToClock(start),
		EndTime:     util.SecondsToClock(end),
		Duration:    duration,
		Title:       h.Title,
		Description: h.Description,
		Score:       h.Score,
		Profile:     profile,
	}
	if o.publisher != nil {
		urls, pubErr := o.publisher.Publish(ctx, dest, filename)
		if pubErr != nil {
			log.GetLogger().Warn("clip publish failed, serving from local path only",
				zap.String("runId", req.RunId), zap.String("filename", filename), zap.Error(pubErr))
		} else {
			clip.URL = urls.URL
			clip.DownloadURL = urls.DownloadURL
		}
	}
	return clip, nil
}

// resolveWindow turns highlight timestamps into a [start, end) second range.
// In strict mode a malformed timestamp fails the clip; otherwise start falls
// back to 0 and end to start plus the target duration.
func (o *Orchestrator) resolveWindow(h types.Highlight, targetDuration int) (int, int, error) {
	start, startErr := util.TimeToSeconds(h.Start)
	if startErr != nil {
		if o.opts.StrictTimestamps {
			return 0, 0, fmt.Errorf("bad start timestamp: %w", startErr)
		}
		start = 0
	}
	end, endErr := util.TimeToSeconds(h.End)
	if endErr != nil {
		if o.opts.StrictTimestamps {
			return 0, 0, fmt.Errorf("bad end timestamp: %w", endErr)
		}
		end = start + targetDuration
	}
	if end <= start {
		return 0, 0, fmt.Errorf("non-positive clip window %q..%q", h.Start, h.End)
	}
	return start, end, nil
}

// runDemo skips acquisition and discovery and fabricates evenly spaced clip
// metadata, so the API surface can be exercised without any credentials or
// network access.
func (o *Orchestrator) runDemo(req RunRequest) (*types.PipelineResult, error) {
	demoTitles := []string{
		"🔥 This Moment Broke The Internet",
		"😱 You Won't Believe What Happens Next",
		"💯 The Advice Nobody Asked For",
		"🚀 From Zero To Viral",
		"🤯 Mind-Blowing Revelation",
	}

	clips := make([]types.ClipAsset, 0, req.NumClips)
	for i := 0; i < req.NumClips; i++ {
		start := i * req.ClipDuration
		end := start + req.ClipDuration
		filename := fmt.Sprintf("demo_clip_%d.mp4", i+1)

		// No file exists behind a demo clip, so it never goes through the
		// publisher; the links just mirror the local API shape.
		clips = append(clips, types.ClipAsset{
			Filename:    filename,
			StartTime:   util.SecondsToClock(start),
			EndTime:     util.SecondsToClock(end),
			Duration:    req.ClipDuration,
			Title:       demoTitles[i%len(demoTitles)],
			Description: "Demo clip generated without processing the source video",
			Score:       0.9 - float64(i)*0.1,
			URL:         "/api/clips/" + filename,
			DownloadURL: "/api/download/" + filename,
		})
	}

	return &types.PipelineResult{
		Clips:          clips,
		Requested:      req.NumClips,
		Created:        len(clips),
		TargetDuration: req.ClipDuration,
		Platform:       o.opts.Platform,
		Demo:           true,
	}, nil
}

func (o *Orchestrator) removeAudio(runId, path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.GetLogger().Warn("failed to remove intermediate audio",
			zap.String("runId", runId), zap.String("path", path), zap.Error(err))
	}
}

func (o *Orchestrator) translateCtxError(ctx context.Context, err error) error {
	switch ctx.Err() {
	case context.DeadlineExceeded:
		return apperrors.Wrap(apperrors.CodePipelineTimeout, "Pipeline deadline exceeded", err)
	case context.Canceled:
		return apperrors.Wrap(apperrors.CodePipelineCanceled, "Pipeline canceled", err)
	}
	return err
}

func (o *Orchestrator) notify(runId, stage string) {
	if o.notifier != nil {
		o.notifier.StageChanged(runId, stage)
	}
}

// persistRun records run state best-effort. A missing database never affects
// the pipeline outcome.
func (o *Orchestrator) persistRun(req RunRequest, status, failReason string, result *types.PipelineResult) {
	run := &types.PipelineRun{
		RunId:          req.RunId,
		Url:            req.Url,
		Status:         status,
		FailReason:     failReason,
		RequestedClips: req.NumClips,
		TargetDuration: req.ClipDuration,
		Platform:       o.opts.Platform,
		Demo:           req.Demo,
	}
	if result != nil {
		run.CreatedClips = result.Created
	}
	if err := storage.SaveRun(run); err != nil {
		log.GetLogger().Debug("run state not persisted", zap.String("runId", req.RunId), zap.Error(err))
		return
	}
	if result == nil || result.Demo {
		return
	}

	records := lo.Map(result.Clips, func(c types.ClipAsset, _ int) types.ClipRecord {
		size := int64(0)
		if info, statErr := os.Stat(c.Path); statErr == nil {
			size = info.Size()
		}
		return types.ClipRecord{
			RunId:       req.RunId,
			Filename:    c.Filename,
			Title:       c.Title,
			Description: c.Description,
			StartTime:   c.StartTime,
			EndTime:     c.EndTime,
			Duration:    c.Duration,
			Score:       c.Score,
			Profile:     c.Profile,
			PublishUrl:  c.URL,
			Size:        size,
		}
	})
	if err := storage.SaveClips(records); err != nil {
		log.GetLogger().Debug("clip records not persisted", zap.String("runId", req.RunId), zap.Error(err))
	}
}
