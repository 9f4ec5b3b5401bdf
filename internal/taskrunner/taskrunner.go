package taskrunner

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"trilion/internal/pipeline"
	"trilion/log"
)

const (
	defaultQueueSize   = 128
	defaultConcurrency = 2
)

var (
	ErrRunnerStopped = errors.New("task runner stopped")
	ErrQueueFull     = errors.New("task queue is full")
)

// Config controls in-process task runner behavior.
type Config struct {
	QueueSize   int
	Concurrency int
}

// DefaultConfig returns a single-host-friendly default config.
func DefaultConfig() Config {
	return Config{
		QueueSize:   defaultQueueSize,
		Concurrency: defaultConcurrency,
	}
}

// PipelineTaskPayload contains pipeline task enqueue data.
type PipelineTaskPayload struct {
	TaskID       string `json:"task_id"`
	URL          string `json:"url"`
	NumClips     int    `json:"num_clips"`
	ClipDuration int    `json:"clip_duration"`
	Demo         bool   `json:"demo"`
}

// Runner executes queued pipeline runs with in-memory workers.
type Runner struct {
	orchestrator pipeline.Runner
	config       Config

	queue  chan PipelineTaskPayload
	ctx    context.Context
	cancel context.CancelFunc

	workerWg sync.WaitGroup
	closed   atomic.Bool
}

// New creates and starts a task runner.
func New(orchestrator pipeline.Runner, cfg Config) *Runner {
	cfg = normalizeConfig(cfg)
	ctx, cancel := context.WithCancel(context.Background())

	runner := &Runner{
		orchestrator: orchestrator,
		config:       cfg,
		queue:        make(chan PipelineTaskPayload, cfg.QueueSize),
		ctx:          ctx,
		cancel:       cancel,
	}

	for i := 0; i < cfg.Concurrency; i++ {
		runner.workerWg.Add(1)
		go runner.worker(i + 1)
	}

	return runner
}

func normalizeConfig(cfg Config) Config {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = defaultQueueSize
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultConcurrency
	}
	return cfg
}

// SubmitPipelineTask queues one pipeline run.
func (r *Runner) SubmitPipelineTask(payload PipelineTaskPayload) error {
	if payload.URL == "" && !payload.Demo {
		return errors.New("pipeline task url is required")
	}
	if r.closed.Load() {
		return ErrRunnerStopped
	}

	select {
	case <-r.ctx.Done():
		return ErrRunnerStopped
	case r.queue <- payload:
		log.GetLogger().Info("[TaskRunner] task submitted",
			zap.String("task_id", payload.TaskID),
			zap.String("url", payload.URL))
		return nil
	default:
		return ErrQueueFull
	}
}

func (r *Runner) worker(workerID int) {
	defer r.workerWg.Done()

	for {
		select {
		case <-r.ctx.Done():
			return
		default:
		}

		select {
		case <-r.ctx.Done():
			return
		case payload := <-r.queue:
			r.processTask(workerID, payload)
		}
	}
}

func (r *Runner) processTask(workerID int, payload PipelineTaskPayload) {
	_, err := r.orchestrator.Run(r.ctx, pipeline.RunRequest{
		RunId:        payload.TaskID,
		Url:          payload.URL,
		NumClips:     payload.NumClips,
		ClipDuration: payload.ClipDuration,
		Demo:         payload.Demo,
	})
	if err != nil {
		log.GetLogger().Error("[TaskRunner] task failed",
			zap.Int("worker_id", workerID),
			zap.String("task_id", payload.TaskID),
			zap.Error(err))
		return
	}

	log.GetLogger().Info("[TaskRunner] task completed",
		zap.Int("worker_id", workerID),
		zap.String("task_id", payload.TaskID))
}

// Close stops workers and rejects new tasks.
func (r *Runner) Close() {
	if !r.closed.CompareAndSwap(false, true) {
		return
	}

	r.cancel()
	r.workerWg.Wait()
}

// Pending returns the number of queued tasks waiting for workers.
func (r *Runner) Pending() int {
	return len(r.queue)
}
