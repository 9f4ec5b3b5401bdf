package handler

import (
	"trilion/internal/downloader"
	"trilion/internal/pipeline"
	"trilion/internal/progress"
	"trilion/internal/queue"
	"trilion/internal/taskrunner"
)

// Handler carries the wired pipeline components. Built once at startup and
// shared across requests.
type Handler struct {
	Orchestrator pipeline.Runner
	Runner       *taskrunner.Runner
	Queue        *queue.Queue // nil unless redis queueing is enabled
	Prober       *downloader.Prober
	Hub          *progress.Hub
	MediaDir     string
}

func NewHandler(orchestrator pipeline.Runner, runner *taskrunner.Runner, q *queue.Queue,
	prober *downloader.Prober, hub *progress.Hub, mediaDir string) Handler {
	return Handler{
		Orchestrator: orchestrator,
		Runner:       runner,
		Queue:        q,
		Prober:       prober,
		Hub:          hub,
		MediaDir:     mediaDir,
	}
}
