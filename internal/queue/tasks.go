// Package queue provides task handlers for Asynq background processing.
package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"trilion/internal/pipeline"
	"trilion/log"
)

// TaskHandlers provides handlers for different task types
type TaskHandlers struct {
	orchestrator pipeline.Runner
}

// NewTaskHandlers creates a new TaskHandlers instance
func NewTaskHandlers(orchestrator pipeline.Runner) *TaskHandlers {
	return &TaskHandlers{orchestrator: orchestrator}
}

// HandlePipelineTask processes one queued pipeline run
func (h *TaskHandlers) HandlePipelineTask(ctx context.Context, t *asynq.Task) error {
	var payload PipelineTaskPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	log.GetLogger().Info("[Queue] Processing pipeline task",
		zap.String("task_id", payload.TaskID),
		zap.String("url", payload.URL))

	_, err := h.orchestrator.Run(ctx, pipeline.RunRequest{
		RunId:        payload.TaskID,
		Url:          payload.URL,
		NumClips:     payload.NumClips,
		ClipDuration: payload.ClipDuration,
		Demo:         payload.Demo,
	})
	if err != nil {
		return err
	}

	log.GetLogger().Info("[Queue] Pipeline task completed",
		zap.String("task_id", payload.TaskID))

	return nil
}

// RegisterHandlers registers all task handlers with the Asynq server mux
func (h *TaskHandlers) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(TypePipelineTask, h.HandlePipelineTask)
}

// StartWorker starts the Asynq worker with registered handlers
func StartWorker(q *Queue, orchestrator pipeline.Runner) error {
	handlers := NewTaskHandlers(orchestrator)

	mux := asynq.NewServeMux()
	handlers.RegisterHandlers(mux)

	log.GetLogger().Info("[Queue] Starting worker",
		zap.String("redis_addr", q.config.RedisAddr),
		zap.Int("concurrency", q.config.Concurrency))

	return q.server.Run(mux)
}
