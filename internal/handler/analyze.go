package handler

import (
	"fmt"
	"strings"

	"trilion/internal/dto"
	"trilion/internal/pipeline"
	"trilion/internal/queue"
	"trilion/internal/response"
	"trilion/internal/storage"
	"trilion/internal/taskrunner"
	"trilion/internal/types"
	"trilion/log"
	apperrors "trilion/pkg/errors"
	"trilion/pkg/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// Analyze runs the full pipeline synchronously and returns the produced clips.
func (h Handler) Analyze(c *gin.Context) {
	var req dto.AnalyzeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.GetLogger().Error("Analyze ShouldBindJSON err", zap.Error(err))
		response.ErrorResponse(c, apperrors.Wrap(apperrors.CodeInvalidParams, "Invalid parameters", err))
		return
	}
	if strings.TrimSpace(req.Url) == "" && !req.DemoMode {
		response.ErrorResponse(c, apperrors.New(apperrors.CodeInvalidParams, "url is required"))
		return
	}

	runId := newRunId()
	log.GetLogger().Info("Analyze received request",
		zap.String("runId", runId), zap.String("url", req.Url), zap.Bool("demo", req.DemoMode))

	result, err := h.Orchestrator.Run(c.Request.Context(), pipeline.RunRequest{
		RunId:        runId,
		Url:          req.Url,
		NumClips:     req.NumClips,
		ClipDuration: req.ClipDuration,
		Demo:         req.DemoMode,
	})
	if err != nil {
		log.GetLogger().Error("Analyze pipeline failed", zap.String("runId", runId), zap.Error(err))
		response.ErrorResponse(c, err)
		return
	}

	response.Success(c, resultToResData(result))
}

// ValidateLink resolves source metadata without downloading anything.
func (h Handler) ValidateLink(c *gin.Context) {
	var req dto.ValidateReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Url) == "" {
		response.ErrorResponse(c, apperrors.New(apperrors.CodeInvalidParams, "url is required"))
		return
	}

	info, err := h.Prober.Probe(c.Request.Context(), req.Url)
	if err != nil {
		log.GetLogger().Warn("ValidateLink probe failed", zap.String("url", req.Url), zap.Error(err))
		response.ErrorResponse(c, err)
		return
	}

	response.Success(c, dto.ValidateResData{
		Valid:    true,
		Title:    info.Title,
		Duration: info.Duration,
		Author:   info.Author,
	})
}

// CreateTask queues an asynchronous pipeline run and returns its id.
func (h Handler) CreateTask(c *gin.Context) {
	var req dto.CreateTaskReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, apperrors.Wrap(apperrors.CodeInvalidParams, "Invalid parameters", err))
		return
	}
	if strings.TrimSpace(req.Url) == "" && !req.DemoMode {
		response.ErrorResponse(c, apperrors.New(apperrors.CodeInvalidParams, "url is required"))
		return
	}

	taskId := newTaskId(req.Url)
	if err := storage.SaveRun(&types.PipelineRun{
		RunId:          taskId,
		Url:            req.Url,
		Status:         types.RunStatusQueued,
		RequestedClips: req.NumClips,
		TargetDuration: req.ClipDuration,
		Demo:           req.DemoMode,
	}); err != nil {
		log.GetLogger().Warn("CreateTask run not persisted", zap.String("taskId", taskId), zap.Error(err))
	}

	var err error
	if h.Queue != nil {
		err = h.Queue.EnqueuePipelineTask(toQueuePayload(taskId, req))
	} else {
		err = h.Runner.SubmitPipelineTask(toRunnerPayload(taskId, req))
	}
	if err != nil {
		log.GetLogger().Error("CreateTask submit failed", zap.String("taskId", taskId), zap.Error(err))
		response.ErrorResponse(c, apperrors.Wrap(apperrors.CodeQueueFull, "Unable to queue the task right now", err))
		return
	}

	response.Success(c, dto.CreateTaskResData{TaskId: taskId})
}

// GetTask reports the state of one asynchronous run.
func (h Handler) GetTask(c *gin.Context) {
	taskId := c.Param("taskId")
	if taskId == "" {
		response.ErrorResponse(c, apperrors.New(apperrors.CodeInvalidParams, "taskId is required"))
		return
	}

	run, err := storage.GetRun(taskId)
	if err != nil {
		response.ErrorResponse(c, apperrors.Wrap(apperrors.CodeNotFound, "Task not found", err))
		return
	}

	response.Success(c, dto.TaskStatusResData{
		TaskId:     run.RunId,
		Status:     run.Status,
		FailReason: run.FailReason,
		Clips:      recordsToClipItems(run.Clips),
	})
}

// TaskProgress streams stage transitions for one run over a websocket.
func (h Handler) TaskProgress(c *gin.Context) {
	taskId := c.Param("taskId")
	if taskId == "" {
		response.ErrorResponse(c, apperrors.New(apperrors.CodeInvalidParams, "taskId is required"))
		return
	}
	h.Hub.Serve(c, taskId)
}

func newRunId() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// newTaskId builds a readable id from the link's trailing segment plus a
// random suffix, so task ids sort next to their source in logs.
func newTaskId(url string) string {
	segments := strings.Split(strings.TrimRight(strings.TrimSpace(url), "/"), "/")
	slug := util.SanitizePathName(segments[len(segments)-1])
	if runes := []rune(slug); len(runes) > 16 {
		slug = string(runes[:16])
	}
	if slug == "" {
		slug = "task"
	}
	return fmt.Sprintf("%s_%s", slug, util.GenerateRandStringWithUpperLowerNum(6))
}

func resultToResData(result *types.PipelineResult) dto.AnalyzeResData {
	clips := lo.Map(result.Clips, func(clip types.ClipAsset, i int) dto.ClipItem {
		return dto.ClipItem{
			Id:          i + 1,
			Filename:    clip.Filename,
			Url:         clip.URL,
			DownloadUrl: clip.DownloadURL,
			StartTime:   clip.StartTime,
			EndTime:     clip.EndTime,
			Duration:    clip.Duration,
			Title:       clip.Title,
			Description: clip.Description,
			ViralScore:  clip.Score,
			Platform:    result.Platform,
			Demo:        result.Demo,
		}
	})

	message := "Analysis complete"
	if result.Demo {
		message = "Demo analysis complete"
	}
	return dto.AnalyzeResData{
		Message: message,
		Clips:   clips,
		Analysis: dto.AnalysisMeta{
			TotalClipsRequested: result.Requested,
			TotalClipsCreated:   result.Created,
			TargetDuration:      result.TargetDuration,
			Platform:            result.Platform,
			DemoMode:            result.Demo,
		},
	}
}

func recordsToClipItems(records []types.ClipRecord) []dto.ClipItem {
	return lo.Map(records, func(r types.ClipRecord, i int) dto.ClipItem {
		return dto.ClipItem{
			Id:          i + 1,
			Filename:    r.Filename,
			Url:         r.PublishUrl,
			StartTime:   r.StartTime,
			EndTime:     r.EndTime,
			Duration:    r.Duration,
			Title:       r.Title,
			Description: r.Description,
			ViralScore:  r.Score,
		}
	})
}

func toRunnerPayload(taskId string, req dto.CreateTaskReq) taskrunner.PipelineTaskPayload {
	return taskrunner.PipelineTaskPayload{
		TaskID:       taskId,
		URL:          req.Url,
		NumClips:     req.NumClips,
		ClipDuration: req.ClipDuration,
		Demo:         req.DemoMode,
	}
}

func toQueuePayload(taskId string, req dto.CreateTaskReq) queue.PipelineTaskPayload {
	return queue.PipelineTaskPayload{
		TaskID:       taskId,
		URL:          req.Url,
		NumClips:     req.NumClips,
		ClipDuration: req.ClipDuration,
		Demo:         req.DemoMode,
	}
}
