// Package server wires the pipeline components together and runs the HTTP
// backend.
package server

import (
	"fmt"
	"os"
	"time"

	"trilion/config"
	"trilion/internal/analyzer"
	"trilion/internal/downloader"
	"trilion/internal/handler"
	"trilion/internal/mediatool"
	"trilion/internal/pipeline"
	"trilion/internal/progress"
	"trilion/internal/queue"
	"trilion/internal/router"
	"trilion/internal/taskrunner"
	"trilion/log"
	"trilion/pkg/openai"
	"trilion/pkg/publisher"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// StartBackend assembles the application and blocks serving HTTP.
func StartBackend() error {
	cfg := config.Conf

	mediaDir := resolveMediaDir(cfg)
	if err := os.MkdirAll(mediaDir, 0o755); err != nil {
		return fmt.Errorf("failed to create media dir %s: %w", mediaDir, err)
	}

	hub := progress.NewHub()
	orchestrator := buildOrchestrator(cfg, mediaDir, hub)

	runner := taskrunner.New(orchestrator, taskrunner.DefaultConfig())
	defer runner.Close()

	var q *queue.Queue
	if cfg.Queue.Enabled {
		q = queue.NewQueue(queue.QueueConfig{
			RedisAddr:     cfg.Queue.RedisAddr,
			RedisPassword: cfg.Queue.RedisPassword,
			RedisDB:       cfg.Queue.RedisDB,
			Concurrency:   cfg.Queue.Concurrency,
		})
		defer q.Close()
		go func() {
			if err := queue.StartWorker(q, orchestrator); err != nil {
				log.GetLogger().Error("queue worker stopped", zap.Error(err))
			}
		}()
	}

	hdl := handler.NewHandler(orchestrator, runner, q,
		downloader.NewProber(cfg.App.Proxy), hub, mediaDir)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.Default()
	router.SetupRouter(engine, hdl)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.GetLogger().Info("backend starting", zap.String("addr", addr), zap.String("mediaDir", mediaDir))
	return engine.Run(addr)
}

func buildOrchestrator(cfg config.Config, mediaDir string, hub *progress.Hub) *pipeline.Orchestrator {
	dl := downloader.New(cfg.Downloader, cfg.App.Proxy)
	transcoder := mediatool.NewFFmpeg()

	transcribeClient := openai.NewClient(cfg.Transcribe.BaseUrl, cfg.Transcribe.ApiKey, cfg.App.Proxy)
	llmClient := openai.NewClient(cfg.Llm.BaseUrl, cfg.Llm.ApiKey, cfg.App.Proxy)
	aiConfigured := cfg.Transcribe.ApiKey != "" && cfg.Llm.ApiKey != ""

	discoverer := analyzer.NewChain(
		analyzer.NewSubprocessAnalyzer(cfg.Analyzer),
		analyzer.NewAIAnalyzer(transcribeClient, llmClient,
			cfg.Transcribe.Model, cfg.Llm.Model, aiConfigured),
	)

	var pub publisher.Publisher
	if cfg.Publish.Provider == "oss" {
		pub = publisher.NewOSS(cfg.Publish.Oss)
	} else {
		pub = publisher.NewLocal(cfg.Publish.BaseUrl)
	}

	return pipeline.NewOrchestrator(dl, transcoder, discoverer, pub, hub, pipeline.Options{
		MediaDir:         mediaDir,
		StrictTimestamps: cfg.Pipeline.StrictTimestamps,
		Deadline:         time.Duration(cfg.Pipeline.DeadlineMinute) * time.Minute,
		MaxParallelClips: cfg.Pipeline.MaxParallelClips,
		Platform:         cfg.Pipeline.Platform,
	})
}

func resolveMediaDir(cfg config.Config) string {
	if cfg.Pipeline.MediaDir != "" {
		return cfg.Pipeline.MediaDir
	}
	return "data/media"
}
