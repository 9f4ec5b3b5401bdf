package main

import (
	"os"

	"go.uber.org/zap"

	"trilion/config"
	"trilion/internal/deps"
	"trilion/internal/server"
	"trilion/internal/storage"
	"trilion/log"
)

func main() {
	if handled, code := handleCLIFlags(); handled {
		os.Exit(code)
	}

	log.InitLogger()
	defer log.GetLogger().Sync()

	created, err := config.LoadOrCreateConfig()
	if err != nil {
		log.GetLogger().Error("failed to load config", zap.Error(err))
		return
	}
	if created {
		log.GetLogger().Info("default config written, edit it to add credentials")
	}

	if err = config.CheckConfig(); err != nil {
		log.GetLogger().Error("invalid config", zap.Error(err))
		return
	}

	storage.InitDB()

	// Mark any stale "running" tasks as "failed" (zombie cleanup)
	if count, err := storage.MarkStaleRuns(); err != nil {
		log.GetLogger().Warn("failed to mark stale runs", zap.Error(err))
	} else if count > 0 {
		log.GetLogger().Info("marked stale runs as failed", zap.Int64("count", count))
	}

	if err = deps.CheckDependency(); err != nil {
		log.GetLogger().Error("dependency check failed", zap.Error(err))
		return
	}
	if err = server.StartBackend(); err != nil {
		log.GetLogger().Error("backend failed", zap.Error(err))
		os.Exit(1)
	}
}
