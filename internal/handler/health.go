package handler

import (
	"time"

	"trilion/config"
	"trilion/internal/response"

	"github.com/gin-gonic/gin"
)

var startedAt = time.Now()

// Banner answers the root path with a short service description.
func (h Handler) Banner(c *gin.Context) {
	c.JSON(200, gin.H{
		"service": "Trilion clip pipeline",
		"status":  "running",
		"endpoints": []string{
			"POST /api/analyze",
			"POST /api/validate",
			"GET /api/clips",
			"GET /api/clips/:filename",
			"GET /api/download/:filename",
			"POST /api/tasks",
			"GET /api/tasks/:taskId",
			"GET /health",
		},
	})
}

// Health is the liveness probe.
func (h Handler) Health(c *gin.Context) {
	c.JSON(200, gin.H{
		"status":         "healthy",
		"timestamp":      time.Now().UTC().Format(time.RFC3339),
		"uptime_seconds": int64(time.Since(startedAt).Seconds()),
	})
}

// KeyStatus reports which AI credentials are configured, without revealing
// them. Useful when diagnosing why discovery falls back or fails.
func (h Handler) KeyStatus(c *gin.Context) {
	response.Success(c, gin.H{
		"transcribe_key_configured": config.Conf.Transcribe.ApiKey != "",
		"llm_key_configured":        config.Conf.Llm.ApiKey != "",
		"llm_base_url_set":          config.Conf.Llm.BaseUrl != "",
		"analyzer_script":           config.Conf.Analyzer.Script,
	})
}
