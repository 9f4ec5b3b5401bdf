package router

import (
	"trilion/internal/handler"

	"github.com/gin-gonic/gin"
)

func SetupRouter(r *gin.Engine, hdl handler.Handler) {
	r.GET("/", hdl.Banner)
	r.GET("/health", hdl.Health)

	api := r.Group("/api")
	{
		api.GET("/test", hdl.KeyStatus)

		api.POST("/analyze", hdl.Analyze)
		api.POST("/validate", hdl.ValidateLink)

		api.GET("/clips", hdl.ListClips)
		api.GET("/clips/*filepath", hdl.ServeClip)
		api.HEAD("/clips/*filepath", hdl.ServeClip)
		api.GET("/download/:filename", hdl.DownloadClip)

		// Asynchronous runs
		api.POST("/tasks", hdl.CreateTask)
		api.GET("/tasks/:taskId", hdl.GetTask)
		api.GET("/tasks/:taskId/progress", hdl.TaskProgress)

		// Cookie management for gated downloads
		api.GET("/cookie/status", hdl.GetCookieStatus)
		api.POST("/cookie/upload", hdl.UploadCookie)
		api.POST("/cookie/validate", hdl.ValidateCookie)
	}
}
