package handler

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"trilion/internal/dto"
	"trilion/internal/response"
	"trilion/internal/storage"
	"trilion/log"
	apperrors "trilion/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

const clipsListLimit = 200

// ListClips returns previously produced clips, newest first. When the
// database has nothing (or is unavailable) the media directory is scanned so
// clips survive a wiped cache.
func (h Handler) ListClips(c *gin.Context) {
	records, err := storage.ListClips(clipsListLimit)
	if err != nil || len(records) == 0 {
		if err != nil {
			log.GetLogger().Warn("clip listing from db failed, scanning media dir", zap.Error(err))
		}
		scanned := h.scanMediaDir()
		response.Success(c, dto.ClipsListResData{Clips: scanned, Total: len(scanned)})
		return
	}

	clips := recordsToClipItems(records)
	response.Success(c, dto.ClipsListResData{Clips: clips, Total: len(clips)})
}

// ServeClip streams one clip file. gin's File handler honors Range requests,
// which video players rely on for seeking.
func (h Handler) ServeClip(c *gin.Context) {
	requested := c.Param("filepath")
	localPath, ok := h.resolveClipPath(requested)
	if !ok {
		c.JSON(404, response.FromError(apperrors.ErrFileNotFound))
		return
	}
	c.Header("Accept-Ranges", "bytes")
	c.File(localPath)
}

// DownloadClip forces a download of one clip file.
func (h Handler) DownloadClip(c *gin.Context) {
	filename := c.Param("filename")
	localPath, ok := h.resolveClipPath(filename)
	if !ok {
		c.JSON(404, response.FromError(apperrors.ErrFileNotFound))
		return
	}
	c.FileAttachment(localPath, filepath.Base(localPath))
}

func (h Handler) scanMediaDir() []dto.ClipItem {
	var files []os.DirEntry
	var root string
	for _, dir := range h.mediaDirCandidates() {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		files = entries
		root = dir
		break
	}

	clipFiles := lo.Filter(files, func(entry os.DirEntry, _ int) bool {
		name := entry.Name()
		return !entry.IsDir() && strings.HasPrefix(name, "clip_") && strings.HasSuffix(name, ".mp4")
	})
	// Newest first, matching the database ordering.
	sort.Slice(clipFiles, func(i, j int) bool { return clipFiles[i].Name() > clipFiles[j].Name() })

	log.GetLogger().Info("clip listing served from media dir scan",
		zap.String("dir", root), zap.Int("count", len(clipFiles)))

	return lo.Map(clipFiles, func(entry os.DirEntry, i int) dto.ClipItem {
		name := entry.Name()
		return dto.ClipItem{
			Id:       i + 1,
			Filename: name,
			Url:      "/api/clips/" + name,
			Title:    strings.TrimSuffix(name, ".mp4"),
		}
	})
}
