package handler

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"trilion/internal/response"
	"trilion/internal/storage"
	"trilion/log"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const cookieFilePath = "cookies.txt"

// CookieStatusResponse contains cookie file status information
type CookieStatusResponse struct {
	Exists           bool   `json:"exists"`
	LastModified     string `json:"lastModified"`
	LastModifiedTs   int64  `json:"lastModifiedTs"`
	CookieCount      int    `json:"cookieCount"`
	EarliestExpiry   string `json:"earliestExpiry"`
	EarliestExpiryTs int64  `json:"earliestExpiryTs"`
	DaysUntilExpiry  int    `json:"daysUntilExpiry"`
	Status           string `json:"status"` // "valid", "expiring_soon", "expired", "not_found"
	StatusMsg        string `json:"statusMsg"`
}

// GetCookieStatus returns the current status of the cookies.txt file used by
// the yt-dlp download strategies.
func (h Handler) GetCookieStatus(c *gin.Context) {
	info, err := os.Stat(cookieFilePath)
	if os.IsNotExist(err) {
		response.Success(c, CookieStatusResponse{
			Exists:    false,
			Status:    "not_found",
			StatusMsg: "Cookie file not found",
		})
		return
	}
	if err != nil {
		response.Error(c, 1000, "Failed to read cookie file status")
		return
	}

	result := CookieStatusResponse{
		Exists:         true,
		LastModified:   info.ModTime().Format("2006-01-02 15:04:05"),
		LastModifiedTs: info.ModTime().Unix(),
	}

	file, err := os.Open(cookieFilePath)
	if err != nil {
		response.Error(c, 1000, "Failed to open cookie file")
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	var earliestExpiry int64
	cookieCount := 0

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) >= 7 {
			cookieCount++
			expiry, err := strconv.ParseInt(fields[4], 10, 64)
			if err != nil || expiry == 0 {
				continue // Skip session cookies (expiry=0)
			}
			if earliestExpiry == 0 || expiry < earliestExpiry {
				earliestExpiry = expiry
			}
		}
	}

	result.CookieCount = cookieCount

	if earliestExpiry > 0 {
		expiryTime := time.Unix(earliestExpiry, 0)
		result.EarliestExpiry = expiryTime.Format("2006-01-02 15:04:05")
		result.EarliestExpiryTs = earliestExpiry
		daysUntil := int(time.Until(expiryTime).Hours() / 24)
		result.DaysUntilExpiry = daysUntil

		if daysUntil < 0 {
			result.Status = "expired"
			result.StatusMsg = fmt.Sprintf("Cookie expired %d days ago", -daysUntil)
		} else if daysUntil < 7 {
			result.Status = "expiring_soon"
			result.StatusMsg = fmt.Sprintf("Cookie expires in %d days", daysUntil)
		} else {
			result.Status = "valid"
			result.StatusMsg = fmt.Sprintf("Cookie valid, expires in %d days", daysUntil)
		}
	} else {
		// All session cookies, check file age
		daysSinceModified := int(time.Since(info.ModTime()).Hours() / 24)
		if daysSinceModified > 30 {
			result.Status = "expiring_soon"
			result.StatusMsg = fmt.Sprintf("Cookie file not updated for %d days", daysSinceModified)
		} else {
			result.Status = "valid"
			result.StatusMsg = "Cookie file exists"
		}
		result.DaysUntilExpiry = -1 // Unknown
	}

	response.Success(c, result)
}

// UploadCookie handles cookie content upload (text paste or file upload)
func (h Handler) UploadCookie(c *gin.Context) {
	var cookieContent string

	// Try to get from multipart file first
	file, _, err := c.Request.FormFile("file")
	if err == nil {
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			response.Error(c, 1001, "Failed to read uploaded file")
			return
		}
		cookieContent = string(data)
	} else {
		type UploadRequest struct {
			Content string `json:"content" form:"content"`
		}
		var req UploadRequest
		if err := c.ShouldBind(&req); err != nil || req.Content == "" {
			response.Error(c, 1001, "Please provide cookie content")
			return
		}
		cookieContent = req.Content
	}

	// Basic validation: check Netscape format
	validCookieLines := 0
	for _, line := range strings.Split(cookieContent, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if len(strings.Split(line, "\t")) >= 7 {
			validCookieLines++
		}
	}

	if validCookieLines == 0 {
		response.Error(c, 1001, "Invalid cookie format, please use Netscape format")
		return
	}

	if err := os.WriteFile(cookieFilePath, []byte(cookieContent), 0o644); err != nil {
		log.GetLogger().Error("failed to write cookie file", zap.Error(err))
		response.Error(c, 1502, "Failed to write cookie file")
		return
	}

	log.GetLogger().Info("cookie file updated", zap.Int("validCookies", validCookieLines))
	response.Success(c, gin.H{
		"cookieCount": validCookieLines,
		"message":     fmt.Sprintf("Successfully saved %d cookies", validCookieLines),
	})
}

// ValidateCookie tests if the current cookies work with yt-dlp
func (h Handler) ValidateCookie(c *gin.Context) {
	if _, err := os.Stat(cookieFilePath); os.IsNotExist(err) {
		response.Error(c, 1104, "Cookie file not found")
		return
	}

	// Probe a known public video with the stored cookies.
	cmd := exec.Command(storage.YtdlpPath, "--cookies", cookieFilePath,
		"--dump-json", "--no-download",
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ")
	output, err := cmd.CombinedOutput()
	outputStr := string(output)

	if err != nil {
		if strings.Contains(outputStr, "Sign in to confirm") || strings.Contains(outputStr, "LOGIN_REQUIRED") {
			response.Error(c, 1104, "Cookie expired or invalid, please re-export")
			return
		}
		response.Error(c, 1104, fmt.Sprintf("Cookie validation failed: %s", truncateString(outputStr, 200)))
		return
	}

	response.Success(c, gin.H{
		"valid":   true,
		"message": "Cookie validation passed",
	})
}

// truncateString truncates a string to maxLen characters
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
