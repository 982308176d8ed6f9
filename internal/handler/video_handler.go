package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/streetpulse/streetpulse-backend/internal/auth"
	"github.com/streetpulse/streetpulse-backend/internal/service"
	"github.com/streetpulse/streetpulse-backend/pkg/response"
)

const maxUploadBytes = 64 << 20 // 64MB clip ceiling

// VideoHandler handles video upload and feed requests.
type VideoHandler struct {
	uploads *service.UploadService
	feed    *service.FeedService
	signer  *auth.Signer
}

func NewVideoHandler(uploads *service.UploadService, feed *service.FeedService, signer *auth.Signer) *VideoHandler {
	return &VideoHandler{uploads: uploads, feed: feed, signer: signer}
}

// Upload handles POST /api/v1/videos (multipart/form-data: "file", "duration")
func (h *VideoHandler) Upload(c *gin.Context) {
	sessionID := sessionFromAuth(c, h.signer)
	if sessionID == "" {
		response.Unauthorized(c, "Missing or invalid session token")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "Missing video file")
		return
	}
	if fileHeader.Size > maxUploadBytes {
		response.BadRequest(c, "Video too large")
		return
	}

	duration, err := strconv.ParseFloat(c.PostForm("duration"), 64)
	if err != nil || duration <= 0 {
		response.BadRequest(c, "Invalid duration")
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		response.InternalError(c, "Cannot open upload")
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		response.InternalError(c, "Cannot read upload")
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	video, err := h.uploads.HandleUpload(c.Request.Context(), sessionID, fileHeader.Filename, contentType, duration, data)
	if err != nil {
		if errors.Is(err, service.ErrNoSession) {
			response.NotFound(c, "Session not found")
			return
		}
		response.InternalError(c, "Upload failed")
		return
	}

	response.Created(c, video)
}

// Feed handles GET /api/v1/videos (optional ?zone=)
func (h *VideoHandler) Feed(c *gin.Context) {
	items := h.feed.ActiveVideos(c.Request.Context(), c.Query("zone"))
	response.Success(c, gin.H{
		"data":  items,
		"count": len(items),
	})
}
