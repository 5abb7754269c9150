package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"wavemedia/internal/services"
)

type MediaHandler struct {
	media services.MediaService
}

func NewMediaHandler(media services.MediaService) *MediaHandler {
	return &MediaHandler{media: media}
}

var allowedUploadFolders = map[string]struct{}{
	"news": {}, "podcasts": {}, "episodes": {}, "products": {}, "uploads": {},
}

// Upload pushes a multipart file to object storage and returns its URL.
func (h *MediaHandler) Upload(c *gin.Context) {
	if h.media == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "media storage not configured"})
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	folder := c.DefaultPostForm("folder", "uploads")
	if _, ok := allowedUploadFolders[folder]; !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown folder"})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read file"})
		return
	}
	defer f.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	url, err := h.media.Upload(c.Request.Context(), folder, fileHeader.Filename, contentType, f)
	if err != nil {
		log.Errorf("[media][upload] %s: %v", fileHeader.Filename, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Upload failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}
