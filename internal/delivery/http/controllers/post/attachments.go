package post

import (
	"errors"
	"net/http"
	"strings"

	"PostBoard/internal/app_errors"
	"PostBoard/internal/delivery/http/controllers/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const maxAttachmentSize = 10 << 20

func (h *PostHandler) UploadAttachment(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	postID, err := uuid.Parse(c.Param("post_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post_id"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	if fileHeader.Size > maxAttachmentSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": app_errors.ErrFileSize.Error()})
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		c.JSON(http.StatusBadRequest, gin.H{"error": app_errors.ErrNotImage.Error()})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer file.Close()

	objectKey, err := h.service.UploadAttachment(
		c.Request.Context(),
		postID,
		user.ID,
		fileHeader.Filename,
		file,
		fileHeader.Size,
		contentType,
	)
	if err != nil {
		h.respondPostError(c, err, "error uploading attachment")
		return
	}

	c.JSON(http.StatusOK, gin.H{"attachment_key": objectKey})
}

func (h *PostHandler) GetAttachmentURL(c *gin.Context) {
	postID, err := uuid.Parse(c.Param("post_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post_id"})
		return
	}

	url, err := h.service.AttachmentURL(c.Request.Context(), postID)
	if err != nil {
		if errors.Is(err, app_errors.ErrPostNotFound) || errors.Is(err, app_errors.ErrAttachmentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		h.log.ErrorErr("error presigning attachment", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}
