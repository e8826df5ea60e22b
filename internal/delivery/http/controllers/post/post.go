package post

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"PostBoard/internal/app_errors"
	"PostBoard/internal/delivery/http/controllers/middleware"
	"PostBoard/internal/models"
	"PostBoard/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PostService interface {
	CreatePost(ctx context.Context, authorID uuid.UUID, title, content string) (*models.Post, error)
	Posts(ctx context.Context) ([]models.Post, error)
	PostByID(ctx context.Context, id uuid.UUID) (*models.Post, error)
	SearchPosts(ctx context.Context, query string, limit int) ([]models.Post, error)
	UpdatePost(ctx context.Context, postID, userID uuid.UUID, update models.PostUpdate) (*models.Post, error)
	DeletePost(ctx context.Context, postID, userID uuid.UUID) error
	UploadAttachment(ctx context.Context, postID, userID uuid.UUID, filename string, reader io.Reader, size int64, contentType string) (string, error)
	AttachmentURL(ctx context.Context, postID uuid.UUID) (string, error)
}

type PostHandler struct {
	log     logger.Log
	service PostService
}

func NewPostHandler(log logger.Log, s PostService) *PostHandler {
	return &PostHandler{
		log:     log,
		service: s,
	}
}

type createPostRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
}

type postResponse struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

func toPostResponse(p models.Post) postResponse {
	return postResponse{
		ID:        p.ID.String(),
		AuthorID:  p.AuthorID.String(),
		Title:     p.Title,
		Content:   p.Content,
		CreatedAt: p.CreatedAt,
	}
}

func (h *PostHandler) CreatePost(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	var input createPostRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.service.CreatePost(c.Request.Context(), user.ID, input.Title, input.Content)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		h.log.ErrorErr("error creating post", err)
		return
	}

	c.JSON(http.StatusCreated, toPostResponse(*created))
}

func (h *PostHandler) ListPosts(c *gin.Context) {
	posts, err := h.service.Posts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		h.log.ErrorErr("error listing posts", err)
		return
	}

	resp := make([]postResponse, 0, len(posts))
	for _, p := range posts {
		resp = append(resp, toPostResponse(p))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PostHandler) SearchPosts(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q parameter is required"})
		return
	}
	limit := 20
	if s := c.Query("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = v
	}

	posts, err := h.service.SearchPosts(c.Request.Context(), query, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		h.log.ErrorErr("error searching posts", err)
		return
	}

	resp := make([]postResponse, 0, len(posts))
	for _, p := range posts {
		resp = append(resp, toPostResponse(p))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PostHandler) GetPost(c *gin.Context) {
	postID, err := uuid.Parse(c.Param("post_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post_id"})
		return
	}

	post, err := h.service.PostByID(c.Request.Context(), postID)
	if err != nil {
		if errors.Is(err, app_errors.ErrPostNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, toPostResponse(*post))
}

type updatePostRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

func (h *PostHandler) UpdatePost(c *gin.Context) {
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

	var input updatePostRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.service.UpdatePost(c.Request.Context(), postID, user.ID, models.PostUpdate{
		Title:   input.Title,
		Content: input.Content,
	})
	if err != nil {
		h.respondPostError(c, err, "error updating post")
		return
	}

	c.JSON(http.StatusOK, toPostResponse(*updated))
}

func (h *PostHandler) DeletePost(c *gin.Context) {
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

	if err := h.service.DeletePost(c.Request.Context(), postID, user.ID); err != nil {
		h.respondPostError(c, err, "error deleting post")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "post deleted"})
}

func (h *PostHandler) respondPostError(c *gin.Context, err error, logMsg string) {
	switch {
	case errors.Is(err, app_errors.ErrPostNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, app_errors.ErrNotPostAuthor):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		h.log.ErrorErr(logMsg, err)
	}
}
