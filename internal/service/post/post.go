package post

import (
	"context"
	"io"

	"PostBoard/internal/app_errors"
	"PostBoard/internal/models"
	"PostBoard/pkg/logger"

	"github.com/google/uuid"
)

type PostRepo interface {
	CreatePost(ctx context.Context, post models.Post) (*models.Post, error)
	Posts(ctx context.Context) ([]models.Post, error)
	PostByID(ctx context.Context, id uuid.UUID) (*models.Post, error)
	PostsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Post, error)
	UpdatePost(ctx context.Context, post models.Post) (*models.Post, error)
	DeletePost(ctx context.Context, id uuid.UUID) error
	SetAttachmentKey(ctx context.Context, id uuid.UUID, key string) error
}

type searchRepo interface {
	Index(ctx context.Context, post models.Post) error
	Update(ctx context.Context, post models.Post) error
	Delete(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, query string, limit int) ([]uuid.UUID, error)
}

type attachmentStore interface {
	Upload(ctx context.Context, postID uuid.UUID, filename string, reader io.Reader, size int64, contentType string) (string, error)
	URL(ctx context.Context, objectKey string) (string, error)
	Delete(ctx context.Context, objectKey string) error
}

type PostService struct {
	log         logger.Log
	postRepo    PostRepo
	search      searchRepo
	attachments attachmentStore
}

func NewPostService(l logger.Log, postRepo PostRepo, search searchRepo, attachments attachmentStore) *PostService {
	return &PostService{
		log:         l,
		postRepo:    postRepo,
		search:      search,
		attachments: attachments,
	}
}

func (s *PostService) CreatePost(ctx context.Context, authorID uuid.UUID, title, content string) (*models.Post, error) {
	created, err := s.postRepo.CreatePost(ctx, models.Post{
		Title:    title,
		Content:  content,
		AuthorID: authorID,
	})
	if err != nil {
		return nil, err
	}

	// The search index lags behind the row store on failure; the post
	// itself is already committed.
	if err := s.search.Index(ctx, *created); err != nil {
		s.log.ErrorErr("failed to index post", err, "post_id", created.ID)
	}

	return created, nil
}

func (s *PostService) Posts(ctx context.Context) ([]models.Post, error) {
	return s.postRepo.Posts(ctx)
}

func (s *PostService) PostByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	return s.postRepo.PostByID(ctx, id)
}

// SearchPosts resolves index hits back through the row store, keeping
// the relevance order the index returned.
func (s *PostService) SearchPosts(ctx context.Context, query string, limit int) ([]models.Post, error) {
	ids, err := s.search.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []models.Post{}, nil
	}

	posts, err := s.postRepo.PostsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]models.Post, len(posts))
	for _, p := range posts {
		byID[p.ID] = p
	}
	ordered := make([]models.Post, 0, len(posts))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
		}
	}
	return ordered, nil
}

// UpdatePost applies a partial update. Only the author may modify a
// post; anyone else gets ErrNotPostAuthor regardless of the change.
func (s *PostService) UpdatePost(ctx context.Context, postID, userID uuid.UUID, update models.PostUpdate) (*models.Post, error) {
	post, err := s.postRepo.PostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != userID {
		return nil, app_errors.ErrNotPostAuthor
	}

	if update.Title != nil {
		post.Title = *update.Title
	}
	if update.Content != nil {
		post.Content = *update.Content
	}

	updated, err := s.postRepo.UpdatePost(ctx, *post)
	if err != nil {
		return nil, err
	}

	if err := s.search.Update(ctx, *updated); err != nil {
		s.log.ErrorErr("failed to update post index", err, "post_id", updated.ID)
	}

	return updated, nil
}

func (s *PostService) DeletePost(ctx context.Context, postID, userID uuid.UUID) error {
	post, err := s.postRepo.PostByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.AuthorID != userID {
		return app_errors.ErrNotPostAuthor
	}

	if err := s.postRepo.DeletePost(ctx, postID); err != nil {
		return err
	}

	if err := s.search.Delete(ctx, postID); err != nil {
		s.log.ErrorErr("failed to delete post from index", err, "post_id", postID)
	}
	if post.AttachmentKey != "" {
		if err := s.attachments.Delete(ctx, post.AttachmentKey); err != nil {
			s.log.ErrorErr("failed to delete post attachment", err, "post_id", postID)
		}
	}

	return nil
}

func (s *PostService) UploadAttachment(
	ctx context.Context,
	postID, userID uuid.UUID,
	filename string,
	reader io.Reader,
	size int64,
	contentType string,
) (string, error) {
	post, err := s.postRepo.PostByID(ctx, postID)
	if err != nil {
		return "", err
	}
	if post.AuthorID != userID {
		return "", app_errors.ErrNotPostAuthor
	}

	objectKey, err := s.attachments.Upload(ctx, postID, filename, reader, size, contentType)
	if err != nil {
		return "", err
	}

	if err := s.postRepo.SetAttachmentKey(ctx, postID, objectKey); err != nil {
		return "", err
	}
	return objectKey, nil
}

func (s *PostService) AttachmentURL(ctx context.Context, postID uuid.UUID) (string, error) {
	post, err := s.postRepo.PostByID(ctx, postID)
	if err != nil {
		return "", err
	}
	if post.AttachmentKey == "" {
		return "", app_errors.ErrAttachmentNotFound
	}
	return s.attachments.URL(ctx, post.AttachmentKey)
}
