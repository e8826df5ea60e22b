package postgres

import (
	"context"
	"errors"
	"fmt"

	"PostBoard/internal/app_errors"
	"PostBoard/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostPostgres struct {
	db *pgxpool.Pool
}

func NewPostPostgres(db *pgxpool.Pool) *PostPostgres {
	return &PostPostgres{db: db}
}

func (r *PostPostgres) CreatePost(ctx context.Context, post models.Post) (*models.Post, error) {
	query := `
		INSERT INTO posts (title, content, author_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	err := r.db.QueryRow(ctx, query, post.Title, post.Content, post.AuthorID).
		Scan(&post.ID, &post.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert post: %w", err)
	}

	return &post, nil
}

func (r *PostPostgres) Posts(ctx context.Context) ([]models.Post, error) {
	query := `
		SELECT id, title, content, attachment_key, author_id, created_at
		FROM posts
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPosts(rows)
}

func (r *PostPostgres) PostByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	query := `
		SELECT id, title, content, attachment_key, author_id, created_at
		FROM posts
		WHERE id = $1
	`
	var post models.Post
	err := r.db.QueryRow(ctx, query, id).
		Scan(&post.ID, &post.Title, &post.Content, &post.AttachmentKey, &post.AuthorID, &post.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

func (r *PostPostgres) PostsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Post, error) {
	idStrs := make([]string, 0, len(ids))
	for _, id := range ids {
		idStrs = append(idStrs, id.String())
	}

	query := `
		SELECT id, title, content, attachment_key, author_id, created_at
		FROM posts
		WHERE id = ANY($1::uuid[])
	`
	rows, err := r.db.Query(ctx, query, idStrs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPosts(rows)
}

func (r *PostPostgres) UpdatePost(ctx context.Context, post models.Post) (*models.Post, error) {
	query := `
		UPDATE posts
		SET title = $2, content = $3
		WHERE id = $1
		RETURNING created_at
	`
	err := r.db.QueryRow(ctx, query, post.ID, post.Title, post.Content).Scan(&post.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

func (r *PostPostgres) DeletePost(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return app_errors.ErrPostNotFound
	}
	return nil
}

func (r *PostPostgres) SetAttachmentKey(ctx context.Context, id uuid.UUID, key string) error {
	tag, err := r.db.Exec(ctx, `UPDATE posts SET attachment_key = $2 WHERE id = $1`, id, key)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return app_errors.ErrPostNotFound
	}
	return nil
}

func scanPosts(rows pgx.Rows) ([]models.Post, error) {
	posts := make([]models.Post, 0)
	for rows.Next() {
		var post models.Post
		if err := rows.Scan(&post.ID, &post.Title, &post.Content, &post.AttachmentKey, &post.AuthorID, &post.CreatedAt); err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return posts, nil
}
