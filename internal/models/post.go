package models

import (
	"time"

	"github.com/google/uuid"
)

type Post struct {
	ID            uuid.UUID
	Title         string
	Content       string
	AttachmentKey string
	AuthorID      uuid.UUID
	CreatedAt     time.Time
}

type PostUpdate struct {
	Title   *string
	Content *string
}
