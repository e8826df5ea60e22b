package service

import (
	"PostBoard/internal/service/auth"
	"PostBoard/internal/service/post"
)

type Collection struct {
	AuthService *auth.AuthService
	PostService *post.PostService
}
