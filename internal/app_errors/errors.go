package app_errors

import "errors"

var ErrUserExists = errors.New("user already exists")
var ErrUserNotFound = errors.New("user not found")
var ErrAuthFailed = errors.New("auth failure")
var ErrIncorrectPassword = errors.New("incorrect password")
var ErrInvalidToken = errors.New("invalid token")
var ErrTokenBlacklisted = errors.New("token invalidated")
var ErrPostNotFound = errors.New("post not found")
var ErrNotPostAuthor = errors.New("you are not post author")
var ErrAttachmentNotFound = errors.New("attachment not found")
var ErrNotImage = errors.New("not image")
var ErrFileSize = errors.New("file size error")
