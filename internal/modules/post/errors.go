package post

import "errors"

var (
	ErrPostNotFound = errors.New("post not found")
	ErrForbidden    = errors.New("not allowed to modify this post")
	ErrEmptyPost    = errors.New("post has neither content nor file")
)
