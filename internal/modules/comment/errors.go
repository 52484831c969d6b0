package comment

import "errors"

var (
	ErrCommentNotFound = errors.New("comment not found")
	ErrPostNotFound    = errors.New("post not found")
	ErrForbidden       = errors.New("not allowed to delete this comment")
	ErrEmptyComment    = errors.New("comment is empty")
)
