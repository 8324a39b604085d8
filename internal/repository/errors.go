package repository

import "errors"

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrTopicNotFound    = errors.New("topic not found")
	ErrReplyNotFound    = errors.New("reply not found")
	ErrSalonNotFound    = errors.New("salon not found")
	ErrBlogPostNotFound = errors.New("blog post not found")
	ErrMaxDepthExceeded = errors.New("Maximum nesting depth of 2 levels exceeded")
)
