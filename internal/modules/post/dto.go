package post

import "socialapp/internal/domain"

type CreatePostRequest struct {
	Content string `json:"content" binding:"max=5000"`
	FileID  *int64 `json:"file_id" binding:"omitempty,gt=0"`
}

type UpdatePostRequest struct {
	Content string `json:"content" binding:"required,max=5000"`
}

type ListResult struct {
	Posts []domain.Post `json:"posts"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}
