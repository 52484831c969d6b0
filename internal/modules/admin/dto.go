package admin

import "socialapp/internal/domain"

type BanRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

type SetRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=user admin"`
}

type UserList struct {
	Users []domain.User `json:"users"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}

type FileStats struct {
	Unattached int64 `json:"unattached"`
}
