package admin

import "errors"

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrCannotBanSelf = errors.New("admins cannot ban themselves")
	ErrInvalidRole   = errors.New("invalid role")
)
