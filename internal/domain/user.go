package domain

import "time"

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

func (r UserRole) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

type User struct {
	ID           int64      `gorm:"column:id;primaryKey" json:"id"`
	Email        string     `gorm:"column:email;size:255;uniqueIndex;not null" json:"email,omitempty"`
	PasswordHash string     `gorm:"column:password_hash;not null" json:"-"`
	Name         string     `gorm:"column:name;size:100;not null" json:"name"`
	Bio          string     `gorm:"column:bio;size:500" json:"bio,omitempty"`
	AvatarKey    string     `gorm:"column:avatar_key" json:"-"`
	AvatarURL    string     `gorm:"-" json:"avatar_url,omitempty"`
	Role         UserRole   `gorm:"column:role;size:20;not null;default:'user'" json:"role"`
	IsBanned     bool       `gorm:"column:is_banned;not null;default:false" json:"is_banned"`
	BannedAt     *time.Time `gorm:"column:banned_at" json:"banned_at,omitempty"`
	BanReason    string     `gorm:"column:ban_reason" json:"ban_reason,omitempty"`
	CreatedAt    time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"column:updated_at" json:"updated_at"`
}

func (User) TableName() string { return "users" }
