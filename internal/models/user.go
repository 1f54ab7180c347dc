package models

import (
	"time"

	"gorm.io/gorm"
)

// User 用户表
type User struct {
	ID             uint           `gorm:"primarykey" json:"id"`              // 主键
	Name           string         `gorm:"not null" json:"name"`              // 显示名
	Email          string         `gorm:"uniqueIndex;not null" json:"email"` // 邮箱
	PasswordHash   string         `gorm:"not null" json:"-"`                 // 密码哈希（不返回给前端）
	Verified       bool           `gorm:"not null;default:false" json:"verified"`
	AvatarURL      string         `gorm:"default:''" json:"avatar_url"` // 头像访问地址
	AvatarPublicID string         `gorm:"default:''" json:"-"`          // 头像媒体标识（用于删除）
	CreatedAt      time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"index" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}

// SessionToken 会话令牌表
// 每次登录插入一行，登出删除对应行；一个用户可同时持有多台设备的令牌
type SessionToken struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Token     string    `gorm:"uniqueIndex;not null" json:"-"` // 签发的会话令牌原文
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// TableName 指定表名
func (SessionToken) TableName() string {
	return "session_tokens"
}

// UserFollow 关注关系表
type UserFollow struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	FollowerID uint      `gorm:"index:idx_user_follow,unique;not null" json:"follower_id"` // 关注者
	FolloweeID uint      `gorm:"index:idx_user_follow,unique;not null" json:"followee_id"` // 被关注者
	CreatedAt  time.Time `json:"created_at"`
}

// TableName 指定表名
func (UserFollow) TableName() string {
	return "user_follows"
}

// UserFavorite 收藏关系表
type UserFavorite struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"index:idx_user_favorite,unique;not null" json:"user_id"`
	AudioID   uint      `gorm:"index:idx_user_favorite,unique;not null" json:"audio_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName 指定表名
func (UserFavorite) TableName() string {
	return "user_favorites"
}
