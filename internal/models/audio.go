package models

import (
	"time"

	"gorm.io/gorm"
)

// Audio 音频表
type Audio struct {
	ID             uint           `gorm:"primarykey" json:"id"`
	Title          string         `gorm:"not null" json:"title"`
	About          string         `gorm:"not null" json:"about"`
	Category       string         `gorm:"index;not null;default:'Others'" json:"category"`
	OwnerID        uint           `gorm:"index;not null" json:"owner_id"`
	FileURL        string         `gorm:"not null" json:"file_url"` // 可播放资源地址
	FilePublicID   string         `gorm:"not null" json:"-"`
	PosterURL      string         `gorm:"default:''" json:"poster_url"` // 封面图，可为空
	PosterPublicID string         `gorm:"default:''" json:"-"`
	CreatedAt      time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName 指定表名
func (Audio) TableName() string {
	return "audios"
}

// AudioLike 点赞关系表
type AudioLike struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	AudioID   uint      `gorm:"index:idx_audio_like,unique;not null" json:"audio_id"`
	UserID    uint      `gorm:"index:idx_audio_like,unique;not null" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName 指定表名
func (AudioLike) TableName() string {
	return "audio_likes"
}
