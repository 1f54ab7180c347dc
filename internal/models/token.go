package models

import "time"

// EmailVerificationToken 邮箱验证码记录
// 每个用户同一时间至多一条；重发时旧记录被替换
type EmailVerificationToken struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	TokenHash string    `gorm:"not null" json:"-"` // 验证码哈希（明文只出现在邮件里）
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// TableName 指定表名
func (EmailVerificationToken) TableName() string {
	return "email_verification_tokens"
}

// PasswordResetToken 密码重置令牌记录
// 单次有效，重置成功后立即删除
type PasswordResetToken struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	Token     string    `gorm:"index;not null" json:"-"` // 高熵不透明令牌
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// TableName 指定表名
func (PasswordResetToken) TableName() string {
	return "password_reset_tokens"
}
