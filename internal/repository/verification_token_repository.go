package repository

import (
	"errors"
	"time"

	"github.com/wavecast/wavecast/internal/models"

	"gorm.io/gorm"
)

// VerificationTokenRepository 邮箱验证码数据访问接口
type VerificationTokenRepository interface {
	ReplaceForUser(token *models.EmailVerificationToken) error
	GetLiveByUserID(userID uint, ttl time.Duration) (*models.EmailVerificationToken, error)
	DeleteByUserID(userID uint) error
	DeleteExpired(ttl time.Duration) (int64, error)
}

// GormVerificationTokenRepository GORM 实现
type GormVerificationTokenRepository struct {
	db *gorm.DB
}

// NewVerificationTokenRepository 创建验证码仓库
func NewVerificationTokenRepository(db *gorm.DB) *GormVerificationTokenRepository {
	return &GormVerificationTokenRepository{db: db}
}

// ReplaceForUser 重发时先删旧码再写新码，同一用户最多一条
func (r *GormVerificationTokenRepository) ReplaceForUser(token *models.EmailVerificationToken) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", token.UserID).
			Delete(&models.EmailVerificationToken{}).Error; err != nil {
			return err
		}
		return tx.Create(token).Error
	})
}

// GetLiveByUserID 获取未过期的验证码，过期记录视同不存在并顺手删除
func (r *GormVerificationTokenRepository) GetLiveByUserID(userID uint, ttl time.Duration) (*models.EmailVerificationToken, error) {
	var token models.EmailVerificationToken
	if err := r.db.Where("user_id = ?", userID).First(&token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if time.Since(token.CreatedAt) > ttl {
		if err := r.db.Delete(&token).Error; err != nil {
			return nil, err
		}
		return nil, nil
	}
	return &token, nil
}

// DeleteByUserID 删除用户的验证码
func (r *GormVerificationTokenRepository) DeleteByUserID(userID uint) error {
	return r.db.Where("user_id = ?", userID).
		Delete(&models.EmailVerificationToken{}).Error
}

// DeleteExpired 清理过期验证码，返回清理条数
func (r *GormVerificationTokenRepository) DeleteExpired(ttl time.Duration) (int64, error) {
	cutoff := time.Now().Add(-ttl)
	result := r.db.Where("created_at < ?", cutoff).
		Delete(&models.EmailVerificationToken{})
	return result.RowsAffected, result.Error
}
