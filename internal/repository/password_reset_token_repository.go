package repository

import (
	"errors"

	"github.com/wavecast/wavecast/internal/models"

	"gorm.io/gorm"
)

// PasswordResetTokenRepository 密码重置令牌数据访问接口
type PasswordResetTokenRepository interface {
	ReplaceForUser(token *models.PasswordResetToken) error
	GetByUserID(userID uint) (*models.PasswordResetToken, error)
	DeleteByUserID(userID uint) error
}

// GormPasswordResetTokenRepository GORM 实现
type GormPasswordResetTokenRepository struct {
	db *gorm.DB
}

// NewPasswordResetTokenRepository 创建密码重置令牌仓库
func NewPasswordResetTokenRepository(db *gorm.DB) *GormPasswordResetTokenRepository {
	return &GormPasswordResetTokenRepository{db: db}
}

// ReplaceForUser 同一用户最多一条有效令牌
func (r *GormPasswordResetTokenRepository) ReplaceForUser(token *models.PasswordResetToken) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", token.UserID).
			Delete(&models.PasswordResetToken{}).Error; err != nil {
			return err
		}
		return tx.Create(token).Error
	})
}

// GetByUserID 根据用户 ID 获取重置令牌
func (r *GormPasswordResetTokenRepository) GetByUserID(userID uint) (*models.PasswordResetToken, error) {
	var token models.PasswordResetToken
	if err := r.db.Where("user_id = ?", userID).First(&token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &token, nil
}

// DeleteByUserID 删除用户的重置令牌
func (r *GormPasswordResetTokenRepository) DeleteByUserID(userID uint) error {
	return r.db.Where("user_id = ?", userID).
		Delete(&models.PasswordResetToken{}).Error
}
