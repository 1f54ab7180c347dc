package repository

import (
	"errors"

	"github.com/wavecast/wavecast/internal/models"

	"gorm.io/gorm"
)

// SessionTokenRepository 会话令牌数据访问接口
type SessionTokenRepository interface {
	Create(token *models.SessionToken) error
	GetByToken(token string) (*models.SessionToken, error)
	DeleteByToken(userID uint, token string) error
	DeleteAllForUser(userID uint) error
	ListForUser(userID uint) ([]models.SessionToken, error)
	CountForUser(userID uint) (int64, error)
}

// GormSessionTokenRepository GORM 实现
type GormSessionTokenRepository struct {
	db *gorm.DB
}

// NewSessionTokenRepository 创建会话令牌仓库
func NewSessionTokenRepository(db *gorm.DB) *GormSessionTokenRepository {
	return &GormSessionTokenRepository{db: db}
}

// Create 记录新会话
func (r *GormSessionTokenRepository) Create(token *models.SessionToken) error {
	return r.db.Create(token).Error
}

// GetByToken 根据令牌查找会话
func (r *GormSessionTokenRepository) GetByToken(token string) (*models.SessionToken, error) {
	var st models.SessionToken
	if err := r.db.Where("token = ?", token).First(&st).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &st, nil
}

// DeleteByToken 删除单个会话
func (r *GormSessionTokenRepository) DeleteByToken(userID uint, token string) error {
	return r.db.Where("user_id = ? AND token = ?", userID, token).
		Delete(&models.SessionToken{}).Error
}

// DeleteAllForUser 删除用户全部会话
func (r *GormSessionTokenRepository) DeleteAllForUser(userID uint) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.SessionToken{}).Error
}

// ListForUser 列出用户全部会话
func (r *GormSessionTokenRepository) ListForUser(userID uint) ([]models.SessionToken, error) {
	var tokens []models.SessionToken
	err := r.db.Where("user_id = ?", userID).Find(&tokens).Error
	return tokens, err
}

// CountForUser 统计用户在线会话数
func (r *GormSessionTokenRepository) CountForUser(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.SessionToken{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
