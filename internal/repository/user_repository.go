package repository

import (
	"errors"

	"github.com/wavecast/wavecast/internal/models"

	"gorm.io/gorm"
)

// UserRepository 用户数据访问接口
type UserRepository interface {
	GetByEmail(email string) (*models.User, error)
	GetByID(id uint) (*models.User, error)
	Create(user *models.User) error
	Update(user *models.User) error
	MarkVerified(id uint) error
	CountFollowers(id uint) (int64, error)
	CountFollowing(id uint) (int64, error)
	ToggleFollow(followerID, followeeID uint) (bool, error)
}

// GormUserRepository GORM 实现
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓库
func NewUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// GetByEmail 根据邮箱获取用户
func (r *GormUserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetByID 根据 ID 获取用户
func (r *GormUserRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// Create 创建用户
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// Update 更新用户
func (r *GormUserRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// MarkVerified 标记邮箱已验证
func (r *GormUserRepository) MarkVerified(id uint) error {
	return r.db.Model(&models.User{}).
		Where("id = ?", id).
		Update("verified", true).Error
}

// CountFollowers 统计粉丝数
func (r *GormUserRepository) CountFollowers(id uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.UserFollow{}).Where("followee_id = ?", id).Count(&count).Error
	return count, err
}

// CountFollowing 统计关注数
func (r *GormUserRepository) CountFollowing(id uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.UserFollow{}).Where("follower_id = ?", id).Count(&count).Error
	return count, err
}

// ToggleFollow 切换关注关系，返回切换后的状态
func (r *GormUserRepository) ToggleFollow(followerID, followeeID uint) (bool, error) {
	var existing models.UserFollow
	err := r.db.Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		First(&existing).Error
	if err == nil {
		if err := r.db.Delete(&existing).Error; err != nil {
			return false, err
		}
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}
	follow := models.UserFollow{FollowerID: followerID, FolloweeID: followeeID}
	if err := r.db.Create(&follow).Error; err != nil {
		return false, err
	}
	return true, nil
}
