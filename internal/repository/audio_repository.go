package repository

import (
	"errors"

	"github.com/wavecast/wavecast/internal/models"

	"gorm.io/gorm"
)

// AudioRepository 音频数据访问接口
type AudioRepository interface {
	Create(audio *models.Audio) error
	GetByID(id uint) (*models.Audio, error)
	Update(audio *models.Audio) error
	ListRecent(limit, offset int) ([]models.Audio, error)
	ListByOwner(ownerID uint) ([]models.Audio, error)
	ToggleLike(audioID, userID uint) (bool, error)
	CountLikes(audioID uint) (int64, error)
	ToggleFavorite(userID, audioID uint) (bool, error)
	ListFavorites(userID uint) ([]models.Audio, error)
}

// GormAudioRepository GORM 实现
type GormAudioRepository struct {
	db *gorm.DB
}

// NewAudioRepository 创建音频仓库
func NewAudioRepository(db *gorm.DB) *GormAudioRepository {
	return &GormAudioRepository{db: db}
}

// Create 创建音频
func (r *GormAudioRepository) Create(audio *models.Audio) error {
	return r.db.Create(audio).Error
}

// GetByID 根据 ID 获取音频
func (r *GormAudioRepository) GetByID(id uint) (*models.Audio, error) {
	var audio models.Audio
	if err := r.db.First(&audio, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &audio, nil
}

// Update 更新音频
func (r *GormAudioRepository) Update(audio *models.Audio) error {
	return r.db.Save(audio).Error
}

// ListRecent 按创建时间倒序分页
func (r *GormAudioRepository) ListRecent(limit, offset int) ([]models.Audio, error) {
	var audios []models.Audio
	err := r.db.Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&audios).Error
	return audios, err
}

// ListByOwner 列出用户上传的音频
func (r *GormAudioRepository) ListByOwner(ownerID uint) ([]models.Audio, error) {
	var audios []models.Audio
	err := r.db.Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&audios).Error
	return audios, err
}

// ToggleLike 切换点赞状态，返回切换后的状态
func (r *GormAudioRepository) ToggleLike(audioID, userID uint) (bool, error) {
	var existing models.AudioLike
	err := r.db.Where("audio_id = ? AND user_id = ?", audioID, userID).
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
	like := models.AudioLike{AudioID: audioID, UserID: userID}
	if err := r.db.Create(&like).Error; err != nil {
		return false, err
	}
	return true, nil
}

// CountLikes 统计点赞数
func (r *GormAudioRepository) CountLikes(audioID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.AudioLike{}).Where("audio_id = ?", audioID).Count(&count).Error
	return count, err
}

// ToggleFavorite 切换收藏状态，返回切换后的状态
func (r *GormAudioRepository) ToggleFavorite(userID, audioID uint) (bool, error) {
	var existing models.UserFavorite
	err := r.db.Where("user_id = ? AND audio_id = ?", userID, audioID).
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
	fav := models.UserFavorite{UserID: userID, AudioID: audioID}
	if err := r.db.Create(&fav).Error; err != nil {
		return false, err
	}
	return true, nil
}

// ListFavorites 列出用户收藏的音频
func (r *GormAudioRepository) ListFavorites(userID uint) ([]models.Audio, error) {
	var audios []models.Audio
	err := r.db.
		Joins("JOIN user_favorites ON user_favorites.audio_id = audios.id").
		Where("user_favorites.user_id = ?", userID).
		Order("user_favorites.created_at DESC").
		Find(&audios).Error
	return audios, err
}
