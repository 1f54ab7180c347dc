package service

import (
	"mime/multipart"
	"strings"

	"github.com/wavecast/wavecast/internal/constants"
	"github.com/wavecast/wavecast/internal/models"
	"github.com/wavecast/wavecast/internal/repository"
)

// AudioService 音频内容服务
type AudioService struct {
	audioRepo    repository.AudioRepository
	userRepo     repository.UserRepository
	mediaService *MediaService
}

// NewAudioService 创建音频服务
func NewAudioService(audioRepo repository.AudioRepository, userRepo repository.UserRepository, mediaService *MediaService) *AudioService {
	return &AudioService{
		audioRepo:    audioRepo,
		userRepo:     userRepo,
		mediaService: mediaService,
	}
}

// CreateAudioInput 创建音频输入
type CreateAudioInput struct {
	Title    string
	About    string
	Category string
	File     *multipart.FileHeader
	Poster   *multipart.FileHeader
}

// AudioView 对外返回的音频信息
type AudioView struct {
	ID       uint   `json:"id"`
	Title    string `json:"title"`
	About    string `json:"about"`
	Category string `json:"category"`
	File     string `json:"file"`
	Poster   string `json:"poster,omitempty"`
	Owner    uint   `json:"owner"`
	Likes    int64  `json:"likes"`
}

// Create 上传并登记音频
func (s *AudioService) Create(ownerID uint, input CreateAudioInput) (*AudioView, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrInvalidRequest
	}
	about := strings.TrimSpace(input.About)
	if about == "" {
		return nil, ErrInvalidRequest
	}
	if input.File == nil {
		return nil, ErrFileRequired
	}
	category := strings.TrimSpace(input.Category)
	if category == "" {
		category = constants.AudioCategoryOthers
	}
	if !constants.IsAudioCategory(category) {
		return nil, ErrInvalidCategory
	}

	fileObj, err := s.mediaService.Upload(input.File, constants.MediaSceneAudio)
	if err != nil {
		return nil, err
	}

	audio := &models.Audio{
		Title:        title,
		About:        about,
		Category:     category,
		OwnerID:      ownerID,
		FileURL:      fileObj.URL,
		FilePublicID: fileObj.PublicID,
	}

	if input.Poster != nil {
		posterObj, err := s.mediaService.Upload(input.Poster, constants.MediaScenePoster)
		if err != nil {
			// 海报失败时回滚已保存的音频文件
			_ = s.mediaService.Delete(fileObj.PublicID)
			return nil, err
		}
		audio.PosterURL = posterObj.URL
		audio.PosterPublicID = posterObj.PublicID
	}

	if err := s.audioRepo.Create(audio); err != nil {
		_ = s.mediaService.Delete(audio.FilePublicID)
		if audio.PosterPublicID != "" {
			_ = s.mediaService.Delete(audio.PosterPublicID)
		}
		return nil, err
	}
	return s.buildView(audio)
}

// Get 获取单个音频
func (s *AudioService) Get(id uint) (*AudioView, error) {
	audio, err := s.audioRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if audio == nil {
		return nil, ErrAudioNotFound
	}
	return s.buildView(audio)
}

// ListRecent 最新音频分页列表
func (s *AudioService) ListRecent(limit, offset int) ([]AudioView, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	audios, err := s.audioRepo.ListRecent(limit, offset)
	if err != nil {
		return nil, err
	}
	return s.buildViews(audios)
}

// ListByOwner 用户上传的音频列表
func (s *AudioService) ListByOwner(ownerID uint) ([]AudioView, error) {
	audios, err := s.audioRepo.ListByOwner(ownerID)
	if err != nil {
		return nil, err
	}
	return s.buildViews(audios)
}

// ToggleLike 切换点赞状态
func (s *AudioService) ToggleLike(audioID, userID uint) (bool, error) {
	audio, err := s.audioRepo.GetByID(audioID)
	if err != nil {
		return false, err
	}
	if audio == nil {
		return false, ErrAudioNotFound
	}
	return s.audioRepo.ToggleLike(audioID, userID)
}

// ToggleFavorite 切换收藏状态
func (s *AudioService) ToggleFavorite(userID, audioID uint) (bool, error) {
	audio, err := s.audioRepo.GetByID(audioID)
	if err != nil {
		return false, err
	}
	if audio == nil {
		return false, ErrAudioNotFound
	}
	return s.audioRepo.ToggleFavorite(userID, audioID)
}

// ListFavorites 用户收藏的音频列表
func (s *AudioService) ListFavorites(userID uint) ([]AudioView, error) {
	audios, err := s.audioRepo.ListFavorites(userID)
	if err != nil {
		return nil, err
	}
	return s.buildViews(audios)
}

func (s *AudioService) buildView(audio *models.Audio) (*AudioView, error) {
	likes, err := s.audioRepo.CountLikes(audio.ID)
	if err != nil {
		return nil, err
	}
	return &AudioView{
		ID:       audio.ID,
		Title:    audio.Title,
		About:    audio.About,
		Category: audio.Category,
		File:     audio.FileURL,
		Poster:   audio.PosterURL,
		Owner:    audio.OwnerID,
		Likes:    likes,
	}, nil
}

func (s *AudioService) buildViews(audios []models.Audio) ([]AudioView, error) {
	views := make([]AudioView, 0, len(audios))
	for i := range audios {
		view, err := s.buildView(&audios[i])
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}
