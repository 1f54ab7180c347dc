package service

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/wavecast/wavecast/internal/config"
	"github.com/wavecast/wavecast/internal/constants"

	"github.com/google/uuid"
)

// MediaObject 已保存媒体对象
// PublicID 为存储内部标识，删除时使用
type MediaObject struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
}

// MediaService 媒体存储服务，本地磁盘实现
type MediaService struct {
	cfg *config.MediaConfig
}

// NewMediaService 创建媒体存储服务
func NewMediaService(cfg *config.MediaConfig) *MediaService {
	return &MediaService{cfg: cfg}
}

type mediaProfile struct {
	maxSize      int64
	allowedTypes []string
	allowedExts  []string
}

func (s *MediaService) profileForScene(scene string) mediaProfile {
	switch scene {
	case constants.MediaSceneAudio:
		return mediaProfile{
			maxSize:      s.cfg.AudioMaxSize,
			allowedTypes: s.cfg.AudioAllowedTypes,
			allowedExts:  s.cfg.AudioAllowedExtensions,
		}
	default:
		return mediaProfile{
			maxSize:      s.cfg.ImageMaxSize,
			allowedTypes: s.cfg.ImageAllowedTypes,
			allowedExts:  s.cfg.ImageAllowedExtensions,
		}
	}
}

// Upload 校验并保存上传文件
func (s *MediaService) Upload(file *multipart.FileHeader, scene string) (*MediaObject, error) {
	if file == nil {
		return nil, ErrFileRequired
	}
	scene = normalizeMediaScene(scene)
	profile := s.profileForScene(scene)

	if profile.maxSize > 0 && file.Size > profile.maxSize {
		return nil, ErrFileTooLarge
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if len(profile.allowedExts) > 0 {
		if ext == "" || !isAllowedExtension(ext, profile.allowedExts) {
			return nil, ErrFileTypeNotAllowed
		}
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	// 读取文件头部识别 MIME 类型
	buffer := make([]byte, 512)
	if _, err := src.Read(buffer); err != nil && err != io.EOF {
		return nil, err
	}
	if _, err := src.Seek(0, 0); err != nil {
		return nil, err
	}

	contentType := http.DetectContentType(buffer)
	if len(profile.allowedTypes) > 0 && !isAllowedContentType(contentType, profile.allowedTypes) {
		return nil, ErrFileTypeNotAllowed
	}

	filename := fmt.Sprintf("%s%s", uuid.New().String(), ext)
	now := time.Now()
	year := now.Format("2006")
	month := now.Format("01")
	publicID := filepath.ToSlash(filepath.Join(scene, year, month, filename))
	savePath := filepath.Join(s.rootDir(), scene, year, month, filename)

	if err := os.MkdirAll(filepath.Dir(savePath), 0755); err != nil {
		return nil, err
	}

	dst, err := os.Create(savePath)
	if err != nil {
		return nil, err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return nil, err
	}

	return &MediaObject{
		URL:      s.publicURL(publicID),
		PublicID: publicID,
	}, nil
}

// Delete 删除已保存的媒体对象，对象不存在时静默成功
func (s *MediaService) Delete(publicID string) error {
	cleaned := filepath.Clean(strings.TrimSpace(publicID))
	if cleaned == "" || cleaned == "." || strings.HasPrefix(cleaned, "..") || filepath.IsAbs(cleaned) {
		return ErrInvalidRequest
	}
	err := os.Remove(filepath.Join(s.rootDir(), cleaned))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *MediaService) rootDir() string {
	dir := strings.TrimSpace(s.cfg.Dir)
	if dir == "" {
		return "uploads"
	}
	return dir
}

func (s *MediaService) publicURL(publicID string) string {
	base := strings.TrimRight(strings.TrimSpace(s.cfg.PublicBase), "/")
	if base == "" {
		base = "/uploads"
	}
	return base + "/" + publicID
}

func normalizeMediaScene(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case constants.MediaSceneAudio:
		return constants.MediaSceneAudio
	case constants.MediaScenePoster:
		return constants.MediaScenePoster
	default:
		return constants.MediaSceneAvatar
	}
}

func isAllowedExtension(ext string, allowed []string) bool {
	for _, allowedExt := range allowed {
		normalized := strings.ToLower(strings.TrimSpace(allowedExt))
		if normalized == "" {
			continue
		}
		if !strings.HasPrefix(normalized, ".") {
			normalized = "." + normalized
		}
		if strings.EqualFold(ext, normalized) {
			return true
		}
	}
	return false
}

func isAllowedContentType(contentType string, allowed []string) bool {
	for _, t := range allowed {
		if strings.EqualFold(contentType, t) {
			return true
		}
	}
	return false
}
