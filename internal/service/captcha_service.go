package service

import (
	"strings"
	"sync"
	"time"

	"github.com/wavecast/wavecast/internal/config"
	"github.com/wavecast/wavecast/internal/constants"

	"github.com/mojocn/base64Captcha"
)

// CaptchaChallenge 图片验证码挑战
type CaptchaChallenge struct {
	CaptchaID   string `json:"captcha_id"`
	ImageBase64 string `json:"image_base64"`
}

// CaptchaPayload 验证码校验载荷
type CaptchaPayload struct {
	CaptchaID   string `json:"captcha_id"`
	CaptchaCode string `json:"captcha_code"`
}

// CaptchaService 图片验证码服务
// 按场景开关决定是否需要验证码
type CaptchaService struct {
	cfg config.CaptchaConfig

	mu    sync.Mutex
	store base64Captcha.Store
}

// NewCaptchaService 创建验证码服务
func NewCaptchaService(cfg config.CaptchaConfig) *CaptchaService {
	return &CaptchaService{cfg: cfg}
}

// Enabled 判断验证码是否启用
func (s *CaptchaService) Enabled() bool {
	return s != nil && s.cfg.Enabled
}

// GenerateChallenge 生成图片验证码
func (s *CaptchaService) GenerateChallenge() (*CaptchaChallenge, error) {
	if !s.Enabled() {
		return nil, ErrCaptchaDisabled
	}
	driver := base64Captcha.NewDriverString(
		resolveCaptchaInt(s.cfg.Height, 60),
		resolveCaptchaInt(s.cfg.Width, 200),
		s.cfg.NoiseCount,
		s.cfg.ShowLine,
		resolveCaptchaInt(s.cfg.Length, 5),
		"0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ",
		nil,
		base64Captcha.DefaultEmbeddedFonts,
		nil,
	)
	captcha := base64Captcha.NewCaptcha(driver, s.ensureStore())
	id, b64s, _, err := captcha.Generate()
	if err != nil {
		return nil, err
	}
	return &CaptchaChallenge{
		CaptchaID:   strings.TrimSpace(id),
		ImageBase64: strings.TrimSpace(b64s),
	}, nil
}

// Verify 按场景校验验证码，未启用的场景直接放行
func (s *CaptchaService) Verify(scene string, payload CaptchaPayload) error {
	if !s.sceneEnabled(scene) {
		return nil
	}
	captchaID := strings.TrimSpace(payload.CaptchaID)
	captchaCode := strings.TrimSpace(payload.CaptchaCode)
	if captchaID == "" || captchaCode == "" {
		return ErrCaptchaRequired
	}
	if !s.ensureStore().Verify(captchaID, captchaCode, true) {
		return ErrCaptchaInvalid
	}
	return nil
}

func (s *CaptchaService) sceneEnabled(scene string) bool {
	if !s.Enabled() {
		return false
	}
	switch scene {
	case constants.CaptchaSceneSignup:
		return s.cfg.SceneSignup
	case constants.CaptchaSceneSignin:
		return s.cfg.SceneSignin
	default:
		return false
	}
}

func (s *CaptchaService) ensureStore() base64Captcha.Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.store == nil {
		maxStore := resolveCaptchaInt(s.cfg.MaxStore, 10240)
		expire := time.Duration(resolveCaptchaInt(s.cfg.ExpireSeconds, 300)) * time.Second
		s.store = base64Captcha.NewMemoryStore(maxStore, expire)
	}
	return s.store
}

func resolveCaptchaInt(value, fallback int) int {
	if value <= 0 {
		return fallback
	}
	return value
}
