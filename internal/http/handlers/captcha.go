package handlers

import (
	"errors"

	"github.com/wavecast/wavecast/internal/http/response"
	"github.com/wavecast/wavecast/internal/logger"
	"github.com/wavecast/wavecast/internal/service"

	"github.com/gin-gonic/gin"
)

// GetCaptcha 获取图片验证码挑战
func (h *Handler) GetCaptcha(c *gin.Context) {
	challenge, err := h.CaptchaService.GenerateChallenge()
	if err != nil {
		if errors.Is(err, service.ErrCaptchaDisabled) {
			response.OK(c, gin.H{"enabled": false})
			return
		}
		logger.Errorw("handler_captcha_generate_failed", "error", err)
		response.Internal(c, fallbackErrorMessage)
		return
	}
	response.OK(c, gin.H{
		"enabled":      true,
		"captcha_id":   challenge.CaptchaID,
		"image_base64": challenge.ImageBase64,
	})
}
