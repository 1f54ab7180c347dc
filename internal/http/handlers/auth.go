package handlers

import (
	"strconv"
	"strings"

	"github.com/wavecast/wavecast/internal/constants"
	"github.com/wavecast/wavecast/internal/http/response"
	"github.com/wavecast/wavecast/internal/service"

	"github.com/gin-gonic/gin"
)

// CaptchaPayloadRequest 验证码校验请求字段
type CaptchaPayloadRequest struct {
	CaptchaID   string `json:"captcha_id"`
	CaptchaCode string `json:"captcha_code"`
}

// ToServicePayload 转换为服务层载荷
func (r CaptchaPayloadRequest) ToServicePayload() service.CaptchaPayload {
	return service.CaptchaPayload{
		CaptchaID:   strings.TrimSpace(r.CaptchaID),
		CaptchaCode: strings.TrimSpace(r.CaptchaCode),
	}
}

// SignupRequest 注册请求
type SignupRequest struct {
	Name           string                `json:"name" binding:"required"`
	Email          string                `json:"email" binding:"required"`
	Password       string                `json:"password" binding:"required"`
	CaptchaPayload CaptchaPayloadRequest `json:"captcha_payload"`
}

// Signup 用户注册
func (h *Handler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.UnprocessableEntity(c, "Invalid request!")
		return
	}
	if err := h.CaptchaService.Verify(constants.CaptchaSceneSignup, req.CaptchaPayload.ToServicePayload()); err != nil {
		respondWithMappedError(c, err, commonAuthErrorRules)
		return
	}

	user, err := h.AuthService.Signup(req.Name, req.Email, req.Password)
	if err != nil {
		respondWithMappedError(c, err, commonAuthErrorRules)
		return
	}
	response.Created(c, gin.H{"user": gin.H{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
	}})
}

// VerifyEmailRequest 邮箱验证请求
type VerifyEmailRequest struct {
	UserID uint   `json:"userId" binding:"required"`
	Token  string `json:"token" binding:"required"`
}

// VerifyEmail 校验邮箱验证码
func (h *Handler) VerifyEmail(c *gin.Context) {
	var req VerifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Forbidden(c, "Invalid token!")
		return
	}
	if err := h.AuthService.VerifyEmail(req.UserID, req.Token); err != nil {
		respondWithMappedError(c, err, commonAuthErrorRules)
		return
	}
	response.Message(c, "Your email is verified.")
}

// ResendVerifyEmailRequest 重发验证码请求
type ResendVerifyEmailRequest struct {
	UserID uint `json:"userId" binding:"required"`
}

// ResendVerifyEmail 重发邮箱验证码
func (h *Handler) ResendVerifyEmail(c *gin.Context) {
	var req ResendVerifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Forbidden(c, "Invalid request!")
		return
	}
	if err := h.AuthService.ResendVerification(req.UserID); err != nil {
		respondWithMappedError(c, err, commonAuthErrorRules)
		return
	}
	response.Message(c, "Please check your mail.")
}

// ForgetPasswordRequest 找回密码请求
type ForgetPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

// ForgetPassword 发送密码重置链接
func (h *Handler) ForgetPassword(c *gin.Context) {
	var req ForgetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.UnprocessableEntity(c, "Invalid request!")
		return
	}
	if err := h.AuthService.ForgetPassword(req.Email); err != nil {
		respondWithMappedError(c, err, commonAuthErrorRules)
		return
	}
	response.Message(c, "Check your registered mail.")
}

// ResetTokenRequest 重置令牌请求
type ResetTokenRequest struct {
	UserID uint   `json:"userId" binding:"required"`
	Token  string `json:"token" binding:"required"`
}

// VerifyResetToken 校验重置令牌
func (h *Handler) VerifyResetToken(c *gin.Context) {
	var req ResetTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Forbidden(c, "Invalid token!")
		return
	}
	if err := h.AuthService.VerifyResetToken(req.UserID, req.Token); err != nil {
		respondWithMappedError(c, err, commonAuthErrorRules)
		return
	}
	response.OK(c, gin.H{"valid": true})
}

// ResetPasswordRequest 重置密码请求
type ResetPasswordRequest struct {
	UserID   uint   `json:"userId" binding:"required"`
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ResetPassword 使用重置令牌设置新密码
func (h *Handler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Forbidden(c, "Invalid token!")
		return
	}
	if err := h.AuthService.ResetPassword(req.UserID, req.Token, req.Password); err != nil {
		respondWithMappedError(c, err, commonAuthErrorRules)
		return
	}
	response.Message(c, "Password reset successfully.")
}

// SignInRequest 登录请求
type SignInRequest struct {
	Email          string                `json:"email" binding:"required"`
	Password       string                `json:"password" binding:"required"`
	CaptchaPayload CaptchaPayloadRequest `json:"captcha_payload"`
}

// SignIn 用户登录
func (h *Handler) SignIn(c *gin.Context) {
	var req SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Forbidden(c, "Email/Password mismatch!")
		return
	}
	if err := h.CaptchaService.Verify(constants.CaptchaSceneSignin, req.CaptchaPayload.ToServicePayload()); err != nil {
		respondWithMappedError(c, err, commonAuthErrorRules)
		return
	}

	user, token, err := h.AuthService.SignIn(req.Email, req.Password)
	if err != nil {
		respondWithMappedError(c, err, commonAuthErrorRules)
		return
	}
	profile, err := h.AuthService.Profile(user.ID)
	if err != nil {
		respondWithMappedError(c, err, commonAuthErrorRules)
		return
	}
	response.OK(c, gin.H{
		"profile": profile,
		"token":   token,
	})
}

// Profile 当前用户资料
func (h *Handler) Profile(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized request!")
		return
	}
	profile, err := h.AuthService.Profile(userID)
	if err != nil {
		respondWithMappedError(c, err, commonAuthErrorRules)
		return
	}
	response.OK(c, gin.H{"profile": profile})
}

// UpdateProfile 更新昵称与头像
func (h *Handler) UpdateProfile(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized request!")
		return
	}

	name := c.PostForm("name")
	avatar, err := c.FormFile("avatar")
	if err != nil {
		avatar = nil
	}

	profile, err := h.AuthService.UpdateProfile(userID, name, avatar)
	if err != nil {
		respondWithMappedError(c, err, commonAuthErrorRules)
		return
	}
	response.OK(c, gin.H{"profile": profile})
}

// Logout 退出登录，fromAll=yes 时退出全部设备
func (h *Handler) Logout(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized request!")
		return
	}
	token, _ := getSessionToken(c)
	fromAll := strings.EqualFold(c.Query("fromAll"), "yes")

	if err := h.AuthService.Logout(userID, token, fromAll); err != nil {
		respondWithMappedError(c, err, commonAuthErrorRules)
		return
	}
	response.OK(c, gin.H{"success": true})
}

// ToggleFollow 切换对目标用户的关注
func (h *Handler) ToggleFollow(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized request!")
		return
	}
	targetID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || targetID == 0 {
		response.UnprocessableEntity(c, "Invalid request!")
		return
	}

	following, err := h.AuthService.ToggleFollow(userID, uint(targetID))
	if err != nil {
		respondWithMappedError(c, err, commonAuthErrorRules)
		return
	}
	response.OK(c, gin.H{"following": following})
}
