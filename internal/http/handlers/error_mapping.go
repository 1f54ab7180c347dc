package handlers

import (
	"errors"
	"net/http"

	"github.com/wavecast/wavecast/internal/http/response"
	"github.com/wavecast/wavecast/internal/logger"
	"github.com/wavecast/wavecast/internal/service"

	"github.com/gin-gonic/gin"
)

const fallbackErrorMessage = "Something went wrong!"

// mappedHandlerError 定义业务错误到接口错误响应的映射关系
type mappedHandlerError struct {
	target error
	status int
	msg    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			response.Error(c, rule.status, rule.msg)
			return
		}
	}
	logger.Errorw("handler_unmapped_error", "path", c.FullPath(), "error", err)
	response.Internal(c, fallbackErrorMessage)
}

var commonAuthErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidEmail, status: http.StatusUnprocessableEntity, msg: "Invalid email!"},
	{target: service.ErrInvalidName, status: http.StatusUnprocessableEntity, msg: "Invalid name!"},
	{target: service.ErrWeakPassword, status: http.StatusUnprocessableEntity, msg: "Password is too weak!"},
	{target: service.ErrEmailExists, status: http.StatusConflict, msg: "This email is already in use!"},
	{target: service.ErrInvalidToken, status: http.StatusForbidden, msg: "Invalid token!"},
	{target: service.ErrInvalidRequest, status: http.StatusForbidden, msg: "Invalid request!"},
	{target: service.ErrNotFound, status: http.StatusNotFound, msg: "Account not found!"},
	{target: service.ErrInvalidCredentials, status: http.StatusForbidden, msg: "Email/Password mismatch!"},
	{target: service.ErrSamePassword, status: http.StatusForbidden, msg: "The new password must be different!"},
	{target: service.ErrUnauthorized, status: http.StatusUnauthorized, msg: "Unauthorized request!"},
	{target: service.ErrCaptchaRequired, status: http.StatusUnprocessableEntity, msg: "Captcha is required!"},
	{target: service.ErrCaptchaInvalid, status: http.StatusUnprocessableEntity, msg: "Captcha did not match!"},
}

var audioErrorRules = []mappedHandlerError{
	{target: service.ErrAudioNotFound, status: http.StatusNotFound, msg: "Audio not found!"},
	{target: service.ErrInvalidCategory, status: http.StatusUnprocessableEntity, msg: "Invalid category!"},
	{target: service.ErrFileRequired, status: http.StatusUnprocessableEntity, msg: "Audio file is missing!"},
	{target: service.ErrFileTooLarge, status: http.StatusUnprocessableEntity, msg: "File is too large!"},
	{target: service.ErrFileTypeNotAllowed, status: http.StatusUnprocessableEntity, msg: "Invalid file type!"},
	{target: service.ErrInvalidRequest, status: http.StatusUnprocessableEntity, msg: "Invalid request!"},
	{target: service.ErrNotFound, status: http.StatusNotFound, msg: "Account not found!"},
}
