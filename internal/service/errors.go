package service

import "errors"

// 服务层错误定义，处理器根据 errors.Is 映射为响应
var (
	ErrInvalidEmail             = errors.New("invalid email")
	ErrEmailExists              = errors.New("email already in use")
	ErrNotFound                 = errors.New("account not found")
	ErrInvalidCredentials       = errors.New("email/password mismatch")
	ErrInvalidToken             = errors.New("invalid token")
	ErrInvalidRequest           = errors.New("invalid request")
	ErrInvalidName              = errors.New("invalid name")
	ErrWeakPassword             = errors.New("password too weak")
	ErrSamePassword             = errors.New("new password must be different")
	ErrUnauthorized             = errors.New("unauthorized request")
	ErrMailServiceNotConfigured = errors.New("mail service not configured")
	ErrMailServiceDisabled      = errors.New("mail service disabled")
	ErrMailRecipientRejected    = errors.New("mail recipient rejected")
	ErrCaptchaRequired          = errors.New("captcha required")
	ErrCaptchaInvalid           = errors.New("captcha invalid")
	ErrCaptchaDisabled          = errors.New("captcha disabled")
	ErrFileTooLarge             = errors.New("file too large")
	ErrFileTypeNotAllowed       = errors.New("file type not allowed")
	ErrFileRequired             = errors.New("file required")
	ErrAudioNotFound            = errors.New("audio not found")
	ErrInvalidCategory          = errors.New("invalid category")
)
