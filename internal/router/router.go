package router

import (
	"fmt"
	"strings"

	"github.com/wavecast/wavecast/internal/cache"
	"github.com/wavecast/wavecast/internal/config"
	"github.com/wavecast/wavecast/internal/http/handlers"
	"github.com/wavecast/wavecast/internal/logger"
	"github.com/wavecast/wavecast/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	handler := handlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "wc"
	}
	redisClient := cache.Client()
	signinRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:signin", redisPrefix),
		WindowSeconds: cfg.Security.SigninRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.SigninRateLimit.MaxAttempts,
		Message:       "Too many sign-in attempts, try again later!",
	}
	mailRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:mail", redisPrefix),
		WindowSeconds: cfg.Security.MailRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.MailRateLimit.MaxAttempts,
		Message:       "Too many requests, try again later!",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// 静态文件服务（上传的媒体）
	r.Static(strings.TrimRight(cfg.Media.PublicBase, "/"), "./"+cfg.Media.Dir)

	sessionAuth := SessionAuthMiddleware(cfg.JWT.SecretKey, c.SessionRepo, c.UserRepo)

	// 认证接口
	auth := r.Group("/auth")
	{
		auth.POST("/signup", handler.Signup)
		auth.POST("/verify", handler.VerifyEmail)
		auth.POST("/resend-verify-email", RateLimitMiddleware(redisClient, mailRule, KeyByIP), handler.ResendVerifyEmail)
		auth.POST("/forget-password", RateLimitMiddleware(redisClient, mailRule, KeyByIPAndJSONField("email")), handler.ForgetPassword)
		auth.POST("/verify-reset-token", handler.VerifyResetToken)
		auth.POST("/reset-password", handler.ResetPassword)
		auth.POST("/signin", RateLimitMiddleware(redisClient, signinRule, KeyByIPAndJSONField("email")), handler.SignIn)
		auth.GET("/captcha", handler.GetCaptcha)

		// 登录态接口
		auth.GET("/profile", sessionAuth, handler.Profile)
		auth.POST("/update-profile", sessionAuth, handler.UpdateProfile)
		auth.POST("/logout", sessionAuth, handler.Logout)
	}

	// 用户资料相关
	profile := r.Group("/profile", sessionAuth)
	{
		profile.POST("/follow/:id", handler.ToggleFollow)
	}

	// 音频接口
	audio := r.Group("/audio")
	{
		audio.GET("", handler.ListAudios)
		audio.GET("/:id", handler.GetAudio)
		audio.POST("/create", sessionAuth, handler.CreateAudio)
		audio.GET("/uploads", sessionAuth, handler.ListMyAudios)
		audio.GET("/favorites", sessionAuth, handler.ListFavorites)
		audio.POST("/:id/like", sessionAuth, handler.ToggleAudioLike)
		audio.POST("/:id/favorite", sessionAuth, handler.ToggleAudioFavorite)
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
