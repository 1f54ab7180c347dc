package provider

import (
	"github.com/wavecast/wavecast/internal/cache"
	"github.com/wavecast/wavecast/internal/config"
	"github.com/wavecast/wavecast/internal/logger"
	"github.com/wavecast/wavecast/internal/models"
	"github.com/wavecast/wavecast/internal/queue"
	"github.com/wavecast/wavecast/internal/repository"
	"github.com/wavecast/wavecast/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	UserRepo    repository.UserRepository
	SessionRepo repository.SessionTokenRepository
	VerifyRepo  repository.VerificationTokenRepository
	ResetRepo   repository.PasswordResetTokenRepository
	AudioRepo   repository.AudioRepository

	// Services
	AuthService    *service.AuthService
	AudioService   *service.AudioService
	MailService    *service.MailService
	MediaService   *service.MediaService
	CaptchaService *service.CaptchaService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	c.initRepositories()
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.SessionRepo = repository.NewSessionTokenRepository(db)
	c.VerifyRepo = repository.NewVerificationTokenRepository(db)
	c.ResetRepo = repository.NewPasswordResetTokenRepository(db)
	c.AudioRepo = repository.NewAudioRepository(db)
}

func (c *Container) initServices() {
	c.MailService = service.NewMailService(&c.Config.Mail)
	c.MediaService = service.NewMediaService(&c.Config.Media)
	c.CaptchaService = service.NewCaptchaService(c.Config.Captcha)
	c.AuthService = service.NewAuthService(
		c.Config,
		c.UserRepo,
		c.SessionRepo,
		c.VerifyRepo,
		c.ResetRepo,
		c.QueueClient,
		c.MailService,
		c.MediaService,
	)
	c.AudioService = service.NewAudioService(c.AudioRepo, c.UserRepo, c.MediaService)
}
