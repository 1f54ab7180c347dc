package worker

import (
	"context"
	"errors"
	"time"

	"github.com/wavecast/wavecast/internal/config"
	"github.com/wavecast/wavecast/internal/logger"
	"github.com/wavecast/wavecast/internal/queue"

	"github.com/hibiken/asynq"
)

const (
	verifyTokenSweepInterval = 10 * time.Minute
)

// Service 异步队列服务
type Service struct {
	name     string
	server   *asynq.Server
	mux      *asynq.ServeMux
	consumer *Consumer
}

// NewService 创建异步队列服务
func NewService(cfg *config.QueueConfig, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{
		name:     "worker",
		server:   server,
		mux:      mux,
		consumer: consumer,
	}, nil
}

// Name 服务名称
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start 启动服务
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	if s.consumer != nil && s.consumer.VerifyRepo != nil {
		go s.runVerifyTokenSweepLoop(ctx)
	}
	return s.server.Run(s.mux)
}

// Stop 停止服务
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	_ = ctx
	s.server.Shutdown()
	return nil
}

// runVerifyTokenSweepLoop 周期清理过期的邮箱验证码
// 读取路径已把过期记录视同不存在，这里只做落库数据回收
func (s *Service) runVerifyTokenSweepLoop(ctx context.Context) {
	if s == nil || s.consumer == nil || s.consumer.VerifyRepo == nil {
		return
	}
	ttl := time.Duration(s.consumer.Config.Mail.VerifyCode.TTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = time.Hour
	}
	runOnce := func() {
		removed, err := s.consumer.VerifyRepo.DeleteExpired(ttl)
		if err != nil {
			logger.Warnw("worker_verify_token_sweep_failed", "error", err)
			return
		}
		if removed > 0 {
			logger.Debugw("worker_verify_token_sweep_done", "removed", removed)
		}
	}
	runOnce()

	ticker := time.NewTicker(verifyTokenSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOnce()
		}
	}
}
