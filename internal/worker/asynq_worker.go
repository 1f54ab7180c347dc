package worker

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/wavecast/wavecast/internal/logger"
	"github.com/wavecast/wavecast/internal/provider"
	"github.com/wavecast/wavecast/internal/queue"
	"github.com/wavecast/wavecast/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskMailDeliver, c.handleMailDeliver)
}

func (c *Consumer) handleMailDeliver(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_mail_deliver_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.MailDeliverPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_mail_deliver_unmarshal_failed", "error", err)
		return err
	}
	if payload.To == "" || payload.Kind == "" {
		logger.Debugw("worker_mail_deliver_skip_invalid_payload", "to", payload.To, "kind", payload.Kind)
		return nil
	}
	if c.MailService == nil {
		logger.Warnw("worker_mail_deliver_skip_mail_service_nil", "to", payload.To)
		return nil
	}
	err := c.MailService.Send(payload.To, service.MailContentInput{
		Kind:     payload.Kind,
		UserName: payload.UserName,
		Code:     payload.Code,
		Link:     payload.Link,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMailServiceDisabled), errors.Is(err, service.ErrMailServiceNotConfigured):
			logger.Debugw("worker_mail_deliver_skip_not_configured", "to", payload.To, "kind", payload.Kind)
			return nil
		case errors.Is(err, service.ErrMailRecipientRejected):
			logger.Warnw("worker_mail_deliver_recipient_rejected", "to", payload.To, "kind", payload.Kind)
			return nil
		default:
			logger.Warnw("worker_mail_deliver_send_failed", "to", payload.To, "kind", payload.Kind, "error", err)
			return err
		}
	}
	return nil
}
