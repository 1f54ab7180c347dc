package queue

import (
	"encoding/json"

	"github.com/wavecast/wavecast/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskMailDeliver 邮件投递任务
	TaskMailDeliver = constants.TaskMailDeliver
)

// MailDeliverPayload 邮件投递任务载荷
type MailDeliverPayload struct {
	To       string `json:"to"`
	Kind     string `json:"kind"`
	UserName string `json:"user_name"`
	Code     string `json:"code,omitempty"`
	Link     string `json:"link,omitempty"`
}

// NewMailDeliverTask 创建邮件投递任务
func NewMailDeliverTask(payload MailDeliverPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskMailDeliver, body), nil
}
