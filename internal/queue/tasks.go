package queue

import (
	"encoding/json"

	"github.com/numora-app/numora-api/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskVerifyCodeEmail 验证码邮件发送任务
	TaskVerifyCodeEmail = constants.TaskVerifyCodeEmail
)

// VerifyCodeEmailPayload 验证码邮件任务载荷
type VerifyCodeEmailPayload struct {
	Email  string `json:"email"`
	Code   string `json:"code"`
	Step   string `json:"step"`
	Locale string `json:"locale"`
}

// NewVerifyCodeEmailTask 创建验证码邮件任务
func NewVerifyCodeEmailTask(payload VerifyCodeEmailPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskVerifyCodeEmail, body), nil
}
