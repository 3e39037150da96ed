package worker

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/numora-app/numora-api/internal/logger"
	"github.com/numora-app/numora-api/internal/provider"
	"github.com/numora-app/numora-api/internal/queue"
	"github.com/numora-app/numora-api/internal/service"

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
	mux.HandleFunc(queue.TaskVerifyCodeEmail, c.handleVerifyCodeEmail)
}

func (c *Consumer) handleVerifyCodeEmail(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_verify_code_email_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.VerifyCodeEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_verify_code_email_unmarshal_failed", "error", err)
		return err
	}
	email := strings.TrimSpace(payload.Email)
	if email == "" || strings.TrimSpace(payload.Code) == "" {
		logger.Debugw("worker_verify_code_email_skip_invalid_payload", "email", email, "step", payload.Step)
		return nil
	}
	if c.EmailService == nil {
		logger.Warnw("worker_verify_code_email_skip_email_service_nil", "email", email, "step", payload.Step)
		return nil
	}
	if err := c.EmailService.SendVerifyCode(email, payload.Code, payload.Step, payload.Locale); err != nil {
		switch {
		case errors.Is(err, service.ErrEmailServiceDisabled), errors.Is(err, service.ErrEmailServiceNotConfigured):
			logger.Debugw("worker_verify_code_email_skip_disabled", "email", email, "step", payload.Step)
			return nil
		case errors.Is(err, service.ErrEmailRecipientRejected):
			// 无效收件人重试无意义
			logger.Warnw("worker_verify_code_email_recipient_rejected", "email", email, "step", payload.Step)
			return nil
		default:
			logger.Warnw("worker_verify_code_email_send_failed",
				"email", email,
				"step", payload.Step,
				"error", err,
			)
			return err
		}
	}
	return nil
}
