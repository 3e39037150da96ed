package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/numora-app/numora-api/internal/config"
	"github.com/numora-app/numora-api/internal/constants"
	"github.com/numora-app/numora-api/internal/models"
	"github.com/numora-app/numora-api/internal/repository"
)

// codeCooldownError 冷却期错误，携带剩余等待秒数供文案插值。
type codeCooldownError struct {
	remaining int
}

func (e codeCooldownError) Error() string {
	return fmt.Sprintf("verify code cooldown, wait %d seconds", e.remaining)
}

func (e codeCooldownError) Is(target error) bool {
	return target == ErrCodeCooldown
}

func (e codeCooldownError) Key() string {
	return "error.code_cooldown"
}

func (e codeCooldownError) Args() []interface{} {
	return []interface{}{e.remaining}
}

// Remaining 返回剩余等待秒数
func (e codeCooldownError) Remaining() int {
	return e.remaining
}

// VerifyCodeService 验证码引擎。每个 (user, step) 最多一条记录，
// 冷却与过期均以记录的 updated_at 为基准惰性判定，不做后台清理。
type VerifyCodeService struct {
	cfg      *config.Config
	codeRepo repository.VerifyCodeRepository
}

// NewVerifyCodeService 创建验证码服务
func NewVerifyCodeService(cfg *config.Config, codeRepo repository.VerifyCodeRepository) *VerifyCodeService {
	return &VerifyCodeService{cfg: cfg, codeRepo: codeRepo}
}

// IssueOrRefresh 生成或刷新验证码。
// 已有记录且仍在冷却期内时返回带剩余秒数的冷却错误，不触碰记录；
// 超过冷却期则换新码并清零尝试次数。
func (s *VerifyCodeService) IssueOrRefresh(userID, step string) (*models.VerifyCode, error) {
	step = strings.ToLower(strings.TrimSpace(step))
	if !isVerifyStepSupported(step) {
		return nil, ErrInvalidVerifyStep
	}

	record, err := s.codeRepo.Get(userID, step)
	if err != nil {
		return nil, err
	}
	now := time.Now()

	if record == nil {
		code, err := randomVerifyCode()
		if err != nil {
			return nil, err
		}
		record = &models.VerifyCode{
			UserID:    userID,
			Step:      step,
			Code:      code,
			Attempts:  0,
			UpdatedAt: now,
		}
		if err := s.codeRepo.Create(record); err != nil {
			return nil, err
		}
		return record, nil
	}

	interval := time.Duration(resolveSendIntervalSeconds(s.cfg.Email.VerifyCode)) * time.Second
	elapsed := now.Sub(record.UpdatedAt)
	if elapsed < interval {
		remaining := int(interval.Seconds()) - int(elapsed.Seconds())
		return nil, codeCooldownError{remaining: remaining}
	}

	code, err := randomVerifyCode()
	if err != nil {
		return nil, err
	}
	ok, err := s.codeRepo.Refresh(record.ID, code, record.UpdatedAt, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		// 并发刷新时只有一方生效，落败方按完整冷却处理
		return nil, codeCooldownError{remaining: int(interval.Seconds())}
	}

	record.Code = code
	record.Attempts = 0
	record.UpdatedAt = now
	return record, nil
}

// Verify 校验验证码。
// 过期与超限的记录被删除后再报错；不匹配时累加尝试次数并保留记录；
// 匹配成功即删除记录（一次性使用），并发消费只有一方成功。
func (s *VerifyCodeService) Verify(userID, step, submitted string) error {
	step = strings.ToLower(strings.TrimSpace(step))
	record, err := s.codeRepo.Get(userID, step)
	if err != nil {
		return err
	}
	if record == nil {
		return ErrCodeNotFound
	}

	now := time.Now()
	expire := time.Duration(resolveExpireSeconds(s.cfg.Email.VerifyCode)) * time.Second
	if now.Sub(record.UpdatedAt) > expire {
		if _, err := s.codeRepo.Delete(record.ID); err != nil {
			return err
		}
		return ErrCodeExpired
	}

	maxAttempts := resolveMaxAttempts(s.cfg.Email.VerifyCode)
	if maxAttempts > 0 && record.Attempts >= maxAttempts {
		if _, err := s.codeRepo.Delete(record.ID); err != nil {
			return err
		}
		return ErrCodeAttemptsExceeded
	}

	if err := s.codeRepo.IncrementAttempts(record.ID); err != nil {
		return err
	}

	if strings.TrimSpace(record.Code) != strings.TrimSpace(submitted) {
		return ErrCodeMismatch
	}

	deleted, err := s.codeRepo.Delete(record.ID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrCodeNotFound
	}
	return nil
}

// Discard 丢弃用户在指定步骤下的验证码记录
func (s *VerifyCodeService) Discard(userID, step string) error {
	return s.codeRepo.DeleteByUserAndStep(userID, strings.ToLower(strings.TrimSpace(step)))
}

func isVerifyStepSupported(step string) bool {
	switch step {
	case constants.VerifyStepSignup, constants.VerifyStepDeleteMe, constants.VerifyStepForgot, constants.VerifyStepChangeEmail:
		return true
	default:
		return false
	}
}

func resolveExpireSeconds(cfg config.VerifyCodeConfig) int {
	if cfg.ExpireSeconds <= 0 {
		return 300
	}
	return cfg.ExpireSeconds
}

func resolveSendIntervalSeconds(cfg config.VerifyCodeConfig) int {
	if cfg.SendIntervalSeconds <= 0 {
		return 60
	}
	return cfg.SendIntervalSeconds
}

func resolveMaxAttempts(cfg config.VerifyCodeConfig) int {
	if cfg.MaxAttempts <= 0 {
		return 3
	}
	return cfg.MaxAttempts
}

// randomVerifyCode 生成 [1000, 9999] 范围内的四位数字验证码
func randomVerifyCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d", n.Int64()+1000), nil
}
