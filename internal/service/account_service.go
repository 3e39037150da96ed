package service

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/numora-app/numora-api/internal/config"
	"github.com/numora-app/numora-api/internal/constants"
	"github.com/numora-app/numora-api/internal/logger"
	"github.com/numora-app/numora-api/internal/models"
	"github.com/numora-app/numora-api/internal/queue"
	"github.com/numora-app/numora-api/internal/repository"

	"github.com/google/uuid"
)

// AccountService 账号生命周期服务，编排凭据、验证码、
// 会话令牌与重置请求四个子系统。所有失败分支都保持关闭状态：
// 验证码未通过时绝不提升账号状态或签发令牌。
type AccountService struct {
	cfg         *config.Config
	userRepo    repository.UserRepository
	resetRepo   repository.ResetRequestRepository
	credentials *CredentialService
	codes       *VerifyCodeService
	sessions    *SessionService
	email       *EmailService
	queueClient *queue.Client
}

// NewAccountService 创建账号服务
func NewAccountService(
	cfg *config.Config,
	userRepo repository.UserRepository,
	resetRepo repository.ResetRequestRepository,
	credentials *CredentialService,
	codes *VerifyCodeService,
	sessions *SessionService,
	email *EmailService,
	queueClient *queue.Client,
) *AccountService {
	return &AccountService{
		cfg:         cfg,
		userRepo:    userRepo,
		resetRepo:   resetRepo,
		credentials: credentials,
		codes:       codes,
		sessions:    sessions,
		email:       email,
		queueClient: queueClient,
	}
}

// SignupInput 注册输入
type SignupInput struct {
	Name     string
	Email    string
	Password string
	Country  string
	Locale   string
}

// Signup 注册或重新发起注册。已激活邮箱直接拒绝；
// 未激活的既有账号保留原始记录，仅重发验证码。
func (s *AccountService) Signup(input SignupInput) (*models.User, error) {
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(s.cfg.Security.PasswordPolicy, input.Password); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if user != nil && user.Status {
		return nil, ErrEmailExists
	}

	if user == nil {
		user = &models.User{
			ID:           uuid.NewString(),
			Name:         strings.TrimSpace(input.Name),
			Email:        email,
			PasswordHash: s.credentials.HashPassword(input.Password),
			Status:       false,
		}
		if s.cfg.Features.Country {
			user.Country = strings.TrimSpace(input.Country)
		}
		if err := s.userRepo.Create(user); err != nil {
			return nil, err
		}
	}

	record, err := s.codes.IssueOrRefresh(user.ID, constants.VerifyStepSignup)
	if err != nil {
		return nil, err
	}
	s.deliverVerifyCode(user.Email, record.Code, constants.VerifyStepSignup, input.Locale)
	return user, nil
}

// ConfirmSignup 校验注册验证码并激活账号，成功后签发首个令牌。
func (s *AccountService) ConfirmSignup(ctx context.Context, email, code string) (*models.User, *models.SessionToken, error) {
	user, err := s.getUserByEmail(email)
	if err != nil {
		return nil, nil, err
	}
	if user.Status {
		return nil, nil, ErrAccountAlreadyActive
	}

	if err := s.codes.Verify(user.ID, constants.VerifyStepSignup, code); err != nil {
		return nil, nil, err
	}

	user.Status = true
	if err := s.userRepo.Update(user); err != nil {
		return nil, nil, err
	}

	token, err := s.sessions.Issue(user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, token, nil
}

// Login 口令登录，成功后签发新令牌（不影响既有令牌）。
func (s *AccountService) Login(email, password string) (*models.User, *models.SessionToken, error) {
	user, err := s.getUserByEmail(email)
	if err != nil {
		return nil, nil, err
	}
	if !s.credentials.VerifyPassword(password, user.PasswordHash) {
		return nil, nil, ErrIncorrectPassword
	}
	token, err := s.sessions.Issue(user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, token, nil
}

// Logout 撤销当前令牌
func (s *AccountService) Logout(ctx context.Context, token string) error {
	return s.sessions.Revoke(ctx, token)
}

// GetUser 按 ID 获取用户
func (s *AccountService) GetUser(userID string) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

// RequestDelete 发起注销流程，向账号邮箱发送验证码。
func (s *AccountService) RequestDelete(userID, locale string) error {
	user, err := s.GetUser(userID)
	if err != nil {
		return err
	}
	record, err := s.codes.IssueOrRefresh(user.ID, constants.VerifyStepDeleteMe)
	if err != nil {
		return err
	}
	s.deliverVerifyCode(user.Email, record.Code, constants.VerifyStepDeleteMe, locale)
	return nil
}

// ConfirmDelete 校验注销验证码并硬删除账号及其全部关联数据。
func (s *AccountService) ConfirmDelete(ctx context.Context, userID, code string) error {
	user, err := s.GetUser(userID)
	if err != nil {
		return err
	}
	if err := s.codes.Verify(user.ID, constants.VerifyStepDeleteMe, code); err != nil {
		return err
	}
	if err := s.sessions.RevokeAll(ctx, user.ID); err != nil {
		return err
	}
	return s.userRepo.DeleteCascade(user.ID)
}

// RequestPasswordReset 发起找回密码流程。
func (s *AccountService) RequestPasswordReset(email, locale string) error {
	user, err := s.getUserByEmail(email)
	if err != nil {
		return err
	}
	record, err := s.codes.IssueOrRefresh(user.ID, constants.VerifyStepForgot)
	if err != nil {
		return err
	}
	s.deliverVerifyCode(user.Email, record.Code, constants.VerifyStepForgot, locale)
	return nil
}

// ConfirmPasswordReset 校验找回密码验证码，通过后签发一次性重置凭据。
func (s *AccountService) ConfirmPasswordReset(email, code string) (*models.ResetRequest, error) {
	user, err := s.getUserByEmail(email)
	if err != nil {
		return nil, err
	}
	if err := s.codes.Verify(user.ID, constants.VerifyStepForgot, code); err != nil {
		return nil, err
	}
	request := &models.ResetRequest{
		ID:        uuid.NewString(),
		Step:      constants.ResetStepForgotPassword,
		UserID:    user.ID,
		CreatedAt: time.Now(),
	}
	if err := s.resetRepo.Create(request); err != nil {
		return nil, err
	}
	return request, nil
}

// SetPasswordByReset 消费重置凭据并设置新密码，随后撤销全部令牌。
// 凭据一次性使用：同一凭据并发消费只有一方成功。
func (s *AccountService) SetPasswordByReset(ctx context.Context, email, requestID, newPassword string) error {
	user, err := s.getUserByEmail(email)
	if err != nil {
		return err
	}
	if err := validatePassword(s.cfg.Security.PasswordPolicy, newPassword); err != nil {
		return err
	}

	consumed, err := s.resetRepo.Consume(requestID, constants.ResetStepForgotPassword, user.ID)
	if err != nil {
		return err
	}
	if !consumed {
		return ErrRequestNotFound
	}

	user.PasswordHash = s.credentials.HashPassword(newPassword)
	if err := s.userRepo.Update(user); err != nil {
		return err
	}

	// 口令已更新，清理残留的重置凭据与 forgot 验证码
	if err := s.resetRepo.DeleteByUser(user.ID); err != nil {
		logger.Warnw("reset_request_cleanup_failed", "error", err, "user_id", user.ID)
	}
	if err := s.codes.Discard(user.ID, constants.VerifyStepForgot); err != nil {
		logger.Warnw("verify_code_cleanup_failed", "error", err, "user_id", user.ID)
	}
	return s.sessions.RevokeAll(ctx, user.ID)
}

// ChangeInfoInput 资料变更输入
type ChangeInfoInput struct {
	Name     string
	NewEmail string
	Password string
	Locale   string
}

// ChangeInfoResult 资料变更结果
type ChangeInfoResult struct {
	User *models.User
	// EmailChangeRequested 为 true 时需要客户端走 change-info-confirm，
	// 验证码已发送至新邮箱。
	EmailChangeRequested bool
}

// RequestChangeInfo 变更资料。昵称与口令立即生效（口令变更撤销全部令牌），
// 邮箱变更需新邮箱验证码确认后才切换。
func (s *AccountService) RequestChangeInfo(ctx context.Context, userID string, input ChangeInfoInput) (*ChangeInfoResult, error) {
	user, err := s.GetUser(userID)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(input.Name); name != "" && name != user.Name {
		user.Name = name
	}

	passwordChanged := false
	if input.Password != "" {
		if err := validatePassword(s.cfg.Security.PasswordPolicy, input.Password); err != nil {
			return nil, err
		}
		user.PasswordHash = s.credentials.HashPassword(input.Password)
		passwordChanged = true
	}

	result := &ChangeInfoResult{User: user}

	newEmail := strings.TrimSpace(input.NewEmail)
	if newEmail != "" {
		normalized, err := normalizeEmail(newEmail)
		if err != nil {
			return nil, err
		}
		if normalized != user.Email {
			existing, err := s.userRepo.GetByEmail(normalized)
			if err != nil {
				return nil, err
			}
			if existing != nil {
				return nil, ErrEmailInUse
			}
			user.PendingEmail = normalized
			result.EmailChangeRequested = true
		}
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	if passwordChanged {
		if err := s.sessions.RevokeAll(ctx, user.ID); err != nil {
			return nil, err
		}
	}

	if result.EmailChangeRequested {
		record, err := s.codes.IssueOrRefresh(user.ID, constants.VerifyStepChangeEmail)
		if err != nil {
			return nil, err
		}
		// 验证码发往新邮箱，证明其所有权
		s.deliverVerifyCode(user.PendingEmail, record.Code, constants.VerifyStepChangeEmail, input.Locale)
	}
	return result, nil
}

// ConfirmChangeInfo 校验换绑验证码并切换邮箱，成功后撤销全部令牌。
func (s *AccountService) ConfirmChangeInfo(ctx context.Context, userID, code string) (*models.User, error) {
	user, err := s.GetUser(userID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(user.PendingEmail) == "" {
		return nil, ErrCodeNotFound
	}

	if err := s.codes.Verify(user.ID, constants.VerifyStepChangeEmail, code); err != nil {
		return nil, err
	}

	// 确认时二次检查唯一性，窗口期内可能被他人注册
	existing, err := s.userRepo.GetByEmail(user.PendingEmail)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.ID != user.ID {
		user.PendingEmail = ""
		if updateErr := s.userRepo.Update(user); updateErr != nil {
			return nil, updateErr
		}
		return nil, ErrEmailInUse
	}

	user.Email = user.PendingEmail
	user.PendingEmail = ""
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	if err := s.sessions.RevokeAll(ctx, user.ID); err != nil {
		return nil, err
	}
	return user, nil
}

// deliverVerifyCode 投递验证码邮件。投递是尽力而为的：
// 队列与直发失败都只记日志，不影响主流程。
func (s *AccountService) deliverVerifyCode(email, code, step, locale string) {
	if s.queueClient.Enabled() {
		err := s.queueClient.EnqueueVerifyCodeEmail(queue.VerifyCodeEmailPayload{
			Email:  email,
			Code:   code,
			Step:   step,
			Locale: locale,
		})
		if err == nil {
			return
		}
		logger.Warnw("verify_code_email_enqueue_failed", "error", err, "step", step)
	}
	if s.email == nil {
		return
	}
	if err := s.email.SendVerifyCode(email, code, step, locale); err != nil {
		logger.Warnw("verify_code_email_send_failed", "error", err, "step", step)
	}
}

func (s *AccountService) getUserByEmail(email string) (*models.User, error) {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByEmail(normalized)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

func normalizeEmail(email string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return "", ErrInvalidEmail
	}
	if _, err := mail.ParseAddress(normalized); err != nil {
		return "", ErrInvalidEmail
	}
	return normalized, nil
}

// NormalizeEmail 统一邮箱格式
func NormalizeEmail(email string) (string, error) {
	return normalizeEmail(email)
}
