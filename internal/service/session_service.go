package service

import (
	"context"
	"strings"
	"time"

	"github.com/numora-app/numora-api/internal/cache"
	"github.com/numora-app/numora-api/internal/logger"
	"github.com/numora-app/numora-api/internal/models"
	"github.com/numora-app/numora-api/internal/repository"

	"github.com/google/uuid"
)

// SessionService 会话令牌服务。令牌为不透明 UUID，
// 有效性完全取决于数据库中是否存在对应行，撤销即删除。
type SessionService struct {
	tokenRepo repository.SessionTokenRepository
	userRepo  repository.UserRepository
}

// NewSessionService 创建会话服务
func NewSessionService(tokenRepo repository.SessionTokenRepository, userRepo repository.UserRepository) *SessionService {
	return &SessionService{tokenRepo: tokenRepo, userRepo: userRepo}
}

// Issue 为用户签发新令牌。多端登录各自持有独立令牌。
func (s *SessionService) Issue(userID string) (*models.SessionToken, error) {
	token := &models.SessionToken{
		Token:     uuid.NewString(),
		UserID:    userID,
		CreatedAt: time.Now(),
	}
	if err := s.tokenRepo.Create(token); err != nil {
		return nil, err
	}
	return token, nil
}

// Resolve 将令牌解析为用户。未知、已撤销或格式异常的令牌
// 一律返回 ErrUnauthorized，不区分原因。
func (s *SessionService) Resolve(ctx context.Context, token string) (*models.User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrUnauthorized
	}

	if state, hit, err := cache.GetSessionState(ctx, token); err == nil && hit {
		user, err := s.userRepo.GetByID(state.UserID)
		if err != nil {
			return nil, err
		}
		if user != nil {
			return user, nil
		}
		// 用户已删除，快照过期
		_ = cache.DelSessionState(ctx, token)
	} else if err != nil {
		logger.Warnw("session_state_cache_read_failed", "error", err)
	}

	record, err := s.tokenRepo.Get(token)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrUnauthorized
	}

	user, err := s.userRepo.GetByID(record.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUnauthorized
	}

	if err := cache.SetSessionState(ctx, cache.BuildSessionState(record)); err != nil {
		logger.Warnw("session_state_cache_write_failed", "error", err)
	}
	return user, nil
}

// Revoke 撤销单个令牌
func (s *SessionService) Revoke(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrUnauthorized
	}
	if err := cache.DelSessionState(ctx, token); err != nil {
		logger.Warnw("session_state_cache_del_failed", "error", err)
	}
	return s.tokenRepo.Delete(token)
}

// RevokeAll 撤销用户的全部令牌（密码或邮箱变更后调用）
func (s *SessionService) RevokeAll(ctx context.Context, userID string) error {
	tokens, err := s.tokenRepo.ListByUser(userID)
	if err != nil {
		return err
	}
	for _, token := range tokens {
		if err := cache.DelSessionState(ctx, token.Token); err != nil {
			logger.Warnw("session_state_cache_del_failed", "error", err, "user_id", userID)
		}
	}
	return s.tokenRepo.DeleteByUser(userID)
}
