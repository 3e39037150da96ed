package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/numora-app/numora-api/internal/models"
)

const sessionStateCacheTTL = 10 * time.Minute

// SessionState 会话快照。令牌本身不携带信息，
// 快照用于避免每次请求都回源数据库。
type SessionState struct {
	Token     string `json:"token"`
	UserID    string `json:"user_id"`
	UpdatedAt int64  `json:"updated_at"`
}

func sessionStateKey(token string) string {
	return fmt.Sprintf("session:%s", token)
}

// BuildSessionState 从令牌模型构建会话快照
func BuildSessionState(token *models.SessionToken) *SessionState {
	if token == nil {
		return nil
	}
	return &SessionState{
		Token:     token.Token,
		UserID:    token.UserID,
		UpdatedAt: time.Now().Unix(),
	}
}

// GetSessionState 获取会话快照
func GetSessionState(ctx context.Context, token string) (*SessionState, bool, error) {
	if strings.TrimSpace(token) == "" {
		return nil, false, nil
	}
	var state SessionState
	hit, err := GetJSON(ctx, sessionStateKey(token), &state)
	if err != nil || !hit {
		return nil, hit, err
	}
	return &state, true, nil
}

// SetSessionState 写入会话快照
func SetSessionState(ctx context.Context, state *SessionState) error {
	if state == nil || state.Token == "" {
		return nil
	}
	return SetJSON(ctx, sessionStateKey(state.Token), state, sessionStateCacheTTL)
}

// DelSessionState 删除会话快照
func DelSessionState(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return nil
	}
	return Del(ctx, sessionStateKey(token))
}
