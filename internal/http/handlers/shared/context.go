package shared

import (
	"strings"

	"github.com/numora-app/numora-api/internal/http/response"

	"github.com/gin-gonic/gin"
)

// 上下文键，由鉴权中间件写入。
const (
	ContextKeyUserID       = "user_id"
	ContextKeySessionToken = "session_token"
)

// GetContextString 从上下文读取字符串值并统一处理错误响应。
func GetContextString(c *gin.Context, key string) (string, bool) {
	value, exists := c.Get(key)
	if !exists {
		RespondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
		return "", false
	}
	s, ok := value.(string)
	if !ok || strings.TrimSpace(s) == "" {
		RespondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
		return "", false
	}
	return s, true
}

// GetContextUserID 读取当前登录用户 ID。
func GetContextUserID(c *gin.Context) (string, bool) {
	return GetContextString(c, ContextKeyUserID)
}

// GetContextSessionToken 读取当前请求携带的会话令牌。
func GetContextSessionToken(c *gin.Context) (string, bool) {
	return GetContextString(c, ContextKeySessionToken)
}
