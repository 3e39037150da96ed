package public

import (
	"errors"

	"github.com/numora-app/numora-api/internal/http/response"
	"github.com/numora-app/numora-api/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	key    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackKey string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.key, nil)
			return
		}
	}
	// 冷却与密码策略错误携带插值参数，单独处理
	if errors.Is(err, service.ErrCodeCooldown) {
		respondKeyedError(c, response.CodeTooManyRequests, "error.code_cooldown", err)
		return
	}
	if errors.Is(err, service.ErrWeakPassword) {
		respondKeyedError(c, response.CodeBadRequest, "error.weak_password", err)
		return
	}
	respondError(c, fallbackCode, fallbackKey, err)
}

// verifyCodeErrorRules 验证码校验相关错误映射
var verifyCodeErrorRules = []mappedHandlerError{
	{target: service.ErrCodeNotFound, code: response.CodeBadRequest, key: "error.code_not_found"},
	{target: service.ErrCodeExpired, code: response.CodeGone, key: "error.code_expired"},
	{target: service.ErrCodeMismatch, code: response.CodeBadRequest, key: "error.code_mismatch"},
	{target: service.ErrCodeAttemptsExceeded, code: response.CodeBadRequest, key: "error.code_attempts_exceeded"},
}

// accountLookupErrorRules 账号查找相关错误映射
var accountLookupErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidEmail, code: response.CodeBadRequest, key: "error.invalid_email"},
	{target: service.ErrNotFound, code: response.CodeBadRequest, key: "error.user_not_found"},
}
