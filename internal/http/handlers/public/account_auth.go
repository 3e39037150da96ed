package public

import (
	"errors"

	"github.com/numora-app/numora-api/internal/constants"
	"github.com/numora-app/numora-api/internal/http/response"
	"github.com/numora-app/numora-api/internal/i18n"
	"github.com/numora-app/numora-api/internal/service"

	"github.com/gin-gonic/gin"
)

// SignupRequest 注册请求
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Country  string `json:"country"`
}

// Signup 注册：创建（或复用未激活的）账号并发送验证码。
func (h *Handler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	user, err := h.AccountService.Signup(service.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Country:  req.Country,
		Locale:   i18n.ResolveLocale(c),
	})
	if err != nil {
		rules := append([]mappedHandlerError{
			{target: service.ErrEmailExists, code: response.CodeBadRequest, key: "error.email_exists"},
		}, accountLookupErrorRules...)
		respondWithMappedError(c, err, rules, response.CodeInternal, "error.internal")
		return
	}

	response.Success(c, gin.H{
		"user":    h.userPayload(user, ""),
		"command": constants.CommandCheckCode,
	})
}

// SignupConfirmRequest 注册确认请求
type SignupConfirmRequest struct {
	Email string `json:"email" binding:"required"`
	Code  string `json:"code" binding:"required"`
}

// SignupConfirm 校验注册验证码，激活账号并返回首个令牌。
func (h *Handler) SignupConfirm(c *gin.Context) {
	var req SignupConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	user, token, err := h.AccountService.ConfirmSignup(c.Request.Context(), req.Email, req.Code)
	if err != nil {
		rules := append([]mappedHandlerError{
			{target: service.ErrAccountAlreadyActive, code: response.CodeBadRequest, key: "error.account_already_active"},
		}, accountLookupErrorRules...)
		respondWithMappedError(c, err, append(rules, verifyCodeErrorRules...),
			response.CodeInternal, "error.internal")
		return
	}

	response.Success(c, gin.H{
		"user": h.userPayload(user, token.Token),
	})
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login 口令登录
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	user, token, err := h.AccountService.Login(req.Email, req.Password)
	if err != nil {
		rules := append([]mappedHandlerError{
			{target: service.ErrIncorrectPassword, code: response.CodeBadRequest, key: "error.incorrect_password"},
		}, accountLookupErrorRules...)
		respondWithMappedError(c, err, rules, response.CodeInternal, "error.internal")
		return
	}

	response.Success(c, gin.H{
		"user": h.userPayload(user, token.Token),
	})
}

// Logout 撤销当前令牌
func (h *Handler) Logout(c *gin.Context) {
	token, ok := getSessionToken(c)
	if !ok {
		return
	}
	if err := h.AccountService.Logout(c.Request.Context(), token); err != nil {
		if errors.Is(err, service.ErrUnauthorized) {
			respondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, gin.H{"status": "ok"})
}

// GetMe 返回当前用户资料
func (h *Handler) GetMe(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	user, err := h.AccountService.GetUser(userID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, gin.H{
		"user": h.userPayload(user, ""),
	})
}
