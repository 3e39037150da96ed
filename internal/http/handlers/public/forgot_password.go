package public

import (
	"github.com/numora-app/numora-api/internal/constants"
	"github.com/numora-app/numora-api/internal/http/response"
	"github.com/numora-app/numora-api/internal/i18n"
	"github.com/numora-app/numora-api/internal/service"

	"github.com/gin-gonic/gin"
)

// ForgotPasswordRequest 忘记密码：申请验证码
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

// ForgotPassword 向账号邮箱发送重置验证码。
func (h *Handler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	if err := h.AccountService.RequestPasswordReset(req.Email, i18n.ResolveLocale(c)); err != nil {
		respondWithMappedError(c, err, accountLookupErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, gin.H{"command": constants.CommandForgotCheckCode})
}

// ForgotPasswordConfirmRequest 忘记密码：校验验证码
type ForgotPasswordConfirmRequest struct {
	Email string `json:"email" binding:"required"`
	Code  string `json:"code" binding:"required"`
}

// ForgotPasswordConfirm 校验验证码并签发一次性重置票据。
func (h *Handler) ForgotPasswordConfirm(c *gin.Context) {
	var req ForgotPasswordConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	request, err := h.AccountService.ConfirmPasswordReset(req.Email, req.Code)
	if err != nil {
		respondWithMappedError(c, err,
			append(append([]mappedHandlerError{}, accountLookupErrorRules...), verifyCodeErrorRules...),
			response.CodeInternal, "error.internal")
		return
	}

	response.Success(c, gin.H{
		"request_id": request.ID,
		"command":    constants.CommandForgotPasswordSet,
	})
}

// ForgotPasswordSetRequest 忘记密码：提交新口令
type ForgotPasswordSetRequest struct {
	Email     string `json:"email" binding:"required"`
	RequestID string `json:"request_id" binding:"required"`
	Password  string `json:"password" binding:"required"`
}

// ForgotPasswordSet 凭票据设置新口令，成功后所有旧令牌作废。
func (h *Handler) ForgotPasswordSet(c *gin.Context) {
	var req ForgotPasswordSetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	err := h.AccountService.SetPasswordByReset(c.Request.Context(), req.Email, req.RequestID, req.Password)
	if err != nil {
		rules := append([]mappedHandlerError{
			{target: service.ErrRequestNotFound, code: response.CodeBadRequest, key: "error.request_not_found"},
		}, accountLookupErrorRules...)
		respondWithMappedError(c, err, rules, response.CodeInternal, "error.internal")
		return
	}

	response.Success(c, gin.H{"command": constants.CommandLogin})
}
