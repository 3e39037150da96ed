package public

import (
	"errors"

	"github.com/numora-app/numora-api/internal/constants"
	"github.com/numora-app/numora-api/internal/http/response"
	"github.com/numora-app/numora-api/internal/i18n"
	"github.com/numora-app/numora-api/internal/service"

	"github.com/gin-gonic/gin"
)

// DeleteMeRequest 发送注销验证码
func (h *Handler) DeleteMeRequest(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	if err := h.AccountService.RequestDelete(userID, i18n.ResolveLocale(c)); err != nil {
		respondWithMappedError(c, err, accountLookupErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, gin.H{"command": constants.CommandDeleteMeCheckCode})
}

// DeleteMeConfirmRequest 注销确认请求
type DeleteMeConfirmRequest struct {
	Code string `json:"code" binding:"required"`
}

// DeleteMeConfirm 校验注销验证码并删除账号及其全部数据。
func (h *Handler) DeleteMeConfirm(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	var req DeleteMeConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if err := h.AccountService.ConfirmDelete(c.Request.Context(), userID, req.Code); err != nil {
		respondWithMappedError(c, err,
			append(append([]mappedHandlerError{}, accountLookupErrorRules...), verifyCodeErrorRules...),
			response.CodeInternal, "error.internal")
		return
	}
	h.AvatarService.RemoveAvatar(userID)
	response.Success(c, gin.H{"status": "ok"})
}

// ChangeInfoRequest 资料修改请求。三个字段都可选，按需生效。
type ChangeInfoRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ChangeInfo 修改姓名/密码即时生效；修改邮箱先向新地址发验证码。
func (h *Handler) ChangeInfo(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	var req ChangeInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	result, err := h.AccountService.RequestChangeInfo(c.Request.Context(), userID, service.ChangeInfoInput{
		Name:     req.Name,
		NewEmail: req.Email,
		Password: req.Password,
		Locale:   i18n.ResolveLocale(c),
	})
	if err != nil {
		rules := append([]mappedHandlerError{
			{target: service.ErrEmailInUse, code: response.CodeBadRequest, key: "error.email_in_use"},
		}, accountLookupErrorRules...)
		respondWithMappedError(c, err, rules, response.CodeInternal, "error.internal")
		return
	}

	command := constants.CommandGetMe
	if result.EmailChangeRequested {
		command = constants.CommandChangeInfoConfirm
	}
	response.Success(c, gin.H{
		"user":    h.userPayload(result.User, ""),
		"command": command,
	})
}

// ChangeInfoConfirmRequest 邮箱修改确认请求
type ChangeInfoConfirmRequest struct {
	Code string `json:"code" binding:"required"`
}

// ChangeInfoConfirm 校验新邮箱验证码并完成邮箱切换，旧令牌全部作废。
func (h *Handler) ChangeInfoConfirm(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	var req ChangeInfoConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	if _, err := h.AccountService.ConfirmChangeInfo(c.Request.Context(), userID, req.Code); err != nil {
		if errors.Is(err, service.ErrEmailInUse) {
			respondError(c, response.CodeBadRequest, "error.email_in_use", nil)
			return
		}
		respondWithMappedError(c, err,
			append(append([]mappedHandlerError{}, accountLookupErrorRules...), verifyCodeErrorRules...),
			response.CodeInternal, "error.internal")
		return
	}

	response.Success(c, gin.H{"command": constants.CommandLogin})
}
