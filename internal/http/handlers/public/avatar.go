package public

import (
	"errors"

	"github.com/numora-app/numora-api/internal/http/response"
	"github.com/numora-app/numora-api/internal/service"

	"github.com/gin-gonic/gin"
)

// SetAvatar 注册期间上传头像：仅允许尚未激活的账号，无需令牌。
func (h *Handler) SetAvatar(c *gin.Context) {
	userID := c.Param("user_id")
	user, err := h.AccountService.GetUser(userID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "error.user_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	if user.Status {
		respondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
		return
	}
	h.saveAvatar(c, userID)
}

// ChangeAvatar 已登录用户替换头像
func (h *Handler) ChangeAvatar(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	h.saveAvatar(c, userID)
}

// GetAvatar 返回当前用户头像地址
func (h *Handler) GetAvatar(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	response.Success(c, gin.H{"avatar": h.AvatarService.AvatarURL(userID)})
}

func (h *Handler) saveAvatar(c *gin.Context, userID string) {
	file, err := c.FormFile("avatar")
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.avatar_missing", err)
		return
	}

	url, err := h.AvatarService.SaveAvatar(userID, file)
	if err != nil {
		rules := []mappedHandlerError{
			{target: service.ErrUploadInvalidType, code: response.CodeBadRequest, key: "error.avatar_invalid_type"},
			{target: service.ErrUploadTooLarge, code: response.CodeBadRequest, key: "error.avatar_too_large"},
		}
		respondWithMappedError(c, err, rules, response.CodeInternal, "error.internal")
		return
	}

	response.Success(c, gin.H{"avatar": url})
}
