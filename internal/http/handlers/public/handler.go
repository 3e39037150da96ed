package public

import (
	"github.com/numora-app/numora-api/internal/http/handlers/shared"
	"github.com/numora-app/numora-api/internal/http/response"
	"github.com/numora-app/numora-api/internal/i18n"
	"github.com/numora-app/numora-api/internal/models"
	"github.com/numora-app/numora-api/internal/provider"

	"github.com/gin-gonic/gin"
)

// Handler 客户端 API 处理器入口
type Handler struct {
	*provider.Container
}

// New 创建客户端处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}

func respondError(c *gin.Context, code int, key string, err error) {
	shared.RespondError(c, code, key, err)
}

func respondErrorWithMsg(c *gin.Context, code int, msg string, err error) {
	shared.RespondErrorWithMsg(c, code, msg, err)
}

// respondKeyedError 处理携带插值参数的业务错误（冷却、密码策略）。
func respondKeyedError(c *gin.Context, code int, fallbackKey string, err error) {
	locale := i18n.ResolveLocale(c)
	if perr, ok := err.(interface {
		Key() string
		Args() []interface{}
	}); ok {
		msg := i18n.Sprintf(locale, perr.Key(), perr.Args()...)
		respondErrorWithMsg(c, code, msg, nil)
		return
	}
	respondError(c, code, fallbackKey, nil)
}

// userPayload 构建用户响应载荷
func (h *Handler) userPayload(user *models.User, token string) gin.H {
	payload := gin.H{
		"user_id": user.ID,
		"name":    user.Name,
		"email":   user.Email,
		"status":  user.Status,
		"avatar":  h.AvatarService.AvatarURL(user.ID),
	}
	if h.Config.Features.Country {
		payload["country"] = user.Country
	}
	if token != "" {
		payload["token"] = token
	}
	return payload
}

// Health 健康检查
func (h *Handler) Health(c *gin.Context) {
	response.Success(c, gin.H{"status": "ok"})
}
