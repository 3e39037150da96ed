package router

import (
	"fmt"
	"strings"

	"github.com/numora-app/numora-api/internal/cache"
	"github.com/numora-app/numora-api/internal/config"
	"github.com/numora-app/numora-api/internal/constants"
	publichandlers "github.com/numora-app/numora-api/internal/http/handlers/public"
	"github.com/numora-app/numora-api/internal/logger"
	"github.com/numora-app/numora-api/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = constants.RedisPrefixDefault
	}
	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
		MessageKey:    "error.rate_limit",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// 静态文件服务（上传的头像）- 必须放在最前面
	uploadDir := strings.TrimSpace(cfg.Upload.Dir)
	if uploadDir == "" {
		uploadDir = "./uploads"
	}
	r.Static("/uploads", uploadDir)

	// 注册/登录（无需令牌）
	r.POST("/signup/", publicHandler.Signup)
	r.POST("/signup/confirm", publicHandler.SignupConfirm)
	r.POST("/set-avatar/:user_id", publicHandler.SetAvatar)
	r.POST("/login/", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("email")), publicHandler.Login)

	// 忘记密码（无需令牌）
	forgot := r.Group("/forgot-password")
	{
		forgot.POST("/request", publicHandler.ForgotPassword)
		forgot.POST("/confirm", publicHandler.ForgotPasswordConfirm)
		forgot.POST("/set", publicHandler.ForgotPasswordSet)
	}

	// 用户接口（需鉴权）
	user := r.Group("")
	user.Use(TokenAuthMiddleware(c.SessionService))
	{
		user.GET("/videos/", publicHandler.Videos)
		user.GET("/faqs/", publicHandler.Faqs)
		user.GET("/faqs/:faq_id", publicHandler.FaqDetail)
		user.GET("/number/", publicHandler.Number)
		user.POST("/logout/", publicHandler.Logout)
		user.GET("/get-me/", publicHandler.GetMe)
		user.POST("/change-avatar/", publicHandler.ChangeAvatar)
		user.GET("/get-avatar/", publicHandler.GetAvatar)
		user.POST("/delete-me/request", publicHandler.DeleteMeRequest)
		user.POST("/delete-me/confirm", publicHandler.DeleteMeConfirm)
		user.POST("/change-info/request", publicHandler.ChangeInfo)
		user.POST("/change-info/confirm", publicHandler.ChangeInfoConfirm)
	}

	// 健康检查
	r.GET("/health", publicHandler.Health)

	return r
}
