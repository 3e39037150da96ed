package provider

import (
	"github.com/numora-app/numora-api/internal/cache"
	"github.com/numora-app/numora-api/internal/config"
	"github.com/numora-app/numora-api/internal/logger"
	"github.com/numora-app/numora-api/internal/models"
	"github.com/numora-app/numora-api/internal/queue"
	"github.com/numora-app/numora-api/internal/repository"
	"github.com/numora-app/numora-api/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	UserRepo         repository.UserRepository
	SessionTokenRepo repository.SessionTokenRepository
	VerifyCodeRepo   repository.VerifyCodeRepository
	ResetRequestRepo repository.ResetRequestRepository
	ContentRepo      repository.ContentRepository

	// Services
	CredentialService *service.CredentialService
	VerifyCodeService *service.VerifyCodeService
	SessionService    *service.SessionService
	EmailService      *service.EmailService
	AccountService    *service.AccountService
	AvatarService     *service.AvatarService
	ContentService    *service.ContentService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.SessionTokenRepo = repository.NewSessionTokenRepository(db)
	c.VerifyCodeRepo = repository.NewVerifyCodeRepository(db)
	c.ResetRequestRepo = repository.NewResetRequestRepository(db)
	c.ContentRepo = repository.NewContentRepository(db)
}

func (c *Container) initServices() {
	c.EmailService = service.NewEmailService(&c.Config.Email)
	c.CredentialService = service.NewCredentialService(&c.Config.Auth)
	c.VerifyCodeService = service.NewVerifyCodeService(c.Config, c.VerifyCodeRepo)
	c.SessionService = service.NewSessionService(c.SessionTokenRepo, c.UserRepo)
	c.AvatarService = service.NewAvatarService(c.Config)
	c.ContentService = service.NewContentService(c.ContentRepo)
	c.AccountService = service.NewAccountService(
		c.Config,
		c.UserRepo,
		c.ResetRequestRepo,
		c.CredentialService,
		c.VerifyCodeService,
		c.SessionService,
		c.EmailService,
		c.QueueClient,
	)
}
