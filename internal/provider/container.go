package provider

import (
	"github.com/inkwell-api/internal/cache"
	"github.com/inkwell-api/internal/config"
	"github.com/inkwell-api/internal/logger"
	"github.com/inkwell-api/internal/models"
	"github.com/inkwell-api/internal/queue"
	"github.com/inkwell-api/internal/repository"
	"github.com/inkwell-api/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	UserRepo    repository.UserRepository
	PostRepo    repository.PostRepository
	CommentRepo repository.CommentRepository
	LikeRepo    repository.LikeRepository

	// Services
	AuthService    *service.AuthService
	UserService    *service.UserService
	PostService    *service.PostService
	CaptchaService *service.CaptchaService
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
	c.PostRepo = repository.NewPostRepository(db)
	c.CommentRepo = repository.NewCommentRepository(db)
	c.LikeRepo = repository.NewLikeRepository(db)
}

func (c *Container) initServices() {
	c.CaptchaService = service.NewCaptchaService(c.Config.Captcha)
	c.AuthService = service.NewAuthService(c.UserRepo, c.Config, c.CaptchaService)
	c.UserService = service.NewUserService(c.UserRepo)
	c.PostService = service.NewPostService(c.PostRepo, c.CommentRepo, c.LikeRepo, c.QueueClient)
}
