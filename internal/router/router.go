package router

import (
	"fmt"
	"strings"

	"github.com/inkwell-api/internal/cache"
	"github.com/inkwell-api/internal/config"
	"github.com/inkwell-api/internal/constants"
	adminhandlers "github.com/inkwell-api/internal/http/handlers/admin"
	publichandlers "github.com/inkwell-api/internal/http/handlers/public"
	"github.com/inkwell-api/internal/logger"
	"github.com/inkwell-api/internal/provider"

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
	adminHandler := adminhandlers.New(c)

	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = constants.RedisPrefixDefault
	}
	redisClient := cache.Client()
	loginRule := loginRateLimitRule(fmt.Sprintf("%s:rate:login", redisPrefix), cfg.Security.LoginRateLimit)
	registerRule := loginRateLimitRule(fmt.Sprintf("%s:rate:register", redisPrefix), cfg.Security.LoginRateLimit)

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	requireAuth := RequireAuth(cfg.JWT.SecretKey, c.UserRepo)
	optionalAuth := OptionalAuth(cfg.JWT.SecretKey, c.UserRepo)

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 公开接口
		public := apiV1.Group("/public")
		{
			public.GET("/captcha/image", publicHandler.GetImageCaptcha)
		}

		// 用户认证接口
		auth := apiV1.Group("/auth")
		{
			auth.POST("/register", RateLimitMiddleware(redisClient, registerRule, KeyByIP), publicHandler.Register)
			auth.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("email")), publicHandler.Login)
			auth.GET("/profile", requireAuth, publicHandler.GetProfile)
			auth.PUT("/profile", requireAuth, publicHandler.UpdateProfile)
			auth.GET("/verify", requireAuth, publicHandler.VerifyToken)
		}

		// 文章接口
		blogs := apiV1.Group("/blogs")
		{
			blogs.GET("", publicHandler.ListBlogs)
			blogs.GET("/meta/categories", publicHandler.GetCategories)
			blogs.GET("/meta/tags", publicHandler.GetTags)
			blogs.GET("/user/my-blogs", requireAuth, publicHandler.MyBlogs)
			blogs.GET("/edit/:id", requireAuth, publicHandler.GetBlogForEdit)
			blogs.GET("/:slug", optionalAuth, publicHandler.GetBlogBySlug)
			blogs.POST("", requireAuth, publicHandler.CreateBlog)
			blogs.PUT("/:id", requireAuth, publicHandler.UpdateBlog)
			blogs.DELETE("/:id", requireAuth, publicHandler.DeleteBlog)
			blogs.POST("/:id/like", requireAuth, publicHandler.ToggleBlogLike)
			blogs.POST("/:id/comments", requireAuth, publicHandler.AddBlogComment)
		}

		// 管理员接口
		admin := apiV1.Group("/admin")
		admin.Use(requireAuth, RequireAdmin())
		{
			admin.GET("/users", adminHandler.GetUsers)
			admin.PUT("/users/:id/status", adminHandler.UpdateUserStatus)
			admin.GET("/blogs", adminHandler.GetBlogs)
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
