// Package router 组装Gin引擎：全局中间件、运维端点与/api/v1路由
package router

import (
	"strings"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/xiebiao/coursebook/internal/infrastructure/config"
	"github.com/xiebiao/coursebook/internal/infrastructure/logger"
	"github.com/xiebiao/coursebook/internal/interface/http/handler"
	"github.com/xiebiao/coursebook/internal/interface/http/middleware"
	"github.com/xiebiao/coursebook/pkg/metrics"
	"github.com/xiebiao/coursebook/pkg/response"
)

// Handlers 路由依赖的全部处理器与中间件
type Handlers struct {
	Catalog *handler.CatalogHandler
	Review  *handler.ReviewHandler
	User    *handler.UserHandler
	Auth    *middleware.AuthMiddleware
	Limiter *middleware.RateLimiter
}

// New 创建并配置Gin引擎
// 中间件执行顺序：RequestLogger → Recovery → CORS → otelgin → Metrics → 路由组中间件 → Handler
func New(cfg *config.Config, log *logger.Logger, m *metrics.Metrics, h Handlers) *gin.Engine {
	switch cfg.Server.Mode {
	case gin.ReleaseMode, gin.TestMode:
		gin.SetMode(cfg.Server.Mode)
	}

	r := gin.New()
	r.Use(middleware.RequestLogger(log))
	r.Use(gin.Recovery())
	r.Use(middleware.CORS(cfg))
	r.Use(otelgin.Middleware(cfg.Tracing.ServiceName))
	r.Use(middleware.Metrics(m))

	// 运维端点
	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{"message": "pong"})
	})
	r.GET("/health", func(c *gin.Context) {
		response.Success(c, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(m.Handler()))
	if cfg.Server.Mode != gin.ReleaseMode {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// 本地存储时由本服务提供上传文件的访问
	if cfg.Storage.Driver == config.StorageLocal && strings.HasPrefix(cfg.Storage.PublicBaseURL, "/") {
		r.Static(cfg.Storage.PublicBaseURL, cfg.Storage.LocalDir)
	}

	registerAPI(r.Group("/api/v1"), h)
	return r
}

func registerAPI(v1 *gin.RouterGroup, h Handlers) {
	auth := h.Auth
	limit := h.Limiter.Middleware()

	// 课程
	courses := v1.Group("/courses")
	{
		courses.GET("", h.Catalog.ListCourses)
		courses.GET("/:slug", h.Catalog.GetCourse)
		courses.POST("", limit, auth.RequireAuth(), auth.RequireAdmin(), h.Catalog.CreateCourse)
	}

	// 教材
	textbooks := v1.Group("/textbooks")
	{
		textbooks.GET("", h.Catalog.GetTextbooks)
		textbooks.GET("/popular", h.Catalog.Popular)
		textbooks.POST("", limit, auth.RequireAuth(), auth.RequireAdmin(), h.Catalog.AddTextbook)
	}

	v1.GET("/search", h.Catalog.Search)
	v1.GET("/course-textbooks/:id/reviews", auth.OptionalAuth(), h.Review.List)

	// 评价与投票（需要登录）
	reviews := v1.Group("/reviews")
	reviews.Use(limit, auth.RequireAuth())
	{
		reviews.POST("", h.Review.Submit)
		reviews.PATCH("/:id", h.Review.Update)
		reviews.DELETE("/:id", h.Review.Delete)
		reviews.POST("/:id/vote", h.Review.Vote)
	}

	// 用户
	users := v1.Group("/users")
	{
		users.POST("/register", limit, h.User.Register)
		users.POST("/login", limit, h.User.Login)
		users.POST("/refresh", h.User.Refresh)
		users.POST("/logout", auth.RequireAuth(), h.User.Logout)
		users.GET("/me", auth.RequireAuth(), h.User.Me)
		users.POST("/me/avatar", limit, auth.RequireAuth(), h.User.UploadAvatar)
	}
}
