//go:build wireinject
// +build wireinject

// Wire依赖注入配置文件
// 修改后运行 `wire gen ./cmd/api` 重新生成wire_gen.go

package main

import (
	"context"

	"github.com/google/wire"

	appcatalog "github.com/xiebiao/coursebook/internal/application/catalog"
	appreview "github.com/xiebiao/coursebook/internal/application/review"
	appuser "github.com/xiebiao/coursebook/internal/application/user"
	"github.com/xiebiao/coursebook/internal/domain/course"
	"github.com/xiebiao/coursebook/internal/domain/review"
	"github.com/xiebiao/coursebook/internal/domain/textbook"
	"github.com/xiebiao/coursebook/internal/domain/user"
	"github.com/xiebiao/coursebook/internal/infrastructure/config"
	"github.com/xiebiao/coursebook/internal/infrastructure/events"
	"github.com/xiebiao/coursebook/internal/infrastructure/logger"
	"github.com/xiebiao/coursebook/internal/infrastructure/persistence/database"
	"github.com/xiebiao/coursebook/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/coursebook/internal/infrastructure/storage"
	"github.com/xiebiao/coursebook/internal/interface/http/handler"
	"github.com/xiebiao/coursebook/internal/interface/http/middleware"
	"github.com/xiebiao/coursebook/internal/interface/http/router"
	"github.com/xiebiao/coursebook/pkg/metrics"
)

// infrastructureSet 基础设施：日志、指标、数据库、Redis、对象存储、消息
var infrastructureSet = wire.NewSet(
	logger.New,
	metrics.New,
	provideDB,
	provideRedisClient,
	provideListingCache,
	redis.NewTokenBlacklist,
	storage.NewStore,
	storage.NewImageFetcher,
	wire.Bind(new(textbook.ImageStore), new(storage.Store)),
	wire.Bind(new(appcatalog.URLResolver), new(storage.Store)),
	events.NewPublisher,
)

// repositorySet 仓储与事务管理器
var repositorySet = wire.NewSet(
	database.NewUserRepository,
	database.NewCourseRepository,
	database.NewTextbookRepository,
	database.NewListingRepository,
	database.NewReviewRepository,
	database.NewVoteRepository,
	database.NewTxManager,
	wire.Bind(new(review.Transactor), new(*database.TxManager)),
)

// domainSet 领域服务
var domainSet = wire.NewSet(
	user.NewService,
	course.NewService,
	textbook.NewService,
	review.NewService,
)

// applicationSet 用例
var applicationSet = wire.NewSet(
	appuser.NewRegisterUseCase,
	appuser.NewLoginUseCase,
	appuser.NewLogoutUseCase,
	appuser.NewRefreshTokenUseCase,
	appuser.NewGetProfileUseCase,
	appuser.NewUploadAvatarUseCase,
	appcatalog.NewCreateCourseUseCase,
	appcatalog.NewListCoursesUseCase,
	appcatalog.NewGetCourseUseCase,
	appcatalog.NewAddTextbookUseCase,
	appcatalog.NewGetTextbooksUseCase,
	appcatalog.NewPopularTextbooksUseCase,
	appcatalog.NewSearchUseCase,
	appreview.NewSubmitReviewUseCase,
	appreview.NewUpdateReviewUseCase,
	appreview.NewDeleteReviewUseCase,
	appreview.NewCastVoteUseCase,
	appreview.NewListReviewsUseCase,
)

// interfaceSet HTTP处理器、中间件、路由
var interfaceSet = wire.NewSet(
	provideJWTManager,
	middleware.NewAuthMiddleware,
	middleware.NewRateLimiter,
	handler.NewUserHandler,
	handler.NewCatalogHandler,
	handler.NewReviewHandler,
	wire.Struct(new(router.Handlers), "*"),
	router.New,
)

// InitializeApp 组装整个应用，cleanup按创建的逆序释放资源
func InitializeApp(ctx context.Context, cfg *config.Config) (*App, func(), error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		domainSet,
		applicationSet,
		interfaceSet,
		wire.Struct(new(App), "*"),
	)
	return nil, nil, nil
}
