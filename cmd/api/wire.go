//go:build wireinject
// +build wireinject

// wire.go Google Wire依赖注入配置
//
// 使用方法:
//  1. 安装wire: go install github.com/google/wire/cmd/wire@latest
//  2. 在cmd/api目录执行: wire
//  3. 生成wire_gen.go后,main.go可改为调用InitializeApp()
//
// Wire在编译期生成装配代码,依赖缺失直接编译失败,比运行时反射的容器更可控
package main

import (
	"github.com/gin-gonic/gin"
	"github.com/google/wire"
	goredis "github.com/redis/go-redis/v9"

	appcart "github.com/xiebiao/libratech/internal/application/cart"
	appcheckout "github.com/xiebiao/libratech/internal/application/checkout"
	appprefs "github.com/xiebiao/libratech/internal/application/prefs"
	appuser "github.com/xiebiao/libratech/internal/application/user"
	"github.com/xiebiao/libratech/internal/domain/cart"
	"github.com/xiebiao/libratech/internal/domain/checkout"
	"github.com/xiebiao/libratech/internal/domain/prefs"
	"github.com/xiebiao/libratech/internal/domain/pricing"
	"github.com/xiebiao/libratech/internal/domain/user"
	"github.com/xiebiao/libratech/internal/infrastructure/catalog"
	"github.com/xiebiao/libratech/internal/infrastructure/config"
	"github.com/xiebiao/libratech/internal/infrastructure/kvstore"
	"github.com/xiebiao/libratech/internal/infrastructure/orders"
	"github.com/xiebiao/libratech/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/libratech/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/libratech/internal/interface/http/handler"
	"github.com/xiebiao/libratech/internal/interface/http/middleware"
	"github.com/xiebiao/libratech/pkg/jwt"
	"github.com/xiebiao/libratech/pkg/metrics"
	"github.com/xiebiao/libratech/pkg/mq"
)

// infrastructureSet 基础设施层Provider集合
var infrastructureSet = wire.NewSet(
	config.Load,
	mysql.NewDB,
	redis.NewClient,
	provideKVStore,
	provideSessionStore,
	provideJWTManager,
	provideCatalogClient,
	provideOrdersClient,
	provideEventPublisher,
)

// repositorySet 仓储层Provider集合
var repositorySet = wire.NewSet(
	mysql.NewUserRepository,
)

// domainSet 领域层Provider集合
var domainSet = wire.NewSet(
	user.NewService,
	cart.NewService,
	pricing.NewReconciler,
	checkout.NewWorkflow,
	prefs.NewService,
)

// applicationSet 应用层Provider集合
var applicationSet = wire.NewSet(
	appuser.NewRegisterUseCase,
	appuser.NewLoginUseCase,
	appuser.NewLogoutUseCase,
	appcart.NewViewCartUseCase,
	appcart.NewMutateCartUseCase,
	appcart.NewApplyPromoUseCase,
	appcart.NewRecommendationsUseCase,
	appcheckout.NewTransitionUseCase,
	appcheckout.NewReviewUseCase,
	appprefs.NewSortPrefUseCase,
)

// middlewareSet 中间件Provider集合
var middlewareSet = wire.NewSet(
	middleware.NewAuthMiddleware,
)

// handlerSet 接口层Provider集合
var handlerSet = wire.NewSet(
	handler.NewUserHandler,
	handler.NewCartHandler,
	handler.NewCheckoutHandler,
	handler.NewPrefsHandler,
)

// provideKVStore 键值存储Provider(Redis实现)
func provideKVStore(client *goredis.Client) kvstore.Store {
	return kvstore.NewRedisStore(client)
}

// provideSessionStore 会话存储Provider
func provideSessionStore(client *goredis.Client) *redis.SessionStore {
	return redis.NewSessionStore(client)
}

// provideJWTManager JWT管理器Provider
func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)
}

// provideCatalogClient 目录服务客户端Provider(以接口形式供定价对账使用)
func provideCatalogClient(cfg *config.Config) pricing.CatalogClient {
	return catalog.NewClient(cfg)
}

// provideOrdersClient 订单服务客户端Provider
func provideOrdersClient(cfg *config.Config) checkout.OrdersClient {
	return orders.NewClient(cfg)
}

// provideEventPublisher 事件发布者Provider
// MQ关闭时返回nil接口值,Workflow对nil发布者按no-op处理
func provideEventPublisher(cfg *config.Config) (checkout.EventPublisher, error) {
	if !cfg.MQ.Enabled {
		return nil, nil
	}
	return mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, "topic")
}

// provideGinEngine Gin引擎Provider,注册所有路由
func provideGinEngine(
	cfg *config.Config,
	userHandler *handler.UserHandler,
	cartHandler *handler.CartHandler,
	checkoutHandler *handler.CheckoutHandler,
	prefsHandler *handler.PrefsHandler,
	authMiddleware *middleware.AuthMiddleware,
) *gin.Engine {
	metrics.InitMetrics()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	r.Use(middleware.Metrics())

	// 路由注册复用main.go的registerRoutes,含/ping、/metrics与swagger
	registerRoutes(r, userHandler, cartHandler, checkoutHandler, prefsHandler, authMiddleware)

	return r
}

// InitializeApp 初始化应用(Wire入口)
func InitializeApp() (*gin.Engine, error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		domainSet,
		applicationSet,
		middlewareSet,
		handlerSet,
		provideGinEngine,
	)
	return nil, nil
}
