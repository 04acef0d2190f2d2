package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

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
	"github.com/xiebiao/libratech/pkg/response"
)

// main 主程序入口(手动依赖注入,Wire版本见wire.go)
func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	fmt.Printf("✓ 配置加载成功\n")
	fmt.Printf("  - 服务端口: %d\n", cfg.Server.Port)
	fmt.Printf("  - 运行模式: %s\n", cfg.Server.Mode)
	fmt.Printf("  - 数据库: %s:%d/%s\n", cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)
	fmt.Printf("  - Redis: %s\n", cfg.Redis.Addr())
	fmt.Printf("  - 目录服务: %s\n", cfg.Catalog.BaseURL)
	fmt.Printf("  - 订单服务: %s\n", cfg.Orders.BaseURL)

	// 2. 初始化指标
	metrics.InitMetrics()

	// 3. 初始化数据库与Redis
	db, err := mysql.NewDB(cfg)
	if err != nil {
		log.Fatalf("初始化数据库失败: %v", err)
	}

	redisClient, err := redis.NewClient(cfg)
	if err != nil {
		log.Fatalf("初始化Redis失败: %v", err)
	}

	// 4. 可选的MQ发布者(本地开发可关掉)
	var events checkout.EventPublisher
	if cfg.MQ.Enabled {
		publisher, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, "topic")
		if err != nil {
			log.Fatalf("初始化RabbitMQ失败: %v", err)
		}
		defer publisher.Close()
		events = publisher
	}

	// 5. 依赖注入(手动组装)
	// 依赖链:Store/Repo/Client ← Service ← UseCase ← Handler

	// 基础设施层
	userRepo := mysql.NewUserRepository(db)
	sessionStore := redis.NewSessionStore(redisClient)
	store := kvstore.NewRedisStore(redisClient)
	catalogClient := catalog.NewClient(cfg)
	ordersClient := orders.NewClient(cfg)
	jwtManager := jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)

	// 领域层
	userService := user.NewService(userRepo)
	cartService := cart.NewService(store)
	reconciler := pricing.NewReconciler(catalogClient)
	workflow := checkout.NewWorkflow(store, cartService, ordersClient, events)
	prefService := prefs.NewService(store)

	// 应用层
	registerUseCase := appuser.NewRegisterUseCase(userService)
	loginUseCase := appuser.NewLoginUseCase(userService, jwtManager, sessionStore)
	logoutUseCase := appuser.NewLogoutUseCase(sessionStore, jwtManager)
	viewCartUseCase := appcart.NewViewCartUseCase(cartService, reconciler)
	mutateCartUseCase := appcart.NewMutateCartUseCase(cartService)
	applyPromoUseCase := appcart.NewApplyPromoUseCase(cartService, reconciler)
	recommendUseCase := appcart.NewRecommendationsUseCase(catalogClient)
	transitionUseCase := appcheckout.NewTransitionUseCase(workflow)
	reviewUseCase := appcheckout.NewReviewUseCase(workflow, cartService, reconciler)
	sortPrefUseCase := appprefs.NewSortPrefUseCase(prefService)

	// 接口层
	userHandler := handler.NewUserHandler(registerUseCase, loginUseCase, logoutUseCase)
	cartHandler := handler.NewCartHandler(viewCartUseCase, mutateCartUseCase, applyPromoUseCase, recommendUseCase)
	checkoutHandler := handler.NewCheckoutHandler(transitionUseCase, reviewUseCase)
	prefsHandler := handler.NewPrefsHandler(sortPrefUseCase)
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, sessionStore)

	// 6. 初始化Gin引擎
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	r.Use(middleware.Metrics())

	// 7. 注册路由
	registerRoutes(r, userHandler, cartHandler, checkoutHandler, prefsHandler, authMiddleware)

	// 8. 启动服务
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	fmt.Printf("\n🚀 服务启动成功！\n")
	fmt.Printf("   访问地址: http://localhost%s\n", addr)
	fmt.Printf("   健康检查: http://localhost%s/ping\n", addr)
	fmt.Printf("   API文档:  http://localhost%s/swagger/index.html\n", addr)
	fmt.Printf("   指标:     http://localhost%s/metrics\n", addr)
	fmt.Printf("\n按Ctrl+C停止服务\n\n")

	if err := r.Run(addr); err != nil {
		log.Fatalf("启动服务失败: %v", err)
	}
}

// registerRoutes 注册路由
func registerRoutes(
	r *gin.Engine,
	userHandler *handler.UserHandler,
	cartHandler *handler.CartHandler,
	checkoutHandler *handler.CheckoutHandler,
	prefsHandler *handler.PrefsHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	// Prometheus指标
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger文档(生产环境建议关闭或加访问控制)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	{
		// 用户模块
		users := v1.Group("/users")
		{
			users.POST("/register", userHandler.Register)
			users.POST("/login", userHandler.Login)
			users.POST("/logout", authMiddleware.RequireAuth(), userHandler.Logout)
		}

		// 推荐位(公开:未登录也展示)
		v1.GET("/cart/recommendations", cartHandler.Recommendations)

		// 购物车模块(全部要求登录,购物车按user_id隔离)
		carts := v1.Group("/cart")
		carts.Use(authMiddleware.RequireAuth())
		{
			carts.GET("", cartHandler.View)
			carts.DELETE("", cartHandler.Clear)
			carts.GET("/count", cartHandler.Count)
			carts.POST("/items", cartHandler.AddItem)
			carts.PUT("/items/:book_id", cartHandler.SetQuantity)
			carts.DELETE("/items/:book_id", cartHandler.RemoveItem)
			carts.POST("/promo", cartHandler.ApplyPromo)
		}

		// 结账模块
		co := v1.Group("/checkout")
		co.Use(authMiddleware.RequireAuth())
		{
			co.GET("", checkoutHandler.GetState)
			co.PUT("/shipping", checkoutHandler.PutShipping)
			co.PUT("/delivery", checkoutHandler.SelectDelivery)
			co.PUT("/payment", checkoutHandler.SelectPayment)
			co.PUT("/card", checkoutHandler.PutCard)
			co.POST("/advance", checkoutHandler.Advance)
			co.POST("/retreat", checkoutHandler.Retreat)
			co.POST("/confirm", checkoutHandler.Confirm)
			co.GET("/review", checkoutHandler.Review)
		}

		// 偏好模块
		preferences := v1.Group("/preferences")
		preferences.Use(authMiddleware.RequireAuth())
		{
			preferences.GET("/sort", prefsHandler.GetSort)
			preferences.PUT("/sort", prefsHandler.SetSort)
		}
	}
}
