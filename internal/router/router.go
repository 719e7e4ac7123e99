package router

import (
	"etick/internal/database"
	"etick/internal/handlers"
	"etick/internal/middleware"
	"etick/internal/services"
	"etick/internal/tenancy"
	"etick/pkg/response"
	"time"

	"github.com/gin-gonic/gin"
)

// SetupRouter 设置路由
func SetupRouter(engine *tenancy.Engine) *gin.Engine {
	router := gin.New()

	// 中间件
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.SetupCORS())

	registerRoutes(router, engine)
	return router
}

// 注册所有路由
func registerRoutes(router *gin.Engine, engine *tenancy.Engine) {
	db := database.GetDB()
	redisCache := database.GetRedisCache()

	userService := services.NewUserService(db, engine)
	tenantService := services.NewTenantService(db)
	venueService := services.NewVenueService(db, engine)
	actService := services.NewActService(db, engine)
	showService := services.NewShowService(db, engine)
	ticketService := services.NewTicketService(db, engine, redisCache)

	auth := middleware.NewAuthMiddleware(userService)

	api := router.Group("/api/v1")
	{
		// 健康检查接口
		api.GET("/health", healthCheck)
		api.GET("/ping", ping)

		// 认证路由（无需登录）
		authHandler := handlers.NewAuthHandler(userService)
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.RefreshToken)
			authGroup.GET("/me", auth.RequireLogin(), authHandler.Me)
		}

		// 场馆路由
		venueHandler := handlers.NewVenueHandler(venueService)
		venues := api.Group("/venues", auth.RequireLogin())
		{
			venues.POST("", auth.RequireTenantAdmin(), venueHandler.Create)
			venues.GET("", venueHandler.List)
			venues.GET("/:id", venueHandler.GetByID)
			venues.PUT("/:id", auth.RequireTenantAdmin(), venueHandler.Update)
			venues.DELETE("/:id", auth.RequireTenantAdmin(), venueHandler.Delete)
		}

		// 演出团体路由
		actHandler := handlers.NewActHandler(actService)
		acts := api.Group("/acts", auth.RequireLogin())
		{
			acts.POST("", auth.RequireTenantAdmin(), actHandler.Create)
			acts.GET("", actHandler.List)
			acts.GET("/:id", actHandler.GetByID)
			acts.PUT("/:id", auth.RequireTenantAdmin(), actHandler.Update)
			acts.DELETE("/:id", auth.RequireTenantAdmin(), actHandler.Delete)
		}

		// 场次路由
		showHandler := handlers.NewShowHandler(showService)
		shows := api.Group("/shows", auth.RequireLogin())
		{
			shows.POST("", auth.RequireTenantAdmin(), showHandler.Create)
			shows.GET("", showHandler.List)
			shows.GET("/:id", showHandler.GetByID)
			shows.PUT("/:id", auth.RequireTenantAdmin(), showHandler.Update)
			shows.PUT("/:id/status", auth.RequireTenantAdmin(), showHandler.UpdateStatus)
			shows.DELETE("/:id", auth.RequireTenantAdmin(), showHandler.Delete)
		}

		// 票务路由
		ticketHandler := handlers.NewTicketHandler(ticketService)
		tickets := api.Group("/tickets", auth.RequireLogin())
		{
			tickets.POST("/offers", auth.RequireTenantAdmin(), ticketHandler.CreateOffer)
			tickets.GET("/offers", ticketHandler.ListOffers)
			tickets.GET("/offers/:id/remaining", ticketHandler.OfferRemaining)
			tickets.POST("/sales", ticketHandler.Sell)
			tickets.GET("/sales", ticketHandler.ListSales)
			tickets.GET("/sales/:id", ticketHandler.GetSale)
			tickets.POST("/sales/:id/refund", auth.RequireTenantAdmin(), ticketHandler.Refund)
		}

		// 平台管理路由 - 唯一挂载系统哨兵上下文的入口
		tenantHandler := handlers.NewTenantHandler(tenantService)
		monitorHandler := handlers.NewMonitorHandler(redisCache)
		admin := api.Group("/admin", auth.RequireLogin(), auth.RequirePlatformAdmin())
		{
			admin.POST("/tenants", tenantHandler.Create)
			admin.GET("/tenants", tenantHandler.List)
			admin.GET("/tenants/:id", tenantHandler.GetByID)
			admin.PUT("/tenants/:id/status", tenantHandler.UpdateStatus)

			// 跨租户读取，走与普通路由相同的处理器，由系统上下文放行
			admin.GET("/venues", handlers.NewVenueHandler(venueService).List)
			admin.GET("/shows", handlers.NewShowHandler(showService).List)
			admin.GET("/sales", handlers.NewTicketHandler(ticketService).ListSales)

			admin.GET("/monitor/sales", monitorHandler.StreamSales)
		}
	}
}

// healthCheck 健康检查
func healthCheck(c *gin.Context) {
	response.Success(c, gin.H{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// ping 存活探测
func ping(c *gin.Context) {
	response.Success(c, gin.H{"message": "pong"})
}
