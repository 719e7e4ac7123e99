package main

import (
	"context"
	"errors"
	"etick/internal/database"
	"etick/internal/router"
	"etick/internal/services"
	"etick/internal/tenancy"
	"etick/pkg/config"
	"etick/pkg/logger"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
)

func main() {
	// 加载配置
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化日志
	if err := logger.Initialize(cfg); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	appLogger := logger.GetLogger()
	appLogger.Info("Starting etick ticketing platform...")

	// 初始化数据库
	if err := database.Initialize(cfg); err != nil {
		appLogger.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := database.Close(); err != nil {
			appLogger.Error("Failed to close database:", err)
		}
		if err := database.CloseRedisCache(); err != nil {
			appLogger.Error("Failed to close Redis:", err)
		}
	}()

	// 执行数据库迁移
	if err := database.Migrate(); err != nil {
		appLogger.Fatalf("Failed to migrate database: %v", err)
	}

	// 构建租户分类注册表并做启动完整性检查
	// 任何未登记分类的实体都会在这里直接失败，禁止默认不过滤
	registry := database.BuildTenancyRegistry()
	if err := database.CheckTenancyComplete(registry); err != nil {
		appLogger.Fatalf("Tenancy classification incomplete: %v", err)
	}
	engine := tenancy.NewEngine(registry)

	// 执行种子数据初始化
	if err := seedData(engine); err != nil {
		appLogger.Fatalf("Failed to initialize seed data: %v", err)
	}

	// 设置Gin模式
	gin.SetMode(cfg.Server.Mode)

	// 启动维护调度器（在路由初始化前）
	db := database.GetDB()
	showService := services.NewShowService(db, engine)
	ticketService := services.NewTicketService(db, engine, database.GetRedisCache())
	scheduler := services.NewMaintenanceScheduler(showService, ticketService)
	if err := scheduler.Start(); err != nil {
		appLogger.Errorf("Failed to start maintenance scheduler: %v", err)
		// 不影响主服务启动
	}
	defer scheduler.Stop()

	// 设置路由
	r := router.SetupRouter(engine)

	// 启动HTTP服务
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	go func() {
		appLogger.Infof("Server listening on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Errorf("Server forced to shutdown: %v", err)
	}

	appLogger.Info("Server exited")
}
