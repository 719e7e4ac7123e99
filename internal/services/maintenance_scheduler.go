package services

import (
	"etick/internal/tenancy"
	"etick/pkg/logger"
	"time"

	"github.com/robfig/cron/v3"
)

// MaintenanceScheduler 维护调度器 - 周期性收尾场次与票档
// 以系统上下文运行，是除管理接口外唯一的跨租户调用方
type MaintenanceScheduler struct {
	cron          *cron.Cron
	showService   *ShowService
	ticketService *TicketService
}

// NewMaintenanceScheduler 创建维护调度器
func NewMaintenanceScheduler(showService *ShowService, ticketService *TicketService) *MaintenanceScheduler {
	return &MaintenanceScheduler{
		cron:          cron.New(),
		showService:   showService,
		ticketService: ticketService,
	}
}

// Start 启动调度器
func (s *MaintenanceScheduler) Start() error {
	appLogger := logger.GetLogger()

	// 每5分钟收尾一次
	_, err := s.cron.AddFunc("*/5 * * * *", func() {
		tc := tenancy.SystemContext()
		now := time.Now()

		if n, err := s.showService.FinishPastShowsAllTenants(tc, now); err != nil {
			appLogger.Errorf("收尾过期场次失败: %v", err)
		} else if n > 0 {
			appLogger.Infof("已收尾 %d 个过期场次", n)
		}

		if n, err := s.ticketService.ExpireEndedOffersAllTenants(tc, now); err != nil {
			appLogger.Errorf("关闭过期票档失败: %v", err)
		} else if n > 0 {
			appLogger.Infof("已关闭 %d 个过期票档", n)
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	appLogger.Info("Maintenance scheduler started")
	return nil
}

// Stop 停止调度器
func (s *MaintenanceScheduler) Stop() {
	s.cron.Stop()
	logger.GetLogger().Info("Maintenance scheduler stopped")
}
