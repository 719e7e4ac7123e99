package main

import (
	"etick/internal/database"
	"etick/internal/models"
	"etick/internal/services"
	"etick/internal/tenancy"
	"etick/pkg/logger"
)

// seedData 种子数据初始化 - 默认租户与平台管理员
func seedData(engine *tenancy.Engine) error {
	db := database.GetDB()
	appLogger := logger.GetLogger()

	// 默认租户
	var tenant models.Tenant
	err := db.Where("code = ?", "default").First(&tenant).Error
	if err != nil {
		tenant = models.Tenant{
			Name:   "默认租户",
			Code:   "default",
			Status: models.TenantStatusActive,
		}
		if err := db.Create(&tenant).Error; err != nil {
			return err
		}
		appLogger.Infof("Created default tenant (id=%d)", tenant.ID)
	}

	// 平台管理员
	var count int64
	if err := db.Model(&models.User{}).Where("username = ?", "admin").Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		userService := services.NewUserService(db, engine)
		admin := &models.User{
			Username:        "admin",
			Email:           "admin@etick.local",
			Name:            "平台管理员",
			Status:          models.UserStatusActive,
			IsPlatformAdmin: true,
			IsTenantAdmin:   true,
		}
		if err := userService.Create(admin, "admin123", tenancy.NewContext(tenant.ID)); err != nil {
			return err
		}
		appLogger.Info("Created platform admin user (username=admin)")
	}

	return nil
}
