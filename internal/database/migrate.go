package database

import (
	"etick/internal/models"
	"etick/internal/tenancy"
	"etick/pkg/logger"
)

// migratedModels 迁移清单 - 注册表完整性检查以它为准
var migratedModels = []interface{}{
	&models.Tenant{},
	&models.User{},
	&models.Venue{},
	&models.Act{},
	&models.Show{},
	&models.TicketOffer{},
	&models.TicketSale{},
}

// Migrate 执行数据库迁移
func Migrate() error {
	appLogger := logger.GetLogger()
	appLogger.Info("Starting database migration...")

	if err := DB.AutoMigrate(migratedModels...); err != nil {
		appLogger.Errorf("Database migration failed: %v", err)
		return err
	}

	appLogger.Info("Database migration completed successfully")
	return nil
}

// CheckTenancyComplete 启动时校验迁移清单与分类注册表的一致性
// 有任何一张表未登记分类立即失败，禁止带着未分类实体上线
func CheckTenancyComplete(reg *tenancy.Registry) error {
	tables := make([]string, 0, len(migratedModels))
	for _, m := range migratedModels {
		tables = append(tables, m.(tenancy.Entity).TableName())
	}
	return reg.CheckComplete(tables)
}
