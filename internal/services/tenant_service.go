package services

import (
	"errors"
	"etick/internal/models"
	"fmt"

	"gorm.io/gorm"
)

// TenantService 租户服务 - 仅平台管理路径调用
type TenantService struct {
	db *gorm.DB
}

// NewTenantService 创建租户服务实例
func NewTenantService(db *gorm.DB) *TenantService {
	return &TenantService{db: db}
}

// Create 创建租户
func (s *TenantService) Create(tenant *models.Tenant) error {
	var count int64
	err := s.db.Model(&models.Tenant{}).Where("code = ?", tenant.Code).Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("租户代码 %s 已存在", tenant.Code)
	}

	if tenant.Status == "" {
		tenant.Status = models.TenantStatusActive
	}
	return s.db.Create(tenant).Error
}

// GetByID 根据ID获取租户
func (s *TenantService) GetByID(id uint) (*models.Tenant, error) {
	var tenant models.Tenant
	err := s.db.First(&tenant, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("租户不存在")
		}
		return nil, err
	}
	return &tenant, nil
}

// GetByCode 根据代码获取租户
func (s *TenantService) GetByCode(code string) (*models.Tenant, error) {
	var tenant models.Tenant
	err := s.db.Where("code = ?", code).First(&tenant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("租户不存在")
		}
		return nil, err
	}
	return &tenant, nil
}

// List 分页获取租户列表
func (s *TenantService) List(page, pageSize int) ([]models.Tenant, int64, error) {
	var tenants []models.Tenant
	var total int64

	if err := s.db.Model(&models.Tenant{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := s.db.Order("id").Offset(offset).Limit(pageSize).Find(&tenants).Error
	return tenants, total, err
}

// UpdateStatus 更新租户状态
func (s *TenantService) UpdateStatus(id uint, status string) error {
	if status != models.TenantStatusActive && status != models.TenantStatusInactive {
		return fmt.Errorf("无效的租户状态: %s", status)
	}
	result := s.db.Model(&models.Tenant{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("租户不存在")
	}
	return nil
}
