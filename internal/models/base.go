package models

import (
	"time"
)

// BaseModel 基础模型
type BaseModel struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TenantOwnedModel 根实体公共字段 - 直接持有租户ID
type TenantOwnedModel struct {
	BaseModel
	TenantID uint `json:"tenant_id" gorm:"not null;index"`
}

// GetTenantID 读取租户ID
func (m *TenantOwnedModel) GetTenantID() uint {
	return m.TenantID
}

// SetTenantID 写入租户ID（仅由租户引擎在创建时调用）
func (m *TenantOwnedModel) SetTenantID(id uint) {
	m.TenantID = id
}
