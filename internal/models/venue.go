package models

import (
	"gorm.io/datatypes"
)

// Venue 场馆模型 - 根实体
// 名称仅在租户内唯一，租户ID与名称构成联合唯一索引，故不走公共基类
type Venue struct {
	BaseModel
	TenantID   uint           `json:"tenant_id" gorm:"not null;uniqueIndex:idx_tenant_venue"`
	Name       string         `json:"name" gorm:"size:100;not null;uniqueIndex:idx_tenant_venue"`
	Address    string         `json:"address" gorm:"size:255"`
	City       string         `json:"city" gorm:"size:100;index"`
	Capacity   int            `json:"capacity" gorm:"not null;default:0"`
	Facilities datatypes.JSON `json:"facilities" gorm:"type:jsonb"` // 设施信息（停车、无障碍等）
	IsActive   bool           `json:"is_active" gorm:"default:true"`

	// 审计字段
	CreatedBy uint `json:"created_by"`
	UpdatedBy uint `json:"updated_by"`
}

// TableName 表名
func (v *Venue) TableName() string {
	return "venues"
}

// GetTenantID 读取租户ID
func (v *Venue) GetTenantID() uint {
	return v.TenantID
}

// SetTenantID 写入租户ID（仅由租户引擎在创建时调用）
func (v *Venue) SetTenantID(id uint) {
	v.TenantID = id
}
