package models

// Act 演出团体/艺人模型 - 根实体
// 名称仅在租户内唯一，租户ID与名称构成联合唯一索引，故不走公共基类
type Act struct {
	BaseModel
	TenantID    uint   `json:"tenant_id" gorm:"not null;uniqueIndex:idx_tenant_act"`
	Name        string `json:"name" gorm:"size:100;not null;uniqueIndex:idx_tenant_act"`
	Genre       string `json:"genre" gorm:"size:50;index"` // rock/classical/theatre/comedy
	Description string `json:"description" gorm:"size:500"`
	IsActive    bool   `json:"is_active" gorm:"default:true"`

	// 审计字段
	CreatedBy uint `json:"created_by"`
	UpdatedBy uint `json:"updated_by"`
}

// TableName 表名
func (a *Act) TableName() string {
	return "acts"
}

// GetTenantID 读取租户ID
func (a *Act) GetTenantID() uint {
	return a.TenantID
}

// SetTenantID 写入租户ID（仅由租户引擎在创建时调用）
func (a *Act) SetTenantID(id uint) {
	a.TenantID = id
}
