package models

import (
	"time"
)

// Show 场次模型 - 深度1依赖实体，不存储租户ID
// 租户归属由 Venue 与 Act 两条父级路径共同推导，两者必须属于同一租户
type Show struct {
	BaseModel
	VenueID uint `json:"venue_id" gorm:"not null;index"`
	ActID   uint `json:"act_id" gorm:"not null;index"`

	Title          string    `json:"title" gorm:"size:200;not null"`
	StartsAt       time.Time `json:"starts_at" gorm:"not null;index"`
	EndsAt         time.Time `json:"ends_at" gorm:"not null"`
	BasePriceCents int64     `json:"base_price_cents" gorm:"not null;default:0"`
	Status         string    `json:"status" gorm:"size:20;default:'scheduled'"` // scheduled/on_sale/finished/cancelled

	// 审计字段
	CreatedBy uint `json:"created_by"`
	UpdatedBy uint `json:"updated_by"`

	// 关联
	Venue Venue `gorm:"foreignKey:VenueID" json:"venue,omitempty"`
	Act   Act   `gorm:"foreignKey:ActID" json:"act,omitempty"`
}

// TableName 表名
func (s *Show) TableName() string {
	return "shows"
}

// ParentRef 按路径名返回父级外键
func (s *Show) ParentRef(accessor string) (uint, bool) {
	switch accessor {
	case "venue":
		return s.VenueID, s.VenueID > 0
	case "act":
		return s.ActID, s.ActID > 0
	}
	return 0, false
}

// 场次状态常量
const (
	ShowStatusScheduled = "scheduled"
	ShowStatusOnSale    = "on_sale"
	ShowStatusFinished  = "finished"
	ShowStatusCancelled = "cancelled"
)
