package models

import (
	"time"
)

// TicketOffer 票档模型 - 深度2依赖实体
// 租户沿 show -> venue 两跳推导
type TicketOffer struct {
	BaseModel
	ShowID uint `json:"show_id" gorm:"not null;index"`

	Tier       string     `json:"tier" gorm:"size:50;not null"` // vip/standard/balcony
	PriceCents int64      `json:"price_cents" gorm:"not null"`
	Quota      int        `json:"quota" gorm:"not null"` // 可售总数
	Sold       int        `json:"sold" gorm:"not null;default:0"`
	SaleStart  *time.Time `json:"sale_start"`
	SaleEnd    *time.Time `json:"sale_end"`
	Status     string     `json:"status" gorm:"size:20;default:'open'"` // open/closed/expired
	ClosedAt   *time.Time `json:"closed_at"`

	// 关联
	Show Show `gorm:"foreignKey:ShowID" json:"show,omitempty"`
}

// TableName 表名
func (o *TicketOffer) TableName() string {
	return "ticket_offers"
}

// ParentRef 按路径名返回父级外键
func (o *TicketOffer) ParentRef(accessor string) (uint, bool) {
	if accessor == "show" {
		return o.ShowID, o.ShowID > 0
	}
	return 0, false
}

// Remaining 剩余可售数量
func (o *TicketOffer) Remaining() int {
	return o.Quota - o.Sold
}

// 票档状态常量
const (
	OfferStatusOpen    = "open"
	OfferStatusClosed  = "closed"
	OfferStatusExpired = "expired"
)
