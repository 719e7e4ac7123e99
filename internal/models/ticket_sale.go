package models

// TicketSale 售票记录模型 - 深度2依赖实体
// 租户沿 show -> venue 两跳推导；OfferID 为业务外键，须与 ShowID 属同一场次
type TicketSale struct {
	BaseModel
	ShowID  uint  `json:"show_id" gorm:"not null;index"`
	OfferID *uint `json:"offer_id" gorm:"index"`

	Serial      string `json:"serial" gorm:"size:36;unique;not null"` // 票据序列号
	BuyerName   string `json:"buyer_name" gorm:"size:100;not null"`
	BuyerEmail  string `json:"buyer_email" gorm:"size:100"`
	Quantity    int    `json:"quantity" gorm:"not null;default:1"`
	AmountCents int64  `json:"amount_cents" gorm:"not null"`
	Status      string `json:"status" gorm:"size:20;default:'confirmed'"` // confirmed/refunded

	// 关联
	Show  Show         `gorm:"foreignKey:ShowID" json:"show,omitempty"`
	Offer *TicketOffer `gorm:"foreignKey:OfferID" json:"offer,omitempty"`
}

// TableName 表名
func (s *TicketSale) TableName() string {
	return "ticket_sales"
}

// ParentRef 按路径名返回父级外键
func (s *TicketSale) ParentRef(accessor string) (uint, bool) {
	if accessor == "show" {
		return s.ShowID, s.ShowID > 0
	}
	return 0, false
}

// 售票状态常量
const (
	SaleStatusConfirmed = "confirmed"
	SaleStatusRefunded  = "refunded"
)
