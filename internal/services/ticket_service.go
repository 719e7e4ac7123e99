package services

import (
	"context"
	"errors"
	"etick/internal/models"
	"etick/internal/tenancy"
	"etick/pkg/cache"
	"etick/pkg/logger"
	"etick/pkg/pagination"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TicketService 票务服务 - 票档与售票记录
type TicketService struct {
	db     *gorm.DB
	engine *tenancy.Engine
	cache  *cache.RedisCache
}

// NewTicketService 创建票务服务实例
func NewTicketService(db *gorm.DB, engine *tenancy.Engine, redisCache *cache.RedisCache) *TicketService {
	return &TicketService{db: db, engine: engine, cache: redisCache}
}

// ========== 票档 ==========

// CreateOffer 创建票档
func (s *TicketService) CreateOffer(offer *models.TicketOffer, tc tenancy.Context) error {
	if offer.Quota <= 0 {
		return fmt.Errorf("可售数量必须大于0")
	}
	if offer.SaleStart != nil && offer.SaleEnd != nil && !offer.SaleEnd.After(*offer.SaleStart) {
		return fmt.Errorf("售卖结束时间必须晚于开始时间")
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		return s.engine.Create(tx, offer, tc)
	})
}

// GetOfferByID 根据ID获取票档
func (s *TicketService) GetOfferByID(id uint, tc tenancy.Context) (*models.TicketOffer, error) {
	var offer models.TicketOffer
	err := s.db.Preload("Show").
		Scopes(s.engine.Scope(&models.TicketOffer{}, tc)).
		Where("ticket_offers.id = ?", id).
		First(&offer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("票档不存在")
		}
		return nil, err
	}
	return &offer, nil
}

// ListOffers 获取场次下的票档列表
func (s *TicketService) ListOffers(showID uint, tc tenancy.Context) ([]models.TicketOffer, error) {
	var offers []models.TicketOffer
	err := s.db.Scopes(s.engine.Scope(&models.TicketOffer{}, tc)).
		Where("ticket_offers.show_id = ?", showID).
		Order("ticket_offers.price_cents DESC").
		Find(&offers).Error
	return offers, err
}

// OfferRemaining 票档余量，缓存未命中时回填
// 先在调用方上下文内解析票档，归属校验通过后才允许命中缓存，
// 防止他租户预热的计数被未过滤地读出
func (s *TicketService) OfferRemaining(ctx context.Context, id uint, tc tenancy.Context) (int, error) {
	offer, err := s.GetOfferByID(id, tc)
	if err != nil {
		return 0, err
	}

	if s.cache != nil {
		if remaining, err := s.cache.GetOfferRemaining(ctx, id); err == nil && remaining >= 0 {
			return remaining, nil
		}
	}

	remaining := offer.Remaining()
	if s.cache != nil {
		if err := s.cache.SetOfferRemaining(ctx, id, remaining, 5*time.Minute); err != nil {
			logger.GetLogger().Warnf("回填票档余量缓存失败: %v", err)
		}
	}
	return remaining, nil
}

// ExpireEndedOffersAllTenants 关闭售卖窗口已过的票档，跨租户维护路径
func (s *TicketService) ExpireEndedOffersAllTenants(tc tenancy.Context, now time.Time) (int64, error) {
	if !tc.IsSystem() {
		return 0, fmt.Errorf("跨租户维护操作需要系统上下文")
	}
	result := s.db.Model(&models.TicketOffer{}).
		Scopes(s.engine.Scope(&models.TicketOffer{}, tc)).
		Where("sale_end IS NOT NULL AND sale_end < ? AND status = ?", now, models.OfferStatusOpen).
		Updates(map[string]interface{}{"status": models.OfferStatusExpired, "closed_at": now})
	return result.RowsAffected, result.Error
}

// ========== 售票 ==========

// SellRequest 售票请求
type SellRequest struct {
	ShowID     uint
	OfferID    *uint
	BuyerName  string
	BuyerEmail string
	Quantity   int
}

// Sell 售票 - 扣减票档余量并生成售票记录，整体在一个事务内
func (s *TicketService) Sell(req *SellRequest, tc tenancy.Context) (*models.TicketSale, error) {
	if req.Quantity <= 0 {
		return nil, fmt.Errorf("购票数量必须大于0")
	}

	sale := &models.TicketSale{
		ShowID:     req.ShowID,
		OfferID:    req.OfferID,
		Serial:     uuid.NewString(),
		BuyerName:  req.BuyerName,
		BuyerEmail: req.BuyerEmail,
		Quantity:   req.Quantity,
		Status:     models.SaleStatusConfirmed,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var show models.Show
		err := tx.Scopes(s.engine.Scope(&models.Show{}, tc)).
			Where("shows.id = ?", req.ShowID).
			First(&show).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("场次不存在")
			}
			return err
		}
		if show.Status != models.ShowStatusOnSale {
			return fmt.Errorf("场次未在售票中")
		}

		sale.AmountCents = show.BasePriceCents * int64(req.Quantity)

		if req.OfferID != nil {
			var offer models.TicketOffer
			err := tx.Scopes(s.engine.Scope(&models.TicketOffer{}, tc)).
				Where("ticket_offers.id = ?", *req.OfferID).
				First(&offer).Error
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("票档不存在")
				}
				return err
			}
			if offer.ShowID != req.ShowID {
				return fmt.Errorf("票档不属于该场次")
			}
			if offer.Status != models.OfferStatusOpen {
				return fmt.Errorf("票档未开放售卖")
			}

			// 条件更新防止超卖
			result := tx.Model(&models.TicketOffer{}).
				Where("id = ? AND quota - sold >= ?", offer.ID, req.Quantity).
				Update("sold", gorm.Expr("sold + ?", req.Quantity))
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return fmt.Errorf("票档余量不足")
			}

			sale.AmountCents = offer.PriceCents * int64(req.Quantity)
		}

		return s.engine.Create(tx, sale, tc)
	})
	if err != nil {
		return nil, err
	}

	s.afterSale(sale, tc)
	return sale, nil
}

// afterSale 售出后的缓存维护与事件广播，失败只记日志不影响交易
func (s *TicketService) afterSale(sale *models.TicketSale, tc tenancy.Context) {
	if s.cache == nil {
		return
	}
	ctx := context.Background()

	if sale.OfferID != nil {
		if err := s.cache.DeleteOfferRemaining(ctx, *sale.OfferID); err != nil {
			logger.GetLogger().Warnf("失效票档余量缓存失败: %v", err)
		}
	}

	event := &cache.SaleEvent{
		SaleID:      sale.ID,
		ShowID:      sale.ShowID,
		TenantID:    tc.TenantID(),
		Serial:      sale.Serial,
		Quantity:    sale.Quantity,
		AmountCents: sale.AmountCents,
		Created:     time.Now().Unix(),
	}
	if err := s.cache.PublishSaleEvent(ctx, event); err != nil {
		logger.GetLogger().Warnf("广播售票事件失败: %v", err)
	}
}

// GetSaleByID 根据ID获取售票记录
func (s *TicketService) GetSaleByID(id uint, tc tenancy.Context) (*models.TicketSale, error) {
	var sale models.TicketSale
	err := s.db.Preload("Show").Preload("Offer").
		Scopes(s.engine.Scope(&models.TicketSale{}, tc)).
		Where("ticket_sales.id = ?", id).
		First(&sale).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("售票记录不存在")
		}
		return nil, err
	}
	return &sale, nil
}

// ListSales 分页获取售票记录
func (s *TicketService) ListSales(tc tenancy.Context, params *pagination.PageParams, showID uint) ([]models.TicketSale, int64, error) {
	var sales []models.TicketSale
	var total int64

	query := s.db.Model(&models.TicketSale{}).Scopes(s.engine.Scope(&models.TicketSale{}, tc))
	if showID > 0 {
		query = query.Where("ticket_sales.show_id = ?", showID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("ticket_sales.id DESC").
		Offset(params.GetOffset()).Limit(params.GetLimit()).
		Find(&sales).Error
	return sales, total, err
}

// Refund 退票 - 回补票档余量并标记记录
func (s *TicketService) Refund(id uint, tc tenancy.Context) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var sale models.TicketSale
		err := tx.Scopes(s.engine.Scope(&models.TicketSale{}, tc)).
			Where("ticket_sales.id = ?", id).
			First(&sale).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("售票记录不存在")
			}
			return err
		}
		if sale.Status == models.SaleStatusRefunded {
			return fmt.Errorf("该票已退")
		}

		if sale.OfferID != nil {
			err := tx.Model(&models.TicketOffer{}).
				Where("id = ?", *sale.OfferID).
				Update("sold", gorm.Expr("sold - ?", sale.Quantity)).Error
			if err != nil {
				return err
			}
		}

		return tx.Model(&sale).Update("status", models.SaleStatusRefunded).Error
	})
}
