package services

import (
	"errors"
	"etick/internal/models"
	"etick/internal/tenancy"
	"etick/pkg/pagination"
	"fmt"

	"gorm.io/gorm"
)

// VenueService 场馆服务
type VenueService struct {
	db     *gorm.DB
	engine *tenancy.Engine
}

// NewVenueService 创建场馆服务实例
func NewVenueService(db *gorm.DB, engine *tenancy.Engine) *VenueService {
	return &VenueService{db: db, engine: engine}
}

// Create 创建场馆 - 租户ID由引擎从上下文盖章，不信任入参
func (s *VenueService) Create(venue *models.Venue, tc tenancy.Context) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		// 同租户下场馆名唯一
		var count int64
		err := tx.Model(&models.Venue{}).
			Scopes(s.engine.Scope(&models.Venue{}, tc)).
			Where("name = ?", venue.Name).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("场馆 %s 已存在", venue.Name)
		}

		return s.engine.Create(tx, venue, tc)
	})
}

// GetByID 根据ID获取场馆
func (s *VenueService) GetByID(id uint, tc tenancy.Context) (*models.Venue, error) {
	var venue models.Venue
	err := s.db.Scopes(s.engine.Scope(&models.Venue{}, tc)).
		Where("venues.id = ?", id).
		First(&venue).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("场馆不存在")
		}
		return nil, err
	}
	return &venue, nil
}

// List 分页获取场馆列表
func (s *VenueService) List(tc tenancy.Context, params *pagination.PageParams, city string) ([]models.Venue, int64, error) {
	var venues []models.Venue
	var total int64

	query := s.db.Model(&models.Venue{}).Scopes(s.engine.Scope(&models.Venue{}, tc))
	if city != "" {
		query = query.Where("city = ?", city)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("venues.id").
		Offset(params.GetOffset()).Limit(params.GetLimit()).
		Find(&venues).Error
	return venues, total, err
}

// Update 更新场馆
func (s *VenueService) Update(id uint, tc tenancy.Context, updates map[string]interface{}) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		venue, err := s.getForUpdate(tx, id, tc)
		if err != nil {
			return err
		}

		if name, ok := updates["name"]; ok {
			var count int64
			err = tx.Model(&models.Venue{}).
				Scopes(s.engine.Scope(&models.Venue{}, tc)).
				Where("name = ? AND venues.id != ?", name, id).
				Count(&count).Error
			if err != nil {
				return err
			}
			if count > 0 {
				return fmt.Errorf("场馆 %s 已存在", name)
			}
		}

		return s.engine.Update(tx, venue, tc, updates)
	})
}

// Delete 删除场馆 - 按边策略级联撤销场次及其票务数据
func (s *VenueService) Delete(id uint, tc tenancy.Context) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		venue, err := s.getForUpdate(tx, id, tc)
		if err != nil {
			return err
		}
		return s.engine.Delete(tx, venue, venue.ID)
	})
}

// getForUpdate 事务内按租户上下文取出场馆
func (s *VenueService) getForUpdate(tx *gorm.DB, id uint, tc tenancy.Context) (*models.Venue, error) {
	var venue models.Venue
	err := tx.Scopes(s.engine.Scope(&models.Venue{}, tc)).
		Where("venues.id = ?", id).
		First(&venue).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("场馆不存在")
		}
		return nil, err
	}
	return &venue, nil
}
