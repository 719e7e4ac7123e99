package services

import (
	"errors"
	"etick/internal/models"
	"etick/internal/tenancy"
	"etick/pkg/pagination"
	"fmt"

	"gorm.io/gorm"
)

// ActService 演出团体服务
type ActService struct {
	db     *gorm.DB
	engine *tenancy.Engine
}

// NewActService 创建演出团体服务实例
func NewActService(db *gorm.DB, engine *tenancy.Engine) *ActService {
	return &ActService{db: db, engine: engine}
}

// Create 创建演出团体
func (s *ActService) Create(act *models.Act, tc tenancy.Context) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&models.Act{}).
			Scopes(s.engine.Scope(&models.Act{}, tc)).
			Where("name = ?", act.Name).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("演出团体 %s 已存在", act.Name)
		}

		return s.engine.Create(tx, act, tc)
	})
}

// GetByID 根据ID获取演出团体
func (s *ActService) GetByID(id uint, tc tenancy.Context) (*models.Act, error) {
	var act models.Act
	err := s.db.Scopes(s.engine.Scope(&models.Act{}, tc)).
		Where("acts.id = ?", id).
		First(&act).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("演出团体不存在")
		}
		return nil, err
	}
	return &act, nil
}

// List 分页获取演出团体列表
func (s *ActService) List(tc tenancy.Context, params *pagination.PageParams, genre string) ([]models.Act, int64, error) {
	var acts []models.Act
	var total int64

	query := s.db.Model(&models.Act{}).Scopes(s.engine.Scope(&models.Act{}, tc))
	if genre != "" {
		query = query.Where("genre = ?", genre)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("acts.id").
		Offset(params.GetOffset()).Limit(params.GetLimit()).
		Find(&acts).Error
	return acts, total, err
}

// Update 更新演出团体
func (s *ActService) Update(id uint, tc tenancy.Context, updates map[string]interface{}) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		act, err := s.getForUpdate(tx, id, tc)
		if err != nil {
			return err
		}
		return s.engine.Update(tx, act, tc, updates)
	})
}

// Delete 删除演出团体 - acts 到 shows 的边为限制策略，存在排期时拒绝
func (s *ActService) Delete(id uint, tc tenancy.Context) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		act, err := s.getForUpdate(tx, id, tc)
		if err != nil {
			return err
		}
		return s.engine.Delete(tx, act, act.ID)
	})
}

// getForUpdate 事务内按租户上下文取出演出团体
func (s *ActService) getForUpdate(tx *gorm.DB, id uint, tc tenancy.Context) (*models.Act, error) {
	var act models.Act
	err := tx.Scopes(s.engine.Scope(&models.Act{}, tc)).
		Where("acts.id = ?", id).
		First(&act).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("演出团体不存在")
		}
		return nil, err
	}
	return &act, nil
}
