package services

import (
	"errors"
	"etick/internal/models"
	"etick/internal/tenancy"
	"etick/pkg/pagination"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// ShowService 场次服务
type ShowService struct {
	db     *gorm.DB
	engine *tenancy.Engine
}

// NewShowService 创建场次服务实例
func NewShowService(db *gorm.DB, engine *tenancy.Engine) *ShowService {
	return &ShowService{db: db, engine: engine}
}

// Create 创建场次 - 场馆与团体必须属于上下文租户，跨租户组合在落库前被拒绝
func (s *ShowService) Create(show *models.Show, tc tenancy.Context) error {
	if !show.EndsAt.After(show.StartsAt) {
		return fmt.Errorf("结束时间必须晚于开始时间")
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		return s.engine.Create(tx, show, tc)
	})
}

// GetByID 根据ID获取场次
func (s *ShowService) GetByID(id uint, tc tenancy.Context) (*models.Show, error) {
	var show models.Show
	err := s.db.Preload("Venue").Preload("Act").
		Scopes(s.engine.Scope(&models.Show{}, tc)).
		Where("shows.id = ?", id).
		First(&show).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("场次不存在")
		}
		return nil, err
	}
	return &show, nil
}

// List 分页获取场次列表
func (s *ShowService) List(tc tenancy.Context, params *pagination.PageParams, status string) ([]models.Show, int64, error) {
	var shows []models.Show
	var total int64

	query := s.db.Model(&models.Show{}).Scopes(s.engine.Scope(&models.Show{}, tc))
	if status != "" {
		query = query.Where("shows.status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("Venue").Preload("Act").
		Order("shows.starts_at").
		Offset(params.GetOffset()).Limit(params.GetLimit()).
		Find(&shows).Error
	return shows, total, err
}

// Update 更新场次 - 改动父级外键时重新校验租户一致性
func (s *ShowService) Update(id uint, tc tenancy.Context, updates map[string]interface{}) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		show, err := s.getForUpdate(tx, id, tc)
		if err != nil {
			return err
		}

		// 先把新外键写到实体上，校验器按新值解析父级
		if v, ok := updates["venue_id"]; ok {
			show.VenueID = toUint(v)
		}
		if v, ok := updates["act_id"]; ok {
			show.ActID = toUint(v)
		}

		return s.engine.Update(tx, show, tc, updates)
	})
}

// UpdateStatus 更新场次状态
func (s *ShowService) UpdateStatus(id uint, tc tenancy.Context, status string) error {
	switch status {
	case models.ShowStatusScheduled, models.ShowStatusOnSale,
		models.ShowStatusFinished, models.ShowStatusCancelled:
	default:
		return fmt.Errorf("无效的场次状态: %s", status)
	}
	return s.Update(id, tc, map[string]interface{}{"status": status})
}

// Delete 删除场次 - 级联删除票档与售票记录
func (s *ShowService) Delete(id uint, tc tenancy.Context) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		show, err := s.getForUpdate(tx, id, tc)
		if err != nil {
			return err
		}
		return s.engine.Delete(tx, show, show.ID)
	})
}

// FinishPastShowsAllTenants 把已过结束时间的场次标记为已结束，返回处理数量
// 跨租户维护路径，只允许调度器以系统上下文调用
func (s *ShowService) FinishPastShowsAllTenants(tc tenancy.Context, now time.Time) (int64, error) {
	if !tc.IsSystem() {
		return 0, fmt.Errorf("跨租户维护操作需要系统上下文")
	}
	result := s.db.Model(&models.Show{}).
		Scopes(s.engine.Scope(&models.Show{}, tc)).
		Where("ends_at < ? AND status IN ?", now,
			[]string{models.ShowStatusScheduled, models.ShowStatusOnSale}).
		Update("status", models.ShowStatusFinished)
	return result.RowsAffected, result.Error
}

// getForUpdate 事务内按租户上下文取出场次
func (s *ShowService) getForUpdate(tx *gorm.DB, id uint, tc tenancy.Context) (*models.Show, error) {
	var show models.Show
	err := tx.Scopes(s.engine.Scope(&models.Show{}, tc)).
		Where("shows.id = ?", id).
		First(&show).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("场次不存在")
		}
		return nil, err
	}
	return &show, nil
}

// toUint 兼容JSON数字与uint入参
func toUint(v interface{}) uint {
	switch n := v.(type) {
	case uint:
		return n
	case int:
		return uint(n)
	case int64:
		return uint(n)
	case float64:
		return uint(n)
	}
	return 0
}
