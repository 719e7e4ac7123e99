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

// UserService 用户服务
type UserService struct {
	db     *gorm.DB
	engine *tenancy.Engine
}

// NewUserService 创建用户服务实例
func NewUserService(db *gorm.DB, engine *tenancy.Engine) *UserService {
	return &UserService{db: db, engine: engine}
}

// Create 创建用户
func (s *UserService) Create(user *models.User, password string, tc tenancy.Context) error {
	if err := user.SetPassword(password); err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&models.User{}).
			Where("username = ? OR email = ?", user.Username, user.Email).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("用户名或邮箱已存在")
		}

		return s.engine.Create(tx, user, tc)
	})
}

// GetByID 根据ID获取用户（认证路径，不做租户过滤）
func (s *UserService) GetByID(id uint) (*models.User, error) {
	var user models.User
	err := s.db.First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("用户不存在")
		}
		return nil, err
	}
	return &user, nil
}

// GetByUsername 根据用户名获取用户（登录路径）
func (s *UserService) GetByUsername(username string) (*models.User, error) {
	var user models.User
	err := s.db.Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("用户不存在")
		}
		return nil, err
	}
	return &user, nil
}

// Authenticate 用户名密码认证
func (s *UserService) Authenticate(username, password string) (*models.User, error) {
	user, err := s.GetByUsername(username)
	if err != nil {
		return nil, fmt.Errorf("用户名或密码错误")
	}
	if !user.CheckPassword(password) {
		return nil, fmt.Errorf("用户名或密码错误")
	}
	if !s.IsActive(user) {
		return nil, fmt.Errorf("用户已被禁用")
	}

	now := time.Now()
	_ = s.db.Model(user).Update("last_login_at", &now).Error
	return user, nil
}

// IsActive 用户是否可用
func (s *UserService) IsActive(user *models.User) bool {
	return user.Status == models.UserStatusActive
}

// List 分页获取租户内用户列表
func (s *UserService) List(tc tenancy.Context, params *pagination.PageParams) ([]models.User, int64, error) {
	var users []models.User
	var total int64

	query := s.db.Model(&models.User{}).Scopes(s.engine.Scope(&models.User{}, tc))

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("users.id").
		Offset(params.GetOffset()).Limit(params.GetLimit()).
		Find(&users).Error
	return users, total, err
}
