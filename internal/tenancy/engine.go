package tenancy

import "gorm.io/gorm"

// Engine 租户隔离引擎门面 - 服务层统一经由这里读写受管实体
type Engine struct {
	registry *Registry
}

// NewEngine 创建引擎实例
func NewEngine(registry *Registry) *Engine {
	return &Engine{registry: registry}
}

// Registry 暴露只读注册表
func (e *Engine) Registry() *Registry {
	return e.registry
}

// Scope 编译查询过滤作用域，所有读路径必须套用
func (e *Engine) Scope(entity Entity, tc Context) func(*gorm.DB) *gorm.DB {
	return e.registry.Scope(entity, tc)
}

// Create 受管写入：盖章 -> 父级校验 -> 插入，三步固定顺序且同在一个事务内
// 任何一步失败都不落库
func (e *Engine) Create(tx *gorm.DB, entity Entity, tc Context) error {
	if err := e.registry.Stamp(entity, tc); err != nil {
		return err
	}
	if err := e.registry.ValidateWrite(tx, entity, tc); err != nil {
		return err
	}
	return tx.Create(entity).Error
}

// Update 受管更新：根实体的 tenant_id 不可变，依赖实体改动外键时重新校验父级
func (e *Engine) Update(tx *gorm.DB, entity Entity, tc Context, updates map[string]interface{}) error {
	cls, err := e.registry.Lookup(entity.TableName())
	if err != nil {
		return err
	}

	// 租户归属创建后不可变，静默丢弃任何改写企图
	delete(updates, "tenant_id")

	if cls.Kind == KindDependent {
		if err := e.registry.ValidateWrite(tx, entity, tc); err != nil {
			return err
		}
	}
	return tx.Model(entity).Updates(updates).Error
}

// Delete 受管删除：按边策略级联或拒绝
func (e *Engine) Delete(tx *gorm.DB, entity Entity, id uint) error {
	return e.registry.DeleteWithDependents(tx, entity, id)
}
