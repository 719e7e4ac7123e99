package tenancy

import (
	"fmt"

	"gorm.io/gorm"
)

// ValidateWrite 写入前的引用完整性校验，必须在盖章之后、落库之前，
// 且与插入处于同一事务中执行，校验失败时整个写入回滚，不留部分状态
//
// 依赖实体：逐条访问路径解析终点根实体的租户；任意路径之间不一致，
// 或与上下文租户不一致（系统上下文除外），返回 TenantMismatchError
// 并指出出错的路径。根实体与全局实体无需校验。
func (r *Registry) ValidateWrite(tx *gorm.DB, entity Entity, tc Context) error {
	cls, err := r.Lookup(entity.TableName())
	if err != nil {
		return err
	}
	if cls.Kind != KindDependent {
		return nil
	}

	dep, ok := entity.(DependentEntity)
	if !ok {
		return &UnclassifiedEntityError{Table: entity.TableName()}
	}

	// 逐路径解析父级租户，要求全部一致
	var resolved uint
	for _, acc := range cls.Accessors {
		fk, ok := dep.ParentRef(acc.Name)
		if !ok {
			// 可空外键未设置，跳过该路径
			continue
		}
		tenantID, err := r.resolveTenant(tx, acc, fk)
		if err != nil {
			return err
		}
		if tenantID == 0 {
			return &TenantMismatchError{Table: entity.TableName(), Accessor: acc.Name, Want: tc.TenantID()}
		}
		if resolved == 0 {
			resolved = tenantID
		} else if tenantID != resolved {
			return &TenantMismatchError{
				Table:    entity.TableName(),
				Accessor: acc.Name,
				Want:     resolved,
				Got:      tenantID,
			}
		}
		if !tc.IsSystem() && tenantID != tc.TenantID() {
			return &TenantMismatchError{
				Table:    entity.TableName(),
				Accessor: acc.Name,
				Want:     tc.TenantID(),
				Got:      tenantID,
			}
		}
	}
	return nil
}

// resolveTenant 沿访问路径逐跳查询，返回终点根实体的租户ID
// 链上任何一环不存在则返回0（由调用方判定为不匹配）
func (r *Registry) resolveTenant(tx *gorm.DB, acc Accessor, id uint) (uint, error) {
	for i, step := range acc.Steps {
		last := i == len(acc.Steps)-1
		var column string
		if last {
			column = "tenant_id"
		} else {
			column = acc.Steps[i+1].ForeignKey
		}

		// Scan 无匹配行时不报错，next 保持0，统一按链断裂处理
		var next uint
		err := tx.Table(step.Table).Select(column).Where("id = ?", id).Scan(&next).Error
		if err != nil {
			return 0, err
		}
		if next == 0 {
			return 0, nil
		}
		id = next
	}
	return id, nil
}

// DeleteWithDependents 按注册表中每条边的删除策略删除实体及其依赖
//
// 两阶段执行：先检查全部 Restrict 边，存在子级即拒绝（CascadeConflictError），
// 不产生任何删除；通过后对 Cascade 边深度优先级联删除，最后删除实体本身。
// 级联在应用层完成，不依赖存储引擎对多重级联的支持。
func (r *Registry) DeleteWithDependents(tx *gorm.DB, entity Entity, id uint) error {
	table := entity.TableName()
	if _, err := r.Lookup(table); err != nil {
		return err
	}

	// 第一阶段：限制边检查
	for _, e := range r.dependentsOf(table) {
		if e.onDelete != DeleteRestrict {
			continue
		}
		var count int64
		err := tx.Table(e.childTable).Where(fmt.Sprintf("%s = ?", e.foreignKey), id).Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return &CascadeConflictError{Table: table, Dependent: e.childTable, Count: count}
		}
	}

	// 第二阶段：级联边深度优先删除
	for _, e := range r.dependentsOf(table) {
		if e.onDelete != DeleteCascade {
			continue
		}
		if err := r.cascadeDelete(tx, e.childTable, e.foreignKey, id); err != nil {
			return err
		}
	}

	return tx.Table(table).Where("id = ?", id).Delete(nil).Error
}

// cascadeDelete 删除指定父级下的所有子级，先递归处理孙级
func (r *Registry) cascadeDelete(tx *gorm.DB, childTable, foreignKey string, parentID uint) error {
	var childIDs []uint
	err := tx.Table(childTable).Select("id").
		Where(fmt.Sprintf("%s = ?", foreignKey), parentID).Scan(&childIDs).Error
	if err != nil {
		return err
	}

	for _, childID := range childIDs {
		for _, e := range r.dependentsOf(childTable) {
			if e.onDelete == DeleteRestrict {
				var count int64
				err := tx.Table(e.childTable).Where(fmt.Sprintf("%s = ?", e.foreignKey), childID).Count(&count).Error
				if err != nil {
					return err
				}
				if count > 0 {
					return &CascadeConflictError{Table: childTable, Dependent: e.childTable, Count: count}
				}
				continue
			}
			if err := r.cascadeDelete(tx, e.childTable, e.foreignKey, childID); err != nil {
				return err
			}
		}
	}

	if len(childIDs) > 0 {
		return tx.Table(childTable).Where(fmt.Sprintf("%s = ?", foreignKey), parentID).Delete(nil).Error
	}
	return nil
}
