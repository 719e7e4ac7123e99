package tenancy

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// Scope 编译租户过滤谓词，返回注入查询的GORM作用域
// 系统上下文返回恒真作用域（显式放行）；根实体按 tenant_id 列过滤；
// 依赖实体逐条访问路径生成 EXISTS 子查询并取合取——所有父级都必须命中租户，
// 父级外键为空的行自然被 EXISTS 排除（视为无匹配，不报错）
func (r *Registry) Scope(entity Entity, tc Context) func(*gorm.DB) *gorm.DB {
	table := entity.TableName()
	return func(db *gorm.DB) *gorm.DB {
		cls, err := r.Lookup(table)
		if err != nil {
			db.AddError(err)
			return db
		}

		if tc.IsSystem() || cls.Kind == KindGlobal {
			return db
		}

		switch cls.Kind {
		case KindRoot:
			return db.Where(fmt.Sprintf("%s.tenant_id = ?", table), tc.TenantID())
		case KindDependent:
			for _, acc := range cls.Accessors {
				db = db.Where(existsClause(table, acc), tc.TenantID())
			}
			return db
		default:
			return db
		}
	}
}

// existsClause 为一条访问路径生成 EXISTS 子查询
//
// 一跳（shows 经 venue_id 到 venues）：
//
//	EXISTS (SELECT 1 FROM venues p1 WHERE p1.id = shows.venue_id AND p1.tenant_id = ?)
//
// 两跳（ticket_sales 经 show_id 到 shows，再经 venue_id 到 venues）：
//
//	EXISTS (SELECT 1 FROM shows p1 JOIN venues p2 ON p2.id = p1.venue_id
//	        WHERE p1.id = ticket_sales.show_id AND p2.tenant_id = ?)
func existsClause(table string, acc Accessor) string {
	var b strings.Builder
	fmt.Fprintf(&b, "EXISTS (SELECT 1 FROM %s p1", acc.Steps[0].Table)
	for i := 1; i < len(acc.Steps); i++ {
		fmt.Fprintf(&b, " JOIN %s p%d ON p%d.id = p%d.%s",
			acc.Steps[i].Table, i+1, i+1, i, acc.Steps[i].ForeignKey)
	}
	fmt.Fprintf(&b, " WHERE p1.id = %s.%s AND p%d.tenant_id = ?)",
		table, acc.Steps[0].ForeignKey, len(acc.Steps))
	return b.String()
}
