package database

import (
	"etick/internal/tenancy"
)

// BuildTenancyRegistry 构建实体分类注册表 - 全部受管实体在此一次性声明
//
// 删除策略为每条边的显式选择：
//   - venues -> shows 级联（场馆下线即撤场次）
//   - acts -> shows 限制（有排期的团体不允许直接删除，需先清理场次）
//   - shows -> ticket_offers / ticket_sales 级联
//
// 双亲各自级联同一子级在存储层无法同时声明，级联统一由应用层执行
func BuildTenancyRegistry() *tenancy.Registry {
	reg := tenancy.NewRegistry()

	reg.RegisterGlobal("tenants")

	reg.RegisterRoot("venues")
	reg.RegisterRoot("acts")
	reg.RegisterRoot("users")

	reg.RegisterDependent("shows",
		tenancy.Accessor{
			Name: "venue",
			Steps: []tenancy.Step{
				{Table: "venues", ForeignKey: "venue_id", OnDelete: tenancy.DeleteCascade},
			},
		},
		tenancy.Accessor{
			Name: "act",
			Steps: []tenancy.Step{
				{Table: "acts", ForeignKey: "act_id", OnDelete: tenancy.DeleteRestrict},
			},
		},
	)

	reg.RegisterDependent("ticket_offers",
		tenancy.Accessor{
			Name: "show",
			Steps: []tenancy.Step{
				{Table: "shows", ForeignKey: "show_id", OnDelete: tenancy.DeleteCascade},
				{Table: "venues", ForeignKey: "venue_id", OnDelete: tenancy.DeleteCascade},
			},
		},
	)

	reg.RegisterDependent("ticket_sales",
		tenancy.Accessor{
			Name: "show",
			Steps: []tenancy.Step{
				{Table: "shows", ForeignKey: "show_id", OnDelete: tenancy.DeleteCascade},
				{Table: "venues", ForeignKey: "venue_id", OnDelete: tenancy.DeleteCascade},
			},
		},
	)

	return reg
}
