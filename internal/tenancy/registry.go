package tenancy

import "fmt"

// Kind 实体的租户分类
type Kind int

const (
	// KindGlobal 全局实体（如租户表本身），显式豁免过滤
	KindGlobal Kind = iota
	// KindRoot 根实体，自带 tenant_id 列
	KindRoot
	// KindDependent 依赖实体，租户沿关系路径从根实体推导
	KindDependent
)

// DeletePolicy 关系边上的删除策略
// 每条边必须显式选择级联或限制，不依赖数据库声明顺序的偶然行为
type DeletePolicy int

const (
	// DeleteCascade 删除父级时由应用层级联删除子级
	DeleteCascade DeletePolicy = iota
	// DeleteRestrict 存在子级时拒绝删除父级
	DeleteRestrict
)

// Step 访问路径中的一跳：当前表上的外键列指向的父表
type Step struct {
	Table      string       // 父表表名
	ForeignKey string       // 外键列名（位于这一跳的子表上）
	OnDelete   DeletePolicy // 这条边的删除策略
}

// Accessor 从依赖实体到某个根实体的一条完整访问路径（1~2跳）
type Accessor struct {
	Name  string // 路径名，如 venue / act / show，用于错误定位
	Steps []Step
}

// Classification 单个实体的分类结果
type Classification struct {
	Kind      Kind
	Accessors []Accessor // 仅 KindDependent 使用
}

// Entity 所有受管实体的最小约束
type Entity interface {
	TableName() string
}

// RootEntity 根实体：直接持有租户ID
type RootEntity interface {
	Entity
	GetTenantID() uint
	SetTenantID(uint)
}

// DependentEntity 依赖实体：按访问路径名暴露外键值
// ok 为 false 表示该路径外键未设置（可空外键）
type DependentEntity interface {
	Entity
	ParentRef(accessor string) (id uint, ok bool)
}

// Registry 实体分类注册表 - 进程启动时构建一次，之后只读共享
// 是"冗余列 vs 关系推导"唯一的决策点，过滤器与校验器都只查这里
type Registry struct {
	entries map[string]Classification
}

// NewRegistry 创建空注册表
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Classification)}
}

// RegisterGlobal 登记全局实体（显式豁免租户过滤）
func (r *Registry) RegisterGlobal(table string) {
	r.entries[table] = Classification{Kind: KindGlobal}
}

// RegisterRoot 登记根实体
func (r *Registry) RegisterRoot(table string) {
	r.entries[table] = Classification{Kind: KindRoot}
}

// RegisterDependent 登记依赖实体及其全部父级访问路径
func (r *Registry) RegisterDependent(table string, accessors ...Accessor) {
	if len(accessors) == 0 {
		panic(fmt.Sprintf("依赖实体 %s 至少需要一条父级访问路径", table))
	}
	for _, acc := range accessors {
		if len(acc.Steps) == 0 || len(acc.Steps) > 2 {
			panic(fmt.Sprintf("实体 %s 的访问路径 %s 跳数必须为1或2", table, acc.Name))
		}
	}
	r.entries[table] = Classification{Kind: KindDependent, Accessors: accessors}
}

// Lookup 查询实体分类，未登记返回 UnclassifiedEntityError
// 查询是纯读操作，同一实体重复查询结果恒定
func (r *Registry) Lookup(table string) (Classification, error) {
	cls, ok := r.entries[table]
	if !ok {
		return Classification{}, &UnclassifiedEntityError{Table: table}
	}
	return cls, nil
}

// CheckComplete 启动完整性检查：迁移清单中的每张表都必须有分类
// 任何一张表缺失都视为编程错误，直接失败，不允许默认不过滤
func (r *Registry) CheckComplete(tables []string) error {
	for _, t := range tables {
		if _, ok := r.entries[t]; !ok {
			return &UnclassifiedEntityError{Table: t}
		}
	}
	return nil
}

// dependentsOf 返回以指定表为直接父级的所有边（删除时反向遍历用）
func (r *Registry) dependentsOf(table string) []edge {
	var edges []edge
	for child, cls := range r.entries {
		if cls.Kind != KindDependent {
			continue
		}
		for _, acc := range cls.Accessors {
			if acc.Steps[0].Table == table {
				edges = append(edges, edge{
					childTable: child,
					foreignKey: acc.Steps[0].ForeignKey,
					onDelete:   acc.Steps[0].OnDelete,
				})
			}
		}
	}
	return edges
}

// edge 反向关系边：父表 -> 子表
type edge struct {
	childTable string
	foreignKey string
	onDelete   DeletePolicy
}
