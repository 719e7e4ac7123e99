package tenancy

import "fmt"

// UnclassifiedEntityError 实体未在租户分类注册表中登记
// 属于编程错误，启动阶段完整性检查时触发，不允许运行期兜底
type UnclassifiedEntityError struct {
	Table string
}

func (e *UnclassifiedEntityError) Error() string {
	return fmt.Sprintf("实体 %s 未登记租户分类", e.Table)
}

// MissingTenantContextError 在系统上下文中尝试创建根实体
type MissingTenantContextError struct {
	Table string
}

func (e *MissingTenantContextError) Error() string {
	return fmt.Sprintf("创建 %s 需要有效的租户上下文", e.Table)
}

// TenantMismatchError 依赖实体的父级租户不一致
// Accessor 指出哪条父级访问路径出现分歧
type TenantMismatchError struct {
	Table    string
	Accessor string
	Want     uint
	Got      uint
}

func (e *TenantMismatchError) Error() string {
	if e.Got == 0 {
		return fmt.Sprintf("%s 的父级 %s 不存在或无法解析租户", e.Table, e.Accessor)
	}
	return fmt.Sprintf("%s 的父级 %s 属于租户 %d，与租户 %d 不一致", e.Table, e.Accessor, e.Got, e.Want)
}

// CascadeConflictError 删除根实体时存在受限的依赖实体
type CascadeConflictError struct {
	Table     string
	Dependent string
	Count     int64
}

func (e *CascadeConflictError) Error() string {
	return fmt.Sprintf("无法删除 %s：存在 %d 条关联的 %s 记录", e.Table, e.Count, e.Dependent)
}
