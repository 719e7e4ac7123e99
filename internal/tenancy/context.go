package tenancy

// Context 租户上下文 - 每个逻辑操作构造一次，只读传递，不跨请求共享
// 要么携带一个有效租户ID，要么是显式的系统哨兵（平台管理员跨租户操作专用）
type Context struct {
	tenantID uint
	system   bool
}

// NewContext 构造指定租户的上下文
func NewContext(tenantID uint) Context {
	return Context{tenantID: tenantID}
}

// SystemContext 构造系统哨兵上下文
// 这是唯一合法的跨租户入口，调用点必须是显式的管理路径，不能作为默认值
func SystemContext() Context {
	return Context{system: true}
}

// TenantID 当前租户ID，系统上下文返回0（0不是合法租户ID）
func (c Context) TenantID() uint {
	if c.system {
		return 0
	}
	return c.tenantID
}

// IsSystem 是否为系统哨兵上下文
func (c Context) IsSystem() bool {
	return c.system
}

// Valid 是否携带可用的租户身份（有效租户或系统哨兵）
func (c Context) Valid() bool {
	return c.system || c.tenantID > 0
}
