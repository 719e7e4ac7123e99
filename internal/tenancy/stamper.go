package tenancy

// Stamp 写入前的租户盖章 - 显式的前置流水线阶段，必须先于校验执行
//
// 根实体：无条件用上下文租户覆盖 TenantID，调用方传入的任何值都不可信
// （租户归属是安全不变量，不接受请求输入）；系统上下文下创建根实体是
// 配置错误，不存在"无主"的根实体。依赖实体不盖章，租户由父级关系推导。
func (r *Registry) Stamp(entity Entity, tc Context) error {
	cls, err := r.Lookup(entity.TableName())
	if err != nil {
		return err
	}

	if cls.Kind != KindRoot {
		return nil
	}

	if tc.IsSystem() || !tc.Valid() {
		return &MissingTenantContextError{Table: entity.TableName()}
	}

	root, ok := entity.(RootEntity)
	if !ok {
		return &UnclassifiedEntityError{Table: entity.TableName()}
	}
	root.SetTenantID(tc.TenantID())
	return nil
}
