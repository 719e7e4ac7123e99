package handlers

import (
	"errors"
	"etick/internal/tenancy"
	"etick/pkg/response"

	"github.com/gin-gonic/gin"
)

// writeServiceError 把服务层错误翻译为统一响应
// 租户引擎的类型化错误都是编程或数据一致性错误，原样拒绝，不做重试
func writeServiceError(c *gin.Context, err error) {
	var mismatch *tenancy.TenantMismatchError
	var missing *tenancy.MissingTenantContextError
	var conflict *tenancy.CascadeConflictError
	var unclassified *tenancy.UnclassifiedEntityError

	switch {
	case errors.As(err, &mismatch):
		response.Forbidden(c, mismatch.Error())
	case errors.As(err, &missing):
		response.BadRequest(c, missing.Error())
	case errors.As(err, &conflict):
		response.Conflict(c, conflict.Error())
	case errors.As(err, &unclassified):
		response.ServerError(c, unclassified.Error())
	default:
		response.ServerError(c, err.Error())
	}
}
