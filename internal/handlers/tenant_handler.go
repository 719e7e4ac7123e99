package handlers

import (
	"etick/internal/models"
	"etick/internal/services"
	"etick/pkg/pagination"
	"etick/pkg/response"
	"strconv"

	"github.com/gin-gonic/gin"
)

// TenantHandler 租户处理器 - 仅挂载在平台管理路由组
type TenantHandler struct {
	tenantService *services.TenantService
}

// NewTenantHandler 创建租户处理器实例
func NewTenantHandler(tenantService *services.TenantService) *TenantHandler {
	return &TenantHandler{tenantService: tenantService}
}

// Create 创建租户
func (h *TenantHandler) Create(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required,min=1,max=100"`
		Code string `json:"code" binding:"required,min=1,max=50"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	tenant := &models.Tenant{
		Name:   req.Name,
		Code:   req.Code,
		Status: models.TenantStatusActive,
	}

	if err := h.tenantService.Create(tenant); err != nil {
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, tenant)
}

// GetByID 获取租户详情
func (h *TenantHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "无效的租户ID")
		return
	}

	tenant, err := h.tenantService.GetByID(uint(id))
	if err != nil {
		response.NotFound(c, err.Error())
		return
	}

	response.Success(c, tenant)
}

// List 获取租户列表
func (h *TenantHandler) List(c *gin.Context) {
	params := pagination.ParsePageParams(c)

	tenants, total, err := h.tenantService.List(params.Page, params.PageSize)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}

	response.SuccessWithPage(c, tenants, pagination.NewPageInfo(params.Page, params.PageSize, total))
}

// UpdateStatus 更新租户状态
func (h *TenantHandler) UpdateStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "无效的租户ID")
		return
	}

	var req struct {
		Status string `json:"status" binding:"required,oneof=active inactive"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.tenantService.UpdateStatus(uint(id), req.Status); err != nil {
		response.ServerError(c, err.Error())
		return
	}

	response.SuccessWithMessage(c, "租户状态已更新", nil)
}
