package handlers

import (
	"etick/internal/middleware"
	"etick/internal/models"
	"etick/internal/services"
	"etick/pkg/jwt"
	"etick/pkg/pagination"
	"etick/pkg/response"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ActHandler 演出团体处理器
type ActHandler struct {
	actService *services.ActService
}

// NewActHandler 创建演出团体处理器实例
func NewActHandler(actService *services.ActService) *ActHandler {
	return &ActHandler{actService: actService}
}

// Create 创建演出团体
func (h *ActHandler) Create(c *gin.Context) {
	claims := c.MustGet("claims").(*jwt.JWTClaims)

	var req struct {
		Name        string `json:"name" binding:"required,min=1,max=100"`
		Genre       string `json:"genre" binding:"max=50"`
		Description string `json:"description" binding:"max=500"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	act := &models.Act{
		Name:        req.Name,
		Genre:       req.Genre,
		Description: req.Description,
		IsActive:    true,
		CreatedBy:   claims.UserID,
		UpdatedBy:   claims.UserID,
	}

	if err := h.actService.Create(act, middleware.TenantContext(c)); err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, act)
}

// GetByID 获取演出团体详情
func (h *ActHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "无效的团体ID")
		return
	}

	act, err := h.actService.GetByID(uint(id), middleware.TenantContext(c))
	if err != nil {
		response.NotFound(c, err.Error())
		return
	}

	response.Success(c, act)
}

// List 获取演出团体列表
func (h *ActHandler) List(c *gin.Context) {
	params := pagination.ParsePageParams(c)
	genre := c.Query("genre")

	acts, total, err := h.actService.List(middleware.TenantContext(c), params, genre)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.SuccessWithPage(c, acts, pagination.NewPageInfo(params.Page, params.PageSize, total))
}

// Update 更新演出团体
func (h *ActHandler) Update(c *gin.Context) {
	claims := c.MustGet("claims").(*jwt.JWTClaims)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "无效的团体ID")
		return
	}

	var req map[string]interface{}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	req["updated_by"] = claims.UserID

	if err := h.actService.Update(uint(id), middleware.TenantContext(c), req); err != nil {
		writeServiceError(c, err)
		return
	}

	response.SuccessWithMessage(c, "演出团体已更新", nil)
}

// Delete 删除演出团体
func (h *ActHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "无效的团体ID")
		return
	}

	if err := h.actService.Delete(uint(id), middleware.TenantContext(c)); err != nil {
		writeServiceError(c, err)
		return
	}

	response.SuccessWithMessage(c, "演出团体已删除", nil)
}
