package handlers

import (
	"etick/internal/middleware"
	"etick/internal/models"
	"etick/internal/services"
	"etick/pkg/jwt"
	"etick/pkg/pagination"
	"etick/pkg/response"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// ShowHandler 场次处理器
type ShowHandler struct {
	showService *services.ShowService
}

// NewShowHandler 创建场次处理器实例
func NewShowHandler(showService *services.ShowService) *ShowHandler {
	return &ShowHandler{showService: showService}
}

// Create 创建场次
func (h *ShowHandler) Create(c *gin.Context) {
	claims := c.MustGet("claims").(*jwt.JWTClaims)

	var req struct {
		VenueID        uint      `json:"venue_id" binding:"required"`
		ActID          uint      `json:"act_id" binding:"required"`
		Title          string    `json:"title" binding:"required,min=1,max=200"`
		StartsAt       time.Time `json:"starts_at" binding:"required"`
		EndsAt         time.Time `json:"ends_at" binding:"required"`
		BasePriceCents int64     `json:"base_price_cents" binding:"min=0"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	show := &models.Show{
		VenueID:        req.VenueID,
		ActID:          req.ActID,
		Title:          req.Title,
		StartsAt:       req.StartsAt,
		EndsAt:         req.EndsAt,
		BasePriceCents: req.BasePriceCents,
		Status:         models.ShowStatusScheduled,
		CreatedBy:      claims.UserID,
		UpdatedBy:      claims.UserID,
	}

	if err := h.showService.Create(show, middleware.TenantContext(c)); err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, show)
}

// GetByID 获取场次详情
func (h *ShowHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "无效的场次ID")
		return
	}

	show, err := h.showService.GetByID(uint(id), middleware.TenantContext(c))
	if err != nil {
		response.NotFound(c, err.Error())
		return
	}

	response.Success(c, show)
}

// List 获取场次列表
func (h *ShowHandler) List(c *gin.Context) {
	params := pagination.ParsePageParams(c)
	status := c.Query("status")

	shows, total, err := h.showService.List(middleware.TenantContext(c), params, status)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.SuccessWithPage(c, shows, pagination.NewPageInfo(params.Page, params.PageSize, total))
}

// Update 更新场次
func (h *ShowHandler) Update(c *gin.Context) {
	claims := c.MustGet("claims").(*jwt.JWTClaims)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "无效的场次ID")
		return
	}

	var req map[string]interface{}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	req["updated_by"] = claims.UserID

	if err := h.showService.Update(uint(id), middleware.TenantContext(c), req); err != nil {
		writeServiceError(c, err)
		return
	}

	response.SuccessWithMessage(c, "场次已更新", nil)
}

// UpdateStatus 更新场次状态
func (h *ShowHandler) UpdateStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "无效的场次ID")
		return
	}

	var req struct {
		Status string `json:"status" binding:"required,oneof=scheduled on_sale finished cancelled"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.showService.UpdateStatus(uint(id), middleware.TenantContext(c), req.Status); err != nil {
		writeServiceError(c, err)
		return
	}

	response.SuccessWithMessage(c, "场次状态已更新", nil)
}

// Delete 删除场次
func (h *ShowHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "无效的场次ID")
		return
	}

	if err := h.showService.Delete(uint(id), middleware.TenantContext(c)); err != nil {
		writeServiceError(c, err)
		return
	}

	response.SuccessWithMessage(c, "场次已删除", nil)
}
