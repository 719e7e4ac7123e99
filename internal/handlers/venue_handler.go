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
	"gorm.io/datatypes"
)

// VenueHandler 场馆处理器
type VenueHandler struct {
	venueService *services.VenueService
}

// NewVenueHandler 创建场馆处理器实例
func NewVenueHandler(venueService *services.VenueService) *VenueHandler {
	return &VenueHandler{venueService: venueService}
}

// Create 创建场馆
func (h *VenueHandler) Create(c *gin.Context) {
	claims := c.MustGet("claims").(*jwt.JWTClaims)

	var req struct {
		Name       string         `json:"name" binding:"required,min=1,max=100"`
		Address    string         `json:"address" binding:"max=255"`
		City       string         `json:"city" binding:"max=100"`
		Capacity   int            `json:"capacity" binding:"min=0"`
		Facilities datatypes.JSON `json:"facilities"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	// TenantID 留空，由租户引擎盖章
	venue := &models.Venue{
		Name:       req.Name,
		Address:    req.Address,
		City:       req.City,
		Capacity:   req.Capacity,
		Facilities: req.Facilities,
		IsActive:   true,
		CreatedBy:  claims.UserID,
		UpdatedBy:  claims.UserID,
	}

	if err := h.venueService.Create(venue, middleware.TenantContext(c)); err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, venue)
}

// GetByID 获取场馆详情
func (h *VenueHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "无效的场馆ID")
		return
	}

	venue, err := h.venueService.GetByID(uint(id), middleware.TenantContext(c))
	if err != nil {
		response.NotFound(c, err.Error())
		return
	}

	response.Success(c, venue)
}

// List 获取场馆列表
func (h *VenueHandler) List(c *gin.Context) {
	params := pagination.ParsePageParams(c)
	city := c.Query("city")

	venues, total, err := h.venueService.List(middleware.TenantContext(c), params, city)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.SuccessWithPage(c, venues, pagination.NewPageInfo(params.Page, params.PageSize, total))
}

// Update 更新场馆
func (h *VenueHandler) Update(c *gin.Context) {
	claims := c.MustGet("claims").(*jwt.JWTClaims)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "无效的场馆ID")
		return
	}

	var req map[string]interface{}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	req["updated_by"] = claims.UserID

	if err := h.venueService.Update(uint(id), middleware.TenantContext(c), req); err != nil {
		writeServiceError(c, err)
		return
	}

	response.SuccessWithMessage(c, "场馆已更新", nil)
}

// Delete 删除场馆
func (h *VenueHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "无效的场馆ID")
		return
	}

	if err := h.venueService.Delete(uint(id), middleware.TenantContext(c)); err != nil {
		writeServiceError(c, err)
		return
	}

	response.SuccessWithMessage(c, "场馆已删除", nil)
}
