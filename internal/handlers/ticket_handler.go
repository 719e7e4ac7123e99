package handlers

import (
	"etick/internal/middleware"
	"etick/internal/models"
	"etick/internal/services"
	"etick/pkg/pagination"
	"etick/pkg/response"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// TicketHandler 票务处理器 - 票档与售票
type TicketHandler struct {
	ticketService *services.TicketService
}

// NewTicketHandler 创建票务处理器实例
func NewTicketHandler(ticketService *services.TicketService) *TicketHandler {
	return &TicketHandler{ticketService: ticketService}
}

// CreateOffer 创建票档
func (h *TicketHandler) CreateOffer(c *gin.Context) {
	var req struct {
		ShowID     uint       `json:"show_id" binding:"required"`
		Tier       string     `json:"tier" binding:"required,min=1,max=50"`
		PriceCents int64      `json:"price_cents" binding:"min=0"`
		Quota      int        `json:"quota" binding:"required,min=1"`
		SaleStart  *time.Time `json:"sale_start"`
		SaleEnd    *time.Time `json:"sale_end"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	offer := &models.TicketOffer{
		ShowID:     req.ShowID,
		Tier:       req.Tier,
		PriceCents: req.PriceCents,
		Quota:      req.Quota,
		SaleStart:  req.SaleStart,
		SaleEnd:    req.SaleEnd,
		Status:     models.OfferStatusOpen,
	}

	if err := h.ticketService.CreateOffer(offer, middleware.TenantContext(c)); err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, offer)
}

// ListOffers 获取场次票档列表
func (h *TicketHandler) ListOffers(c *gin.Context) {
	showID, err := strconv.ParseUint(c.Query("show_id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "无效的场次ID")
		return
	}

	offers, err := h.ticketService.ListOffers(uint(showID), middleware.TenantContext(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, offers)
}

// OfferRemaining 查询票档余量
func (h *TicketHandler) OfferRemaining(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "无效的票档ID")
		return
	}

	remaining, err := h.ticketService.OfferRemaining(c.Request.Context(), uint(id), middleware.TenantContext(c))
	if err != nil {
		response.NotFound(c, err.Error())
		return
	}

	response.Success(c, gin.H{"offer_id": id, "remaining": remaining})
}

// Sell 售票
func (h *TicketHandler) Sell(c *gin.Context) {
	var req struct {
		ShowID     uint   `json:"show_id" binding:"required"`
		OfferID    *uint  `json:"offer_id"`
		BuyerName  string `json:"buyer_name" binding:"required,min=1,max=100"`
		BuyerEmail string `json:"buyer_email" binding:"omitempty,email"`
		Quantity   int    `json:"quantity" binding:"required,min=1"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	sale, err := h.ticketService.Sell(&services.SellRequest{
		ShowID:     req.ShowID,
		OfferID:    req.OfferID,
		BuyerName:  req.BuyerName,
		BuyerEmail: req.BuyerEmail,
		Quantity:   req.Quantity,
	}, middleware.TenantContext(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, sale)
}

// GetSale 获取售票记录详情
func (h *TicketHandler) GetSale(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "无效的售票记录ID")
		return
	}

	sale, err := h.ticketService.GetSaleByID(uint(id), middleware.TenantContext(c))
	if err != nil {
		response.NotFound(c, err.Error())
		return
	}

	response.Success(c, sale)
}

// ListSales 获取售票记录列表
func (h *TicketHandler) ListSales(c *gin.Context) {
	params := pagination.ParsePageParams(c)

	var showID uint
	if v := c.Query("show_id"); v != "" {
		parsed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			response.BadRequest(c, "无效的场次ID")
			return
		}
		showID = uint(parsed)
	}

	sales, total, err := h.ticketService.ListSales(middleware.TenantContext(c), params, showID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.SuccessWithPage(c, sales, pagination.NewPageInfo(params.Page, params.PageSize, total))
}

// Refund 退票
func (h *TicketHandler) Refund(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "无效的售票记录ID")
		return
	}

	if err := h.ticketService.Refund(uint(id), middleware.TenantContext(c)); err != nil {
		writeServiceError(c, err)
		return
	}

	response.SuccessWithMessage(c, "退票成功", nil)
}
