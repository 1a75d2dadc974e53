package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appinventory "github.com/stockledger/backend/internal/application/inventory"
	"github.com/stockledger/backend/internal/domain/shared"
	"github.com/stockledger/backend/internal/interfaces/http/dto"
)

// StockItemHandler handles stock item ledger endpoints
type StockItemHandler struct {
	BaseHandler
	service *appinventory.InventoryService
}

// NewStockItemHandler creates a new StockItemHandler
func NewStockItemHandler(service *appinventory.InventoryService) *StockItemHandler {
	return &StockItemHandler{service: service}
}

// Create opens a ledger row for a variant-location pair
func (h *StockItemHandler) Create(c *gin.Context) {
	var req appinventory.CreateStockItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	item, err := h.service.CreateStockItem(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, item)
}

// GetByID retrieves a stock item by its ID
func (h *StockItemHandler) GetByID(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid stock item ID format")
		return
	}

	item, err := h.service.GetByID(c.Request.Context(), itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, item)
}

// Lookup retrieves the ledger row for a location-variant pair
func (h *StockItemHandler) Lookup(c *gin.Context) {
	locationID, err := uuid.Parse(c.Query("stock_location_id"))
	if err != nil {
		h.BadRequest(c, "Invalid stock location ID format")
		return
	}
	variantID, err := uuid.Parse(c.Query("variant_id"))
	if err != nil {
		h.BadRequest(c, "Invalid variant ID format")
		return
	}

	item, err := h.service.GetByLocationAndVariant(c.Request.Context(), locationID, variantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, item)
}

// List lists stock items with optional variant and location filters
func (h *StockItemHandler) List(c *gin.Context) {
	filter := appinventory.StockItemListFilter{Page: 1, PageSize: 20}
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	page, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// ListMovements lists the audit trail of a stock item, newest first
func (h *StockItemHandler) ListMovements(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid stock item ID format")
		return
	}

	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}

	filter := shared.DefaultFilter()
	filter.Page = req.Page
	filter.PageSize = req.PageSize
	if req.OrderBy != "" {
		filter.OrderBy = req.OrderBy
	}
	if req.OrderDir != "" {
		filter.OrderDir = req.OrderDir
	}

	movements, err := h.service.ListMovements(c.Request.Context(), itemID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, movements)
}

// BulkAdjust applies deltas to several ledger rows of one location at once
func (h *StockItemHandler) BulkAdjust(c *gin.Context) {
	var req appinventory.BulkAdjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.service.BulkAdjust(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Adjust applies a signed delta to on-hand stock
func (h *StockItemHandler) Adjust(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid stock item ID format")
		return
	}

	var req appinventory.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.service.Adjust(c.Request.Context(), itemID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Reserve commits available stock to a pending order
func (h *StockItemHandler) Reserve(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid stock item ID format")
		return
	}

	var req appinventory.ReserveStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.service.Reserve(c.Request.Context(), itemID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Release returns reserved stock to available
func (h *StockItemHandler) Release(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid stock item ID format")
		return
	}

	var req appinventory.ReleaseStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.service.Release(c.Request.Context(), itemID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// ConfirmShipment consumes reserved stock when a shipment departs
func (h *StockItemHandler) ConfirmShipment(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid stock item ID format")
		return
	}

	var req appinventory.ConfirmShipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.service.ConfirmShipment(c.Request.Context(), itemID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// CorrectReserved administratively sets the reserved counter
func (h *StockItemHandler) CorrectReserved(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid stock item ID format")
		return
	}

	var req appinventory.CorrectReservedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.service.CorrectReserved(c.Request.Context(), itemID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// SetBackorderable toggles the backorder policy for an item
func (h *StockItemHandler) SetBackorderable(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid stock item ID format")
		return
	}

	var req appinventory.SetBackorderableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	item, err := h.service.SetBackorderable(c.Request.Context(), itemID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, item)
}

// Delete removes an empty stock item
func (h *StockItemHandler) Delete(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid stock item ID format")
		return
	}

	if err := h.service.DeleteStockItem(c.Request.Context(), itemID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// RegisterRoutes registers all stock item routes
func (h *StockItemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	items := rg.Group("/inventory/stock-items")
	{
		items.POST("", h.Create)
		items.GET("", h.List)
		items.GET("/lookup", h.Lookup)
		items.POST("/bulk-adjust", h.BulkAdjust)
		items.GET("/:id", h.GetByID)
		items.DELETE("/:id", h.Delete)
		items.GET("/:id/movements", h.ListMovements)
		items.POST("/:id/adjust", h.Adjust)
		items.POST("/:id/reserve", h.Reserve)
		items.POST("/:id/release", h.Release)
		items.POST("/:id/confirm-shipment", h.ConfirmShipment)
		items.POST("/:id/correct-reserved", h.CorrectReserved)
		items.PATCH("/:id/backorderable", h.SetBackorderable)
	}
}
