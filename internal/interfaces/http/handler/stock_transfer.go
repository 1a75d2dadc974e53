package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appinventory "github.com/stockledger/backend/internal/application/inventory"
	"github.com/stockledger/backend/internal/domain/shared"
	"github.com/stockledger/backend/internal/interfaces/http/dto"
)

// StockTransferHandler handles transfer and receipt endpoints
type StockTransferHandler struct {
	BaseHandler
	service *appinventory.TransferService
}

// NewStockTransferHandler creates a new StockTransferHandler
func NewStockTransferHandler(service *appinventory.TransferService) *StockTransferHandler {
	return &StockTransferHandler{service: service}
}

// Transfer moves stock between two locations atomically
func (h *StockTransferHandler) Transfer(c *gin.Context) {
	var req appinventory.CreateTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	transfer, err := h.service.Transfer(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, transfer)
}

// Receive records an inbound receipt with no source location
func (h *StockTransferHandler) Receive(c *gin.Context) {
	var req appinventory.CreateReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	transfer, err := h.service.Receive(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, transfer)
}

// GetByID retrieves a transfer with its lines
func (h *StockTransferHandler) GetByID(c *gin.Context) {
	transferID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid transfer ID format")
		return
	}

	transfer, err := h.service.GetByID(c.Request.Context(), transferID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, transfer)
}

// GetByNumber retrieves a transfer by its generated number
func (h *StockTransferHandler) GetByNumber(c *gin.Context) {
	number := c.Param("number")
	if number == "" {
		h.BadRequest(c, "Transfer number is required")
		return
	}

	transfer, err := h.service.GetByNumber(c.Request.Context(), number)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, transfer)
}

// List lists transfers, optionally scoped to one location
func (h *StockTransferHandler) List(c *gin.Context) {
	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}

	var locationID *uuid.UUID
	if raw := c.Query("location_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid location ID format")
			return
		}
		locationID = &id
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

	page, err := h.service.List(c.Request.Context(), locationID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// RegisterRoutes registers transfer and receipt routes
func (h *StockTransferHandler) RegisterRoutes(rg *gin.RouterGroup) {
	transfers := rg.Group("/inventory/transfers")
	{
		transfers.POST("", h.Transfer)
		transfers.GET("", h.List)
		transfers.GET("/:id", h.GetByID)
		transfers.GET("/number/:number", h.GetByNumber)
	}

	rg.POST("/inventory/receipts", h.Receive)
}
