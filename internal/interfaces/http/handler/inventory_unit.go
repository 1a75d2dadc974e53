package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appinventory "github.com/stockledger/backend/internal/application/inventory"
)

// InventoryUnitHandler handles fulfillment unit endpoints
type InventoryUnitHandler struct {
	BaseHandler
	service *appinventory.FulfillmentService
}

// NewInventoryUnitHandler creates a new InventoryUnitHandler
func NewInventoryUnitHandler(service *appinventory.FulfillmentService) *InventoryUnitHandler {
	return &InventoryUnitHandler{service: service}
}

// Create registers a unit for an order line item
func (h *InventoryUnitHandler) Create(c *gin.Context) {
	var req appinventory.CreateInventoryUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	unit, err := h.service.CreateUnit(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, unit)
}

// GetByID retrieves a unit by its ID
func (h *InventoryUnitHandler) GetByID(c *gin.Context) {
	unitID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid inventory unit ID format")
		return
	}

	unit, err := h.service.GetByID(c.Request.Context(), unitID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, unit)
}

// ListByOrder lists all units belonging to one order
func (h *InventoryUnitHandler) ListByOrder(c *gin.Context) {
	raw := c.Query("order_id")
	if raw == "" {
		h.BadRequest(c, "order_id query parameter is required")
		return
	}

	orderID, err := uuid.Parse(raw)
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	units, err := h.service.ListByOrder(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, units)
}

// Ship marks a unit as shipped
func (h *InventoryUnitHandler) Ship(c *gin.Context) {
	unitID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid inventory unit ID format")
		return
	}

	var req appinventory.ShipUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	unit, err := h.service.Ship(c.Request.Context(), unitID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, unit)
}

// Return marks a shipped unit as returned
func (h *InventoryUnitHandler) Return(c *gin.Context) {
	unitID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid inventory unit ID format")
		return
	}

	unit, err := h.service.Return(c.Request.Context(), unitID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, unit)
}

// Cancel cancels a unit that has not shipped
func (h *InventoryUnitHandler) Cancel(c *gin.Context) {
	unitID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid inventory unit ID format")
		return
	}

	unit, err := h.service.Cancel(c.Request.Context(), unitID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, unit)
}

// Relocate moves a pending unit to a different location
func (h *InventoryUnitHandler) Relocate(c *gin.Context) {
	unitID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid inventory unit ID format")
		return
	}

	var req appinventory.RelocateUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	unit, err := h.service.Relocate(c.Request.Context(), unitID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, unit)
}

// Split divides a unit into two, conserving total quantity
func (h *InventoryUnitHandler) Split(c *gin.Context) {
	unitID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid inventory unit ID format")
		return
	}

	var req appinventory.SplitUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.service.Split(c.Request.Context(), unitID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// RegisterRoutes registers all inventory unit routes
func (h *InventoryUnitHandler) RegisterRoutes(rg *gin.RouterGroup) {
	units := rg.Group("/inventory/units")
	{
		units.POST("", h.Create)
		units.GET("", h.ListByOrder)
		units.GET("/:id", h.GetByID)
		units.POST("/:id/ship", h.Ship)
		units.POST("/:id/return", h.Return)
		units.POST("/:id/cancel", h.Cancel)
		units.POST("/:id/relocate", h.Relocate)
		units.POST("/:id/split", h.Split)
	}
}
