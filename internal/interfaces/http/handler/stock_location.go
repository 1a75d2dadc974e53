package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	applocation "github.com/stockledger/backend/internal/application/location"
)

// StockLocationHandler handles stock location endpoints
type StockLocationHandler struct {
	BaseHandler
	service *applocation.LocationService
}

// NewStockLocationHandler creates a new StockLocationHandler
func NewStockLocationHandler(service *applocation.LocationService) *StockLocationHandler {
	return &StockLocationHandler{service: service}
}

// Create creates a new stock location
func (h *StockLocationHandler) Create(c *gin.Context) {
	var req applocation.CreateStockLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	loc, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, loc)
}

// GetByID retrieves a location by its ID
func (h *StockLocationHandler) GetByID(c *gin.Context) {
	locationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid location ID format")
		return
	}

	loc, err := h.service.GetByID(c.Request.Context(), locationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, loc)
}

// GetByCode retrieves a location by its code
func (h *StockLocationHandler) GetByCode(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		h.BadRequest(c, "Location code is required")
		return
	}

	loc, err := h.service.GetByCode(c.Request.Context(), code)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, loc)
}

// List lists locations ordered by sort order
func (h *StockLocationHandler) List(c *gin.Context) {
	filter := applocation.StockLocationListFilter{Page: 1, PageSize: 20}
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

// Update updates a location's descriptive fields
func (h *StockLocationHandler) Update(c *gin.Context) {
	locationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid location ID format")
		return
	}

	var req applocation.UpdateStockLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	loc, err := h.service.Update(c.Request.Context(), locationID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, loc)
}

// SetDefault promotes a location to be the default
func (h *StockLocationHandler) SetDefault(c *gin.Context) {
	locationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid location ID format")
		return
	}

	loc, err := h.service.SetDefault(c.Request.Context(), locationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, loc)
}

// Activate re-enables a deactivated location
func (h *StockLocationHandler) Activate(c *gin.Context) {
	locationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid location ID format")
		return
	}

	loc, err := h.service.Activate(c.Request.Context(), locationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, loc)
}

// Deactivate takes a location out of service
func (h *StockLocationHandler) Deactivate(c *gin.Context) {
	locationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid location ID format")
		return
	}

	loc, err := h.service.Deactivate(c.Request.Context(), locationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, loc)
}

// Delete removes a location with no stock or reservations
func (h *StockLocationHandler) Delete(c *gin.Context) {
	locationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid location ID format")
		return
	}

	if err := h.service.Delete(c.Request.Context(), locationID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// RegisterRoutes registers all stock location routes
func (h *StockLocationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	locations := rg.Group("/locations")
	{
		locations.POST("", h.Create)
		locations.GET("", h.List)
		locations.GET("/:id", h.GetByID)
		locations.GET("/code/:code", h.GetByCode)
		locations.PUT("/:id", h.Update)
		locations.DELETE("/:id", h.Delete)
		locations.POST("/:id/activate", h.Activate)
		locations.POST("/:id/deactivate", h.Deactivate)
		locations.POST("/:id/default", h.SetDefault)
	}
}
