package location

import (
	"time"

	"github.com/google/uuid"

	"github.com/stockledger/backend/internal/domain/location"
)

// StockLocationResponse represents a stock location in API responses
type StockLocationResponse struct {
	ID                   uuid.UUID `json:"id"`
	Code                 string    `json:"code"`
	Name                 string    `json:"name"`
	Presentation         string    `json:"presentation,omitempty"`
	DisplayName          string    `json:"display_name"`
	Type                 string    `json:"type"`
	Address              string    `json:"address,omitempty"`
	City                 string    `json:"city,omitempty"`
	Region               string    `json:"region,omitempty"`
	PostalCode           string    `json:"postal_code,omitempty"`
	Country              string    `json:"country,omitempty"`
	Phone                string    `json:"phone,omitempty"`
	Active               bool      `json:"active"`
	Default              bool      `json:"default"`
	BackorderableDefault bool      `json:"backorderable_default"`
	FulfillableOnline    bool      `json:"fulfillable_online"`
	SortOrder            int       `json:"sort_order"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
	Version              int       `json:"version"`
}

// NewStockLocationResponse maps a location aggregate to its response shape
func NewStockLocationResponse(loc *location.StockLocation) *StockLocationResponse {
	return &StockLocationResponse{
		ID:                   loc.ID,
		Code:                 loc.Code,
		Name:                 loc.Name,
		Presentation:         loc.Presentation,
		DisplayName:          loc.DisplayName(),
		Type:                 string(loc.Type),
		Address:              loc.Address,
		City:                 loc.City,
		Region:               loc.Region,
		PostalCode:           loc.PostalCode,
		Country:              loc.Country,
		Phone:                loc.Phone,
		Active:               loc.Active,
		Default:              loc.Default,
		BackorderableDefault: loc.BackorderableDefault,
		FulfillableOnline:    loc.FulfillableOnline,
		SortOrder:            loc.SortOrder,
		CreatedAt:            loc.CreatedAt,
		UpdatedAt:            loc.UpdatedAt,
		Version:              loc.Version,
	}
}

// CreateStockLocationRequest creates a new stock location
type CreateStockLocationRequest struct {
	Code                 string `json:"code" binding:"required,max=50"`
	Name                 string `json:"name" binding:"required,max=200"`
	Presentation         string `json:"presentation" binding:"max=200"`
	Type                 string `json:"type" binding:"omitempty,oneof=warehouse store dropship transit"`
	Address              string `json:"address" binding:"max=500"`
	City                 string `json:"city" binding:"max=100"`
	Region               string `json:"region" binding:"max=100"`
	PostalCode           string `json:"postal_code" binding:"max=20"`
	Country              string `json:"country" binding:"max=100"`
	Phone                string `json:"phone" binding:"max=50"`
	Default              bool   `json:"default"`
	BackorderableDefault *bool  `json:"backorderable_default"`
	FulfillableOnline    *bool  `json:"fulfillable_online"`
}

// UpdateStockLocationRequest updates a location's basic information
type UpdateStockLocationRequest struct {
	Name         string `json:"name" binding:"required,max=200"`
	Presentation string `json:"presentation" binding:"max=200"`
	Address      string `json:"address" binding:"max=500"`
	City         string `json:"city" binding:"max=100"`
	Region       string `json:"region" binding:"max=100"`
	PostalCode   string `json:"postal_code" binding:"max=20"`
	Country      string `json:"country" binding:"max=100"`
	Phone        string `json:"phone" binding:"max=50"`
}

// StockLocationListFilter represents filter options for location lists
type StockLocationListFilter struct {
	ActiveOnly bool   `form:"active_only"`
	Page       int    `form:"page" binding:"min=1"`
	PageSize   int    `form:"page_size" binding:"min=1,max=100"`
	OrderBy    string `form:"order_by"`
	OrderDir   string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}
