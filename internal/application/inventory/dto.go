package inventory

import (
	"time"

	"github.com/google/uuid"

	"github.com/stockledger/backend/internal/domain/inventory"
)

// StockItemResponse represents a stock item in API responses
type StockItemResponse struct {
	ID               uuid.UUID `json:"id"`
	VariantID        uuid.UUID `json:"variant_id"`
	StockLocationID  uuid.UUID `json:"stock_location_id"`
	Sku              string    `json:"sku"`
	QuantityOnHand   int64     `json:"quantity_on_hand"`
	QuantityReserved int64     `json:"quantity_reserved"`
	CountAvailable   int64     `json:"count_available"`
	Backorderable    bool      `json:"backorderable"`
	InStock          bool      `json:"in_stock"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
	Version          int       `json:"version"`
}

// NewStockItemResponse maps a stock item aggregate to its response shape
func NewStockItemResponse(item *inventory.StockItem) *StockItemResponse {
	return &StockItemResponse{
		ID:               item.ID,
		VariantID:        item.VariantID,
		StockLocationID:  item.StockLocationID,
		Sku:              item.Sku,
		QuantityOnHand:   item.QuantityOnHand,
		QuantityReserved: item.QuantityReserved,
		CountAvailable:   item.CountAvailable(),
		Backorderable:    item.Backorderable,
		InStock:          item.InStock(),
		CreatedAt:        item.CreatedAt,
		UpdatedAt:        item.UpdatedAt,
		Version:          item.Version,
	}
}

// StockMovementResponse represents one audit-trail entry in API responses
type StockMovementResponse struct {
	ID              uuid.UUID  `json:"id"`
	StockItemID     uuid.UUID  `json:"stock_item_id"`
	VariantID       uuid.UUID  `json:"variant_id"`
	StockLocationID uuid.UUID  `json:"stock_location_id"`
	Quantity        int64      `json:"quantity"`
	Originator      string     `json:"originator"`
	Action          string     `json:"action"`
	Reason          string     `json:"reason,omitempty"`
	StockTransferID *uuid.UUID `json:"stock_transfer_id,omitempty"`
	OnHandBefore    int64      `json:"on_hand_before"`
	OnHandAfter     int64      `json:"on_hand_after"`
	CreatedAt       time.Time  `json:"created_at"`
}

// NewStockMovementResponse maps a movement record to its response shape
func NewStockMovementResponse(movement *inventory.StockMovement) *StockMovementResponse {
	return &StockMovementResponse{
		ID:              movement.ID,
		StockItemID:     movement.StockItemID,
		VariantID:       movement.VariantID,
		StockLocationID: movement.StockLocationID,
		Quantity:        movement.Quantity,
		Originator:      movement.Originator.String(),
		Action:          movement.Action.String(),
		Reason:          movement.Reason,
		StockTransferID: movement.StockTransferID,
		OnHandBefore:    movement.OnHandBefore,
		OnHandAfter:     movement.OnHandAfter,
		CreatedAt:       movement.CreatedAt,
	}
}

// CreateStockItemRequest opens a ledger row for a variant-location pair
type CreateStockItemRequest struct {
	VariantID        uuid.UUID `json:"variant_id" binding:"required"`
	StockLocationID  uuid.UUID `json:"stock_location_id" binding:"required"`
	Sku              string    `json:"sku" binding:"required,max=100"`
	QuantityOnHand   int64     `json:"quantity_on_hand" binding:"min=0"`
	QuantityReserved int64     `json:"quantity_reserved" binding:"min=0"`
	Backorderable    *bool     `json:"backorderable"` // Defaults to the location's policy
}

// AdjustStockRequest applies a signed delta to on-hand stock
type AdjustStockRequest struct {
	Quantity   int64  `json:"quantity" binding:"required"`
	Originator string `json:"originator" binding:"required"`
	Reason     string `json:"reason" binding:"max=255"`
}

// AdjustStockResponse reports the adjustment and any backorders it filled
type AdjustStockResponse struct {
	Item             *StockItemResponse     `json:"item"`
	Movement         *StockMovementResponse `json:"movement"`
	BackordersFilled []uuid.UUID            `json:"backorders_filled,omitempty"`
}

// BulkAdjustLine is one variant-delta pair of a bulk adjustment
type BulkAdjustLine struct {
	VariantID uuid.UUID `json:"variant_id" binding:"required"`
	Quantity  int64     `json:"quantity" binding:"required"`
}

// BulkAdjustRequest applies deltas to several ledger rows of one location
// in a single transaction
type BulkAdjustRequest struct {
	StockLocationID uuid.UUID        `json:"stock_location_id" binding:"required"`
	Originator      string           `json:"originator" binding:"required"`
	Reason          string           `json:"reason" binding:"max=255"`
	Lines           []BulkAdjustLine `json:"lines" binding:"required,min=1,dive"`
}

// BulkAdjustResponse reports every adjusted item and filled backorders
type BulkAdjustResponse struct {
	Items            []*StockItemResponse `json:"items"`
	BackordersFilled []uuid.UUID          `json:"backorders_filled,omitempty"`
}

// StockOperationResponse reports an item mutation and its audit movement.
// Movement is nil for no-op corrections.
type StockOperationResponse struct {
	Item     *StockItemResponse     `json:"item"`
	Movement *StockMovementResponse `json:"movement,omitempty"`
}

// ReserveStockRequest commits available stock to a pending order
type ReserveStockRequest struct {
	Quantity int64     `json:"quantity" binding:"required,gt=0"`
	OrderID  uuid.UUID `json:"order_id" binding:"required"`
}

// ReleaseStockRequest returns reserved stock to available
type ReleaseStockRequest struct {
	Quantity int64     `json:"quantity" binding:"required,gt=0"`
	OrderID  uuid.UUID `json:"order_id" binding:"required"`
}

// ConfirmShipmentRequest consumes reserved stock when a shipment departs
type ConfirmShipmentRequest struct {
	Quantity   int64     `json:"quantity" binding:"required,gt=0"`
	ShipmentID uuid.UUID `json:"shipment_id" binding:"required"`
}

// CorrectReservedRequest administratively sets the reserved counter
type CorrectReservedRequest struct {
	QuantityReserved int64  `json:"quantity_reserved" binding:"min=0"`
	Reason           string `json:"reason" binding:"required,max=255"`
}

// SetBackorderableRequest toggles the backorder policy for an item
type SetBackorderableRequest struct {
	Backorderable *bool `json:"backorderable" binding:"required"`
}

// StockItemListFilter represents filter options for stock item lists
type StockItemListFilter struct {
	VariantID       *uuid.UUID `form:"variant_id"`
	StockLocationID *uuid.UUID `form:"stock_location_id"`
	Page            int        `form:"page" binding:"min=1"`
	PageSize        int        `form:"page_size" binding:"min=1,max=100"`
	OrderBy         string     `form:"order_by"`
	OrderDir        string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// TransferLineRequest is one variant-quantity pair of a transfer
type TransferLineRequest struct {
	VariantID uuid.UUID `json:"variant_id" binding:"required"`
	Quantity  int64     `json:"quantity" binding:"required,gt=0"`
}

// CreateTransferRequest moves stock between two locations atomically
type CreateTransferRequest struct {
	SourceLocationID      uuid.UUID             `json:"source_location_id" binding:"required"`
	DestinationLocationID uuid.UUID             `json:"destination_location_id" binding:"required"`
	Reference             string                `json:"reference" binding:"max=255"`
	Lines                 []TransferLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// CreateReceiptRequest credits a location from an external supplier
type CreateReceiptRequest struct {
	DestinationLocationID uuid.UUID             `json:"destination_location_id" binding:"required"`
	Reference             string                `json:"reference" binding:"max=255"`
	Lines                 []TransferLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// TransferLineResponse is one line of a transfer in API responses
type TransferLineResponse struct {
	VariantID uuid.UUID `json:"variant_id"`
	Quantity  int64     `json:"quantity"`
}

// StockTransferResponse represents a transfer in API responses
type StockTransferResponse struct {
	ID                    uuid.UUID              `json:"id"`
	Number                string                 `json:"number"`
	SourceLocationID      *uuid.UUID             `json:"source_location_id,omitempty"`
	DestinationLocationID *uuid.UUID             `json:"destination_location_id,omitempty"`
	Reference             string                 `json:"reference,omitempty"`
	IsReceipt             bool                   `json:"is_receipt"`
	TotalQuantity         int64                  `json:"total_quantity"`
	Lines                 []TransferLineResponse `json:"lines"`
	CreatedAt             time.Time              `json:"created_at"`
}

// NewStockTransferResponse maps a transfer aggregate to its response shape
func NewStockTransferResponse(transfer *inventory.StockTransfer) *StockTransferResponse {
	lines := make([]TransferLineResponse, 0, len(transfer.Lines))
	for _, line := range transfer.Lines {
		lines = append(lines, TransferLineResponse{
			VariantID: line.VariantID,
			Quantity:  line.Quantity,
		})
	}
	return &StockTransferResponse{
		ID:                    transfer.ID,
		Number:                transfer.Number,
		SourceLocationID:      transfer.SourceLocationID,
		DestinationLocationID: transfer.DestinationLocationID,
		Reference:             transfer.Reference,
		IsReceipt:             transfer.IsReceipt(),
		TotalQuantity:         transfer.TotalQuantity(),
		Lines:                 lines,
		CreatedAt:             transfer.CreatedAt,
	}
}

// CreateInventoryUnitRequest tracks a quantity of stock for an order line
type CreateInventoryUnitRequest struct {
	VariantID       uuid.UUID  `json:"variant_id" binding:"required"`
	OrderID         uuid.UUID  `json:"order_id" binding:"required"`
	LineItemID      uuid.UUID  `json:"line_item_id" binding:"required"`
	Quantity        int64      `json:"quantity" binding:"required,gt=0"`
	Backordered     bool       `json:"backordered"`
	StockLocationID *uuid.UUID `json:"stock_location_id"`
	SerialNumber    string     `json:"serial_number" binding:"max=100"`
}

// ShipUnitRequest dispatches an on-hand unit
type ShipUnitRequest struct {
	ShipmentID *uuid.UUID `json:"shipment_id"`
}

// SplitUnitRequest extracts a quantity into a new unit
type SplitUnitRequest struct {
	Quantity int64 `json:"quantity" binding:"required,gt=0"`
}

// RelocateUnitRequest moves a unit to another stock location
type RelocateUnitRequest struct {
	StockLocationID uuid.UUID `json:"stock_location_id" binding:"required"`
}

// InventoryUnitResponse represents a unit in API responses
type InventoryUnitResponse struct {
	ID              uuid.UUID  `json:"id"`
	VariantID       uuid.UUID  `json:"variant_id"`
	OrderID         uuid.UUID  `json:"order_id"`
	LineItemID      uuid.UUID  `json:"line_item_id"`
	Quantity        int64      `json:"quantity"`
	State           string     `json:"state"`
	StockLocationID *uuid.UUID `json:"stock_location_id,omitempty"`
	ShipmentID      *uuid.UUID `json:"shipment_id,omitempty"`
	SerialNumber    string     `json:"serial_number,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	Version         int        `json:"version"`
}

// NewInventoryUnitResponse maps a unit aggregate to its response shape
func NewInventoryUnitResponse(unit *inventory.InventoryUnit) *InventoryUnitResponse {
	return &InventoryUnitResponse{
		ID:              unit.ID,
		VariantID:       unit.VariantID,
		OrderID:         unit.OrderID,
		LineItemID:      unit.LineItemID,
		Quantity:        unit.Quantity,
		State:           unit.State.String(),
		StockLocationID: unit.StockLocationID,
		ShipmentID:      unit.ShipmentID,
		SerialNumber:    unit.SerialNumber,
		CreatedAt:       unit.CreatedAt,
		UpdatedAt:       unit.UpdatedAt,
		Version:         unit.Version,
	}
}

// SplitUnitResponse returns both halves of a split
type SplitUnitResponse struct {
	Original  *InventoryUnitResponse `json:"original"`
	Extracted *InventoryUnitResponse `json:"extracted"`
}
