package inventory

import (
	"github.com/google/uuid"
	"github.com/stockledger/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeStockItem     = "StockItem"
	AggregateTypeInventoryUnit = "InventoryUnit"
	AggregateTypeStockTransfer = "StockTransfer"
)

// Event type constants
const (
	EventTypeStockItemCreated      = "StockItemCreated"
	EventTypeStockAdjusted         = "StockAdjusted"
	EventTypeStockReserved         = "StockReserved"
	EventTypeStockReleased         = "StockReleased"
	EventTypeShipmentConfirmed     = "ShipmentConfirmed"
	EventTypeBackorderFilled       = "BackorderFilled"
	EventTypeInventoryUnitShipped  = "InventoryUnitShipped"
	EventTypeInventoryUnitReturned = "InventoryUnitReturned"
	EventTypeInventoryUnitCanceled = "InventoryUnitCanceled"
	EventTypeInventoryUnitSplit    = "InventoryUnitSplit"
	EventTypeStockTransferExecuted = "StockTransferExecuted"
)

// StockItemCreatedEvent is raised when a new ledger row is opened for a
// variant-location pair
type StockItemCreatedEvent struct {
	shared.BaseDomainEvent
	StockItemID     uuid.UUID `json:"stock_item_id"`
	VariantID       uuid.UUID `json:"variant_id"`
	StockLocationID uuid.UUID `json:"stock_location_id"`
	Sku             string    `json:"sku"`
	QuantityOnHand  int64     `json:"quantity_on_hand"`
}

// NewStockItemCreatedEvent creates a new StockItemCreatedEvent
func NewStockItemCreatedEvent(item *StockItem) *StockItemCreatedEvent {
	return &StockItemCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockItemCreated, AggregateTypeStockItem, item.ID),
		StockItemID:     item.ID,
		VariantID:       item.VariantID,
		StockLocationID: item.StockLocationID,
		Sku:             item.Sku,
		QuantityOnHand:  item.QuantityOnHand,
	}
}

// EventType returns the event type name
func (e *StockItemCreatedEvent) EventType() string {
	return EventTypeStockItemCreated
}

// StockAdjustedEvent is raised when on-hand stock changes by a signed delta
type StockAdjustedEvent struct {
	shared.BaseDomainEvent
	StockItemID     uuid.UUID          `json:"stock_item_id"`
	VariantID       uuid.UUID          `json:"variant_id"`
	StockLocationID uuid.UUID          `json:"stock_location_id"`
	Quantity        int64              `json:"quantity"`
	Originator      MovementOriginator `json:"originator"`
	Reason          string             `json:"reason,omitempty"`
	QuantityOnHand  int64              `json:"quantity_on_hand"`
}

// NewStockAdjustedEvent creates a new StockAdjustedEvent
func NewStockAdjustedEvent(item *StockItem, quantity int64, originator MovementOriginator, reason string) *StockAdjustedEvent {
	return &StockAdjustedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockAdjusted, AggregateTypeStockItem, item.ID),
		StockItemID:     item.ID,
		VariantID:       item.VariantID,
		StockLocationID: item.StockLocationID,
		Quantity:        quantity,
		Originator:      originator,
		Reason:          reason,
		QuantityOnHand:  item.QuantityOnHand,
	}
}

// EventType returns the event type name
func (e *StockAdjustedEvent) EventType() string {
	return EventTypeStockAdjusted
}

// StockReservedEvent is raised when stock is reserved for a pending order
type StockReservedEvent struct {
	shared.BaseDomainEvent
	StockItemID      uuid.UUID `json:"stock_item_id"`
	VariantID        uuid.UUID `json:"variant_id"`
	StockLocationID  uuid.UUID `json:"stock_location_id"`
	OrderID          uuid.UUID `json:"order_id"`
	Quantity         int64     `json:"quantity"`
	QuantityReserved int64     `json:"quantity_reserved"`
}

// NewStockReservedEvent creates a new StockReservedEvent
func NewStockReservedEvent(item *StockItem, quantity int64, orderID uuid.UUID) *StockReservedEvent {
	return &StockReservedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeStockReserved, AggregateTypeStockItem, item.ID),
		StockItemID:      item.ID,
		VariantID:        item.VariantID,
		StockLocationID:  item.StockLocationID,
		OrderID:          orderID,
		Quantity:         quantity,
		QuantityReserved: item.QuantityReserved,
	}
}

// EventType returns the event type name
func (e *StockReservedEvent) EventType() string {
	return EventTypeStockReserved
}

// StockReleasedEvent is raised when a reservation is returned to available
// stock
type StockReleasedEvent struct {
	shared.BaseDomainEvent
	StockItemID      uuid.UUID `json:"stock_item_id"`
	VariantID        uuid.UUID `json:"variant_id"`
	StockLocationID  uuid.UUID `json:"stock_location_id"`
	OrderID          uuid.UUID `json:"order_id"`
	Quantity         int64     `json:"quantity"`
	QuantityReserved int64     `json:"quantity_reserved"`
}

// NewStockReleasedEvent creates a new StockReleasedEvent
func NewStockReleasedEvent(item *StockItem, quantity int64, orderID uuid.UUID) *StockReleasedEvent {
	return &StockReleasedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeStockReleased, AggregateTypeStockItem, item.ID),
		StockItemID:      item.ID,
		VariantID:        item.VariantID,
		StockLocationID:  item.StockLocationID,
		OrderID:          orderID,
		Quantity:         quantity,
		QuantityReserved: item.QuantityReserved,
	}
}

// EventType returns the event type name
func (e *StockReleasedEvent) EventType() string {
	return EventTypeStockReleased
}

// ShipmentConfirmedEvent is raised when a reserved quantity physically
// leaves a location
type ShipmentConfirmedEvent struct {
	shared.BaseDomainEvent
	StockItemID     uuid.UUID `json:"stock_item_id"`
	VariantID       uuid.UUID `json:"variant_id"`
	StockLocationID uuid.UUID `json:"stock_location_id"`
	ShipmentID      uuid.UUID `json:"shipment_id"`
	Quantity        int64     `json:"quantity"`
	QuantityOnHand  int64     `json:"quantity_on_hand"`
}

// NewShipmentConfirmedEvent creates a new ShipmentConfirmedEvent
func NewShipmentConfirmedEvent(item *StockItem, quantity int64, shipmentID uuid.UUID) *ShipmentConfirmedEvent {
	return &ShipmentConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeShipmentConfirmed, AggregateTypeStockItem, item.ID),
		StockItemID:     item.ID,
		VariantID:       item.VariantID,
		StockLocationID: item.StockLocationID,
		ShipmentID:      shipmentID,
		Quantity:        quantity,
		QuantityOnHand:  item.QuantityOnHand,
	}
}

// EventType returns the event type name
func (e *ShipmentConfirmedEvent) EventType() string {
	return EventTypeShipmentConfirmed
}

// BackorderFilledEvent is raised when a backordered unit becomes on hand
type BackorderFilledEvent struct {
	shared.BaseDomainEvent
	InventoryUnitID uuid.UUID `json:"inventory_unit_id"`
	VariantID       uuid.UUID `json:"variant_id"`
	OrderID         uuid.UUID `json:"order_id"`
	LineItemID      uuid.UUID `json:"line_item_id"`
	Quantity        int64     `json:"quantity"`
}

// NewBackorderFilledEvent creates a new BackorderFilledEvent
func NewBackorderFilledEvent(unit *InventoryUnit) *BackorderFilledEvent {
	return &BackorderFilledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBackorderFilled, AggregateTypeInventoryUnit, unit.ID),
		InventoryUnitID: unit.ID,
		VariantID:       unit.VariantID,
		OrderID:         unit.OrderID,
		LineItemID:      unit.LineItemID,
		Quantity:        unit.Quantity,
	}
}

// EventType returns the event type name
func (e *BackorderFilledEvent) EventType() string {
	return EventTypeBackorderFilled
}

// InventoryUnitShippedEvent is raised when a unit is dispatched
type InventoryUnitShippedEvent struct {
	shared.BaseDomainEvent
	InventoryUnitID uuid.UUID  `json:"inventory_unit_id"`
	VariantID       uuid.UUID  `json:"variant_id"`
	OrderID         uuid.UUID  `json:"order_id"`
	ShipmentID      *uuid.UUID `json:"shipment_id,omitempty"`
	Quantity        int64      `json:"quantity"`
}

// NewInventoryUnitShippedEvent creates a new InventoryUnitShippedEvent
func NewInventoryUnitShippedEvent(unit *InventoryUnit) *InventoryUnitShippedEvent {
	return &InventoryUnitShippedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInventoryUnitShipped, AggregateTypeInventoryUnit, unit.ID),
		InventoryUnitID: unit.ID,
		VariantID:       unit.VariantID,
		OrderID:         unit.OrderID,
		ShipmentID:      unit.ShipmentID,
		Quantity:        unit.Quantity,
	}
}

// EventType returns the event type name
func (e *InventoryUnitShippedEvent) EventType() string {
	return EventTypeInventoryUnitShipped
}

// InventoryUnitReturnedEvent is raised when a shipped unit comes back
type InventoryUnitReturnedEvent struct {
	shared.BaseDomainEvent
	InventoryUnitID uuid.UUID `json:"inventory_unit_id"`
	VariantID       uuid.UUID `json:"variant_id"`
	OrderID         uuid.UUID `json:"order_id"`
	Quantity        int64     `json:"quantity"`
}

// NewInventoryUnitReturnedEvent creates a new InventoryUnitReturnedEvent
func NewInventoryUnitReturnedEvent(unit *InventoryUnit) *InventoryUnitReturnedEvent {
	return &InventoryUnitReturnedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInventoryUnitReturned, AggregateTypeInventoryUnit, unit.ID),
		InventoryUnitID: unit.ID,
		VariantID:       unit.VariantID,
		OrderID:         unit.OrderID,
		Quantity:        unit.Quantity,
	}
}

// EventType returns the event type name
func (e *InventoryUnitReturnedEvent) EventType() string {
	return EventTypeInventoryUnitReturned
}

// InventoryUnitCanceledEvent is raised when a pending unit is voided
type InventoryUnitCanceledEvent struct {
	shared.BaseDomainEvent
	InventoryUnitID uuid.UUID `json:"inventory_unit_id"`
	VariantID       uuid.UUID `json:"variant_id"`
	OrderID         uuid.UUID `json:"order_id"`
	Quantity        int64     `json:"quantity"`
}

// NewInventoryUnitCanceledEvent creates a new InventoryUnitCanceledEvent
func NewInventoryUnitCanceledEvent(unit *InventoryUnit) *InventoryUnitCanceledEvent {
	return &InventoryUnitCanceledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInventoryUnitCanceled, AggregateTypeInventoryUnit, unit.ID),
		InventoryUnitID: unit.ID,
		VariantID:       unit.VariantID,
		OrderID:         unit.OrderID,
		Quantity:        unit.Quantity,
	}
}

// EventType returns the event type name
func (e *InventoryUnitCanceledEvent) EventType() string {
	return EventTypeInventoryUnitCanceled
}

// InventoryUnitSplitEvent is raised when a unit is divided into two records
type InventoryUnitSplitEvent struct {
	shared.BaseDomainEvent
	InventoryUnitID   uuid.UUID `json:"inventory_unit_id"`
	ExtractedUnitID   uuid.UUID `json:"extracted_unit_id"`
	RemainingQuantity int64     `json:"remaining_quantity"`
	ExtractedQuantity int64     `json:"extracted_quantity"`
}

// NewInventoryUnitSplitEvent creates a new InventoryUnitSplitEvent
func NewInventoryUnitSplitEvent(original, extracted *InventoryUnit) *InventoryUnitSplitEvent {
	return &InventoryUnitSplitEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeInventoryUnitSplit, AggregateTypeInventoryUnit, original.ID),
		InventoryUnitID:   original.ID,
		ExtractedUnitID:   extracted.ID,
		RemainingQuantity: original.Quantity,
		ExtractedQuantity: extracted.Quantity,
	}
}

// EventType returns the event type name
func (e *InventoryUnitSplitEvent) EventType() string {
	return EventTypeInventoryUnitSplit
}

// StockTransferExecutedEvent is raised once both legs of a transfer (or the
// single leg of a receipt) have been applied
type StockTransferExecutedEvent struct {
	shared.BaseDomainEvent
	StockTransferID       uuid.UUID  `json:"stock_transfer_id"`
	Number                string     `json:"number"`
	SourceLocationID      *uuid.UUID `json:"source_location_id,omitempty"`
	DestinationLocationID *uuid.UUID `json:"destination_location_id,omitempty"`
	TotalQuantity         int64      `json:"total_quantity"`
}

// NewStockTransferExecutedEvent creates a new StockTransferExecutedEvent
func NewStockTransferExecutedEvent(transfer *StockTransfer) *StockTransferExecutedEvent {
	return &StockTransferExecutedEvent{
		BaseDomainEvent:       shared.NewBaseDomainEvent(EventTypeStockTransferExecuted, AggregateTypeStockTransfer, transfer.ID),
		StockTransferID:       transfer.ID,
		Number:                transfer.Number,
		SourceLocationID:      transfer.SourceLocationID,
		DestinationLocationID: transfer.DestinationLocationID,
		TotalQuantity:         transfer.TotalQuantity(),
	}
}

// EventType returns the event type name
func (e *StockTransferExecutedEvent) EventType() string {
	return EventTypeStockTransferExecuted
}
