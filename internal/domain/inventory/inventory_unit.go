package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/stockledger/backend/internal/domain/shared"
)

// InventoryUnitState represents a unit's position in the fulfillment lifecycle
type InventoryUnitState string

const (
	UnitStateOnHand      InventoryUnitState = "ON_HAND"
	UnitStateBackordered InventoryUnitState = "BACKORDERED"
	UnitStateShipped     InventoryUnitState = "SHIPPED"
	UnitStateReturned    InventoryUnitState = "RETURNED"
	UnitStateCanceled    InventoryUnitState = "CANCELED"
)

// String returns the string representation of InventoryUnitState
func (s InventoryUnitState) String() string {
	return string(s)
}

// IsValid returns true if the state is known
func (s InventoryUnitState) IsValid() bool {
	switch s {
	case UnitStateOnHand, UnitStateBackordered, UnitStateShipped, UnitStateReturned, UnitStateCanceled:
		return true
	}
	return false
}

// IsTerminal returns true for states a unit never leaves
func (s InventoryUnitState) IsTerminal() bool {
	return s == UnitStateReturned || s == UnitStateCanceled
}

// InventoryUnit is a trackable quantity of stock tied to one order line,
// progressing through its own fulfillment state machine. Units are never
// physically deleted; terminal states preserve the fulfillment history.
type InventoryUnit struct {
	shared.BaseAggregateRoot
	VariantID       uuid.UUID          `gorm:"type:uuid;not null;index:idx_inventory_unit_variant"`
	OrderID         uuid.UUID          `gorm:"type:uuid;not null;index:idx_inventory_unit_order"`
	LineItemID      uuid.UUID          `gorm:"type:uuid;not null;index:idx_inventory_unit_line_item"`
	Quantity        int64              `gorm:"not null;default:1"`
	State           InventoryUnitState `gorm:"type:varchar(20);not null;index:idx_inventory_unit_state"`
	StockLocationID *uuid.UUID         `gorm:"type:uuid;index"`
	ShipmentID      *uuid.UUID         `gorm:"type:uuid;index"`
	SerialNumber    string             `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (InventoryUnit) TableName() string {
	return "inventory_units"
}

// NewInventoryUnit creates a unit for an order line. The initial state is
// decided by the caller: OnHand when stock was available at order time,
// Backordered otherwise.
func NewInventoryUnit(
	variantID, orderID, lineItemID uuid.UUID,
	quantity int64,
	state InventoryUnitState,
) (*InventoryUnit, error) {
	if variantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_VARIANT", "Variant ID cannot be empty")
	}
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order ID cannot be empty")
	}
	if lineItemID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LINE_ITEM", "Line item ID cannot be empty")
	}
	if quantity < 1 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Unit quantity must be at least 1")
	}
	if state != UnitStateOnHand && state != UnitStateBackordered {
		return nil, shared.NewDomainError("INVALID_STATE", "Units start on hand or backordered")
	}

	return &InventoryUnit{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		VariantID:         variantID,
		OrderID:           orderID,
		LineItemID:        lineItemID,
		Quantity:          quantity,
		State:             state,
	}, nil
}

// IsInTerminalState returns true once the unit is returned or canceled
func (u *InventoryUnit) IsInTerminalState() bool {
	return u.State.IsTerminal()
}

// CanBeShipped returns true when the unit is on hand
func (u *InventoryUnit) CanBeShipped() bool {
	return u.State == UnitStateOnHand
}

// IsAvailableForFulfillment returns true for on-hand or backordered units
func (u *InventoryUnit) IsAvailableForFulfillment() bool {
	return u.State == UnitStateOnHand || u.State == UnitStateBackordered
}

// CanBeSplit returns true for units still awaiting fulfillment. Shipped
// units are not splittable.
func (u *InventoryUnit) CanBeSplit() bool {
	return u.IsAvailableForFulfillment() && u.Quantity > 1
}

// HasActiveReturn returns true once the unit has been returned
func (u *InventoryUnit) HasActiveReturn() bool {
	return u.State == UnitStateReturned
}

// FillBackorder transitions a backordered unit to on hand once restocked.
// Calling it on a unit already on hand is a no-op.
func (u *InventoryUnit) FillBackorder() error {
	if u.State == UnitStateOnHand {
		return nil
	}
	if u.State != UnitStateBackordered {
		return shared.NewDomainError("INVALID_STATE_TRANSITION", "Only backordered units can be filled")
	}

	u.State = UnitStateOnHand
	u.UpdatedAt = time.Now()
	u.IncrementVersion()

	u.AddDomainEvent(NewBackorderFilledEvent(u))

	return nil
}

// Ship marks an on-hand unit as dispatched on the given shipment
func (u *InventoryUnit) Ship(shipmentID *uuid.UUID) error {
	if u.State == UnitStateBackordered {
		return shared.NewDomainError("CANNOT_SHIP_FROM_BACKORDERED", "Backordered units must be filled before shipping")
	}
	if u.State != UnitStateOnHand {
		return shared.NewDomainError("INVALID_STATE_TRANSITION", "Only on-hand units can be shipped")
	}

	u.State = UnitStateShipped
	u.ShipmentID = shipmentID
	u.UpdatedAt = time.Now()
	u.IncrementVersion()

	u.AddDomainEvent(NewInventoryUnitShippedEvent(u))

	return nil
}

// Return marks a shipped unit as returned. Idempotent once returned.
func (u *InventoryUnit) Return() error {
	if u.State == UnitStateReturned {
		return nil
	}
	if u.State != UnitStateShipped {
		return shared.NewDomainError("CANNOT_RETURN_FROM_NON_SHIPPED", "Only shipped units can be returned")
	}

	u.State = UnitStateReturned
	u.UpdatedAt = time.Now()
	u.IncrementVersion()

	u.AddDomainEvent(NewInventoryUnitReturnedEvent(u))

	return nil
}

// Cancel voids a unit that has not been dispatched. Idempotent once canceled.
func (u *InventoryUnit) Cancel() error {
	if u.State == UnitStateCanceled {
		return nil
	}
	if u.State == UnitStateShipped || u.State == UnitStateReturned {
		return shared.NewDomainError("INVALID_STATE_TRANSITION", "Dispatched or returned units cannot be canceled")
	}

	u.State = UnitStateCanceled
	u.UpdatedAt = time.Now()
	u.IncrementVersion()

	u.AddDomainEvent(NewInventoryUnitCanceledEvent(u))

	return nil
}

// Split extracts extractQuantity units into a new record that shares the
// unit's state, variant, order line and location but gets its own identity
// and no serial number. The quantities of both records always sum to the
// original quantity.
func (u *InventoryUnit) Split(extractQuantity int64) (*InventoryUnit, error) {
	if u.IsInTerminalState() || u.State == UnitStateShipped {
		return nil, shared.NewDomainError("CANNOT_SPLIT_IN_TERMINAL_STATE", "Unit can no longer be split")
	}
	if extractQuantity <= 0 || extractQuantity >= u.Quantity {
		return nil, shared.NewDomainError("INVALID_SPLIT_QUANTITY", "Split quantity must be between 1 and the unit quantity exclusive")
	}

	extracted := &InventoryUnit{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		VariantID:         u.VariantID,
		OrderID:           u.OrderID,
		LineItemID:        u.LineItemID,
		Quantity:          extractQuantity,
		State:             u.State,
		StockLocationID:   u.StockLocationID,
	}

	u.Quantity -= extractQuantity
	u.UpdatedAt = time.Now()
	u.IncrementVersion()

	u.AddDomainEvent(NewInventoryUnitSplitEvent(u, extracted))

	return extracted, nil
}

// SetStockLocation relocates the unit. Idempotent; valid in any
// non-terminal state.
func (u *InventoryUnit) SetStockLocation(stockLocationID uuid.UUID) error {
	if stockLocationID == uuid.Nil {
		return shared.NewDomainError("INVALID_LOCATION", "Stock location ID cannot be empty")
	}
	if u.IsInTerminalState() {
		return shared.NewDomainError("INVALID_STATE_TRANSITION", "Terminal units cannot be relocated")
	}
	if u.StockLocationID != nil && *u.StockLocationID == stockLocationID {
		return nil
	}

	u.StockLocationID = &stockLocationID
	u.UpdatedAt = time.Now()
	u.IncrementVersion()

	return nil
}

// SetSerialNumber tags the unit with a physical serial number
func (u *InventoryUnit) SetSerialNumber(serial string) {
	u.SerialNumber = serial
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
}
