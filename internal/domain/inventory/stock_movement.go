package inventory

import (
	"github.com/google/uuid"
	"github.com/stockledger/backend/internal/domain/shared"
)

// MovementOriginator identifies the business cause of a stock movement
type MovementOriginator string

const (
	OriginatorStockTransfer MovementOriginator = "STOCK_TRANSFER"
	OriginatorOrder         MovementOriginator = "ORDER"
	OriginatorReturn        MovementOriginator = "RETURN"
	OriginatorDamage        MovementOriginator = "DAMAGE"
	OriginatorLoss          MovementOriginator = "LOSS"
	OriginatorFound         MovementOriginator = "FOUND"
	OriginatorPromotion     MovementOriginator = "PROMOTION"
	OriginatorAdjustment    MovementOriginator = "ADJUSTMENT"
	OriginatorRecount       MovementOriginator = "RECOUNT"
	OriginatorShipment      MovementOriginator = "SHIPMENT"
	OriginatorSupplier      MovementOriginator = "SUPPLIER"
	OriginatorCustomer      MovementOriginator = "CUSTOMER"
)

// String returns the string representation of MovementOriginator
func (o MovementOriginator) String() string {
	return string(o)
}

// IsValid returns true if the originator is part of the closed vocabulary
func (o MovementOriginator) IsValid() bool {
	switch o {
	case OriginatorStockTransfer,
		OriginatorOrder,
		OriginatorReturn,
		OriginatorDamage,
		OriginatorLoss,
		OriginatorFound,
		OriginatorPromotion,
		OriginatorAdjustment,
		OriginatorRecount,
		OriginatorShipment,
		OriginatorSupplier,
		OriginatorCustomer:
		return true
	}
	return false
}

// MovementAction identifies what kind of ledger change a movement records
type MovementAction string

const (
	ActionReceived   MovementAction = "RECEIVED"
	ActionSold       MovementAction = "SOLD"
	ActionReturned   MovementAction = "RETURNED"
	ActionDamaged    MovementAction = "DAMAGED"
	ActionLost       MovementAction = "LOST"
	ActionAdjustment MovementAction = "ADJUSTMENT"
	ActionReserved   MovementAction = "RESERVED"
	ActionReleased   MovementAction = "RELEASED"
)

// String returns the string representation of MovementAction
func (a MovementAction) String() string {
	return string(a)
}

// IsValid returns true if the action is part of the closed vocabulary
func (a MovementAction) IsValid() bool {
	switch a {
	case ActionReceived,
		ActionSold,
		ActionReturned,
		ActionDamaged,
		ActionLost,
		ActionAdjustment,
		ActionReserved,
		ActionReleased:
		return true
	}
	return false
}

// StockMovement is the immutable audit record of a single signed quantity
// change applied to one StockItem. Movements are created only by StockItem
// operations and are never updated or deleted - corrections are recorded
// as new movements.
type StockMovement struct {
	shared.BaseEntity
	StockItemID     uuid.UUID          `gorm:"type:uuid;not null;index:idx_stock_movement_item"`
	VariantID       uuid.UUID          `gorm:"type:uuid;not null;index:idx_stock_movement_variant"`
	StockLocationID uuid.UUID          `gorm:"type:uuid;not null;index:idx_stock_movement_location"`
	Quantity        int64              `gorm:"not null"` // Signed, never zero
	Originator      MovementOriginator `gorm:"type:varchar(30);not null;index:idx_stock_movement_originator"`
	Action          MovementAction     `gorm:"type:varchar(30);not null;index:idx_stock_movement_action"`
	Reason          string             `gorm:"type:varchar(255)"`
	StockTransferID *uuid.UUID         `gorm:"type:uuid;index"` // Set when caused by a transfer
	OnHandBefore    int64              `gorm:"not null"`        // On-hand quantity before the change
	OnHandAfter     int64              `gorm:"not null"`        // On-hand quantity after the change
}

// TableName returns the table name for GORM
func (StockMovement) TableName() string {
	return "stock_movements"
}

// NewStockMovement creates a new stock movement record
func NewStockMovement(
	stockItemID, variantID, stockLocationID uuid.UUID,
	quantity int64,
	originator MovementOriginator,
	action MovementAction,
) (*StockMovement, error) {
	if stockItemID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STOCK_ITEM", "Stock item ID cannot be empty")
	}
	if quantity == 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Movement quantity cannot be zero")
	}
	if !originator.IsValid() {
		return nil, shared.NewDomainError("INVALID_ORIGINATOR", "Invalid movement originator")
	}
	if !action.IsValid() {
		return nil, shared.NewDomainError("INVALID_ACTION", "Invalid movement action")
	}

	return &StockMovement{
		BaseEntity:      shared.NewBaseEntity(),
		StockItemID:     stockItemID,
		VariantID:       variantID,
		StockLocationID: stockLocationID,
		Quantity:        quantity,
		Originator:      originator,
		Action:          action,
	}, nil
}

// WithReason sets the human-readable reason for the movement
func (m *StockMovement) WithReason(reason string) *StockMovement {
	m.Reason = reason
	return m
}

// WithStockTransfer stamps the movement with the transfer that caused it
func (m *StockMovement) WithStockTransfer(transferID uuid.UUID) *StockMovement {
	m.StockTransferID = &transferID
	return m
}

// WithBalances records the on-hand balance around the change
func (m *StockMovement) WithBalances(before, after int64) *StockMovement {
	m.OnHandBefore = before
	m.OnHandAfter = after
	return m
}

// IsInbound returns true if the movement increased on-hand quantity
func (m *StockMovement) IsInbound() bool {
	return m.OnHandAfter > m.OnHandBefore
}

// IsOutbound returns true if the movement decreased on-hand quantity
func (m *StockMovement) IsOutbound() bool {
	return m.OnHandAfter < m.OnHandBefore
}

// BalanceChange returns the net on-hand change recorded by the movement
func (m *StockMovement) BalanceChange() int64 {
	return m.OnHandAfter - m.OnHandBefore
}
