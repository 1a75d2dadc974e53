package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/stockledger/backend/internal/domain/shared"
)

// StockItem is the ledger row for one (variant, location) pair and the
// aggregate root for all quantity changes. Quantities are mutated only
// through its methods; every successful mutation appends exactly one
// StockMovement.
//
// QuantityReserved may exceed QuantityOnHand while Backorderable is true.
// For non-backorderable items a reservation never pushes reserved above
// on-hand.
type StockItem struct {
	shared.BaseAggregateRoot
	VariantID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_stock_item_location_variant,priority:2"`
	StockLocationID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_stock_item_location_variant,priority:1"`
	Sku              string    `gorm:"type:varchar(100);not null;index"`
	QuantityOnHand   int64     `gorm:"not null;default:0"`
	QuantityReserved int64     `gorm:"not null;default:0"`
	Backorderable    bool      `gorm:"not null;default:true"`

	// Movements appended by the operations below, persisted append-only
	Movements []StockMovement `gorm:"foreignKey:StockItemID;references:ID"`
}

// TableName returns the table name for GORM
func (StockItem) TableName() string {
	return "stock_items"
}

// NewStockItem creates a new stock item for a variant-location combination.
// A duplicate (variant, location) pair is rejected at the storage boundary
// by the unique index and surfaces as a DUPLICATE_SKU conflict.
func NewStockItem(
	variantID, stockLocationID uuid.UUID,
	sku string,
	quantityOnHand, quantityReserved int64,
	backorderable bool,
) (*StockItem, error) {
	if variantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_VARIANT", "Variant ID cannot be empty")
	}
	if stockLocationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Stock location ID cannot be empty")
	}
	if quantityOnHand < 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "On-hand quantity cannot be negative")
	}
	if quantityReserved < 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Reserved quantity cannot be negative")
	}
	if !backorderable && quantityReserved > quantityOnHand {
		return nil, shared.ErrInsufficientStock
	}

	item := &StockItem{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		VariantID:         variantID,
		StockLocationID:   stockLocationID,
		Sku:               sku,
		QuantityOnHand:    quantityOnHand,
		QuantityReserved:  quantityReserved,
		Backorderable:     backorderable,
		Movements:         make([]StockMovement, 0),
	}

	// Opening balance is auditable like any other change.
	if quantityOnHand != 0 {
		movement, err := NewStockMovement(item.ID, variantID, stockLocationID, quantityOnHand, OriginatorAdjustment, ActionAdjustment)
		if err != nil {
			return nil, err
		}
		movement.WithReason("initial stock").WithBalances(0, quantityOnHand)
		item.Movements = append(item.Movements, *movement)
	}

	item.AddDomainEvent(NewStockItemCreatedEvent(item))

	return item, nil
}

// CountAvailable returns on-hand minus reserved, floored at zero
func (i *StockItem) CountAvailable() int64 {
	available := i.QuantityOnHand - i.QuantityReserved
	if available < 0 {
		return 0
	}
	return available
}

// InStock returns true if the item can accept a reservation right now
func (i *StockItem) InStock() bool {
	return i.CountAvailable() > 0 || i.Backorderable
}

// CanBeDeleted returns true when no balance or open reservation remains
func (i *StockItem) CanBeDeleted() bool {
	return i.QuantityOnHand == 0 && i.QuantityReserved == 0
}

// Adjust applies a signed quantity delta to on-hand stock and records the
// movement. Positive deltas are restocks and make the caller responsible
// for filling outstanding backorders in the same transaction.
func (i *StockItem) Adjust(quantity int64, originator MovementOriginator, reason string, transferID *uuid.UUID) (*StockMovement, error) {
	if quantity == 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Adjustment quantity cannot be zero")
	}
	if !originator.IsValid() {
		return nil, shared.NewDomainError("INVALID_ORIGINATOR", "Invalid movement originator")
	}

	before := i.QuantityOnHand
	after := before + quantity
	if after < 0 {
		return nil, shared.ErrInsufficientStock
	}

	movement, err := NewStockMovement(i.ID, i.VariantID, i.StockLocationID, quantity, originator, ActionAdjustment)
	if err != nil {
		return nil, err
	}
	movement.WithBalances(before, after)
	if reason != "" {
		movement.WithReason(reason)
	}
	if transferID != nil {
		movement.WithStockTransfer(*transferID)
	}

	i.QuantityOnHand = after
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
	i.Movements = append(i.Movements, *movement)

	i.AddDomainEvent(NewStockAdjustedEvent(i, quantity, originator, reason))

	return movement, nil
}

// Reserve commits quantity to a pending order. For non-backorderable items
// the reservation never exceeds the available count.
func (i *StockItem) Reserve(quantity int64, orderID uuid.UUID) (*StockMovement, error) {
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Reserve quantity must be positive")
	}
	if !i.Backorderable && i.CountAvailable() < quantity {
		return nil, shared.ErrInsufficientStock
	}

	movement, err := NewStockMovement(i.ID, i.VariantID, i.StockLocationID, -quantity, OriginatorOrder, ActionReserved)
	if err != nil {
		return nil, err
	}
	// Reservations do not change on-hand stock.
	movement.WithBalances(i.QuantityOnHand, i.QuantityOnHand)

	i.QuantityReserved += quantity
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
	i.Movements = append(i.Movements, *movement)

	i.AddDomainEvent(NewStockReservedEvent(i, quantity, orderID))

	return movement, nil
}

// Release returns a reserved quantity back to available stock, typically
// on order cancellation.
func (i *StockItem) Release(quantity int64, orderID uuid.UUID) (*StockMovement, error) {
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Release quantity must be positive")
	}
	if quantity > i.QuantityReserved {
		return nil, shared.NewDomainError("INVALID_RELEASE", "Cannot release more than the reserved quantity")
	}

	movement, err := NewStockMovement(i.ID, i.VariantID, i.StockLocationID, quantity, OriginatorOrder, ActionReleased)
	if err != nil {
		return nil, err
	}
	movement.WithBalances(i.QuantityOnHand, i.QuantityOnHand)

	i.QuantityReserved -= quantity
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
	i.Movements = append(i.Movements, *movement)

	i.AddDomainEvent(NewStockReleasedEvent(i, quantity, orderID))

	return movement, nil
}

// ConfirmShipment consumes a reserved quantity when a shipment departs,
// decrementing both on-hand and reserved counters.
func (i *StockItem) ConfirmShipment(quantity int64, shipmentID uuid.UUID) (*StockMovement, error) {
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Shipment quantity must be positive")
	}
	if quantity > i.QuantityReserved {
		return nil, shared.NewDomainError("INVALID_SHIPMENT", "Cannot ship more than the reserved quantity")
	}
	if quantity > i.QuantityOnHand {
		// Backordered reservations must be restocked before they ship.
		return nil, shared.ErrInsufficientStock
	}

	before := i.QuantityOnHand
	after := before - quantity

	movement, err := NewStockMovement(i.ID, i.VariantID, i.StockLocationID, -quantity, OriginatorShipment, ActionSold)
	if err != nil {
		return nil, err
	}
	movement.WithBalances(before, after)

	i.QuantityOnHand = after
	i.QuantityReserved -= quantity
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
	i.Movements = append(i.Movements, *movement)

	i.AddDomainEvent(NewShipmentConfirmedEvent(i, quantity, shipmentID))

	return movement, nil
}

// CorrectReserved administratively sets the reserved counter to a new
// value. This is deliberately distinct from Reserve/Release, which carry
// order semantics; corrections are labeled as adjustments in the audit
// trail.
func (i *StockItem) CorrectReserved(newReserved int64, reason string) (*StockMovement, error) {
	if newReserved < 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Reserved quantity cannot be negative")
	}
	if reason == "" {
		return nil, shared.NewDomainError("INVALID_REASON", "Correction reason is required")
	}
	if !i.Backorderable && newReserved > i.QuantityOnHand {
		return nil, shared.ErrInsufficientStock
	}

	delta := newReserved - i.QuantityReserved
	if delta == 0 {
		return nil, nil
	}

	// Movement sign mirrors Reserve/Release: growing the reservation is
	// a negative movement against availability.
	movement, err := NewStockMovement(i.ID, i.VariantID, i.StockLocationID, -delta, OriginatorAdjustment, ActionAdjustment)
	if err != nil {
		return nil, err
	}
	movement.WithReason(reason).WithBalances(i.QuantityOnHand, i.QuantityOnHand)

	i.QuantityReserved = newReserved
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
	i.Movements = append(i.Movements, *movement)

	i.AddDomainEvent(NewStockAdjustedEvent(i, -delta, OriginatorAdjustment, reason))

	return movement, nil
}

// SetBackorderable toggles whether reservations may exceed on-hand stock
func (i *StockItem) SetBackorderable(backorderable bool) error {
	if !backorderable && i.QuantityReserved > i.QuantityOnHand {
		return shared.ErrInsufficientStock
	}

	i.Backorderable = backorderable
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	return nil
}
