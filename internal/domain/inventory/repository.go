package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/stockledger/backend/internal/domain/shared"
)

// StockItemRepository defines the interface for stock item persistence
type StockItemRepository interface {
	// FindByID finds a stock item by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*StockItem, error)

	// FindByLocationAndVariant finds the ledger row for a location-variant pair
	FindByLocationAndVariant(ctx context.Context, stockLocationID, variantID uuid.UUID) (*StockItem, error)

	// FindByLocation finds all stock items at a location
	FindByLocation(ctx context.Context, stockLocationID uuid.UUID, filter shared.Filter) ([]StockItem, error)

	// FindByVariant finds all stock items for a variant across locations
	FindByVariant(ctx context.Context, variantID uuid.UUID, filter shared.Filter) ([]StockItem, error)

	// FindAll lists stock items matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]StockItem, error)

	// FindBackorderable finds backorderable items for a variant
	FindBackorderable(ctx context.Context, variantID uuid.UUID) ([]StockItem, error)

	// Create inserts a new stock item. A second item for the same
	// location-variant pair fails with a DUPLICATE_SKU conflict.
	Create(ctx context.Context, item *StockItem) error

	// Save creates or updates a stock item without a version check
	Save(ctx context.Context, item *StockItem) error

	// SaveWithLock saves with optimistic locking (checks version)
	SaveWithLock(ctx context.Context, item *StockItem) error

	// Delete removes a stock item; callers must check CanBeDeleted first
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts stock items matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsWithStock reports whether any item at the location holds stock
	ExistsWithStock(ctx context.Context, stockLocationID uuid.UUID) (bool, error)

	// ExistsWithReserved reports whether any item at the location carries
	// an open reservation
	ExistsWithReserved(ctx context.Context, stockLocationID uuid.UUID) (bool, error)
}

// StockMovementRepository defines the interface for the append-only audit
// trail. Movements are never updated or deleted.
type StockMovementRepository interface {
	// FindByID finds a movement by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*StockMovement, error)

	// FindByStockItem lists movements for a stock item, newest first
	FindByStockItem(ctx context.Context, stockItemID uuid.UUID, filter shared.Filter) ([]StockMovement, error)

	// FindByStockTransfer lists the movements stamped with a transfer ID
	FindByStockTransfer(ctx context.Context, stockTransferID uuid.UUID) ([]StockMovement, error)

	// Create appends a movement to the trail
	Create(ctx context.Context, movement *StockMovement) error

	// CreateBatch appends several movements in one statement
	CreateBatch(ctx context.Context, movements []StockMovement) error

	// CountByStockItem counts movements for a stock item
	CountByStockItem(ctx context.Context, stockItemID uuid.UUID) (int64, error)
}

// InventoryUnitRepository defines the interface for inventory unit persistence
type InventoryUnitRepository interface {
	// FindByID finds a unit by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*InventoryUnit, error)

	// FindByOrder lists all units belonging to an order
	FindByOrder(ctx context.Context, orderID uuid.UUID) ([]InventoryUnit, error)

	// FindByLineItem lists all units belonging to an order line
	FindByLineItem(ctx context.Context, lineItemID uuid.UUID) ([]InventoryUnit, error)

	// FindBackordered lists backordered units for a variant that are
	// pinned to the given location or not pinned anywhere, in creation
	// order, oldest first. This ordering is what makes backorder fill
	// FIFO; the location scope keeps a restock from filling units
	// waiting on stock elsewhere.
	FindBackordered(ctx context.Context, variantID, stockLocationID uuid.UUID) ([]*InventoryUnit, error)

	// FindByState lists units in a given state
	FindByState(ctx context.Context, state InventoryUnitState, filter shared.Filter) ([]InventoryUnit, error)

	// Save creates or updates a unit without a version check
	Save(ctx context.Context, unit *InventoryUnit) error

	// SaveWithLock saves with optimistic locking (checks version)
	SaveWithLock(ctx context.Context, unit *InventoryUnit) error

	// Count counts units matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// StockTransferRepository defines the interface for stock transfer persistence
type StockTransferRepository interface {
	// FindByID finds a transfer with its lines by ID
	FindByID(ctx context.Context, id uuid.UUID) (*StockTransfer, error)

	// FindByNumber finds a transfer by its reference number
	FindByNumber(ctx context.Context, number string) (*StockTransfer, error)

	// FindByLocation lists transfers touching a location as source or
	// destination
	FindByLocation(ctx context.Context, stockLocationID uuid.UUID, filter shared.Filter) ([]StockTransfer, error)

	// FindAll lists transfers matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]StockTransfer, error)

	// Create inserts a transfer together with its lines
	Create(ctx context.Context, transfer *StockTransfer) error

	// Count counts transfers matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
