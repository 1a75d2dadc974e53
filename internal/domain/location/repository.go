package location

import (
	"context"

	"github.com/google/uuid"
	"github.com/stockledger/backend/internal/domain/shared"
)

// StockLocationRepository defines the interface for stock location persistence
type StockLocationRepository interface {
	// FindByID finds a location by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*StockLocation, error)

	// FindByCode finds a location by its unique code
	FindByCode(ctx context.Context, code string) (*StockLocation, error)

	// FindDefault finds the default fulfillment location
	FindDefault(ctx context.Context) (*StockLocation, error)

	// FindActive lists active locations ordered by sort order
	FindActive(ctx context.Context, filter shared.Filter) ([]StockLocation, error)

	// FindAll lists locations matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]StockLocation, error)

	// Save creates or updates a location
	Save(ctx context.Context, location *StockLocation) error

	// SaveWithLock saves with optimistic locking (checks version)
	SaveWithLock(ctx context.Context, location *StockLocation) error

	// Delete removes a location. Callers enforce the stock and reservation
	// guards before calling.
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts locations matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsByCode reports whether a location with the code exists
	ExistsByCode(ctx context.Context, code string) (bool, error)
}
