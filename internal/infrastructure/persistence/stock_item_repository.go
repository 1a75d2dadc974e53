package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/stockledger/backend/internal/domain/inventory"
	"github.com/stockledger/backend/internal/domain/shared"
)

// GormStockItemRepository implements StockItemRepository using GORM
type GormStockItemRepository struct {
	db *gorm.DB
}

// NewGormStockItemRepository creates a new GormStockItemRepository
func NewGormStockItemRepository(db *gorm.DB) *GormStockItemRepository {
	return &GormStockItemRepository{db: db}
}

// FindByID finds a stock item by its ID
func (r *GormStockItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockItem, error) {
	var item inventory.StockItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindByLocationAndVariant finds the ledger row for a location-variant pair
func (r *GormStockItemRepository) FindByLocationAndVariant(ctx context.Context, stockLocationID, variantID uuid.UUID) (*inventory.StockItem, error) {
	var item inventory.StockItem
	if err := r.db.WithContext(ctx).
		Where("stock_location_id = ? AND variant_id = ?", stockLocationID, variantID).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindByLocation finds all stock items at a location
func (r *GormStockItemRepository) FindByLocation(ctx context.Context, stockLocationID uuid.UUID, filter shared.Filter) ([]inventory.StockItem, error) {
	var items []inventory.StockItem
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&inventory.StockItem{}).
			Where("stock_location_id = ?", stockLocationID),
		filter,
	)

	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// FindByVariant finds all stock items for a variant across locations
func (r *GormStockItemRepository) FindByVariant(ctx context.Context, variantID uuid.UUID, filter shared.Filter) ([]inventory.StockItem, error) {
	var items []inventory.StockItem
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&inventory.StockItem{}).
			Where("variant_id = ?", variantID),
		filter,
	)

	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// FindAll lists stock items matching the filter
func (r *GormStockItemRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.StockItem, error) {
	var items []inventory.StockItem
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&inventory.StockItem{}),
		filter,
	)

	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// FindBackorderable finds backorderable items for a variant
func (r *GormStockItemRepository) FindBackorderable(ctx context.Context, variantID uuid.UUID) ([]inventory.StockItem, error) {
	var items []inventory.StockItem
	if err := r.db.WithContext(ctx).
		Where("variant_id = ? AND backorderable = ?", variantID, true).
		Order("created_at ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Create inserts a new stock item together with its opening movements.
// A second row for the same location-variant pair violates the unique
// index and surfaces as a DUPLICATE_SKU conflict.
func (r *GormStockItemRepository) Create(ctx context.Context, item *inventory.StockItem) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		if isDuplicateKey(err) {
			return shared.NewDomainError("DUPLICATE_SKU", "Stock item already exists for this variant at this location")
		}
		return err
	}
	return nil
}

// Save creates or updates a stock item without a version check
func (r *GormStockItemRepository) Save(ctx context.Context, item *inventory.StockItem) error {
	if err := r.db.WithContext(ctx).Omit("Movements").Save(item).Error; err != nil {
		return err
	}
	return r.insertNewMovements(ctx, item)
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormStockItemRepository) SaveWithLock(ctx context.Context, item *inventory.StockItem) error {
	result := r.db.WithContext(ctx).
		Model(item).
		Where("id = ? AND version = ?", item.ID, item.Version-1).
		Updates(map[string]interface{}{
			"quantity_on_hand":  item.QuantityOnHand,
			"quantity_reserved": item.QuantityReserved,
			"backorderable":     item.Backorderable,
			"version":           item.Version,
			"updated_at":        item.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return r.insertNewMovements(ctx, item)
}

// insertNewMovements appends any not-yet-persisted movements attached to
// the aggregate. Movement IDs are unique, so already-stored rows are left
// untouched.
func (r *GormStockItemRepository) insertNewMovements(ctx context.Context, item *inventory.StockItem) error {
	if len(item.Movements) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&item.Movements).Error
}

// Delete removes a stock item
func (r *GormStockItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&inventory.StockItem{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts stock items matching the filter
func (r *GormStockItemRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&inventory.StockItem{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsWithStock reports whether any item at the location holds stock
func (r *GormStockItemRepository) ExistsWithStock(ctx context.Context, stockLocationID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&inventory.StockItem{}).
		Where("stock_location_id = ? AND quantity_on_hand > 0", stockLocationID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ExistsWithReserved reports whether any item at the location carries an
// open reservation
func (r *GormStockItemRepository) ExistsWithReserved(ctx context.Context, stockLocationID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&inventory.StockItem{}).
		Where("stock_location_id = ? AND quantity_reserved > 0", stockLocationID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies filter options to the query
func (r *GormStockItemRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	// Apply pagination
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	// Apply ordering
	if filter.OrderBy != "" {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	} else {
		query = query.Order("created_at DESC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormStockItemRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "stock_location_id":
			query = query.Where("stock_location_id = ?", value)
		case "variant_id":
			query = query.Where("variant_id = ?", value)
		case "sku":
			query = query.Where("sku = ?", value)
		case "backorderable":
			query = query.Where("backorderable = ?", value)
		case "has_stock":
			if value == true {
				query = query.Where("quantity_on_hand > 0")
			}
		case "no_stock":
			if value == true {
				query = query.Where("quantity_on_hand = 0 AND quantity_reserved = 0")
			}
		}
	}

	return query
}

// isDuplicateKey reports whether the error is a unique constraint violation
func isDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(err.Error(), "duplicate key")
}

// Ensure GormStockItemRepository implements StockItemRepository
var _ inventory.StockItemRepository = (*GormStockItemRepository)(nil)
