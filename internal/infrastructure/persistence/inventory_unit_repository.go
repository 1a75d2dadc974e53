package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stockledger/backend/internal/domain/inventory"
	"github.com/stockledger/backend/internal/domain/shared"
)

// GormInventoryUnitRepository implements InventoryUnitRepository using GORM
type GormInventoryUnitRepository struct {
	db *gorm.DB
}

// NewGormInventoryUnitRepository creates a new GormInventoryUnitRepository
func NewGormInventoryUnitRepository(db *gorm.DB) *GormInventoryUnitRepository {
	return &GormInventoryUnitRepository{db: db}
}

// FindByID finds a unit by its ID
func (r *GormInventoryUnitRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.InventoryUnit, error) {
	var unit inventory.InventoryUnit
	if err := r.db.WithContext(ctx).First(&unit, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &unit, nil
}

// FindByOrder lists all units belonging to an order
func (r *GormInventoryUnitRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]inventory.InventoryUnit, error) {
	var units []inventory.InventoryUnit
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&units).Error; err != nil {
		return nil, err
	}
	return units, nil
}

// FindByLineItem lists all units belonging to an order line
func (r *GormInventoryUnitRepository) FindByLineItem(ctx context.Context, lineItemID uuid.UUID) ([]inventory.InventoryUnit, error) {
	var units []inventory.InventoryUnit
	if err := r.db.WithContext(ctx).
		Where("line_item_id = ?", lineItemID).
		Order("created_at ASC").
		Find(&units).Error; err != nil {
		return nil, err
	}
	return units, nil
}

// FindBackordered lists backordered units for a variant that are pinned to
// the location or not pinned anywhere, in creation order, oldest first.
// This ordering is what makes backorder fill FIFO.
func (r *GormInventoryUnitRepository) FindBackordered(ctx context.Context, variantID, stockLocationID uuid.UUID) ([]*inventory.InventoryUnit, error) {
	var units []*inventory.InventoryUnit
	if err := r.db.WithContext(ctx).
		Where("variant_id = ? AND state = ?", variantID, inventory.UnitStateBackordered).
		Where("stock_location_id = ? OR stock_location_id IS NULL", stockLocationID).
		Order("created_at ASC").
		Find(&units).Error; err != nil {
		return nil, err
	}
	return units, nil
}

// FindByState lists units in a given state
func (r *GormInventoryUnitRepository) FindByState(ctx context.Context, state inventory.InventoryUnitState, filter shared.Filter) ([]inventory.InventoryUnit, error) {
	var units []inventory.InventoryUnit
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&inventory.InventoryUnit{}).
			Where("state = ?", state),
		filter,
	)

	if err := query.Find(&units).Error; err != nil {
		return nil, err
	}
	return units, nil
}

// Save creates or updates a unit without a version check
func (r *GormInventoryUnitRepository) Save(ctx context.Context, unit *inventory.InventoryUnit) error {
	return r.db.WithContext(ctx).Save(unit).Error
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormInventoryUnitRepository) SaveWithLock(ctx context.Context, unit *inventory.InventoryUnit) error {
	result := r.db.WithContext(ctx).
		Model(unit).
		Where("id = ? AND version = ?", unit.ID, unit.Version-1).
		Updates(map[string]interface{}{
			"state":             unit.State,
			"quantity":          unit.Quantity,
			"stock_location_id": unit.StockLocationID,
			"shipment_id":       unit.ShipmentID,
			"serial_number":     unit.SerialNumber,
			"version":           unit.Version,
			"updated_at":        unit.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Count counts units matching the filter
func (r *GormInventoryUnitRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&inventory.InventoryUnit{})
	for key, value := range filter.Filters {
		switch key {
		case "variant_id":
			query = query.Where("variant_id = ?", value)
		case "order_id":
			query = query.Where("order_id = ?", value)
		case "state":
			query = query.Where("state = ?", value)
		}
	}

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormInventoryUnitRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "variant_id":
			query = query.Where("variant_id = ?", value)
		case "order_id":
			query = query.Where("order_id = ?", value)
		case "stock_location_id":
			query = query.Where("stock_location_id = ?", value)
		}
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

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

// Ensure GormInventoryUnitRepository implements InventoryUnitRepository
var _ inventory.InventoryUnitRepository = (*GormInventoryUnitRepository)(nil)
