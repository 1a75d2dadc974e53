package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stockledger/backend/internal/domain/location"
	"github.com/stockledger/backend/internal/domain/shared"
)

// GormStockLocationRepository implements StockLocationRepository using GORM
type GormStockLocationRepository struct {
	db *gorm.DB
}

// NewGormStockLocationRepository creates a new GormStockLocationRepository
func NewGormStockLocationRepository(db *gorm.DB) *GormStockLocationRepository {
	return &GormStockLocationRepository{db: db}
}

// FindByID finds a location by its ID
func (r *GormStockLocationRepository) FindByID(ctx context.Context, id uuid.UUID) (*location.StockLocation, error) {
	var loc location.StockLocation
	if err := r.db.WithContext(ctx).First(&loc, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &loc, nil
}

// FindByCode finds a location by its unique code
func (r *GormStockLocationRepository) FindByCode(ctx context.Context, code string) (*location.StockLocation, error) {
	var loc location.StockLocation
	if err := r.db.WithContext(ctx).
		First(&loc, "code = ?", strings.ToUpper(strings.TrimSpace(code))).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &loc, nil
}

// FindDefault finds the default fulfillment location
func (r *GormStockLocationRepository) FindDefault(ctx context.Context) (*location.StockLocation, error) {
	var loc location.StockLocation
	if err := r.db.WithContext(ctx).First(&loc, "is_default = ?", true).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &loc, nil
}

// FindActive lists active locations ordered by sort order
func (r *GormStockLocationRepository) FindActive(ctx context.Context, filter shared.Filter) ([]location.StockLocation, error) {
	var locations []location.StockLocation
	query := r.db.WithContext(ctx).Model(&location.StockLocation{}).
		Where("active = ?", true).
		Order("sort_order ASC, code ASC")

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if err := query.Find(&locations).Error; err != nil {
		return nil, err
	}
	return locations, nil
}

// FindAll lists locations matching the filter
func (r *GormStockLocationRepository) FindAll(ctx context.Context, filter shared.Filter) ([]location.StockLocation, error) {
	var locations []location.StockLocation
	query := r.applyFilter(r.db.WithContext(ctx).Model(&location.StockLocation{}), filter)

	if err := query.Find(&locations).Error; err != nil {
		return nil, err
	}
	return locations, nil
}

// Save creates or updates a location
func (r *GormStockLocationRepository) Save(ctx context.Context, loc *location.StockLocation) error {
	if err := r.db.WithContext(ctx).Save(loc).Error; err != nil {
		if isDuplicateKey(err) {
			return shared.NewDomainError("DUPLICATE_CODE", "Stock location code already exists")
		}
		return err
	}
	return nil
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormStockLocationRepository) SaveWithLock(ctx context.Context, loc *location.StockLocation) error {
	result := r.db.WithContext(ctx).
		Model(loc).
		Where("id = ? AND version = ?", loc.ID, loc.Version-1).
		Updates(map[string]interface{}{
			"code":                  loc.Code,
			"name":                  loc.Name,
			"presentation":          loc.Presentation,
			"type":                  loc.Type,
			"address":               loc.Address,
			"city":                  loc.City,
			"region":                loc.Region,
			"postal_code":           loc.PostalCode,
			"country":               loc.Country,
			"phone":                 loc.Phone,
			"active":                loc.Active,
			"is_default":            loc.Default,
			"backorderable_default": loc.BackorderableDefault,
			"fulfillable_online":    loc.FulfillableOnline,
			"sort_order":            loc.SortOrder,
			"version":               loc.Version,
			"updated_at":            loc.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Delete removes a location
func (r *GormStockLocationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&location.StockLocation{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts locations matching the filter
func (r *GormStockLocationRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&location.StockLocation{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByCode reports whether a location with the code exists
func (r *GormStockLocationRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&location.StockLocation{}).
		Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies filter options to the query
func (r *GormStockLocationRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

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
		query = query.Order("sort_order ASC, code ASC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormStockLocationRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "type":
			query = query.Where("type = ?", value)
		case "active":
			query = query.Where("active = ?", value)
		case "country":
			query = query.Where("country = ?", value)
		case "fulfillable_online":
			query = query.Where("fulfillable_online = ?", value)
		}
	}

	return query
}

// Ensure GormStockLocationRepository implements StockLocationRepository
var _ location.StockLocationRepository = (*GormStockLocationRepository)(nil)
