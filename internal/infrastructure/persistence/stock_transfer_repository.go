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

// GormStockTransferRepository implements StockTransferRepository using GORM
type GormStockTransferRepository struct {
	db *gorm.DB
}

// NewGormStockTransferRepository creates a new GormStockTransferRepository
func NewGormStockTransferRepository(db *gorm.DB) *GormStockTransferRepository {
	return &GormStockTransferRepository{db: db}
}

// FindByID finds a transfer with its lines by ID
func (r *GormStockTransferRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockTransfer, error) {
	var transfer inventory.StockTransfer
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&transfer, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &transfer, nil
}

// FindByNumber finds a transfer by its reference number
func (r *GormStockTransferRepository) FindByNumber(ctx context.Context, number string) (*inventory.StockTransfer, error) {
	var transfer inventory.StockTransfer
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&transfer, "number = ?", number).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &transfer, nil
}

// FindByLocation lists transfers touching a location as source or destination
func (r *GormStockTransferRepository) FindByLocation(ctx context.Context, stockLocationID uuid.UUID, filter shared.Filter) ([]inventory.StockTransfer, error) {
	var transfers []inventory.StockTransfer
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&inventory.StockTransfer{}).
			Where("source_location_id = ? OR destination_location_id = ?", stockLocationID, stockLocationID),
		filter,
	)

	if err := query.Preload("Lines").Find(&transfers).Error; err != nil {
		return nil, err
	}
	return transfers, nil
}

// FindAll lists transfers matching the filter
func (r *GormStockTransferRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.StockTransfer, error) {
	var transfers []inventory.StockTransfer
	query := r.applyFilter(r.db.WithContext(ctx).Model(&inventory.StockTransfer{}), filter)

	if err := query.Preload("Lines").Find(&transfers).Error; err != nil {
		return nil, err
	}
	return transfers, nil
}

// Create inserts a transfer together with its lines
func (r *GormStockTransferRepository) Create(ctx context.Context, transfer *inventory.StockTransfer) error {
	if err := r.db.WithContext(ctx).Create(transfer).Error; err != nil {
		if isDuplicateKey(err) {
			return shared.NewDomainError("DUPLICATE_NUMBER", "Stock transfer number already exists")
		}
		return err
	}
	return nil
}

// Count counts transfers matching the filter
func (r *GormStockTransferRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&inventory.StockTransfer{})
	for key, value := range filter.Filters {
		switch key {
		case "stock_location_id":
			query = query.Where("source_location_id = ? OR destination_location_id = ?", value, value)
		case "receipt":
			if value == true {
				query = query.Where("source_location_id IS NULL")
			}
		}
	}

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormStockTransferRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "receipt":
			if value == true {
				query = query.Where("source_location_id IS NULL")
			}
		case "reference":
			query = query.Where("reference = ?", value)
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

// Ensure GormStockTransferRepository implements StockTransferRepository
var _ inventory.StockTransferRepository = (*GormStockTransferRepository)(nil)
