package persistence

import (
	"context"

	"gorm.io/gorm"

	appinventory "github.com/stockledger/backend/internal/application/inventory"
	"github.com/stockledger/backend/internal/domain/inventory"
	"github.com/stockledger/backend/internal/domain/location"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// Both legs of a stock transfer, or a delete together with its guards, run
// through one scope and commit or roll back atomically.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appinventory.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormTransactionalRepositories{tx: tx}
		return fn(repos)
	})
}

// gormTransactionalRepositories provides access to all repositories within a transaction
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// StockItemRepo returns the stock item repository scoped to the current transaction
func (r *gormTransactionalRepositories) StockItemRepo() inventory.StockItemRepository {
	return NewGormStockItemRepository(r.tx)
}

// MovementRepo returns the stock movement repository scoped to the current transaction
func (r *gormTransactionalRepositories) MovementRepo() inventory.StockMovementRepository {
	return NewGormStockMovementRepository(r.tx)
}

// UnitRepo returns the inventory unit repository scoped to the current transaction
func (r *gormTransactionalRepositories) UnitRepo() inventory.InventoryUnitRepository {
	return NewGormInventoryUnitRepository(r.tx)
}

// TransferRepo returns the stock transfer repository scoped to the current transaction
func (r *gormTransactionalRepositories) TransferRepo() inventory.StockTransferRepository {
	return NewGormStockTransferRepository(r.tx)
}

// LocationRepo returns the stock location repository scoped to the current transaction
func (r *gormTransactionalRepositories) LocationRepo() location.StockLocationRepository {
	return NewGormStockLocationRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ appinventory.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ appinventory.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
