package inventory

import (
	"context"

	"github.com/stockledger/backend/internal/domain/inventory"
	"github.com/stockledger/backend/internal/domain/location"
)

// TransactionScope provides transactional access to inventory repositories.
// When a function is executed within a transaction scope, all repository
// operations are part of the same database transaction and commit or roll
// back atomically. Stock transfers rely on this: both legs of a transfer
// succeed together or not at all.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to all inventory repositories
// within a transaction. All repositories returned share the same underlying
// database transaction.
//
// StockMovement rows attached to a StockItem are persisted via association
// handling when the aggregate is saved; MovementRepo exists for queries and
// for transfer legs that batch movements explicitly.
type TransactionalRepositories interface {
	// StockItemRepo returns the stock item repository scoped to the current transaction
	StockItemRepo() inventory.StockItemRepository
	// MovementRepo returns the stock movement repository scoped to the current transaction
	MovementRepo() inventory.StockMovementRepository
	// UnitRepo returns the inventory unit repository scoped to the current transaction
	UnitRepo() inventory.InventoryUnitRepository
	// TransferRepo returns the stock transfer repository scoped to the current transaction
	TransferRepo() inventory.StockTransferRepository
	// LocationRepo returns the stock location repository scoped to the current transaction
	LocationRepo() location.StockLocationRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful for testing with in-memory or mock repositories.
type NoOpTransactionScope struct {
	stockItemRepo inventory.StockItemRepository
	movementRepo  inventory.StockMovementRepository
	unitRepo      inventory.InventoryUnitRepository
	transferRepo  inventory.StockTransferRepository
	locationRepo  location.StockLocationRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	stockItemRepo inventory.StockItemRepository,
	movementRepo inventory.StockMovementRepository,
	unitRepo inventory.InventoryUnitRepository,
	transferRepo inventory.StockTransferRepository,
	locationRepo location.StockLocationRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		stockItemRepo: stockItemRepo,
		movementRepo:  movementRepo,
		unitRepo:      unitRepo,
		transferRepo:  transferRepo,
		locationRepo:  locationRepo,
	}
}

// Execute runs the function without a real transaction (for testing/compatibility).
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// StockItemRepo returns the stock item repository.
func (s *NoOpTransactionScope) StockItemRepo() inventory.StockItemRepository {
	return s.stockItemRepo
}

// MovementRepo returns the stock movement repository.
func (s *NoOpTransactionScope) MovementRepo() inventory.StockMovementRepository {
	return s.movementRepo
}

// UnitRepo returns the inventory unit repository.
func (s *NoOpTransactionScope) UnitRepo() inventory.InventoryUnitRepository {
	return s.unitRepo
}

// TransferRepo returns the stock transfer repository.
func (s *NoOpTransactionScope) TransferRepo() inventory.StockTransferRepository {
	return s.transferRepo
}

// LocationRepo returns the stock location repository.
func (s *NoOpTransactionScope) LocationRepo() location.StockLocationRepository {
	return s.locationRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
