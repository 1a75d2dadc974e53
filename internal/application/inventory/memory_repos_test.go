package inventory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/stockledger/backend/internal/domain/inventory"
	"github.com/stockledger/backend/internal/domain/location"
	"github.com/stockledger/backend/internal/domain/shared"
)

// MockEventPublisher collects published domain events for assertions
type MockEventPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{events: make([]shared.DomainEvent, 0)}
}

func (m *MockEventPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, events...)
	return nil
}

func (m *MockEventPublisher) GetEventsByType(eventType string) []shared.DomainEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]shared.DomainEvent, 0)
	for _, e := range m.events {
		if e.EventType() == eventType {
			result = append(result, e)
		}
	}
	return result
}

// memStockItemRepo is an in-memory StockItemRepository. Reads hand out
// snapshots and SaveWithLock enforces the same version compare-and-swap as
// the GORM repository, so stale or skipped saves surface in tests too.
type memStockItemRepo struct {
	items map[uuid.UUID]*inventory.StockItem
}

func newMemStockItemRepo() *memStockItemRepo {
	return &memStockItemRepo{items: make(map[uuid.UUID]*inventory.StockItem)}
}

func (r *memStockItemRepo) FindByID(_ context.Context, id uuid.UUID) (*inventory.StockItem, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	clone := *item
	return &clone, nil
}

func (r *memStockItemRepo) FindByLocationAndVariant(_ context.Context, stockLocationID, variantID uuid.UUID) (*inventory.StockItem, error) {
	for _, item := range r.items {
		if item.StockLocationID == stockLocationID && item.VariantID == variantID {
			clone := *item
			return &clone, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memStockItemRepo) FindByLocation(_ context.Context, stockLocationID uuid.UUID, _ shared.Filter) ([]inventory.StockItem, error) {
	result := make([]inventory.StockItem, 0)
	for _, item := range r.items {
		if item.StockLocationID == stockLocationID {
			result = append(result, *item)
		}
	}
	return result, nil
}

func (r *memStockItemRepo) FindByVariant(_ context.Context, variantID uuid.UUID, _ shared.Filter) ([]inventory.StockItem, error) {
	result := make([]inventory.StockItem, 0)
	for _, item := range r.items {
		if item.VariantID == variantID {
			result = append(result, *item)
		}
	}
	return result, nil
}

func (r *memStockItemRepo) FindAll(_ context.Context, _ shared.Filter) ([]inventory.StockItem, error) {
	result := make([]inventory.StockItem, 0, len(r.items))
	for _, item := range r.items {
		result = append(result, *item)
	}
	return result, nil
}

func (r *memStockItemRepo) FindBackorderable(_ context.Context, variantID uuid.UUID) ([]inventory.StockItem, error) {
	result := make([]inventory.StockItem, 0)
	for _, item := range r.items {
		if item.VariantID == variantID && item.Backorderable {
			result = append(result, *item)
		}
	}
	return result, nil
}

func (r *memStockItemRepo) Create(_ context.Context, item *inventory.StockItem) error {
	for _, existing := range r.items {
		if existing.StockLocationID == item.StockLocationID && existing.VariantID == item.VariantID {
			return shared.NewDomainError("DUPLICATE_SKU", "Stock item already exists for this variant and location")
		}
	}
	clone := *item
	r.items[item.ID] = &clone
	return nil
}

func (r *memStockItemRepo) Save(_ context.Context, item *inventory.StockItem) error {
	clone := *item
	r.items[item.ID] = &clone
	return nil
}

func (r *memStockItemRepo) SaveWithLock(_ context.Context, item *inventory.StockItem) error {
	existing, ok := r.items[item.ID]
	if !ok {
		return shared.ErrNotFound
	}
	if existing.Version != item.Version-1 {
		return shared.ErrConcurrencyConflict
	}
	clone := *item
	r.items[item.ID] = &clone
	return nil
}

func (r *memStockItemRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.items[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *memStockItemRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.items)), nil
}

func (r *memStockItemRepo) ExistsWithStock(_ context.Context, stockLocationID uuid.UUID) (bool, error) {
	for _, item := range r.items {
		if item.StockLocationID == stockLocationID && item.QuantityOnHand > 0 {
			return true, nil
		}
	}
	return false, nil
}

func (r *memStockItemRepo) ExistsWithReserved(_ context.Context, stockLocationID uuid.UUID) (bool, error) {
	for _, item := range r.items {
		if item.StockLocationID == stockLocationID && item.QuantityReserved > 0 {
			return true, nil
		}
	}
	return false, nil
}

// memMovementRepo is an in-memory StockMovementRepository
type memMovementRepo struct {
	movements []inventory.StockMovement
}

func newMemMovementRepo() *memMovementRepo {
	return &memMovementRepo{movements: make([]inventory.StockMovement, 0)}
}

func (r *memMovementRepo) FindByID(_ context.Context, id uuid.UUID) (*inventory.StockMovement, error) {
	for idx := range r.movements {
		if r.movements[idx].ID == id {
			return &r.movements[idx], nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memMovementRepo) FindByStockItem(_ context.Context, stockItemID uuid.UUID, _ shared.Filter) ([]inventory.StockMovement, error) {
	result := make([]inventory.StockMovement, 0)
	for _, movement := range r.movements {
		if movement.StockItemID == stockItemID {
			result = append(result, movement)
		}
	}
	return result, nil
}

func (r *memMovementRepo) FindByStockTransfer(_ context.Context, stockTransferID uuid.UUID) ([]inventory.StockMovement, error) {
	result := make([]inventory.StockMovement, 0)
	for _, movement := range r.movements {
		if movement.StockTransferID != nil && *movement.StockTransferID == stockTransferID {
			result = append(result, movement)
		}
	}
	return result, nil
}

func (r *memMovementRepo) Create(_ context.Context, movement *inventory.StockMovement) error {
	r.movements = append(r.movements, *movement)
	return nil
}

func (r *memMovementRepo) CreateBatch(_ context.Context, movements []inventory.StockMovement) error {
	r.movements = append(r.movements, movements...)
	return nil
}

func (r *memMovementRepo) CountByStockItem(_ context.Context, stockItemID uuid.UUID) (int64, error) {
	var count int64
	for _, movement := range r.movements {
		if movement.StockItemID == stockItemID {
			count++
		}
	}
	return count, nil
}

// memUnitRepo is an in-memory InventoryUnitRepository with the same
// snapshot reads and version checks as memStockItemRepo.
type memUnitRepo struct {
	units map[uuid.UUID]*inventory.InventoryUnit
}

func newMemUnitRepo() *memUnitRepo {
	return &memUnitRepo{units: make(map[uuid.UUID]*inventory.InventoryUnit)}
}

func (r *memUnitRepo) FindByID(_ context.Context, id uuid.UUID) (*inventory.InventoryUnit, error) {
	unit, ok := r.units[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	clone := *unit
	return &clone, nil
}

func (r *memUnitRepo) FindByOrder(_ context.Context, orderID uuid.UUID) ([]inventory.InventoryUnit, error) {
	result := make([]inventory.InventoryUnit, 0)
	for _, unit := range r.units {
		if unit.OrderID == orderID {
			result = append(result, *unit)
		}
	}
	return result, nil
}

func (r *memUnitRepo) FindByLineItem(_ context.Context, lineItemID uuid.UUID) ([]inventory.InventoryUnit, error) {
	result := make([]inventory.InventoryUnit, 0)
	for _, unit := range r.units {
		if unit.LineItemID == lineItemID {
			result = append(result, *unit)
		}
	}
	return result, nil
}

func (r *memUnitRepo) FindBackordered(_ context.Context, variantID, stockLocationID uuid.UUID) ([]*inventory.InventoryUnit, error) {
	result := make([]*inventory.InventoryUnit, 0)
	for _, unit := range r.units {
		if unit.VariantID != variantID || unit.State != inventory.UnitStateBackordered {
			continue
		}
		if unit.StockLocationID != nil && *unit.StockLocationID != stockLocationID {
			continue
		}
		clone := *unit
		result = append(result, &clone)
	}
	sort.Slice(result, func(a, b int) bool {
		return result[a].CreatedAt.Before(result[b].CreatedAt)
	})
	return result, nil
}

func (r *memUnitRepo) FindByState(_ context.Context, state inventory.InventoryUnitState, _ shared.Filter) ([]inventory.InventoryUnit, error) {
	result := make([]inventory.InventoryUnit, 0)
	for _, unit := range r.units {
		if unit.State == state {
			result = append(result, *unit)
		}
	}
	return result, nil
}

func (r *memUnitRepo) Save(_ context.Context, unit *inventory.InventoryUnit) error {
	clone := *unit
	// Pending domain events are never persisted (gorm:"-"), so the stored
	// snapshot must not carry them either.
	clone.ClearDomainEvents()
	r.units[unit.ID] = &clone
	return nil
}

func (r *memUnitRepo) SaveWithLock(_ context.Context, unit *inventory.InventoryUnit) error {
	existing, ok := r.units[unit.ID]
	if !ok {
		return shared.ErrNotFound
	}
	if existing.Version != unit.Version-1 {
		return shared.ErrConcurrencyConflict
	}
	clone := *unit
	clone.ClearDomainEvents()
	r.units[unit.ID] = &clone
	return nil
}

func (r *memUnitRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.units)), nil
}

// memTransferRepo is an in-memory StockTransferRepository
type memTransferRepo struct {
	transfers map[uuid.UUID]*inventory.StockTransfer
}

func newMemTransferRepo() *memTransferRepo {
	return &memTransferRepo{transfers: make(map[uuid.UUID]*inventory.StockTransfer)}
}

func (r *memTransferRepo) FindByID(_ context.Context, id uuid.UUID) (*inventory.StockTransfer, error) {
	transfer, ok := r.transfers[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return transfer, nil
}

func (r *memTransferRepo) FindByNumber(_ context.Context, number string) (*inventory.StockTransfer, error) {
	for _, transfer := range r.transfers {
		if transfer.Number == number {
			return transfer, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memTransferRepo) FindByLocation(_ context.Context, stockLocationID uuid.UUID, _ shared.Filter) ([]inventory.StockTransfer, error) {
	result := make([]inventory.StockTransfer, 0)
	for _, transfer := range r.transfers {
		matchesSource := transfer.SourceLocationID != nil && *transfer.SourceLocationID == stockLocationID
		matchesDestination := transfer.DestinationLocationID != nil && *transfer.DestinationLocationID == stockLocationID
		if matchesSource || matchesDestination {
			result = append(result, *transfer)
		}
	}
	return result, nil
}

func (r *memTransferRepo) FindAll(_ context.Context, _ shared.Filter) ([]inventory.StockTransfer, error) {
	result := make([]inventory.StockTransfer, 0, len(r.transfers))
	for _, transfer := range r.transfers {
		result = append(result, *transfer)
	}
	return result, nil
}

func (r *memTransferRepo) Create(_ context.Context, transfer *inventory.StockTransfer) error {
	for _, existing := range r.transfers {
		if existing.Number == transfer.Number {
			return shared.ErrAlreadyExists
		}
	}
	r.transfers[transfer.ID] = transfer
	return nil
}

func (r *memTransferRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.transfers)), nil
}

// memLocationRepo is an in-memory StockLocationRepository
type memLocationRepo struct {
	locations map[uuid.UUID]*location.StockLocation
}

func newMemLocationRepo() *memLocationRepo {
	return &memLocationRepo{locations: make(map[uuid.UUID]*location.StockLocation)}
}

func (r *memLocationRepo) FindByID(_ context.Context, id uuid.UUID) (*location.StockLocation, error) {
	loc, ok := r.locations[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return loc, nil
}

func (r *memLocationRepo) FindByCode(_ context.Context, code string) (*location.StockLocation, error) {
	for _, loc := range r.locations {
		if loc.Code == code {
			return loc, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memLocationRepo) FindDefault(_ context.Context) (*location.StockLocation, error) {
	for _, loc := range r.locations {
		if loc.Default {
			return loc, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memLocationRepo) FindActive(_ context.Context, _ shared.Filter) ([]location.StockLocation, error) {
	result := make([]location.StockLocation, 0)
	for _, loc := range r.locations {
		if loc.Active {
			result = append(result, *loc)
		}
	}
	return result, nil
}

func (r *memLocationRepo) FindAll(_ context.Context, _ shared.Filter) ([]location.StockLocation, error) {
	result := make([]location.StockLocation, 0, len(r.locations))
	for _, loc := range r.locations {
		result = append(result, *loc)
	}
	return result, nil
}

func (r *memLocationRepo) Save(_ context.Context, loc *location.StockLocation) error {
	r.locations[loc.ID] = loc
	return nil
}

func (r *memLocationRepo) SaveWithLock(_ context.Context, loc *location.StockLocation) error {
	if _, ok := r.locations[loc.ID]; !ok {
		return shared.ErrNotFound
	}
	r.locations[loc.ID] = loc
	return nil
}

func (r *memLocationRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.locations[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.locations, id)
	return nil
}

func (r *memLocationRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.locations)), nil
}

func (r *memLocationRepo) ExistsByCode(_ context.Context, code string) (bool, error) {
	for _, loc := range r.locations {
		if loc.Code == code {
			return true, nil
		}
	}
	return false, nil
}

// testFixture wires in-memory repositories behind a no-op transaction scope
type testFixture struct {
	scope     *NoOpTransactionScope
	items     *memStockItemRepo
	movements *memMovementRepo
	units     *memUnitRepo
	transfers *memTransferRepo
	locations *memLocationRepo
}

func newTestFixture() *testFixture {
	items := newMemStockItemRepo()
	movements := newMemMovementRepo()
	units := newMemUnitRepo()
	transfers := newMemTransferRepo()
	locations := newMemLocationRepo()
	return &testFixture{
		scope:     NewNoOpTransactionScope(items, movements, units, transfers, locations),
		items:     items,
		movements: movements,
		units:     units,
		transfers: transfers,
		locations: locations,
	}
}

// Ensure the fakes satisfy the repository interfaces
var (
	_ inventory.StockItemRepository     = (*memStockItemRepo)(nil)
	_ inventory.StockMovementRepository = (*memMovementRepo)(nil)
	_ inventory.InventoryUnitRepository = (*memUnitRepo)(nil)
	_ inventory.StockTransferRepository = (*memTransferRepo)(nil)
	_ location.StockLocationRepository  = (*memLocationRepo)(nil)
	_ shared.EventPublisher             = (*MockEventPublisher)(nil)
)
