package inventory

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/stockledger/backend/internal/domain/inventory"
	"github.com/stockledger/backend/internal/domain/shared"
)

// InventoryService handles stock item ledger operations. All mutations run
// inside a transaction scope and save with optimistic locking; commands that
// lose a version race are replayed on fresh state a bounded number of times
// before the conflict surfaces.
type InventoryService struct {
	scope          TransactionScope
	eventPublisher shared.EventPublisher
}

// NewInventoryService creates a new InventoryService
func NewInventoryService(scope TransactionScope) *InventoryService {
	return &InventoryService{scope: scope}
}

// SetEventPublisher sets the publisher for post-commit domain events
func (s *InventoryService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// publishDomainEvents publishes pending events from the aggregates after a
// successful commit. Errors are handled by the event bus, not propagated.
func (s *InventoryService) publishDomainEvents(ctx context.Context, aggregates ...shared.AggregateRoot) {
	if s.eventPublisher == nil {
		return
	}
	for _, aggregate := range aggregates {
		events := aggregate.GetDomainEvents()
		if len(events) == 0 {
			continue
		}
		_ = s.eventPublisher.Publish(ctx, events...)
		aggregate.ClearDomainEvents()
	}
}

// CreateStockItem opens a ledger row for a variant-location pair. When the
// request does not pin the backorder policy, the location's default applies.
func (s *InventoryService) CreateStockItem(ctx context.Context, req CreateStockItemRequest) (*StockItemResponse, error) {
	var item *inventory.StockItem

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		loc, err := repos.LocationRepo().FindByID(ctx, req.StockLocationID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewDomainError("INVALID_LOCATION", "Stock location does not exist")
			}
			return err
		}
		if !loc.Active {
			return shared.NewDomainError("LOCATION_INACTIVE", "Cannot create stock at an inactive location")
		}

		backorderable := loc.BackorderableDefault
		if req.Backorderable != nil {
			backorderable = *req.Backorderable
		}

		item, err = inventory.NewStockItem(
			req.VariantID,
			req.StockLocationID,
			req.Sku,
			req.QuantityOnHand,
			req.QuantityReserved,
			backorderable,
		)
		if err != nil {
			return err
		}

		return repos.StockItemRepo().Create(ctx, item)
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, item)

	return NewStockItemResponse(item), nil
}

// GetByID retrieves a stock item by ID
func (s *InventoryService) GetByID(ctx context.Context, itemID uuid.UUID) (*StockItemResponse, error) {
	var item *inventory.StockItem
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		item, err = repos.StockItemRepo().FindByID(ctx, itemID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return NewStockItemResponse(item), nil
}

// GetByLocationAndVariant retrieves the ledger row for a location-variant pair
func (s *InventoryService) GetByLocationAndVariant(ctx context.Context, stockLocationID, variantID uuid.UUID) (*StockItemResponse, error) {
	var item *inventory.StockItem
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		item, err = repos.StockItemRepo().FindByLocationAndVariant(ctx, stockLocationID, variantID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return NewStockItemResponse(item), nil
}

// List returns a page of stock items matching the filter
func (s *InventoryService) List(ctx context.Context, filter StockItemListFilter) (*shared.Paginated[*StockItemResponse], error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}

	var items []inventory.StockItem
	var total int64

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		switch {
		case filter.StockLocationID != nil:
			items, err = repos.StockItemRepo().FindByLocation(ctx, *filter.StockLocationID, domainFilter)
		case filter.VariantID != nil:
			items, err = repos.StockItemRepo().FindByVariant(ctx, *filter.VariantID, domainFilter)
		default:
			items, err = repos.StockItemRepo().FindAll(ctx, domainFilter)
		}
		if err != nil {
			return err
		}
		total, err = repos.StockItemRepo().Count(ctx, domainFilter)
		return err
	})
	if err != nil {
		return nil, err
	}

	responses := make([]*StockItemResponse, 0, len(items))
	for idx := range items {
		responses = append(responses, NewStockItemResponse(&items[idx]))
	}

	page := shared.NewPaginated(responses, total, domainFilter.Page, domainFilter.PageSize)
	return &page, nil
}

// ListMovements returns a page of the item's audit trail, newest first
func (s *InventoryService) ListMovements(ctx context.Context, itemID uuid.UUID, filter shared.Filter) ([]*StockMovementResponse, error) {
	var movements []inventory.StockMovement
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if _, err := repos.StockItemRepo().FindByID(ctx, itemID); err != nil {
			return err
		}
		var err error
		movements, err = repos.MovementRepo().FindByStockItem(ctx, itemID, filter)
		return err
	})
	if err != nil {
		return nil, err
	}

	responses := make([]*StockMovementResponse, 0, len(movements))
	for idx := range movements {
		responses = append(responses, NewStockMovementResponse(&movements[idx]))
	}
	return responses, nil
}

// Adjust applies a signed quantity delta to a stock item. A restock fills
// outstanding backordered units for the variant, oldest first, inside the
// same transaction.
func (s *InventoryService) Adjust(ctx context.Context, itemID uuid.UUID, req AdjustStockRequest) (*AdjustStockResponse, error) {
	originator := inventory.MovementOriginator(req.Originator)
	if !originator.IsValid() {
		return nil, shared.NewDomainError("INVALID_ORIGINATOR", "Invalid movement originator")
	}

	var item *inventory.StockItem
	var movement *inventory.StockMovement
	var filled []*inventory.InventoryUnit

	err := withConflictRetry(ctx, func() error {
		item, movement, filled = nil, nil, nil
		return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
			var err error
			item, err = repos.StockItemRepo().FindByID(ctx, itemID)
			if err != nil {
				return err
			}

			movement, err = item.Adjust(req.Quantity, originator, req.Reason, nil)
			if err != nil {
				return err
			}

			if err := repos.StockItemRepo().SaveWithLock(ctx, item); err != nil {
				return err
			}

			if req.Quantity > 0 {
				filled, err = s.fillBackorders(ctx, repos, item.VariantID, item.StockLocationID, req.Quantity)
				if err != nil {
					return err
				}
			}

			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	aggregates := []shared.AggregateRoot{item}
	filledIDs := make([]uuid.UUID, 0, len(filled))
	for _, unit := range filled {
		aggregates = append(aggregates, unit)
		filledIDs = append(filledIDs, unit.ID)
	}
	s.publishDomainEvents(ctx, aggregates...)

	return &AdjustStockResponse{
		Item:             NewStockItemResponse(item),
		Movement:         NewStockMovementResponse(movement),
		BackordersFilled: filledIDs,
	}, nil
}

// BulkAdjust applies signed deltas to several ledger rows of one location.
// All legs commit or roll back together; restocked lines fill outstanding
// backorders inside the same transaction.
func (s *InventoryService) BulkAdjust(ctx context.Context, req BulkAdjustRequest) (*BulkAdjustResponse, error) {
	originator := inventory.MovementOriginator(req.Originator)
	if !originator.IsValid() {
		return nil, shared.NewDomainError("INVALID_ORIGINATOR", "Invalid movement originator")
	}

	var items []*inventory.StockItem
	var filled []*inventory.InventoryUnit

	err := withConflictRetry(ctx, func() error {
		items, filled = nil, nil
		return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
			for _, line := range req.Lines {
				item, err := repos.StockItemRepo().FindByLocationAndVariant(ctx, req.StockLocationID, line.VariantID)
				if err != nil {
					return err
				}

				if _, err := item.Adjust(line.Quantity, originator, req.Reason, nil); err != nil {
					return err
				}
				if err := repos.StockItemRepo().SaveWithLock(ctx, item); err != nil {
					return err
				}
				items = append(items, item)

				if line.Quantity > 0 {
					lineFilled, err := s.fillBackorders(ctx, repos, line.VariantID, req.StockLocationID, line.Quantity)
					if err != nil {
						return err
					}
					filled = append(filled, lineFilled...)
				}
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	aggregates := make([]shared.AggregateRoot, 0, len(items)+len(filled))
	responses := make([]*StockItemResponse, 0, len(items))
	for _, item := range items {
		aggregates = append(aggregates, item)
		responses = append(responses, NewStockItemResponse(item))
	}
	filledIDs := make([]uuid.UUID, 0, len(filled))
	for _, unit := range filled {
		aggregates = append(aggregates, unit)
		filledIDs = append(filledIDs, unit.ID)
	}
	s.publishDomainEvents(ctx, aggregates...)

	return &BulkAdjustResponse{Items: responses, BackordersFilled: filledIDs}, nil
}

// fillBackorders transitions the variant's oldest backordered units to on
// hand, consuming from the restocked quantity, and saves each filled unit.
// Units pinned to another location keep waiting for stock there.
func (s *InventoryService) fillBackorders(
	ctx context.Context,
	repos TransactionalRepositories,
	variantID uuid.UUID,
	stockLocationID uuid.UUID,
	quantity int64,
) ([]*inventory.InventoryUnit, error) {
	waiting, err := repos.UnitRepo().FindBackordered(ctx, variantID, stockLocationID)
	if err != nil {
		return nil, err
	}

	filled, _ := inventory.FillBackorders(waiting, quantity)
	for _, unit := range filled {
		if err := repos.UnitRepo().SaveWithLock(ctx, unit); err != nil {
			return nil, err
		}
	}
	return filled, nil
}

// Reserve commits stock to a pending order
func (s *InventoryService) Reserve(ctx context.Context, itemID uuid.UUID, req ReserveStockRequest) (*StockOperationResponse, error) {
	return s.mutateItem(ctx, itemID, func(item *inventory.StockItem) (*inventory.StockMovement, error) {
		return item.Reserve(req.Quantity, req.OrderID)
	})
}

// Release returns reserved stock to available, typically on order cancellation
func (s *InventoryService) Release(ctx context.Context, itemID uuid.UUID, req ReleaseStockRequest) (*StockOperationResponse, error) {
	return s.mutateItem(ctx, itemID, func(item *inventory.StockItem) (*inventory.StockMovement, error) {
		return item.Release(req.Quantity, req.OrderID)
	})
}

// ConfirmShipment consumes reserved stock when a shipment departs
func (s *InventoryService) ConfirmShipment(ctx context.Context, itemID uuid.UUID, req ConfirmShipmentRequest) (*StockOperationResponse, error) {
	return s.mutateItem(ctx, itemID, func(item *inventory.StockItem) (*inventory.StockMovement, error) {
		return item.ConfirmShipment(req.Quantity, req.ShipmentID)
	})
}

// CorrectReserved administratively sets the reserved counter. Setting the
// current value is a no-op and returns the item without a movement.
func (s *InventoryService) CorrectReserved(ctx context.Context, itemID uuid.UUID, req CorrectReservedRequest) (*StockOperationResponse, error) {
	return s.mutateItem(ctx, itemID, func(item *inventory.StockItem) (*inventory.StockMovement, error) {
		return item.CorrectReserved(req.QuantityReserved, req.Reason)
	})
}

// SetBackorderable toggles whether reservations may exceed on-hand stock
func (s *InventoryService) SetBackorderable(ctx context.Context, itemID uuid.UUID, req SetBackorderableRequest) (*StockItemResponse, error) {
	response, err := s.mutateItem(ctx, itemID, func(item *inventory.StockItem) (*inventory.StockMovement, error) {
		return nil, item.SetBackorderable(*req.Backorderable)
	})
	if err != nil {
		return nil, err
	}
	return response.Item, nil
}

// mutateItem loads the item, applies op, and saves with optimistic locking,
// retrying on version conflicts.
func (s *InventoryService) mutateItem(
	ctx context.Context,
	itemID uuid.UUID,
	op func(item *inventory.StockItem) (*inventory.StockMovement, error),
) (*StockOperationResponse, error) {
	var item *inventory.StockItem
	var movement *inventory.StockMovement

	err := withConflictRetry(ctx, func() error {
		item, movement = nil, nil
		return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
			var err error
			item, err = repos.StockItemRepo().FindByID(ctx, itemID)
			if err != nil {
				return err
			}
			loadedVersion := item.Version

			movement, err = op(item)
			if err != nil {
				return err
			}

			// Idempotent no-ops leave the version untouched; there is
			// nothing to persist and the CAS predicate would never match.
			if item.Version == loadedVersion {
				return nil
			}

			return repos.StockItemRepo().SaveWithLock(ctx, item)
		})
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, item)

	response := &StockOperationResponse{Item: NewStockItemResponse(item)}
	if movement != nil {
		response.Movement = NewStockMovementResponse(movement)
	}
	return response, nil
}

// DeleteStockItem removes an empty ledger row. Items still holding stock or
// carrying reservations cannot be deleted.
func (s *InventoryService) DeleteStockItem(ctx context.Context, itemID uuid.UUID) error {
	return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		item, err := repos.StockItemRepo().FindByID(ctx, itemID)
		if err != nil {
			return err
		}
		if !item.CanBeDeleted() {
			return shared.NewDomainError("CANNOT_DELETE_WITH_STOCK", "Stock item still holds stock or reservations")
		}
		return repos.StockItemRepo().Delete(ctx, item.ID)
	})
}
