package inventory

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/stockledger/backend/internal/domain/inventory"
	"github.com/stockledger/backend/internal/domain/shared"
)

// FulfillmentService drives inventory units through their lifecycle:
// creation for order lines, shipping, returns, cancellation and splitting.
type FulfillmentService struct {
	scope          TransactionScope
	eventPublisher shared.EventPublisher
}

// NewFulfillmentService creates a new FulfillmentService
func NewFulfillmentService(scope TransactionScope) *FulfillmentService {
	return &FulfillmentService{scope: scope}
}

// SetEventPublisher sets the publisher for post-commit domain events
func (s *FulfillmentService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *FulfillmentService) publishDomainEvents(ctx context.Context, aggregates ...shared.AggregateRoot) {
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

// CreateUnit tracks a quantity of stock for an order line. The unit starts
// backordered when the request says so, on hand otherwise.
func (s *FulfillmentService) CreateUnit(ctx context.Context, req CreateInventoryUnitRequest) (*InventoryUnitResponse, error) {
	state := inventory.UnitStateOnHand
	if req.Backordered {
		state = inventory.UnitStateBackordered
	}

	unit, err := inventory.NewInventoryUnit(req.VariantID, req.OrderID, req.LineItemID, req.Quantity, state)
	if err != nil {
		return nil, err
	}
	if req.StockLocationID != nil {
		if err := unit.SetStockLocation(*req.StockLocationID); err != nil {
			return nil, err
		}
	}
	if req.SerialNumber != "" {
		unit.SetSerialNumber(req.SerialNumber)
	}

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if req.StockLocationID != nil {
			if _, err := repos.LocationRepo().FindByID(ctx, *req.StockLocationID); err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					return shared.NewDomainError("INVALID_LOCATION", "Stock location does not exist")
				}
				return err
			}
		}
		return repos.UnitRepo().Save(ctx, unit)
	})
	if err != nil {
		return nil, err
	}

	return NewInventoryUnitResponse(unit), nil
}

// GetByID retrieves a unit by ID
func (s *FulfillmentService) GetByID(ctx context.Context, unitID uuid.UUID) (*InventoryUnitResponse, error) {
	var unit *inventory.InventoryUnit
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		unit, err = repos.UnitRepo().FindByID(ctx, unitID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return NewInventoryUnitResponse(unit), nil
}

// ListByOrder lists all units belonging to an order
func (s *FulfillmentService) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*InventoryUnitResponse, error) {
	var units []inventory.InventoryUnit
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		units, err = repos.UnitRepo().FindByOrder(ctx, orderID)
		return err
	})
	if err != nil {
		return nil, err
	}

	responses := make([]*InventoryUnitResponse, 0, len(units))
	for idx := range units {
		responses = append(responses, NewInventoryUnitResponse(&units[idx]))
	}
	return responses, nil
}

// Ship dispatches an on-hand unit on the given shipment
func (s *FulfillmentService) Ship(ctx context.Context, unitID uuid.UUID, req ShipUnitRequest) (*InventoryUnitResponse, error) {
	return s.mutateUnit(ctx, unitID, func(unit *inventory.InventoryUnit) error {
		return unit.Ship(req.ShipmentID)
	})
}

// Return marks a shipped unit as returned
func (s *FulfillmentService) Return(ctx context.Context, unitID uuid.UUID) (*InventoryUnitResponse, error) {
	return s.mutateUnit(ctx, unitID, func(unit *inventory.InventoryUnit) error {
		return unit.Return()
	})
}

// Cancel voids a unit that has not been dispatched
func (s *FulfillmentService) Cancel(ctx context.Context, unitID uuid.UUID) (*InventoryUnitResponse, error) {
	return s.mutateUnit(ctx, unitID, func(unit *inventory.InventoryUnit) error {
		return unit.Cancel()
	})
}

// Relocate moves a unit to another stock location
func (s *FulfillmentService) Relocate(ctx context.Context, unitID uuid.UUID, req RelocateUnitRequest) (*InventoryUnitResponse, error) {
	return s.mutateUnit(ctx, unitID, func(unit *inventory.InventoryUnit) error {
		return unit.SetStockLocation(req.StockLocationID)
	})
}

// Split divides a unit into two records whose quantities sum to the
// original. Both records are saved in the same transaction.
func (s *FulfillmentService) Split(ctx context.Context, unitID uuid.UUID, req SplitUnitRequest) (*SplitUnitResponse, error) {
	var unit, extracted *inventory.InventoryUnit

	err := withConflictRetry(ctx, func() error {
		unit, extracted = nil, nil
		return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
			var err error
			unit, err = repos.UnitRepo().FindByID(ctx, unitID)
			if err != nil {
				return err
			}

			extracted, err = unit.Split(req.Quantity)
			if err != nil {
				return err
			}

			if err := repos.UnitRepo().SaveWithLock(ctx, unit); err != nil {
				return err
			}
			return repos.UnitRepo().Save(ctx, extracted)
		})
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, unit)

	return &SplitUnitResponse{
		Original:  NewInventoryUnitResponse(unit),
		Extracted: NewInventoryUnitResponse(extracted),
	}, nil
}

// mutateUnit loads the unit, applies op, and saves with optimistic locking,
// retrying on version conflicts.
func (s *FulfillmentService) mutateUnit(
	ctx context.Context,
	unitID uuid.UUID,
	op func(unit *inventory.InventoryUnit) error,
) (*InventoryUnitResponse, error) {
	var unit *inventory.InventoryUnit

	err := withConflictRetry(ctx, func() error {
		unit = nil
		return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
			var err error
			unit, err = repos.UnitRepo().FindByID(ctx, unitID)
			if err != nil {
				return err
			}
			loadedVersion := unit.Version

			if err := op(unit); err != nil {
				return err
			}

			// Idempotent no-ops leave the version untouched; there is
			// nothing to persist and the CAS predicate would never match.
			if unit.Version == loadedVersion {
				return nil
			}

			return repos.UnitRepo().SaveWithLock(ctx, unit)
		})
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, unit)

	return NewInventoryUnitResponse(unit), nil
}
