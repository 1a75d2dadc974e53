package inventory

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/stockledger/backend/internal/domain/inventory"
	"github.com/stockledger/backend/internal/domain/shared"
)

// TransferService orchestrates multi-item stock moves. Both legs of a
// transfer run in one transaction: the debit at the source and the credit
// at the destination commit together or not at all.
type TransferService struct {
	scope          TransactionScope
	numbers        inventory.NumberGenerator
	eventPublisher shared.EventPublisher
}

// NewTransferService creates a new TransferService
func NewTransferService(scope TransactionScope, numbers inventory.NumberGenerator) *TransferService {
	return &TransferService{scope: scope, numbers: numbers}
}

// SetEventPublisher sets the publisher for post-commit domain events
func (s *TransferService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *TransferService) publishDomainEvents(ctx context.Context, aggregates ...shared.AggregateRoot) {
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

// lineQuantities folds request lines into a variant-quantity map, summing
// duplicate variants.
func lineQuantities(lines []TransferLineRequest) map[uuid.UUID]int64 {
	quantities := make(map[uuid.UUID]int64, len(lines))
	for _, line := range lines {
		quantities[line.VariantID] += line.Quantity
	}
	return quantities
}

// Transfer moves stock between two locations. Every line is debited at the
// source and credited at the destination; if any line lacks sufficient
// source stock the whole transfer rolls back.
func (s *TransferService) Transfer(ctx context.Context, req CreateTransferRequest) (*StockTransferResponse, error) {
	var transfer *inventory.StockTransfer
	var touched []shared.AggregateRoot

	err := withConflictRetry(ctx, func() error {
		transfer, touched = nil, nil
		return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
			if err := s.requireActiveLocation(ctx, repos, req.SourceLocationID); err != nil {
				return err
			}
			if err := s.requireActiveLocation(ctx, repos, req.DestinationLocationID); err != nil {
				return err
			}

			number, err := s.numbers.NextNumber(ctx, inventory.TransferNumberPrefix)
			if err != nil {
				return err
			}

			transfer, err = inventory.NewStockTransfer(
				number,
				req.SourceLocationID,
				req.DestinationLocationID,
				req.Reference,
				lineQuantities(req.Lines),
			)
			if err != nil {
				return err
			}

			for _, line := range transfer.Lines {
				items, err := s.moveLine(ctx, repos, transfer, line)
				if err != nil {
					return err
				}
				touched = append(touched, items...)
			}

			transfer.AddDomainEvent(inventory.NewStockTransferExecutedEvent(transfer))

			return repos.TransferRepo().Create(ctx, transfer)
		})
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, append(touched, transfer)...)

	return NewStockTransferResponse(transfer), nil
}

// Receive credits a location from an external supplier. The ledger rows
// must already exist at the destination; receipts restock, they do not
// open new variant-location pairs.
func (s *TransferService) Receive(ctx context.Context, req CreateReceiptRequest) (*StockTransferResponse, error) {
	var receipt *inventory.StockTransfer
	var touched []shared.AggregateRoot

	err := withConflictRetry(ctx, func() error {
		receipt, touched = nil, nil
		return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
			if err := s.requireActiveLocation(ctx, repos, req.DestinationLocationID); err != nil {
				return err
			}

			number, err := s.numbers.NextNumber(ctx, inventory.TransferNumberPrefix)
			if err != nil {
				return err
			}

			receipt, err = inventory.NewStockReceipt(
				number,
				req.DestinationLocationID,
				req.Reference,
				lineQuantities(req.Lines),
			)
			if err != nil {
				return err
			}

			for _, line := range receipt.Lines {
				item, err := repos.StockItemRepo().FindByLocationAndVariant(ctx, req.DestinationLocationID, line.VariantID)
				if err != nil {
					if errors.Is(err, shared.ErrNotFound) {
						return shared.NewDomainError("NO_STOCK_ITEM", "No stock item at the destination for this variant")
					}
					return err
				}

				if _, err := item.Adjust(line.Quantity, inventory.OriginatorSupplier, receipt.Reference, &receipt.ID); err != nil {
					return err
				}
				if err := repos.StockItemRepo().SaveWithLock(ctx, item); err != nil {
					return err
				}

				filled, err := s.fillBackorders(ctx, repos, line.VariantID, req.DestinationLocationID, line.Quantity)
				if err != nil {
					return err
				}
				touched = append(touched, item)
				for _, unit := range filled {
					touched = append(touched, unit)
				}
			}

			receipt.AddDomainEvent(inventory.NewStockTransferExecutedEvent(receipt))

			return repos.TransferRepo().Create(ctx, receipt)
		})
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, append(touched, receipt)...)

	return NewStockTransferResponse(receipt), nil
}

// moveLine debits one transfer line at the source and credits it at the
// destination, opening the destination ledger row when missing.
func (s *TransferService) moveLine(
	ctx context.Context,
	repos TransactionalRepositories,
	transfer *inventory.StockTransfer,
	line inventory.StockTransferLine,
) ([]shared.AggregateRoot, error) {
	source, err := repos.StockItemRepo().FindByLocationAndVariant(ctx, *transfer.SourceLocationID, line.VariantID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrInsufficientStock
		}
		return nil, err
	}

	if _, err := source.Adjust(-line.Quantity, inventory.OriginatorStockTransfer, transfer.Reference, &transfer.ID); err != nil {
		return nil, err
	}
	if err := repos.StockItemRepo().SaveWithLock(ctx, source); err != nil {
		return nil, err
	}

	destination, err := repos.StockItemRepo().FindByLocationAndVariant(ctx, *transfer.DestinationLocationID, line.VariantID)
	if errors.Is(err, shared.ErrNotFound) {
		// First stock of this variant at the destination: open the row
		// carrying over the source's sku and backorder policy.
		destination, err = inventory.NewStockItem(line.VariantID, *transfer.DestinationLocationID, source.Sku, 0, 0, source.Backorderable)
		if err != nil {
			return nil, err
		}
		if err := repos.StockItemRepo().Create(ctx, destination); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	if _, err := destination.Adjust(line.Quantity, inventory.OriginatorStockTransfer, transfer.Reference, &transfer.ID); err != nil {
		return nil, err
	}
	if err := repos.StockItemRepo().SaveWithLock(ctx, destination); err != nil {
		return nil, err
	}

	filled, err := s.fillBackorders(ctx, repos, line.VariantID, *transfer.DestinationLocationID, line.Quantity)
	if err != nil {
		return nil, err
	}

	touched := []shared.AggregateRoot{source, destination}
	for _, unit := range filled {
		touched = append(touched, unit)
	}
	return touched, nil
}

// fillBackorders mirrors the restock path of InventoryService.Adjust for
// transfer credits. Only units pinned to the credited location, or pinned
// nowhere, are eligible.
func (s *TransferService) fillBackorders(
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

// requireActiveLocation fails when the location is missing or inactive
func (s *TransferService) requireActiveLocation(ctx context.Context, repos TransactionalRepositories, locationID uuid.UUID) error {
	loc, err := repos.LocationRepo().FindByID(ctx, locationID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("INVALID_LOCATION", "Stock location does not exist")
		}
		return err
	}
	if !loc.Active {
		return shared.NewDomainError("LOCATION_INACTIVE", "Stock location is inactive")
	}
	return nil
}

// GetByID retrieves a transfer with its lines
func (s *TransferService) GetByID(ctx context.Context, transferID uuid.UUID) (*StockTransferResponse, error) {
	var transfer *inventory.StockTransfer
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		transfer, err = repos.TransferRepo().FindByID(ctx, transferID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return NewStockTransferResponse(transfer), nil
}

// GetByNumber retrieves a transfer by its reference number
func (s *TransferService) GetByNumber(ctx context.Context, number string) (*StockTransferResponse, error) {
	var transfer *inventory.StockTransfer
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		transfer, err = repos.TransferRepo().FindByNumber(ctx, number)
		return err
	})
	if err != nil {
		return nil, err
	}
	return NewStockTransferResponse(transfer), nil
}

// List returns a page of transfers, optionally scoped to one location
func (s *TransferService) List(ctx context.Context, locationID *uuid.UUID, filter shared.Filter) (*shared.Paginated[*StockTransferResponse], error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	var transfers []inventory.StockTransfer
	var total int64

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		if locationID != nil {
			transfers, err = repos.TransferRepo().FindByLocation(ctx, *locationID, filter)
		} else {
			transfers, err = repos.TransferRepo().FindAll(ctx, filter)
		}
		if err != nil {
			return err
		}
		total, err = repos.TransferRepo().Count(ctx, filter)
		return err
	})
	if err != nil {
		return nil, err
	}

	responses := make([]*StockTransferResponse, 0, len(transfers))
	for idx := range transfers {
		responses = append(responses, NewStockTransferResponse(&transfers[idx]))
	}

	page := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &page, nil
}
