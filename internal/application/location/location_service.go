package location

import (
	"context"
	"errors"

	"github.com/google/uuid"

	appinventory "github.com/stockledger/backend/internal/application/inventory"
	"github.com/stockledger/backend/internal/domain/location"
	"github.com/stockledger/backend/internal/domain/shared"
)

// LocationService handles stock location lifecycle. Deletion and default
// promotion touch stock items too, so the service runs inside the shared
// inventory transaction scope.
type LocationService struct {
	scope          appinventory.TransactionScope
	eventPublisher shared.EventPublisher
}

// NewLocationService creates a new LocationService
func NewLocationService(scope appinventory.TransactionScope) *LocationService {
	return &LocationService{scope: scope}
}

// SetEventPublisher sets the publisher for post-commit domain events
func (s *LocationService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *LocationService) publishDomainEvents(ctx context.Context, aggregates ...shared.AggregateRoot) {
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

// Create creates a stock location. Marking it default demotes the previous
// default in the same transaction.
func (s *LocationService) Create(ctx context.Context, req CreateStockLocationRequest) (*StockLocationResponse, error) {
	locationType := location.LocationTypeWarehouse
	if req.Type != "" {
		locationType = location.StockLocationType(req.Type)
	}

	loc, err := location.NewStockLocation(req.Code, req.Name, locationType)
	if err != nil {
		return nil, err
	}
	if req.Presentation != "" {
		if err := loc.Update(req.Name, req.Presentation); err != nil {
			return nil, err
		}
	}
	if err := loc.SetAddress(req.Address, req.City, req.Region, req.PostalCode, req.Country); err != nil {
		return nil, err
	}
	if err := loc.SetPhone(req.Phone); err != nil {
		return nil, err
	}
	if req.BackorderableDefault != nil {
		loc.SetBackorderableDefault(*req.BackorderableDefault)
	}
	if req.FulfillableOnline != nil {
		loc.SetFulfillableOnline(*req.FulfillableOnline)
	}

	var demoted *location.StockLocation

	err = s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		exists, err := repos.LocationRepo().ExistsByCode(ctx, loc.Code)
		if err != nil {
			return err
		}
		if exists {
			return shared.NewDomainError("DUPLICATE_CODE", "A stock location with this code already exists")
		}

		if req.Default {
			demoted, err = s.demoteCurrentDefault(ctx, repos)
			if err != nil {
				return err
			}
			loc.SetDefault(true)
		}

		return repos.LocationRepo().Save(ctx, loc)
	})
	if err != nil {
		return nil, err
	}

	if demoted != nil {
		s.publishDomainEvents(ctx, demoted)
	}
	s.publishDomainEvents(ctx, loc)

	return NewStockLocationResponse(loc), nil
}

// GetByID retrieves a location by ID
func (s *LocationService) GetByID(ctx context.Context, locationID uuid.UUID) (*StockLocationResponse, error) {
	var loc *location.StockLocation
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		loc, err = repos.LocationRepo().FindByID(ctx, locationID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return NewStockLocationResponse(loc), nil
}

// GetByCode retrieves a location by its unique code
func (s *LocationService) GetByCode(ctx context.Context, code string) (*StockLocationResponse, error) {
	var loc *location.StockLocation
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		loc, err = repos.LocationRepo().FindByCode(ctx, code)
		return err
	})
	if err != nil {
		return nil, err
	}
	return NewStockLocationResponse(loc), nil
}

// List returns a page of locations matching the filter
func (s *LocationService) List(ctx context.Context, filter StockLocationListFilter) (*shared.Paginated[*StockLocationResponse], error) {
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

	var locations []location.StockLocation
	var total int64

	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		if filter.ActiveOnly {
			locations, err = repos.LocationRepo().FindActive(ctx, domainFilter)
		} else {
			locations, err = repos.LocationRepo().FindAll(ctx, domainFilter)
		}
		if err != nil {
			return err
		}
		total, err = repos.LocationRepo().Count(ctx, domainFilter)
		return err
	})
	if err != nil {
		return nil, err
	}

	responses := make([]*StockLocationResponse, 0, len(locations))
	for idx := range locations {
		responses = append(responses, NewStockLocationResponse(&locations[idx]))
	}

	page := shared.NewPaginated(responses, total, domainFilter.Page, domainFilter.PageSize)
	return &page, nil
}

// Update updates a location's basic information and address
func (s *LocationService) Update(ctx context.Context, locationID uuid.UUID, req UpdateStockLocationRequest) (*StockLocationResponse, error) {
	var loc *location.StockLocation

	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		loc, err = repos.LocationRepo().FindByID(ctx, locationID)
		if err != nil {
			return err
		}

		if err := loc.Update(req.Name, req.Presentation); err != nil {
			return err
		}
		if err := loc.SetAddress(req.Address, req.City, req.Region, req.PostalCode, req.Country); err != nil {
			return err
		}
		if err := loc.SetPhone(req.Phone); err != nil {
			return err
		}

		return repos.LocationRepo().SaveWithLock(ctx, loc)
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, loc)

	return NewStockLocationResponse(loc), nil
}

// SetDefault promotes the location to the default fulfillment source,
// demoting the previous default atomically.
func (s *LocationService) SetDefault(ctx context.Context, locationID uuid.UUID) (*StockLocationResponse, error) {
	var loc, demoted *location.StockLocation

	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		loc, err = repos.LocationRepo().FindByID(ctx, locationID)
		if err != nil {
			return err
		}
		if !loc.Active {
			return shared.NewDomainError("LOCATION_INACTIVE", "Inactive location cannot be the default")
		}
		if loc.Default {
			return nil
		}

		demoted, err = s.demoteCurrentDefault(ctx, repos)
		if err != nil {
			return err
		}

		loc.SetDefault(true)
		return repos.LocationRepo().SaveWithLock(ctx, loc)
	})
	if err != nil {
		return nil, err
	}

	if demoted != nil {
		s.publishDomainEvents(ctx, demoted)
	}
	s.publishDomainEvents(ctx, loc)

	return NewStockLocationResponse(loc), nil
}

// demoteCurrentDefault clears the default flag on the current default
// location, if any.
func (s *LocationService) demoteCurrentDefault(ctx context.Context, repos appinventory.TransactionalRepositories) (*location.StockLocation, error) {
	current, err := repos.LocationRepo().FindDefault(ctx)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	current.SetDefault(false)
	if err := repos.LocationRepo().SaveWithLock(ctx, current); err != nil {
		return nil, err
	}
	return current, nil
}

// Activate makes a location available for stock operations
func (s *LocationService) Activate(ctx context.Context, locationID uuid.UUID) (*StockLocationResponse, error) {
	return s.mutate(ctx, locationID, func(loc *location.StockLocation) error {
		return loc.Activate()
	})
}

// Deactivate hides a location from stock operations
func (s *LocationService) Deactivate(ctx context.Context, locationID uuid.UUID) (*StockLocationResponse, error) {
	return s.mutate(ctx, locationID, func(loc *location.StockLocation) error {
		return loc.Deactivate()
	})
}

func (s *LocationService) mutate(ctx context.Context, locationID uuid.UUID, op func(loc *location.StockLocation) error) (*StockLocationResponse, error) {
	var loc *location.StockLocation

	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		loc, err = repos.LocationRepo().FindByID(ctx, locationID)
		if err != nil {
			return err
		}
		if err := op(loc); err != nil {
			return err
		}
		return repos.LocationRepo().SaveWithLock(ctx, loc)
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, loc)

	return NewStockLocationResponse(loc), nil
}

// Delete removes a location. A location still holding stock fails with
// HAS_STOCK_ITEMS; one carrying open reservations fails with
// HAS_RESERVED_STOCK. The guards and the delete run in one transaction so
// no stock can slip in between check and removal.
func (s *LocationService) Delete(ctx context.Context, locationID uuid.UUID) error {
	var loc *location.StockLocation

	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		loc, err = repos.LocationRepo().FindByID(ctx, locationID)
		if err != nil {
			return err
		}

		hasStock, err := repos.StockItemRepo().ExistsWithStock(ctx, locationID)
		if err != nil {
			return err
		}
		if hasStock {
			return shared.NewDomainError("HAS_STOCK_ITEMS", "Stock location still holds stock")
		}

		hasReserved, err := repos.StockItemRepo().ExistsWithReserved(ctx, locationID)
		if err != nil {
			return err
		}
		if hasReserved {
			return shared.NewDomainError("HAS_RESERVED_STOCK", "Stock location still carries reservations")
		}

		loc.AddDomainEvent(location.NewStockLocationDeletedEvent(loc))

		return repos.LocationRepo().Delete(ctx, locationID)
	})
	if err != nil {
		return err
	}

	s.publishDomainEvents(ctx, loc)

	return nil
}
