package location

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appinventory "github.com/stockledger/backend/internal/application/inventory"
	"github.com/stockledger/backend/internal/domain/inventory"
	"github.com/stockledger/backend/internal/domain/location"
	"github.com/stockledger/backend/internal/domain/shared"
)

// memLocationRepo is an in-memory StockLocationRepository for service tests
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

// stubStockItemRepo answers the delete guards; other methods are never
// called by LocationService.
type stubStockItemRepo struct {
	inventory.StockItemRepository
	hasStock    bool
	hasReserved bool
}

func (s *stubStockItemRepo) ExistsWithStock(_ context.Context, _ uuid.UUID) (bool, error) {
	return s.hasStock, nil
}

func (s *stubStockItemRepo) ExistsWithReserved(_ context.Context, _ uuid.UUID) (bool, error) {
	return s.hasReserved, nil
}

type locationFixture struct {
	service   *LocationService
	locations *memLocationRepo
	items     *stubStockItemRepo
}

func newLocationFixture() *locationFixture {
	locations := newMemLocationRepo()
	items := &stubStockItemRepo{}
	scope := appinventory.NewNoOpTransactionScope(items, nil, nil, nil, locations)
	return &locationFixture{
		service:   NewLocationService(scope),
		locations: locations,
		items:     items,
	}
}

func TestLocationServiceCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("creates location", func(t *testing.T) {
		fixture := newLocationFixture()

		resp, err := fixture.service.Create(ctx, CreateStockLocationRequest{
			Code:         "main-dc",
			Name:         "Main Distribution Center",
			Presentation: "Chicago Warehouse",
			Type:         "warehouse",
			City:         "Chicago",
			Country:      "US",
		})
		require.NoError(t, err)

		assert.Equal(t, "MAIN-DC", resp.Code)
		assert.Equal(t, "Chicago Warehouse", resp.DisplayName)
		assert.True(t, resp.Active)
	})

	t.Run("duplicate code is rejected", func(t *testing.T) {
		fixture := newLocationFixture()

		_, err := fixture.service.Create(ctx, CreateStockLocationRequest{Code: "MAIN", Name: "Main"})
		require.NoError(t, err)

		_, err = fixture.service.Create(ctx, CreateStockLocationRequest{Code: "main", Name: "Other"})
		assert.Equal(t, "DUPLICATE_CODE", shared.ErrorCode(err))
	})

	t.Run("creating a new default demotes the old one", func(t *testing.T) {
		fixture := newLocationFixture()

		first, err := fixture.service.Create(ctx, CreateStockLocationRequest{Code: "A", Name: "First", Default: true})
		require.NoError(t, err)

		second, err := fixture.service.Create(ctx, CreateStockLocationRequest{Code: "B", Name: "Second", Default: true})
		require.NoError(t, err)

		assert.False(t, fixture.locations.locations[first.ID].Default)
		assert.True(t, fixture.locations.locations[second.ID].Default)
	})
}

func TestLocationServiceSetDefault(t *testing.T) {
	ctx := context.Background()

	t.Run("promotion demotes previous default", func(t *testing.T) {
		fixture := newLocationFixture()

		first, err := fixture.service.Create(ctx, CreateStockLocationRequest{Code: "A", Name: "First", Default: true})
		require.NoError(t, err)
		second, err := fixture.service.Create(ctx, CreateStockLocationRequest{Code: "B", Name: "Second"})
		require.NoError(t, err)

		promoted, err := fixture.service.SetDefault(ctx, second.ID)
		require.NoError(t, err)

		assert.True(t, promoted.Default)
		assert.False(t, fixture.locations.locations[first.ID].Default)
	})

	t.Run("inactive location cannot be default", func(t *testing.T) {
		fixture := newLocationFixture()

		created, err := fixture.service.Create(ctx, CreateStockLocationRequest{Code: "A", Name: "First"})
		require.NoError(t, err)
		_, err = fixture.service.Deactivate(ctx, created.ID)
		require.NoError(t, err)

		_, err = fixture.service.SetDefault(ctx, created.ID)
		assert.Equal(t, "LOCATION_INACTIVE", shared.ErrorCode(err))
	})
}

func TestLocationServiceDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes empty location", func(t *testing.T) {
		fixture := newLocationFixture()

		created, err := fixture.service.Create(ctx, CreateStockLocationRequest{Code: "A", Name: "First"})
		require.NoError(t, err)

		require.NoError(t, fixture.service.Delete(ctx, created.ID))
		_, err = fixture.service.GetByID(ctx, created.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("location holding stock cannot be deleted", func(t *testing.T) {
		fixture := newLocationFixture()
		fixture.items.hasStock = true

		created, err := fixture.service.Create(ctx, CreateStockLocationRequest{Code: "A", Name: "First"})
		require.NoError(t, err)

		err = fixture.service.Delete(ctx, created.ID)
		assert.Equal(t, "HAS_STOCK_ITEMS", shared.ErrorCode(err))
	})

	t.Run("location with open reservations cannot be deleted", func(t *testing.T) {
		fixture := newLocationFixture()
		fixture.items.hasReserved = true

		created, err := fixture.service.Create(ctx, CreateStockLocationRequest{Code: "A", Name: "First"})
		require.NoError(t, err)

		err = fixture.service.Delete(ctx, created.ID)
		assert.Equal(t, "HAS_RESERVED_STOCK", shared.ErrorCode(err))
	})
}

func TestLocationServiceLifecycle(t *testing.T) {
	ctx := context.Background()

	t.Run("deactivate and reactivate", func(t *testing.T) {
		fixture := newLocationFixture()

		created, err := fixture.service.Create(ctx, CreateStockLocationRequest{Code: "A", Name: "First"})
		require.NoError(t, err)

		deactivated, err := fixture.service.Deactivate(ctx, created.ID)
		require.NoError(t, err)
		assert.False(t, deactivated.Active)

		activated, err := fixture.service.Activate(ctx, created.ID)
		require.NoError(t, err)
		assert.True(t, activated.Active)
	})

	t.Run("default location cannot be deactivated", func(t *testing.T) {
		fixture := newLocationFixture()

		created, err := fixture.service.Create(ctx, CreateStockLocationRequest{Code: "A", Name: "First", Default: true})
		require.NoError(t, err)

		_, err = fixture.service.Deactivate(ctx, created.ID)
		assert.Equal(t, "CANNOT_DEACTIVATE_DEFAULT", shared.ErrorCode(err))
	})

	t.Run("update basic info", func(t *testing.T) {
		fixture := newLocationFixture()

		created, err := fixture.service.Create(ctx, CreateStockLocationRequest{Code: "A", Name: "First"})
		require.NoError(t, err)

		updated, err := fixture.service.Update(ctx, created.ID, UpdateStockLocationRequest{
			Name:         "Renamed",
			Presentation: "Shiny Store",
			City:         "Boston",
		})
		require.NoError(t, err)
		assert.Equal(t, "Renamed", updated.Name)
		assert.Equal(t, "Shiny Store", updated.DisplayName)
		assert.Equal(t, "Boston", updated.City)
	})
}
