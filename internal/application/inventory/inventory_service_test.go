package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockledger/backend/internal/domain/inventory"
	"github.com/stockledger/backend/internal/domain/location"
	"github.com/stockledger/backend/internal/domain/shared"
)

func seedLocation(t *testing.T, fixture *testFixture) *location.StockLocation {
	t.Helper()
	loc, err := location.NewWarehouseLocation("MAIN", "Main Warehouse")
	require.NoError(t, err)
	loc.ClearDomainEvents()
	fixture.locations.locations[loc.ID] = loc
	return loc
}

func seedStockItem(t *testing.T, fixture *testFixture, locationID uuid.UUID, onHand, reserved int64, backorderable bool) *inventory.StockItem {
	t.Helper()
	item, err := inventory.NewStockItem(uuid.New(), locationID, "SKU-001", onHand, reserved, backorderable)
	require.NoError(t, err)
	item.ClearDomainEvents()
	fixture.items.items[item.ID] = item
	return item
}

func seedBackorderedUnit(t *testing.T, fixture *testFixture, variantID uuid.UUID, quantity int64, createdAt time.Time) *inventory.InventoryUnit {
	t.Helper()
	unit, err := inventory.NewInventoryUnit(variantID, uuid.New(), uuid.New(), quantity, inventory.UnitStateBackordered)
	require.NoError(t, err)
	unit.CreatedAt = createdAt
	unit.ClearDomainEvents()
	fixture.units.units[unit.ID] = unit
	return unit
}

func TestInventoryServiceCreateStockItem(t *testing.T) {
	ctx := context.Background()

	t.Run("creates item with location backorder default", func(t *testing.T) {
		fixture := newTestFixture()
		loc := seedLocation(t, fixture)
		loc.SetBackorderableDefault(false)
		service := NewInventoryService(fixture.scope)

		resp, err := service.CreateStockItem(ctx, CreateStockItemRequest{
			VariantID:       uuid.New(),
			StockLocationID: loc.ID,
			Sku:             "SHIRT-M",
			QuantityOnHand:  10,
		})
		require.NoError(t, err)

		assert.Equal(t, int64(10), resp.QuantityOnHand)
		assert.False(t, resp.Backorderable)
		assert.Equal(t, "SHIRT-M", resp.Sku)
	})

	t.Run("explicit backorderable overrides location default", func(t *testing.T) {
		fixture := newTestFixture()
		loc := seedLocation(t, fixture)
		loc.SetBackorderableDefault(false)
		service := NewInventoryService(fixture.scope)

		backorderable := true
		resp, err := service.CreateStockItem(ctx, CreateStockItemRequest{
			VariantID:       uuid.New(),
			StockLocationID: loc.ID,
			Sku:             "SHIRT-M",
			Backorderable:   &backorderable,
		})
		require.NoError(t, err)
		assert.True(t, resp.Backorderable)
	})

	t.Run("duplicate variant-location pair is rejected", func(t *testing.T) {
		fixture := newTestFixture()
		loc := seedLocation(t, fixture)
		service := NewInventoryService(fixture.scope)

		variantID := uuid.New()
		req := CreateStockItemRequest{VariantID: variantID, StockLocationID: loc.ID, Sku: "SHIRT-M"}

		_, err := service.CreateStockItem(ctx, req)
		require.NoError(t, err)

		_, err = service.CreateStockItem(ctx, req)
		assert.Equal(t, "DUPLICATE_SKU", shared.ErrorCode(err))
	})

	t.Run("unknown or inactive location is rejected", func(t *testing.T) {
		fixture := newTestFixture()
		service := NewInventoryService(fixture.scope)

		_, err := service.CreateStockItem(ctx, CreateStockItemRequest{
			VariantID:       uuid.New(),
			StockLocationID: uuid.New(),
			Sku:             "SHIRT-M",
		})
		assert.Equal(t, "INVALID_LOCATION", shared.ErrorCode(err))

		loc := seedLocation(t, fixture)
		require.NoError(t, loc.Deactivate())

		_, err = service.CreateStockItem(ctx, CreateStockItemRequest{
			VariantID:       uuid.New(),
			StockLocationID: loc.ID,
			Sku:             "SHIRT-M",
		})
		assert.Equal(t, "LOCATION_INACTIVE", shared.ErrorCode(err))
	})
}

func TestInventoryServiceAdjust(t *testing.T) {
	ctx := context.Background()

	t.Run("restock fills backorders oldest first", func(t *testing.T) {
		fixture := newTestFixture()
		loc := seedLocation(t, fixture)
		item := seedStockItem(t, fixture, loc.ID, 0, 0, true)

		base := time.Now().Add(-time.Hour)
		first := seedBackorderedUnit(t, fixture, item.VariantID, 2, base)
		second := seedBackorderedUnit(t, fixture, item.VariantID, 3, base.Add(time.Minute))
		third := seedBackorderedUnit(t, fixture, item.VariantID, 4, base.Add(2*time.Minute))

		publisher := NewMockEventPublisher()
		service := NewInventoryService(fixture.scope)
		service.SetEventPublisher(publisher)

		resp, err := service.Adjust(ctx, item.ID, AdjustStockRequest{
			Quantity:   5,
			Originator: "SUPPLIER",
			Reason:     "weekly delivery",
		})
		require.NoError(t, err)

		assert.Equal(t, int64(5), resp.Item.QuantityOnHand)
		assert.Equal(t, int64(5), resp.Movement.Quantity)

		// 2 + 3 fit, 4 does not.
		require.Len(t, resp.BackordersFilled, 2)
		assert.Equal(t, first.ID, resp.BackordersFilled[0])
		assert.Equal(t, second.ID, resp.BackordersFilled[1])

		assert.Equal(t, inventory.UnitStateOnHand, fixture.units.units[first.ID].State)
		assert.Equal(t, inventory.UnitStateOnHand, fixture.units.units[second.ID].State)
		assert.Equal(t, inventory.UnitStateBackordered, fixture.units.units[third.ID].State)

		assert.Len(t, publisher.GetEventsByType(inventory.EventTypeBackorderFilled), 2)
		assert.Len(t, publisher.GetEventsByType(inventory.EventTypeStockAdjusted), 1)
	})

	t.Run("restock leaves units pinned to another location waiting", func(t *testing.T) {
		fixture := newTestFixture()
		loc := seedLocation(t, fixture)
		item := seedStockItem(t, fixture, loc.ID, 0, 0, true)

		base := time.Now().Add(-time.Hour)
		elsewhere := uuid.New()
		pinnedAway := seedBackorderedUnit(t, fixture, item.VariantID, 2, base)
		pinnedAway.StockLocationID = &elsewhere
		pinnedHere := seedBackorderedUnit(t, fixture, item.VariantID, 2, base.Add(time.Minute))
		pinnedHere.StockLocationID = &loc.ID
		unpinned := seedBackorderedUnit(t, fixture, item.VariantID, 2, base.Add(2*time.Minute))

		service := NewInventoryService(fixture.scope)
		resp, err := service.Adjust(ctx, item.ID, AdjustStockRequest{Quantity: 5, Originator: "SUPPLIER"})
		require.NoError(t, err)

		// The oldest unit waits on stock at its own location even though
		// it would fit; the local and unpinned units fill.
		assert.Equal(t, []uuid.UUID{pinnedHere.ID, unpinned.ID}, resp.BackordersFilled)
		assert.Equal(t, inventory.UnitStateBackordered, fixture.units.units[pinnedAway.ID].State)
		assert.Equal(t, inventory.UnitStateOnHand, fixture.units.units[pinnedHere.ID].State)
		assert.Equal(t, inventory.UnitStateOnHand, fixture.units.units[unpinned.ID].State)
	})

	t.Run("negative adjustment skips backorder fill", func(t *testing.T) {
		fixture := newTestFixture()
		loc := seedLocation(t, fixture)
		item := seedStockItem(t, fixture, loc.ID, 10, 0, true)
		unit := seedBackorderedUnit(t, fixture, item.VariantID, 1, time.Now())

		service := NewInventoryService(fixture.scope)
		resp, err := service.Adjust(ctx, item.ID, AdjustStockRequest{Quantity: -4, Originator: "DAMAGE"})
		require.NoError(t, err)

		assert.Equal(t, int64(6), resp.Item.QuantityOnHand)
		assert.Empty(t, resp.BackordersFilled)
		assert.Equal(t, inventory.UnitStateBackordered, fixture.units.units[unit.ID].State)
	})

	t.Run("unknown originator is rejected before loading", func(t *testing.T) {
		fixture := newTestFixture()
		service := NewInventoryService(fixture.scope)

		_, err := service.Adjust(ctx, uuid.New(), AdjustStockRequest{Quantity: 1, Originator: "GIFT"})
		assert.Equal(t, "INVALID_ORIGINATOR", shared.ErrorCode(err))
	})

	t.Run("driving stock below zero is rejected", func(t *testing.T) {
		fixture := newTestFixture()
		loc := seedLocation(t, fixture)
		item := seedStockItem(t, fixture, loc.ID, 3, 0, true)

		service := NewInventoryService(fixture.scope)
		_, err := service.Adjust(ctx, item.ID, AdjustStockRequest{Quantity: -4, Originator: "LOSS"})
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
	})
}

func TestInventoryServiceBulkAdjust(t *testing.T) {
	ctx := context.Background()

	t.Run("adjusts every line in one pass", func(t *testing.T) {
		fixture := newTestFixture()
		loc := seedLocation(t, fixture)
		first := seedStockItem(t, fixture, loc.ID, 5, 0, false)
		second := seedStockItem(t, fixture, loc.ID, 8, 0, false)
		service := NewInventoryService(fixture.scope)

		resp, err := service.BulkAdjust(ctx, BulkAdjustRequest{
			StockLocationID: loc.ID,
			Originator:      "SUPPLIER",
			Reason:          "weekly delivery",
			Lines: []BulkAdjustLine{
				{VariantID: first.VariantID, Quantity: 10},
				{VariantID: second.VariantID, Quantity: -3},
			},
		})
		require.NoError(t, err)
		require.Len(t, resp.Items, 2)

		assert.Equal(t, int64(15), fixture.items.items[first.ID].QuantityOnHand)
		assert.Equal(t, int64(5), fixture.items.items[second.ID].QuantityOnHand)
	})

	t.Run("restocked lines fill backorders", func(t *testing.T) {
		fixture := newTestFixture()
		loc := seedLocation(t, fixture)
		item := seedStockItem(t, fixture, loc.ID, 0, 0, true)
		unit := seedBackorderedUnit(t, fixture, item.VariantID, 2, time.Now())
		service := NewInventoryService(fixture.scope)

		resp, err := service.BulkAdjust(ctx, BulkAdjustRequest{
			StockLocationID: loc.ID,
			Originator:      "SUPPLIER",
			Lines:           []BulkAdjustLine{{VariantID: item.VariantID, Quantity: 5}},
		})
		require.NoError(t, err)

		assert.Equal(t, []uuid.UUID{unit.ID}, resp.BackordersFilled)
		assert.Equal(t, inventory.UnitStateOnHand, fixture.units.units[unit.ID].State)
	})

	t.Run("unknown variant fails the command", func(t *testing.T) {
		fixture := newTestFixture()
		loc := seedLocation(t, fixture)
		first := seedStockItem(t, fixture, loc.ID, 5, 0, false)
		service := NewInventoryService(fixture.scope)

		_, err := service.BulkAdjust(ctx, BulkAdjustRequest{
			StockLocationID: loc.ID,
			Originator:      "SUPPLIER",
			Lines: []BulkAdjustLine{
				{VariantID: first.VariantID, Quantity: 10},
				{VariantID: uuid.New(), Quantity: 1},
			},
		})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("rejects unknown originator", func(t *testing.T) {
		fixture := newTestFixture()
		service := NewInventoryService(fixture.scope)

		_, err := service.BulkAdjust(ctx, BulkAdjustRequest{
			StockLocationID: uuid.New(),
			Originator:      "GIFT",
			Lines:           []BulkAdjustLine{{VariantID: uuid.New(), Quantity: 1}},
		})
		assert.Equal(t, "INVALID_ORIGINATOR", shared.ErrorCode(err))
	})
}

func TestInventoryServiceReserveReleaseShip(t *testing.T) {
	ctx := context.Background()

	t.Run("full reservation lifecycle", func(t *testing.T) {
		fixture := newTestFixture()
		loc := seedLocation(t, fixture)
		item := seedStockItem(t, fixture, loc.ID, 10, 0, true)
		service := NewInventoryService(fixture.scope)
		orderID := uuid.New()

		reserved, err := service.Reserve(ctx, item.ID, ReserveStockRequest{Quantity: 4, OrderID: orderID})
		require.NoError(t, err)
		assert.Equal(t, int64(4), reserved.Item.QuantityReserved)
		assert.Equal(t, int64(10), reserved.Item.QuantityOnHand)

		released, err := service.Release(ctx, item.ID, ReleaseStockRequest{Quantity: 1, OrderID: orderID})
		require.NoError(t, err)
		assert.Equal(t, int64(3), released.Item.QuantityReserved)

		shipped, err := service.ConfirmShipment(ctx, item.ID, ConfirmShipmentRequest{Quantity: 3, ShipmentID: uuid.New()})
		require.NoError(t, err)
		assert.Equal(t, int64(7), shipped.Item.QuantityOnHand)
		assert.Equal(t, int64(0), shipped.Item.QuantityReserved)
	})

	t.Run("non-backorderable reservation fails on insufficient stock", func(t *testing.T) {
		fixture := newTestFixture()
		loc := seedLocation(t, fixture)
		item := seedStockItem(t, fixture, loc.ID, 2, 0, false)
		service := NewInventoryService(fixture.scope)

		_, err := service.Reserve(ctx, item.ID, ReserveStockRequest{Quantity: 3, OrderID: uuid.New()})
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
	})

	t.Run("missing item yields not found", func(t *testing.T) {
		fixture := newTestFixture()
		service := NewInventoryService(fixture.scope)

		_, err := service.Reserve(ctx, uuid.New(), ReserveStockRequest{Quantity: 1, OrderID: uuid.New()})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestInventoryServiceCorrectReserved(t *testing.T) {
	ctx := context.Background()

	t.Run("correction returns item and movement", func(t *testing.T) {
		fixture := newTestFixture()
		loc := seedLocation(t, fixture)
		item := seedStockItem(t, fixture, loc.ID, 10, 5, true)
		service := NewInventoryService(fixture.scope)

		resp, err := service.CorrectReserved(ctx, item.ID, CorrectReservedRequest{QuantityReserved: 2, Reason: "cycle count"})
		require.NoError(t, err)
		assert.Equal(t, int64(2), resp.Item.QuantityReserved)
		require.NotNil(t, resp.Movement)
		assert.Equal(t, int64(3), resp.Movement.Quantity)
	})

	t.Run("no-op correction returns no movement", func(t *testing.T) {
		fixture := newTestFixture()
		loc := seedLocation(t, fixture)
		item := seedStockItem(t, fixture, loc.ID, 10, 5, true)
		service := NewInventoryService(fixture.scope)

		resp, err := service.CorrectReserved(ctx, item.ID, CorrectReservedRequest{QuantityReserved: 5, Reason: "cycle count"})
		require.NoError(t, err)
		assert.Nil(t, resp.Movement)
		assert.Equal(t, item.Version, resp.Item.Version)

		// Repeating the correction keeps succeeding; nothing to save means
		// no version race to lose.
		again, err := service.CorrectReserved(ctx, item.ID, CorrectReservedRequest{QuantityReserved: 5, Reason: "cycle count"})
		require.NoError(t, err)
		assert.Equal(t, item.Version, again.Item.Version)
	})
}

func TestInventoryServiceDeleteStockItem(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes empty item", func(t *testing.T) {
		fixture := newTestFixture()
		loc := seedLocation(t, fixture)
		item := seedStockItem(t, fixture, loc.ID, 0, 0, true)
		service := NewInventoryService(fixture.scope)

		require.NoError(t, service.DeleteStockItem(ctx, item.ID))
		_, err := service.GetByID(ctx, item.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("refuses items holding stock or reservations", func(t *testing.T) {
		fixture := newTestFixture()
		loc := seedLocation(t, fixture)
		withStock := seedStockItem(t, fixture, loc.ID, 3, 0, true)
		service := NewInventoryService(fixture.scope)

		err := service.DeleteStockItem(ctx, withStock.ID)
		assert.Equal(t, "CANNOT_DELETE_WITH_STOCK", shared.ErrorCode(err))
	})
}
