package inventory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockledger/backend/internal/domain/inventory"
	"github.com/stockledger/backend/internal/domain/shared"
)

func TestFulfillmentServiceCreateUnit(t *testing.T) {
	ctx := context.Background()

	t.Run("creates on-hand unit with location and serial", func(t *testing.T) {
		fixture := newTestFixture()
		loc := seedLocation(t, fixture)
		service := NewFulfillmentService(fixture.scope)

		resp, err := service.CreateUnit(ctx, CreateInventoryUnitRequest{
			VariantID:       uuid.New(),
			OrderID:         uuid.New(),
			LineItemID:      uuid.New(),
			Quantity:        2,
			StockLocationID: &loc.ID,
			SerialNumber:    "SN-100",
		})
		require.NoError(t, err)

		assert.Equal(t, inventory.UnitStateOnHand.String(), resp.State)
		assert.Equal(t, "SN-100", resp.SerialNumber)
		require.NotNil(t, resp.StockLocationID)
		assert.Equal(t, loc.ID, *resp.StockLocationID)
	})

	t.Run("creates backordered unit", func(t *testing.T) {
		fixture := newTestFixture()
		service := NewFulfillmentService(fixture.scope)

		resp, err := service.CreateUnit(ctx, CreateInventoryUnitRequest{
			VariantID:   uuid.New(),
			OrderID:     uuid.New(),
			LineItemID:  uuid.New(),
			Quantity:    1,
			Backordered: true,
		})
		require.NoError(t, err)
		assert.Equal(t, inventory.UnitStateBackordered.String(), resp.State)
	})

	t.Run("unknown location is rejected", func(t *testing.T) {
		fixture := newTestFixture()
		service := NewFulfillmentService(fixture.scope)
		missing := uuid.New()

		_, err := service.CreateUnit(ctx, CreateInventoryUnitRequest{
			VariantID:       uuid.New(),
			OrderID:         uuid.New(),
			LineItemID:      uuid.New(),
			Quantity:        1,
			StockLocationID: &missing,
		})
		assert.Equal(t, "INVALID_LOCATION", shared.ErrorCode(err))
	})
}

func TestFulfillmentServiceLifecycle(t *testing.T) {
	ctx := context.Background()

	createUnit := func(t *testing.T, fixture *testFixture, service *FulfillmentService, backordered bool) *InventoryUnitResponse {
		t.Helper()
		resp, err := service.CreateUnit(ctx, CreateInventoryUnitRequest{
			VariantID:   uuid.New(),
			OrderID:     uuid.New(),
			LineItemID:  uuid.New(),
			Quantity:    2,
			Backordered: backordered,
		})
		require.NoError(t, err)
		return resp
	}

	t.Run("ship then return", func(t *testing.T) {
		fixture := newTestFixture()
		publisher := NewMockEventPublisher()
		service := NewFulfillmentService(fixture.scope)
		service.SetEventPublisher(publisher)

		unit := createUnit(t, fixture, service, false)
		shipmentID := uuid.New()

		shipped, err := service.Ship(ctx, unit.ID, ShipUnitRequest{ShipmentID: &shipmentID})
		require.NoError(t, err)
		assert.Equal(t, inventory.UnitStateShipped.String(), shipped.State)
		require.NotNil(t, shipped.ShipmentID)
		assert.Equal(t, shipmentID, *shipped.ShipmentID)

		returned, err := service.Return(ctx, unit.ID)
		require.NoError(t, err)
		assert.Equal(t, inventory.UnitStateReturned.String(), returned.State)

		assert.Len(t, publisher.GetEventsByType(inventory.EventTypeInventoryUnitShipped), 1)
		assert.Len(t, publisher.GetEventsByType(inventory.EventTypeInventoryUnitReturned), 1)
	})

	t.Run("backordered unit cannot ship", func(t *testing.T) {
		fixture := newTestFixture()
		service := NewFulfillmentService(fixture.scope)
		unit := createUnit(t, fixture, service, true)

		_, err := service.Ship(ctx, unit.ID, ShipUnitRequest{})
		assert.Equal(t, "CANNOT_SHIP_FROM_BACKORDERED", shared.ErrorCode(err))
	})

	t.Run("cancel pending unit", func(t *testing.T) {
		fixture := newTestFixture()
		service := NewFulfillmentService(fixture.scope)
		unit := createUnit(t, fixture, service, false)

		canceled, err := service.Cancel(ctx, unit.ID)
		require.NoError(t, err)
		assert.Equal(t, inventory.UnitStateCanceled.String(), canceled.State)
	})

	t.Run("repeated cancel keeps succeeding", func(t *testing.T) {
		fixture := newTestFixture()
		service := NewFulfillmentService(fixture.scope)
		unit := createUnit(t, fixture, service, false)

		first, err := service.Cancel(ctx, unit.ID)
		require.NoError(t, err)

		again, err := service.Cancel(ctx, unit.ID)
		require.NoError(t, err)
		assert.Equal(t, inventory.UnitStateCanceled.String(), again.State)
		assert.Equal(t, first.Version, again.Version)
	})

	t.Run("repeated return keeps succeeding", func(t *testing.T) {
		fixture := newTestFixture()
		service := NewFulfillmentService(fixture.scope)
		unit := createUnit(t, fixture, service, false)

		_, err := service.Ship(ctx, unit.ID, ShipUnitRequest{})
		require.NoError(t, err)
		first, err := service.Return(ctx, unit.ID)
		require.NoError(t, err)

		again, err := service.Return(ctx, unit.ID)
		require.NoError(t, err)
		assert.Equal(t, inventory.UnitStateReturned.String(), again.State)
		assert.Equal(t, first.Version, again.Version)
	})

	t.Run("relocating to the current location changes nothing", func(t *testing.T) {
		fixture := newTestFixture()
		loc := seedLocation(t, fixture)
		service := NewFulfillmentService(fixture.scope)

		created, err := service.CreateUnit(ctx, CreateInventoryUnitRequest{
			VariantID:       uuid.New(),
			OrderID:         uuid.New(),
			LineItemID:      uuid.New(),
			Quantity:        1,
			StockLocationID: &loc.ID,
		})
		require.NoError(t, err)

		moved, err := service.Relocate(ctx, created.ID, RelocateUnitRequest{StockLocationID: loc.ID})
		require.NoError(t, err)
		assert.Equal(t, created.Version, moved.Version)
	})

	t.Run("list by order", func(t *testing.T) {
		fixture := newTestFixture()
		service := NewFulfillmentService(fixture.scope)
		orderID := uuid.New()

		for range 3 {
			_, err := service.CreateUnit(ctx, CreateInventoryUnitRequest{
				VariantID:  uuid.New(),
				OrderID:    orderID,
				LineItemID: uuid.New(),
				Quantity:   1,
			})
			require.NoError(t, err)
		}

		units, err := service.ListByOrder(ctx, orderID)
		require.NoError(t, err)
		assert.Len(t, units, 3)
	})
}

func TestFulfillmentServiceSplit(t *testing.T) {
	ctx := context.Background()

	t.Run("persists both halves", func(t *testing.T) {
		fixture := newTestFixture()
		service := NewFulfillmentService(fixture.scope)

		created, err := service.CreateUnit(ctx, CreateInventoryUnitRequest{
			VariantID:  uuid.New(),
			OrderID:    uuid.New(),
			LineItemID: uuid.New(),
			Quantity:   5,
		})
		require.NoError(t, err)

		split, err := service.Split(ctx, created.ID, SplitUnitRequest{Quantity: 2})
		require.NoError(t, err)

		assert.Equal(t, int64(3), split.Original.Quantity)
		assert.Equal(t, int64(2), split.Extracted.Quantity)
		assert.NotEqual(t, split.Original.ID, split.Extracted.ID)

		stored, err := service.GetByID(ctx, split.Extracted.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), stored.Quantity)
	})

	t.Run("rejects splitting the whole quantity", func(t *testing.T) {
		fixture := newTestFixture()
		service := NewFulfillmentService(fixture.scope)

		created, err := service.CreateUnit(ctx, CreateInventoryUnitRequest{
			VariantID:  uuid.New(),
			OrderID:    uuid.New(),
			LineItemID: uuid.New(),
			Quantity:   2,
		})
		require.NoError(t, err)

		_, err = service.Split(ctx, created.ID, SplitUnitRequest{Quantity: 2})
		assert.Equal(t, "INVALID_SPLIT_QUANTITY", shared.ErrorCode(err))
	})
}
